// Package testutils holds fixtures shared by package tests.
package testutils

import (
	"testing"

	"github.com/javanetict/jnsuite/pkg/adapters/sqldb"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// OpenDB opens a migrated in-memory SQLite database that is closed when the
// test ends. It fails the test immediately on error.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := sqldb.Open("sqlite", ":memory:")
	require.NoError(t, err, "Failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}
