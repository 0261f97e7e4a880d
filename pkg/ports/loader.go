package ports

import (
	"context"

	"github.com/javanetict/jnsuite/pkg/domain"
)

// CatalogProvider defines how the engine retrieves the dialogue catalog.
// Implementations return an immutable value; callers may hold on to it.
type CatalogProvider interface {
	Catalog(ctx context.Context) (*domain.Catalog, error)
}

// Invalidator is implemented by providers that cache their catalog.
// Invalidate drops the cached value so the next call reloads it.
type Invalidator interface {
	Invalidate()
}
