package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"), env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
database:
  type: mysql
  dsn: "user:pw@tcp(db:3306)/jn"
redis:
  addr: "localhost:6379"
  ttl: 2h
llm:
  openai_key: from-file
`), 0o644))

	cfg, err := LoadWithEnv(path, env(map[string]string{
		"OPENAI_API_KEY":                    "from-env",
		"JNSUITE_CORS_ORIGINS":              "https://a.example, ,https://b.example",
		"JWT_ACCESS_TOKEN_LIFETIME_MINUTES": "15",
		"JNSUITE_METRICS":                   "false",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, 2*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "jnsuite:session:", cfg.Redis.Prefix, "defaults survive a partial file")
	assert.Equal(t, "from-env", cfg.LLM.OpenAIKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o644))
	_, err := LoadWithEnv(path, env(nil))
	assert.Error(t, err)

	_, err = LoadWithEnv("", env(map[string]string{"JNSUITE_REDIS_DB": "two"}))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Catalog.File = "intents.yaml"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadWithEnv(path, env(nil))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
