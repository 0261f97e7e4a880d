// Package config loads jnsuite settings from a YAML file with environment
// overrides on top.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	LLM      LLMConfig      `yaml:"llm"`
	Auth     AuthConfig     `yaml:"auth"`
	Mail     MailConfig     `yaml:"mail"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	History  HistoryConfig  `yaml:"history"`
}

type ServerConfig struct {
	Port        string        `yaml:"port"`
	CORSOrigins []string      `yaml:"cors_origins"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

type DatabaseConfig struct {
	Type string `yaml:"type"` // sqlite, mysql
	DSN  string `yaml:"dsn"`
}

// RedisConfig enables the shared session store when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
	Prefix   string        `yaml:"prefix"`
}

type LLMConfig struct {
	OpenAIKey      string  `yaml:"openai_key"`
	OpenAIModel    string  `yaml:"openai_model"`
	AnthropicKey   string  `yaml:"anthropic_key"`
	AnthropicModel string  `yaml:"anthropic_model"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float64 `yaml:"temperature"`
}

type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret"`
	AccessTTL   time.Duration `yaml:"access_ttl"`
	RefreshTTL  time.Duration `yaml:"refresh_ttl"`
	FrontendURL string        `yaml:"frontend_url"`
}

type MailConfig struct {
	From    string `yaml:"from"`
	Contact string `yaml:"contact"`
}

// CatalogConfig selects where intents come from. File wins over the
// database; CacheTTL of zero keeps the catalog until invalidated.
type CatalogConfig struct {
	File     string        `yaml:"file"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// HistoryConfig controls how chat messages are stored. Keys are base64
// AES-256 keys; FallbackKeys only decrypt.
type HistoryConfig struct {
	MaskPII       bool     `yaml:"mask_pii"`
	EncryptionKey string   `yaml:"encryption_key"`
	FallbackKeys  []string `yaml:"fallback_keys"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8000",
			CORSOrigins: []string{"http://localhost:3000", "https://javanetict.com"},
			ReadTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			DSN:  "./data/jnsuite.db",
		},
		Redis: RedisConfig{
			TTL:    24 * time.Hour,
			Prefix: "jnsuite:session:",
		},
		LLM: LLMConfig{
			OpenAIModel:    "gpt-3.5-turbo",
			AnthropicModel: "claude-3-haiku-20240307",
			MaxTokens:      500,
			Temperature:    0.7,
		},
		Auth: AuthConfig{
			JWTSecret:   "change-me",
			AccessTTL:   60 * time.Minute,
			RefreshTTL:  7 * 24 * time.Hour,
			FrontendURL: "https://javanetict.com",
		},
		Mail: MailConfig{
			From:    "noreply@javanetict.com",
			Contact: "admin@javanetict.com",
		},
		Catalog: CatalogConfig{
			CacheTTL: 5 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Path returns CONFIG_PATH, or config.yaml.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.Getenv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}

	str(&c.Server.Port, "JNSUITE_PORT", "PORT")
	if v := getenv("JNSUITE_CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	str(&c.Database.Type, "JNSUITE_DB_TYPE", "DB_TYPE")
	str(&c.Database.DSN, "JNSUITE_DB_DSN", "DB_DSN")
	str(&c.Redis.Addr, "JNSUITE_REDIS_ADDR", "REDIS_ADDR")
	str(&c.Redis.Password, "JNSUITE_REDIS_PASSWORD", "REDIS_PASSWORD")
	str(&c.LLM.OpenAIKey, "OPENAI_API_KEY")
	str(&c.LLM.OpenAIModel, "OPENAI_MODEL")
	str(&c.LLM.AnthropicKey, "ANTHROPIC_API_KEY")
	str(&c.LLM.AnthropicModel, "ANTHROPIC_MODEL")
	str(&c.Auth.JWTSecret, "JNSUITE_JWT_SECRET", "JWT_SECRET")
	str(&c.Auth.FrontendURL, "FRONTEND_URL")
	str(&c.Mail.From, "DEFAULT_FROM_EMAIL")
	str(&c.Mail.Contact, "CONTACT_EMAIL")
	str(&c.Catalog.File, "JNSUITE_CATALOG_FILE")
	str(&c.Log.Level, "JNSUITE_LOG_LEVEL")
	str(&c.Log.File, "JNSUITE_LOG_FILE")
	str(&c.History.EncryptionKey, "JNSUITE_HISTORY_KEY")

	if v := getenv("JNSUITE_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JNSUITE_REDIS_DB: %w", err)
		}
		c.Redis.DB = n
	}
	if v := getenv("JWT_ACCESS_TOKEN_LIFETIME_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JWT_ACCESS_TOKEN_LIFETIME_MINUTES: %w", err)
		}
		c.Auth.AccessTTL = time.Duration(n) * time.Minute
	}
	if v := getenv("JWT_REFRESH_TOKEN_LIFETIME_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JWT_REFRESH_TOKEN_LIFETIME_DAYS: %w", err)
		}
		c.Auth.RefreshTTL = time.Duration(n) * 24 * time.Hour
	}
	if v := getenv("JNSUITE_METRICS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("JNSUITE_METRICS: %w", err)
		}
		c.Metrics.Enabled = b
	}
	if v := getenv("JNSUITE_HISTORY_MASK_PII"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("JNSUITE_HISTORY_MASK_PII: %w", err)
		}
		c.History.MaskPII = b
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
