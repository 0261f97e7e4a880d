package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/javanetict/jnsuite/internal/logging"
	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/javanetict/jnsuite/pkg/ports"
)

// BuiltIn serves the embedded default catalog.
type BuiltIn struct{}

// Catalog implements ports.CatalogProvider.
func (BuiltIn) Catalog(context.Context) (*domain.Catalog, error) {
	return Default(), nil
}

// File reads a YAML catalog from disk on every call.
type File struct {
	Path string
}

// Catalog implements ports.CatalogProvider.
func (f File) Catalog(context.Context) (*domain.Catalog, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", f.Path, err)
	}
	return Parse(data)
}

// Fallback tries each provider in order and returns the first catalog that loads.
// When every provider fails the built-in catalog is returned, so Fallback never errors.
type Fallback struct {
	providers []ports.CatalogProvider
	logger    *slog.Logger
}

// NewFallback creates a Fallback over the given providers.
func NewFallback(logger *slog.Logger, providers ...ports.CatalogProvider) *Fallback {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Fallback{providers: providers, logger: logger}
}

// Catalog implements ports.CatalogProvider.
func (f *Fallback) Catalog(ctx context.Context) (*domain.Catalog, error) {
	for i, p := range f.providers {
		c, err := p.Catalog(ctx)
		if err == nil && c != nil {
			return c, nil
		}
		if err != nil {
			f.logger.Warn("catalog provider failed, trying next", "index", i, "err", err)
		}
	}
	return Default(), nil
}

// Cache memoises the catalog of another provider until Invalidate is called
// or the optional TTL elapses. Errors are not cached.
type Cache struct {
	source ports.CatalogProvider
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	current  *domain.Catalog
	loadedAt time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL expires the cached catalog after ttl. Zero keeps it until invalidated.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache wraps source with a cache.
func NewCache(source ports.CatalogProvider, opts ...CacheOption) *Cache {
	c := &Cache{source: source, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Catalog implements ports.CatalogProvider.
func (c *Cache) Catalog(ctx context.Context) (*domain.Catalog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && (c.ttl == 0 || c.now().Sub(c.loadedAt) < c.ttl) {
		return c.current, nil
	}

	fresh, err := c.source.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	c.current = fresh
	c.loadedAt = c.now()
	return fresh, nil
}

// Invalidate implements ports.Invalidator.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
}
