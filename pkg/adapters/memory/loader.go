package memory

import (
	"context"
	"fmt"

	"github.com/javanetict/jnsuite/pkg/domain"
)

// Loader implements ports.CatalogProvider over a fixed set of nodes.
type Loader struct {
	catalog *domain.Catalog
}

// NewLoader wraps an existing catalog.
func NewLoader(c *domain.Catalog) *Loader {
	return &Loader{catalog: c}
}

// NewFromNodes builds a catalog from domain objects, keeping their order.
// This improves DX for tests.
func NewFromNodes(nodes ...domain.Node) (*Loader, error) {
	for i, n := range nodes {
		if n.Tag == "" {
			return nil, fmt.Errorf("node #%d missing tag", i)
		}
	}
	return &Loader{catalog: domain.NewCatalog("memory", "0", nodes)}, nil
}

// Catalog returns the wrapped catalog.
func (l *Loader) Catalog(ctx context.Context) (*domain.Catalog, error) {
	if l.catalog == nil {
		return nil, domain.ErrNodeNotFound
	}
	return l.catalog, nil
}
