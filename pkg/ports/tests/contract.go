package tests

import (
	"context"
	"testing"

	"github.com/javanetict/jnsuite/pkg/ports"
)

// CatalogProviderContractTest is a reusable test suite that verifies if an adapter complies with ports.CatalogProvider.
func CatalogProviderContractTest(t *testing.T, provider ports.CatalogProvider, wantTags []string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Catalog_Tags", func(t *testing.T) {
		catalog, err := provider.Catalog(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading catalog: %v", err)
		}
		got := catalog.Tags()
		if len(got) != len(wantTags) {
			t.Fatalf("expected %d nodes, got %d (%v)", len(wantTags), len(got), got)
		}
		for i, tag := range wantTags {
			if got[i] != tag {
				t.Errorf("node %d: got tag %q, want %q", i, got[i], tag)
			}
		}
	})

	t.Run("Catalog_Lookup", func(t *testing.T) {
		catalog, err := provider.Catalog(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading catalog: %v", err)
		}
		for _, tag := range wantTags {
			if _, ok := catalog.Lookup(tag); !ok {
				t.Errorf("node %s missing from index", tag)
			}
		}
		if _, ok := catalog.Lookup("non-existent-node"); ok {
			t.Error("expected lookup miss for non-existent node")
		}
	})

	t.Run("Catalog_Immutable", func(t *testing.T) {
		first, err := provider.Catalog(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading catalog: %v", err)
		}
		nodes := first.Nodes()
		if len(nodes) == 0 {
			return
		}
		nodes[0].Tag = "mutated"
		second, err := provider.Catalog(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading catalog: %v", err)
		}
		if second.Tags()[0] == "mutated" {
			t.Error("catalog nodes must not be mutable through Nodes()")
		}
	})
}
