// Package catalog loads, decodes and validates dialogue catalogs.
//
// The built-in catalog is embedded from default.yaml. Alternative catalogs
// come from YAML files or from the intents JSON column of a chatbot
// configuration row.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/javanetict/jnsuite/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Document is the on-disk representation of a catalog.
type Document struct {
	Name    string        `yaml:"name"`
	Version string        `yaml:"version"`
	Intents []domain.Node `yaml:"intents"`
}

var defaultCatalog = sync.OnceValue(func() *domain.Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
})

// Default returns the built-in catalog.
func Default() *domain.Catalog {
	return defaultCatalog()
}

// DefaultYAML returns the raw embedded catalog document.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultYAML))
	copy(out, defaultYAML)
	return out
}

// Parse decodes a YAML catalog document and validates it.
func Parse(data []byte) (*domain.Catalog, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	c := domain.NewCatalog(doc.Name, doc.Version, doc.Intents)
	if _, err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Decode converts a generic intents value (as stored in a JSON column) into
// a validated catalog. raw is expected to be a list of objects with the keys
// tag, patterns, responses, followups and flags.
func Decode(name, version string, raw any) (*domain.Catalog, error) {
	var nodes []domain.Node
	if err := mapstructure.Decode(raw, &nodes); err != nil {
		return nil, fmt.Errorf("failed to decode intents: %w", err)
	}
	c := domain.NewCatalog(name, version, nodes)
	if _, err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Encode turns a catalog back into the generic form accepted by Decode.
func Encode(c *domain.Catalog) []map[string]any {
	nodes := c.Nodes()
	out := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		item := map[string]any{
			"tag":       n.Tag,
			"patterns":  n.Patterns,
			"responses": n.Responses,
		}
		if len(n.Followups) > 0 {
			item["followups"] = n.Followups
		}
		if len(n.Flags) > 0 {
			flags := make([]string, len(n.Flags))
			for i, f := range n.Flags {
				flags[i] = string(f)
			}
			item["flags"] = flags
		}
		out = append(out, item)
	}
	return out
}

// Validate checks structural integrity of a catalog.
// Hard failures (no nodes, blank or duplicate tags, unknown flags) are returned
// as an error wrapping domain.ErrInvalidCatalog. Soft issues such as dangling
// followups or nodes without responses are returned as warnings.
func Validate(c *domain.Catalog) ([]string, error) {
	if c == nil || c.Len() == 0 {
		return nil, fmt.Errorf("%w: no intents", domain.ErrInvalidCatalog)
	}

	var (
		problems []string
		warnings []string
		seen     = make(map[string]bool, c.Len())
	)
	for i, n := range c.Nodes() {
		tag := strings.TrimSpace(n.Tag)
		switch {
		case tag == "":
			problems = append(problems, fmt.Sprintf("intent #%d has no tag", i))
			continue
		case seen[tag]:
			problems = append(problems, fmt.Sprintf("duplicate tag %q", tag))
		}
		seen[tag] = true

		if tag == domain.TagOutOfScope {
			problems = append(problems, fmt.Sprintf("tag %q is reserved", tag))
		}
		for _, f := range n.Flags {
			if !knownFlag(f) {
				problems = append(problems, fmt.Sprintf("intent %q raises unknown flag %q", tag, f))
			}
		}
		if len(n.Responses) == 0 {
			warnings = append(warnings, fmt.Sprintf("intent %q has no responses", tag))
		}
		if len(n.Patterns) == 0 {
			warnings = append(warnings, fmt.Sprintf("intent %q has no patterns", tag))
		}
	}

	for _, n := range c.Nodes() {
		for _, f := range n.Followups {
			if !seen[f] {
				warnings = append(warnings, fmt.Sprintf("intent %q follows up to unknown tag %q", n.Tag, f))
			}
		}
	}

	if len(problems) > 0 {
		return warnings, fmt.Errorf("%w: %s", domain.ErrInvalidCatalog, strings.Join(problems, "; "))
	}
	return warnings, nil
}

func knownFlag(f domain.Flag) bool {
	switch f {
	case domain.FlagDemoShown, domain.FlagReadyForSales, domain.FlagProposalRequested:
		return true
	}
	return false
}
