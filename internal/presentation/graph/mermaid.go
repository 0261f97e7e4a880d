// Package graph renders intent catalogs as Mermaid flowcharts.
package graph

import (
	"fmt"
	"strings"

	"github.com/javanetict/jnsuite/pkg/domain"
)

// GraphOverlay contains session data to highlight on the graph.
type GraphOverlay struct {
	VisitedIntents []string
	CurrentIntent  string
}

// GenerateMermaid produces a Mermaid flowchart of the catalog. Each intent
// is a node and each followup an edge. Shapes:
//   - greeting: ((Circle))
//   - intents raising a session flag: [[Subroutine]]
//   - default: [Rectangle]
//
// Followups pointing at tags missing from the catalog are drawn dotted.
func GenerateMermaid(c *domain.Catalog, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range c.Nodes() {
		safeID := sanitizeMermaidID(node.Tag)

		opener, closer := "[", "]"
		switch {
		case node.Tag == domain.TagGreeting:
			opener, closer = "((", "))"
		case len(node.Flags) > 0:
			opener, closer = "[[", "]]"
		}

		label := node.Tag
		if len(node.Flags) > 0 {
			flags := make([]string, len(node.Flags))
			for i, f := range node.Flags {
				flags[i] = string(f)
			}
			label = fmt.Sprintf("%s <br/> %s", node.Tag, strings.Join(flags, ", "))
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		for _, tag := range node.Followups {
			arrow := "-->"
			if _, ok := c.Lookup(tag); !ok {
				arrow = "-.->"
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, sanitizeMermaidID(tag))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, tag := range overlay.VisitedIntents {
			if _, ok := c.Lookup(tag); !ok {
				continue
			}
			safeID := sanitizeMermaidID(tag)
			if !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if _, ok := c.Lookup(overlay.CurrentIntent); ok {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentIntent))
		}
	}

	return sb.String()
}

// OverlayFromHistory marks the intents the bot answered with in a session.
// The last one is the current intent.
func OverlayFromHistory(msgs []domain.Message) *GraphOverlay {
	o := &GraphOverlay{}
	for _, m := range msgs {
		if m.Role != domain.RoleBot || m.Intent == "" {
			continue
		}
		o.VisitedIntents = append(o.VisitedIntents, m.Intent)
		o.CurrentIntent = m.Intent
	}
	return o
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
