package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// DefaultWidth is used when the terminal size is unknown.
const DefaultWidth = 80

// NewRenderer returns a function that renders bot replies as markdown.
// Replies fall back to plain text when glamour cannot be initialised.
func NewRenderer(width int) func(string) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return Plain
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// Plain renders text as is, with a trailing newline.
func Plain(text string) (string, error) {
	return strings.TrimRight(text, "\n") + "\n", nil
}
