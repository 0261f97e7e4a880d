package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"       _ _   _   ____        _ _       ", "#1A237E"},
	{"      | | \\ | | / ___| _   _(_) |_ ___ ", "#283593"},
	{"   _  | |  \\| | \\___ \\| | | | | __/ _ \\", "#3949AB"},
	{"  | |_| | |\\  |  ___) | |_| | | ||  __/", "#00C853"},
	{"   \\___/|_| \\_| |____/ \\__,_|_|\\__\\___|", "#7B1FA2"},
}

// PrintBanner writes the JN Suite banner in the brand colours.
func PrintBanner(w io.Writer, p termenv.Profile, version string) {
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("   JavaNet edTech Suite "+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}

// FormatSuggestions numbers the follow-up suggestions so they can be
// picked by number.
func FormatSuggestions(p termenv.Profile, suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	var b strings.Builder
	for i, s := range suggestions {
		fmt.Fprintf(&b, "  %s %s\n", p.String(fmt.Sprintf("[%d]", i+1)).Foreground(p.Color("#00C853")), s)
	}
	return b.String()
}
