package formatter

import (
	"os"

	"github.com/tidwall/pretty"
	"golang.org/x/term"
)

// ColorizeJSON adds terminal colors to JSON text.
func ColorizeJSON(text string) string {
	return string(pretty.Color([]byte(text), pretty.TerminalStyle))
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of stdout, or fallback when unknown.
func TerminalWidth(fallback int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
