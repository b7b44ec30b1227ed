// Package formatter renders configuration values for the terminal: JSON,
// YAML and TOML documents and a KEY/VALUE style table for setting lists.
package formatter

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/oakwood-commons/nvset/pkg/document"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatTree Format = "tree"
)

// Formats lists the accepted output formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML, FormatTree}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (json, yaml, toml, tree)", s)
}

// Options tune Render.
type Options struct {
	// Color highlights JSON output for a terminal.
	Color bool
	// Tree tunes FormatTree output.
	Tree TreeOptions
}

// Render encodes a document value. JSON output matches what the editor
// writes to disk.
func Render(v any, f Format, opts Options) (string, error) {
	switch f {
	case FormatJSON, "":
		out := document.Stringify(v, "  ") + "\n"
		if opts.Color {
			out = ColorizeJSON(out)
		}
		return out, nil
	case FormatYAML:
		return FormatYAMLValue(v, YAMLFormatOptions{LiteralBlockStrings: true})
	case FormatTOML:
		return FormatTOMLValue(v)
	case FormatTree:
		return FormatAsTree(v, opts.Tree), nil
	default:
		return "", fmt.Errorf("unknown output format %q", f)
	}
}

// TableColors controls the rendered colors for tables. Nil fields keep the
// defaults.
type TableColors struct {
	HeaderFG       color.Color
	HeaderBG       color.Color
	KeyColor       color.Color
	ValueColor     color.Color
	SeparatorColor color.Color
}

var (
	headerStyle    lipgloss.Style
	keyStyle       lipgloss.Style
	valueStyle     lipgloss.Style
	separatorStyle lipgloss.Style
)

// SetTableTheme replaces the table styles.
func SetTableTheme(tc TableColors) {
	pick := func(c color.Color, def string) color.Color {
		if c == nil {
			return lipgloss.Color(def)
		}
		return c
	}
	headerStyle = lipgloss.NewStyle().Bold(true).
		Foreground(pick(tc.HeaderFG, "12")).
		Background(pick(tc.HeaderBG, "236"))
	keyStyle = lipgloss.NewStyle().Foreground(pick(tc.KeyColor, "14"))
	valueStyle = lipgloss.NewStyle().Foreground(pick(tc.ValueColor, "248"))
	separatorStyle = lipgloss.NewStyle().Foreground(pick(tc.SeparatorColor, "240"))
}

//nolint:gochecknoinits // default table theme for package consumers
func init() {
	SetTableTheme(TableColors{})
}

// RenderRows prints rows under the given headers, one column per header.
// Columns are sized to their content; the last column is truncated to fit
// maxWidth when it is positive.
func RenderRows(headers []string, rows [][]string, noColor bool, maxWidth int) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := range headers {
			if i < len(row) {
				if w := lipgloss.Width(row[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	const sep = "  "
	if maxWidth > 0 && len(widths) > 0 {
		fixed := 0
		for _, w := range widths[:len(widths)-1] {
			fixed += w + len(sep)
		}
		if last := maxWidth - fixed; last < widths[len(widths)-1] {
			widths[len(widths)-1] = max(last, 5)
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(int) lipgloss.Style) {
		parts := make([]string, len(widths))
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			cell = padRight(Truncate(cell, w), w)
			if !noColor {
				cell = style(i).Render(cell)
			}
			parts[i] = cell
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, sep), " ") + "\n")
	}

	writeRow(headers, func(int) lipgloss.Style { return headerStyle })
	total := 0
	for _, w := range widths {
		total += w
	}
	line := strings.Repeat("─", total+len(sep)*(len(widths)-1))
	if !noColor {
		line = separatorStyle.Render(line)
	}
	b.WriteString(line + "\n")
	for _, row := range rows {
		writeRow(row, func(i int) lipgloss.Style {
			if i == 0 {
				return keyStyle
			}
			return valueStyle
		})
	}
	return b.String()
}

// Truncate shortens s to maxLen display cells, ending with "..." when there
// is room for it.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || lipgloss.Width(s) <= maxLen {
		return s
	}
	target := maxLen
	suffix := ""
	if maxLen >= 3 {
		target = maxLen - 3
		suffix = "..."
	}
	var b strings.Builder
	width := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if width+rw > target {
			break
		}
		b.WriteRune(r)
		width += rw
	}
	return b.String() + suffix
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
