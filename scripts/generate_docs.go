// Command generate_docs writes the settings reference as Markdown and HTML.
//
//	go run ./scripts <out-dir>
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/nvset/pkg/catalog"
	"github.com/oakwood-commons/nvset/pkg/settings"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <out-dir>\n", os.Args[0])
		os.Exit(1)
	}
	outDir := os.Args[1]
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", outDir, err)
		os.Exit(1)
	}

	md := settingsMarkdown(catalog.All())
	mdPath := filepath.Join(outDir, "settings.md")
	if err := os.WriteFile(mdPath, md, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", mdPath, err)
		os.Exit(1)
	}

	htmlPath := filepath.Join(outDir, "index.html")
	f, err := os.Create(htmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", htmlPath, err)
		os.Exit(1)
	}
	if err := writePage(f, md); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", htmlPath, err)
		os.Exit(1)
	}
	f.Close()

	fmt.Fprintf(os.Stderr, "Generated %s and %s\n", mdPath, htmlPath)
}

// settingsMarkdown renders one table row per known setting.
func settingsMarkdown(defs []catalog.SettingDef) []byte {
	var sb strings.Builder
	sb.WriteString("# " + settings.CliBinaryName + " settings reference\n\n")
	sb.WriteString("Keys written to `~/.neovate/config.json`. Unknown keys are kept as they are.\n\n")
	sb.WriteString("| Key | Kind | Default | Description |\n")
	sb.WriteString("| --- | --- | --- | --- |\n")
	for _, d := range defs {
		kind := d.Kind.String()
		if len(d.Options) > 0 {
			kind += ": " + strings.Join(wrapCode(d.Options), ", ")
		}
		def := d.DefaultHint
		if def != "" {
			def = "`" + def + "`"
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n", d.Key, kind, def, escapeCell(d.Description))
	}
	sb.WriteString("\n## Notification sounds\n\n")
	sb.WriteString(strings.Join(wrapCode(catalog.MacOSSounds), ", ") + "\n")
	return []byte(sb.String())
}

func wrapCode(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = "`" + s + "`"
	}
	return out
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}

func renderHTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse(md)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.Render(doc, renderer)
}

func writePage(w io.Writer, md []byte) error {
	if _, err := fmt.Fprintf(w, `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>%s settings</title>
  <style>
    body { font-family: system-ui, -apple-system, sans-serif; max-width: 960px; margin: 40px auto; padding: 0 20px; line-height: 1.6; color: #333; }
    table { border-collapse: collapse; width: 100%%; }
    th, td { border-bottom: 1px solid #ddd; padding: 6px 8px; text-align: left; vertical-align: top; }
    code { background: #f4f4f4; padding: 1px 4px; border-radius: 3px; }
  </style>
</head>
<body>
`, settings.CliBinaryName); err != nil {
		return err
	}
	if _, err := w.Write(renderHTML(md)); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}
