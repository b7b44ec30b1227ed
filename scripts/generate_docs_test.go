package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/nvset/pkg/catalog"
)

func TestSettingsMarkdown(t *testing.T) {
	md := string(settingsMarkdown(catalog.All()))
	assert.True(t, strings.HasPrefix(md, "# nvset settings reference\n"))
	for _, d := range catalog.All() {
		assert.Contains(t, md, "| `"+d.Key+"` |")
	}
	assert.Contains(t, md, "`Funk`")
}

func TestEscapeCell(t *testing.T) {
	assert.Equal(t, `a \| b c`, escapeCell("a | b\nc"))
}

func TestWritePage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePage(&buf, []byte("# Title\n\n| A | B |\n| --- | --- |\n| `x` | y |\n")))
	out := buf.String()
	assert.Contains(t, out, "<title>nvset settings</title>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<code>x</code>")
	assert.True(t, strings.HasSuffix(out, "</html>\n"))
}
