package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/nvset/pkg/catalog"
	"github.com/oakwood-commons/nvset/pkg/reconcile"
)

const (
	minListWidth = 30
	// chromeLines counts the rows around the panes: header, description,
	// input, status, help and the two border rows.
	chromeLines = 7
)

func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m *Model) render() string {
	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n")
	if m.mode == modeMcp {
		b.WriteString(m.mcpView())
	} else {
		b.WriteString(m.panes())
	}
	b.WriteString("\n")
	b.WriteString(m.styles.muted.Render(fit(m.description(), m.width)))
	b.WriteString("\n")
	b.WriteString(m.inputLine())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.styles.muted.Render(fit(m.helpLine(), m.width)))
	return b.String()
}

func (m *Model) headerLine() string {
	st := m.state
	parts := []string{m.styles.title.Render("nvset"), st.Path}
	if st.Exists {
		parts = append(parts, m.styles.muted.Render("[exists]"))
	} else {
		parts = append(parts, m.styles.muted.Render("[new]"))
	}
	if st.Valid {
		parts = append(parts, m.styles.badgeOK.Render("valid JSON"))
	} else {
		parts = append(parts, m.styles.badgeBad.Render("invalid JSON"))
	}
	if st.Dirty {
		parts = append(parts, m.styles.badgeBad.Render("● modified"))
	}
	if st.Loading || st.PluginBusy || st.SkillsBusy {
		parts = append(parts, m.styles.muted.Render("working..."))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) bodyHeight() int {
	return max(m.height-chromeLines, 3)
}

func (m *Model) panes() string {
	listWidth := max(m.width*45/100, minListWidth)
	previewWidth := max(m.width-listWidth-4, 10)
	h := m.bodyHeight()

	var left []string
	if m.mode == modeFields || (m.mode == modeInput && m.editKey == "") {
		left = m.fieldRows(listWidth, h)
	} else {
		left = m.settingRows(listWidth, h)
	}
	right := previewLines(m.state.PreviewText, m.previewOffset, previewWidth, h)

	leftPane := m.styles.pane.Width(listWidth).Height(h).Render(strings.Join(left, "\n"))
	rightPane := m.styles.pane.Width(previewWidth).Height(h).Render(strings.Join(right, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

// window returns the [start, end) range of n rows that keeps cursor visible
// in height rows.
func window(n, cursor, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := cursor - height/2
	start = max(start, 0)
	start = min(start, n-height)
	return start, start + height
}

func (m *Model) settingRows(width, height int) []string {
	if len(m.defs) == 0 {
		return []string{m.styles.muted.Render("no settings match " + fmt.Sprintf("%q", m.state.SearchText))}
	}
	keyWidth := 0
	for _, d := range m.defs {
		keyWidth = max(keyWidth, runewidth.StringWidth(d.Key))
	}
	start, end := window(len(m.defs), m.cursor, height)
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		d := m.defs[i]
		line := runewidth.FillRight(d.Key, keyWidth) + "  " + m.settingValue(d)
		line = runewidth.FillRight(fit(line, width), width)
		if i == m.cursor {
			line = m.styles.selected.Render(line)
		}
		rows = append(rows, line)
	}
	return rows
}

func (m *Model) settingValue(d catalog.SettingDef) string {
	if d.Key == "skills" {
		return "migrate"
	}
	if d.IsComplex() {
		v, ok := m.state.Preview.Get(d.Key)
		return reconcile.FormatComplexValue(v, ok)
	}
	if v, ok := m.state.Form[d.Key]; ok && v != nil && v != "" {
		return formValueText(v)
	}
	return "(" + d.DefaultHint + ")"
}

func (m *Model) fieldRows(width, height int) []string {
	def, _ := m.selected()
	rows := []string{m.styles.title.Render(fit(def.Key+" ›", width))}
	labelWidth := 0
	for _, f := range m.fields {
		labelWidth = max(labelWidth, runewidth.StringWidth(f.label))
	}
	start, end := window(len(m.fields), m.fieldCursor, max(height-1, 1))
	for i := start; i < end; i++ {
		f := m.fields[i]
		val := f.value
		if f.kind != fieldAction && f.kind != fieldInfo {
			val = orUnset(val)
		}
		if f.kind == fieldCycle {
			val = "‹ " + val + " ›"
		}
		line := runewidth.FillRight(f.label, labelWidth) + "  " + val
		line = runewidth.FillRight(fit(line, width), width)
		if i == m.fieldCursor {
			line = m.styles.selected.Render(line)
		}
		rows = append(rows, line)
	}
	return rows
}

func previewLines(text string, offset, width, height int) []string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if offset > len(lines)-1 {
		offset = max(len(lines)-1, 0)
	}
	lines = lines[offset:]
	if len(lines) > height {
		lines = lines[:height]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = fit(l, width)
	}
	return out
}

func (m *Model) mcpView() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("mcpServers"))
	b.WriteString("\n")
	m.mcp.SetHeight(max(m.bodyHeight()-1, 3))
	b.WriteString(m.mcp.View())
	if m.state.McpError != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.errText.Render(m.state.McpError))
	}
	return b.String()
}

func (m *Model) description() string {
	def, ok := m.selected()
	if !ok {
		return ""
	}
	desc := def.Description
	if len(def.Options) > 0 {
		desc += " Options: " + strings.Join(def.Options, ", ") + "."
	}
	return desc
}

func (m *Model) inputLine() string {
	switch m.mode {
	case modeSearch:
		return m.search.View()
	case modeInput:
		label := m.editKey
		if label == "" && m.fieldCursor < len(m.fields) {
			label = m.fields[m.fieldCursor].label
		}
		return m.styles.key.Render(label) + " " + m.input.View()
	}
	if m.state.SearchText != "" {
		return m.styles.muted.Render("filter: " + m.state.SearchText)
	}
	return ""
}

func (m *Model) statusLine() string {
	if m.status == "" {
		return ""
	}
	s := fit(m.status, m.width)
	if m.statusErr {
		return m.styles.errText.Render(s)
	}
	return m.styles.okText.Render(s)
}

func (m *Model) helpLine() string {
	switch m.mode {
	case modeSearch:
		return "type to filter · enter done · esc clear"
	case modeInput:
		return "enter apply · esc cancel · empty clears"
	case modeMcp:
		return "ctrl+f format · ctrl+s save · esc back"
	case modeSkillsDecision:
		return "r replace existing · s skip existing · esc cancel"
	case modeFields:
		h := "↑/↓ move · enter edit · x reset · esc back · ctrl+s save"
		if def, ok := m.selected(); ok && def.Key == "plugins" {
			h += " · n notify · a add · d remove"
		}
		return h
	}
	return "↑/↓ move · / search · enter edit · x reset · ctrl+s save · ctrl+r reload · m skills · q quit"
}

// fit truncates s to width display cells.
func fit(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
