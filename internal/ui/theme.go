package ui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// Theme holds the editor colors. Nil fields fall back to DefaultTheme.
type Theme struct {
	Accent     color.Color
	Muted      color.Color
	Error      color.Color
	Success    color.Color
	SelectedFG color.Color
	SelectedBG color.Color
	Border     color.Color
}

// DefaultTheme is the palette used when the tool settings do not override it.
func DefaultTheme() Theme {
	return Theme{
		Accent:     lipgloss.Color("12"),
		Muted:      lipgloss.Color("245"),
		Error:      lipgloss.Color("9"),
		Success:    lipgloss.Color("10"),
		SelectedFG: lipgloss.Color("15"),
		SelectedBG: lipgloss.Color("62"),
		Border:     lipgloss.Color("240"),
	}
}

// ThemeFromColors builds a theme from color strings ("#RRGGBB" or ANSI
// numbers) keyed by lowercase field name. Unknown keys are ignored.
func ThemeFromColors(colors map[string]string) Theme {
	th := DefaultTheme()
	for k, v := range colors {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		c := lipgloss.Color(v)
		switch strings.ToLower(k) {
		case "accent":
			th.Accent = c
		case "muted":
			th.Muted = c
		case "error":
			th.Error = c
		case "success":
			th.Success = c
		case "selected_fg", "selectedfg":
			th.SelectedFG = c
		case "selected_bg", "selectedbg":
			th.SelectedBG = c
		case "border":
			th.Border = c
		}
	}
	return th
}

type styles struct {
	title    lipgloss.Style
	badgeOK  lipgloss.Style
	badgeBad lipgloss.Style
	muted    lipgloss.Style
	selected lipgloss.Style
	key      lipgloss.Style
	errText  lipgloss.Style
	okText   lipgloss.Style
	pane     lipgloss.Style
}

func newStyles(th Theme, noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{
			title: plain.Bold(true), badgeOK: plain, badgeBad: plain, muted: plain,
			selected: plain.Reverse(true), key: plain, errText: plain, okText: plain,
			pane: plain.Border(lipgloss.NormalBorder()),
		}
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(th.Accent),
		badgeOK:  lipgloss.NewStyle().Foreground(th.Success),
		badgeBad: lipgloss.NewStyle().Foreground(th.Error).Bold(true),
		muted:    lipgloss.NewStyle().Foreground(th.Muted),
		selected: lipgloss.NewStyle().Foreground(th.SelectedFG).Background(th.SelectedBG),
		key:      lipgloss.NewStyle().Foreground(th.Accent),
		errText:  lipgloss.NewStyle().Foreground(th.Error),
		okText:   lipgloss.NewStyle().Foreground(th.Success),
		pane:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(th.Border),
	}
}
