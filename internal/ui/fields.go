package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/nvset/pkg/catalog"
	"github.com/oakwood-commons/nvset/pkg/reconcile"
	"github.com/oakwood-commons/nvset/pkg/session"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldCycle
	fieldAction
	fieldInfo
)

// field is one editable row of a complex setting.
type field struct {
	label   string
	value   string
	kind    fieldKind
	options []string
	// plugin is set on custom plugin rows so they can be removed.
	plugin string
	set    func(s *session.Session, text string) error
	action func(m *Model) tea.Cmd
}

func (f field) next() string {
	if len(f.options) == 0 {
		return f.value
	}
	for i, o := range f.options {
		if o == f.value {
			return f.options[(i+1)%len(f.options)]
		}
	}
	return f.options[0]
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

// fieldsFor lists the editable rows of a complex setting for the state.
func fieldsFor(key string, st session.State, agentTypes []string) []field {
	switch key {
	case "commit":
		return commitFields(st.Commit)
	case "notification":
		return notificationFields(st.Notification)
	case "desktop":
		return desktopFields(st.Desktop)
	case "agent":
		return agentFields(st.Agents, agentTypes)
	case "mcpServers":
		f := field{label: "servers", value: "edit JSON", kind: fieldAction, action: (*Model).openMcpEditor}
		if st.McpError != "" {
			f.value = "error: " + st.McpError
		}
		return []field{f}
	case "plugins":
		return pluginFields(st)
	case "skills":
		return skillsFields(st)
	default:
		v, ok := st.Preview.Get(key)
		return []field{{label: "value", value: reconcile.FormatComplexValue(v, ok), kind: fieldInfo}}
	}
}

func commitFields(c reconcile.CommitConfig) []field {
	lang := c.Language
	if lang == "" {
		lang = reconcile.DefaultCommitLanguage
	}
	return []field{
		{label: "language", value: lang, kind: fieldText, set: func(s *session.Session, t string) error {
			s.UpdateCommitDraft(func(c *reconcile.CommitConfig) { c.Language = t })
			return nil
		}},
		{label: "systemPrompt", value: c.SystemPrompt, kind: fieldText, set: func(s *session.Session, t string) error {
			s.UpdateCommitDraft(func(c *reconcile.CommitConfig) { c.SystemPrompt = t })
			return nil
		}},
		{label: "model", value: c.Model, kind: fieldText, set: func(s *session.Session, t string) error {
			s.UpdateCommitDraft(func(c *reconcile.CommitConfig) { c.Model = t })
			return nil
		}},
	}
}

func notificationFields(d reconcile.NotificationDraft) []field {
	mode := d.Mode
	if mode == "" {
		mode = reconcile.NotifyOff
	}
	out := []field{{
		label:   "mode",
		value:   string(mode),
		kind:    fieldCycle,
		options: []string{string(reconcile.NotifyOff), string(reconcile.NotifyDefaultSound), string(reconcile.NotifySound), string(reconcile.NotifyWebhook)},
		set: func(s *session.Session, t string) error {
			m, ok := reconcile.ParseNotificationMode(t)
			if !ok {
				return fmt.Errorf("unknown notification mode %q", t)
			}
			s.UpdateNotificationDraft(func(d *reconcile.NotificationDraft) {
				d.Mode = m
				if m == reconcile.NotifySound && d.SoundName == "" {
					d.SoundName = catalog.DefaultNotificationSound
				}
			})
			return nil
		},
	}}
	switch mode {
	case reconcile.NotifySound:
		out = append(out, field{label: "sound", value: d.SoundName, kind: fieldCycle, options: catalog.MacOSSounds,
			set: func(s *session.Session, t string) error {
				s.UpdateNotificationDraft(func(d *reconcile.NotificationDraft) { d.SoundName = t })
				return nil
			}})
	case reconcile.NotifyWebhook:
		out = append(out, field{label: "url", value: d.WebhookURL, kind: fieldText,
			set: func(s *session.Session, t string) error {
				s.UpdateNotificationDraft(func(d *reconcile.NotificationDraft) { d.WebhookURL = t })
				return nil
			}})
	}
	return out
}

func desktopFields(d reconcile.DesktopDraft) []field {
	size := ""
	if d.TerminalFontSize != nil {
		size = strconv.FormatFloat(*d.TerminalFontSize, 'f', -1, 64)
	}
	return []field{
		{label: "theme", value: d.Theme, kind: fieldCycle, options: append([]string{""}, reconcile.DesktopThemes...),
			set: func(s *session.Session, t string) error {
				s.UpdateDesktopDraft(func(d *reconcile.DesktopDraft) { d.Theme = t })
				return nil
			}},
		{label: "sendMessageWith", value: d.SendMessageWith, kind: fieldCycle, options: append([]string{""}, reconcile.DesktopSendKeys...),
			set: func(s *session.Session, t string) error {
				s.UpdateDesktopDraft(func(d *reconcile.DesktopDraft) { d.SendMessageWith = t })
				return nil
			}},
		{label: "terminalFont", value: d.TerminalFont, kind: fieldText,
			set: func(s *session.Session, t string) error {
				s.UpdateDesktopDraft(func(d *reconcile.DesktopDraft) { d.TerminalFont = t })
				return nil
			}},
		{label: "terminalFontSize", value: size, kind: fieldText,
			set: func(s *session.Session, t string) error {
				size, err := parseOptionalNumber(t)
				if err != nil {
					return err
				}
				s.UpdateDesktopDraft(func(d *reconcile.DesktopDraft) { d.TerminalFontSize = size })
				return nil
			}},
	}
}

func parseOptionalNumber(t string) (*float64, error) {
	t = strings.TrimSpace(t)
	if t == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("%q is not a number", t)
	}
	return &f, nil
}

func agentFields(draft reconcile.AgentDraft, types []string) []field {
	out := make([]field, 0, len(types))
	for _, typ := range types {
		model, _ := draft.Model(typ)
		out = append(out, field{label: typ, value: model, kind: fieldText,
			set: func(s *session.Session, t string) error {
				s.UpdateAgentModel(typ, t)
				return nil
			}})
	}
	return out
}

func pluginFields(st session.State) []field {
	notify := "off"
	plugins := reconcile.PickStringArray(previewValue(st, "plugins"))
	var custom []string
	for _, p := range plugins {
		if reconcile.IsBuiltinNotifyPluginEntry(p, st.BuiltinNotifyPath) {
			notify = "on"
			continue
		}
		custom = append(custom, p)
	}
	out := []field{{label: "builtin notify", value: notify, kind: fieldAction, action: (*Model).toggleNotify}}
	for _, p := range custom {
		out = append(out, field{label: "plugin", value: p, kind: fieldInfo, plugin: p})
	}
	out = append(out, field{label: "add plugin", kind: fieldText, set: func(s *session.Session, t string) error {
		return s.AddCustomPlugin(t)
	}})
	return out
}

func skillsFields(st session.State) []field {
	return []field{
		{label: "source", value: st.SkillsSource, kind: fieldText, set: func(s *session.Session, t string) error {
			s.SetSkillsSourcePath(t)
			return nil
		}},
		{label: "target", value: st.SkillsTarget, kind: fieldText, set: func(s *session.Session, t string) error {
			s.SetSkillsTargetPath(t)
			return nil
		}},
		{label: "migrate", value: "run", kind: fieldAction, action: (*Model).startSkills},
	}
}

func previewValue(st session.State, key string) any {
	if st.Preview == nil {
		return nil
	}
	v, _ := st.Preview.Get(key)
	return v
}
