package reconcile

import (
	"math"
	"strings"

	"github.com/oakwood-commons/nvset/pkg/document"
)

// CommitConfig is the draft for the "commit" setting. Empty fields are unset.
type CommitConfig struct {
	Language     string
	SystemPrompt string
	Model        string
}

// DefaultCommitLanguage is assumed when commit.language is absent.
const DefaultCommitLanguage = "en"

// PickCommitConfig reads the string fields of a stored commit object.
func PickCommitConfig(v any) CommitConfig {
	obj, ok := v.(*document.Object)
	if !ok {
		return CommitConfig{}
	}
	return CommitConfig{
		Language:     stringField(obj, "language"),
		SystemPrompt: stringField(obj, "systemPrompt"),
		Model:        stringField(obj, "model"),
	}
}

// NormalizeCommitConfig trims the draft and returns nil when nothing but
// defaults remain.
func NormalizeCommitConfig(c CommitConfig) *CommitConfig {
	next := CommitConfig{
		Language:     strings.TrimSpace(c.Language),
		SystemPrompt: strings.TrimSpace(c.SystemPrompt),
		Model:        strings.TrimSpace(c.Model),
	}
	if next == (CommitConfig{}) || next == (CommitConfig{Language: DefaultCommitLanguage}) {
		return nil
	}
	return &next
}

// Value renders the config as a JSON object, omitting empty fields.
func (c CommitConfig) Value() *document.Object {
	obj := document.NewObject()
	setNonEmpty(obj, "language", c.Language)
	setNonEmpty(obj, "systemPrompt", c.SystemPrompt)
	setNonEmpty(obj, "model", c.Model)
	return obj
}

// NotificationMode selects how a finished session is announced.
type NotificationMode string

const (
	NotifyOff          NotificationMode = "off"
	NotifyDefaultSound NotificationMode = "defaultSound"
	NotifySound        NotificationMode = "sound"
	NotifyWebhook      NotificationMode = "webhook"
)

// ParseNotificationMode validates a mode name.
func ParseNotificationMode(s string) (NotificationMode, bool) {
	switch m := NotificationMode(s); m {
	case NotifyOff, NotifyDefaultSound, NotifySound, NotifyWebhook:
		return m, true
	}
	return "", false
}

// NotificationDraft is the editable form of the boolean|string
// "notification" setting.
type NotificationDraft struct {
	Mode       NotificationMode
	SoundName  string
	WebhookURL string
}

// PickNotificationDraft classifies a stored notification value.
func PickNotificationDraft(v any) NotificationDraft {
	switch t := v.(type) {
	case bool:
		if t {
			return NotificationDraft{Mode: NotifyDefaultSound}
		}
	case string:
		trimmed := strings.TrimSpace(t)
		if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
			return NotificationDraft{Mode: NotifyWebhook, WebhookURL: trimmed}
		}
		return NotificationDraft{Mode: NotifySound, SoundName: trimmed}
	}
	return NotificationDraft{Mode: NotifyOff}
}

// NormalizeNotificationValue returns the value to store, or nil to delete the
// key.
func NormalizeNotificationValue(d NotificationDraft) any {
	switch d.Mode {
	case NotifyDefaultSound:
		return true
	case NotifySound:
		if s := strings.TrimSpace(d.SoundName); s != "" {
			return s
		}
		return nil
	case NotifyWebhook:
		if u := strings.TrimSpace(d.WebhookURL); u != "" {
			return u
		}
		return nil
	default:
		return nil
	}
}

// Desktop enum values and defaults.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	SendWithEnter    = "enter"
	SendWithCmdEnter = "cmdEnter"
)

// DesktopThemes and DesktopSendKeys list the accepted desktop enum values.
var (
	DesktopThemes   = []string{ThemeLight, ThemeDark, ThemeSystem}
	DesktopSendKeys = []string{SendWithEnter, SendWithCmdEnter}
)

// DesktopDraft is the draft for the "desktop" setting.
type DesktopDraft struct {
	Theme            string
	SendMessageWith  string
	TerminalFont     string
	TerminalFontSize *float64
}

// PickDesktopDraft keeps only well-typed desktop fields.
func PickDesktopDraft(v any) DesktopDraft {
	obj, ok := v.(*document.Object)
	if !ok {
		return DesktopDraft{}
	}
	var d DesktopDraft
	if s := stringField(obj, "theme"); contains(DesktopThemes, s) {
		d.Theme = s
	}
	if s := stringField(obj, "sendMessageWith"); contains(DesktopSendKeys, s) {
		d.SendMessageWith = s
	}
	d.TerminalFont = stringField(obj, "terminalFont")
	if raw, ok := obj.Get("terminalFontSize"); ok {
		if n, ok := raw.(float64); ok && isFinite(n) {
			d.TerminalFontSize = &n
		}
	}
	return d
}

// NormalizeDesktopConfig drops default and empty fields and returns nil when
// nothing remains.
func NormalizeDesktopConfig(d DesktopDraft) *DesktopDraft {
	var next DesktopDraft
	if d.Theme != "" && d.Theme != ThemeLight {
		next.Theme = d.Theme
	}
	if d.SendMessageWith != "" && d.SendMessageWith != SendWithEnter {
		next.SendMessageWith = d.SendMessageWith
	}
	next.TerminalFont = strings.TrimSpace(d.TerminalFont)
	if d.TerminalFontSize != nil && isFinite(*d.TerminalFontSize) {
		size := *d.TerminalFontSize
		next.TerminalFontSize = &size
	}
	if next.Theme == "" && next.SendMessageWith == "" && next.TerminalFont == "" && next.TerminalFontSize == nil {
		return nil
	}
	return &next
}

// Value renders the draft as a JSON object.
func (d DesktopDraft) Value() *document.Object {
	obj := document.NewObject()
	setNonEmpty(obj, "theme", d.Theme)
	setNonEmpty(obj, "sendMessageWith", d.SendMessageWith)
	setNonEmpty(obj, "terminalFont", d.TerminalFont)
	if d.TerminalFontSize != nil {
		obj.Set("terminalFontSize", *d.TerminalFontSize)
	}
	return obj
}

// AgentEntry configures one agent type.
type AgentEntry struct {
	Type  string
	Model string
}

// AgentDraft is the ordered draft for the "agent" setting.
type AgentDraft []AgentEntry

// PickAgentDraft collects every agent type whose config is an object.
func PickAgentDraft(v any) AgentDraft {
	obj, ok := v.(*document.Object)
	if !ok {
		return nil
	}
	var draft AgentDraft
	obj.Range(func(key string, cfg any) bool {
		if c, ok := cfg.(*document.Object); ok {
			draft = append(draft, AgentEntry{Type: key, Model: stringField(c, "model")})
		}
		return true
	})
	return draft
}

// Model returns the model configured for agentType.
func (a AgentDraft) Model(agentType string) (string, bool) {
	for _, e := range a {
		if e.Type == agentType {
			return e.Model, true
		}
	}
	return "", false
}

// With returns a copy with agentType set to model. Existing entries keep
// their position.
func (a AgentDraft) With(agentType, model string) AgentDraft {
	next := append(AgentDraft(nil), a...)
	for i := range next {
		if next[i].Type == agentType {
			next[i].Model = model
			return next
		}
	}
	return append(next, AgentEntry{Type: agentType, Model: model})
}

// Without returns a copy with agentType removed.
func (a AgentDraft) Without(agentType string) AgentDraft {
	var next AgentDraft
	for _, e := range a {
		if e.Type != agentType {
			next = append(next, e)
		}
	}
	return next
}

// Types lists the agent types in draft order.
func (a AgentDraft) Types() []string {
	out := make([]string, len(a))
	for i, e := range a {
		out[i] = e.Type
	}
	return out
}

// NormalizeAgentConfig trims models and drops empty entries. It returns nil
// when no entry remains.
func NormalizeAgentConfig(a AgentDraft) AgentDraft {
	var next AgentDraft
	for _, e := range a {
		if m := strings.TrimSpace(e.Model); m != "" {
			next = append(next, AgentEntry{Type: e.Type, Model: m})
		}
	}
	return next
}

// Value renders the draft as {"<type>": {"model": "<model>"}}.
func (a AgentDraft) Value() *document.Object {
	obj := document.NewObject()
	for _, e := range a {
		cfg := document.NewObject()
		cfg.Set("model", e.Model)
		obj.Set(e.Type, cfg)
	}
	return obj
}

func stringField(obj *document.Object, key string) string {
	v, _ := obj.Get(key)
	s, _ := v.(string)
	return s
}

func setNonEmpty(obj *document.Object, key, v string) {
	if v != "" {
		obj.Set(key, v)
	}
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
