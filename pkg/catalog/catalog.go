// Package catalog holds the fixed list of configuration keys the editor
// knows about, in display order.
package catalog

import (
	"fmt"
	"strings"
)

// Kind selects the editor used for a setting.
type Kind int

const (
	KindEnum Kind = iota
	KindBoolean
	KindString
	KindNumber
	KindComplex
)

var kindNames = [...]string{"enum", "boolean", "string", "number", "complex"}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown setting kind %q", s)
}

// SettingDef describes one known top-level key.
type SettingDef struct {
	Key         string
	Kind        Kind
	Title       string
	Description string
	DefaultHint string
	// Options lists the allowed values for KindEnum.
	Options []string
}

// IsComplex reports whether the setting needs a structured editor.
func (d SettingDef) IsComplex() bool {
	return d.Kind == KindComplex
}

// HasOption reports whether v is one of the enum options.
func (d SettingDef) HasOption(v string) bool {
	for _, o := range d.Options {
		if o == v {
			return true
		}
	}
	return false
}

func (d SettingDef) matches(keyword string) bool {
	parts := append([]string{d.Key, d.Title, d.Description, d.DefaultHint}, d.Options...)
	return strings.Contains(strings.ToLower(strings.Join(parts, " ")), keyword)
}

// BuiltinAgentTypes are the agent types shown even when the config has no
// entry for them.
var BuiltinAgentTypes = []string{"explore", "general-purpose"}

// MacOSSounds are the system sound names offered for notifications.
var MacOSSounds = []string{
	"Basso", "Blow", "Bottle", "Frog", "Funk", "Glass", "Hero",
	"Morse", "Ping", "Pop", "Purr", "Sosumi", "Submarine", "Tink",
}

// DefaultNotificationSound is the sound played for notification=true.
const DefaultNotificationSound = "Funk"

var settings = []SettingDef{
	{Key: "agent", Kind: KindComplex, Title: "agent", Description: "Per agent type overrides, currently the model used by each agent.", DefaultHint: "{}"},
	{Key: "approvalMode", Kind: KindEnum, Title: "approvalMode", Description: "Tool approval mode.", DefaultHint: `"default"`, Options: []string{"autoEdit", "yolo", "default"}},
	{Key: "autoCompact", Kind: KindBoolean, Title: "autoCompact", Description: "Compact the conversation automatically. When off, history keeps growing and may exceed the context limit.", DefaultHint: "true"},
	{Key: "autoUpdate", Kind: KindBoolean, Title: "autoUpdate", Description: "Install updates automatically.", DefaultHint: "true"},
	{Key: "browser", Kind: KindBoolean, Title: "browser", Description: "Enable the browser MCP integration.", DefaultHint: "false"},
	{Key: "commit", Kind: KindComplex, Title: "commit", Description: "Commit message generation (language, systemPrompt, model).", DefaultHint: `{ language: "en" }`},
	{Key: "desktop", Kind: KindComplex, Title: "desktop", Description: "Desktop application settings, global config only.", DefaultHint: `{ theme: "light", sendMessageWith: "enter" }`},
	{Key: "extensions", Kind: KindComplex, Title: "extensions", Description: "Third party agent extension settings, arbitrarily nested.", DefaultHint: "{}"},
	{Key: "httpProxy", Kind: KindString, Title: "httpProxy", Description: "HTTP proxy used for network requests.", DefaultHint: "null"},
	{Key: "language", Kind: KindString, Title: "language", Description: "Interface and reply language.", DefaultHint: `"English"`},
	{Key: "mcpServers", Kind: KindComplex, Title: "mcpServers", Description: "MCP server definitions (stdio, sse, http).", DefaultHint: "{}"},
	{Key: "model", Kind: KindString, Title: "model", Description: "Default model (provider_id/model_id).", DefaultHint: "null"},
	{Key: "notification", Kind: KindComplex, Title: "notification", Description: "Notify when a session stops: true plays the default sound, a sound name plays that sound, an http(s) URL calls a webhook.", DefaultHint: "false"},
	{Key: "outputFormat", Kind: KindEnum, Title: "outputFormat", Description: "CLI output format.", DefaultHint: `"text"`, Options: []string{"text", "stream-json", "json"}},
	{Key: "outputStyle", Kind: KindString, Title: "outputStyle", Description: "Output style.", DefaultHint: `"Default"`},
	{Key: "planModel", Kind: KindString, Title: "planModel", Description: "Planning model (provider_id/model_id).", DefaultHint: "same as model"},
	{Key: "plugins", Kind: KindComplex, Title: "plugins", Description: "Enabled plugins.", DefaultHint: "[]"},
	{Key: "provider", Kind: KindComplex, Title: "provider", Description: "Custom provider settings overriding the defaults.", DefaultHint: "{}"},
	{Key: "quiet", Kind: KindBoolean, Title: "quiet", Description: "Suppress non essential output.", DefaultHint: "false"},
	{Key: "skills", Kind: KindComplex, Title: "skills", Description: "Migrate skills from another directory into ~/.neovate/skills.", DefaultHint: "-"},
	{Key: "smallModel", Kind: KindString, Title: "smallModel", Description: "Small model for lightweight tasks (provider_id/model_id).", DefaultHint: "same as model"},
	{Key: "systemPrompt", Kind: KindString, Title: "systemPrompt", Description: "System prompt.", DefaultHint: "null"},
	{Key: "temperature", Kind: KindNumber, Title: "temperature", Description: "Model temperature.", DefaultHint: "null"},
	{Key: "todo", Kind: KindBoolean, Title: "todo", Description: "Enable the todo feature.", DefaultHint: "true"},
	{Key: "tools", Kind: KindComplex, Title: "tools", Description: "Tool switches; set a tool to false to disable it.", DefaultHint: "{}"},
	{Key: "visionModel", Kind: KindString, Title: "visionModel", Description: "Vision model for image tasks (provider_id/model_id).", DefaultHint: "same as model"},
}

var byKey = func() map[string]int {
	m := make(map[string]int, len(settings))
	for i, d := range settings {
		m[d.Key] = i
	}
	return m
}()

// All returns every setting in display order. The slice is a copy.
func All() []SettingDef {
	return append([]SettingDef(nil), settings...)
}

// Lookup finds a setting by key.
func Lookup(key string) (SettingDef, bool) {
	i, ok := byKey[key]
	if !ok {
		return SettingDef{}, false
	}
	return settings[i], true
}

// Filter returns the settings whose key, title, description, default hint
// or options contain keyword, ignoring case. A blank keyword matches all.
func Filter(keyword string) []SettingDef {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return All()
	}
	var out []SettingDef
	for _, d := range settings {
		if d.matches(kw) {
			out = append(out, d)
		}
	}
	return out
}

// ScalarDefs returns the non-complex settings in display order.
func ScalarDefs() []SettingDef {
	var out []SettingDef
	for _, d := range settings {
		if !d.IsComplex() {
			out = append(out, d)
		}
	}
	return out
}

// IsBuiltinAgentType reports whether t is one of BuiltinAgentTypes.
func IsBuiltinAgentType(t string) bool {
	for _, b := range BuiltinAgentTypes {
		if b == t {
			return true
		}
	}
	return false
}
