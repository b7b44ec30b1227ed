package reconcile

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/oakwood-commons/nvset/pkg/catalog"
	"github.com/oakwood-commons/nvset/pkg/document"
)

// LegacyNotifyPluginEntry is the plugins entry older versions wrote for the
// bundled notification plugin.
const LegacyNotifyPluginEntry = "builtin:notify"

var notifyPluginSuffix = regexp.MustCompile(`[\\/]\.neovate[\\/]plugins[\\/]notify\.js$`)

// IsBuiltinNotifyPluginEntry reports whether a plugins entry refers to the
// bundled notification plugin: the legacy sentinel, the installed path
// (ignoring separator style) or any path ending in .neovate/plugins/notify.js.
func IsBuiltinNotifyPluginEntry(value, builtinPath string) bool {
	if value == LegacyNotifyPluginEntry {
		return true
	}
	if builtinPath != "" && slashed(value) == slashed(builtinPath) {
		return true
	}
	return notifyPluginSuffix.MatchString(value)
}

func slashed(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// InferHomeFromConfigPath returns the home directory for a config path of
// the form <home>/.neovate/config.json.
func InferHomeFromConfigPath(path string) (string, bool) {
	for _, suffix := range []string{"/.neovate/config.json", `\.neovate\config.json`} {
		if strings.HasSuffix(path, suffix) {
			return strings.TrimSuffix(path, suffix), true
		}
	}
	return "", false
}

const complexPreviewLimit = 60

// FormatComplexValue summarises a stored value on one line. It is shaped to
// take the results of (*document.Object).Get directly.
func FormatComplexValue(v any, present bool) string {
	if !present {
		return "unset"
	}
	raw := document.Compact(v)
	if utf8.RuneCountInString(raw) <= complexPreviewLimit {
		return raw
	}
	return string([]rune(raw)[:complexPreviewLimit]) + "…"
}

// ParseFormInput converts text typed by a user into a form value for def.
// Empty text returns nil, which clears the setting.
func ParseFormInput(def catalog.SettingDef, text string) (any, error) {
	if text == "" {
		return nil, nil
	}
	switch def.Kind {
	case catalog.KindString:
		return text, nil
	case catalog.KindBoolean:
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, &InputError{Key: def.Key, Msg: "expected true or false"}
	case catalog.KindNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, &InputError{Key: def.Key, Msg: "expected a finite number"}
		}
		return n, nil
	case catalog.KindEnum:
		if !def.HasOption(text) {
			return nil, &InputError{Key: def.Key, Msg: "expected one of " + strings.Join(def.Options, ", ")}
		}
		return text, nil
	default:
		return nil, &InputError{Key: def.Key, Msg: "structured settings have their own editor"}
	}
}

// CheckFormValue reports whether v has the type def expects. Nil always
// passes.
func CheckFormValue(def catalog.SettingDef, v any) error {
	if v == nil {
		return nil
	}
	ok := false
	switch def.Kind {
	case catalog.KindString:
		_, ok = v.(string)
	case catalog.KindBoolean:
		_, ok = v.(bool)
	case catalog.KindNumber:
		n, isNum := v.(float64)
		ok = isNum && isFinite(n)
	case catalog.KindEnum:
		s, isStr := v.(string)
		ok = isStr && (s == "" || def.HasOption(s))
	}
	if !ok {
		return &InputError{Key: def.Key, Msg: "expected a " + def.Kind.String() + " value"}
	}
	return nil
}

// Inline messages for the mcpServers draft.
const (
	McpJSONFormatError = "JSON format error"
	McpNotObjectError  = "must be an object {}"
)

// ParseMcpServersText parses the mcpServers draft. A nil object with a nil
// error means the key should be removed.
func ParseMcpServersText(text string) (*document.Object, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	v, err := document.Parse(text)
	if err != nil {
		return nil, &DraftError{Field: "mcpServers", Msg: McpJSONFormatError}
	}
	obj, ok := v.(*document.Object)
	if !ok {
		return nil, &DraftError{Field: "mcpServers", Msg: McpNotObjectError}
	}
	if obj.Len() == 0 {
		return nil, nil
	}
	return obj, nil
}

// McpServersDraftText renders a stored mcpServers value for editing. Only
// non-empty objects produce text.
func McpServersDraftText(v any) string {
	obj, ok := v.(*document.Object)
	if !ok || obj.Len() == 0 {
		return ""
	}
	return document.Stringify(obj, "  ")
}

// FormatMcpServersText pretty prints draft text that holds an object. Any
// other text is returned unchanged with ok=false.
func FormatMcpServersText(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text, false
	}
	v, err := document.Parse(trimmed)
	if err != nil {
		return text, false
	}
	obj, ok := v.(*document.Object)
	if !ok {
		return text, false
	}
	return document.Stringify(obj, "  "), true
}
