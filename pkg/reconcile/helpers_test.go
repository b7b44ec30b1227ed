package reconcile

import (
	"strings"
	"testing"

	"github.com/oakwood-commons/nvset/pkg/catalog"
	"github.com/oakwood-commons/nvset/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBuiltinNotifyPluginEntry(t *testing.T) {
	builtin := `C:\Users\me\AppData\Local\nvset\plugins\notify.js`
	tests := []struct {
		value string
		path  string
		want  bool
	}{
		{"builtin:notify", "", true},
		{"C:/Users/me/AppData/Local/nvset/plugins/notify.js", builtin, true},
		{"/home/me/.neovate/plugins/notify.js", "", true},
		{`C:\Users\me\.neovate\plugins\notify.js`, "", true},
		{"/home/me/plugins/notify.js", "", false},
		{"/home/me/.neovate/plugins/other.js", "/data/plugins/notify.js", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBuiltinNotifyPluginEntry(tt.value, tt.path))
		})
	}
}

func TestInferHomeFromConfigPath(t *testing.T) {
	home, ok := InferHomeFromConfigPath("/Users/me/.neovate/config.json")
	assert.True(t, ok)
	assert.Equal(t, "/Users/me", home)

	home, ok = InferHomeFromConfigPath(`C:\Users\me\.neovate\config.json`)
	assert.True(t, ok)
	assert.Equal(t, `C:\Users\me`, home)

	_, ok = InferHomeFromConfigPath("/etc/neovate.json")
	assert.False(t, ok)
	_, ok = InferHomeFromConfigPath("")
	assert.False(t, ok)
}

func TestFormatComplexValue(t *testing.T) {
	obj := mustObject(t, `{"commit":{"language":"fr"}}`)
	assert.Equal(t, `{"language":"fr"}`, FormatComplexValue(obj.Get("commit")))
	assert.Equal(t, "unset", FormatComplexValue(obj.Get("agent")))

	long := strings.Repeat("x", 80)
	got := FormatComplexValue(long, true)
	assert.Equal(t, `"`+strings.Repeat("x", 59)+"…", got)
}

func TestParseFormInput(t *testing.T) {
	temp, _ := catalog.Lookup("temperature")
	quiet, _ := catalog.Lookup("quiet")
	mode, _ := catalog.Lookup("approvalMode")
	model, _ := catalog.Lookup("model")
	commit, _ := catalog.Lookup("commit")

	tests := []struct {
		name    string
		def     catalog.SettingDef
		text    string
		want    any
		wantErr bool
	}{
		{"empty clears", model, "", nil, false},
		{"string", model, "a/b", "a/b", false},
		{"number", temp, " 0.7 ", 0.7, false},
		{"number invalid", temp, "warm", nil, true},
		{"number infinite", temp, "Inf", nil, true},
		{"bool", quiet, "TRUE", true, false},
		{"bool invalid", quiet, "maybe", nil, true},
		{"enum", mode, "yolo", "yolo", false},
		{"enum invalid", mode, "fast", nil, true},
		{"complex", commit, "{}", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormInput(tt.def, tt.text)
			if tt.wantErr {
				var inputErr *InputError
				require.ErrorAs(t, err, &inputErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckFormValue(t *testing.T) {
	temp, _ := catalog.Lookup("temperature")
	mode, _ := catalog.Lookup("approvalMode")
	assert.NoError(t, CheckFormValue(temp, 1.0))
	assert.NoError(t, CheckFormValue(temp, nil))
	assert.Error(t, CheckFormValue(temp, "1"))
	assert.NoError(t, CheckFormValue(mode, "autoEdit"))
	assert.Error(t, CheckFormValue(mode, "other"))
}

func TestParseMcpServersText(t *testing.T) {
	obj, err := ParseMcpServersText("   ")
	assert.NoError(t, err)
	assert.Nil(t, obj)

	obj, err = ParseMcpServersText("{}")
	assert.NoError(t, err)
	assert.Nil(t, obj)

	_, err = ParseMcpServersText("{oops")
	var draftErr *DraftError
	require.ErrorAs(t, err, &draftErr)
	assert.Equal(t, McpJSONFormatError, draftErr.Msg)

	_, err = ParseMcpServersText("[1]")
	require.ErrorAs(t, err, &draftErr)
	assert.Equal(t, McpNotObjectError, draftErr.Msg)

	obj, err = ParseMcpServersText(`{"fs":{"command":"npx"}}`)
	require.NoError(t, err)
	assert.Equal(t, `{"fs":{"command":"npx"}}`, document.Compact(obj))
}

func TestMcpServersText(t *testing.T) {
	assert.Equal(t, "", McpServersDraftText(document.NewObject()))
	assert.Equal(t, "", McpServersDraftText("x"))
	obj := mustObject(t, `{"a":{"b":1}}`)
	assert.Equal(t, "{\n  \"a\": {\n    \"b\": 1\n  }\n}", McpServersDraftText(obj))

	got, ok := FormatMcpServersText(` {"a":1} `)
	assert.True(t, ok)
	assert.Equal(t, "{\n  \"a\": 1\n}", got)

	got, ok = FormatMcpServersText("[1]")
	assert.False(t, ok)
	assert.Equal(t, "[1]", got)
}
