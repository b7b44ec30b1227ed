package reconcile

import (
	"testing"

	"github.com/oakwood-commons/nvset/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustObject(t *testing.T, text string) *document.Object {
	t.Helper()
	v, err := ParseConfigText(text)
	require.NoError(t, err)
	obj, ok := v.(*document.Object)
	require.True(t, ok)
	return obj
}

func TestParseConfigText(t *testing.T) {
	_, err := ParseConfigText("{not json")
	require.Error(t, err)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)

	v, err := ParseConfigText("[1]")
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1)}, v)
}

func TestBaseFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"object", `{"a":1}`, `{"a":1}`},
		{"invalid", "{not json", "{}"},
		{"array", "[1,2]", "{}"},
		{"empty", "", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, document.Compact(BaseFromText(tt.text)))
		})
	}
}

func TestPickFormValuesKindMatched(t *testing.T) {
	base := mustObject(t, `{
		"model": "openai/gpt-4o",
		"quiet": true,
		"temperature": 0.5,
		"approvalMode": "yolo",
		"outputFormat": "xml",
		"autoCompact": "yes",
		"language": 3,
		"commit": {"language": "fr"},
		"unknown": "kept"
	}`)

	form := PickFormValues(base)
	assert.Equal(t, FormState{
		"model":        "openai/gpt-4o",
		"quiet":        true,
		"temperature":  0.5,
		"approvalMode": "yolo",
	}, form)
}

func TestPickApplyRoundTrip(t *testing.T) {
	base := mustObject(t, `{"model":"m","quiet":false,"temperature":1,"approvalMode":"default","extra":[1]}`)
	got := ApplyFormValues(base, PickFormValues(base))
	assert.True(t, document.Equal(base, got))
	assert.Equal(t, base.Keys(), got.Keys())
}

func TestApplyFormValuesOmitsEmpty(t *testing.T) {
	base := mustObject(t, `{"model":"m","httpProxy":"http://p","quiet":true,"commit":{"language":"fr"}}`)
	form := FormState{"model": "", "httpProxy": nil, "systemPrompt": "be brief"}

	got := ApplyFormValues(base, form)
	assert.Equal(t, `{"commit":{"language":"fr"},"systemPrompt":"be brief"}`, document.Compact(got))
	assert.True(t, base.Has("model"), "base must not be mutated")
}

func TestStringifyConfig(t *testing.T) {
	base := mustObject(t, `{"model":"openai/gpt-4o","quiet":true}`)
	assert.Equal(t, "{\n  \"model\": \"openai/gpt-4o\",\n  \"quiet\": true\n}\n", StringifyConfig(base))
	assert.Equal(t, "{}\n", StringifyConfig(document.NewObject()))
	assert.Equal(t, "{}\n", StringifyConfig(nil))
}

func TestPickStringArray(t *testing.T) {
	assert.Nil(t, PickStringArray("a"))
	assert.Equal(t, []string{"a", "b"}, PickStringArray([]any{"a", 1.0, nil, "b"}))
	assert.Equal(t, []any{"x"}, StringsToValue([]string{"x"}))
}
