package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeepsKeyOrder(t *testing.T) {
	v, err := Parse(`{"zeta": 1, "alpha": {"b": true, "a": null}, "mid": [1, "two"]}`)
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys())

	alpha, _ := obj.Get("alpha")
	assert.Equal(t, []string{"b", "a"}, alpha.(*Object).Keys())

	mid, _ := obj.Get("mid")
	assert.Equal(t, []any{float64(1), "two"}, mid)
}

func TestParseDuplicateKeys(t *testing.T) {
	v, err := Parse(`{"a": 1, "b": 2, "a": 3}`)
	require.NoError(t, err)
	obj := v.(*Object)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	a, _ := obj.Get("a")
	assert.Equal(t, float64(3), a)
}

func TestParseInvalid(t *testing.T) {
	tests := []string{"{not json", "", "{\"a\":}", "[1,]"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			var syntaxErr *SyntaxError
			assert.ErrorAs(t, err, &syntaxErr)
		})
	}
}

func TestParseScalars(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{`true`, true},
		{`false`, false},
		{`null`, nil},
		{`"hi\nthere"`, "hi\nthere"},
		{`  42.5 `, 42.5},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringifyIndent(t *testing.T) {
	obj := NewObject()
	obj.Set("model", "openai/gpt-4o")
	obj.Set("quiet", true)
	nested := NewObject()
	nested.Set("list", []any{float64(1), "a"})
	nested.Set("empty", NewObject())
	nested.Set("none", []any{})
	obj.Set("nested", nested)

	want := "{\n" +
		"  \"model\": \"openai/gpt-4o\",\n" +
		"  \"quiet\": true,\n" +
		"  \"nested\": {\n" +
		"    \"list\": [\n" +
		"      1,\n" +
		"      \"a\"\n" +
		"    ],\n" +
		"    \"empty\": {},\n" +
		"    \"none\": []\n" +
		"  }\n" +
		"}"
	assert.Equal(t, want, Stringify(obj, "  "))
	assert.Equal(t, `{"model":"openai/gpt-4o","quiet":true,"nested":{"list":[1,"a"],"empty":{},"none":[]}}`, Compact(obj))
	assert.Equal(t, "{}", Stringify(NewObject(), "  "))
}

func TestStringifyStringEscapes(t *testing.T) {
	got := Compact("quote\" back\\ nl\n tab\t ctl\x01 <&> é")
	assert.Equal(t, `"quote\" back\\ nl\n tab\t ctl\u0001 <&> é"`, got)
}

func TestStringifyKeepsDocumentOrder(t *testing.T) {
	v, err := Parse(`{"b":1,"2":2,"1":3}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "2", "1"}, v.(*Object).Keys())
	assert.Equal(t, `{"b":1,"2":2,"1":3}`, Compact(v))
}

func TestStringifyLoneSurrogate(t *testing.T) {
	v, err := Parse(`"\ud800x"`)
	require.NoError(t, err)
	assert.Equal(t, "\"\ufffdx\"", Compact(v))
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{5, "5"},
		{-2.5, "-2.5"},
		{0.1, "0.1"},
		{1e21, "1e+21"},
		{1e20, "100000000000000000000"},
		{1e-7, "1e-7"},
		{0.000001, "0.000001"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in))
	}
}

func TestObjectSetDeleteOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("a", 1.0)
	obj.Set("b", 2.0)
	obj.Set("c", 3.0)
	obj.Set("a", 10.0)
	assert.Equal(t, []string{"a", "b", "c"}, obj.Keys())

	obj.Delete("b")
	obj.Delete("missing")
	assert.Equal(t, []string{"a", "c"}, obj.Keys())

	obj.Set("b", 4.0)
	assert.Equal(t, []string{"a", "c", "b"}, obj.Keys())
}

func TestCloneIsShallow(t *testing.T) {
	inner := NewObject()
	obj := NewObject()
	obj.Set("inner", inner)

	c := obj.Clone()
	c.Set("extra", true)
	assert.False(t, obj.Has("extra"))

	got, _ := c.Get("inner")
	assert.Same(t, inner, got)

	deep := DeepClone(obj).(*Object)
	gotDeep, _ := deep.Get("inner")
	assert.NotSame(t, inner, gotDeep)
}

func TestEqualIgnoresKeyOrder(t *testing.T) {
	a, _ := Parse(`{"x": [1, {"y": 2, "z": 3}]}`)
	b, _ := Parse(`{"x": [1, {"z": 3, "y": 2}]}`)
	c, _ := Parse(`{"x": [1, {"z": 3}]}`)
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
}

func TestNativeConversions(t *testing.T) {
	v, err := FromNative(map[string]any{"b": 1, "a": []any{"x", int64(2)}})
	require.NoError(t, err)
	obj := v.(*Object)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	assert.Equal(t, `{"a":["x",2],"b":1}`, Compact(obj))

	native := ToNative(obj)
	assert.Equal(t, map[string]any{"a": []any{"x", float64(2)}, "b": float64(1)}, native)

	_, err = FromNative(struct{}{})
	assert.Error(t, err)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNull, KindOf(nil))
	assert.Equal(t, KindBool, KindOf(true))
	assert.Equal(t, KindNumber, KindOf(1.5))
	assert.Equal(t, KindString, KindOf("s"))
	assert.Equal(t, KindArray, KindOf([]any{}))
	assert.Equal(t, KindObject, KindOf(NewObject()))
	assert.Equal(t, KindInvalid, KindOf(3))
	assert.Equal(t, "boolean", KindBool.String())
}
