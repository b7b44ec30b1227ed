package formatter

import (
	"strings"
	"testing"

	"github.com/oakwood-commons/nvset/pkg/document"
)

func TestFormatAsTree_KeepsKeyOrder(t *testing.T) {
	result := FormatAsTree(sampleConfig(t), TreeOptions{})

	if !strings.HasPrefix(result, "$\n") {
		t.Fatalf("expected tree to start with root marker '$', got:\n%s", result)
	}
	for _, want := range []string{
		"model: openai/gpt-4o",
		"quiet: true",
		"plugins: [a.js]",
		"desktop",
		"theme: dark",
		"terminalFontSize: 13.5",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("expected %q in output, got:\n%s", want, result)
		}
	}
	if strings.Index(result, "model") > strings.Index(result, "quiet") ||
		strings.Index(result, "quiet") > strings.Index(result, "desktop") {
		t.Errorf("key order lost:\n%s", result)
	}
}

func TestFormatAsTree_TypeLabels(t *testing.T) {
	result := FormatAsTree(sampleConfig(t), TreeOptions{Types: true})

	for _, want := range []string{
		"$ <object>",
		"model <string>: openai/gpt-4o",
		"quiet <boolean>: true",
		"plugins <array(1)>: [a.js]",
		"desktop <object>",
		"terminalFontSize <number>: 13.5",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("expected %q in output, got:\n%s", want, result)
		}
	}
}

func TestFormatAsTree_ArraysAndDepth(t *testing.T) {
	v, err := document.Parse(`{"agent":{"explore":{"model":"m"}},"list":[1,2,3,4],"servers":[{"name":"a"}],"none":[],"empty":{}}`)
	if err != nil {
		t.Fatal(err)
	}

	result := FormatAsTree(v, TreeOptions{})
	for _, want := range []string{"list: [4 items]", "[0]", "name: a", "none: []", "empty: {}", "model: m"} {
		if !strings.Contains(result, want) {
			t.Errorf("expected %q in output, got:\n%s", want, result)
		}
	}

	result = FormatAsTree(v, TreeOptions{MaxDepth: 1})
	for _, want := range []string{"agent: {...}", "servers: [1 items]"} {
		if !strings.Contains(result, want) {
			t.Errorf("expected %q in output, got:\n%s", want, result)
		}
	}
	if strings.Contains(result, "explore") {
		t.Errorf("expected depth limit to hide nested keys, got:\n%s", result)
	}

	result = FormatAsTree(v, TreeOptions{NoValues: true})
	if strings.Contains(result, ": ") {
		t.Errorf("expected no values, got:\n%s", result)
	}
}

func TestFormatAsTree_Scalars(t *testing.T) {
	if got := FormatAsTree("hi", TreeOptions{}); !strings.Contains(got, "hi") {
		t.Errorf("expected scalar leaf, got:\n%s", got)
	}
	if got := TypeLabel(nil); got != "null" {
		t.Errorf("TypeLabel(nil) = %q", got)
	}
	if got := TypeLabel([]any{1.0, 2.0}); got != "array(2)" {
		t.Errorf("TypeLabel(array) = %q", got)
	}
}

func TestRenderTree(t *testing.T) {
	out, err := Render(sampleConfig(t), FormatTree, Options{Tree: TreeOptions{Types: true}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "model <string>: openai/gpt-4o") {
		t.Fatalf("unexpected tree output:\n%s", out)
	}
	if _, err := ParseFormat("tree"); err != nil {
		t.Fatal(err)
	}
}
