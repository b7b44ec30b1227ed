package formatter

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/nvset/pkg/document"
)

// defaultMaxArrayInline is the max number of scalar array items shown inline.
const defaultMaxArrayInline = 3

// TreeOptions controls tree output.
type TreeOptions struct {
	// Types appends a type label such as <string> or <array(2)> to every node.
	Types bool
	// NoValues hides scalar values (structure only).
	NoValues bool
	// MaxDepth limits how many levels below the root are printed
	// (0 = unlimited). Deeper containers print as {...} or [N items].
	MaxDepth int
	// MaxArrayInline is the max items shown inline for scalar arrays (default 3).
	MaxArrayInline int
}

// TypeLabel names the JSON type of a document value; arrays carry their length.
func TypeLabel(v any) string {
	if arr, ok := v.([]any); ok {
		return fmt.Sprintf("array(%d)", len(arr))
	}
	if document.KindOf(v) == document.KindInvalid {
		return "unknown"
	}
	return document.KindOf(v).String()
}

// FormatAsTree renders a document value as an ASCII tree rooted at $.
// Object keys keep their document order.
func FormatAsTree(v any, opts TreeOptions) string {
	if opts.MaxArrayInline == 0 {
		opts.MaxArrayInline = defaultMaxArrayInline
	}
	root := "$"
	if opts.Types {
		root += " <" + TypeLabel(v) + ">"
	}
	tree := treeprint.NewWithRoot(root)
	switch val := v.(type) {
	case *document.Object:
		buildObjectTree(tree, val, opts, 0)
	case []any:
		buildArrayTree(tree, val, opts, 0)
	default:
		tree.AddNode(scalarText(v))
	}
	return tree.String()
}

func buildObjectTree(branch treeprint.Tree, obj *document.Object, opts TreeOptions, depth int) {
	for _, key := range obj.Keys() {
		val, _ := obj.Get(key)
		addNode(branch, key, val, opts, depth)
	}
}

func buildArrayTree(branch treeprint.Tree, arr []any, opts TreeOptions, depth int) {
	for i, elem := range arr {
		addNode(branch, fmt.Sprintf("[%d]", i), elem, opts, depth)
	}
}

func addNode(branch treeprint.Tree, key string, val any, opts TreeOptions, depth int) {
	label := key
	if opts.Types {
		label += " <" + TypeLabel(val) + ">"
	}
	// Children of this node would sit at depth+1.
	collapsed := opts.MaxDepth > 0 && depth+1 >= opts.MaxDepth

	switch v := val.(type) {
	case *document.Object:
		switch {
		case v.Len() == 0:
			branch.AddNode(withValue(label, "{}", opts))
		case collapsed:
			branch.AddNode(withValue(label, "{...}", opts))
		default:
			buildObjectTree(branch.AddBranch(label), v, opts, depth+1)
		}
	case []any:
		switch {
		case len(v) == 0:
			branch.AddNode(withValue(label, "[]", opts))
		case isScalarArray(v) && len(v) <= opts.MaxArrayInline:
			branch.AddNode(withValue(label, inlineArray(v), opts))
		case isScalarArray(v) || collapsed:
			branch.AddNode(withValue(label, fmt.Sprintf("[%d items]", len(v)), opts))
		default:
			buildArrayTree(branch.AddBranch(label), v, opts, depth+1)
		}
	default:
		branch.AddNode(withValue(label, scalarText(v), opts))
	}
}

func withValue(label, value string, opts TreeOptions) string {
	if opts.NoValues {
		return label
	}
	return label + ": " + value
}

func isScalarArray(arr []any) bool {
	for _, elem := range arr {
		switch elem.(type) {
		case *document.Object, []any:
			return false
		}
	}
	return true
}

func inlineArray(arr []any) string {
	parts := make([]string, len(arr))
	for i, elem := range arr {
		parts[i] = scalarText(elem)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// scalarText prints strings bare and everything else as compact JSON.
func scalarText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return document.Compact(v)
}
