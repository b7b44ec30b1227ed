// Package jsontext edits and reads JSON text in place. Only the addressed
// location changes; the rest of the text keeps its formatting.
package jsontext

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/oakwood-commons/nvset/pkg/document"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Path addresses a location in a JSON document. Elements are object keys
// (string) or array indexes (int).
type Path []any

type deleteMarker struct{}

// Delete passed as the value to ApplyPathUpdate removes the path.
var Delete = deleteMarker{}

// ErrInvalidText is returned when the input is not valid JSON.
var ErrInvalidText = errors.New("text is not valid JSON")

// ApplyPathUpdate sets the value at path inside text, or removes it when
// value is Delete. An empty path replaces the whole document.
func ApplyPathUpdate(text string, path Path, value any) (string, error) {
	if strings.TrimSpace(text) != "" && !gjson.Valid(text) {
		return "", ErrInvalidText
	}
	if len(path) == 0 {
		if _, ok := value.(deleteMarker); ok {
			return "", errors.New("cannot delete the document root")
		}
		return document.Stringify(value, detectIndent(text)) + detectEOL(text), nil
	}
	gpath, err := toSetPath(path)
	if err != nil {
		return "", err
	}
	if _, ok := value.(deleteMarker); ok {
		out, err := sjson.Delete(text, gpath)
		if err != nil {
			return "", fmt.Errorf("failed to delete %s: %w", PathToDisplay(path), err)
		}
		return out, nil
	}
	if document.KindOf(value) == document.KindInvalid {
		return "", fmt.Errorf("unsupported value type %T", value)
	}
	out, err := sjson.SetRaw(text, gpath, document.Compact(value))
	if err != nil {
		return "", fmt.Errorf("failed to update %s: %w", PathToDisplay(path), err)
	}
	return out, nil
}

// toSetPath is toGJSONPath for sjson. Keys that sjson would read as an
// array index or an append get the ':' prefix that forces an object key.
func toSetPath(path Path) (string, error) {
	return buildPath(path, true)
}

func toGJSONPath(path Path) (string, error) {
	return buildPath(path, false)
}

func buildPath(path Path, forceKeys bool) (string, error) {
	parts := make([]string, len(path))
	for i, seg := range path {
		switch s := seg.(type) {
		case string:
			if s == "" {
				return "", errors.New("empty key in path")
			}
			parts[i] = escapeKey(s)
			if forceKeys && isIndexLike(s) {
				parts[i] = ":" + parts[i]
			}
		case int:
			if s < 0 {
				return "", fmt.Errorf("negative index %d in path", s)
			}
			parts[i] = strconv.Itoa(s)
		default:
			return "", fmt.Errorf("unsupported path element %T", seg)
		}
	}
	return strings.Join(parts, "."), nil
}

func isIndexLike(key string) bool {
	if key == "-1" {
		return true
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return false
		}
	}
	return true
}

// escapeKey backslash-escapes every byte that the gjson path syntax could
// read as an operator. A leading ':' is escaped so sjson keeps it.
func escapeKey(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		safe := c >= 0x80 || c == '_' || c == '-' || (c == ':' && i > 0) ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !safe {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func detectEOL(text string) string {
	if strings.Contains(text, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

var (
	tabIndent   = regexp.MustCompile(`\n(\t+)"`)
	spaceIndent = regexp.MustCompile(`\n( +)"`)
)

func detectIndent(text string) string {
	if tabIndent.MatchString(text) {
		return "\t"
	}
	if m := spaceIndent.FindStringSubmatch(text); m != nil && len(m[1]) <= 8 {
		return m[1]
	}
	return "  "
}

var identifier = regexp.MustCompile(`^[a-zA-Z_$][\w$]*$`)

// PathToDisplay renders path as $, $.a, $[0] or $["a-b"].
func PathToDisplay(path Path) string {
	var b strings.Builder
	b.WriteString("$")
	for _, seg := range path {
		switch s := seg.(type) {
		case int:
			fmt.Fprintf(&b, "[%d]", s)
		case string:
			if identifier.MatchString(s) {
				b.WriteString("." + s)
			} else {
				b.WriteString("[" + document.Compact(s) + "]")
			}
		default:
			fmt.Fprintf(&b, "[%v]", s)
		}
	}
	return b.String()
}

// GetValueAtPath walks a document value.
func GetValueAtPath(value any, path Path) (any, bool) {
	cur := value
	for _, seg := range path {
		switch s := seg.(type) {
		case int:
			arr, ok := cur.([]any)
			if !ok || s < 0 || s >= len(arr) {
				return nil, false
			}
			cur = arr[s]
		case string:
			obj, ok := cur.(*document.Object)
			if !ok {
				return nil, false
			}
			if cur, ok = obj.Get(s); !ok {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return cur, true
}

// GetTextAtPath reads the value at path straight from JSON text.
func GetTextAtPath(text string, path Path) (any, bool) {
	if len(path) == 0 {
		v, err := document.Parse(text)
		return v, err == nil
	}
	gpath, err := toGJSONPath(path)
	if err != nil {
		return nil, false
	}
	r := gjson.Get(text, gpath)
	if !r.Exists() {
		return nil, false
	}
	v, err := document.Parse(r.Raw)
	if err != nil {
		return nil, false
	}
	return v, true
}
