package document

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// SyntaxError reports text that is not valid JSON.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string {
	return e.Msg
}

// Parse decodes JSON text into the document union, keeping object key order.
// Duplicate keys keep the position of their first occurrence and the value
// of their last.
func Parse(text string) (any, error) {
	if !gjson.Valid(text) {
		return nil, syntaxError(text)
	}
	return fromResult(gjson.Parse(text)), nil
}

// syntaxError builds a positioned message for invalid input. gjson only
// reports validity, so the decoder from encoding/json supplies the detail.
func syntaxError(text string) error {
	var scratch any
	if err := json.Unmarshal([]byte(text), &scratch); err != nil {
		return &SyntaxError{Msg: "invalid JSON: " + err.Error()}
	}
	return &SyntaxError{Msg: "invalid JSON"}
}

func fromResult(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num
	case gjson.String:
		return r.Str
	case gjson.JSON:
		if r.IsArray() {
			out := []any{}
			r.ForEach(func(_, value gjson.Result) bool {
				out = append(out, fromResult(value))
				return true
			})
			return out
		}
		obj := NewObject()
		r.ForEach(func(key, value gjson.Result) bool {
			obj.Set(key.Str, fromResult(value))
			return true
		})
		return obj
	default:
		return nil
	}
}

// Stringify renders v in the layout of JavaScript's JSON.stringify(v, null,
// indent), with two differences: object keys keep document order, including
// integer-like keys, and strings hold valid UTF-8, so a lone surrogate escape
// read by Parse comes back as U+FFFD. An empty indent produces compact output.
func Stringify(v any, indent string) string {
	var b strings.Builder
	writeValue(&b, v, indent, 0)
	return b.String()
}

// Compact renders v without whitespace.
func Compact(v any) string {
	return Stringify(v, "")
}

func writeValue(b *strings.Builder, v any, indent string, depth int) {
	switch t := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		if t {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case float64:
		b.WriteString(FormatNumber(t))
	case string:
		writeString(b, t)
	case []any:
		if len(t) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			newline(b, indent, depth+1)
			writeValue(b, e, indent, depth+1)
		}
		newline(b, indent, depth)
		b.WriteByte(']')
	case *Object:
		if t.Len() == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteByte('{')
		first := true
		t.Range(func(k string, e any) bool {
			if !first {
				b.WriteByte(',')
			}
			first = false
			newline(b, indent, depth+1)
			writeString(b, k)
			b.WriteByte(':')
			if indent != "" {
				b.WriteByte(' ')
			}
			writeValue(b, e, indent, depth+1)
			return true
		})
		newline(b, indent, depth)
		b.WriteByte('}')
	default:
		b.WriteString("null")
	}
}

func newline(b *strings.Builder, indent string, depth int) {
	if indent == "" {
		return
	}
	b.WriteByte('\n')
	for i := 0; i < depth; i++ {
		b.WriteString(indent)
	}
}

// FormatNumber formats f the way JavaScript prints numbers in JSON:
// shortest round-trip digits, exponent form below 1e-6 and from 1e21, and
// null for values JSON cannot carry.
func FormatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	if f == 0 {
		return "0"
	}
	format := byte('f')
	if abs := math.Abs(f); abs < 1e-6 || abs >= 1e21 {
		format = 'e'
	}
	out := strconv.FormatFloat(f, format, -1, 64)
	if format == 'e' {
		// e-07 -> e-7
		if n := len(out); n >= 4 && out[n-4] == 'e' && out[n-3] == '-' && out[n-2] == '0' {
			out = out[:n-2] + out[n-1:]
		}
	}
	return out
}

const hexDigits = "0123456789abcdef"

func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"':
				b.WriteString(`\"`)
			case '\\':
				b.WriteString(`\\`)
			case '\b':
				b.WriteString(`\b`)
			case '\f':
				b.WriteString(`\f`)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			default:
				if c < 0x20 {
					b.WriteString(`\u00`)
					b.WriteByte(hexDigits[c>>4])
					b.WriteByte(hexDigits[c&0xf])
				} else {
					b.WriteByte(c)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	b.WriteByte('"')
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
