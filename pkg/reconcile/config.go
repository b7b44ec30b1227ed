// Package reconcile converts between the on-disk configuration object and
// the editable state: flat form values for scalar settings and drafts for
// the structured ones. Everything here is pure.
package reconcile

import (
	"errors"

	"github.com/oakwood-commons/nvset/pkg/catalog"
	"github.com/oakwood-commons/nvset/pkg/document"
)

// FormState maps scalar setting keys to string, float64 or bool values. A
// missing key means the default applies.
type FormState map[string]any

// Clone returns a copy of f.
func (f FormState) Clone() FormState {
	out := make(FormState, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// ParseConfigText parses configuration text. It never panics.
func ParseConfigText(text string) (any, error) {
	v, err := document.Parse(text)
	if err != nil {
		var syn *document.SyntaxError
		if errors.As(err, &syn) {
			return nil, &ParseError{Msg: syn.Msg}
		}
		return nil, &ParseError{Msg: err.Error()}
	}
	return v, nil
}

// BaseFromText parses text and returns the top-level object, or an empty
// object when the text is invalid or not an object.
func BaseFromText(text string) *document.Object {
	v, err := ParseConfigText(text)
	if err != nil {
		return document.NewObject()
	}
	if obj, ok := v.(*document.Object); ok {
		return obj
	}
	return document.NewObject()
}

// PickFormValues copies the scalar settings whose stored value matches the
// setting kind. Enum values outside the option list are dropped.
func PickFormValues(base *document.Object) FormState {
	form := FormState{}
	for _, def := range catalog.ScalarDefs() {
		raw, ok := base.Get(def.Key)
		if !ok {
			continue
		}
		switch def.Kind {
		case catalog.KindBoolean:
			if b, ok := raw.(bool); ok {
				form[def.Key] = b
			}
		case catalog.KindNumber:
			if n, ok := raw.(float64); ok {
				form[def.Key] = n
			}
		case catalog.KindString:
			if s, ok := raw.(string); ok {
				form[def.Key] = s
			}
		case catalog.KindEnum:
			if s, ok := raw.(string); ok && def.HasOption(s) {
				form[def.Key] = s
			}
		}
	}
	return form
}

// ApplyFormValues overlays form onto a shallow copy of base. Unset or empty
// values delete the key; complex keys are left alone.
func ApplyFormValues(base *document.Object, form FormState) *document.Object {
	next := base.Clone()
	for _, def := range catalog.ScalarDefs() {
		v, ok := form[def.Key]
		if !ok || v == nil {
			next.Delete(def.Key)
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			next.Delete(def.Key)
			continue
		}
		next.Set(def.Key, v)
	}
	return next
}

// StringifyConfig renders the configuration with two-space indentation and
// a trailing newline.
func StringifyConfig(obj *document.Object) string {
	if obj == nil {
		obj = document.NewObject()
	}
	return document.Stringify(obj, "  ") + "\n"
}

// PickStringArray returns the string elements of v, or nil when v is not an
// array.
func PickStringArray(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// StringsToValue converts a string slice to a JSON array value.
func StringsToValue(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
