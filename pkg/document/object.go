// Package document models JSON values the way the Neovate configuration file
// is edited: a tagged union of nil, bool, float64, string, []any and *Object,
// where objects remember key insertion order.
package document

import "fmt"

// Kind tags the runtime type of a JSON value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindInvalid
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// KindOf reports the kind of v. Values outside the union report KindInvalid.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case float64:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case *Object:
		return KindObject
	default:
		return KindInvalid
	}
}

// Object is an insertion-ordered JSON object. Setting an existing key keeps
// its position; setting a new key appends it. Integer-like keys are not
// hoisted to the front the way a JavaScript object orders them. The zero
// value is empty and ready to use.
type Object struct {
	keys []string
	vals map[string]any
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{vals: map[string]any{}}
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil || o.vals == nil {
		return nil, false
	}
	v, ok := o.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores v under key.
func (o *Object) Set(key string, v any) {
	if o.vals == nil {
		o.vals = map[string]any{}
	}
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// Delete removes key. Missing keys are ignored.
func (o *Object) Delete(key string) {
	if o == nil || o.vals == nil {
		return
	}
	if _, ok := o.vals[key]; !ok {
		return
	}
	delete(o.vals, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Range calls fn for every entry in order until fn returns false.
func (o *Object) Range(fn func(key string, v any) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.vals[k]) {
			return
		}
	}
}

// Clone returns a shallow copy: nested arrays and objects are shared.
func (o *Object) Clone() *Object {
	out := NewObject()
	if o == nil {
		return out
	}
	out.keys = append(make([]string, 0, len(o.keys)), o.keys...)
	for k, v := range o.vals {
		out.vals[k] = v
	}
	return out
}

// String renders the object compactly, mainly for test failure output.
func (o *Object) String() string {
	return Compact(o)
}

// DeepClone copies v recursively so the result shares no arrays or objects
// with the input.
func DeepClone(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = DeepClone(e)
		}
		return out
	case *Object:
		out := NewObject()
		t.Range(func(k string, e any) bool {
			out.Set(k, DeepClone(e))
			return true
		})
		return out
	default:
		return v
	}
}

// Equal reports whether a and b hold the same JSON value. Object key order
// is ignored.
func Equal(a, b any) bool {
	switch at := a.(type) {
	case nil:
		return b == nil
	case bool:
		bt, ok := b.(bool)
		return ok && at == bt
	case float64:
		bt, ok := b.(float64)
		return ok && at == bt
	case string:
		bt, ok := b.(string)
		return ok && at == bt
	case []any:
		bt, ok := b.([]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !Equal(at[i], bt[i]) {
				return false
			}
		}
		return true
	case *Object:
		bt, ok := b.(*Object)
		if !ok || at.Len() != bt.Len() {
			return false
		}
		equal := true
		at.Range(func(k string, av any) bool {
			bv, ok := bt.Get(k)
			if !ok || !Equal(av, bv) {
				equal = false
			}
			return equal
		})
		return equal
	default:
		return false
	}
}

// FromNative converts decoded Go values (maps, slices, numeric types) into
// the document union. Map keys are inserted in sorted order.
func FromNative(v any) (any, error) {
	switch t := v.(type) {
	case nil, bool, string, float64, *Object:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case float32:
		return float64(t), nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			c, err := FromNative(e)
			if err != nil {
				return nil, fmt.Errorf("element [%d]: %w", i, err)
			}
			out[i] = c
		}
		return out, nil
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out, nil
	case map[string]any:
		out := NewObject()
		for _, k := range sortedKeys(t) {
			c, err := FromNative(t[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out.Set(k, c)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// ToNative converts a document value into plain Go maps and slices, the
// shape expected by yaml/toml encoders and CEL.
func ToNative(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ToNative(e)
		}
		return out
	case *Object:
		out := make(map[string]any, t.Len())
		t.Range(func(k string, e any) bool {
			out[k] = ToNative(e)
			return true
		})
		return out
	default:
		return v
	}
}
