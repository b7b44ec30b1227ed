package formatter

import (
	"errors"
	"fmt"

	"github.com/oakwood-commons/nvset/pkg/document"
	"github.com/pelletier/go-toml/v2"
)

// FormatTOMLValue renders an object as TOML. TOML has no null, so null
// object members are omitted; nulls inside arrays are an error.
func FormatTOMLValue(v any) (string, error) {
	obj, ok := v.(*document.Object)
	if !ok {
		return "", errors.New("only objects can be rendered as TOML")
	}
	native, err := tomlNative(obj)
	if err != nil {
		return "", err
	}
	out, err := toml.Marshal(native)
	if err != nil {
		return "", fmt.Errorf("failed to encode TOML: %w", err)
	}
	return string(out), nil
}

func tomlNative(v any) (any, error) {
	switch t := v.(type) {
	case *document.Object:
		out := make(map[string]any, t.Len())
		var err error
		t.Range(func(k string, e any) bool {
			if e == nil {
				return true
			}
			var c any
			if c, err = tomlNative(e); err != nil {
				err = fmt.Errorf("%s: %w", k, err)
				return false
			}
			out[k] = c
			return true
		})
		return out, err
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			if e == nil {
				return nil, fmt.Errorf("[%d]: TOML arrays cannot hold null", i)
			}
			c, err := tomlNative(e)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case float64:
		if t == float64(int64(t)) {
			return int64(t), nil
		}
		return t, nil
	default:
		return v, nil
	}
}
