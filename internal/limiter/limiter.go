// Package limiter trims arrays and objects printed by `nvset get`.
package limiter

import (
	"fmt"

	"github.com/oakwood-commons/nvset/pkg/document"
)

// Config holds the record-limiting parameters.
type Config struct {
	Limit  int // Show only this many entries (0 = unlimited)
	Offset int // Skip the first N entries
	Tail   int // Show only the last N entries; mutually exclusive with Limit
}

// Validate rejects negative values and Limit combined with Tail. Offset is
// ignored when Tail is set.
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}
	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("--limit and --tail are mutually exclusive")
	}
	return nil
}

// IsActive returns true if any limiting is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Apply limits arrays by position and objects by key order. Other values
// are returned unchanged.
func (c Config) Apply(data any) any {
	if !c.IsActive() {
		return data
	}
	switch v := data.(type) {
	case []any:
		start, end := c.bounds(len(v))
		return v[start:end]
	case *document.Object:
		keys := v.Keys()
		start, end := c.bounds(len(keys))
		out := document.NewObject()
		for _, k := range keys[start:end] {
			e, _ := v.Get(k)
			out.Set(k, e)
		}
		return out
	default:
		return data
	}
}

func (c Config) bounds(length int) (int, int) {
	if c.Tail > 0 {
		return max(length-c.Tail, 0), length
	}
	start := min(c.Offset, length)
	end := length
	if c.Limit > 0 {
		end = min(start+c.Limit, length)
	}
	return start, end
}
