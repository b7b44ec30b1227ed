// Package query evaluates CEL expressions against a configuration. The
// configuration is bound to the variable "_", so "_.model" reads the model
// and "_.plugins.size()" counts plugins.
package query

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"
	"github.com/oakwood-commons/nvset/pkg/document"
)

// RootVariable is the name the configuration is bound to.
const RootVariable = "_"

// Evaluator compiles and evaluates CEL expressions.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator with the strings, encoders, lists and
// math extensions.
func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable(RootVariable, cel.DynType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// Check compiles expr without evaluating it.
func (e *Evaluator) Check(expr string) error {
	_, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("compilation error: %w", issues.Err())
	}
	return nil
}

// Evaluate runs expr against config and returns the result as a document
// value (numbers become float64, maps become objects with sorted keys).
func (e *Evaluator) Evaluate(expr string, config *document.Object) (any, error) {
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	if config == nil {
		config = document.NewObject()
	}
	out, _, err := prg.Eval(map[string]any{RootVariable: document.ToNative(config)})
	if err != nil {
		return nil, fmt.Errorf("eval error: %w", err)
	}
	v, err := document.FromNative(toGo(out))
	if err != nil {
		return nil, fmt.Errorf("unsupported result: %w", err)
	}
	return v, nil
}

// toGo converts CEL values to plain Go values recursively.
func toGo(val ref.Val) any {
	if val == nil {
		return nil
	}
	switch v := val.(type) {
	case types.Null:
		return nil
	case types.Bool:
		return bool(v)
	case types.Int:
		return float64(v)
	case types.Uint:
		return float64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return string(v)
	}
	return fromNative(val.Value())
}

// fromNative walks values returned by ref.Val.Value, which may still hold
// CEL values inside collections.
func fromNative(v any) any {
	switch t := v.(type) {
	case ref.Val:
		return toGo(t)
	case []ref.Val:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = toGo(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromNative(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = fromNative(e)
		}
		return out
	case map[ref.Val]ref.Val:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprintf("%v", k.Value())] = toGo(e)
		}
		return out
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	default:
		return v
	}
}
