// Package expr evaluates compose and group condition expressions written
// in CEL against a flat set of host variables.
//
// Expressions are only parsed, never type-checked, so an identifier is
// resolved at evaluation time from the variables passed in. Referencing
// a variable the host doesn't have is an evaluation error which the
// non-strict Evaluator turns into "no value".
package expr

import (
	"fmt"
	"reflect"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/viert/netinv/log"
)

var (
	env           = mustEnv()
	jsonValueType = reflect.TypeOf(&structpb.Value{})
)

func mustEnv() *cel.Env {
	e, err := cel.NewEnv()
	if err != nil {
		panic(fmt.Sprintf("can't create expression environment: %s", err))
	}
	return e
}

// Expression is a parsed expression ready for evaluation
type Expression struct {
	Source string
	prog   cel.Program
}

// EvalError is returned by a strict Evaluator when an expression can't be evaluated
type EvalError struct {
	Expr string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluating %q: %s", e.Expr, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// Compile parses an expression
func Compile(source string) (*Expression, error) {
	ast, issues := env.Parse(source)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("parsing %q: %w", source, issues.Err())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("preparing %q: %w", source, err)
	}
	return &Expression{Source: source, prog: prog}, nil
}

// MustCompile is like Compile but panics on error
func MustCompile(source string) *Expression {
	e, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Expression) String() string {
	return e.Source
}

func (e *Expression) eval(vars map[string]interface{}) (ref.Val, error) {
	out, _, err := e.prog.Eval(vars)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Evaluator runs expressions either strictly, returning every evaluation
// error, or non-strictly, treating failed expressions as undefined
type Evaluator struct {
	Strict bool
}

// Value evaluates e and converts the result to a plain Go value.
// ok is false when the result is undefined.
func (ev Evaluator) Value(e *Expression, vars map[string]interface{}) (value interface{}, ok bool, err error) {
	out, err := e.eval(vars)
	if err == nil {
		value, err = native(out)
		if err == nil {
			return value, true, nil
		}
	}
	return nil, false, ev.fail(e, err)
}

// Condition evaluates e expecting a boolean result
func (ev Evaluator) Condition(e *Expression, vars map[string]interface{}) (bool, error) {
	out, err := e.eval(vars)
	if err == nil {
		if b, ok := out.(types.Bool); ok {
			return bool(b), nil
		}
		err = fmt.Errorf("expected bool result, got %s", out.Type().TypeName())
	}
	return false, ev.fail(e, err)
}

func (ev Evaluator) fail(e *Expression, err error) error {
	if ev.Strict {
		return &EvalError{Expr: e.Source, Err: err}
	}
	log.Debugf("expression %q is undefined: %s", e.Source, err)
	return nil
}

func native(v ref.Val) (interface{}, error) {
	switch val := v.(type) {
	case types.String:
		return string(val), nil
	case types.Int:
		return int64(val), nil
	case types.Uint:
		return uint64(val), nil
	case types.Double:
		return float64(val), nil
	case types.Bool:
		return bool(val), nil
	case types.Bytes:
		return []byte(val), nil
	case types.Null:
		return nil, nil
	}

	// lists and maps go through their JSON representation
	pb, err := v.ConvertToNative(jsonValueType)
	if err != nil {
		return nil, err
	}
	return pb.(*structpb.Value).AsInterface(), nil
}
