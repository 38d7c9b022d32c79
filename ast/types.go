// Package ast defines the data model shared by Simply's surface and
// intermediate representations: types, the tagged-variant syntax tree,
// and top-level programs.
package ast

import "fmt"

// Kind differentiates the three shapes a Simply type can take.
type Kind int

const (
	KInt  Kind = iota // 32-bit signed integer.
	KBool             // Boolean.
	KFun              // Function from a single argument type to a result type.
)

// Type is a Simply type: TInt, TBool, or TFun(arg, result). Multi-argument
// functions are right-nested TFuns.
type Type struct {
	Kind   Kind
	Arg    *Type // Non-nil only when Kind == KFun.
	Result *Type // Non-nil only when Kind == KFun.
}

// Int is the 32-bit integer type.
var Int = &Type{Kind: KInt}

// Bool is the boolean type.
var Bool = &Type{Kind: KBool}

// Fun builds the function type arg -> result.
func Fun(arg, result *Type) *Type {
	return &Type{Kind: KFun, Arg: arg, Result: result}
}

// Arrow right-nests args onto result: Arrow([a,b], c) = TFun(a, TFun(b, c)).
// Arrow(nil, c) is c itself.
func Arrow(args []*Type, result *Type) *Type {
	t := result
	for i := len(args) - 1; i >= 0; i-- {
		t = Fun(args[i], t)
	}
	return t
}

// Equal reports whether t and other are structurally the same type.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	if t.Kind != KFun {
		return true
	}
	return t.Arg.Equal(other.Arg) && t.Result.Equal(other.Result)
}

// IsFun reports whether t is a function type.
func (t *Type) IsFun() bool {
	return t != nil && t.Kind == KFun
}

// Params flattens a right-nested TFun chain into its argument types and
// final result type, e.g. TFun(a, TFun(b, c)) -> ([a, b], c).
func (t *Type) Params() (args []*Type, result *Type) {
	for t.IsFun() {
		args = append(args, t.Arg)
		t = t.Result
	}
	result = t
	return
}

// Take peels exactly k leading arrows off t, returning their argument
// types and the residual type. Unlike Params, it does not flatten all the
// way to a non-function result: the residual may itself still be a
// function type, when t's value is a function that returns another
// function rather than a final value.
func (t *Type) Take(k int) (args []*Type, rest *Type) {
	rest = t
	for i := 0; i < k; i++ {
		args = append(args, rest.Arg)
		rest = rest.Result
	}
	return
}

// FirstOrderIntArity reports whether t is of shape (Int -> ... -> Int)
// with n >= 0 Int arguments and an Int result, returning n.
func (t *Type) FirstOrderIntArity() (n int, ok bool) {
	args, result := t.Params()
	if result == nil || result.Kind != KInt {
		return 0, false
	}
	for _, a := range args {
		if a.Kind != KInt {
			return 0, false
		}
	}
	return len(args), true
}

// String renders t in ordinary arrow notation.
func (t *Type) String() string {
	if t == nil {
		return "<nil type>"
	}
	switch t.Kind {
	case KInt:
		return "Int"
	case KBool:
		return "Bool"
	case KFun:
		return fmt.Sprintf("(%s -> %s)", t.Arg.String(), t.Result.String())
	default:
		return "<unknown type>"
	}
}
