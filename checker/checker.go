// Package checker decides well-typedness of a surface ast.Program.
//
// The algorithm is bidirectional but simple, following spec.md §4.1: every
// binder carries its declared type, so the checker synthesizes types
// bottom-up under an environment mapping names to types. The traversal
// shape (a recursive descent carrying a scope environment, reporting the
// first structured error encountered) is grounded on the teacher's
// src/ir/validate.go, generalized from VSL's int/float datatype-pair
// lookup tables to Simply's Int/Bool/Fun type system.
package checker

import (
	"fmt"

	"simply/ast"
)

// Kind identifies the category of type error reported.
type Kind int

const (
	TypeMismatch Kind = iota
	UnboundVariable
	NotAFunction
	FixOnNonFunction
	MissingMain
	MainNotFirstOrderInt
	DuplicateBinding
)

// Error is a structured type-checking error identifying the offending node
// and, where applicable, the expected and found types. spec.md §7.1
// requires type errors to be reported as structured values, never process
// aborts.
type Error struct {
	Kind     Kind
	Node     *ast.Node
	Name     string
	Expected *ast.Type
	Found    *ast.Type
}

func (e *Error) Error() string {
	switch e.Kind {
	case TypeMismatch:
		return fmt.Sprintf("type mismatch: expected %s, found %s", e.Expected, e.Found)
	case UnboundVariable:
		return fmt.Sprintf("unbound variable %q", e.Name)
	case NotAFunction:
		return fmt.Sprintf("not a function: %s", e.Found)
	case FixOnNonFunction:
		return fmt.Sprintf("fix requires a function type, got %s", e.Found)
	case MissingMain:
		return "program has no binding named \"main\""
	case MainNotFirstOrderInt:
		return fmt.Sprintf("main must have type (Int -> ... -> Int), got %s", e.Found)
	case DuplicateBinding:
		return fmt.Sprintf("duplicate top-level binding %q", e.Name)
	default:
		return "type error"
	}
}

// env is an immutable-per-branch environment mapping names to types.
// Extending it (via with) never mutates the parent, so sibling branches of
// a traversal never observe each other's bindings - this is how let/lambda
// shadowing (spec.md §3.2's "inner binders win") falls out for free.
type env struct {
	parent *env
	name   string
	typ    *ast.Type
}

func (e *env) lookup(name string) (*ast.Type, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.name == name {
			return cur.typ, true
		}
	}
	return nil, false
}

func (e *env) with(name string, typ *ast.Type) *env {
	return &env{parent: e, name: name, typ: typ}
}

// Check type-checks a whole surface program: every binding in order,
// extending a global environment so that each prior binding is visible to
// later ones (forward references are not permitted, per spec.md §4.1).
// A binding's own declared type is visible within its own body too, so
// ordinary top-level recursive functions (as distinct from Fix, which
// provides a general anonymous fixed point) need no special form.
// Check requires a "main" binding of first-order type (Int -> ... -> Int).
func Check(p *ast.Program) error {
	seen := make(map[string]bool, len(p.Defs))
	var global *env
	for _, d := range p.Defs {
		if seen[d.Name] {
			return &Error{Kind: DuplicateBinding, Name: d.Name}
		}
		seen[d.Name] = true

		t, err := synth(d.Body, global.with(d.Name, d.Type))
		if err != nil {
			return err
		}
		if !t.Equal(d.Type) {
			return &Error{Kind: TypeMismatch, Node: d.Body, Expected: d.Type, Found: t}
		}
		global = global.with(d.Name, d.Type)
	}

	main := p.Main()
	if main == nil {
		return &Error{Kind: MissingMain}
	}
	if _, ok := main.Type.FirstOrderIntArity(); !ok {
		return &Error{Kind: MainNotFirstOrderInt, Found: main.Type}
	}
	return nil
}

// synth synthesizes the type of expression n under environment e, per the
// per-form rules of spec.md §4.1.
func synth(n *ast.Node, e *env) (*ast.Type, error) {
	switch n.Typ {
	case ast.Lit:
		return ast.Int, nil

	case ast.LitBool:
		return ast.Bool, nil

	case ast.Var:
		name := n.Name()
		if t, ok := e.lookup(name); ok {
			return t, nil
		}
		return nil, &Error{Kind: UnboundVariable, Node: n, Name: name}

	case ast.Let:
		bound, body := n.Children[0], n.Children[1]
		declared := n.Type
		bt, err := synth(bound, e)
		if err != nil {
			return nil, err
		}
		if !bt.Equal(declared) {
			return nil, &Error{Kind: TypeMismatch, Node: bound, Expected: declared, Found: bt}
		}
		return synth(body, e.with(n.Name(), declared))

	case ast.If:
		cond, then, els := n.Children[0], n.Children[1], n.Children[2]
		ct, err := synth(cond, e)
		if err != nil {
			return nil, err
		}
		if !ct.Equal(ast.Bool) {
			return nil, &Error{Kind: TypeMismatch, Node: cond, Expected: ast.Bool, Found: ct}
		}
		tt, err := synth(then, e)
		if err != nil {
			return nil, err
		}
		et, err := synth(els, e)
		if err != nil {
			return nil, err
		}
		if !tt.Equal(et) {
			return nil, &Error{Kind: TypeMismatch, Node: els, Expected: tt, Found: et}
		}
		return tt, nil

	case ast.BinOp:
		lhs, rhs := n.Children[0], n.Children[1]
		lt, err := synth(lhs, e)
		if err != nil {
			return nil, err
		}
		rt, err := synth(rhs, e)
		if err != nil {
			return nil, err
		}
		if !lt.Equal(ast.Int) {
			return nil, &Error{Kind: TypeMismatch, Node: lhs, Expected: ast.Int, Found: lt}
		}
		if !rt.Equal(ast.Int) {
			return nil, &Error{Kind: TypeMismatch, Node: rhs, Expected: ast.Int, Found: rt}
		}
		switch n.Data.(ast.Op) {
		case ast.Add, ast.Sub, ast.Mul:
			return ast.Int, nil
		case ast.Eq, ast.Lt:
			return ast.Bool, nil
		default:
			return nil, fmt.Errorf("checker: unknown operator %v", n.Data)
		}

	case ast.Lam:
		param, paramType, body := n.Name(), n.Type, n.Children[0]
		bt, err := synth(body, e.with(param, paramType))
		if err != nil {
			return nil, err
		}
		return ast.Fun(paramType, bt), nil

	case ast.App:
		fun, arg := n.Children[0], n.Children[1]
		ft, err := synth(fun, e)
		if err != nil {
			return nil, err
		}
		if !ft.IsFun() {
			return nil, &Error{Kind: NotAFunction, Node: fun, Found: ft}
		}
		at, err := synth(arg, e)
		if err != nil {
			return nil, err
		}
		if !at.Equal(ft.Arg) {
			return nil, &Error{Kind: TypeMismatch, Node: arg, Expected: ft.Arg, Found: at}
		}
		return ft.Result, nil

	case ast.Fix:
		self, selfType, body := n.Name(), n.Type, n.Children[0]
		if !selfType.IsFun() {
			return nil, &Error{Kind: FixOnNonFunction, Node: n, Found: selfType}
		}
		bt, err := synth(body, e.with(self, selfType))
		if err != nil {
			return nil, err
		}
		if !bt.Equal(selfType) {
			return nil, &Error{Kind: TypeMismatch, Node: body, Expected: selfType, Found: bt}
		}
		return selfType, nil

	default:
		return nil, fmt.Errorf("checker: unexpected surface node %s", n.Typ)
	}
}
