package checker

import (
	"testing"

	"simply/ast"
)

var intToInt = ast.Fun(ast.Int, ast.Int)

func prog(defs ...*ast.Def) *ast.Program {
	return &ast.Program{Defs: defs}
}

func TestCheck_FactDirect(t *testing.T) {
	fact := &ast.Def{
		Name: "fact",
		Type: intToInt,
		Body: ast.LamE("n", ast.Int, ast.IfE(
			ast.BinOpE(ast.Eq, ast.VarE("n"), ast.LitE(0)),
			ast.LitE(1),
			ast.BinOpE(ast.Mul, ast.VarE("n"),
				ast.AppE(ast.VarE("fact"), ast.BinOpE(ast.Sub, ast.VarE("n"), ast.LitE(1))),
			),
		)),
	}
	main := &ast.Def{Name: "main", Type: ast.Int, Body: ast.AppE(ast.VarE("fact"), ast.LitE(5))}

	if err := Check(prog(fact, main)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheck_MissingMain(t *testing.T) {
	err := Check(prog(&ast.Def{Name: "notmain", Type: ast.Int, Body: ast.LitE(1)}))
	if err == nil {
		t.Fatal("expected an error")
	}
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != MissingMain {
		t.Fatalf("expected MissingMain, got %v", err)
	}
}

func TestCheck_MainNotFirstOrderInt(t *testing.T) {
	main := &ast.Def{Name: "main", Type: ast.Bool, Body: ast.LitBoolE(true)}
	err := Check(prog(main))
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != MainNotFirstOrderInt {
		t.Fatalf("expected MainNotFirstOrderInt, got %v", err)
	}
}

func TestCheck_UnboundVariable(t *testing.T) {
	main := &ast.Def{Name: "main", Type: ast.Int, Body: ast.VarE("nope")}
	err := Check(prog(main))
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != UnboundVariable {
		t.Fatalf("expected UnboundVariable, got %v", err)
	}
}

func TestCheck_TypeMismatchInIf(t *testing.T) {
	main := &ast.Def{
		Name: "main",
		Type: ast.Int,
		Body: ast.IfE(ast.LitBoolE(true), ast.LitE(1), ast.LitBoolE(true)),
	}
	err := Check(prog(main))
	if err == nil {
		t.Fatal("expected a type error for a bool-branch/int-branch if mismatch")
	}
}

func TestCheck_ConditionMustBeBool(t *testing.T) {
	main := &ast.Def{
		Name: "main",
		Type: ast.Int,
		Body: ast.IfE(ast.LitE(1), ast.LitE(1), ast.LitE(2)),
	}
	err := Check(prog(main))
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != TypeMismatch {
		t.Fatalf("expected TypeMismatch for a non-bool condition, got %v", err)
	}
}

func TestCheck_ApplyingNonFunction(t *testing.T) {
	main := &ast.Def{
		Name: "main",
		Type: ast.Int,
		Body: ast.AppE(ast.LitE(1), ast.LitE(2)),
	}
	err := Check(prog(main))
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != NotAFunction {
		t.Fatalf("expected NotAFunction, got %v", err)
	}
}

func TestCheck_FixOnNonFunctionType(t *testing.T) {
	main := &ast.Def{
		Name: "main",
		Type: ast.Int,
		Body: ast.FixE("x", ast.Int, ast.LitE(1)),
	}
	err := Check(prog(main))
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != FixOnNonFunction {
		t.Fatalf("expected FixOnNonFunction, got %v", err)
	}
}

func TestCheck_DuplicateBinding(t *testing.T) {
	a := &ast.Def{Name: "x", Type: ast.Int, Body: ast.LitE(1)}
	b := &ast.Def{Name: "x", Type: ast.Int, Body: ast.LitE(2)}
	main := &ast.Def{Name: "main", Type: ast.Int, Body: ast.LitE(0)}
	err := Check(prog(a, b, main))
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != DuplicateBinding {
		t.Fatalf("expected DuplicateBinding, got %v", err)
	}
}

// TestCheck_OrdinaryTopLevelRecursion confirms a top-level binding's own
// name is visible within its own body without needing Fix (spec.md §4.1):
// fact here refers to itself directly, not through a Fix knot.
func TestCheck_OrdinaryTopLevelRecursion(t *testing.T) {
	fact := &ast.Def{
		Name: "fact",
		Type: intToInt,
		Body: ast.LamE("n", ast.Int, ast.AppE(ast.VarE("fact"), ast.VarE("n"))),
	}
	main := &ast.Def{Name: "main", Type: ast.Int, Body: ast.AppE(ast.VarE("fact"), ast.LitE(1))}
	if err := Check(prog(fact, main)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestCheck_FixGeneralFixedPoint confirms Fix type-checks when its body,
// itself a lambda chain, has the self-binder's declared function type.
func TestCheck_FixGeneralFixedPoint(t *testing.T) {
	fix := ast.FixE("f", intToInt, ast.LamE("k", ast.Int, ast.IfE(
		ast.BinOpE(ast.Eq, ast.VarE("k"), ast.LitE(0)),
		ast.LitE(1),
		ast.BinOpE(ast.Mul, ast.VarE("k"),
			ast.AppE(ast.VarE("f"), ast.BinOpE(ast.Sub, ast.VarE("k"), ast.LitE(1))),
		),
	)))
	main := &ast.Def{Name: "main", Type: intToInt, Body: ast.LamE("n", ast.Int, ast.AppE(fix, ast.VarE("n")))}
	if err := Check(prog(main)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestCheck_ForwardReferenceRejected confirms a binding cannot see a
// later binding (spec.md §4.1: bindings extend the environment in order).
func TestCheck_ForwardReferenceRejected(t *testing.T) {
	first := &ast.Def{Name: "usesLater", Type: ast.Int, Body: ast.VarE("later")}
	later := &ast.Def{Name: "later", Type: ast.Int, Body: ast.LitE(1)}
	main := &ast.Def{Name: "main", Type: ast.Int, Body: ast.LitE(0)}
	err := Check(prog(first, later, main))
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != UnboundVariable {
		t.Fatalf("expected UnboundVariable for a forward reference, got %v", err)
	}
}
