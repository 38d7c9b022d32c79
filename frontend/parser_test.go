package frontend

import (
	"testing"

	"simply/ast"

	"github.com/google/go-cmp/cmp"
)

func TestParse_FactDirect(t *testing.T) {
	const src = `
def fact : Int -> Int = \n : Int .
  if n = 0 then 1 else n * fact (n - 1)

def main : Int = fact 5
`
	got, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	want := &ast.Program{Defs: []*ast.Def{
		{
			Name: "fact",
			Type: ast.Fun(ast.Int, ast.Int),
			Body: ast.LamE("n", ast.Int, ast.IfE(
				ast.BinOpE(ast.Eq, ast.VarE("n"), ast.LitE(0)),
				ast.LitE(1),
				ast.BinOpE(ast.Mul, ast.VarE("n"),
					ast.AppE(ast.VarE("fact"), ast.BinOpE(ast.Sub, ast.VarE("n"), ast.LitE(1))),
				),
			)),
		},
		{Name: "main", Type: ast.Int, Body: ast.AppE(ast.VarE("fact"), ast.LitE(5))},
	}}

	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b *ast.Node) bool {
		return nodesEqual(a, b)
	})); diff != "" {
		t.Errorf("parsed program mismatch (-want +got):\n%s", diff)
	}
}

// nodesEqual recursively compares two Nodes by their semantically
// meaningful fields, ignoring Line/Pos (populated only for parsed nodes,
// always zero on the hand-built "want" trees).
func nodesEqual(a, b *ast.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Typ != b.Typ {
		return false
	}
	if a.Data != b.Data {
		return false
	}
	if !a.Type.Equal(b.Type) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !nodesEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

func TestParse_HigherOrderApply(t *testing.T) {
	const src = `
def apply : (Int -> Int) -> Int -> Int = \f : Int -> Int . \x : Int . f x

def main : Int = apply (\x : Int . x + 3) 4
`
	got, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(got.Defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(got.Defs))
	}
	main := got.ByName("main")
	if main == nil {
		t.Fatal("expected a \"main\" definition")
	}
	// main's body is `apply (\x. x+3) 4`, a left-assoc application spine:
	// App(App(apply, lambda), 4).
	if main.Body.Typ != ast.App {
		t.Fatalf("expected main's body to be an App, got %s", main.Body.Typ)
	}
	outer := main.Body
	if outer.Children[1].Typ != ast.Lit || outer.Children[1].Data.(int32) != 4 {
		t.Fatalf("expected the outer application's argument to be Lit(4)")
	}
	inner := outer.Children[0]
	if inner.Typ != ast.App || inner.Children[0].Data.(string) != "apply" {
		t.Fatalf("expected the inner application to apply apply, got %v", inner)
	}
	if inner.Children[1].Typ != ast.Lam {
		t.Fatalf("expected apply's argument to be a lambda, got %s", inner.Children[1].Typ)
	}
}

func TestParse_FixExpression(t *testing.T) {
	const src = `
def main : Int -> Int = \n : Int . fix f : Int -> Int . \k : Int .
  if k = 0 then 1 else k * f (k - 1)
`
	got, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	main := got.ByName("main")
	if main == nil {
		t.Fatal("expected a \"main\" definition")
	}
	if main.Body.Typ != ast.Lam {
		t.Fatalf("expected main's body to start with a Lam, got %s", main.Body.Typ)
	}
	fix := main.Body.Children[0]
	if fix.Typ != ast.Fix || fix.Name() != "f" {
		t.Fatalf("expected a Fix node named f, got %v", fix)
	}
	if !fix.Type.Equal(ast.Fun(ast.Int, ast.Int)) {
		t.Fatalf("expected fix's self type to be Int -> Int, got %s", fix.Type)
	}
}

func TestParse_LetExpression(t *testing.T) {
	const src = `
def main : Int = let x : Int = 2 in x + x
`
	got, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	main := got.ByName("main")
	if main.Body.Typ != ast.Let || main.Body.Name() != "x" {
		t.Fatalf("expected a Let bound to x, got %v", main.Body)
	}
}

func TestParse_OperatorPrecedence(t *testing.T) {
	// "1 + 2 * 3" must parse as 1 + (2 * 3), not (1 + 2) * 3.
	const src = "def main : Int = 1 + 2 * 3\n"
	got, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	body := got.ByName("main").Body
	if body.Typ != ast.BinOp || body.Data.(ast.Op) != ast.Add {
		t.Fatalf("expected the outermost operator to be +, got %v", body)
	}
	rhs := body.Children[1]
	if rhs.Typ != ast.BinOp || rhs.Data.(ast.Op) != ast.Mul {
		t.Fatalf("expected the right operand to be a '*' subtree, got %v", rhs)
	}
}

func TestParse_ApplicationBindsTighterThanOperators(t *testing.T) {
	// "fact n - 1" must parse as (fact n) - 1, not fact (n - 1).
	const src = "def main : Int = fact n - 1\n"
	got, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	body := got.ByName("main").Body
	if body.Typ != ast.BinOp || body.Data.(ast.Op) != ast.Sub {
		t.Fatalf("expected the outermost operator to be '-', got %v", body)
	}
	lhs := body.Children[0]
	if lhs.Typ != ast.App {
		t.Fatalf("expected the left operand to be an application, got %s", lhs.Typ)
	}
}

func TestParse_SyntaxErrorReturnsParseError(t *testing.T) {
	const src = "def main : Int = \n"
	_, err := Parse(src)
	if err == nil {
		t.Fatal("expected a parse error for a definition missing its body")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("expected a *ParseError, got %T: %v", err, err)
	}
}

func TestParse_UnterminatedLetReportsError(t *testing.T) {
	const src = "def main : Int = let x : Int = 1\n"
	_, err := Parse(src)
	if err == nil {
		t.Fatal("expected a parse error for a let missing its 'in'")
	}
}

func TestTokens_ReportsEachLexeme(t *testing.T) {
	toks := Tokens("def main : Int = 1\n")
	if len(toks) == 0 {
		t.Fatal("expected a non-empty token stream")
	}
	if toks[len(toks)-1] != "EOF" {
		t.Fatalf("expected the stream to end with EOF, got %q", toks[len(toks)-1])
	}
}
