package convert

import (
	"testing"

	"simply/ast"
	"simply/examples"

	"github.com/google/go-cmp/cmp"
)

var intToInt = ast.Fun(ast.Int, ast.Int)

// noSurfaceForms walks every GlobalDef's body and fails the test if it
// finds a Lam, App or Fix node — the quantified invariant spec.md §8
// requires of every emitted intermediate program.
func noSurfaceForms(t *testing.T, ir *ast.IRProgram) {
	t.Helper()
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}
		switch n.Typ {
		case ast.Lam, ast.App, ast.Fix:
			t.Fatalf("found surface node %s in converted program", n.Typ)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, g := range ir.Globals {
		walk(g.Body)
	}
}

// everyLocalIsDeclared walks every GlobalDef and fails if a Local
// references a name outside its own declared parameters (spec.md §8:
// "all Local(n) inside its body reference one of its declared
// parameters").
func everyLocalIsDeclared(t *testing.T, ir *ast.IRProgram) {
	t.Helper()
	for _, g := range ir.Globals {
		declared := make(map[string]bool, len(g.ParamNames))
		for _, n := range g.ParamNames {
			declared[n] = true
		}
		var walk func(n *ast.Node, bound map[string]bool)
		walk = func(n *ast.Node, bound map[string]bool) {
			if n == nil {
				return
			}
			if n.Typ == ast.Local {
				name := n.Name()
				if !declared[name] && !bound[name] {
					t.Fatalf("global %q: Local(%q) references an undeclared name", g.Name, name)
				}
			}
			if n.Typ == ast.Let {
				walk(n.Children[0], bound)
				inner := make(map[string]bool, len(bound)+1)
				for k := range bound {
					inner[k] = true
				}
				inner[n.Name()] = true
				walk(n.Children[1], inner)
				return
			}
			for _, c := range n.Children {
				walk(c, bound)
			}
		}
		walk(g.Body, map[string]bool{})
	}
}

func TestConvert_SeedScenarios(t *testing.T) {
	for _, sc := range examples.All() {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			ir := Convert(sc.Program)
			if ir.ByName("main") == nil {
				t.Fatal("converted program has no \"main\" global")
			}
			noSurfaceForms(t, ir)
			everyLocalIsDeclared(t, ir)
		})
	}
}

func TestConvert_FactDirect_CallKnown(t *testing.T) {
	sc := examples.FactDirect()
	ir := Convert(sc.Program)

	main := ir.ByName("main")
	if main == nil {
		t.Fatal("no main global")
	}
	want := ast.CallKnownE("fact", []*ast.Node{ast.LitE(5)})
	if diff := cmp.Diff(want, main.Body); diff != "" {
		t.Errorf("main body mismatch (-want +got):\n%s", diff)
	}
}

func TestConvert_FactViaHelper_GlobalReference(t *testing.T) {
	// helper's body is a bare reference to fact, a top-level binding of
	// non-zero arity: it must lower to a zero-capture Closure carrying
	// fact's own arity, not a CallKnown (CallKnown is for references to
	// an arity-0 global, which has nothing left to apply).
	sc := examples.FactViaHelper()
	ir := Convert(sc.Program)

	helper := ir.ByName("helper")
	if helper == nil {
		t.Fatal("no helper global")
	}
	if helper.Body.Typ != ast.Closure {
		t.Fatalf("expected helper's body to be a Closure, got %s", helper.Body.Typ)
	}
	if len(helper.Body.Children) != 0 {
		t.Fatalf("expected a zero-capture closure, got %d captures", len(helper.Body.Children))
	}
	if helper.Body.Name() != "fact" {
		t.Fatalf("expected the closure to reference fact, got %q", helper.Body.Name())
	}
	if helper.Body.Arity != 1 {
		t.Fatalf("expected the closure to carry fact's arity 1, got %d", helper.Body.Arity)
	}
}

func TestConvert_ZeroArityTopLevelReferenceIsCallKnown(t *testing.T) {
	// A top-level binding whose body is a plain Int (not a Lam chain) has
	// arity 0; referencing it must fetch its value with a zero-argument
	// CallKnown, never build a Closure around it.
	prog := &ast.Program{Defs: []*ast.Def{
		{Name: "k", Type: ast.Int, Body: ast.LitE(42)},
		{Name: "main", Type: ast.Int, Body: ast.VarE("k")},
	}}
	ir := Convert(prog)
	main := ir.ByName("main")
	if main.Body.Typ != ast.CallKnown {
		t.Fatalf("expected a CallKnown reference, got %s", main.Body.Typ)
	}
	if main.Body.Name() != "k" {
		t.Fatalf("expected a reference to %q, got %q", "k", main.Body.Name())
	}
	if len(main.Body.Children) != 0 {
		t.Fatalf("expected a zero-argument call, got %d args", len(main.Body.Children))
	}
}

func TestConvert_FunctionTypedZeroArityReferenceIsCallKnown(t *testing.T) {
	// helper : Int -> Int = fact is declared with a function type but
	// defined with zero leading lambdas, so it has arity 0 like k above.
	// main's reference to it must still fetch it via CallKnown, not wrap it
	// as a Closure, even though its declared type is a function type; the
	// fetched closure is then applied to 5 through a CallClosure.
	prog := &ast.Program{Defs: []*ast.Def{
		{Name: "fact", Type: intToInt, Body: ast.LamE("n", ast.Int, ast.LitE(1))},
		{Name: "helper", Type: intToInt, Body: ast.VarE("fact")},
		{Name: "main", Type: ast.Int, Body: ast.AppE(ast.VarE("helper"), ast.LitE(5))},
	}}
	ir := Convert(prog)

	helper := ir.ByName("helper")
	if helper == nil {
		t.Fatal("no helper global")
	}
	if len(helper.ParamNames) != 0 {
		t.Fatalf("expected helper to have arity 0, got params %v", helper.ParamNames)
	}
	main := ir.ByName("main")
	if main.Body.Typ != ast.CallClosure {
		t.Fatalf("expected main's body to be a CallClosure, got %s", main.Body.Typ)
	}
	ref, _ := main.Body.ClosureArgs()
	if ref.Typ != ast.CallKnown {
		t.Fatalf("expected main's reference to helper to be a CallKnown, got %s", ref.Typ)
	}
	if ref.Name() != "helper" {
		t.Fatalf("expected a reference to %q, got %q", "helper", ref.Name())
	}
}

func TestConvert_HoAdd_MainReferencesNAsLocal(t *testing.T) {
	// ho_add's main peels its own Lam into the surface parameter n; the
	// hoisted global for `\x. x+3` captures nothing (x+3 is closed), and
	// main's body must reference n as a Local when forwarding it to apply.
	sc := examples.HoAdd()
	ir := Convert(sc.Program)

	main := ir.ByName("main")
	if main == nil {
		t.Fatal("no main global")
	}
	if len(main.ParamNames) != 1 || main.ParamNames[0] != "n" {
		t.Fatalf("expected main to have surface parameter \"n\", got %v", main.ParamNames)
	}

	var foundLocalN bool
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}
		if n.Typ == ast.Local && n.Name() == "n" {
			foundLocalN = true
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(main.Body)
	if !foundLocalN {
		t.Fatal("expected main's body to reference n as a Local")
	}
}

func TestConvert_FixProducesZeroCaptureClosure(t *testing.T) {
	sc := examples.FactFix()
	ir := Convert(sc.Program)

	main := ir.ByName("main")
	if main == nil {
		t.Fatal("no main global")
	}
	// main's body is `(Fix ...) n`; since Fix's App spine (App(Fix, n))
	// has a non-Var head, it goes through convertApplied/CallClosure
	// rather than CallKnown.
	if main.Body.Typ != ast.CallClosure {
		t.Fatalf("expected a CallClosure, got %s", main.Body.Typ)
	}
	closure, _ := main.Body.ClosureArgs()
	if closure.Typ != ast.Closure {
		t.Fatalf("expected the Fix knot to lower to a Closure, got %s", closure.Typ)
	}
	if len(closure.Children) != 0 {
		t.Fatalf("expected Fix to produce a zero-capture closure per spec.md, got %d captures", len(closure.Children))
	}
}

func TestConvert_CurryWrapperForPartialApplication(t *testing.T) {
	// add2 : Int -> Int -> Int, applied to a single argument, must
	// synthesize a curry wrapper global rather than failing.
	twoArg := ast.Fun(ast.Int, intToInt)
	prog := &ast.Program{Defs: []*ast.Def{
		{Name: "add2", Type: twoArg, Body: ast.LamE("a", ast.Int, ast.LamE("b", ast.Int,
			ast.BinOpE(ast.Add, ast.VarE("a"), ast.VarE("b")),
		))},
		{Name: "main", Type: ast.Int, Body: ast.LetE("partial", intToInt,
			ast.AppE(ast.VarE("add2"), ast.LitE(10)),
			ast.AppE(ast.VarE("partial"), ast.LitE(5)),
		)},
	}}
	ir := Convert(prog)
	noSurfaceForms(t, ir)

	main := ir.ByName("main")
	if main.Body.Typ != ast.Let {
		t.Fatalf("expected main's body to stay a Let, got %s", main.Body.Typ)
	}
	bound := main.Body.Children[0]
	if bound.Typ != ast.Closure {
		t.Fatalf("expected the partial application to lower to a Closure (curry wrapper), got %s", bound.Typ)
	}
	if len(bound.Children) != 2 {
		t.Fatalf("expected the curry wrapper to capture [add2-closure, 10], got %d captures", len(bound.Children))
	}
}
