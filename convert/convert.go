// Package convert implements spec.md §4.2: closure conversion and lambda
// lifting from the surface AST (Lit, Var, Let, If, BinOp, Lam, App, Fix)
// to the intermediate AST (Local, Closure, CallKnown, CallClosure).
// Every Lam, App and Fix node is eliminated; the output is a flat list of
// ast.GlobalDef, each closed over an explicit capture list.
//
// Grounded on the traversal-with-accumulator shape of the teacher's
// src/ir/optimise.go (a single pass that both rewrites the tree and
// threads auxiliary state through the recursion) and src/ir/validate.go's
// scope-chain environment, generalized from VSL's flat symbol table to a
// kind-tagged (local vs. global) chain since closure conversion must tell
// captured variables apart from globally reachable names.
package convert

import (
	"fmt"

	"simply/ast"
	"simply/util"
)

// InternalError reports a closure-conversion invariant violation: the
// input reached Convert without having passed checker.Check, or the
// checker itself has a bug. Convert does not re-validate typing; see the
// note on Fix below and DESIGN.md's "Open Questions resolved" section.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "convert: internal error: " + e.Msg
}

// bindKind distinguishes names that must be captured by an enclosing
// closure (bLocal: lambda/let-bound values) from names that are always
// reachable without capture (bGlobal: top-level bindings and Fix knots).
type bindKind int

const (
	bLocal bindKind = iota
	bGlobal
)

type binding struct {
	kind bindKind
	typ  *ast.Type // local: the variable's type. global: its full apparent (curried) type.

	// Meaningful only when kind == bGlobal.
	global     string
	arity      int
	resultType *ast.Type // the global's declared result type after peeling arity parameters.
}

// env is an immutable linked-list scope chain, innermost binding first,
// mirroring checker's env but additionally tagging each binding's kind.
type env struct {
	parent *env
	name   string
	b      binding
}

func (e *env) lookup(name string) (binding, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.name == name {
			return cur.b, true
		}
	}
	return binding{}, false
}

func (e *env) with(name string, b binding) *env {
	return &env{parent: e, name: name, b: b}
}

// filterGlobals returns the sub-chain of e containing only bGlobal
// bindings, respecting shadowing (a closer bLocal binding still hides a
// farther bGlobal of the same name). This is the environment a newly
// hoisted global's body starts from: it may call any top-level function or
// enclosing Fix knot, but sees none of the surrounding lambdas' locals
// except what it explicitly captures.
func filterGlobals(e *env) *env {
	seen := make(map[string]bool)
	var out *env
	for cur := e; cur != nil; cur = cur.parent {
		if seen[cur.name] {
			continue
		}
		seen[cur.name] = true
		if cur.b.kind == bGlobal {
			out = out.with(cur.name, cur.b)
		}
	}
	return out
}

// converter holds the mutable state threaded through a single conversion
// run: the accumulated output globals, the fresh-name generator, and the
// naming prefix used for whatever global is presently being hoisted.
// A converter converts exactly one ast.Program and is not reused.
type converter struct {
	globals []*ast.GlobalDef
	labels  *util.Labeler
	prefix  string
}

// Convert lowers a well-typed surface ast.Program into an ast.IRProgram.
// Callers must run checker.Check(p) first and check its error; Convert
// trusts the result and panics with an *InternalError if it ever observes
// an invariant the checker should have ruled out (an unbound variable, a
// Fix over a non-function type). It never re-derives or re-checks types —
// see the Fix handling below for the one case spec.md leaves genuinely
// open.
func Convert(p *ast.Program) *ast.IRProgram {
	c := &converter{labels: util.NewLabeler()}
	var global *env
	for _, d := range p.Defs {
		global = c.convertTopLevel(d, global)
	}
	return &ast.IRProgram{Globals: c.globals}
}

// peelLams strips body's outer Lam chain, returning the peeled parameter
// names and types, the non-Lam remainder, and the remainder's declared
// type (t with the same number of arrows stripped). It is used both for
// ordinary top-level bindings and for Fix, whose body is itself written as
// a Lam chain defining the function Fix produces.
func peelLams(body *ast.Node, t *ast.Type) (names []string, types []*ast.Type, remainder *ast.Node, resultType *ast.Type) {
	n, cur := body, t
	for n.Typ == ast.Lam {
		names = append(names, n.Name())
		types = append(types, n.Type)
		n = n.Children[0]
		cur = cur.Result
	}
	return names, types, n, cur
}

// convertTopLevel hoists one top-level surface binding into a GlobalDef
// with the same name, peeling any outer Lam chain into real parameters
// (this is the mechanism by which a multi-argument top-level function, or
// main itself, ends up with its declared arity rather than becoming a
// zero-arity global that returns a closure). The binding's own name is
// bound before converting its body, so ordinary top-level recursion needs
// no Fix.
func (c *converter) convertTopLevel(d *ast.Def, global *env) *env {
	names, types, remainder, resultType := peelLams(d.Body, d.Type)

	self := binding{kind: bGlobal, typ: d.Type, global: d.Name, arity: len(names), resultType: resultType}
	bodyEnv := global.with(d.Name, self)
	for i, name := range names {
		bodyEnv = bodyEnv.with(name, binding{kind: bLocal, typ: types[i]})
	}

	c.prefix = d.Name
	body, _ := c.convertExpr(remainder, bodyEnv)

	c.globals = append(c.globals, &ast.GlobalDef{
		Name:       d.Name,
		ParamNames: names,
		ParamTypes: types,
		ResultType: resultType,
		Body:       body,
	})
	return global.with(d.Name, self)
}

// convertExpr lowers a surface expression under e, returning the converted
// intermediate expression and its Simply type. Types are synthesized
// alongside conversion (rather than looked up from a separate
// type-checking pass) since the intermediate tree has no attribute slot
// for every node's type, only the ones spec.md calls out explicitly on
// Node.Type.
func (c *converter) convertExpr(n *ast.Node, e *env) (*ast.Node, *ast.Type) {
	switch n.Typ {
	case ast.Lit:
		return n, ast.Int
	case ast.LitBool:
		return n, ast.Bool
	case ast.Var:
		return c.convertVar(n, e)
	case ast.Let:
		return c.convertLet(n, e)
	case ast.If:
		return c.convertIf(n, e)
	case ast.BinOp:
		return c.convertBinOp(n, e)
	case ast.Lam:
		return c.convertLam(n, e)
	case ast.App:
		return c.convertApp(n, e)
	case ast.Fix:
		return c.convertFix(n, e)
	default:
		panic(&InternalError{fmt.Sprintf("unexpected surface node %s reached convert", n.Typ)})
	}
}

func (c *converter) convertVar(n *ast.Node, e *env) (*ast.Node, *ast.Type) {
	name := n.Name()
	b, ok := e.lookup(name)
	if !ok {
		panic(&InternalError{fmt.Sprintf("unbound variable %q reached convert", name)})
	}
	if b.kind == bLocal {
		return ast.LocalE(name, b.typ), b.typ
	}
	// A reference to a top-level name or Fix knot that isn't the head of a
	// fully-saturated application (convertApp handles that case directly,
	// via CallKnown) becomes a zero-capture closure over the global, *if*
	// the global itself takes surface parameters. A binding with arity
	// zero — whether its declared type is a function or not, as with
	// `helper : Int -> Int = fact` — has nothing to apply: referencing it
	// means calling it with zero arguments to fetch whatever value its
	// body computes, even when that value is itself a closure.
	if b.arity == 0 {
		return ast.CallKnownE(b.global, nil), b.resultType
	}
	return ast.ClosureE(b.global, nil, b.typ, b.arity), b.typ
}

func (c *converter) convertLet(n *ast.Node, e *env) (*ast.Node, *ast.Type) {
	bound, _ := c.convertExpr(n.Children[0], e)
	declared := n.Type
	inner := e.with(n.Name(), binding{kind: bLocal, typ: declared})
	body, bodyType := c.convertExpr(n.Children[1], inner)
	return ast.LetE(n.Name(), declared, bound, body), bodyType
}

func (c *converter) convertIf(n *ast.Node, e *env) (*ast.Node, *ast.Type) {
	cond, _ := c.convertExpr(n.Children[0], e)
	then, thenType := c.convertExpr(n.Children[1], e)
	els, _ := c.convertExpr(n.Children[2], e)
	return ast.IfE(cond, then, els), thenType
}

func (c *converter) convertBinOp(n *ast.Node, e *env) (*ast.Node, *ast.Type) {
	op := n.Data.(ast.Op)
	lhs, _ := c.convertExpr(n.Children[0], e)
	rhs, _ := c.convertExpr(n.Children[1], e)
	resultType := ast.Int
	if op == ast.Eq || op == ast.Lt {
		resultType = ast.Bool
	}
	return ast.BinOpE(op, lhs, rhs), resultType
}

// peelLamChain strips n's own outer Lam chain (n must be a Lam), returning
// its peeled parameter names and types and the first non-Lam body node.
// Unlike peelLams it needs no declared type to peel against: every Lam
// node already annotates its own parameter type directly.
func peelLamChain(n *ast.Node) (names []string, types []*ast.Type, body *ast.Node) {
	for n.Typ == ast.Lam {
		names = append(names, n.Name())
		types = append(types, n.Type)
		n = n.Children[0]
	}
	return names, types, n
}

// convertLam closure-converts a Lam, per spec.md §4.2: compute its free
// variables (ordered by first occurrence), hoist a single fresh global
// taking the captures as leading parameters followed by every parameter of
// n's own Lam chain (not just its outermost one — an anonymous curried
// lambda like λx.λy. body is lifted to one global of surface arity 2, the
// same way a top-level binding or Fix peels its whole chain at once,
// rather than one global per nested Lam), and replace the chain with a
// Closure referencing that global.
func (c *converter) convertLam(n *ast.Node, e *env) (*ast.Node, *ast.Type) {
	fvNames := freeVars(n, e)
	capturedTypes := make([]*ast.Type, len(fvNames))
	capturedValues := make([]*ast.Node, len(fvNames))
	for i, name := range fvNames {
		b, _ := e.lookup(name)
		capturedTypes[i] = b.typ
		capturedValues[i] = ast.LocalE(name, b.typ)
	}

	fresh := c.labels.Next(c.prefix)
	params, paramTypes, body := peelLamChain(n)

	bodyEnv := filterGlobals(e)
	for i, name := range fvNames {
		bodyEnv = bodyEnv.with(name, binding{kind: bLocal, typ: capturedTypes[i]})
	}
	for i, name := range params {
		bodyEnv = bodyEnv.with(name, binding{kind: bLocal, typ: paramTypes[i]})
	}

	oldPrefix := c.prefix
	c.prefix = fresh
	bodyConv, bodyType := c.convertExpr(body, bodyEnv)
	c.prefix = oldPrefix

	paramNames := append(append([]string{}, fvNames...), params...)
	allTypes := append(append([]*ast.Type{}, capturedTypes...), paramTypes...)
	c.globals = append(c.globals, &ast.GlobalDef{
		Name:       fresh,
		ParamNames: paramNames,
		ParamTypes: allTypes,
		ResultType: bodyType,
		Body:       bodyConv,
		Captures:   len(fvNames),
	})

	apparentType := ast.Arrow(paramTypes, bodyType)
	arity := len(params)
	return ast.ClosureE(fresh, capturedValues, apparentType, arity), apparentType
}

// convertFix lowers Fix(self, t, body) per spec.md §4.2: body is itself
// written as the Lam chain defining the recursive function, so it is
// peeled exactly like a top-level binding's body, with self bound to a
// zero-capture reference to the newly hoisted global — an explicit
// knot tied through the global namespace rather than a runtime
// self-reference cell.
//
// Per spec.md's literal wording ("Emit the outer expression as
// Closure(selfGlobal, [], t)"), the hoisted global always takes zero
// captures: free variables from an enclosing scope are not threaded
// through Fix. The body is converted against the top-level names, self
// and its own parameters only, so a Fix body that names a local of an
// enclosing scope finds it unbound and Convert panics with an
// *InternalError.
//
// A Fix whose declared type is not a function type cannot occur in a
// checked program (checker.Check rejects it as FixOnNonFunction); Convert
// treats that case as an internal invariant violation, not a condition to
// re-validate.
func (c *converter) convertFix(n *ast.Node, e *env) (*ast.Node, *ast.Type) {
	self, selfType, body := n.Name(), n.Type, n.Children[0]
	if !selfType.IsFun() {
		panic(&InternalError{fmt.Sprintf("fix over non-function type %s reached convert", selfType)})
	}

	fresh := c.labels.Next(self)
	names, types, remainder, resultType := peelLams(body, selfType)

	bodyEnv := filterGlobals(e)
	bodyEnv = bodyEnv.with(self, binding{kind: bGlobal, typ: selfType, global: fresh, arity: len(names), resultType: resultType})
	for i, name := range names {
		bodyEnv = bodyEnv.with(name, binding{kind: bLocal, typ: types[i]})
	}

	oldPrefix := c.prefix
	c.prefix = fresh
	bodyConv, _ := c.convertExpr(remainder, bodyEnv)
	c.prefix = oldPrefix

	c.globals = append(c.globals, &ast.GlobalDef{
		Name:       fresh,
		ParamNames: names,
		ParamTypes: types,
		ResultType: resultType,
		Body:       bodyConv,
	})
	return ast.ClosureE(fresh, nil, selfType, len(names)), selfType
}

// collectSpine flattens a left-associative chain of App nodes into its
// head and the ordered list of argument expressions: App(App(f,a),b)
// becomes (f, [a, b]).
func collectSpine(n *ast.Node) (head *ast.Node, args []*ast.Node) {
	for n.Typ == ast.App {
		args = append([]*ast.Node{n.Children[1]}, args...)
		n = n.Children[0]
	}
	return n, args
}

// convertApp lowers an application spine. A direct reference to a
// top-level function or Fix knot, applied to exactly its declared arity,
// becomes CallKnown — a direct call bypassing the closure representation
// entirely. Every other application goes through convertApplied, which
// handles exact, partial and over-saturated calls against an arbitrary
// closure value.
func (c *converter) convertApp(n *ast.Node, e *env) (*ast.Node, *ast.Type) {
	head, argNodes := collectSpine(n)

	args := make([]*ast.Node, len(argNodes))
	for i, a := range argNodes {
		args[i], _ = c.convertExpr(a, e)
	}

	if head.Typ == ast.Var {
		if b, ok := e.lookup(head.Name()); ok && b.kind == bGlobal && b.arity == len(args) {
			return ast.CallKnownE(b.global, args), b.resultType
		}
	}

	closure, closureType := c.convertExpr(head, e)
	return c.convertApplied(closure, closureType, args)
}

// convertApplied applies args (already converted) to a closure value of
// type closureType, handling all three arities spec.md §4.5 describes:
//
//   - exact:    a single saturated CallClosure.
//   - fewer:    a curry wrapper is synthesized on the fly, capturing the
//     closure itself plus the supplied arguments, accepting the remaining
//     ones as its own parameters and forwarding via CallClosure. Codegen
//     therefore only ever sees fully-saturated CallClosures.
//   - more:     the first batch saturates one CallClosure (whose result,
//     by well-typedness, is itself a function value); the rest is applied
//     to that result recursively.
func (c *converter) convertApplied(closure *ast.Node, closureType *ast.Type, args []*ast.Node) (*ast.Node, *ast.Type) {
	n := closureCallArity(closure, closureType)
	trailing, final := closureType.Take(n)
	m := len(args)

	switch {
	case m == n:
		return ast.CallClosureE(closure, args), final
	case m < n:
		return c.curryWrapper(closure, closureType, args, trailing, final)
	default:
		saturated := ast.CallClosureE(closure, args[:n])
		return c.convertApplied(saturated, final, args[n:])
	}
}

// closureCallArity reports how many arguments one CallClosure against
// closure consumes. A freshly built Closure node carries its own wrapper's
// true arity directly (see ast.ClosureE), which can be fewer than
// closureType's full flattened arrow count when the wrapper's own result
// is itself a function value. Any other expression (a Local holding a
// closure passed in as a parameter, or the result of a previous
// CallClosure in an over-application chain) is fully saturated one
// argument per declared arrow, so its type's complete flattening is its
// arity.
func closureCallArity(closure *ast.Node, closureType *ast.Type) int {
	if closure.Typ == ast.Closure {
		return closure.Arity
	}
	trailing, _ := closureType.Params()
	return len(trailing)
}

// curryWrapper synthesizes a global that captures closure and the
// supplied args, accepts the remaining trailing[len(args):] parameters,
// and forwards to closure via a single saturated CallClosure — the
// "pre-generated curry wrapper" spec.md §4.5 calls for, built at
// conversion time rather than at codegen time.
func (c *converter) curryWrapper(closure *ast.Node, closureType *ast.Type, supplied []*ast.Node, trailing []*ast.Type, final *ast.Type) (*ast.Node, *ast.Type) {
	m := len(supplied)
	remaining := trailing[m:]

	fresh := c.labels.Next(c.prefix)

	const closureSlot = "curried.fn"
	paramNames := make([]string, 0, 1+len(trailing))
	paramTypes := make([]*ast.Type, 0, 1+len(trailing))
	capturedValues := make([]*ast.Node, 0, 1+m)

	paramNames = append(paramNames, closureSlot)
	paramTypes = append(paramTypes, closureType)
	capturedValues = append(capturedValues, closure)

	argSlot := func(i int) string { return fmt.Sprintf("curried.arg%d", i) }
	for i := 0; i < m; i++ {
		paramNames = append(paramNames, argSlot(i))
		paramTypes = append(paramTypes, trailing[i])
		capturedValues = append(capturedValues, supplied[i])
	}

	remainingNames := make([]string, len(remaining))
	for i, t := range remaining {
		remainingNames[i] = fmt.Sprintf("arg%d", i)
		paramNames = append(paramNames, remainingNames[i])
		paramTypes = append(paramTypes, t)
	}

	callArgs := make([]*ast.Node, 0, len(trailing))
	for i := 0; i < m; i++ {
		callArgs = append(callArgs, ast.LocalE(argSlot(i), trailing[i]))
	}
	for i, t := range remaining {
		callArgs = append(callArgs, ast.LocalE(remainingNames[i], t))
	}
	body := ast.CallClosureE(ast.LocalE(closureSlot, closureType), callArgs)

	c.globals = append(c.globals, &ast.GlobalDef{
		Name:       fresh,
		ParamNames: paramNames,
		ParamTypes: paramTypes,
		ResultType: final,
		Body:       body,
		Captures:   1 + m,
	})

	apparentType := ast.Arrow(remaining, final)
	return ast.ClosureE(fresh, capturedValues, apparentType, len(remaining)), apparentType
}
