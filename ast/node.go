package ast

import "fmt"

// NodeType differentiates the tagged variants of a Simply expression tree.
// The same variant set spans both the surface tree (produced by the front
// end) and the intermediate tree (produced by the closure converter): Lam,
// App and Fix only ever appear in the surface tree; Local, Closure,
// CallKnown and CallClosure only ever appear in the intermediate tree.
type NodeType int

const (
	Lit NodeType = iota
	LitBool
	Var
	Let
	If
	BinOp
	Lam
	App
	Fix

	// Intermediate-only variants, introduced by closure conversion.
	Local
	Closure
	CallKnown
	CallClosure
)

var nodeNames = [...]string{
	"Lit", "LitBool", "Var", "Let", "If", "BinOp", "Lam", "App", "Fix",
	"Local", "Closure", "CallKnown", "CallClosure",
}

// String returns a print-friendly name for t.
func (t NodeType) String() string {
	if int(t) < 0 || int(t) >= len(nodeNames) {
		return "NodeType(?)"
	}
	return nodeNames[t]
}

// Op identifies a binary operator.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Eq
	Lt
)

func (o Op) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Eq:
		return "="
	case Lt:
		return "<"
	default:
		return "?"
	}
}

// Node is a single node of the expression tree. Which fields are
// meaningful depends on Typ:
//
//	Lit         Data = int32
//	LitBool     Data = bool
//	Var         Data = name (string)
//	Let         Data = bound name (string); Type = declared type of bound; Children = [bound, body]
//	If          Children = [cond, then, else]
//	BinOp       Data = Op; Children = [lhs, rhs]
//	Lam         Data = param name (string); Type = param type; Children = [body]
//	App         Children = [fun, arg]
//	Fix         Data = self name (string); Type = self's (function) type; Children = [body]
//	Local       Data = parameter name (string); Type = its type
//	Closure     Data = global name (string); Type = apparent function type; Arity = args consumed per call; Children = captured value expressions, in declaration order
//	CallKnown   Data = global name (string); Children = argument expressions
//	CallClosure Children = [closure expression, arg1, arg2, ...]
//
// Line and Pos are populated only for nodes produced by the textual front
// end; they are zero for programs constructed directly as ast.Program
// values.
type Node struct {
	Typ  NodeType
	Line int
	Pos  int
	Data interface{}
	// Type annotates the node where spec.md calls for an explicit type:
	// a Let's declared bound type, a Lam's parameter type, a Fix's self
	// type, a Local's type, or a Closure's apparent function type. Unused
	// (nil) for Lit, LitBool, Var, If, BinOp, App, CallKnown, CallClosure.
	Type *Type
	// Arity is meaningful only for Closure: the number of arguments one
	// CallClosure against this value actually consumes. It is not always
	// Type's full flattened arrow count — a closure whose underlying
	// wrapper itself returns a function value (rather than a final Int or
	// Bool) has an apparent Type with more arrows than it consumes per
	// call, and the remainder belongs to whatever closure value its
	// result is, not to this one.
	Arity    int
	Children []*Node
}

// Name returns Data as a string, panicking if Data does not hold one.
// Used by passes that know, from Typ, that Data must be a name.
func (n *Node) Name() string {
	return n.Data.(string)
}

// String renders a single node (not its subtree) for diagnostics.
func (n *Node) String() string {
	switch n.Typ {
	case Lit:
		return fmt.Sprintf("Lit(%d)", n.Data.(int32))
	case LitBool:
		return fmt.Sprintf("LitBool(%t)", n.Data.(bool))
	case Var, Local:
		return fmt.Sprintf("%s(%s)", n.Typ, n.Data.(string))
	case BinOp:
		return fmt.Sprintf("BinOp(%s)", n.Data.(Op))
	case Lam, Fix, Closure, CallKnown:
		return fmt.Sprintf("%s(%s)", n.Typ, n.Data.(string))
	default:
		return n.Typ.String()
	}
}

// Def is a surface top-level binding: a name, its declared type, and its
// defining expression.
type Def struct {
	Name string
	Type *Type
	Body *Node
}

// Program is an ordered sequence of surface top-level bindings. Names are
// unique; at least one binding must be named "main".
type Program struct {
	Defs []*Def
}

// ByName returns the surface definition named name, or nil.
func (p *Program) ByName(name string) *Def {
	for _, d := range p.Defs {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Main returns the program's entry binding, or nil if there is none.
func (p *Program) Main() *Def {
	return p.ByName("main")
}

// GlobalDef is a top-level function definition in the intermediate
// representation: every function, after closure conversion, is one of
// these.
type GlobalDef struct {
	Name       string
	ParamNames []string
	ParamTypes []*Type
	ResultType *Type
	Body       *Node

	// Captures is the number of leading entries of ParamNames/ParamTypes
	// that are closure-converted free-variable captures rather than the
	// global's own surface parameters. Codegen packs these into a single
	// opaque i8* environment argument instead of passing them as literal
	// LLVM parameters (see codegen/llvm/closure.go). Zero for every
	// top-level binding and every Fix knot, since both are closed by
	// construction; positive only for globals synthesized from a Lam or
	// from a partial-application curry wrapper.
	Captures int
}

// FuncType reconstructs this global's function type from its parameter and
// result types, right-nested as TFun(p0, TFun(p1, ... result)).
func (g *GlobalDef) FuncType() *Type {
	t := g.ResultType
	for i := len(g.ParamTypes) - 1; i >= 0; i-- {
		t = Fun(g.ParamTypes[i], t)
	}
	return t
}

// Arity is the number of declared parameters of g, captures included.
func (g *GlobalDef) Arity() int {
	return len(g.ParamTypes)
}

// Surface reports the global's own (non-captured) parameter names and
// types: the ones that appear as literal LLVM parameters after the opaque
// environment argument.
func (g *GlobalDef) Surface() (names []string, types []*Type) {
	return g.ParamNames[g.Captures:], g.ParamTypes[g.Captures:]
}

// IRProgram is the closure-converted program: a set of top-level
// GlobalDefs. main is one of them.
type IRProgram struct {
	Globals []*GlobalDef
}

// ByName returns the global definition named name, or nil.
func (p *IRProgram) ByName(name string) *GlobalDef {
	for _, g := range p.Globals {
		if g.Name == name {
			return g
		}
	}
	return nil
}
