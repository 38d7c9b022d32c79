package ast

// Builder helpers for constructing surface expression trees directly in
// Go, as spec.md assumes a hosting application does (there is no
// requirement that every Program arrive via the textual front end).

// LitE builds an integer literal.
func LitE(v int32) *Node {
	return &Node{Typ: Lit, Data: v}
}

// LitBoolE builds a boolean literal.
func LitBoolE(v bool) *Node {
	return &Node{Typ: LitBool, Data: v}
}

// VarE builds a variable reference.
func VarE(name string) *Node {
	return &Node{Typ: Var, Data: name}
}

// LetE builds a non-recursive let binding. declaredType is the annotated
// type of bound, per spec.md's Let(name, type, bound, body).
func LetE(name string, declaredType *Type, bound, body *Node) *Node {
	return &Node{Typ: Let, Data: name, Type: declaredType, Children: []*Node{bound, body}}
}

// IfE builds a conditional.
func IfE(cond, then, els *Node) *Node {
	return &Node{Typ: If, Children: []*Node{cond, then, els}}
}

// BinOpE builds a binary operation.
func BinOpE(op Op, lhs, rhs *Node) *Node {
	return &Node{Typ: BinOp, Data: op, Children: []*Node{lhs, rhs}}
}

// LamE builds a single-parameter abstraction. paramType annotates the
// parameter.
func LamE(param string, paramType *Type, body *Node) *Node {
	return &Node{Typ: Lam, Data: param, Type: paramType, Children: []*Node{body}}
}

// AppE builds a single-argument application.
func AppE(fun, arg *Node) *Node {
	return &Node{Typ: App, Children: []*Node{fun, arg}}
}

// FixE builds a general fixed point. selfType annotates the self-binder
// and must be a function type.
func FixE(self string, selfType *Type, body *Node) *Node {
	return &Node{Typ: Fix, Data: self, Type: selfType, Children: []*Node{body}}
}

// Lams curries params into nested Lam nodes, innermost body last, mirroring
// how multi-parameter Simply functions are written as nested lambdas.
// types must have the same length as params.
func Lams(params []string, types []*Type, body *Node) *Node {
	n := body
	for i := len(params) - 1; i >= 0; i-- {
		n = LamE(params[i], types[i], n)
	}
	return n
}

// Apps builds a left-associative application spine: Apps(f, a, b, c) is
// ((f a) b) c.
func Apps(fun *Node, args ...*Node) *Node {
	n := fun
	for _, a := range args {
		n = AppE(n, a)
	}
	return n
}

// Intermediate-tree constructors, used by the closure converter.

// LocalE references a parameter of the enclosing global.
func LocalE(name string, typ *Type) *Node {
	return &Node{Typ: Local, Data: name, Type: typ}
}

// ClosureE constructs a closure value: a global function paired with its
// captured values, in declaration order. apparentType is the function type
// as seen by the rest of the program (param type -> result type of the
// originating Lam/Fix), which may be a shorter arrow chain than the
// underlying global's full parameter list when captures are involved.
// arity is the number of arguments the global's own wrapper consumes per
// call — not always apparentType's full flattened arrow count, since the
// wrapper's own result may itself be a function value.
func ClosureE(globalName string, captured []*Node, apparentType *Type, arity int) *Node {
	return &Node{Typ: Closure, Data: globalName, Type: apparentType, Arity: arity, Children: captured}
}

// CallKnownE calls a top-level global of known arity directly.
func CallKnownE(globalName string, args []*Node) *Node {
	return &Node{Typ: CallKnown, Data: globalName, Children: args}
}

// CallClosureE applies args to a closure value.
func CallClosureE(closure *Node, args []*Node) *Node {
	children := make([]*Node, 0, len(args)+1)
	children = append(children, closure)
	children = append(children, args...)
	return &Node{Typ: CallClosure, Children: children}
}

// ClosureArgs returns the closure sub-expression and its argument
// expressions from a CallClosure node.
func (n *Node) ClosureArgs() (closure *Node, args []*Node) {
	return n.Children[0], n.Children[1:]
}
