package convert

import "simply/ast"

// freeVars returns the names that occur free in n and resolve, under e, to
// a local (non-global) binding — i.e. the variables a Lam rooted at n must
// capture to be hoisted to a closed top-level global. Names bound to a
// global under e (top-level functions, enclosing Fix knots) are excluded:
// they are reachable from anywhere without capturing. The result is ordered
// by first occurrence, matching the order spec.md uses to number a
// closure's captured fields.
func freeVars(n *ast.Node, e *env) []string {
	var order []string
	seen := make(map[string]bool)

	var walk func(n *ast.Node, bound map[string]bool)
	walk = func(n *ast.Node, bound map[string]bool) {
		switch n.Typ {
		case ast.Var:
			name := n.Name()
			if bound[name] {
				return
			}
			if b, ok := e.lookup(name); ok && b.kind == bLocal {
				if !seen[name] {
					seen[name] = true
					order = append(order, name)
				}
			}
		case ast.Let:
			walk(n.Children[0], bound)
			walk(n.Children[1], extend(bound, n.Name()))
		case ast.Lam:
			walk(n.Children[0], extend(bound, n.Name()))
		case ast.Fix:
			walk(n.Children[0], extend(bound, n.Name()))
		default:
			for _, c := range n.Children {
				walk(c, bound)
			}
		}
	}
	walk(n, map[string]bool{})
	return order
}

// extend copies bound and adds name, leaving the original map untouched for
// sibling branches of the traversal.
func extend(bound map[string]bool, name string) map[string]bool {
	next := make(map[string]bool, len(bound)+1)
	for k := range bound {
		next[k] = true
	}
	next[name] = true
	return next
}
