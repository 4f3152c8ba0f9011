package ast

// Children returns the direct sub-expressions of e in source order.
func Children(e Expr) []Expr {
	switch n := e.(type) {
	case *Binary:
		return []Expr{n.Left, n.Right}
	case *Paren:
		return []Expr{n.Inner}
	case *Unary:
		return []Expr{n.Operand}
	default:
		return nil
	}
}

// Walk visits e in pre-order. Returning false from fn skips the node's children.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range Children(e) {
		Walk(c, fn)
	}
}

// Depth returns the height of the tree; a single literal has depth 1.
func Depth(e Expr) int {
	if e == nil {
		return 0
	}
	best := 0
	for _, c := range Children(e) {
		best = max(best, Depth(c))
	}
	return best + 1
}

// Count returns the number of nodes in the tree.
func Count(e Expr) int {
	n := 0
	Walk(e, func(Expr) bool {
		n++
		return true
	})
	return n
}
