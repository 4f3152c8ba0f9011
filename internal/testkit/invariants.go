package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"flow/internal/ast"
	"flow/internal/source"
	"flow/internal/token"
)

// CheckTreeInvariants runs span and shape invariants on a parsed expression tree:
// 1) every node span is within the file content and points at the file
// 2) every child span is contained in its parent span
// 3) binary operators are arithmetic, literals are numbers, no Unary nodes exist
// 4) the tree depth does not exceed the number of content bytes + 1
func CheckTreeInvariants(root ast.Expr, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil root or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var walkErr error
	ast.Walk(root, func(e ast.Expr) bool {
		if walkErr != nil {
			return false
		}
		sp := e.Span()
		if sp.File != sf.ID {
			walkErr = fmt.Errorf("%s span file mismatch: got=%d want=%d", e.Kind(), sp.File, sf.ID)
			return false
		}
		if sp.End < sp.Start || sp.End > lenContent {
			walkErr = fmt.Errorf("%s span %v outside content of %d bytes", e.Kind(), sp, lenContent)
			return false
		}
		for _, c := range ast.Children(e) {
			if c == nil {
				walkErr = fmt.Errorf("%s has a nil child", e.Kind())
				return false
			}
			if !sp.Contains(c.Span()) {
				walkErr = fmt.Errorf("child %s span %v is outside parent %s span %v", c.Kind(), c.Span(), e.Kind(), sp)
				return false
			}
		}
		walkErr = checkShape(e)
		return walkErr == nil
	})
	if walkErr != nil {
		return walkErr
	}

	if depth := ast.Depth(root); depth > len(sf.Content)+1 {
		return fmt.Errorf("tree depth %d exceeds input length %d", depth, len(sf.Content))
	}
	return nil
}

func checkShape(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.Literal:
		if n.Token.Kind != token.Number {
			return fmt.Errorf("literal carries %s token", n.Token.Kind)
		}
	case *ast.Binary:
		if !n.Op.Kind.IsOperator() {
			return fmt.Errorf("binary operator is %s", n.Op.Kind)
		}
	case *ast.Paren:
		if n.Open.Kind != token.LParen || n.Close.Kind != token.RParen {
			return fmt.Errorf("parentheses tokens are %s/%s", n.Open.Kind, n.Close.Kind)
		}
	case *ast.Unary:
		return fmt.Errorf("unary expression in parsed tree")
	default:
		return fmt.Errorf("unknown expression %T", e)
	}
	return nil
}
