package diagfmt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"flow/internal/ast"
)

// ErrUnsupportedNode is returned when the tree contains a node the printer has no layout for.
var ErrUnsupportedNode = errors.New("unsupported expression")

const (
	markerMid  = "├── "
	markerLast = "└── "
	indentMid  = "│   "
	indentLast = "    "
)

// position of a node relative to its siblings
type branch uint8

const (
	branchRoot branch = iota
	branchMid
	branchLast
)

func (b branch) marker() string {
	switch b {
	case branchMid:
		return markerMid
	case branchLast:
		return markerLast
	default:
		return ""
	}
}

func (b branch) childIndent() string {
	switch b {
	case branchMid:
		return indentMid
	case branchLast:
		return indentLast
	default:
		return ""
	}
}

// FormatTree renders expr as a box-drawing diagram without a trailing newline:
//
//	BINARY EXPRESSION
//	├── LITERAL EXPRESSION 2
//	├── PLUS
//	└── LITERAL EXPRESSION 3
func FormatTree(expr ast.Expr) (string, error) {
	lines, err := treeLines(expr, "", branchRoot, nil)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// WriteTree writes the diagram followed by a newline.
func WriteTree(w io.Writer, expr ast.Expr) error {
	s, err := FormatTree(expr)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s+"\n")
	return err
}

func treeLines(expr ast.Expr, indent string, pos branch, out []string) ([]string, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		if e == nil {
			break
		}
		return append(out, indent+pos.marker()+e.Kind().String()+" "+e.Token.Value.String()), nil

	case *ast.Binary:
		if e == nil {
			break
		}
		out = append(out, indent+pos.marker()+e.Kind().String())
		child := indent + pos.childIndent()
		var err error
		if out, err = treeLines(e.Left, child, branchMid, out); err != nil {
			return nil, err
		}
		out = append(out, child+markerMid+e.Op.Kind.String())
		return treeLines(e.Right, child, branchLast, out)

	case *ast.Paren:
		if e == nil {
			break
		}
		out = append(out, indent+pos.marker()+e.Kind().String())
		child := indent + pos.childIndent()
		out = append(out, child+markerMid+e.Open.Kind.String())
		var err error
		if out, err = treeLines(e.Inner, child, branchMid, out); err != nil {
			return nil, err
		}
		return append(out, child+markerLast+e.Close.Kind.String()), nil

	case *ast.Unary:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedNode, e.Kind())
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedNode, expr)
}
