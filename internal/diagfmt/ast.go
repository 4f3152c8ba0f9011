package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"flow/internal/ast"
)

// ASTNodeOutput is the structured form of one expression node.
type ASTNodeOutput struct {
	Type     string          `json:"type" yaml:"type"`
	Start    uint32          `json:"start" yaml:"start"`
	End      uint32          `json:"end" yaml:"end"`
	Operator string          `json:"operator,omitempty" yaml:"operator,omitempty"`
	Value    *int64          `json:"value,omitempty" yaml:"value,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty" yaml:"children,omitempty"`
}

// BuildASTOutput converts expr into its structured form.
// It fails with ErrUnsupportedNode in the same cases as FormatTree.
func BuildASTOutput(expr ast.Expr) (ASTNodeOutput, error) {
	if expr == nil {
		return ASTNodeOutput{}, fmt.Errorf("%w: nil", ErrUnsupportedNode)
	}
	sp := expr.Span()
	node := ASTNodeOutput{Type: expr.Kind().String(), Start: sp.Start, End: sp.End}

	switch e := expr.(type) {
	case *ast.Literal:
		if v, ok := e.Token.Value.Int(); ok {
			node.Value = &v
		}
		return node, nil
	case *ast.Binary:
		node.Operator = e.Op.Kind.String()
		return withChildren(node, e.Left, e.Right)
	case *ast.Paren:
		return withChildren(node, e.Inner)
	default:
		return ASTNodeOutput{}, fmt.Errorf("%w: %s", ErrUnsupportedNode, expr.Kind())
	}
}

func withChildren(node ASTNodeOutput, children ...ast.Expr) (ASTNodeOutput, error) {
	for _, c := range children {
		out, err := BuildASTOutput(c)
		if err != nil {
			return ASTNodeOutput{}, err
		}
		node.Children = append(node.Children, out)
	}
	return node, nil
}

// FormatTreeJSON writes the tree as indented JSON.
func FormatTreeJSON(w io.Writer, expr ast.Expr) error {
	out, err := BuildASTOutput(expr)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// FormatTreeYAML writes the tree as YAML.
func FormatTreeYAML(w io.Writer, expr ast.Expr) error {
	out, err := BuildASTOutput(expr)
	if err != nil {
		return err
	}
	return encodeYAML(w, out)
}
