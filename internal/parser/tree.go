package parser

import (
	"flow/internal/ast"
	"flow/internal/diag"
	"flow/internal/source"
	"flow/internal/token"
)

// Tree is the result of one Parse call.
// When diagnostics are present the root is unreliable and must not be evaluated or printed.
type Tree struct {
	Root  ast.Expr
	EOF   token.Token
	File  *source.File
	diags []diag.Diagnostic
}

// OK reports whether the tree was parsed without diagnostics.
func (t *Tree) OK() bool {
	return t != nil && len(t.diags) == 0
}

// Diagnostics returns a copy of the diagnostics, lexical first.
func (t *Tree) Diagnostics() []diag.Diagnostic {
	if t == nil {
		return nil
	}
	out := make([]diag.Diagnostic, len(t.diags))
	copy(out, t.diags)
	return out
}

// Lines returns the diagnostics in their single-line form.
func (t *Tree) Lines() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.diags))
	for _, d := range t.diags {
		out = append(out, d.Line())
	}
	return out
}
