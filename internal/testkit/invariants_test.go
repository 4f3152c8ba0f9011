package testkit

import (
	"strings"
	"testing"

	"flow/internal/ast"
	"flow/internal/parser"
	"flow/internal/source"
	"flow/internal/token"
)

func fileFor(text string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("<input>", []byte(text)))
}

func TestParsedTreesHold(t *testing.T) {
	for _, in := range []string{"1", "2+3*4", "((1))", "8/(4-2)-1", "(1+2", "2+", ")"} {
		file := fileFor(in)
		tree := parser.New(file, parser.Options{}).Parse()
		if err := CheckTreeInvariants(tree.Root, file); err != nil {
			t.Errorf("%q: %v", in, err)
		}
	}
}

func TestViolations(t *testing.T) {
	file := fileFor("1+2")
	num := func(start, end uint32, id source.FileID) token.Token {
		return token.Token{Kind: token.Number, Value: token.IntValue(1), Span: source.Span{File: id, Start: start, End: end}}
	}
	plus := token.Token{Kind: token.Plus, Span: source.Span{File: file.ID, Start: 1, End: 2}}

	tests := []struct {
		name string
		root ast.Expr
		want string
	}{
		{"foreign file", ast.NewLiteral(num(0, 1, file.ID+1)), "span file mismatch"},
		{"outside content", ast.NewLiteral(num(0, 9, file.ID)), "outside content"},
		{"nil child", ast.NewBinary(ast.NewLiteral(num(0, 1, file.ID)), plus, nil), "nil child"},
		{"unary", &ast.Unary{Op: plus, Operand: ast.NewLiteral(num(2, 3, file.ID))}, "unary expression"},
		{"bad operator", ast.NewBinary(ast.NewLiteral(num(0, 1, file.ID)), num(1, 2, file.ID), ast.NewLiteral(num(2, 3, file.ID))), "binary operator is NUMBER"},
		{"bad literal", ast.NewLiteral(plus), "literal carries PLUS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTreeInvariants(tt.root, file)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestNilInputs(t *testing.T) {
	if CheckTreeInvariants(nil, fileFor("1")) == nil {
		t.Fatal("expected error for nil root")
	}
}
