package fuzztests

import (
	"errors"
	"testing"

	"flow/internal/diag"
	"flow/internal/diagfmt"
	"flow/internal/lexer"
	"flow/internal/parser"
	"flow/internal/source"
	"flow/internal/testkit"
	"flow/internal/token"
	"flow/internal/vm"
)

func FuzzLexerTokens(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.flow", clamp(input)))

		bag := diag.NewBag(64)
		tokens := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}}).All()
		if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
			t.Fatalf("token stream must end with EOF")
		}
		var prevEnd uint32
		for i, tok := range tokens {
			if tok.Kind == token.EOF && i != len(tokens)-1 {
				t.Fatalf("EOF at %d of %d", i, len(tokens))
			}
			if tok.Span.Start < prevEnd || tok.Span.End < tok.Span.Start {
				t.Fatalf("token %d span %v overlaps previous end %d", i, tok.Span, prevEnd)
			}
			prevEnd = tok.Span.End
		}
	})
}

func FuzzParser(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.flow", clamp(input)))

		tree := parser.New(file, parser.Options{MaxErrors: 32}).Parse()
		if tree.Root == nil {
			t.Fatal("Parse must always return a root")
		}
		if err := testkit.CheckTreeInvariants(tree.Root, file); err != nil {
			t.Fatalf("tree invariants: %v", err)
		}
		if _, err := diagfmt.FormatTree(tree.Root); err != nil {
			t.Fatalf("tree printer: %v", err)
		}
		if !tree.OK() {
			return
		}
		_, err := vm.EvaluateTree(tree)
		var fault *vm.Error
		if err != nil && !errors.As(err, &fault) {
			t.Fatalf("evaluation returned a non-fault error: %v", err)
		}
		if fault != nil && fault.Code != vm.PanicDivisionByZero {
			t.Fatalf("valid tree produced %s", fault.Code)
		}
	})
}
