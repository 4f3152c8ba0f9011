package parser

import (
	"fmt"
	"strings"
	"testing"

	"flow/internal/ast"
	"flow/internal/diag"
	"flow/internal/source"
	"flow/internal/testkit"
	"flow/internal/token"
)

// sexpr renders the tree shape compactly: (+ 2 (* 3 4)), [inner] for parentheses.
func sexpr(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Literal:
		return n.Token.Value.String()
	case *ast.Binary:
		ops := map[token.Kind]string{token.Plus: "+", token.Minus: "-", token.Multiply: "*", token.Divide: "/"}
		return fmt.Sprintf("(%s %s %s)", ops[n.Op.Kind], sexpr(n.Left), sexpr(n.Right))
	case *ast.Paren:
		return "[" + sexpr(n.Inner) + "]"
	default:
		return "?"
	}
}

func TestPrecedenceAndAssociativity(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"2+3*4", "(+ 2 (* 3 4))"},
		{"(2+3)*4", "(* [(+ 2 3)] 4)"},
		{"7-2-1", "(- (- 7 2) 1)"},
		{"8/4/2", "(/ (/ 8 4) 2)"},
		{"1*2+3*4", "(+ (* 1 2) (* 3 4))"},
		{"1-2*3-4", "(- (- 1 (* 2 3)) 4)"},
		{"((1))", "[[1]]"},
		{" 1 +\n 2 ", "(+ 1 2)"},
		{"2*(3+4)/7", "(/ (* 2 [(+ 3 4)]) 7)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree, file := parseTestInput(t, tt.input, Options{})
			if !tree.OK() {
				t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(tree.Diagnostics()))
			}
			if got := sexpr(tree.Root); got != tt.want {
				t.Fatalf("shape = %s, want %s", got, tt.want)
			}
			if tree.EOF.Kind != token.EOF {
				t.Fatalf("expected EOF token, got %v", tree.EOF.Kind)
			}
			if err := testkit.CheckTreeInvariants(tree.Root, file); err != nil {
				t.Fatalf("invariants: %v", err)
			}
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		lines []string
	}{
		{
			name:  "missing operand",
			input: "2+",
			lines: []string{"ERROR: expected NUMBER but got END OF FILE at line 1, column 3."},
		},
		{
			name:  "trailing number",
			input: "2 3",
			lines: []string{"ERROR: expected END OF FILE but got NUMBER at line 1, column 3."},
		},
		{
			name:  "unclosed parenthesis",
			input: "(1+2",
			lines: []string{"ERROR: expected RIGHT PARENTHESIS but got END OF FILE at line 1, column 5."},
		},
		{
			name:  "stray close",
			input: ")",
			lines: []string{
				"ERROR: expected NUMBER but got RIGHT PARENTHESIS at line 1, column 1.",
				"ERROR: expected END OF FILE but got RIGHT PARENTHESIS at line 1, column 1.",
			},
		},
		{
			name:  "lexical before syntactic",
			input: "1 @ 2",
			lines: []string{
				"ERROR: unknown character '@' at line 1, column 3.",
				"ERROR: expected END OF FILE but got NUMBER at line 1, column 5.",
			},
		},
		{
			name:  "overflow",
			input: "99999999999999999999+1",
			lines: []string{
				"ERROR: Invalid number '99999999999999999999' at line 1, column 1.",
				"ERROR: expected NUMBER but got PLUS at line 1, column 21.",
			},
		},
		{
			name:  "second line",
			input: "1 +\n* 2",
			lines: []string{
				"ERROR: expected NUMBER but got MULTIPLY at line 2, column 1.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, _ := parseTestInput(t, tt.input, Options{})
			if tree.OK() {
				t.Fatal("expected diagnostics")
			}
			got := tree.Lines()
			if strings.Join(got, "\n") != strings.Join(tt.lines, "\n") {
				t.Fatalf("diagnostics mismatch:\n got: %q\nwant: %q", got, tt.lines)
			}
			if tree.Root == nil {
				t.Fatal("a tree must be returned even with diagnostics")
			}
		})
	}
}

func TestEmptyInputSingleDiagnostic(t *testing.T) {
	tree := ParseString("")
	lines := tree.Lines()
	if len(lines) != 1 || lines[0] != "ERROR: Input string cannot be empty." {
		t.Fatalf("unexpected diagnostics: %q", lines)
	}
	if tree.Diagnostics()[0].Code != diag.LexEmptyInput {
		t.Fatalf("unexpected code %v", tree.Diagnostics()[0].Code)
	}
}

func TestUnclosedParenNote(t *testing.T) {
	tree, _ := parseTestInput(t, "(1", Options{})
	diags := tree.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %s", diagnosticsSummary(diags))
	}
	d := diags[0]
	if d.Code != diag.SynUnclosedParen {
		t.Fatalf("expected SynUnclosedParen, got %v", d.Code)
	}
	if len(d.Notes) != 1 || d.Notes[0].Pos.Col != 1 {
		t.Fatalf("expected note at the opening parenthesis, got %+v", d.Notes)
	}

	paren, ok := tree.Root.(*ast.Paren)
	if !ok {
		t.Fatalf("expected Paren root, got %T", tree.Root)
	}
	if !paren.Close.IsSynthetic() || paren.Close.Value.Present() {
		t.Fatalf("expected synthetic close token without value, got %v", paren.Close)
	}
	if paren.Close.Pos.Col != 3 {
		t.Fatalf("synthetic token must sit at the current position, got col %d", paren.Close.Pos.Col)
	}
}

func TestSyntheticLiteralHasNoValue(t *testing.T) {
	tree := ParseString("1+")
	bin, ok := tree.Root.(*ast.Binary)
	if !ok {
		t.Fatalf("expected Binary root, got %T", tree.Root)
	}
	lit := bin.Right.(*ast.Literal)
	if lit.Token.Kind != token.Number || lit.Token.Value.Present() {
		t.Fatalf("expected valueless NUMBER, got %v", lit.Token)
	}
}

func TestPeekClamps(t *testing.T) {
	_, file := parseTestInput(t, "1+2", Options{})
	p := New(file, Options{})
	if got := p.peek(-5).Kind; got != token.Number {
		t.Fatalf("negative offset must clamp to first token, got %v", got)
	}
	for _, off := range []int{3, 4, 100} {
		if got := p.peek(off).Kind; got != token.EOF {
			t.Fatalf("peek(%d) = %v, want EOF", off, got)
		}
	}
	if len(p.Tokens()) != 4 {
		t.Fatalf("expected 4 filtered tokens, got %d", len(p.Tokens()))
	}
}

func TestFilteredBufferDropsWhitespaceAndUnknown(t *testing.T) {
	_, file := parseTestInput(t, " 1 $ + 2 ", Options{})
	p := New(file, Options{})
	var kinds []token.Kind
	for _, tok := range p.Tokens() {
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{token.Number, token.Plus, token.Number, token.EOF}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	if len(p.Diagnostics()) != 1 {
		t.Fatalf("expected the lexical diagnostic to be copied, got %s", diagnosticsSummary(p.Diagnostics()))
	}
}

func TestMaxErrors(t *testing.T) {
	tree, _ := parseTestInput(t, "((((", Options{MaxErrors: 2})
	if got := len(tree.Diagnostics()); got != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %s", got, diagnosticsSummary(tree.Diagnostics()))
	}

	unlimited, _ := parseTestInput(t, "((((", Options{})
	if got := len(unlimited.Diagnostics()); got != 5 {
		t.Fatalf("expected 5 diagnostics, got %d: %s", got, diagnosticsSummary(unlimited.Diagnostics()))
	}
}

type recordingReporter struct{ codes []diag.Code }

func (r *recordingReporter) Report(code diag.Code, _ diag.Severity, _ source.Span, _ source.LineCol, _ string, _ []diag.Note) {
	r.codes = append(r.codes, code)
}

func TestExternalReporterSeesAllDiagnostics(t *testing.T) {
	rec := &recordingReporter{}
	tree, _ := parseTestInput(t, "1 # 2", Options{Reporter: rec})
	want := []diag.Code{diag.LexUnknownChar, diag.SynTrailingInput}
	if fmt.Sprint(rec.codes) != fmt.Sprint(want) {
		t.Fatalf("reporter got %v, want %v", rec.codes, want)
	}
	if len(tree.Diagnostics()) != 2 {
		t.Fatalf("tree must keep its own copy, got %d", len(tree.Diagnostics()))
	}
}

func TestParseIsIdempotent(t *testing.T) {
	_, file := parseTestInput(t, "1+2", Options{})
	p := New(file, Options{})
	if p.Parse() != p.Parse() {
		t.Fatal("Parse must return the same tree on repeated calls")
	}
}

func TestDiagnosticsAreCopies(t *testing.T) {
	tree := ParseString("2+")
	d := tree.Diagnostics()
	d[0].Message = "changed"
	if tree.Diagnostics()[0].Message == "changed" {
		t.Fatal("Diagnostics must return a copy")
	}
}

func TestLiteralRoundTrip(t *testing.T) {
	inputs := []string{"12+345", "(7)*0", "9223372036854775807-1"}
	for _, in := range inputs {
		tree, file := parseTestInput(t, in, Options{})
		if !tree.OK() {
			t.Fatalf("%q: %s", in, diagnosticsSummary(tree.Diagnostics()))
		}
		ast.Walk(tree.Root, func(e ast.Expr) bool {
			lit, ok := e.(*ast.Literal)
			if !ok {
				return true
			}
			text := string(file.Content[lit.Token.Span.Start:lit.Token.Span.End])
			again := ParseString(text)
			relit, ok := again.Root.(*ast.Literal)
			if !again.OK() || !ok {
				t.Fatalf("%q: re-parse of %q failed", in, text)
			}
			want, _ := lit.Token.Value.Int()
			got, _ := relit.Token.Value.Int()
			if got != want {
				t.Fatalf("%q: round trip %d != %d", in, got, want)
			}
			return true
		})
	}
}
