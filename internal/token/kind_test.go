package token_test

import (
	"testing"

	"flow/internal/source"
	"flow/internal/token"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		in   byte
		want token.Kind
	}{
		{'0', token.Number},
		{'9', token.Number},
		{'+', token.Plus},
		{'-', token.Minus},
		{'*', token.Multiply},
		{'/', token.Divide},
		{'(', token.LParen},
		{')', token.RParen},
		{' ', token.Whitespace},
		{'\t', token.Whitespace},
		{'\n', token.Whitespace},
		{'\r', token.Whitespace},
		{0, token.EOF},
		{'a', token.Unknown},
		{'%', token.Unknown},
		{0xC3, token.Unknown},
	}
	for _, tt := range tests {
		if got := token.Classify(tt.in); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKindLabels(t *testing.T) {
	labels := map[token.Kind]string{
		token.Number:     "NUMBER",
		token.Plus:       "PLUS",
		token.Minus:      "MINUS",
		token.Multiply:   "MULTIPLY",
		token.Divide:     "DIVIDE",
		token.LParen:     "LEFT PARENTHESIS",
		token.RParen:     "RIGHT PARENTHESIS",
		token.Whitespace: "WHITESPACE",
		token.EOF:        "END OF FILE",
		token.Unknown:    "UNKNOWN",
		token.Kind(200):  "UNKNOWN",
	}
	for k, want := range labels {
		if k.String() != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, k.String(), want)
		}
	}
}

func TestIsOperator(t *testing.T) {
	for _, k := range []token.Kind{token.Plus, token.Minus, token.Multiply, token.Divide} {
		if !k.IsOperator() {
			t.Fatalf("%v should be an operator", k)
		}
	}
	for _, k := range []token.Kind{token.Number, token.LParen, token.RParen, token.EOF, token.Whitespace, token.Unknown} {
		if k.IsOperator() {
			t.Fatalf("%v must NOT be an operator", k)
		}
	}
}

func TestValue(t *testing.T) {
	if token.NoValue.Present() {
		t.Fatal("NoValue must be absent")
	}
	n, ok := token.IntValue(42).Int()
	if !ok || n != 42 {
		t.Fatalf("IntValue: got %d, %v", n, ok)
	}
	if _, ok := token.IntValue(42).Text(); ok {
		t.Fatal("integer value must not expose text")
	}
	s, ok := token.TextValue("@").Text()
	if !ok || s != "@" {
		t.Fatalf("TextValue: got %q, %v", s, ok)
	}
	if _, ok := token.TextValue("@").Int(); ok {
		t.Fatal("text value must not expose an integer")
	}
}

func TestTokenString(t *testing.T) {
	tok := token.Token{
		Kind:  token.Number,
		Value: token.IntValue(7),
		Span:  source.Span{Start: 0, End: 1},
		Pos:   source.LineCol{Line: 1, Col: 1},
	}
	if got, want := tok.String(), "Token<NUMBER>[value=7, line=1, column=1]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	plus := token.Token{Kind: token.Plus, Span: source.Span{Start: 1, End: 2}, Pos: source.LineCol{Line: 1, Col: 2}}
	if got, want := plus.String(), "Token<PLUS>[value=null, line=1, column=2]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSynthetic(t *testing.T) {
	tok := token.Synthetic(token.RParen, source.Span{File: 2, Start: 5, End: 8}, source.LineCol{Line: 1, Col: 6})
	if tok.Value.Present() {
		t.Fatal("synthetic token must not carry a value")
	}
	if !tok.IsSynthetic() {
		t.Fatal("expected IsSynthetic")
	}
	if tok.Span != (source.Span{File: 2, Start: 5, End: 5}) {
		t.Fatalf("unexpected span %v", tok.Span)
	}
}
