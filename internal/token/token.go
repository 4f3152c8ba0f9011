package token

import (
	"fmt"
	"strconv"

	"flow/internal/source"
)

// Value is the optional payload of a token.
// Number tokens carry an integer, Unknown and Whitespace tokens carry their raw text.
type Value struct {
	text  string
	num   int64
	isNum bool
	ok    bool
}

// NoValue is the absent payload.
var NoValue = Value{}

// IntValue wraps an integer payload.
func IntValue(n int64) Value { return Value{num: n, isNum: true, ok: true} }

// TextValue wraps a raw-text payload.
func TextValue(s string) Value { return Value{text: s, ok: true} }

// Present reports whether the token carries any payload.
func (v Value) Present() bool { return v.ok }

// Int returns the integer payload.
func (v Value) Int() (int64, bool) { return v.num, v.ok && v.isNum }

// Text returns the raw-text payload.
func (v Value) Text() (string, bool) { return v.text, v.ok && !v.isNum }

func (v Value) String() string {
	switch {
	case !v.ok:
		return "null"
	case v.isNum:
		return strconv.FormatInt(v.num, 10)
	default:
		return v.text
	}
}

// Token represents a single source token with its location.
type Token struct {
	Kind  Kind
	Value Value
	Span  source.Span
	Pos   source.LineCol
}

// Synthetic builds a placeholder token of the given kind without a value.
func Synthetic(kind Kind, span source.Span, pos source.LineCol) Token {
	return Token{Kind: kind, Span: source.Span{File: span.File, Start: span.Start, End: span.Start}, Pos: pos}
}

// IsSynthetic reports whether the token was manufactured rather than scanned.
func (t Token) IsSynthetic() bool {
	return t.Span.Empty() && t.Kind != EOF
}

func (t Token) String() string {
	return fmt.Sprintf("Token<%s>[value=%s, line=%d, column=%d]", t.Kind, t.Value, t.Pos.Line, t.Pos.Col)
}
