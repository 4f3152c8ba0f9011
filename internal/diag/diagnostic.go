package diag

import (
	"fmt"
	"strings"

	"flow/internal/source"
)

type Note struct {
	Span source.Span
	Pos  source.LineCol
	Msg  string
}

// Diagnostic is a single lexical or syntactic finding.
// Message never contains the position; Pos is zero when the finding has none.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Pos      source.LineCol
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, pos source.LineCol, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Pos:      pos,
	}
}

func NewError(code Code, primary source.Span, pos source.LineCol, msg string) Diagnostic {
	return New(SevError, code, primary, pos, msg)
}

func (d Diagnostic) WithNote(sp source.Span, pos source.LineCol, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Pos: pos, Msg: msg})
	return d
}

// Text renders the message with its position and a closing period:
// "unknown character '@' at line 1, column 3."
func (d Diagnostic) Text() string {
	var b strings.Builder
	b.WriteString(d.Message)
	if !d.Pos.IsZero() {
		fmt.Fprintf(&b, " at line %d, column %d", d.Pos.Line, d.Pos.Col)
	}
	b.WriteByte('.')
	return b.String()
}

// Line is the single-line form: "ERROR: <text>".
func (d Diagnostic) Line() string {
	return d.Severity.String() + ": " + d.Text()
}

func (d Diagnostic) String() string {
	return d.Line()
}
