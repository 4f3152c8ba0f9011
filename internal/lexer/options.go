package lexer

import (
	"flow/internal/diag"
	"flow/internal/source"
)

type Options struct {
	// Reporter получает копию каждой диагностики (например, для трассировки); может быть nil.
	Reporter diag.Reporter
	// MaxDiagnostics ограничивает собственный Bag лексера; 0 - diag.DefaultMax.
	MaxDiagnostics int
}

func (lx *Lexer) report(code diag.Code, sp source.Span, pos source.LineCol, msg string) {
	lx.reporter.Report(code, diag.SevError, sp, pos, msg, nil)
}
