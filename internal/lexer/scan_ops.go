package lexer

import (
	"flow/internal/diag"
	"flow/internal/token"
)

// scanPunct: однобайтовые операторы и скобки.
func (lx *Lexer) scanPunct(kind token.Kind) token.Token {
	start := lx.cursor.Mark()
	pos := lx.pos
	lx.cursor.Bump()
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Pos: pos}
}

// scanWhitespace коалесцирует подряд идущие пробелы, табы и переводы строк.
func (lx *Lexer) scanWhitespace() token.Token {
	start := lx.cursor.Mark()
	pos := lx.pos
	for isSpace(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Whitespace, Value: token.TextValue(lx.cursor.Text(sp)), Span: sp, Pos: pos}
}

// scanUnknown съедает целую руну, репортит её и возвращает Unknown-токен.
func (lx *Lexer) scanUnknown() token.Token {
	start := lx.cursor.Mark()
	pos := lx.pos
	lx.cursor.BumpRune()
	sp := lx.cursor.SpanFrom(start)
	text := lx.cursor.Text(sp)
	lx.report(diag.LexUnknownChar, sp, pos, "unknown character '"+text+"'")
	return token.Token{Kind: token.Unknown, Value: token.TextValue(text), Span: sp, Pos: pos}
}
