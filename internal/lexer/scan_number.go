package lexer

import (
	"strconv"

	"flow/internal/diag"
	"flow/internal/token"
)

// scanNumber жадно читает десятичные цифры и переводит их в int64.
// Переполнение - диагностика LexBadNumber и Unknown-токен с исходным текстом.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	pos := lx.pos
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.cursor.Text(sp)

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		lx.report(diag.LexBadNumber, sp, pos, "Invalid number '"+text+"'")
		return token.Token{Kind: token.Unknown, Value: token.TextValue(text), Span: sp, Pos: pos}
	}
	return token.Token{Kind: token.Number, Value: token.IntValue(n), Span: sp, Pos: pos}
}
