package parser

import (
	"flow/internal/diag"
	"flow/internal/source"
	"flow/internal/token"
)

// peek: токен со смещением от текущей позиции; индекс зажат в [0, len-1],
// поэтому за концом всегда виден EOF.
func (p *Parser) peek(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		idx = len(p.tokens) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return p.tokens[idx]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek(0).Kind == k
}

// advance: возвращает текущий токен и сдвигает позицию
func (p *Parser) advance() token.Token {
	tok := p.peek(0)
	p.pos++
	return tok
}

// match: съедает токен нужного вида; иначе репортит и возвращает
// синтетический токен ожидаемого вида без значения на текущей позиции.
func (p *Parser) match(k token.Kind) token.Token {
	if p.at(k) {
		return p.advance()
	}
	p.unexpected(k, codeFor(k)).Emit()
	cur := p.peek(0)
	return token.Synthetic(k, cur.Span, cur.Pos)
}

// unexpected builds the "expected X but got Y" report for the current token.
// The caller may attach notes before Emit; nil is returned once MaxErrors is reached.
func (p *Parser) unexpected(want token.Kind, code diag.Code) *diag.ReportBuilder {
	cur := p.peek(0)
	if p.opts.Enough() {
		return nil // достигли максимального количества ошибок
	}
	p.opts.CurrentErrors++
	msg := "expected " + want.String() + " but got " + cur.Kind.String()
	return diag.ReportError(p.reporter, code, p.diagSpan(cur), cur.Pos, msg)
}

// diagSpan: span для диагностики: для EOF пустой span в конце входа
func (p *Parser) diagSpan(tok token.Token) source.Span {
	if tok.Kind == token.EOF {
		return source.Span{File: tok.Span.File, Start: tok.Span.Start, End: tok.Span.Start}
	}
	return tok.Span
}

func codeFor(k token.Kind) diag.Code {
	switch k {
	case token.RParen:
		return diag.SynUnclosedParen
	case token.EOF:
		return diag.SynTrailingInput
	default:
		return diag.SynUnexpectedToken
	}
}
