package parser

import (
	"flow/internal/ast"
	"flow/internal/diag"
	"flow/internal/token"
)

// expression := binary(0)
func (p *Parser) parseExpression() ast.Expr {
	return p.parseBinaryExpr(precNone)
}

// parseBinaryExpr: precedence climbing: пока приоритет оператора строго больше
// minPrec, правая часть разбирается с его приоритетом. Равные приоритеты
// сворачиваются в цикле слева направо.
func (p *Parser) parseBinaryExpr(minPrec int) ast.Expr {
	left := p.parsePrimary()

	for {
		prec := binaryPrec(p.peek(0).Kind)
		if prec <= minPrec {
			break
		}
		opTok := p.advance()
		right := p.parseBinaryExpr(prec)
		left = ast.NewBinary(left, opTok, right)
	}
	return left
}

// primary := '(' expression ')' | NUMBER
func (p *Parser) parsePrimary() ast.Expr {
	if p.at(token.LParen) {
		return p.parseParenExpr()
	}
	return ast.NewLiteral(p.match(token.Number))
}

func (p *Parser) parseParenExpr() ast.Expr {
	open := p.advance()
	inner := p.parseExpression()

	if p.at(token.RParen) {
		return ast.NewParen(open, inner, p.advance())
	}
	p.unexpected(token.RParen, diag.SynUnclosedParen).
		WithNote(open.Span, open.Pos, "opening parenthesis here").
		Emit()
	cur := p.peek(0)
	return ast.NewParen(open, inner, token.Synthetic(token.RParen, cur.Span, cur.Pos))
}
