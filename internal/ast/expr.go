// Package ast defines the Flow expression tree.
//
// Expr is a closed sum type: only the node types declared here implement it,
// and consumers switch over them exhaustively. Trees are immutable once the
// parser returns them and no node is shared between trees.
package ast

import (
	"flow/internal/source"
	"flow/internal/token"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindLiteral
	KindUnary
	KindBinary
	KindParen
)

var kindLabels = [...]string{
	KindUnknown: "UNKNOWN EXPRESSION",
	KindLiteral: "LITERAL EXPRESSION",
	KindUnary:   "UNARY EXPRESSION",
	KindBinary:  "BINARY EXPRESSION",
	KindParen:   "PARENTHESES EXPRESSION",
}

func (k Kind) String() string {
	if int(k) < len(kindLabels) {
		return kindLabels[k]
	}
	return kindLabels[KindUnknown]
}

// Expr is implemented by *Literal, *Binary, *Paren and *Unary.
type Expr interface {
	Kind() Kind
	Span() source.Span
	exprNode()
}

// Literal is a number leaf.
type Literal struct {
	Token token.Token
}

// Binary is Left Op Right with Op one of + - * /.
type Binary struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

// Paren is a parenthesized expression; Close may be synthetic.
type Paren struct {
	Open  token.Token
	Inner Expr
	Close token.Token
}

// Unary is reserved: the parser never builds it.
type Unary struct {
	Op      token.Token
	Operand Expr
}

func (*Literal) Kind() Kind { return KindLiteral }
func (*Binary) Kind() Kind  { return KindBinary }
func (*Paren) Kind() Kind   { return KindParen }
func (*Unary) Kind() Kind   { return KindUnary }

func (e *Literal) Span() source.Span { return e.Token.Span }

func (e *Binary) Span() source.Span {
	return spanOf(e.Left).Cover(e.Op.Span).Cover(spanOf(e.Right))
}

func (e *Paren) Span() source.Span {
	return e.Open.Span.Cover(spanOf(e.Inner)).Cover(e.Close.Span)
}

func (e *Unary) Span() source.Span {
	return e.Op.Span.Cover(spanOf(e.Operand))
}

func (*Literal) exprNode() {}
func (*Binary) exprNode()  {}
func (*Paren) exprNode()   {}
func (*Unary) exprNode()   {}

func spanOf(e Expr) source.Span {
	if e == nil {
		return source.Span{}
	}
	return e.Span()
}

// NewLiteral, NewBinary and NewParen are used by the parser.
func NewLiteral(tok token.Token) *Literal { return &Literal{Token: tok} }

func NewBinary(left Expr, op token.Token, right Expr) *Binary {
	return &Binary{Left: left, Op: op, Right: right}
}

func NewParen(open token.Token, inner Expr, closeTok token.Token) *Paren {
	return &Paren{Open: open, Inner: inner, Close: closeTok}
}
