package parser

import (
	"flow/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет; 0 - не оператор
const (
	precNone           = 0
	precAdditive       = 1 // + -
	precMultiplicative = 2 // * /
)

// binaryPrec возвращает приоритет бинарного оператора.
// Все операторы левоассоциативны.
func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.Plus, token.Minus:
		return precAdditive
	case token.Multiply, token.Divide:
		return precMultiplicative
	default:
		return precNone
	}
}
