package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Unknown marks a character that is not part of the language.
	Unknown Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Number represents a decimal integer literal.
	Number
	// Plus represents '+'.
	Plus
	// Minus represents '-'.
	Minus
	// Multiply represents '*'.
	Multiply
	// Divide represents '/'.
	Divide
	// LParen represents '('.
	LParen
	// RParen represents ')'.
	RParen
	// Whitespace represents a run of spaces, tabs and line breaks.
	Whitespace
)

var kindLabels = [...]string{
	Unknown:    "UNKNOWN",
	EOF:        "END OF FILE",
	Number:     "NUMBER",
	Plus:       "PLUS",
	Minus:      "MINUS",
	Multiply:   "MULTIPLY",
	Divide:     "DIVIDE",
	LParen:     "LEFT PARENTHESIS",
	RParen:     "RIGHT PARENTHESIS",
	Whitespace: "WHITESPACE",
}

// String returns the human-readable label used in diagnostics and tree output.
func (k Kind) String() string {
	if int(k) < len(kindLabels) {
		return kindLabels[k]
	}
	return kindLabels[Unknown]
}

// IsOperator reports whether k is one of the four arithmetic operators.
func (k Kind) IsOperator() bool {
	switch k {
	case Plus, Minus, Multiply, Divide:
		return true
	default:
		return false
	}
}

// Classify maps a single byte to the kind of token it starts.
// The zero byte is the end-of-input sentinel.
func Classify(b byte) Kind {
	if b >= '0' && b <= '9' {
		return Number
	}
	switch b {
	case 0:
		return EOF
	case '+':
		return Plus
	case '-':
		return Minus
	case '*':
		return Multiply
	case '/':
		return Divide
	case '(':
		return LParen
	case ')':
		return RParen
	case ' ', '\t', '\n', '\r':
		return Whitespace
	default:
		return Unknown
	}
}
