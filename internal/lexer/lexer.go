package lexer

import (
	"unicode/utf8"

	"flow/internal/diag"
	"flow/internal/source"
	"flow/internal/token"
)

// Lexer превращает содержимое файла в ленивую последовательность токенов.
// Пробелы и неизвестные символы тоже попадают в поток; фильтрует их парсер.
type Lexer struct {
	file     *source.File
	cursor   Cursor
	opts     Options
	bag      *diag.Bag
	reporter diag.Reporter
	pos      source.LineCol // позиция текущего байта
	done     bool           // EOF уже выдан
}

func New(file *source.File, opts Options) *Lexer {
	bag := diag.NewBag(opts.MaxDiagnostics)
	lx := &Lexer{
		file:     file,
		cursor:   NewCursor(file),
		opts:     opts,
		bag:      bag,
		reporter: diag.Combine(diag.BagReporter{Bag: bag}, opts.Reporter),
		pos:      source.LineCol{Line: 1, Col: 1},
	}
	if len(file.Content) == 0 {
		lx.report(diag.LexEmptyInput, lx.emptySpan(), source.LineCol{}, "Input string cannot be empty")
	}
	return lx
}

// FromString creates a lexer over an in-memory input.
func FromString(text string) *Lexer {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<input>", []byte(text))
	return New(fs.Get(id), Options{})
}

// File returns the file being tokenized.
func (lx *Lexer) File() *source.File {
	return lx.file
}

// HasNext остаётся true, пока смещение не ушло за конец входа,
// то есть EOF ещё не был выдан.
func (lx *Lexer) HasNext() bool {
	return !lx.done
}

// Next возвращает следующий токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.cursor.EOF() {
		lx.done = true
		return token.Token{Kind: token.EOF, Span: lx.emptySpan(), Pos: lx.pos}
	}

	b := lx.cursor.Peek()
	var tok token.Token
	switch kind := token.Classify(b); kind {
	case token.Number:
		tok = lx.scanNumber()
	case token.Whitespace:
		tok = lx.scanWhitespace()
	case token.Plus, token.Minus, token.Multiply, token.Divide, token.LParen, token.RParen:
		tok = lx.scanPunct(kind)
	default:
		// включая NUL внутри текста: sentinel EOF бывает только за концом
		tok = lx.scanUnknown()
	}
	lx.advancePos(tok.Span)
	return tok
}

// All drains the lexer and returns every token including the final EOF.
func (lx *Lexer) All() []token.Token {
	tokens := make([]token.Token, 0, len(lx.file.Content)/2+1)
	for lx.HasNext() {
		tokens = append(tokens, lx.Next())
	}
	return tokens
}

// Diagnostics returns a copy of the lexical diagnostics collected so far.
func (lx *Lexer) Diagnostics() []diag.Diagnostic {
	return lx.bag.Items()
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Offset(), End: lx.cursor.Offset()}
}

// advancePos сдвигает line/col через байты span; колонка считается в рунах
func (lx *Lexer) advancePos(sp source.Span) {
	text := lx.file.Content[sp.Start:sp.End]
	for len(text) > 0 {
		r, size := utf8.DecodeRune(text)
		text = text[size:]
		if r == '\n' {
			lx.pos.Line++
			lx.pos.Col = 1
			continue
		}
		lx.pos.Col++
	}
}
