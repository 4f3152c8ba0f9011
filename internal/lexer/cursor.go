package lexer

import (
	"fmt"
	"unicode/utf8"

	"flow/internal/source"

	"fortio.org/safecast"
)

// Cursor читает содержимое файла побайтно. Вне диапазона Peek и Bump возвращают 0.
type Cursor struct {
	src  []byte
	file source.FileID
	off  uint32
	end  uint32
}

func NewCursor(f *source.File) Cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file %s too large: %w", f.Path, err))
	}
	return Cursor{src: f.Content, file: f.ID, end: end}
}

// Offset is the byte offset of the next unread byte.
func (c *Cursor) Offset() uint32 { return c.off }

func (c *Cursor) EOF() bool { return c.off >= c.end }

func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.off]
}

// Bump consumes one byte and returns it.
func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.off++
	}
	return b
}

// PeekRune decodes the rune at the cursor. Invalid UTF-8 reads as RuneError of size 1.
func (c *Cursor) PeekRune() (rune, int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	if b := c.src[c.off]; b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.src[c.off:c.end])
}

// BumpRune consumes a whole rune.
func (c *Cursor) BumpRune() {
	_, size := c.PeekRune()
	c.off += uint32(size) // size <= utf8.UTFMax
}

// Mark запоминает начало лексемы.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.off) }

// SpanFrom returns the span between m and the cursor.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.off}
}

// Text returns the source bytes of a span as a string.
func (c *Cursor) Text(sp source.Span) string {
	return string(c.src[sp.Start:sp.End])
}
