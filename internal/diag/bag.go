package diag

import (
	"math"

	"fortio.org/safecast"
)

// DefaultMax is the diagnostic limit used when a caller passes a non-positive maximum.
const DefaultMax = 100

type Bag struct {
	items []Diagnostic
	max   uint16
}

func NewBag(maxItems int) *Bag {
	if maxItems <= 0 {
		maxItems = DefaultMax
	}
	limit, err := safecast.Conv[uint16](maxItems)
	if err != nil {
		limit = math.MaxUint16
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(int(limit), 16)),
		max:   limit,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// Full reports whether the limit is reached.
func (b *Bag) Full() bool {
	return len(b.items) >= int(b.max)
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает копию диагностик; Bag остаётся неизменным.
func (b *Bag) Items() []Diagnostic {
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}

// AddAll appends diagnostics in order, growing the limit when needed.
func (b *Bag) AddAll(items []Diagnostic) {
	newTotal := len(b.items) + len(items)
	if newTotal > int(b.max) {
		limit, err := safecast.Conv[uint16](newTotal)
		if err != nil {
			limit = math.MaxUint16
		}
		b.max = limit
	}
	for _, d := range items {
		if !b.Add(d) {
			return
		}
	}
}

// Lines returns the single-line form of every diagnostic in order.
func (b *Bag) Lines() []string {
	out := make([]string, 0, len(b.items))
	for _, d := range b.items {
		out = append(out, d.Line())
	}
	return out
}
