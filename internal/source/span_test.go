package source

import (
	"testing"
)

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "disjoint spans",
			a:        Span{File: 1, Start: 0, End: 1},
			b:        Span{File: 1, Start: 4, End: 5},
			expected: Span{File: 1, Start: 0, End: 5},
		},
		{
			name:     "nested span",
			a:        Span{File: 1, Start: 2, End: 8},
			b:        Span{File: 1, Start: 3, End: 4},
			expected: Span{File: 1, Start: 2, End: 8},
		},
		{
			name:     "different files keep receiver",
			a:        Span{File: 1, Start: 2, End: 3},
			b:        Span{File: 2, Start: 0, End: 9},
			expected: Span{File: 1, Start: 2, End: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpan_Contains(t *testing.T) {
	outer := Span{File: 0, Start: 1, End: 10}
	if !outer.Contains(Span{File: 0, Start: 1, End: 10}) {
		t.Error("span must contain itself")
	}
	if !outer.Contains(Span{File: 0, Start: 3, End: 3}) {
		t.Error("empty inner span must be contained")
	}
	if outer.Contains(Span{File: 0, Start: 0, End: 2}) {
		t.Error("span starting before outer must not be contained")
	}
	if outer.Contains(Span{File: 1, Start: 2, End: 3}) {
		t.Error("span from another file must not be contained")
	}
}

func TestSpan_LenEmptyString(t *testing.T) {
	s := Span{File: 3, Start: 4, End: 7}
	if s.Len() != 3 || s.Empty() {
		t.Errorf("unexpected Len/Empty for %v", s)
	}
	if s.String() != "3:4-7" {
		t.Errorf("String() = %q", s.String())
	}
	if !(Span{Start: 5, End: 5}).Empty() {
		t.Error("zero-length span must be empty")
	}
}
