package farecalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStream_Wrap tests the width-aware token wrap rule.
func TestStream_Wrap(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		margin string
		tokens []string
		want   string
	}{
		{
			name:   "token fitting the line stays on the line",
			width:  10,
			tokens: []string{"ABCDE", "FGHIJ"},
			want:   "ABCDEFGHIJ",
		},
		{
			name:   "overflowing token wraps and drops one leading space",
			width:  10,
			tokens: []string{"ABCDE", " FGHIJ"},
			want:   "ABCDE\nFGHIJ",
		},
		{
			name:   "oversized token on an empty line is emitted uncut",
			width:  10,
			tokens: []string{"ABCDEFGHIJKLMNO"},
			want:   "ABCDEFGHIJKLMNO",
		},
		{
			name:   "oversized token after content still wraps first",
			width:  10,
			tokens: []string{"ABC", "DEFGHIJKLMNOP"},
			want:   "ABC\nDEFGHIJKLMNOP",
		},
		{
			name:   "margin prefixes the continuation line",
			width:  10,
			margin: "  ",
			tokens: []string{"ABCDE", " FGHIJ"},
			want:   "ABCDE\n  FGHIJ",
		},
		{
			name:   "only a leading space wraps away to nothing",
			width:  5,
			tokens: []string{"ABCDE", " "},
			want:   "ABCDE\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStream(tt.width)
			if tt.margin != "" {
				s.SetMargin(tt.margin)
			}
			for _, tok := range tt.tokens {
				s.WriteString(tok)
			}
			assert.Equal(t, tt.want, s.Str())
		})
	}
}

// TestStream_Group tests that grouped tokens wrap as one indivisible unit.
func TestStream_Group(t *testing.T) {
	t.Run("group too wide for the line wraps whole", func(t *testing.T) {
		s := NewStream(10)
		s.WriteString("ABCDEFGH")
		s.StartGroup()
		s.WriteString(" Q")
		s.WriteString("5.00")
		s.EndGroup()
		assert.Equal(t, "ABCDEFGH\nQ5.00", s.Str())
	})

	t.Run("group fitting the line stays inline", func(t *testing.T) {
		s := NewStream(20)
		s.WriteString("ABC")
		s.StartGroup()
		s.WriteString(" Q")
		s.WriteString("5.00")
		s.EndGroup()
		assert.Equal(t, "ABC Q5.00", s.Str())
	})

	t.Run("guard End is idempotent", func(t *testing.T) {
		s := NewStream(20)
		g := NewGroup(s, true)
		s.WriteString("XY")
		g.End()
		g.End()
		assert.Equal(t, "XY", s.Str())
		assert.False(t, s.InGroup())
	})

	t.Run("empty group flushes nothing", func(t *testing.T) {
		s := NewStream(10)
		s.WriteString("ABC")
		s.StartGroup()
		s.EndGroup()
		assert.Equal(t, "ABC", s.Str())
	})
}

// TestStream_TicketStock tests the shadow buffer's per-line budgets.
func TestStream_TicketStock(t *testing.T) {
	tests := []struct {
		name    string
		budgets []int
		tokens  []string
		want    string
	}{
		{
			name:    "token crossing the budget is carried whole",
			budgets: []int{5},
			tokens:  []string{"ABC", "DEFG"},
			want:    "ABC  DEFG",
		},
		{
			name:    "token larger than a whole line fills and continues",
			budgets: []int{5},
			tokens:  []string{"ABCDEFG"},
			want:    "ABCDEFG",
		},
		{
			name:    "budgets vary per line and the last repeats",
			budgets: []int{4, 6},
			tokens:  []string{"AB", "CDE", "FGHIJK"},
			want:    "AB  CDE   FGHIJK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStream(63)
			s.SetTicketStock(&TicketStock{LineLens: tt.budgets})
			for _, tok := range tt.tokens {
				s.WriteString(tok)
			}
			assert.Equal(t, tt.want, s.TicketStr())
		})
	}
}

// TestStream_LastChar tests the last-character classification helpers.
func TestStream_LastChar(t *testing.T) {
	s := NewStream(63)
	assert.True(t, s.LastCharSpace())

	s.WriteString("A")
	assert.True(t, s.LastCharAlpha())
	assert.False(t, s.LastCharDigit())

	s.WriteString("7")
	assert.True(t, s.LastCharDigit())

	s.WriteString("/")
	assert.True(t, s.LastCharSpecial())

	s.WriteString(" ")
	assert.True(t, s.LastCharSpace())
}

// TestStream_Clear tests reuse across sub-sections.
func TestStream_Clear(t *testing.T) {
	s := NewStream(10)
	s.SetMargin("  ")
	s.WriteString("ABCDE").WriteString(" FGHIJ")
	s.Clear()
	assert.Equal(t, "", s.Str())
	assert.Equal(t, "", s.TicketStr())

	s.WriteString("ABCDE").WriteString(" FGHIJ")
	assert.Equal(t, "ABCDE\n  FGHIJ", s.Str())
}

// TestSplit tests line splitting with blank-line substitution.
func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty input", in: "", want: nil},
		{name: "single line with trailing newline", in: "ABC\n", want: []string{"ABC"}},
		{name: "blank line becomes one space", in: "A\n\nB\n", want: []string{"A", " ", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.in))
		})
	}
}
