package farecalc

import (
	"strings"
)

// DefaultWidth is the terminal display width of the fare calculation line.
const DefaultWidth = 63

// TicketStock defines the per-line character budgets of one physical ticket
// stock. LineLens[i] is the budget of line i; the last entry repeats for all
// further lines.
type TicketStock struct {
	LineLens []int
}

// budget returns the character budget of the given ticket line.
func (t *TicketStock) budget(line int) int {
	if t == nil || len(t.LineLens) == 0 {
		return 0
	}
	if line >= len(t.LineLens) {
		return t.LineLens[len(t.LineLens)-1]
	}
	return t.LineLens[line]
}

// Stream is a column-aware output sink with word wrap, an atomic-group
// mechanism, an internal margin applied to wrapped continuation lines, and
// an independent ticket-stock shadow buffer honoring the physical ticket's
// per-line character budget.
//
// A Stream is created per fare-path rendering pass and reused across
// sub-sections via Clear.
type Stream struct {
	buf      strings.Builder
	width    int
	lineLen  int
	lastChar byte
	margin   string

	inGroup  bool
	groupBuf strings.Builder

	// Ticket-stock shadow buffer. Characters beyond a line's budget are
	// carried to the next computed line; the exhausted line is padded with
	// spaces to its full budget.
	stock   *TicketStock
	tkt     strings.Builder
	tktLine int
	tktCol  int
}

// NewStream returns a stream with the given width; width <= 0 selects
// DefaultWidth.
func NewStream(width int) *Stream {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Stream{width: width}
}

// SetTicketStock attaches the ticket-stock budget table. A nil stock
// disables the shadow buffer.
func (s *Stream) SetTicketStock(stock *TicketStock) { s.stock = stock }

// SetMargin sets the internal left margin written at the start of each
// wrapped continuation line.
func (s *Stream) SetMargin(margin string) { s.margin = margin }

// Width returns the configured line width.
func (s *Stream) Width() int { return s.width }

// LineLength returns the length of the line currently being built.
func (s *Stream) LineLength() int { return s.lineLen }

// LastChar returns the last character emitted, or 0 when nothing has been
// written.
func (s *Stream) LastChar() byte { return s.lastChar }

// LastCharAlpha reports whether the last character is a letter.
func (s *Stream) LastCharAlpha() bool {
	c := s.lastChar
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// LastCharDigit reports whether the last character is a digit.
func (s *Stream) LastCharDigit() bool { return s.lastChar >= '0' && s.lastChar <= '9' }

// LastCharSpace reports whether the last character is a space or the stream
// is empty.
func (s *Stream) LastCharSpace() bool { return s.lastChar == ' ' || s.lastChar == 0 }

// LastCharSpecial reports whether the last character is neither
// alphanumeric nor a space.
func (s *Stream) LastCharSpecial() bool {
	if s.lastChar == 0 {
		return false
	}
	return !s.LastCharAlpha() && !s.LastCharDigit() && s.lastChar != ' '
}

// WriteString writes one token through the wrap-aware path. The token is
// treated as indivisible: a token longer than the width is emitted uncut.
func (s *Stream) WriteString(str string) *Stream {
	if str == "" {
		return s
	}
	if s.inGroup {
		s.groupBuf.WriteString(str)
		s.lastChar = str[len(str)-1]
		return s
	}
	s.emit(str)
	return s
}

// WriteByte writes a single character.
func (s *Stream) WriteByte(c byte) *Stream {
	return s.WriteString(string(c))
}

// NewLine forces a line break without applying the margin.
func (s *Stream) NewLine() *Stream {
	if s.inGroup {
		s.groupBuf.WriteByte('\n')
		s.lastChar = '\n'
		return s
	}
	s.buf.WriteByte('\n')
	s.lineLen = 0
	s.lastChar = '\n'
	return s
}

// emit performs the wrap-aware write of one indivisible token.
func (s *Stream) emit(str string) {
	if s.lineLen > len(s.margin) && s.lineLen+len(str) > s.width {
		s.buf.WriteByte('\n')
		s.lineLen = 0
		if s.margin != "" {
			s.buf.WriteString(s.margin)
			s.lineLen = len(s.margin)
		}
		// a single leading space is dropped right after a wrap
		if str[0] == ' ' {
			str = str[1:]
			if str == "" {
				s.lastChar = ' '
				return
			}
		}
	}
	s.buf.WriteString(str)
	s.lineLen += len(str)
	s.lastChar = str[len(str)-1]
	s.writeTicket(str)
}

// writeTicket mirrors the token into the ticket-stock shadow buffer under
// the per-line budget.
func (s *Stream) writeTicket(str string) {
	if s.stock == nil {
		s.tkt.WriteString(str)
		return
	}
	for len(str) > 0 {
		budget := s.stock.budget(s.tktLine)
		if budget <= 0 {
			return
		}
		room := budget - s.tktCol
		if room >= len(str) {
			s.tkt.WriteString(str)
			s.tktCol += len(str)
			return
		}
		if len(str) > budget {
			// token larger than a whole ticket line: fill and continue
			s.tkt.WriteString(str[:room])
			str = str[room:]
		} else {
			// pad the exhausted line; the token moves to the next line whole
			s.tkt.WriteString(strings.Repeat(" ", room))
		}
		s.tktLine++
		s.tktCol = 0
	}
}

// StartGroup begins an atomic group: until EndGroup, written tokens are
// buffered and later replayed as one indivisible unit.
func (s *Stream) StartGroup() {
	if s.inGroup {
		return
	}
	s.inGroup = true
	s.groupBuf.Reset()
}

// EndGroup closes the current group and flushes its content through the
// wrap-aware path. Leading spaces of the group are trimmed when the flush
// wraps. A no-op when no group is open.
func (s *Stream) EndGroup() {
	if !s.inGroup {
		return
	}
	s.inGroup = false
	content := s.groupBuf.String()
	s.groupBuf.Reset()
	if content == "" {
		return
	}
	if s.lineLen > len(s.margin) && s.lineLen+len(content) > s.width {
		s.buf.WriteByte('\n')
		s.lineLen = 0
		if s.margin != "" {
			s.buf.WriteString(s.margin)
			s.lineLen = len(s.margin)
		}
		content = strings.TrimLeft(content, " ")
		if content == "" {
			s.lastChar = ' '
			return
		}
	}
	s.buf.WriteString(content)
	s.lineLen += len(content)
	s.lastChar = content[len(content)-1]
	s.writeTicket(content)
}

// InGroup reports whether an atomic group is open.
func (s *Stream) InGroup() bool { return s.inGroup }

// Str returns the wrap-formatted output.
func (s *Stream) Str() string { return s.buf.String() }

// TicketStr returns the ticket-stock shadow rendering.
func (s *Stream) TicketStr() string { return s.tkt.String() }

// Clear resets the stream for reuse across sub-sections. The configured
// width, margin and ticket stock are retained.
func (s *Stream) Clear() {
	s.buf.Reset()
	s.tkt.Reset()
	s.groupBuf.Reset()
	s.inGroup = false
	s.lineLen = 0
	s.lastChar = 0
	s.tktLine = 0
	s.tktCol = 0
}

// Split breaks wrapped output into lines, substituting a single space for
// embedded blank lines so round-tripping preserves them.
func Split(out string) []string {
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return nil
	}
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = " "
		}
	}
	return lines
}

// Group is a scoped guard pairing StartGroup/EndGroup so the closing flush
// happens on every exit path:
//
//	g := NewGroup(os, true)
//	defer g.End()
type Group struct {
	s    *Stream
	open bool
}

// NewGroup returns a guard over s, starting the group immediately when
// start is true.
func NewGroup(s *Stream, start bool) *Group {
	g := &Group{s: s}
	if start {
		g.Start()
	}
	return g
}

// Start opens the group if not already open.
func (g *Group) Start() {
	if g.open {
		return
	}
	g.open = true
	g.s.StartGroup()
}

// End flushes and closes the group. Idempotent.
func (g *Group) End() {
	if !g.open {
		return
	}
	g.open = false
	g.s.EndGroup()
}
