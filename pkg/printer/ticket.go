package printer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

// Align is an ESC a argument
type Align byte

const (
	Left Align = iota
	Center
	Right
)

// Ticket accumulates an ESC/POS job for a fixed character width.
// 32 columns fits 58mm paper, 48 fits 80mm.
type Ticket struct {
	buf   bytes.Buffer
	width int
}

// NewTicket starts a job with the printer reset
func NewTicket(width int) *Ticket {
	if width <= 0 {
		width = 32
	}
	t := &Ticket{width: width}
	t.buf.Write([]byte{esc, '@'})
	return t
}

// Width is the column count lines are padded to
func (t *Ticket) Width() int { return t.width }

func (t *Ticket) Align(a Align) *Ticket {
	t.buf.Write([]byte{esc, 'a', byte(a)})
	return t
}

func (t *Ticket) Bold(on bool) *Ticket {
	var v byte
	if on {
		v = 1
	}
	t.buf.Write([]byte{esc, 'E', v})
	return t
}

// Large toggles double width and height
func (t *Ticket) Large(on bool) *Ticket {
	var v byte
	if on {
		v = 0x11
	}
	t.buf.Write([]byte{gs, '!', v})
	return t
}

// Line writes s truncated to the ticket width
func (t *Ticket) Line(s string) *Ticket {
	t.buf.WriteString(truncate(s, t.width))
	t.buf.WriteByte(lf)
	return t
}

// Wrap writes s over as many lines as it needs
func (t *Ticket) Wrap(s string) *Ticket {
	line := ""
	for _, word := range strings.Fields(s) {
		switch {
		case line == "":
			line = word
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= t.width:
			line += " " + word
		default:
			t.Line(line)
			line = word
		}
	}
	if line != "" {
		t.Line(line)
	}
	return t
}

// Pair writes left and right on one line with the gap padded
func (t *Ticket) Pair(left, right string) *Ticket {
	rw := utf8.RuneCountInString(right)
	left = truncate(left, t.width-rw-1)
	gap := t.width - utf8.RuneCountInString(left) - rw
	if gap < 1 {
		gap = 1
	}
	t.buf.WriteString(left + strings.Repeat(" ", gap) + right)
	t.buf.WriteByte(lf)
	return t
}

// Rule writes a full-width line of ch
func (t *Ticket) Rule(ch rune) *Ticket {
	t.buf.WriteString(strings.Repeat(string(ch), t.width))
	t.buf.WriteByte(lf)
	return t
}

func (t *Ticket) Feed(n int) *Ticket {
	for i := 0; i < n; i++ {
		t.buf.WriteByte(lf)
	}
	return t
}

// Cut feeds past the tear bar and issues a partial cut
func (t *Ticket) Cut() *Ticket {
	t.Feed(3)
	t.buf.Write([]byte{gs, 'V', 0x01})
	return t
}

func (t *Ticket) Bytes() []byte { return t.buf.Bytes() }

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
