package printer

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestTicket_Pair(t *testing.T) {
	tk := NewTicket(20)
	tk.Pair("Total", "GHS 45.00")

	out := string(tk.Bytes()[2:])
	line := strings.TrimSuffix(out, "\n")
	if len(line) != 20 {
		t.Fatalf("expected a 20 column line, got %q (%d)", line, len(line))
	}
	if !strings.HasPrefix(line, "Total") || !strings.HasSuffix(line, "GHS 45.00") {
		t.Fatalf("unexpected line %q", line)
	}
}

func TestTicket_PairTruncatesLeft(t *testing.T) {
	tk := NewTicket(16)
	tk.Pair("A very long service name", "10.00")

	line := strings.TrimSuffix(string(tk.Bytes()[2:]), "\n")
	if len(line) != 16 || !strings.HasSuffix(line, " 10.00") {
		t.Fatalf("unexpected line %q", line)
	}
}

func TestTicket_Wrap(t *testing.T) {
	tk := NewTicket(10)
	tk.Wrap("thank you for your business")

	lines := strings.Split(strings.TrimSuffix(string(tk.Bytes()[2:]), "\n"), "\n")
	for _, l := range lines {
		if len(l) > 10 {
			t.Fatalf("line %q exceeds width", l)
		}
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %v", lines)
	}
}

func TestTicket_StartsWithReset(t *testing.T) {
	if !bytes.HasPrefix(NewTicket(32).Bytes(), []byte{esc, '@'}) {
		t.Fatal("ticket should start with ESC @")
	}
}

func TestOpen(t *testing.T) {
	dev, err := Open(Config{Kind: "none"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := dev.Send(context.Background(), []byte("x")); err != ErrDisabled {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}

	if _, err := Open(Config{Kind: "network"}); err == nil {
		t.Fatal("network printer without address should fail")
	}
	if _, err := Open(Config{Kind: "serial"}); err == nil {
		t.Fatal("unknown kind should fail")
	}
}
