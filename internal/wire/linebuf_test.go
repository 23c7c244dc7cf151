package wire

import (
	"strings"
	"testing"
)

func TestLineBufferSplitsMultipleLines(t *testing.T) {
	lb := NewLineBuffer()
	lines, oversize := lb.Feed([]byte("NICK john\r\nUSER john 127.0.0.1 * :John Doe\r\nJOIN #genera"))
	if oversize {
		t.Fatalf("unexpected oversize")
	}
	want := []string{"NICK john", "USER john 127.0.0.1 * :John Doe"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %v", len(lines), len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if string(lb.Pending()) != "JOIN #genera" {
		t.Errorf("pending = %q, want %q", lb.Pending(), "JOIN #genera")
	}
}

func TestLineBufferRetainsPartialAcrossFeeds(t *testing.T) {
	lb := NewLineBuffer()
	lb.Feed([]byte("PING :tok"))
	lines, oversize := lb.Feed([]byte("en\r\n"))
	if oversize {
		t.Fatalf("unexpected oversize")
	}
	if len(lines) != 1 || lines[0] != "PING :token" {
		t.Fatalf("got %v", lines)
	}
}

func TestLineBufferEmptyInput(t *testing.T) {
	lb := NewLineBuffer()
	lines, oversize := lb.Feed(nil)
	if len(lines) != 0 || oversize {
		t.Fatalf("expected no lines, no oversize; got %v %v", lines, oversize)
	}
}

func TestLineBufferExact510PayloadAccepted(t *testing.T) {
	lb := NewLineBuffer()
	payload := strings.Repeat("a", MaxPayload)
	lines, oversize := lb.Feed([]byte(payload + "\r\n"))
	if oversize {
		t.Fatalf("510-byte payload must not be flagged oversize")
	}
	if len(lines) != 1 || len(lines[0]) != MaxPayload {
		t.Fatalf("got %d lines, len %d", len(lines), len(lines[0]))
	}
}

func TestLineBuffer511PayloadDropped(t *testing.T) {
	lb := NewLineBuffer()
	payload := strings.Repeat("a", MaxPayload+1)
	lines, oversize := lb.Feed([]byte(payload + "\r\n"))
	if !oversize {
		t.Fatalf("511-byte payload must be flagged oversize")
	}
	if len(lines) != 0 {
		t.Fatalf("oversize line must be dropped, got %v", lines)
	}
}

func TestLineBufferByteAccounting(t *testing.T) {
	lb := NewLineBuffer()
	input := "NICK a\r\nNICK ab\r\nNICK abc"
	lines, _ := lb.Feed([]byte(input))

	var rebuilt strings.Builder
	for _, l := range lines {
		rebuilt.WriteString(l)
		rebuilt.WriteString(crlf)
	}
	rebuilt.Write(lb.Pending())

	if rebuilt.String() != input {
		t.Fatalf("round trip mismatch: got %q want %q", rebuilt.String(), input)
	}
}

func TestEncodeLineAppendsCRLF(t *testing.T) {
	got := EncodeLine("PONG server")
	if string(got) != "PONG server\r\n" {
		t.Fatalf("got %q", got)
	}
}
