package protocol

import "testing"

func TestParseLineTrailingRule(t *testing.T) {
	c := ParseLine("USER john 127.0.0.1 * :John Doe")
	if c.Verb != "USER" {
		t.Fatalf("verb = %q", c.Verb)
	}
	want := []string{"john", "127.0.0.1", "*", "John Doe"}
	if len(c.Args) != len(want) {
		t.Fatalf("args = %v", c.Args)
	}
	for i := range want {
		if c.Args[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, c.Args[i], want[i])
		}
	}
	if !c.Trailing {
		t.Errorf("expected Trailing to be set")
	}
}

func TestParseLineVerbCaseFolded(t *testing.T) {
	c := ParseLine("join #general")
	if c.Verb != "JOIN" {
		t.Fatalf("verb = %q", c.Verb)
	}
}

func TestParseLineNoArgs(t *testing.T) {
	c := ParseLine("QUIT")
	if c.Verb != "QUIT" || len(c.Args) != 0 {
		t.Fatalf("got %+v", c)
	}
}

func TestParseLineEmpty(t *testing.T) {
	c := ParseLine("")
	if c.Verb != UnknownVerb {
		t.Fatalf("got %+v", c)
	}
}

func TestParseLineArgCap(t *testing.T) {
	c := ParseLine("MODE a b c d e f")
	if len(c.Args) != MaxArgs {
		t.Fatalf("args = %v, want %d entries", c.Args, MaxArgs)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	cases := []string{
		"NICK john",
		"JOIN #general",
		"PRIVMSG #general :hello",
		"USER john 127.0.0.1 * :John Doe",
		"PART #general :goodbye",
	}
	for _, line := range cases {
		got := ParseLine(line).String()
		if got != line {
			t.Errorf("round trip: ParseLine(%q).String() = %q", line, got)
		}
	}
}

func TestReplyFormatsCanonicalLine(t *testing.T) {
	got := Reply("irc.server.com", "001", "john", nil, "Welcome to the IRC Network")
	want := ":irc.server.com 001 john :Welcome to the IRC Network"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPeerMessageFormatsCanonicalLine(t *testing.T) {
	got := PeerMessage(Prefix{Nick: "john"}, "JOIN", []string{"#general"}, "", false)
	want := ":john!@ JOIN #general"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
