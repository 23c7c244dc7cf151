package session

import "testing"

func TestValidNicknameBoundaries(t *testing.T) {
	if !ValidNickname("abcdefghi") { // 9 chars
		t.Fatalf("9-char nickname should be accepted")
	}
	if ValidNickname("abcdefghij") { // 10 chars
		t.Fatalf("10-char nickname should be rejected")
	}
	if ValidNickname("") {
		t.Fatalf("empty nickname should be rejected")
	}
	if ValidNickname("1abc") {
		t.Fatalf("nickname starting with a digit should be rejected")
	}
	if !ValidNickname("a-_[]{}|") {
		t.Fatalf("nickSpecial characters should be accepted after the first char")
	}
}

func TestValidChannelNameBoundaries(t *testing.T) {
	if !ValidChannelName("#general") {
		t.Fatalf("expected #general to be valid")
	}
	if ValidChannelName("general") {
		t.Fatalf("channel name without # should be rejected")
	}
	if ValidChannelName("#") {
		t.Fatalf("bare # should be rejected")
	}

	longName := "#"
	for len(longName) < 50 {
		longName += "a"
	}
	if !ValidChannelName(longName) {
		t.Fatalf("50-char channel name should be accepted")
	}
	if ValidChannelName(longName + "a") {
		t.Fatalf("51-char channel name should be rejected")
	}
}
