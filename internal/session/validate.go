package session

import "strings"

// nickSpecial is the set of non-alphanumeric characters a nickname may
// contain after its first character, per spec section 3.
const nickSpecial = "-_\\[]{}|^~"

// MaxNickLen and MaxChanLen are the length caps from spec section 3.
const (
	MaxNickLen = 9
	MaxChanLen = 50
)

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isNickChar(b byte) bool {
	return isAlpha(b) || isDigit(b) || strings.IndexByte(nickSpecial, b) >= 0
}

// ValidNickname reports whether nick satisfies spec section 3: 1-9 chars,
// first character alphabetic, the rest alphanumeric or one of the nickSpecial
// punctuation characters.
func ValidNickname(nick string) bool {
	if len(nick) < 1 || len(nick) > MaxNickLen {
		return false
	}
	if !isAlpha(nick[0]) {
		return false
	}
	for i := 1; i < len(nick); i++ {
		if !isNickChar(nick[i]) {
			return false
		}
	}
	return true
}

// ValidChannelName reports whether name satisfies spec section 3: begins
// with '#', at most MaxChanLen characters including the '#', and uses the
// same allowed alphabet as a nickname after the '#'.
func ValidChannelName(name string) bool {
	if len(name) < 2 || len(name) > MaxChanLen {
		return false
	}
	if name[0] != '#' {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isNickChar(name[i]) {
			return false
		}
	}
	return true
}
