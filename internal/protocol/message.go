// Package protocol implements the command parser and reply formatter
// described in spec section 4.2 and the numeric code catalogue in
// section 6.
//
// Tokenization and the trailing-parameter rule are hand-rolled, matching
// the exact n<=4 argument cap the spec calls for (tighter than the 15-param
// ceiling real IRC allows) and the server's literal "nick!user@host" prefix
// format (section 6 always renders both delimiters, even when user/host are
// empty — unlike a generic IRC library, which omits them). Reply and
// forwarded-peer lines are therefore hand-formatted here; the
// gopkg.in/irc.v3 representation is used on the receiving side instead
// (see internal/client, which parses arbitrary incoming lines with it),
// the same split the teacher's IRC gateway drew between composing
// replies itself and parsing with the library.
package protocol

import (
	"fmt"
	"strings"
)

// MaxArgs is the maximum number of parameters a parsed command carries,
// per spec section 4.2.
const MaxArgs = 4

// UnknownVerb is the verb ParseLine returns for an empty line. Any other
// verb is passed through uppercased and is never replaced by UnknownVerb;
// dispatch decides what "unknown" means (the server answers verbs it has
// no handler for with 421 naming the verb as sent).
const UnknownVerb = "UNKNOWN"

// Command is a parsed client or peer line: a verb plus up to MaxArgs
// parameters, the last of which may be the trailing (colon-prefixed)
// parameter with its leading ':' stripped.
type Command struct {
	Verb string
	Args []string

	// Trailing reports whether the last element of Args was produced by
	// the colon rule (and so must be re-emitted with a leading ':' to
	// round-trip, even if it contains no space).
	Trailing bool
}

// ParseLine tokenizes a single trimmed line into a Command.
//
// Tokens are split on a single space. Once a token beginning with ':' is
// seen, that token and every token after it (rejoined with spaces, leading
// ':' stripped) become a single trailing parameter and tokenization stops.
// No more than MaxArgs parameters are ever produced; any tokens beyond the
// cap are discarded.
func ParseLine(line string) Command {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Verb: UnknownVerb}
	}

	tokens := strings.Split(line, " ")
	verb := strings.ToUpper(tokens[0])

	var args []string
	for i := 1; i < len(tokens) && len(args) < MaxArgs; i++ {
		tok := tokens[i]
		if tok == "" {
			continue
		}
		if strings.HasPrefix(tok, ":") {
			trailing := strings.Join(tokens[i:], " ")
			args = append(args, strings.TrimPrefix(trailing, ":"))
			return Command{Verb: verb, Args: args, Trailing: true}
		}
		args = append(args, tok)
	}

	return Command{Verb: verb, Args: args}
}

// String reconstructs the canonical wire form of c: verb followed by
// space-separated args, the last arg colon-prefixed if c.Trailing is set
// or it is empty, contains a space or starts with ':'. Parse(c.String()) reproduces an equivalent Command,
// satisfying the parse/format round trip in spec section 8.
func (c Command) String() string {
	var b strings.Builder
	b.WriteString(c.Verb)
	for i, a := range c.Args {
		b.WriteByte(' ')
		last := i == len(c.Args)-1
		if last && (c.Trailing || a == "" || strings.Contains(a, " ") || strings.HasPrefix(a, ":")) {
			b.WriteByte(':')
		}
		b.WriteString(a)
	}
	return b.String()
}

// Arg returns the i-th argument, or "" if there are fewer than i+1 args.
func (c Command) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// Prefix is a nick!user@host source, always rendered with both delimiters
// per spec section 6's literal examples (e.g. ":john!@ JOIN #general" when
// the user and host parts are empty).
type Prefix struct {
	Nick string
	User string
	Host string
}

func (p Prefix) String() string {
	return fmt.Sprintf("%s!%s@%s", p.Nick, p.User, p.Host)
}

// Reply formats a server numeric reply line:
// ":<server> <code> <target> [args...] :<message>" per spec section 6.
func Reply(serverName, code, target string, args []string, message string) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":%s %s %s", serverName, code, target)
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	fmt.Fprintf(&b, " :%s", message)
	return b.String()
}

// PeerMessage formats a message forwarded from one client to others:
// ":nick!user@host VERB args... [:trailing]" per spec section 6. If
// hasTrailing is set, trailing is appended as a colon-prefixed last
// param (even when empty); otherwise trailing is ignored.
func PeerMessage(from Prefix, verb string, args []string, trailing string, hasTrailing bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":%s %s", from, verb)
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	if hasTrailing {
		fmt.Fprintf(&b, " :%s", trailing)
	}
	return b.String()
}
