// Package client implements the client core of spec section 2: the TCP
// session to the server, local/remote command routing, and the pieces
// (scrollback, editor, event dispatcher) that feed a terminal UI.
package client

import (
	"fmt"
	"net"

	irc "gopkg.in/irc.v3"

	"github.com/nightwire/ircsuite/internal/logging"
	"github.com/nightwire/ircsuite/internal/wire"
)

var log = logging.New("client/session")

// Session owns the socket to the server and its inbound line buffer,
// per spec section 3's ownership rule ("the TCP session owns the socket
// and its inbound buffer").
//
// Framing is this package's own (internal/wire.LineBuffer), matching
// the server's framing exactly; each complete line is then parsed with
// gopkg.in/irc.v3's Message grammar rather than hand-rolled, since an
// incoming line may carry prefixes and tag syntax this client never
// generates itself but must still tolerate from the wire.
type Session struct {
	transport wire.Transport
	inbound   *wire.LineBuffer
}

// Dial opens a TCP connection to addr ("host:port") and returns a
// Session wrapping it.
func Dial(addr string) (*Session, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", addr, err)
	}
	// The client has no poll-table slot to key by file descriptor (unlike
	// the server side, internal/session.Server) so Fd is a placeholder.
	return &Session{
		transport: wire.NewNetTransport(conn, -1),
		inbound:   wire.NewLineBuffer(),
	}, nil
}

// Close shuts down the underlying connection.
func (s *Session) Close() error {
	return s.transport.Close()
}

// SendCommand writes a single already-formatted command line (no CRLF)
// to the server, per spec section 4.1's framing contract.
func (s *Session) SendCommand(line string) error {
	_, err := wire.WriteRetry(s.transport, wire.EncodeLine(line))
	return err
}

// ReadAvailable reads one chunk from the socket and returns every
// complete inbound message extracted from it, parsed with irc.v3. A
// zero-length read (err == io.EOF or similar) signals peer close.
func (s *Session) ReadAvailable() ([]*irc.Message, error) {
	buf := make([]byte, 4096)
	n, err := s.transport.Read(buf)
	if n == 0 {
		if err == nil {
			return nil, fmt.Errorf("client: peer closed connection")
		}
		return nil, err
	}

	lines, oversize := s.inbound.Feed(buf[:n])
	if oversize {
		log.Warnf("oversize line from server dropped")
	}

	msgs := make([]*irc.Message, 0, len(lines))
	for _, line := range lines {
		msg, parseErr := irc.ParseMessage(line)
		if parseErr != nil {
			log.Warnf("could not parse line from server: %v", parseErr)
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, err
}
