package wire

import (
	"errors"
	"io"
	"net"
)

// Transport is the minimal surface the session and poll layers need from a
// connection: a file descriptor to hand to poll(2), and byte-level
// read/write. Grounded on DESIGN NOTES section 9: "global mock/fd state in
// the test harness is re-expressed as an injectable transport abstraction
// with a real socket implementation and an in-memory one."
type Transport interface {
	io.ReadWriteCloser
	Fd() int
}

// ErrWouldBlock is returned by a nonblocking Write when the socket send
// buffer is full; the caller should stop retrying for this turn.
var ErrWouldBlock = errors.New("wire: write would block")

// netTransport adapts a *net.TCPConn (or any net.Conn exposing a raw file
// descriptor through syscall.Conn) to Transport.
type netTransport struct {
	net.Conn
	fd int
}

// NewNetTransport wraps an accepted or dialed TCP connection. fd is the
// connection's underlying file descriptor, obtained by the caller via
// SyscallConn before registering it with poll.
func NewNetTransport(conn net.Conn, fd int) Transport {
	return &netTransport{Conn: conn, fd: fd}
}

func (t *netTransport) Fd() int { return t.fd }

// PipeTransport is an in-memory Transport over a caller-supplied reader
// and writer (such as the two ends of an io.Pipe), for code that needs a
// Transport without a real socket. No test in this module uses it.
// Its Fd is a caller-assigned synthetic value since there is no real
// descriptor to poll.
type PipeTransport struct {
	io.Reader
	io.Writer
	closer io.Closer
	fd     int
}

// NewPipeTransport builds a PipeTransport over r/w with a synthetic fd
// used only as a poll-table slot key in tests.
func NewPipeTransport(r io.Reader, w io.Writer, c io.Closer, fd int) *PipeTransport {
	return &PipeTransport{Reader: r, Writer: w, closer: c, fd: fd}
}

func (p *PipeTransport) Fd() int { return p.fd }

func (p *PipeTransport) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// WriteRetry writes b to t, retrying short writes within the same turn
// until the full payload is written or the connection reports it would
// block. This mirrors spec section 4.1: "short writes are retried within
// the same turn until the write would block."
func WriteRetry(t Transport, b []byte) (int, error) {
	written := 0
	for written < len(b) {
		n, err := t.Write(b[written:])
		written += n
		if err != nil {
			if errors.Is(err, ErrWouldBlock) {
				return written, ErrWouldBlock
			}
			return written, err
		}
		if n == 0 {
			break
		}
	}
	return written, nil
}
