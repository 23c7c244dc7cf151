package session

import (
	"fmt"
	"net"
	"sort"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/nightwire/ircsuite/internal/logging"
	"github.com/nightwire/ircsuite/internal/protocol"
	"github.com/nightwire/ircsuite/internal/wire"
)

var pollLog = logging.New("session/poll")

// DefaultIdleTimeout is the per-fd inactivity threshold from spec section 5.
const DefaultIdleTimeout = 10 * time.Minute

const readChunk = 4096

// slot is the full per-connection state for one poll-table entry.
// DESIGN NOTES section 9: "mixed ownership of struct pollfd and parallel
// Client arrays should be replaced by a single table whose slot holds the
// full per-connection state; the poll API's view of (fd, events) is
// derived from it." slots[i] and pollfds[i+1] are the same logical entry;
// pollfds[0] is always the listener.
type slot struct {
	transport  wire.Transport
	user       *User
	inbound    *wire.LineBuffer
	lastActive time.Time
}

// Server drives the server-side poll loop described in spec section 4.5,
// implemented literally over golang.org/x/sys/unix.Poll and a fixed-size
// []unix.PollFd table, per SPEC_FULL.md section 4.5.
type Server struct {
	Store      *Store
	Dispatcher *Dispatcher

	listener   net.Listener
	listenerFd int

	slots   []*slot
	pollfds []unix.PollFd
	active  int

	idleTimeout time.Duration
}

// NewServer wraps an already-listening socket. maxClients bounds the
// fixed-capacity poll table; slot 0 of the underlying pollfd array is
// reserved for the listener and is not counted against maxClients.
func NewServer(store *Store, dispatcher *Dispatcher, listener net.Listener, listenerFd, maxClients int) *Server {
	s := &Server{
		Store:       store,
		Dispatcher:  dispatcher,
		listener:    listener,
		listenerFd:  listenerFd,
		slots:       make([]*slot, maxClients),
		pollfds:     make([]unix.PollFd, maxClients+1),
		idleTimeout: DefaultIdleTimeout,
	}
	s.pollfds[0] = unix.PollFd{Fd: int32(listenerFd), Events: unix.POLLIN}
	return s
}

// SetIdleTimeout overrides DefaultIdleTimeout; zero disables idle eviction.
func (s *Server) SetIdleTimeout(d time.Duration) { s.idleTimeout = d }

type syscallConnProvider interface {
	SyscallConn() (syscall.RawConn, error)
}

func rawFdFrom(sc syscallConnProvider) (int, error) {
	rc, err := sc.SyscallConn()
	if err != nil {
		return -1, err
	}
	var fd int
	if ctrlErr := rc.Control(func(f uintptr) { fd = int(f) }); ctrlErr != nil {
		return -1, ctrlErr
	}
	return fd, nil
}

// ListenerFd extracts the raw file descriptor backing l, for use with
// NewServer. l must be a *net.TCPListener (or anything else exposing
// SyscallConn).
func ListenerFd(l net.Listener) (int, error) {
	sc, ok := l.(syscallConnProvider)
	if !ok {
		return -1, fmt.Errorf("session: listener %T does not expose a raw fd", l)
	}
	return rawFdFrom(sc)
}

func connFd(conn net.Conn) (int, error) {
	sc, ok := conn.(syscallConnProvider)
	if !ok {
		return -1, fmt.Errorf("session: connection %T does not expose a raw fd", conn)
	}
	return rawFdFrom(sc)
}

// Run drives the poll loop until stop is closed or a fatal poll error
// occurs (anything other than an interrupted syscall).
func (s *Server) Run(stop <-chan struct{}) error {
	for {
		select {
		case <-stop:
			return nil
		default:
		}
		if err := s.RunOnce(1000); err != nil {
			return err
		}
	}
}

// RunOnce executes a single turn of the poll loop: spec section 4.5 steps
// 1 through 5. timeoutMs is passed straight to poll(2); -1 blocks until an
// event arrives.
func (s *Server) RunOnce(timeoutMs int) error {
	active := s.pollfds[:s.active+1]
	n, err := unix.Poll(active, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return err
	}
	if n == 0 {
		s.evictIdle()
		return nil
	}

	if active[0].Revents&unix.POLLIN != 0 {
		s.acceptOne()
	}

	for i := s.active - 1; i >= 0; i-- {
		revents := s.pollfds[i+1].Revents
		if revents == 0 {
			continue
		}
		s.serviceSlot(i, revents)
	}

	s.drainOutbound()
	s.evictIdle()
	return nil
}

// acceptOne accepts a single pending connection, per spec section 4.5
// step 2: assign the first free slot; if the table is full, close the
// new fd and log.
func (s *Server) acceptOne() {
	conn, err := s.listener.Accept()
	if err != nil {
		pollLog.Warnf("accept: %v", err)
		return
	}
	if s.active >= len(s.slots) {
		pollLog.Warnf("poll table full, closing incoming connection from %s", conn.RemoteAddr())
		conn.Close()
		return
	}
	fd, err := connFd(conn)
	if err != nil {
		pollLog.Warnf("could not obtain raw fd for accepted connection: %v", err)
		conn.Close()
		return
	}

	idx := s.active
	s.slots[idx] = &slot{
		transport:  wire.NewNetTransport(conn, fd),
		user:       NewUser(fd),
		inbound:    wire.NewLineBuffer(),
		lastActive: time.Now(),
	}
	s.pollfds[idx+1] = unix.PollFd{Fd: int32(fd), Events: unix.POLLIN}
	s.active++
}

// serviceSlot reads and dispatches whatever is ready on slots[idx], per
// spec section 4.5 step 3.
func (s *Server) serviceSlot(idx int, revents int16) {
	sl := s.slots[idx]
	if sl == nil {
		return
	}
	if revents&(unix.POLLHUP|unix.POLLERR) != 0 {
		s.evict(idx)
		return
	}

	buf := make([]byte, readChunk)
	n, err := sl.transport.Read(buf)
	if n == 0 {
		// Zero-length read signals peer close, per spec section 4.1.
		s.evict(idx)
		return
	}
	sl.lastActive = time.Now()
	sl.user.LastActivity = sl.lastActive

	lines, oversize := sl.inbound.Feed(buf[:n])
	if oversize {
		pollLog.Warnf("fd %d: oversize line dropped", sl.transport.Fd())
	}
	for _, line := range lines {
		cmd := protocol.ParseLine(line)
		s.Dispatcher.Dispatch(sl.user, cmd)
	}

	if err != nil {
		s.evict(idx)
	}
}

// drainOutbound flushes every slot's outbound queue, per spec section
// 4.5 step 4. A slot whose write fails is evicted after the full pass
// completes so mid-pass index shifts from eviction never skip a slot.
func (s *Server) drainOutbound() {
	var failed []int
	for i := 0; i < s.active; i++ {
		sl := s.slots[i]
		if sl == nil || sl.user.Outbound.Empty() {
			continue
		}
		for _, line := range sl.user.Outbound.DrainAll() {
			if _, err := wire.WriteRetry(sl.transport, wire.EncodeLine(line)); err != nil {
				failed = append(failed, i)
				break
			}
		}
	}
	s.evictAll(failed)
}

// evictIdle evicts every slot whose inactivity exceeds idleTimeout, per
// spec section 4.5 step 5 and section 5's per-fd idle timer.
func (s *Server) evictIdle() {
	if s.idleTimeout <= 0 {
		return
	}
	now := time.Now()
	var expired []int
	for i := 0; i < s.active; i++ {
		sl := s.slots[i]
		if sl == nil {
			continue
		}
		if now.Sub(sl.lastActive) > s.idleTimeout {
			expired = append(expired, i)
		}
	}
	s.evictAll(expired)
}

// evictAll evicts the given slot indices, highest first, so that the
// swap-compaction in evict never invalidates an index still pending in
// the list.
func (s *Server) evictAll(indices []int) {
	if len(indices) == 0 {
		return
	}
	sort.Sort(sort.Reverse(sort.IntSlice(indices)))
	for _, i := range indices {
		s.evict(i)
	}
}

// evict removes slot i from the table, per spec section 4.5's eviction
// policy: close the fd, remove the associated user (cascading through
// membership), then swap the last active slot into the vacated index and
// decrement the active count.
func (s *Server) evict(idx int) {
	sl := s.slots[idx]
	if sl == nil {
		return
	}
	sl.transport.Close()
	if sl.user.Nickname != "" {
		s.Store.RemoveUser(sl.user)
	}

	last := s.active - 1
	if idx != last {
		s.slots[idx] = s.slots[last]
		s.pollfds[idx+1] = s.pollfds[last+1]
	}
	s.slots[last] = nil
	s.pollfds[last+1] = unix.PollFd{Fd: -1}
	s.active--
}

// ActiveConnections reports the number of occupied poll-table slots,
// used by inspect.go's status reporting.
func (s *Server) ActiveConnections() int { return s.active }

// Capacity reports the fixed size of the client portion of the poll
// table (excludes the reserved listener slot).
func (s *Server) Capacity() int { return len(s.slots) }
