// Package scrollback implements the client's chat transcript ring buffer
// and viewport, per spec section 4.6 and the data model of section 3.
//
// Grounded on DESIGN NOTES section 9's resolved Open Question: the
// source carries two diverging scrollback implementations, one plain
// and one observer-based; the observer-based design is normative, so
// this package always notifies attached observers rather than exposing
// a polling API.
package scrollback

// Observer receives a notification when new content first arrives below
// the viewport while the user is scrolled up. subject is a short
// label ("scrollback"); message is a one-line summary fit for a status
// bar. Grounded on the function-pointer observer table DESIGN NOTES
// section 9 maps onto a Go interface.
type Observer interface {
	Notify(subject, message string)
}

// Scrollback is a fixed-capacity ring of rendered lines with a viewport
// cursor, per spec section 3's invariants:
//
//	bottomLine - topLine == viewportHeight
//	tail <= topLine <= bottomLine <= head (wrap-aware)
type Scrollback struct {
	lines    []string
	capacity int
	head     int // next write index
	tail     int // oldest retained index
	count    int // number of lines currently stored

	viewportHeight int
	topLine        int // index of the first line shown
	bottomLine     int // index one past the last line shown

	pending   bool
	observers []Observer
}

// New returns an empty Scrollback with the given ring capacity and
// viewport height. Capacity must be >= viewportHeight for the viewport
// invariant to be satisfiable once the ring fills.
func New(capacity, viewportHeight int) *Scrollback {
	if viewportHeight > capacity {
		viewportHeight = capacity
	}
	return &Scrollback{
		lines:          make([]string, capacity),
		capacity:       capacity,
		viewportHeight: viewportHeight,
		bottomLine:     0,
		topLine:        0,
	}
}

// Attach registers obs to receive future Notify calls, in registration
// order.
func (s *Scrollback) Attach(obs Observer) {
	s.observers = append(s.observers, obs)
}

// Detach removes obs if present.
func (s *Scrollback) Detach(obs Observer) {
	for i, o := range s.observers {
		if o == obs {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

func (s *Scrollback) notify(message string) {
	for _, obs := range s.observers {
		obs.Notify("scrollback", message)
	}
}

// atBottom reports whether the viewport currently shows the newest line.
func (s *Scrollback) atBottom() bool {
	return s.bottomLine == s.head
}

// Add appends line to the ring. If the viewport was already at the
// bottom, it advances with the new line; otherwise the pending flag is
// set and observers are notified once, on the first line that arrives
// while scrolled up; no further notification is sent until pending is
// cleared by returning to the bottom (spec section 4.6, section 8
// scenario 5). If wrapping evicts the top visible line while scrolled
// up, the viewport is moved down to start at the new tail.
func (s *Scrollback) Add(line string) {
	wasAtBottom := s.atBottom()

	s.lines[s.head%s.capacity] = line
	s.head++
	if s.count == s.capacity {
		s.tail++
	} else {
		s.count++
	}

	if wasAtBottom {
		s.bottomLine = s.head
		s.topLine = s.bottomLine - s.viewportHeight
		if s.topLine < s.tail {
			s.topLine = s.tail
		}
		return
	}
	if s.topLine < s.tail {
		s.topLine = s.tail
		s.bottomLine = s.topLine + s.viewportHeight
	}
	if !s.pending {
		s.pending = true
		s.notify("new messages below")
	}
}

// Pending reports whether lines have arrived below the viewport since
// the user last scrolled to the bottom.
func (s *Scrollback) Pending() bool { return s.pending }

// Visible returns the lines currently in the viewport, oldest first.
func (s *Scrollback) Visible() []string {
	out := make([]string, 0, s.bottomLine-s.topLine)
	for i := s.topLine; i < s.bottomLine; i++ {
		out = append(out, s.lines[i%s.capacity])
	}
	return out
}

func (s *Scrollback) clampToBottom() {
	if s.atBottom() {
		s.pending = false
	}
}

// LineUp shifts the viewport up by one line. No-op when topLine is
// already at the oldest retained line (tail).
func (s *Scrollback) LineUp() {
	if s.topLine <= s.tail {
		return
	}
	s.topLine--
	s.bottomLine--
}

// LineDown shifts the viewport down by one line. No-op when bottomLine
// is already at head (the newest line).
func (s *Scrollback) LineDown() {
	if s.bottomLine >= s.head {
		return
	}
	s.topLine++
	s.bottomLine++
	s.clampToBottom()
}

// PageUp shifts the viewport up by min(viewportHeight, remaining).
func (s *Scrollback) PageUp() {
	remaining := s.topLine - s.tail
	shift := s.viewportHeight
	if remaining < shift {
		shift = remaining
	}
	s.topLine -= shift
	s.bottomLine -= shift
}

// PageDown shifts the viewport down by min(viewportHeight, remaining).
func (s *Scrollback) PageDown() {
	remaining := s.head - s.bottomLine
	shift := s.viewportHeight
	if remaining < shift {
		shift = remaining
	}
	s.topLine += shift
	s.bottomLine += shift
	s.clampToBottom()
}

// JumpToBottom moves the viewport to show the newest lines, clearing the
// pending flag.
func (s *Scrollback) JumpToBottom() {
	s.bottomLine = s.head
	s.topLine = s.bottomLine - s.viewportHeight
	if s.topLine < s.tail {
		s.topLine = s.tail
	}
	s.pending = false
}

// TopLine, BottomLine and Tail expose ring indices for invariant tests.
func (s *Scrollback) TopLine() int    { return s.topLine }
func (s *Scrollback) BottomLine() int { return s.bottomLine }
func (s *Scrollback) Tail() int       { return s.tail }
func (s *Scrollback) Head() int       { return s.head }
