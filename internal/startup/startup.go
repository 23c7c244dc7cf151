// Package startup provides ordered cleanup-on-failure for multi-step
// construction sequences — binding a listener, loading a settings file,
// building a terminal UI — any one of which can fail after earlier steps
// already acquired a resource.
//
// Adapted from the teacher's errhelper package: same accumulate-then-unwind
// shape, renamed to this module's domain. Failures are returned wrapped
// with the sequence's step label; this package does no logging itself.
package startup

import (
	"fmt"
	"io"
)

type wrapped struct {
	step   string
	nested error
}

func (w wrapped) Error() string {
	return w.step + ": " + w.nested.Error()
}

func (w wrapped) Unwrap() error {
	return w.nested
}

// Sequence collects cleanup actions registered during a construction
// sequence and runs them in reverse order the first time Abort is called.
//
// Typical use:
//
//	seq := startup.New("open listener")
//	ln, err := net.Listen("tcp", addr)
//	if err != nil {
//	    return seq.Abort(err)
//	}
//	seq.DeferClose(ln)
//
//	lfd, err := session.ListenerFd(ln)
//	if err != nil {
//	    return seq.Abort(err) // closes ln too
//	}
type Sequence struct {
	step     string
	cleanups []func()
	unwound  bool
}

// New starts a Sequence labeled step; the label prefixes any error Abort
// returns.
func New(step string) *Sequence {
	return &Sequence{step: step}
}

// Defer registers f to run, in reverse registration order, the first time
// Abort is called.
func (s *Sequence) Defer(f func()) {
	s.cleanups = append(s.cleanups, f)
}

// DeferClose registers c.Close to run on Abort, discarding its error (the
// sequence is already failing; a close error would only obscure the cause).
func (s *Sequence) DeferClose(c io.Closer) {
	s.Defer(func() { c.Close() })
}

// Abort unwinds registered cleanups in reverse order and returns err
// wrapped with the sequence's step label. Returns nil, and runs no
// cleanups, if err is nil.
func (s *Sequence) Abort(err error) error {
	if err == nil {
		return nil
	}
	s.Unwind()
	return wrapped{step: s.step, nested: err}
}

// Unwind runs every registered cleanup in reverse order without producing
// an error. Safe to call more than once; later calls are no-ops.
func (s *Sequence) Unwind() {
	if s.unwound {
		return
	}
	s.unwound = true
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
}

// Errorf is a convenience for Abort(fmt.Errorf(format, args...)).
func (s *Sequence) Errorf(format string, args ...interface{}) error {
	return s.Abort(fmt.Errorf(format, args...))
}
