package scrollback

import "testing"

type recordingObserver struct {
	notifications []string
}

func (r *recordingObserver) Notify(subject, message string) {
	r.notifications = append(r.notifications, subject+": "+message)
}

func TestScrollbackAddAdvancesViewportAtBottom(t *testing.T) {
	sb := New(10, 5)
	for i := 0; i < 5; i++ {
		sb.Add(string(rune('a' + i)))
	}
	visible := sb.Visible()
	if len(visible) != 5 {
		t.Fatalf("expected 5 visible lines, got %v", visible)
	}
	if sb.BottomLine()-sb.TopLine() != 5 {
		t.Fatalf("viewport height invariant violated: top=%d bottom=%d", sb.TopLine(), sb.BottomLine())
	}
}

func TestScrollbackLineUpNoOpAtTail(t *testing.T) {
	sb := New(10, 5)
	for i := 0; i < 5; i++ {
		sb.Add(string(rune('a' + i)))
	}
	top := sb.TopLine()
	sb.LineUp() // already at tail == topLine
	if sb.TopLine() != top {
		t.Fatalf("LineUp should be a no-op at the tail")
	}
}

func TestScrollbackPendingScenario(t *testing.T) {
	obs := &recordingObserver{}
	sb := New(10, 5)
	sb.Attach(obs)

	for i := 0; i < 5; i++ {
		sb.Add(string(rune('a' + i)))
	}

	for i := 0; i < 3; i++ {
		sb.Add(string(rune('f' + i)))
	}
	if sb.Pending() {
		t.Fatalf("should not be pending while still at bottom")
	}

	sb.LineUp()
	sb.LineUp()
	if sb.Pending() {
		t.Fatalf("scrolling up alone should not set pending")
	}

	sb.Add("new-message")
	if !sb.Pending() {
		t.Fatalf("expected pending after a line arrives while scrolled up")
	}
	if len(obs.notifications) != 1 {
		t.Fatalf("expected exactly one notification, got %v", obs.notifications)
	}

	sb.Add("another")
	if len(obs.notifications) != 1 {
		t.Fatalf("expected notification to fire only once per pending episode, got %v", obs.notifications)
	}

	sb.JumpToBottom()
	if sb.Pending() {
		t.Fatalf("JumpToBottom should clear pending")
	}
}

func TestScrollbackLineDownClampsAtHead(t *testing.T) {
	sb := New(10, 5)
	for i := 0; i < 5; i++ {
		sb.Add(string(rune('a' + i)))
	}
	bottom := sb.BottomLine()
	sb.LineDown()
	if sb.BottomLine() != bottom {
		t.Fatalf("LineDown should be a no-op at the head")
	}
}

func TestScrollbackPageUpDownShiftsByViewportOrRemaining(t *testing.T) {
	sb := New(20, 5)
	for i := 0; i < 20; i++ {
		sb.Add(string(rune('a' + i%26)))
	}
	// Buffer full and at bottom: topLine should be head-viewportHeight.
	if sb.BottomLine()-sb.TopLine() != 5 {
		t.Fatalf("viewport invariant violated after fill")
	}

	sb.PageUp()
	if sb.BottomLine()-sb.TopLine() != 5 {
		t.Fatalf("PageUp must preserve viewport height")
	}

	sb.PageUp()
	sb.PageUp()
	sb.PageUp()
	sb.PageUp() // should clamp at tail eventually
	if sb.TopLine() < sb.Tail() {
		t.Fatalf("PageUp must not scroll past the tail")
	}
}

func TestScrollbackWrapsAndAdvancesTail(t *testing.T) {
	sb := New(3, 2)
	sb.Add("a")
	sb.Add("b")
	sb.Add("c")
	sb.Add("d") // wraps, evicting "a"

	if sb.Tail() != sb.Head()-3 {
		t.Fatalf("tail should track the ring wrap: tail=%d head=%d", sb.Tail(), sb.Head())
	}
	visible := sb.Visible()
	if len(visible) != 2 || visible[0] != "c" || visible[1] != "d" {
		t.Fatalf("got %v, want [c d]", visible)
	}
}
