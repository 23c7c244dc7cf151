package session

// OutboundCapacity is the default capacity of a per-user outbound queue,
// per spec section 3 ("bounded FIFO, capacity ≈ 20").
const OutboundCapacity = 20

// Queue is a bounded circular FIFO of serialized wire lines. When full,
// Enqueue evicts the oldest element rather than blocking or erroring —
// the lossy-overwrite policy spec section 3 calls out for per-user and
// per-channel outbound queues, and section 9's confirmed Open Question
// for broadcast overflow.
//
// Grounded on original_source/libs/src/priv_queue.h: head/tail/used/
// capacity fields over a fixed backing array, reimplemented here as a Go
// slice ring since the intrusive C array maps directly to a owning slice
// per DESIGN NOTES section 9.
type Queue struct {
	buf        []string
	head, tail int
	used       int
}

// NewQueue returns an empty Queue with the given capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = OutboundCapacity
	}
	return &Queue{buf: make([]string, capacity)}
}

// Cap returns the queue's fixed capacity.
func (q *Queue) Cap() int { return len(q.buf) }

// Len returns the number of elements currently queued.
func (q *Queue) Len() int { return q.used }

// Full reports whether the queue is at capacity.
func (q *Queue) Full() bool { return q.used == len(q.buf) }

// Empty reports whether the queue has no elements.
func (q *Queue) Empty() bool { return q.used == 0 }

// Enqueue appends line at the tail. If the queue is full, the oldest
// element (at head) is evicted first and dropped is true.
func (q *Queue) Enqueue(line string) (dropped bool) {
	if q.Full() {
		q.head = (q.head + 1) % len(q.buf)
		q.used--
		dropped = true
	}
	q.buf[q.tail] = line
	q.tail = (q.tail + 1) % len(q.buf)
	q.used++
	return dropped
}

// Dequeue removes and returns the element at head. ok is false if the
// queue was empty.
func (q *Queue) Dequeue() (line string, ok bool) {
	if q.Empty() {
		return "", false
	}
	line = q.buf[q.head]
	q.buf[q.head] = ""
	q.head = (q.head + 1) % len(q.buf)
	q.used--
	return line, true
}

// DrainAll removes and returns every queued element in FIFO order.
func (q *Queue) DrainAll() []string {
	out := make([]string, 0, q.used)
	for {
		line, ok := q.Dequeue()
		if !ok {
			break
		}
		out = append(out, line)
	}
	return out
}
