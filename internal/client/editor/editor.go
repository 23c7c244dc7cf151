// Package editor implements the client's in-place command line editor
// and bounded history, per spec section 4.7 and the data model of
// section 3.
//
// Cursor arithmetic uses mattn/go-runewidth so editing a line containing
// wide (e.g. CJK) runes keeps cursor movement visually correct — a
// DOMAIN+ supplement: the distilled spec's charCount/cursor invariants
// implicitly assume one column per character, which only holds for
// single-byte text.
package editor

import (
	"github.com/mattn/go-runewidth"
)

// PromptSize is the fixed width reserved for the prompt before the
// editable buffer, per spec section 3's cursor invariant.
const PromptSize = 2

// MaxChars bounds the editable buffer's rune count.
const MaxChars = 512

// DefaultHistoryCapacity bounds the front/back history queues.
const DefaultHistoryCapacity = 50

// Editor is a single-line in-place text buffer with a cursor and
// bounded command history, per spec section 3:
//
//	front: the browse cursor used while pressing up/down
//	back:  the authoritative committed history
type Editor struct {
	runes  []rune
	cursor int // index into runes, 0 <= cursor <= len(runes)

	back  []string
	front []string
	pos   int // index into front; len(front) means "new, empty line"

	capacity int
}

// New returns an empty Editor with the default history capacity.
func New() *Editor {
	return NewWithCapacity(DefaultHistoryCapacity)
}

// NewWithCapacity returns an empty Editor whose history queues hold at
// most capacity entries each.
func NewWithCapacity(capacity int) *Editor {
	return &Editor{capacity: capacity}
}

// Text returns the current buffer contents.
func (e *Editor) Text() string { return string(e.runes) }

// CharCount returns the number of runes currently in the buffer.
func (e *Editor) CharCount() int { return len(e.runes) }

// Cursor returns the cursor's column position, PromptSize +
// display-width of the runes before it — satisfying spec section 3's
// invariant PROMPT_SIZE <= cursor <= PROMPT_SIZE + charCount, generalized
// to display columns rather than rune counts via go-runewidth.
func (e *Editor) Cursor() int {
	return PromptSize + runewidth.StringWidth(string(e.runes[:e.cursor]))
}

// Insert inserts r at the cursor and advances it, unless the buffer is
// already at MaxChars.
func (e *Editor) Insert(r rune) bool {
	if len(e.runes) >= MaxChars {
		return false
	}
	e.runes = append(e.runes, 0)
	copy(e.runes[e.cursor+1:], e.runes[e.cursor:])
	e.runes[e.cursor] = r
	e.cursor++
	return true
}

// Backspace deletes the rune before the cursor, if any.
func (e *Editor) Backspace() bool {
	if e.cursor == 0 {
		return false
	}
	e.runes = append(e.runes[:e.cursor-1], e.runes[e.cursor:]...)
	e.cursor--
	return true
}

// Delete removes the rune at the cursor, if any.
func (e *Editor) Delete() bool {
	if e.cursor >= len(e.runes) {
		return false
	}
	e.runes = append(e.runes[:e.cursor], e.runes[e.cursor+1:]...)
	return true
}

// Left moves the cursor one rune left, clamped at 0.
func (e *Editor) Left() {
	if e.cursor > 0 {
		e.cursor--
	}
}

// Right moves the cursor one rune right, clamped at CharCount.
func (e *Editor) Right() {
	if e.cursor < len(e.runes) {
		e.cursor++
	}
}

// Home moves the cursor to the start of the buffer.
func (e *Editor) Home() { e.cursor = 0 }

// End moves the cursor to the end of the buffer.
func (e *Editor) End() { e.cursor = len(e.runes) }

// reload rebuilds front from back, placing the browse position one past
// the last entry (the "new, empty line" slot), per spec section 4.7's
// reload operation.
func (e *Editor) reload() {
	e.front = make([]string, len(e.back))
	copy(e.front, e.back)
	e.pos = len(e.front)
}

// HistoryPrevious cycles the buffer to the previous (older) entry in
// front. A no-op at the oldest entry.
func (e *Editor) HistoryPrevious() {
	if e.front == nil {
		e.reload()
	}
	if e.pos == 0 {
		return
	}
	e.pos--
	e.setText(e.front[e.pos])
}

// HistoryNext cycles the buffer to the next (newer) entry in front, or
// to an empty line once past the newest entry.
func (e *Editor) HistoryNext() {
	if e.front == nil {
		e.reload()
	}
	if e.pos >= len(e.front) {
		return
	}
	e.pos++
	if e.pos == len(e.front) {
		e.setText("")
		return
	}
	e.setText(e.front[e.pos])
}

func (e *Editor) setText(s string) {
	e.runes = []rune(s)
	e.cursor = len(e.runes)
}

// Commit enqueues the current buffer into back (evicting the oldest
// entry if full), clears the buffer, and resets the front browse cursor
// to the new empty slot — spec section 4.7's ENTER contract. It returns
// the committed text.
func (e *Editor) Commit() string {
	text := e.Text()
	if text != "" {
		if len(e.back) >= e.capacity {
			e.back = e.back[1:]
		}
		e.back = append(e.back, text)
	}
	e.setText("")
	e.reload()
	return text
}

// History returns a copy of the authoritative back queue, oldest first.
func (e *Editor) History() []string {
	out := make([]string, len(e.back))
	copy(out, e.back)
	return out
}
