// Package tui implements the client's terminal front-end over
// gdamore/tcell and rivo/tview, per spec section 2's "concrete terminal
// rendering back-end" (an external adapter) feeding the hand-rolled
// scrollback and line editor state the spec actually asks for.
//
// Grounded on the teacher's serialui/tui/tui.go: a header TextView, a
// log TextView, and an input field wired through SetInputCapture/
// SetDoneFunc. Unlike the teacher, history and cursor state live in
// internal/client/editor rather than tview.InputField's own history —
// every keystroke here is forwarded to the Editor and the field's text is
// repainted from Editor.Text() (the Editor's cursor position is not
// pushed to the widget), so the ring buffer and
// bounded history queues specified in spec section 3 are the actual
// source of truth, not an implementation detail of the widget library.
package tui

import (
	"fmt"
	"hash/crc32"
	"strings"
	"time"

	"github.com/gdamore/tcell"
	"github.com/rivo/tview"

	"github.com/nightwire/ircsuite/internal/client/editor"
	"github.com/nightwire/ircsuite/internal/client/scrollback"
)

// ScrollbackCapacity and ViewportHeight size the ring buffer and its
// visible window. ViewportHeight is fixed; it is not adjusted to the log
// box's actual height.
const (
	ScrollbackCapacity = 2000
	ViewportHeight     = 24
)

// TUI is the concrete terminal UI. It implements internal/client.UI
// (Msg/Error/Status) plus an input callback hook for the controller.
type TUI struct {
	app    *tview.Application
	header *tview.TextView
	flex   *tview.Flex
	logBox *tview.TextView
	input  *tview.InputField

	scrollback *scrollback.Scrollback
	editor     *editor.Editor

	// OnLine is invoked with each committed input line (the line
	// editor's ENTER contract from spec section 4.7).
	OnLine func(line string)
}

// New builds a TUI with an empty scrollback/editor pair.
func New() *TUI {
	t := &TUI{
		app:        tview.NewApplication(),
		header:     tview.NewTextView(),
		flex:       tview.NewFlex(),
		logBox:     tview.NewTextView(),
		input:      tview.NewInputField(),
		scrollback: scrollback.New(ScrollbackCapacity, ViewportHeight),
		editor:     editor.New(),
	}
	t.scrollback.Attach(t)

	t.header.SetBackgroundColor(tcell.Color236)
	t.header.SetText("nightwire | not connected")

	t.flex.SetDirection(tview.FlexRow)

	t.logBox.SetBackgroundColor(tcell.Color235)
	t.logBox.SetTextColor(tcell.Color255)
	t.logBox.SetWrap(true)
	t.logBox.SetDynamicColors(true)
	t.logBox.SetWordWrap(true)
	t.logBox.SetBorder(true)
	t.logBox.SetBorderPadding(0, 1, 1, 1)

	t.flex.AddItem(t.header, 1, 1, false)
	t.flex.AddItem(t.logBox, 0, 24, false)
	t.flex.AddItem(t.input, 1, 1, true)

	t.input.SetLabel("> ")
	t.input.SetFieldBackgroundColor(tcell.Color236)
	t.input.SetFieldTextColor(tcell.Color255)
	t.input.SetLabelColor(tcell.ColorWhite)

	t.input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			line := t.editor.Commit()
			t.syncInputField()
			if line != "" && t.OnLine != nil {
				t.OnLine(line)
			}
		case tcell.KeyEscape:
			t.editor = editor.New()
			t.syncInputField()
		}
	})

	t.input.SetInputCapture(t.handleKey)

	t.app.SetRoot(t.flex, true)
	return t
}

// syncInputField repaints the tview InputField from the Editor's
// authoritative buffer and cursor.
func (t *TUI) syncInputField() {
	t.input.SetText(t.editor.Text())
}

func (t *TUI) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyPgUp:
		t.scrollback.PageUp()
		t.renderScrollback()
		return nil
	case tcell.KeyPgDn:
		t.scrollback.PageDown()
		t.renderScrollback()
		return nil
	case tcell.KeyUp:
		t.editor.HistoryPrevious()
		t.syncInputField()
		return nil
	case tcell.KeyDown:
		t.editor.HistoryNext()
		t.syncInputField()
		return nil
	case tcell.KeyLeft:
		t.editor.Left()
		t.syncInputField()
		return nil
	case tcell.KeyRight:
		t.editor.Right()
		t.syncInputField()
		return nil
	case tcell.KeyHome:
		t.editor.Home()
		t.syncInputField()
		return nil
	case tcell.KeyEnd:
		t.editor.End()
		t.syncInputField()
		return nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		t.editor.Backspace()
		t.syncInputField()
		return nil
	case tcell.KeyDelete:
		t.editor.Delete()
		t.syncInputField()
		return nil
	case tcell.KeyRune:
		t.editor.Insert(event.Rune())
		t.syncInputField()
		return nil
	case tcell.KeyCtrlU:
		t.scrollback.LineUp()
		t.renderScrollback()
		return nil
	case tcell.KeyCtrlD:
		t.scrollback.LineDown()
		t.renderScrollback()
		return nil
	default:
		return event
	}
}

// Run starts the tview event loop. It blocks until the application
// stops.
func (t *TUI) Run() error {
	return t.app.Run()
}

// Close stops the application.
func (t *TUI) Close() error {
	t.app.Stop()
	return nil
}

func pickColor(nick string) string {
	colors := []string{
		"#60b48a", "#dfaf8f", "#506070", "#dc8cc3",
		"#8cd0d3", "#dcdccc", "#709080", "#dca3a3",
		"#c3bf9f", "#f0dfaf", "#94bff3", "#ec93d3",
	}
	sum := crc32.ChecksumIEEE([]byte(nick))
	return colors[sum%uint32(len(colors))]
}

// Msg implements internal/client.UI.
func (t *TUI) Msg(format string, args ...interface{}) {
	t.append("", fmt.Sprintf(format, args...))
}

// Error implements internal/client.UI.
func (t *TUI) Error(format string, args ...interface{}) {
	t.append("#fe3333", fmt.Sprintf(format, args...))
}

// Status implements internal/client.UI.
func (t *TUI) Status(format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	t.app.QueueUpdateDraw(func() {
		t.header.SetText(text)
	})
}

func (t *TUI) append(color, text string) {
	stamp := time.Now().Format("15:04:05")
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		rendered := line
		if color != "" {
			rendered = fmt.Sprintf("[%s]%s[-]", color, tview.Escape(line))
		} else {
			rendered = tview.Escape(line)
		}
		t.scrollback.Add(fmt.Sprintf("[#8a8a8a]%s[-] %s", stamp, rendered))
	}
	t.renderScrollback()
}

func (t *TUI) renderScrollback() {
	lines := t.scrollback.Visible()
	t.app.QueueUpdateDraw(func() {
		t.logBox.SetText(strings.Join(lines, "\n"))
		if !t.scrollback.Pending() {
			t.logBox.ScrollToEnd()
		}
	})
}

// Notify implements scrollback.Observer, driving the header's pending
// indicator per spec section 4.6.
func (t *TUI) Notify(subject, message string) {
	t.app.QueueUpdateDraw(func() {
		t.header.SetText(fmt.Sprintf("nightwire | %s: %s", subject, message))
	})
}
