// Command ircclient is the client entry point: spec section 6's CLI
// ("client accepts target address/port; default 127.0.0.1:50100").
//
// Grounded on the teacher's cmd/infchat/main.go wiring pattern (flag
// parsing, choosing a UI implementation, a background pull loop) and
// serialui/loops.go's InputLoop/PullMessages split between reading user
// input and draining inbound socket traffic. Unlike the teacher, input,
// socket and timer sources are fanned into a single goroutine's select
// loop rather than run as free-running goroutines: spec section 5 is
// explicit that the client has exactly one event loop, and
// internal/client/events.Dispatcher is documented as not safe for
// concurrent use. Only that one goroutine ever touches
// Controller.Session or calls Dispatcher.Emit/Pump.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	irc "gopkg.in/irc.v3"

	"github.com/nightwire/ircsuite/internal/client"
	"github.com/nightwire/ircsuite/internal/client/events"
	"github.com/nightwire/ircsuite/internal/client/headless"
	"github.com/nightwire/ircsuite/internal/client/tui"
	"github.com/nightwire/ircsuite/internal/logging"
)

// DefaultServerAddr is the spec section 6 CLI default.
const DefaultServerAddr = "127.0.0.1:50100"

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("connect", "", "server address (host:port) to connect to on startup, e.g. "+DefaultServerAddr)
	useHeadless := flag.Bool("headless", false, "use a stdin/stdout UI instead of the terminal UI")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	if err := logging.SetLevel(*logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "ircclient: invalid -log-level: %v\n", err)
		return 1
	}

	if *useHeadless || !logging.IsInteractive() {
		return runHeadless(*addr)
	}
	return runTUI(*addr)
}

func runTUI(addr string) int {
	front := tui.New()
	ctrl := client.NewController(front)

	// front.OnLine fires on tview's own event-loop goroutine (it is the
	// InputField's SetDoneFunc callback). It must not touch ctrl directly;
	// it only hands the line to the single client loop goroutine below.
	lines := make(chan string, 16)
	front.OnLine = func(line string) {
		lines <- line
	}

	if addr != "" {
		lines <- "/CONNECT " + addr
	}

	go func() {
		runEventLoop(ctrl, front, lines)
		front.Close()
	}()

	if err := front.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ircclient: %v\n", err)
		return 1
	}
	return 0
}

func runHeadless(addr string) int {
	ui := headless.NewStdio()
	ctrl := client.NewController(ui)

	lines := make(chan string, 16)
	go func() {
		defer close(lines)
		for {
			line, err := ui.ReadLine()
			if err != nil {
				return
			}
			lines <- line
		}
	}()

	if addr != "" {
		lines <- "/CONNECT " + addr
	}

	runEventLoop(ctrl, ui, lines)
	return 0
}

// socketEvent is one ReadAvailable result tagged with the Session it
// came from, so the event loop can tell a stale reader (from a session
// that has since been replaced or closed) from the current one.
type socketEvent struct {
	session *client.Session
	msgs    []*irc.Message
	err     error
}

// runEventLoop is the client's single event loop: the only place that
// reads or writes ctrl.Session, and the only caller of disp.Emit/Pump.
// It drains lines until the channel is closed or a command returns
// client.ErrInterrupt.
func runEventLoop(ctrl *client.Controller, ui client.UI, lines <-chan string) {
	disp := events.New(256)
	disp.On(events.NETWORK, events.SubSocketData, func(e events.Event) {
		msg, ok := e.Payload.(*irc.Message)
		if !ok {
			return
		}
		ui.Msg("%s", formatIncoming(msg))
	})
	disp.On(events.NETWORK, events.SubSocketClose, func(e events.Event) {
		ui.Status("disconnected: %v", e.Payload)
	})

	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	socketCh := make(chan socketEvent)
	var active *client.Session

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return
			}
			err := ctrl.HandleLine(line)
			if ctrl.Session != active {
				active = ctrl.Session
				if active != nil {
					go pumpSocket(active, socketCh)
				}
			}
			if err == client.ErrInterrupt {
				return
			}

		case se := <-socketCh:
			if se.session != active {
				continue // reader for a session we've since replaced or closed
			}
			for _, m := range se.msgs {
				disp.Emit(events.Event{Kind: events.NETWORK, SubKind: events.SubSocketData, Payload: m})
			}
			disp.Pump()
			if se.err != nil {
				disp.Emit(events.Event{Kind: events.NETWORK, SubKind: events.SubSocketClose, Payload: se.err})
				disp.Pump()
				ctrl.Session = nil
				active = nil
			}

		case <-ticker.C:
			disp.Emit(events.Event{Kind: events.SYSTEM, SubKind: events.SubTimer})
			disp.Pump()
		}
	}
}

// pumpSocket blocks on sess's socket and forwards every read to out,
// tagged with sess so the event loop can discard it once stale. It never
// touches a Controller, so it carries no shared mutable state with the
// event loop goroutine.
func pumpSocket(sess *client.Session, out chan<- socketEvent) {
	for {
		msgs, err := sess.ReadAvailable()
		out <- socketEvent{session: sess, msgs: msgs, err: err}
		if err != nil {
			return
		}
	}
}

func formatIncoming(msg *irc.Message) string {
	prefix := ""
	if msg.Prefix != nil && msg.Prefix.Name != "" {
		prefix = msg.Prefix.Name + " "
	}
	return fmt.Sprintf("%s%s %s", prefix, msg.Command, joinParams(msg.Params))
}

func joinParams(params []string) string {
	out := ""
	for i, p := range params {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}
