// Package logging is the ambient logging stack shared by the server and
// client programs. Grounded directly on the teacher's main.go: named
// go-log loggers with a single global level. This package does not choose
// or change the log destination; go-log writes wherever its own
// configuration sends it.
package logging

import (
	"os"

	golog "github.com/ipfs/go-log"
	"golang.org/x/crypto/ssh/terminal"
)

// Logger is the subset of *golog.ZapEventLogger this package's callers use.
type Logger = golog.StandardLogger

// New returns a named logger. Loggers with the same name share level
// configuration via SetLevel/SetAllLevels.
func New(name string) Logger {
	return golog.Logger(name)
}

// IsInteractive reports whether stderr is attached to a terminal, and
// returns false whenever NIGHTWIRE_LOG_FILE is set. The client uses this
// to choose between the terminal UI and the headless UI. It does not
// suppress or redirect log output.
func IsInteractive() bool {
	if os.Getenv("NIGHTWIRE_LOG_FILE") != "" {
		return false
	}
	return terminal.IsTerminal(int(os.Stderr.Fd()))
}

// SetLevel configures the minimum level for every logger created through
// this package, mirroring the teacher's log.SetAllLoggers call.
func SetLevel(level string) error {
	lvl, err := golog.LevelFromString(level)
	if err != nil {
		return err
	}
	golog.SetAllLoggers(lvl)
	return nil
}
