// Package headless implements a client.UI over stdin/stdout, for use
// without a real terminal (tests, piping, non-interactive sessions).
// Grounded on the teacher's serialui/simple/simple.go: a bufio.Scanner
// over stdin feeding timestamped lines to stderr.
package headless

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// UI is a minimal client.UI backed by stdin/stdout, implementing the
// interface in internal/client.UI without importing it directly (no
// import cycle: internal/client imports nothing from here).
type UI struct {
	out    io.Writer
	stdin  *bufio.Scanner
	prompt string
}

// New returns a headless UI reading lines from in and writing rendered
// output to out.
func New(in io.Reader, out io.Writer) *UI {
	return &UI{
		out:   out,
		stdin: bufio.NewScanner(in),
	}
}

// NewStdio is a convenience constructor over os.Stdin/os.Stdout.
func NewStdio() *UI {
	return New(os.Stdin, os.Stdout)
}

func (u *UI) Msg(format string, args ...interface{}) {
	u.print("", format, args...)
}

func (u *UI) Error(format string, args ...interface{}) {
	u.print("!! ", format, args...)
}

func (u *UI) Status(format string, args ...interface{}) {
	u.print("-- ", format, args...)
}

func (u *UI) print(prefix, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	msg = strings.TrimRight(msg, "\n\t ")
	stamp := time.Now().Format("15:04:05")
	for _, line := range strings.Split(msg, "\n") {
		fmt.Fprintf(u.out, "%s %s%s\n", stamp, prefix, line)
	}
}

// ReadLine blocks for the next line of user input. io.EOF is returned
// once stdin is exhausted or closed.
func (u *UI) ReadLine() (string, error) {
	if !u.stdin.Scan() {
		if err := u.stdin.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return u.stdin.Text(), nil
}
