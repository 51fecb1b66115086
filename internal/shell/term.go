package shell

import (
	"bufio"
	"fmt"
	"io"
)

// TermTransport is the reference terminal Transport: lines read from an
// io.Reader become OnText callbacks, SendText/SendBinary write straight
// to an io.Writer. Grounded on the teacher's isTerminal/color-detection
// pattern in cmd/surge/main.go, simplified to a blocking line reader
// since the shell has no concurrent input source to multiplex.
type TermTransport struct {
	r       *bufio.Scanner
	w       io.Writer
	onText  func(string)
	onBytes func([]byte)
}

// NewTermTransport wraps r/w as a line-oriented terminal transport.
func NewTermTransport(r io.Reader, w io.Writer) *TermTransport {
	return &TermTransport{r: bufio.NewScanner(r), w: w}
}

func (t *TermTransport) SendText(s string) error {
	_, err := fmt.Fprintln(t.w, s)
	return err
}

func (t *TermTransport) SendBinary(b []byte) error {
	_, err := t.w.Write(b)
	return err
}

func (t *TermTransport) OnText(f func(string))   { t.onText = f }
func (t *TermTransport) OnBinary(f func([]byte)) { t.onBytes = f }

// ReadLoop blocks reading lines until EOF, or until stop (checked before
// each line) reports true, dispatching each non-empty line to the
// registered OnText handler. The shell's Serve calls this; it is exported so a caller
// wanting manual control over the read loop (e.g. a test double) can
// drive OnText itself instead.
func (t *TermTransport) ReadLoop(stop func() bool) {
	for t.r.Scan() {
		if stop != nil && stop() {
			return
		}
		line := t.r.Text()
		if line == "" {
			continue
		}
		if t.onText != nil {
			t.onText(line)
		}
	}
}
