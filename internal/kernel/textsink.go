package kernel

import (
	"encoding/hex"
	"fmt"
	"io"
)

// TextSink is the reference WaveSink (§6 "a minimal in-memory/text sink
// ... provided as a reference implementation"): one line per value
// change, in a compact non-standard text format. It is not a VCD/FST/LXT
// writer — those remain non-goals of this core.
type TextSink struct {
	w     io.Writer
	names map[SignalID]string
}

// NewTextSink wraps w as a WaveSink.
func NewTextSink(w io.Writer) *TextSink { return &TextSink{w: w} }

func (s *TextSink) Init(names map[SignalID]string) { s.names = names }

func (s *TextSink) Change(t Time, d Delta, id SignalID, v Value) {
	fmt.Fprintf(s.w, "%d+%d %s = %s\n", int64(t), d, s.names[id], hex.EncodeToString(v))
}

func (s *TextSink) Close() error { return nil }
