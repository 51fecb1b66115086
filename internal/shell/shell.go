// Package shell implements the interactive shell (C10): a command table
// mapping textual commands to handlers, and an output handler vector that
// external transports subscribe to instead of the core writing to any
// particular stream directly (§4.9).
//
// Grounded on the teacher's internal/ui/progress.go for the
// publish-to-subscribers shape (there, a Bubble Tea model consuming a
// buildpipeline.Event channel; here, Handlers.publish fanning Events out
// to every subscriber) and on cmd/surge's cobra command registration for
// the command-table-by-name pattern, reduced to a flat map since the
// shell's commands never nest subcommands.
package shell

import (
	"fmt"
	"sort"
	"strings"

	"nvcgo/internal/elab"
	"nvcgo/internal/kernel"
)

// Command is one shell command: a name, a one-line help string, and a
// handler invoked with the remaining whitespace-separated arguments.
type Command struct {
	Name string
	Help string
	Run  func(sh *Shell, args []string) error
}

// RebuildFunc re-elaborates the design from scratch, for `reset`. The
// shell does not itself know how to parse or elaborate source; the
// caller (cmd/nvc) supplies this closure bound to the original root unit
// and library path.
type RebuildFunc func() (*elab.Design, error)

// Shell owns the command table and output handler vector for one
// elaborated design. It is single-threaded and invoked only between
// delta cycles: a command's Run method must never be called while a
// Kernel.Run is in progress (§4.9 "Concurrency").
type Shell struct {
	design  *elab.Design
	rebuild RebuildFunc

	table    map[string]*Command
	order    []string
	Handlers Handlers

	watchIDs   map[string]int
	lastRunFor kernel.Time

	quit bool
}

// New creates a Shell over an already-elaborated design. rebuild may be
// nil, in which case `reset` reports an error instead of re-elaborating.
func New(design *elab.Design, rebuild RebuildFunc) *Shell {
	sh := &Shell{
		design:   design,
		rebuild:  rebuild,
		table:    make(map[string]*Command),
		watchIDs: make(map[string]int),
	}
	sh.registerBuiltins()
	return sh
}

// Design returns the shell's current elaborated design (it changes after
// a successful `reset`).
func (sh *Shell) Design() *elab.Design { return sh.design }

func (sh *Shell) register(c *Command) {
	sh.table[c.Name] = c
	sh.order = append(sh.order, c.Name)
}

// Commands returns the command table's entries in registration order,
// for a `help` listing.
func (sh *Shell) Commands() []*Command {
	out := make([]*Command, len(sh.order))
	for i, name := range sh.order {
		out[i] = sh.table[name]
	}
	return out
}

func (sh *Shell) emit(ev Event) { sh.Handlers.publish(ev) }

func (sh *Shell) printf(kind Kind, format string, args ...interface{}) {
	sh.emit(Event{Kind: kind, Text: fmt.Sprintf(format, args...)})
}

// Dispatch parses one input line and runs the matching command. An
// unknown command name or a handler error is published on Stderr and
// also returned, so a caller driving the shell from a script can decide
// whether to abort on the first failure.
func (sh *Shell) Dispatch(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	cmd, ok := sh.table[name]
	if !ok {
		err := fmt.Errorf("shell: unknown command %q", name)
		sh.printf(Stderr, "%v", err)
		return err
	}
	if err := cmd.Run(sh, args); err != nil {
		sh.printf(Stderr, "%v", err)
		return err
	}
	return nil
}

// Quit reports whether a `quit` command has run.
func (sh *Shell) Quit() bool { return sh.quit }

// Serve registers the shell's line handler with transport. For a
// *TermTransport it then reads and dispatches lines until `quit` runs or
// the input is exhausted; for any other Transport it returns once the
// handler is registered. Each line is one command's worth of
// kernel/elaborator work and one batch of published Events (§4.9).
func (sh *Shell) Serve(transport Transport) {
	transport.OnText(func(line string) {
		_ = sh.Dispatch(line)
	})
	if t, ok := transport.(*TermTransport); ok {
		t.ReadLoop(sh.Quit)
	}
}

func sortedSignalNames(d *elab.Design) []string {
	names := make([]string, 0, len(d.Signals))
	for name := range d.Signals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
