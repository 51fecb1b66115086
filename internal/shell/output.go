package shell

import "nvcgo/internal/kernel"

// Kind identifies which output channel an Event belongs to. The shell
// publishes every event through the same handler vector; external
// transports (terminal, WebSocket, external debug protocol) subscribe to
// the kinds they care about and ignore the rest (§4.9).
type Kind uint8

const (
	Stdout       Kind = iota // command results, examine output
	Stderr                   // command errors
	Backchannel              // out-of-band transport-level replies
	SignalUpdate             // a watched signal changed value
	Start                    // a `run`/`continue` began
	Restart                  // a `reset` completed
	NextStep                 // the kernel advanced one delta/time step
)

// Event is one message pushed through the output handler vector.
type Event struct {
	Kind   Kind
	Text   string
	Signal kernel.SignalID
	Value  kernel.Value
	At     kernel.Time
}

// Handler receives published Events. Handlers never block the shell for
// long: the shell is single-threaded and invoked only between delta
// cycles (§4.9 "Concurrency"), so a slow handler stalls the next command.
type Handler func(Event)

// Handlers is the output handler vector: every subscriber is called, in
// subscription order, for every published Event. There is no filtering
// at publish time — a Handler that only wants SignalUpdate events checks
// ev.Kind itself, mirroring the teacher's broadcast-then-filter pattern
// in internal/ui/progress.go's single events channel.
type Handlers struct {
	subs []Handler
}

// Subscribe registers h to receive every future event.
func (hs *Handlers) Subscribe(h Handler) {
	hs.subs = append(hs.subs, h)
}

func (hs *Handlers) publish(ev Event) {
	for _, h := range hs.subs {
		h(ev)
	}
}
