package kernel

import "container/heap"

// EventKind discriminates what an Event does when dequeued.
type EventKind uint8

const (
	// EventDriverUpdate carries a pending driver value for a signal.
	EventDriverUpdate EventKind = iota
	// EventProcessResume wakes a suspended process (its timeout expired).
	EventProcessResume
	// EventStop raises the cooperative stop flag (a `run T` deadline).
	EventStop
)

// Event is one entry in the kernel's event queue (§4.8 step 1).
type Event struct {
	At      Stamp
	Kind    EventKind
	Signal  SignalID
	Driver  int
	Value   Value
	Process ProcessID

	seq uint64 // insertion order, the tie-break below Stamp (§5 ordering)
}

type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].At != h[j].At {
		return h[i].At.Before(h[j].At)
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	e, ok := x.(*Event)
	if !ok || e == nil {
		return
	}
	*h = append(*h, e)
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	if n == 0 {
		return (*Event)(nil)
	}
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// schedule pushes e onto the queue, stamping it with the next insertion
// sequence number for deterministic tie-breaking among same-stamp events.
func (k *Kernel) schedule(e *Event) {
	k.seq++
	e.seq = k.seq
	heap.Push(&k.queue, e)
}

// nextStamp reports the stamp of the earliest pending event, if any.
func (k *Kernel) nextStamp() (Stamp, bool) {
	if len(k.queue) == 0 {
		return Stamp{}, false
	}
	return k.queue[0].At, true
}

// popAt removes and returns every queued event at exactly stamp, in
// insertion order (§4.8 step 1, §5 "driver updates are applied in
// event-queue insertion order").
func (k *Kernel) popAt(stamp Stamp) []*Event {
	var out []*Event
	for len(k.queue) > 0 && k.queue[0].At == stamp {
		e, _ := heap.Pop(&k.queue).(*Event)
		out = append(out, e)
	}
	return out
}
