package kernel

import "sort"

// Kernel runs one design's discrete-event simulation to completion or
// until cancelled (§4.8).
type Kernel struct {
	now      Time
	curDelta Delta
	queue    eventHeap
	seq      uint64

	signals map[SignalID]*Signal
	procs   map[ProcessID]*registered
	nextPID ProcessID

	watches     []Watch
	nextWatchID int

	stop bool

	// EventCount and DeltaCount are exposed for the shell's `examine` and
	// for tests; they are not used by the scheduling algorithm itself.
	EventCount int
	DeltaCount int
}

// NewKernel creates an empty kernel with its clock at time zero.
func NewKernel() *Kernel {
	return &Kernel{
		signals: make(map[SignalID]*Signal),
		procs:   make(map[ProcessID]*registered),
	}
}

// Now returns the kernel's current simulation time.
func (k *Kernel) Now() Time { return k.now }

// ValueOf returns a signal's current resolved value, for the shell's
// `examine` command (§4.9). Returns nil for an unknown signal.
func (k *Kernel) ValueOf(id SignalID) Value {
	s := k.signals[id]
	if s == nil {
		return nil
	}
	return s.Current
}

// Force overrides a signal's resolved value regardless of its drivers,
// for the shell's `force` command (§4.9). Intended for use between delta
// cycles, not from within a process: it updates Current immediately and
// fires watches itself rather than going through the driver-update queue.
func (k *Kernel) Force(id SignalID, v Value) {
	s := k.signals[id]
	if s == nil {
		return
	}
	s.Forced = cloneValue(v)
	if !s.Forced.equal(s.Current) {
		s.Current = cloneValue(s.Forced)
		k.fireWatches(Stamp{At: k.now, Delta: k.curDelta}, map[SignalID]Value{id: s.Current})
	}
}

// Release removes a previously forced value, letting the signal's drivers
// resolve it again from the next driver update onward (§4.9 `release`).
// The signal keeps its last forced value until a driver next updates it.
func (k *Kernel) Release(id SignalID) {
	if s := k.signals[id]; s != nil {
		s.Forced = nil
	}
}

// AddSignal registers a signal with the given number of drivers and
// resolution function (nil if single-driver or resolution is irrelevant).
func (k *Kernel) AddSignal(id SignalID, initial Value, numDrivers int, resolve ResolutionFunc) {
	k.signals[id] = &Signal{
		ID:         id,
		Current:    cloneValue(initial),
		Pending:    make([]Value, numDrivers),
		NumDrivers: numDrivers,
		Resolve:    resolve,
	}
}

// RegisterProcess registers p at the given scope-tree DFS position,
// returning its ProcessID. The elaborator calls this once per process
// instance after computing the scope tree (§4.6, §4.8 scheduling model).
func (k *Kernel) RegisterProcess(scopeDFS int, p Process) ProcessID {
	k.nextPID++
	id := k.nextPID
	k.procs[id] = &registered{ID: id, ScopeDFS: scopeDFS, Order: int(id), Proc: p}
	return id
}

// Sensitize records that process id should become READY whenever signal
// changes value, per the process's most recent wait condition.
func (k *Kernel) sensitize(id ProcessID, signals []SignalID) {
	for _, sid := range signals {
		s := k.signals[sid]
		if s == nil {
			continue
		}
		s.Sensitive = append(s.Sensitive, id)
	}
}

// drive schedules driver idx's value for signal id, to be applied at the
// driver-update phase of the next delta at the current time (§4.8 step 2).
func (k *Kernel) drive(id SignalID, driver int, v Value) {
	k.scheduleDriverUpdate(Stamp{At: k.now, Delta: k.curDelta + 1}, id, driver, v)
}

// scheduleDriverUpdate enqueues a driver update event for a specific
// stamp. Its only caller is drive, so every update lands on the next delta
// at the current time.
func (k *Kernel) scheduleDriverUpdate(at Stamp, id SignalID, driver int, v Value) {
	k.schedule(&Event{At: at, Kind: EventDriverUpdate, Signal: id, Driver: driver, Value: v})
}

// ScheduleResume wakes process id at the given future stamp (a `wait for`
// timeout, or a process resuming after yielding within the same delta).
func (k *Kernel) ScheduleResume(at Stamp, id ProcessID) {
	k.schedule(&Event{At: at, Kind: EventProcessResume, Process: id})
}

// ScheduleStop raises the cooperative stop flag at the given future
// stamp (§5 "a `run T` command schedules a synthetic event ... whose
// handler raises the stop flag").
func (k *Kernel) ScheduleStop(at Stamp) {
	k.schedule(&Event{At: at, Kind: EventStop})
}

// Stop requests cancellation; it takes effect at the next delta boundary
// or between READY processes (§4.8 "Cancellation").
func (k *Kernel) Stop() { k.stop = true }

// Run advances the simulation until the stop flag is set, the queue
// empties, or simulation time would exceed until — whichever comes first
// (§4.8's cycle contract, run loosely bounding wall-clock scenario runs).
func (k *Kernel) Run(until Time) error {
	for !k.stop {
		stamp, hasEvent := k.nextStamp()
		if !hasEvent {
			return nil
		}
		if stamp.At > until {
			k.now = until
			return nil
		}
		k.now = stamp.At

		for {
			k.curDelta = stamp.Delta
			events := k.popAt(stamp)
			if len(events) == 0 {
				break
			}
			k.EventCount += len(events)

			changed, err := k.applyEvents(events)
			if err != nil {
				return err
			}

			ready := k.collectReady(changed)
			if err := k.runReady(ready); err != nil {
				return err
			}
			k.fireWatches(stamp, changed)

			if k.stop {
				return nil
			}

			next, ok := k.nextStamp()
			if !ok || !(next.At == stamp.At && next.Delta == stamp.Delta+1) {
				break
			}
			stamp = next
			k.DeltaCount++
		}
	}
	return nil
}

// applyEvents performs step 2 of §4.8: apply driver updates and resolve
// affected signals, returning the set of signals whose resolved value
// actually changed.
func (k *Kernel) applyEvents(events []*Event) (map[SignalID]Value, error) {
	changed := make(map[SignalID]Value)
	touched := make(map[SignalID]bool)

	for _, e := range events {
		switch e.Kind {
		case EventDriverUpdate:
			s := k.signals[e.Signal]
			if s == nil {
				continue
			}
			if e.Driver < len(s.Pending) {
				s.Pending[e.Driver] = e.Value
			}
			touched[e.Signal] = true
		case EventProcessResume:
			// handled by the second pass below, after signals resolve
		case EventStop:
			k.stop = true
		}
	}

	for sid := range touched {
		s := k.signals[sid]
		next, err := s.resolveNext()
		if err != nil {
			return nil, err
		}
		if !next.equal(s.Current) {
			s.Current = cloneValue(next)
			changed[sid] = s.Current
		}
	}

	for _, e := range events {
		if e.Kind == EventProcessResume {
			if r := k.procs[e.Process]; r != nil {
				r.Ready = true
			}
		}
	}

	return changed, nil
}

// collectReady performs step 3 of §4.8: mark every process sensitive to a
// changed signal READY, then returns the full READY set in scope-DFS,
// insertion order (§4.8 "Scheduling model").
func (k *Kernel) collectReady(changed map[SignalID]Value) []*registered {
	for sid := range changed {
		s := k.signals[sid]
		for _, pid := range s.Sensitive {
			if r := k.procs[pid]; r != nil {
				r.Ready = true
			}
		}
	}

	var ready []*registered
	for _, r := range k.procs {
		if r.Ready {
			ready = append(ready, r)
		}
	}
	sort.Slice(ready, func(i, j int) bool {
		if ready[i].ScopeDFS != ready[j].ScopeDFS {
			return ready[i].ScopeDFS < ready[j].ScopeDFS
		}
		return ready[i].Order < ready[j].Order
	})
	return ready
}

// runReady performs step 4 of §4.8: run every READY process to its next
// wait, single-threaded and to completion before the next process starts
// (§5 "Processes never run concurrently").
func (k *Kernel) runReady(ready []*registered) error {
	for _, r := range ready {
		if k.stop {
			return nil
		}
		r.Ready = false
		rt := &Runtime{Kernel: k, Vars: make(map[string]Value)}
		wait, err := r.Proc.Resume(rt)
		if err != nil {
			return err
		}
		r.Wait = wait
		k.applyWait(r, wait)
	}
	return nil
}

func (k *Kernel) applyWait(r *registered, wait WaitCond) {
	// Forget r's earlier sensitivity so only the wait it just reached can
	// wake it.
	for _, s := range k.signals {
		kept := s.Sensitive[:0]
		for _, pid := range s.Sensitive {
			if pid != r.ID {
				kept = append(kept, pid)
			}
		}
		s.Sensitive = kept
	}
	switch wait.Kind {
	case WaitOnSignals:
		k.sensitize(r.ID, wait.Signals)
	case WaitFor:
		k.ScheduleResume(Stamp{At: k.now + wait.Timeout, Delta: 0}, r.ID)
	case WaitUntil, WaitForever, WaitNone:
		// WaitUntil conditions are re-checked by the caller's IR on next
		// sensitized wake (modeled as WaitOnSignals with a condition
		// closure checked at resume time); WaitForever/WaitNone never
		// reschedule.
	}
}
