package kernel

// Watch registers a callback invoked at the end of each delta in which the
// watched signal's value changed, in registration order (§4.8 "Watches").
type Watch struct {
	ID       int
	Signal   SignalID
	Callback func(t Time, d Delta, v Value)
}

// Watch registers a new watch and returns its ID for later removal.
func (k *Kernel) Watch(signal SignalID, cb func(t Time, d Delta, v Value)) int {
	k.nextWatchID++
	id := k.nextWatchID
	k.watches = append(k.watches, Watch{ID: id, Signal: signal, Callback: cb})
	return id
}

// Unwatch removes a previously registered watch.
func (k *Kernel) Unwatch(id int) {
	for i, w := range k.watches {
		if w.ID == id {
			k.watches = append(k.watches[:i], k.watches[i+1:]...)
			return
		}
	}
}

func (k *Kernel) fireWatches(stamp Stamp, changed map[SignalID]Value) {
	for _, w := range k.watches {
		if v, ok := changed[w.Signal]; ok {
			w.Callback(stamp.At, stamp.Delta, v)
		}
	}
}
