package kernel

// WaveSink receives value-change events for waveform dumping, the
// watch/callback consumer spec.md §1 describes alongside the interactive
// shell. VCD/FST/LXT writers are non-goals of this core; any sink
// implementing WaveSink — including a real waveform-format writer a
// caller supplies — can be attached the same way.
type WaveSink interface {
	Init(names map[SignalID]string)
	Change(t Time, d Delta, id SignalID, v Value)
	Close() error
}

// AttachWaveSink registers a Watch on every signal in names, forwarding
// each change to sink. It calls sink.Init once, up front, with the full
// id→name mapping so a sink can write header information before the
// first change arrives.
func (k *Kernel) AttachWaveSink(names map[SignalID]string, sink WaveSink) {
	sink.Init(names)
	for id := range names {
		id := id
		k.Watch(id, func(t Time, d Delta, v Value) {
			sink.Change(t, d, id, v)
		})
	}
}
