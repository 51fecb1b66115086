package shell

// Transport is the collaborator interface an external channel (terminal,
// WebSocket, external debug protocol) implements to drive a Shell. The
// core never implements a transport beyond the reference TermTransport
// in this package; WebSocket and external debug protocol transports are
// non-goals of this core (spec.md §1 "Non-goals") left to callers (§4.9
// "The core does not implement any transport").
type Transport interface {
	SendText(string) error
	SendBinary([]byte) error
	OnText(func(string))
	OnBinary(func([]byte))
}
