package net

// ConnHandle is the transport's opaque token for one live connection.
// The transport is the sole authority on handle validity; game code
// only uses it as an index key.
type ConnHandle uint32

// InvalidConnHandle is never assigned to a live connection.
const InvalidConnHandle ConnHandle = 0

type EventType uint8

const (
	EventConnect EventType = iota
	EventDisconnect
	EventMessage
)

// Event is one transport-level occurrence delivered to the game loop.
// Data is only set for EventMessage.
type Event struct {
	Type   EventType
	Handle ConnHandle
	Data   []byte
}

// Transport hides connection establishment, reliable/unreliable
// delivery and disconnect detection from the game loop. Implementations
// must deliver events for one connection in the order they occurred.
//
// Send is best-effort and never blocks the game loop: delivery failures
// are the transport's problem to log and to surface later as a
// disconnect event.
type Transport interface {
	// Start begins accepting connections. Fatal on failure; this is
	// the only error that may abort boot.
	Start() error

	// Poll returns the next pending event without blocking.
	// ok is false when no events remain this tick.
	Poll() (ev Event, ok bool)

	// Send queues data to one connection on the given channel
	// (ChannelReliable or ChannelUnreliable from the packet package).
	Send(handle ConnHandle, data []byte, channel uint8)

	// Close forcibly tears down one connection. A disconnect event may
	// still surface for the handle afterwards; callers that have
	// already removed their session simply ignore it.
	Close(handle ConnHandle) error

	// Flush pushes all queued outgoing data toward the peers.
	Flush()

	// Stop shuts the transport down and drops all connections.
	Stop()
}
