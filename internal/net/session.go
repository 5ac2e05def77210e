package net

import (
	"github.com/Boshugege/Neural-Wings-server/internal/net/packet"
)

// Outgoing is one buffered server → client packet.
type Outgoing struct {
	Data    []byte
	Channel uint8
}

// Session is the connection-level object for one client. Game state
// lives in world.Player; Session only knows its id, its transport
// handle, its handshake state and its buffered output.
//
// Handlers call Send during the tick; OutputSystem drains the buffer
// into the transport once per tick so network I/O happens at a single
// predictable point. Accessed only from the game loop goroutine.
type Session struct {
	// ID is the client id. Reassigned once at most, when the hello
	// handshake reconciles the connection to a returning identity.
	ID     uint32
	Handle ConnHandle

	state packet.SessionState
	tr    Transport
	out   []Outgoing
}

func NewSession(id uint32, handle ConnHandle, tr Transport) *Session {
	return &Session{ID: id, Handle: handle, tr: tr, state: packet.StateHandshake}
}

func (s *Session) State() packet.SessionState { return s.state }

func (s *Session) SetState(st packet.SessionState) { s.state = st }

// Welcomed reports whether the hello handshake has completed.
func (s *Session) Welcomed() bool { return s.state == packet.StateInWorld }

// Send buffers a packet for reliable delivery.
func (s *Session) Send(data []byte) {
	s.out = append(s.out, Outgoing{Data: data, Channel: packet.ChannelReliable})
}

// SendUnreliable buffers a packet for unreliable delivery.
func (s *Session) SendUnreliable(data []byte) {
	s.out = append(s.out, Outgoing{Data: data, Channel: packet.ChannelUnreliable})
}

// FlushOutput drains the buffer into the transport.
func (s *Session) FlushOutput() {
	for _, o := range s.out {
		s.tr.Send(s.Handle, o.Data, o.Channel)
	}
	s.out = s.out[:0]
}

// PendingOutput exposes the unsent buffer. Test hook; production code
// only ever drains via FlushOutput.
func (s *Session) PendingOutput() []Outgoing { return s.out }

// CloseTransport asks the transport to drop the underlying connection.
func (s *Session) CloseTransport() error {
	return s.tr.Close(s.Handle)
}
