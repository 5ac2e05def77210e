package event

import "github.com/google/uuid"

// --- Session lifecycle events ---

// PlayerJoined is emitted when a session completes the hello handshake.
// Returning is true when the durable UUID reconciled to a previous identity.
type PlayerJoined struct {
	ClientID  uint32
	UUID      uuid.UUID
	Nickname  string
	Returning bool
}

// PlayerLeft is emitted when a session is torn down for any reason
// (transport disconnect, explicit quit, timeout, duplicate rejection).
type PlayerLeft struct {
	ClientID uint32
	Reason   string
}

// --- Chat events (emitted by the chat handler, readable next tick) ---

// ChatSent is emitted for every accepted chat action, commands included.
// Subscribers: PresenceSystem (traffic counters).
type ChatSent struct {
	SenderID uint32
	ChatType uint8
	Command  bool
}
