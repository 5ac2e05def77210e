package world

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Boshugege/Neural-Wings-server/internal/net"
	"github.com/Boshugege/Neural-Wings-server/internal/net/packet"
)

// ChatModeKind discriminates the per-player conversational mode.
type ChatModeKind uint8

const (
	ModePublic ChatModeKind = iota
	ModeWhisper
)

// ChatMode is the per-player chat state machine value. Transitions go
// through the named constructors below and are assigned wholesale, so
// each transition is independently testable.
type ChatMode struct {
	Kind       ChatModeKind
	TargetID   uint32 // whisper target client id
	TargetName string // target display name at the time of /w
}

// PublicMode is the mode every player starts in.
func PublicMode() ChatMode {
	return ChatMode{Kind: ModePublic}
}

// WhisperMode redirects subsequent chat text to one target until
// explicitly cleared.
func WhisperMode(targetID uint32, targetName string) ChatMode {
	return ChatMode{Kind: ModeWhisper, TargetID: targetID, TargetName: targetName}
}

func (m ChatMode) IsWhisper() bool { return m.Kind == ModeWhisper }

// Player is the server-side record for one connected client: durable
// identity, owned object, chat state and liveness. Connection-level
// concerns (handle, handshake state, output buffer) live on Session.
type Player struct {
	Session *net.Session

	// UUID is the client-supplied persistent identity; uuid.Nil means
	// the session is never eligible for reconnection reuse.
	UUID uuid.UUID

	Nickname string

	// ObjectID is the at-most-one game object this player owns.
	// InvalidObjectID means none.
	ObjectID      uint32
	LastTransform packet.Transform
	HasTransform  bool

	ChatMode ChatMode

	LastSeen time.Time
	LastChat time.Time
}

// ID returns the client id. It changes at most once, when the hello
// handshake reconciles this connection to a returning identity.
func (p *Player) ID() uint32 { return p.Session.ID }

func (p *Player) Welcomed() bool { return p.Session.Welcomed() }

// DisplayName never returns empty: unset nicknames fall back to the
// canonical default.
func (p *Player) DisplayName() string {
	if p.Nickname == "" {
		return DefaultNickname(p.ID())
	}
	return p.Nickname
}

// DefaultNickname contains a space, which the validity rule rejects, so
// defaults can never collide with a client-chosen name.
func DefaultNickname(id uint32) string {
	return fmt.Sprintf("Player %d", id)
}
