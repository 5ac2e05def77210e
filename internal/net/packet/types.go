package packet

// MsgType is the one-byte kind tag at the start of every packet.
type MsgType uint8

// Client → server.
const (
	MsgClientHello           MsgType = 1
	MsgPositionUpdate        MsgType = 2
	MsgObjectRelease         MsgType = 3
	MsgHeartbeat             MsgType = 4
	MsgClientDisconnect      MsgType = 5
	MsgChatRequest           MsgType = 6
	MsgNicknameUpdateRequest MsgType = 7
)

// Server → client.
const (
	MsgServerWelcome        MsgType = 10
	MsgNicknameUpdateResult MsgType = 11
	MsgObjectDespawn        MsgType = 12
	MsgChatBroadcast        MsgType = 13
	MsgPositionBroadcast    MsgType = 14
)

// HeaderLen is the minimum packet size; anything shorter is dropped.
const HeaderLen = 1

// ChatType tags chat traffic in both directions.
type ChatType uint8

const (
	ChatPublic  ChatType = 0
	ChatWhisper ChatType = 1
	ChatSystem  ChatType = 2
)

// NicknameStatus is the result of a nickname update request.
type NicknameStatus uint8

const (
	NicknameAccepted NicknameStatus = 0
	NicknameInvalid  NicknameStatus = 1
	NicknameConflict NicknameStatus = 2
)

// Channel selects transport delivery semantics.
const (
	ChannelReliable   uint8 = 0
	ChannelUnreliable uint8 = 1
)

// InvalidClientID doubles as the reserved system sender id.
const (
	InvalidClientID uint32 = 0
	InvalidObjectID uint32 = 0
)

// SessionState gates which packets a connection may send.
type SessionState int

const (
	// StateHandshake: connected, hello not yet processed. Only hello,
	// heartbeat and disconnect are accepted.
	StateHandshake SessionState = iota
	// StateInWorld: welcomed, full message set accepted.
	StateInWorld
)

// Transform is the pose reported for an owned object. Sent verbatim;
// the server never interpolates or extrapolates.
type Transform struct {
	X, Y, Z        float32
	QX, QY, QZ, QW float32
}
