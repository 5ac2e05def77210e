package packet

import "github.com/google/uuid"

// Typed decode for client → server packets and encode for server →
// client packets. The byte layout is owned entirely by this package.

// ClientHello opens the identity handshake. A zero UUID means the
// client requests no persistent identity.
type ClientHello struct {
	UUID uuid.UUID
}

func ReadClientHello(r *Reader) (ClientHello, bool) {
	var m ClientHello
	copy(m.UUID[:], r.ReadBytes(16))
	return m, r.OK()
}

// WriteClientHello exists for clients and tests.
func WriteClientHello(id uuid.UUID) []byte {
	w := NewWriter(MsgClientHello)
	w.WriteBytes(id[:])
	return w.Bytes()
}

type PositionUpdate struct {
	ObjectID  uint32
	Transform Transform
}

func ReadPositionUpdate(r *Reader) (PositionUpdate, bool) {
	var m PositionUpdate
	m.ObjectID = r.ReadD()
	m.Transform = readTransform(r)
	return m, r.OK()
}

func WritePositionUpdate(objectID uint32, t Transform) []byte {
	w := NewWriter(MsgPositionUpdate)
	w.WriteD(objectID)
	writeTransform(w, t)
	return w.Bytes()
}

type ObjectRelease struct {
	ObjectID uint32
}

func ReadObjectRelease(r *Reader) (ObjectRelease, bool) {
	var m ObjectRelease
	m.ObjectID = r.ReadD()
	return m, r.OK()
}

func WriteObjectRelease(objectID uint32) []byte {
	w := NewWriter(MsgObjectRelease)
	w.WriteD(objectID)
	return w.Bytes()
}

type Heartbeat struct {
	ClientID uint32
}

func ReadHeartbeat(r *Reader) (Heartbeat, bool) {
	var m Heartbeat
	m.ClientID = r.ReadD()
	return m, r.OK()
}

func WriteHeartbeat(clientID uint32) []byte {
	w := NewWriter(MsgHeartbeat)
	w.WriteD(clientID)
	return w.Bytes()
}

func WriteClientDisconnect() []byte {
	return NewWriter(MsgClientDisconnect).Bytes()
}

type ChatRequest struct {
	ChatType ChatType
	Text     string
}

func ReadChatRequest(r *Reader) (ChatRequest, bool) {
	var m ChatRequest
	m.ChatType = ChatType(r.ReadC())
	m.Text = r.ReadS()
	return m, r.OK()
}

func WriteChatRequest(t ChatType, text string) []byte {
	w := NewWriter(MsgChatRequest)
	w.WriteC(uint8(t))
	w.WriteS(text)
	return w.Bytes()
}

type NicknameUpdateRequest struct {
	Nickname string
}

func ReadNicknameUpdateRequest(r *Reader) (NicknameUpdateRequest, bool) {
	var m NicknameUpdateRequest
	m.Nickname = r.ReadS()
	return m, r.OK()
}

func WriteNicknameUpdateRequest(nickname string) []byte {
	w := NewWriter(MsgNicknameUpdateRequest)
	w.WriteS(nickname)
	return w.Bytes()
}

// WriteServerWelcome acknowledges the handshake with the assigned id.
func WriteServerWelcome(clientID uint32) []byte {
	w := NewWriter(MsgServerWelcome)
	w.WriteD(clientID)
	return w.Bytes()
}

func WriteNicknameUpdateResult(status NicknameStatus, nickname string) []byte {
	w := NewWriter(MsgNicknameUpdateResult)
	w.WriteC(uint8(status))
	w.WriteS(nickname)
	return w.Bytes()
}

func WriteObjectDespawn(ownerID, objectID uint32) []byte {
	w := NewWriter(MsgObjectDespawn)
	w.WriteD(ownerID)
	w.WriteD(objectID)
	return w.Bytes()
}

func WriteChatBroadcast(t ChatType, senderID uint32, senderName, text string) []byte {
	w := NewWriter(MsgChatBroadcast)
	w.WriteC(uint8(t))
	w.WriteD(senderID)
	w.WriteS(senderName)
	w.WriteS(text)
	return w.Bytes()
}

// BroadcastEntry is one session's contribution to a position broadcast.
type BroadcastEntry struct {
	ClientID  uint32
	ObjectID  uint32
	Transform Transform
}

func WritePositionBroadcast(entries []BroadcastEntry, tick uint32) []byte {
	w := NewWriter(MsgPositionBroadcast)
	w.WriteD(tick)
	w.WriteH(uint16(len(entries)))
	for _, e := range entries {
		w.WriteD(e.ClientID)
		w.WriteD(e.ObjectID)
		writeTransform(w, e.Transform)
	}
	return w.Bytes()
}

// ServerWelcome / NicknameUpdateResult / ObjectDespawn / ChatBroadcast /
// PositionBroadcast decoders exist for clients and tests.

type ServerWelcome struct {
	ClientID uint32
}

func ReadServerWelcome(r *Reader) (ServerWelcome, bool) {
	var m ServerWelcome
	m.ClientID = r.ReadD()
	return m, r.OK()
}

type NicknameUpdateResult struct {
	Status   NicknameStatus
	Nickname string
}

func ReadNicknameUpdateResult(r *Reader) (NicknameUpdateResult, bool) {
	var m NicknameUpdateResult
	m.Status = NicknameStatus(r.ReadC())
	m.Nickname = r.ReadS()
	return m, r.OK()
}

type ObjectDespawn struct {
	OwnerID  uint32
	ObjectID uint32
}

func ReadObjectDespawn(r *Reader) (ObjectDespawn, bool) {
	var m ObjectDespawn
	m.OwnerID = r.ReadD()
	m.ObjectID = r.ReadD()
	return m, r.OK()
}

type ChatBroadcast struct {
	ChatType   ChatType
	SenderID   uint32
	SenderName string
	Text       string
}

func ReadChatBroadcast(r *Reader) (ChatBroadcast, bool) {
	var m ChatBroadcast
	m.ChatType = ChatType(r.ReadC())
	m.SenderID = r.ReadD()
	m.SenderName = r.ReadS()
	m.Text = r.ReadS()
	return m, r.OK()
}

type PositionBroadcast struct {
	Tick    uint32
	Entries []BroadcastEntry
}

func ReadPositionBroadcast(r *Reader) (PositionBroadcast, bool) {
	var m PositionBroadcast
	m.Tick = r.ReadD()
	n := int(r.ReadH())
	for i := 0; i < n && r.OK(); i++ {
		var e BroadcastEntry
		e.ClientID = r.ReadD()
		e.ObjectID = r.ReadD()
		e.Transform = readTransform(r)
		m.Entries = append(m.Entries, e)
	}
	return m, r.OK()
}
