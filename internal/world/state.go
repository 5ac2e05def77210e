package world

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Boshugege/Neural-Wings-server/internal/core/event"
	"github.com/Boshugege/Neural-Wings-server/internal/net"
	"github.com/Boshugege/Neural-Wings-server/internal/net/packet"
)

// identityRecord is what survives a disconnect: the id a durable UUID
// reconciles to and the last nickname the player held, so a returning
// player gets both back.
type identityRecord struct {
	ID       uint32
	Nickname string
}

// State owns every session map: id → player, connection handle → id,
// durable UUID → identity, normalized nickname → id. All mutation goes
// through State methods so the uniqueness invariants are enforced at
// one choke point per map.
// Accessed only from the game loop goroutine — no mutex needed.
type State struct {
	log *zap.Logger
	bus *event.Bus
	tr  net.Transport

	players   map[uint32]*Player
	connIndex map[net.ConnHandle]uint32
	uuidIndex map[uuid.UUID]identityRecord
	nickIndex map[string]uint32

	nextID uint32 // 0 is reserved for the system sender
}

func NewState(log *zap.Logger, bus *event.Bus, tr net.Transport) *State {
	return &State{
		log:       log.Named("world"),
		bus:       bus,
		tr:        tr,
		players:   make(map[uint32]*Player),
		connIndex: make(map[net.ConnHandle]uint32),
		uuidIndex: make(map[uuid.UUID]identityRecord),
		nickIndex: make(map[string]uint32),
	}
}

// OnConnect creates an unwelcomed player under a fresh id for a new
// transport connection. No nickname or UUID indexing happens until the
// hello handshake.
func (s *State) OnConnect(handle net.ConnHandle) *Player {
	s.nextID++
	id := s.nextID

	p := &Player{
		Session:  net.NewSession(id, handle, s.tr),
		ChatMode: PublicMode(),
		LastSeen: time.Now(),
	}
	s.players[id] = p
	s.connIndex[handle] = id

	s.log.Info("peer connected, awaiting hello",
		zap.Uint32("id", id), zap.Uint32("handle", uint32(handle)))
	return p
}

// OnDisconnect tears down whatever session the transport handle maps
// to. Unknown handles are ignored; a forced close may race the
// transport's own disconnect event.
func (s *State) OnDisconnect(handle net.ConnHandle) {
	id, ok := s.connIndex[handle]
	if !ok {
		return
	}
	s.Remove(id, "disconnected", false)
}

// Get returns the player for an id, or nil.
func (s *State) Get(id uint32) *Player { return s.players[id] }

// GetByConn returns the player bound to a transport handle, or nil.
func (s *State) GetByConn(handle net.ConnHandle) *Player {
	id, ok := s.connIndex[handle]
	if !ok {
		return nil
	}
	return s.players[id]
}

// GetByNickname resolves a display name through the nickname index.
func (s *State) GetByNickname(name string) *Player {
	id, ok := s.nickIndex[NormalizeNickname(name)]
	if !ok {
		return nil
	}
	return s.players[id]
}

func (s *State) PlayerCount() int { return len(s.players) }

// ForEach iterates all players. Iteration order is unspecified. Safe
// to call Remove during iteration.
func (s *State) ForEach(fn func(*Player)) {
	for _, p := range s.players {
		fn(p)
	}
}

// Touch refreshes liveness. Any well-formed packet from a known
// connection counts; dead connections are rare and the cost of an
// extra refresh is zero.
func (s *State) Touch(id uint32) {
	if p := s.players[id]; p != nil {
		p.LastSeen = time.Now()
	}
}

// --- Durable identity index -----------------------------------------

// LookupUUID returns the identity a UUID reconciled to before, if any.
func (s *State) LookupUUID(u uuid.UUID) (id uint32, nickname string, ok bool) {
	rec, ok := s.uuidIndex[u]
	return rec.ID, rec.Nickname, ok
}

// BindUUID records a first-seen UUID against the player's current id.
func (s *State) BindUUID(u uuid.UUID, id uint32) {
	s.uuidIndex[u] = identityRecord{ID: id}
}

// Rebind migrates a player from its temporary id to the id its durable
// UUID reconciled to. The only place a player's id ever changes.
func (s *State) Rebind(p *Player, oldID uint32) {
	tempID := p.ID()
	delete(s.players, tempID)
	p.Session.ID = oldID
	s.players[oldID] = p
	s.connIndex[p.Session.Handle] = oldID
}

// --- Nickname directory ---------------------------------------------

// ClaimNickname sets the display name and indexes its normalized form.
// Callers must have resolved conflicts first; RequestNicknameChange is
// the checked path.
func (s *State) ClaimNickname(p *Player, display string) {
	if p.Nickname != "" {
		delete(s.nickIndex, NormalizeNickname(p.Nickname))
	}
	p.Nickname = display
	s.nickIndex[NormalizeNickname(display)] = p.ID()
}

// NicknameTaken reports whether the normalized name is indexed to a
// different online player.
func (s *State) NicknameTaken(name string, self uint32) bool {
	id, ok := s.nickIndex[NormalizeNickname(name)]
	return ok && id != self
}

// RequestNicknameChange validates and applies a rename. Resubmitting
// the current name is accepted without mutation; invalid names and
// conflicts leave state untouched.
func (s *State) RequestNicknameChange(p *Player, requested string, minLen, maxLen int) (packet.NicknameStatus, bool) {
	if NormalizeNickname(requested) == NormalizeNickname(p.DisplayName()) {
		return packet.NicknameAccepted, false
	}
	if !IsValidNickname(requested, minLen, maxLen) {
		return packet.NicknameInvalid, false
	}
	if s.NicknameTaken(requested, p.ID()) {
		return packet.NicknameConflict, false
	}
	s.ClaimNickname(p, requested)
	return packet.NicknameAccepted, true
}

// --- Gameplay state -------------------------------------------------

// ApplyPositionUpdate records ownership and the latest pose for the
// player's object. No-op for unknown sessions.
func (s *State) ApplyPositionUpdate(id, objectID uint32, t packet.Transform) {
	p := s.players[id]
	if p == nil {
		return
	}
	p.ObjectID = objectID
	p.LastTransform = t
	p.HasTransform = true
	p.LastSeen = time.Now()
}

// ApplyObjectRelease clears ownership only when the player
// actually owns the object, and notifies every other welcomed player
// of the despawn. Release requests for objects the sender does not own
// are silently ignored.
func (s *State) ApplyObjectRelease(id, objectID uint32) {
	p := s.players[id]
	if p == nil {
		return
	}
	if p.ObjectID != objectID || objectID == packet.InvalidObjectID {
		return
	}

	despawn := packet.WriteObjectDespawn(id, objectID)
	for _, other := range s.players {
		if !other.Welcomed() || other.ID() == id {
			continue
		}
		other.Session.Send(despawn)
	}

	p.ObjectID = packet.InvalidObjectID
	p.LastTransform = packet.Transform{}
	p.HasTransform = false
	p.LastSeen = time.Now()

	s.log.Info("object released", zap.Uint32("id", id), zap.Uint32("object", objectID))
}

// --- Teardown -------------------------------------------------------

// Remove tears down one session: despawn fan-out for an owned object,
// nickname index release, durable-identity snapshot, optional forced
// transport close. The UUID index entry survives so the player can
// return.
func (s *State) Remove(id uint32, reason string, closeTransport bool) {
	p := s.players[id]
	if p == nil {
		return
	}

	if p.Welcomed() && p.ObjectID != packet.InvalidObjectID {
		despawn := packet.WriteObjectDespawn(id, p.ObjectID)
		for _, other := range s.players {
			if !other.Welcomed() || other.ID() == id {
				continue
			}
			other.Session.Send(despawn)
		}
	}

	if p.Nickname != "" {
		delete(s.nickIndex, NormalizeNickname(p.Nickname))
	}

	// Keep the UUID mapping alive so returning players are recognised,
	// and remember the nickname they left with.
	if p.UUID != uuid.Nil {
		s.uuidIndex[p.UUID] = identityRecord{ID: id, Nickname: p.Nickname}
	}

	if closeTransport {
		if err := p.Session.CloseTransport(); err != nil {
			s.log.Error("transport close failed",
				zap.Uint32("id", id), zap.Error(err))
		}
	}

	delete(s.players, id)
	delete(s.connIndex, p.Session.Handle)

	s.bus.Emit(event.PlayerLeft{ClientID: id, Reason: reason})
	s.log.Info("client removed", zap.Uint32("id", id), zap.String("reason", reason))
}

// Clear discards all session and index state immediately. In-flight
// messages are not drained.
func (s *State) Clear() {
	s.players = make(map[uint32]*Player)
	s.connIndex = make(map[net.ConnHandle]uint32)
	s.uuidIndex = make(map[uuid.UUID]identityRecord)
	s.nickIndex = make(map[string]uint32)
}
