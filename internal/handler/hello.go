package handler

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Boshugege/Neural-Wings-server/internal/core/event"
	"github.com/Boshugege/Neural-Wings-server/internal/net"
	"github.com/Boshugege/Neural-Wings-server/internal/net/packet"
	"github.com/Boshugege/Neural-Wings-server/internal/world"
)

// HandleHello runs the identity handshake once per connection.
//
// A hello without a UUID welcomes the session under its temporary id.
// A first-seen UUID is bound to the current id. A UUID already online
// under another connection is rejected and the new connection closed;
// the established session stays authoritative. A UUID seen before but
// offline migrates this connection onto its old id and restores its
// nickname.
func HandleHello(sess *net.Session, r *packet.Reader, deps *Deps) {
	p := deps.World.Get(sess.ID)
	if p == nil || p.Welcomed() {
		// Replayed hello on a welcomed session: idempotent no-op.
		return
	}

	hello, ok := packet.ReadClientHello(r)
	if !ok {
		deps.Log.Debug("malformed hello", zap.Uint32("id", sess.ID))
		return
	}

	if hello.UUID == uuid.Nil {
		welcome(deps, p, world.DefaultNickname(p.ID()), false)
		return
	}

	oldID, savedNick, seen := deps.World.LookupUUID(hello.UUID)
	if !seen {
		p.UUID = hello.UUID
		deps.World.BindUUID(hello.UUID, sess.ID)
		deps.Log.Info("new player UUID registered", zap.Uint32("id", sess.ID))
		welcome(deps, p, world.DefaultNickname(p.ID()), false)
		return
	}

	if oldID != sess.ID {
		// The same UUID already online on a different connection means
		// a second simultaneous login. Reject the later one.
		if existing := deps.World.Get(oldID); existing != nil &&
			existing.Session.Handle != sess.Handle {
			deps.Log.Warn("duplicate UUID blocked, keeping online client",
				zap.Uint32("online_id", oldID), zap.Uint32("rejected_id", sess.ID))
			deps.World.Remove(sess.ID, "duplicate UUID", true)
			return
		}
		deps.World.Rebind(p, oldID)
	}
	p.UUID = hello.UUID

	nick := savedNick
	if nick == "" || deps.World.NicknameTaken(nick, p.ID()) {
		nick = world.DefaultNickname(p.ID())
	}
	deps.Log.Info("returning player UUID recognised",
		zap.Uint32("id", p.ID()), zap.String("nickname", nick))
	welcome(deps, p, nick, true)
}

// welcome promotes the session and replies with the assigned id and
// the effective nickname. Terminal state for the handshake.
func welcome(deps *Deps, p *world.Player, nickname string, returning bool) {
	p.Session.SetState(packet.StateInWorld)
	deps.World.ClaimNickname(p, nickname)
	deps.World.Touch(p.ID())

	p.Session.Send(packet.WriteServerWelcome(p.ID()))
	p.Session.Send(packet.WriteNicknameUpdateResult(packet.NicknameAccepted, p.Nickname))

	deps.Bus.Emit(event.PlayerJoined{
		ClientID:  p.ID(),
		UUID:      p.UUID,
		Nickname:  p.Nickname,
		Returning: returning,
	})
	deps.Log.Info("client welcomed",
		zap.Uint32("id", p.ID()), zap.Bool("returning", returning))
}
