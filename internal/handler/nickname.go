package handler

import (
	"go.uber.org/zap"

	"github.com/Boshugege/Neural-Wings-server/internal/net"
	"github.com/Boshugege/Neural-Wings-server/internal/net/packet"
)

// HandleNicknameUpdate processes an explicit rename request. The
// result always carries the player's effective display name, so an
// Invalid or Conflict reply tells the client what it is still called.
func HandleNicknameUpdate(sess *net.Session, r *packet.Reader, deps *Deps) {
	p := deps.World.Get(sess.ID)
	if p == nil || !p.Welcomed() {
		return
	}

	req, ok := packet.ReadNicknameUpdateRequest(r)
	if !ok {
		deps.Log.Debug("malformed nickname request", zap.Uint32("id", sess.ID))
		return
	}

	status, changed := deps.World.RequestNicknameChange(p, req.Nickname,
		deps.Config.Chat.NicknameMinLen, deps.Config.Chat.NicknameMaxLen)

	p.Session.Send(packet.WriteNicknameUpdateResult(status, p.DisplayName()))

	if changed {
		deps.Log.Info("nickname changed",
			zap.Uint32("id", p.ID()), zap.String("nickname", p.Nickname))
		sendSystemMessage(p, "Your nickname is now '"+p.Nickname+"'.")
	}
}
