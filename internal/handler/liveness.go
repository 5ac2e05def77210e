package handler

import (
	"go.uber.org/zap"

	"github.com/Boshugege/Neural-Wings-server/internal/net"
	"github.com/Boshugege/Neural-Wings-server/internal/net/packet"
)

// HandleHeartbeat refreshes liveness. The payload's claimed id must
// match the connection's actual id; a mismatch is logged and ignored
// rather than trusted.
func HandleHeartbeat(sess *net.Session, r *packet.Reader, deps *Deps) {
	msg, ok := packet.ReadHeartbeat(r)
	if !ok {
		deps.Log.Debug("malformed heartbeat", zap.Uint32("id", sess.ID))
		return
	}
	if msg.ClientID != packet.InvalidClientID && msg.ClientID != sess.ID {
		deps.Log.Warn("heartbeat client id mismatch",
			zap.Uint32("conn_id", sess.ID), zap.Uint32("claimed_id", msg.ClientID))
		return
	}
	deps.World.Touch(sess.ID)
}

// HandleQuit is an explicit logout: tear the session down and force
// the transport closed so its bookkeeping stays consistent.
func HandleQuit(sess *net.Session, _ *packet.Reader, deps *Deps) {
	deps.World.Remove(sess.ID, "requested disconnect", true)
}
