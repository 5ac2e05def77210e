package handler

import (
	"go.uber.org/zap"

	"github.com/Boshugege/Neural-Wings-server/internal/net"
	"github.com/Boshugege/Neural-Wings-server/internal/net/packet"
)

// HandlePositionUpdate records the sender's owned object and latest
// pose. The pose is stored verbatim for the next position broadcast;
// no validation or smoothing happens server-side.
func HandlePositionUpdate(sess *net.Session, r *packet.Reader, deps *Deps) {
	msg, ok := packet.ReadPositionUpdate(r)
	if !ok {
		deps.Log.Debug("malformed position update", zap.Uint32("id", sess.ID))
		return
	}
	deps.World.ApplyPositionUpdate(sess.ID, msg.ObjectID, msg.Transform)
}

// HandleObjectRelease gives up ownership of an object. Ownership is
// checked inside the world state; releasing an object the sender does
// not own has no observable effect.
func HandleObjectRelease(sess *net.Session, r *packet.Reader, deps *Deps) {
	msg, ok := packet.ReadObjectRelease(r)
	if !ok {
		deps.Log.Debug("malformed object release", zap.Uint32("id", sess.ID))
		return
	}
	deps.World.ApplyObjectRelease(sess.ID, msg.ObjectID)
}
