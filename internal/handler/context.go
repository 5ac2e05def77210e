package handler

import (
	"go.uber.org/zap"

	"github.com/Boshugege/Neural-Wings-server/internal/config"
	"github.com/Boshugege/Neural-Wings-server/internal/core/event"
	"github.com/Boshugege/Neural-Wings-server/internal/net"
	"github.com/Boshugege/Neural-Wings-server/internal/net/packet"
	"github.com/Boshugege/Neural-Wings-server/internal/world"
)

// Deps holds shared dependencies injected into all packet handlers.
type Deps struct {
	Config *config.Config
	Log    *zap.Logger
	World  *world.State
	Bus    *event.Bus
}

// RegisterAll registers all packet handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	// Handshake phase. Hello stays registered in-world so a replayed
	// hello is an explicit no-op instead of an unknown-state drop.
	reg.Register(packet.MsgClientHello,
		[]packet.SessionState{packet.StateHandshake, packet.StateInWorld},
		func(sess any, r *packet.Reader) {
			HandleHello(sess.(*net.Session), r, deps)
		},
	)

	// In-world phase
	inWorld := []packet.SessionState{packet.StateInWorld}

	reg.Register(packet.MsgPositionUpdate, inWorld,
		func(sess any, r *packet.Reader) {
			HandlePositionUpdate(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.MsgObjectRelease, inWorld,
		func(sess any, r *packet.Reader) {
			HandleObjectRelease(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.MsgChatRequest, inWorld,
		func(sess any, r *packet.Reader) {
			HandleChat(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.MsgNicknameUpdateRequest, inWorld,
		func(sess any, r *packet.Reader) {
			HandleNicknameUpdate(sess.(*net.Session), r, deps)
		},
	)

	// Always allowed (any active state)
	aliveStates := []packet.SessionState{packet.StateHandshake, packet.StateInWorld}

	reg.Register(packet.MsgHeartbeat, aliveStates,
		func(sess any, r *packet.Reader) {
			HandleHeartbeat(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.MsgClientDisconnect, aliveStates,
		func(sess any, r *packet.Reader) {
			HandleQuit(sess.(*net.Session), r, deps)
		},
	)
}
