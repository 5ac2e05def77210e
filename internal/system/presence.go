package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/Boshugege/Neural-Wings-server/internal/core/event"
	coresys "github.com/Boshugege/Neural-Wings-server/internal/core/system"
	"github.com/Boshugege/Neural-Wings-server/internal/world"
)

// summaryInterval is in ticks; ~10 s at the default 16 ms cadence.
const summaryInterval = 600

// PresenceSystem subscribes to session lifecycle and chat events and
// keeps running counters, logging a periodic occupancy summary.
// Phase 1 (Update), so counters are read after event dispatch.
type PresenceSystem struct {
	log   *zap.Logger
	state *world.State

	ticks      uint64
	joins      uint64
	leaves     uint64
	chatsSent  uint64
	peakOnline int
}

func NewPresenceSystem(log *zap.Logger, state *world.State, bus *event.Bus) *PresenceSystem {
	s := &PresenceSystem{log: log.Named("presence"), state: state}
	bus.Subscribe(s.onEvent)
	return s
}

func (s *PresenceSystem) onEvent(ev any) {
	switch e := ev.(type) {
	case event.PlayerJoined:
		s.joins++
		s.log.Info("player joined",
			zap.Uint32("id", e.ClientID),
			zap.String("nickname", e.Nickname),
			zap.Bool("returning", e.Returning))
	case event.PlayerLeft:
		s.leaves++
		s.log.Info("player left",
			zap.Uint32("id", e.ClientID), zap.String("reason", e.Reason))
	case event.ChatSent:
		s.chatsSent++
	}
}

func (s *PresenceSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *PresenceSystem) Update(_ time.Duration) {
	if online := s.state.PlayerCount(); online > s.peakOnline {
		s.peakOnline = online
	}

	s.ticks++
	if s.ticks%summaryInterval != 0 {
		return
	}
	s.log.Info("occupancy",
		zap.Int("online", s.state.PlayerCount()),
		zap.Int("peak", s.peakOnline),
		zap.Uint64("joins", s.joins),
		zap.Uint64("leaves", s.leaves),
		zap.Uint64("chats", s.chatsSent))
}
