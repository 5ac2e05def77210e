package system

import (
	"time"

	coresys "github.com/Boshugege/Neural-Wings-server/internal/core/system"
	"github.com/Boshugege/Neural-Wings-server/internal/net/packet"
	"github.com/Boshugege/Neural-Wings-server/internal/world"
)

// BroadcastSystem aggregates the latest pose of every welcomed player
// that has ever reported one into a single tick-tagged message and
// fans it out unreliably to every welcomed player. Phase 2
// (PostUpdate). Ticks with nothing to report send nothing.
type BroadcastSystem struct {
	state *world.State
	tick  uint32
}

func NewBroadcastSystem(state *world.State) *BroadcastSystem {
	return &BroadcastSystem{state: state}
}

func (s *BroadcastSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

// Tick returns the current tick counter.
func (s *BroadcastSystem) Tick() uint32 { return s.tick }

func (s *BroadcastSystem) Update(_ time.Duration) {
	s.tick++

	var entries []packet.BroadcastEntry
	s.state.ForEach(func(p *world.Player) {
		if !p.Welcomed() || !p.HasTransform {
			return
		}
		entries = append(entries, packet.BroadcastEntry{
			ClientID:  p.ID(),
			ObjectID:  p.ObjectID,
			Transform: p.LastTransform,
		})
	})
	if len(entries) == 0 {
		return
	}

	pkt := packet.WritePositionBroadcast(entries, s.tick)
	s.state.ForEach(func(p *world.Player) {
		if !p.Welcomed() {
			return
		}
		p.Session.SendUnreliable(pkt)
	})
}
