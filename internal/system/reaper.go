package system

import (
	"time"

	coresys "github.com/Boshugege/Neural-Wings-server/internal/core/system"
	"github.com/Boshugege/Neural-Wings-server/internal/world"
)

// TimeoutSystem removes welcomed sessions that have gone silent longer
// than the configured idle timeout. Phase 1 (Update).
//
// Disabled when the timeout is zero; the transport's own disconnect
// detection is relied upon instead. Reaped sessions go through the
// same teardown as an explicit disconnect, including a forced
// transport close so the transport's bookkeeping stays consistent.
type TimeoutSystem struct {
	state   *world.State
	timeout time.Duration
}

func NewTimeoutSystem(state *world.State, timeout time.Duration) *TimeoutSystem {
	return &TimeoutSystem{state: state, timeout: timeout}
}

func (s *TimeoutSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *TimeoutSystem) Update(_ time.Duration) {
	if s.timeout <= 0 {
		return
	}

	now := time.Now()
	var timedOut []uint32
	s.state.ForEach(func(p *world.Player) {
		if !p.Welcomed() {
			return
		}
		if now.Sub(p.LastSeen) > s.timeout {
			timedOut = append(timedOut, p.ID())
		}
	})

	for _, id := range timedOut {
		s.state.Remove(id, "timed out", true)
	}
}
