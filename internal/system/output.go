package system

import (
	"time"

	coresys "github.com/Boshugege/Neural-Wings-server/internal/core/system"
	"github.com/Boshugege/Neural-Wings-server/internal/net"
	"github.com/Boshugege/Neural-Wings-server/internal/world"
)

// OutputSystem drains every session's buffered packets into the
// transport and asks the transport to flush. Phase 3 (Output) runs
// after all game logic so network I/O happens at a single predictable
// point and multiple packets per tick coalesce.
type OutputSystem struct {
	state *world.State
	tr    net.Transport
}

func NewOutputSystem(state *world.State, tr net.Transport) *OutputSystem {
	return &OutputSystem{state: state, tr: tr}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *OutputSystem) Update(_ time.Duration) {
	s.state.ForEach(func(p *world.Player) {
		p.Session.FlushOutput()
	})
	s.tr.Flush()
}
