// Package system defines the phased tick pipeline. Each tick runs every
// registered System in phase order; within a phase, registration order.
package system

import "time"

// Phase orders systems within a tick.
type Phase int

const (
	PhasePreUpdate  Phase = iota // event dispatch
	PhaseUpdate                  // session reaping, liveness
	PhasePostUpdate              // state broadcast
	PhaseOutput                  // flush buffered output to the transport
)

// System is one unit of per-tick work.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Scheduler runs systems grouped by phase.
type Scheduler struct {
	phases [PhaseOutput + 1][]System
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Register(sys System) {
	p := sys.Phase()
	s.phases[p] = append(s.phases[p], sys)
}

// Tick runs all systems in phase order.
func (s *Scheduler) Tick(dt time.Duration) {
	for _, phase := range s.phases {
		for _, sys := range phase {
			sys.Update(dt)
		}
	}
}
