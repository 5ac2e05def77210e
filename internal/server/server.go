// Package server owns the tick loop: drain transport events, run the
// phased systems, flush output.
package server

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Boshugege/Neural-Wings-server/internal/config"
	"github.com/Boshugege/Neural-Wings-server/internal/core/event"
	coresys "github.com/Boshugege/Neural-Wings-server/internal/core/system"
	"github.com/Boshugege/Neural-Wings-server/internal/handler"
	"github.com/Boshugege/Neural-Wings-server/internal/net"
	"github.com/Boshugege/Neural-Wings-server/internal/net/packet"
	"github.com/Boshugege/Neural-Wings-server/internal/system"
	"github.com/Boshugege/Neural-Wings-server/internal/world"
)

// Server is the single logical actor owning all session state. Every
// mutation happens inside Tick's synchronous window, so none of the
// maps below need locks.
type Server struct {
	cfg   *config.Config
	log   *zap.Logger
	tr    net.Transport
	bus   *event.Bus
	state *world.State
	reg   *packet.Registry
	sched *coresys.Scheduler

	running bool
}

func New(cfg *config.Config, log *zap.Logger, tr net.Transport) *Server {
	bus := event.NewBus()
	state := world.NewState(log, bus, tr)

	reg := packet.NewRegistry()
	handler.RegisterAll(reg, &handler.Deps{
		Config: cfg,
		Log:    log,
		World:  state,
		Bus:    bus,
	})

	sched := coresys.NewScheduler()
	sched.Register(system.NewEventDispatchSystem(bus))
	sched.Register(system.NewTimeoutSystem(state, cfg.Session.IdleTimeout.Std()))
	sched.Register(system.NewPresenceSystem(log, state, bus))
	sched.Register(system.NewBroadcastSystem(state))
	sched.Register(system.NewOutputSystem(state, tr))

	return &Server{
		cfg:   cfg,
		log:   log.Named("server"),
		tr:    tr,
		bus:   bus,
		state: state,
		reg:   reg,
		sched: sched,
	}
}

// State exposes the world state for tests and admin surfaces.
func (s *Server) State() *world.State { return s.state }

// Start brings the transport up. The only fatal failure in the whole
// server lives here.
func (s *Server) Start() error {
	if err := s.tr.Start(); err != nil {
		return err
	}
	s.running = true
	s.log.Info("started",
		zap.String("name", s.cfg.Server.Name),
		zap.Duration("idle_timeout", s.cfg.Session.IdleTimeout.Std()))
	return nil
}

func (s *Server) Running() bool { return s.running }

// Tick runs one full cycle: drain pending transport events in arrival
// order, then run the phased systems (event dispatch, reaping,
// broadcast, output flush).
func (s *Server) Tick(dt time.Duration) {
	if !s.running {
		return
	}

	for {
		ev, ok := s.tr.Poll()
		if !ok {
			break
		}
		s.handleEvent(ev)
	}

	s.sched.Tick(dt)
}

func (s *Server) handleEvent(ev net.Event) {
	switch ev.Type {
	case net.EventConnect:
		s.state.OnConnect(ev.Handle)
	case net.EventDisconnect:
		s.state.OnDisconnect(ev.Handle)
	case net.EventMessage:
		s.handleMessage(ev.Handle, ev.Data)
	}
}

func (s *Server) handleMessage(handle net.ConnHandle, data []byte) {
	t, ok := packet.PeekType(data)
	if !ok {
		s.log.Debug("undersized packet dropped", zap.Uint32("handle", uint32(handle)))
		return
	}

	p := s.state.GetByConn(handle)
	if p == nil {
		// Message raced its own disconnect; the transport already won.
		return
	}

	// Any well-formed packet from a known connection counts as
	// keep-alive.
	s.state.Touch(p.ID())

	r := packet.NewReader(data[packet.HeaderLen:])
	switch s.reg.Dispatch(t, p.Session.State(), p.Session, r) {
	case packet.UnknownType:
		s.log.Debug("unknown message type",
			zap.Uint8("type", uint8(t)), zap.Uint32("id", p.ID()))
	case packet.WrongState:
		s.log.Debug("message dropped: not allowed in session state",
			zap.Uint8("type", uint8(t)), zap.Uint32("id", p.ID()))
	}
}

// Run drives Tick at the configured cadence until the context is
// cancelled. A tick that overruns its budget just makes the next one
// late; nothing is dropped.
func (s *Server) Run(ctx context.Context) {
	interval := s.cfg.Network.TickRate.Std()
	s.log.Info("running", zap.Duration("tick_rate", interval))

	last := time.Now()
	for s.running {
		select {
		case <-ctx.Done():
			s.Stop()
			return
		default:
		}

		tickStart := time.Now()
		s.Tick(tickStart.Sub(last))
		last = tickStart

		if elapsed := time.Since(tickStart); elapsed < interval {
			time.Sleep(interval - elapsed)
		}
	}
}

// Stop discards all session state immediately and shuts the transport
// down. In-flight messages are not drained.
func (s *Server) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.tr.Stop()
	s.state.Clear()
	s.log.Info("stopped")
}
