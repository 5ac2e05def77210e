package handler

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Boshugege/Neural-Wings-server/internal/net"
	"github.com/Boshugege/Neural-Wings-server/internal/net/packet"
)

func TestHeartbeatRefreshesLiveness(t *testing.T) {
	deps, _ := newTestDeps()
	p := connectAndHello(t, deps, 10, uuid.Nil)
	p.LastSeen = time.Now().Add(-time.Hour)

	HandleHeartbeat(p.Session, bodyReader(packet.WriteHeartbeat(p.ID())), deps)

	require.WithinDuration(t, time.Now(), p.LastSeen, time.Second)
}

func TestHeartbeatIDMismatchIgnored(t *testing.T) {
	deps, _ := newTestDeps()
	p := connectAndHello(t, deps, 10, uuid.Nil)
	stale := time.Now().Add(-time.Hour)
	p.LastSeen = stale

	// A claimed id that is neither zero nor the connection's own id is
	// not trusted.
	HandleHeartbeat(p.Session, bodyReader(packet.WriteHeartbeat(p.ID()+7)), deps)

	require.True(t, p.LastSeen.Equal(stale))
}

func TestHeartbeatZeroIDAccepted(t *testing.T) {
	deps, _ := newTestDeps()
	p := connectAndHello(t, deps, 10, uuid.Nil)
	p.LastSeen = time.Now().Add(-time.Hour)

	// Clients that have not learned their id yet send zero.
	HandleHeartbeat(p.Session, bodyReader(packet.WriteHeartbeat(packet.InvalidClientID)), deps)

	require.WithinDuration(t, time.Now(), p.LastSeen, time.Second)
}

func TestQuitTearsDownAndClosesTransport(t *testing.T) {
	deps, tr := newTestDeps()
	p := connectAndHello(t, deps, 10, uuid.Nil)

	HandleQuit(p.Session, bodyReader(packet.WriteClientDisconnect()), deps)

	require.Equal(t, 0, deps.World.PlayerCount())
	require.Equal(t, []net.ConnHandle{10}, tr.ClosedHandles)
}
