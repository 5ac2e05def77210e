package world

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Boshugege/Neural-Wings-server/internal/core/event"
	"github.com/Boshugege/Neural-Wings-server/internal/net"
	"github.com/Boshugege/Neural-Wings-server/internal/net/packet"
)

func newTestState() (*State, *net.MemTransport, *event.Bus) {
	tr := net.NewMemTransport()
	bus := event.NewBus()
	return NewState(zap.NewNop(), bus, tr), tr, bus
}

// welcomePlayer promotes a fresh connection past the handshake the way
// the hello handler would.
func welcomePlayer(s *State, handle net.ConnHandle) *Player {
	p := s.OnConnect(handle)
	p.Session.SetState(packet.StateInWorld)
	s.ClaimNickname(p, DefaultNickname(p.ID()))
	return p
}

func TestOnConnectAssignsSequentialIDs(t *testing.T) {
	s, _, _ := newTestState()

	p1 := s.OnConnect(10)
	p2 := s.OnConnect(11)

	require.Equal(t, uint32(1), p1.ID())
	require.Equal(t, uint32(2), p2.ID())
	require.Equal(t, 2, s.PlayerCount())
	require.Same(t, p1, s.GetByConn(10))
	require.Same(t, p2, s.Get(2))
	require.False(t, p1.Welcomed())
}

func TestNicknameChangeRules(t *testing.T) {
	s, _, _ := newTestState()
	p1 := welcomePlayer(s, 10)
	p2 := welcomePlayer(s, 11)

	status, changed := s.RequestNicknameChange(p1, "Ace", 3, 16)
	require.Equal(t, packet.NicknameAccepted, status)
	require.True(t, changed)
	require.Equal(t, "Ace", p1.Nickname)
	require.Same(t, p1, s.GetByNickname("ACE"))

	// Resubmitting the current name (any casing) is a no-op accept.
	status, changed = s.RequestNicknameChange(p1, "aCe", 3, 16)
	require.Equal(t, packet.NicknameAccepted, status)
	require.False(t, changed)
	require.Equal(t, "Ace", p1.Nickname)

	// Conflicts are case-insensitive and leave state untouched.
	status, changed = s.RequestNicknameChange(p2, "ace", 3, 16)
	require.Equal(t, packet.NicknameConflict, status)
	require.False(t, changed)
	require.Equal(t, DefaultNickname(p2.ID()), p2.DisplayName())

	status, changed = s.RequestNicknameChange(p2, "no spaces!", 3, 16)
	require.Equal(t, packet.NicknameInvalid, status)
	require.False(t, changed)

	// A rename frees the old name for others.
	_, _ = s.RequestNicknameChange(p1, "Bee", 3, 16)
	status, changed = s.RequestNicknameChange(p2, "ace", 3, 16)
	require.Equal(t, packet.NicknameAccepted, status)
	require.True(t, changed)
}

func TestRebindMovesIndexes(t *testing.T) {
	s, _, _ := newTestState()
	p := s.OnConnect(10)
	require.Equal(t, uint32(1), p.ID())

	// Simulate a returning identity that previously held id 7.
	s.Rebind(p, 7)

	require.Equal(t, uint32(7), p.ID())
	require.Nil(t, s.Get(1))
	require.Same(t, p, s.Get(7))
	require.Same(t, p, s.GetByConn(10))
}

func TestObjectReleaseOwnershipGate(t *testing.T) {
	s, _, _ := newTestState()
	p1 := welcomePlayer(s, 10)
	p2 := welcomePlayer(s, 11)

	s.ApplyPositionUpdate(p1.ID(), 100, packet.Transform{X: 1})
	require.True(t, p1.HasTransform)
	require.Equal(t, uint32(100), p1.ObjectID)

	// Releasing an object the player does not own is ignored.
	s.ApplyObjectRelease(p1.ID(), 999)
	require.Equal(t, uint32(100), p1.ObjectID)
	require.Empty(t, p2.Session.PendingOutput())

	s.ApplyObjectRelease(p1.ID(), 100)
	require.Equal(t, packet.InvalidObjectID, p1.ObjectID)
	require.False(t, p1.HasTransform)

	// Everyone else welcomed hears the despawn; the releaser does not.
	out := p2.Session.PendingOutput()
	require.Len(t, out, 1)
	m, ok := packet.ReadObjectDespawn(packet.NewReader(out[0].Data[packet.HeaderLen:]))
	require.True(t, ok)
	require.Equal(t, p1.ID(), m.OwnerID)
	require.Equal(t, uint32(100), m.ObjectID)
	require.Empty(t, p1.Session.PendingOutput())
}

func TestRemoveKeepsDurableIdentity(t *testing.T) {
	s, _, bus := newTestState()

	var left []event.PlayerLeft
	bus.Subscribe(func(ev any) {
		if e, ok := ev.(event.PlayerLeft); ok {
			left = append(left, e)
		}
	})

	p := welcomePlayer(s, 10)
	id := p.ID()
	u := uuid.New()
	p.UUID = u
	s.BindUUID(u, id)
	_, _ = s.RequestNicknameChange(p, "ace", 3, 16)

	s.Remove(id, "disconnected", false)

	require.Equal(t, 0, s.PlayerCount())
	require.Nil(t, s.GetByConn(10))
	require.Nil(t, s.GetByNickname("ace"))

	// The UUID index survives with the last id and nickname.
	oldID, nick, ok := s.LookupUUID(u)
	require.True(t, ok)
	require.Equal(t, id, oldID)
	require.Equal(t, "ace", nick)

	bus.SwapBuffers()
	bus.DispatchAll()
	require.Len(t, left, 1)
	require.Equal(t, id, left[0].ClientID)
	require.Equal(t, "disconnected", left[0].Reason)
}

func TestRemoveDespawnFanOutAndForcedClose(t *testing.T) {
	s, tr, _ := newTestState()
	p1 := welcomePlayer(s, 10)
	p2 := welcomePlayer(s, 11)
	s.ApplyPositionUpdate(p1.ID(), 100, packet.Transform{})

	s.Remove(p1.ID(), "timed out", true)

	out := p2.Session.PendingOutput()
	require.Len(t, out, 1)
	m, ok := packet.ReadObjectDespawn(packet.NewReader(out[0].Data[packet.HeaderLen:]))
	require.True(t, ok)
	require.Equal(t, uint32(100), m.ObjectID)

	require.Equal(t, []net.ConnHandle{10}, tr.ClosedHandles)
}

func TestOnDisconnectUnknownHandleIgnored(t *testing.T) {
	s, _, _ := newTestState()
	s.OnDisconnect(99) // must not panic
	require.Equal(t, 0, s.PlayerCount())
}

func TestTouchRefreshesLiveness(t *testing.T) {
	s, _, _ := newTestState()
	p := welcomePlayer(s, 10)
	p.LastSeen = time.Now().Add(-time.Hour)

	s.Touch(p.ID())
	require.WithinDuration(t, time.Now(), p.LastSeen, time.Second)

	s.Touch(12345) // unknown id is a no-op
}

func TestClearDropsEverything(t *testing.T) {
	s, _, _ := newTestState()
	p := welcomePlayer(s, 10)
	u := uuid.New()
	p.UUID = u
	s.BindUUID(u, p.ID())

	s.Clear()

	require.Equal(t, 0, s.PlayerCount())
	_, _, ok := s.LookupUUID(u)
	require.False(t, ok)
}
