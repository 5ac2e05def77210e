package handler

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Boshugege/Neural-Wings-server/internal/net/packet"
	"github.com/Boshugege/Neural-Wings-server/internal/world"
)

func requestNickname(p *world.Player, deps *Deps, name string) {
	HandleNicknameUpdate(p.Session, bodyReader(packet.WriteNicknameUpdateRequest(name)), deps)
}

func TestNicknameUpdateAccepted(t *testing.T) {
	deps, _ := newTestDeps()
	p := connectAndHello(t, deps, 10, uuid.Nil)

	requestNickname(p, deps, "Ace_99")

	require.Equal(t, "Ace_99", p.Nickname)
	require.Same(t, p, deps.World.GetByNickname("ace_99"))

	out := p.Session.PendingOutput()
	require.Len(t, out, 2) // result + confirmation system message

	result, ok := packet.ReadNicknameUpdateResult(bodyReader(out[0].Data))
	require.True(t, ok)
	require.Equal(t, packet.NicknameAccepted, result.Status)
	require.Equal(t, "Ace_99", result.Nickname)

	m := lastChatBroadcast(t, p)
	require.Equal(t, packet.ChatSystem, m.ChatType)
	require.Equal(t, "Your nickname is now 'Ace_99'.", m.Text)
}

func TestNicknameUpdateInvalid(t *testing.T) {
	deps, _ := newTestDeps()
	p := connectAndHello(t, deps, 10, uuid.Nil)

	requestNickname(p, deps, "no spaces!")

	require.Equal(t, "Player 1", p.Nickname)

	// The rejection still tells the client what it is called.
	out := p.Session.PendingOutput()
	require.Len(t, out, 1)
	result, ok := packet.ReadNicknameUpdateResult(bodyReader(out[0].Data))
	require.True(t, ok)
	require.Equal(t, packet.NicknameInvalid, result.Status)
	require.Equal(t, "Player 1", result.Nickname)
}

func TestNicknameUpdateConflict(t *testing.T) {
	deps, _ := newTestDeps()
	first := connectAndHello(t, deps, 10, uuid.Nil)
	second := connectAndHello(t, deps, 11, uuid.Nil)

	requestNickname(first, deps, "ace")
	requestNickname(second, deps, "ACE")

	require.Equal(t, "ace", first.Nickname)
	require.Same(t, first, deps.World.GetByNickname("ace"))

	out := second.Session.PendingOutput()
	require.Len(t, out, 1)
	result, ok := packet.ReadNicknameUpdateResult(bodyReader(out[0].Data))
	require.True(t, ok)
	require.Equal(t, packet.NicknameConflict, result.Status)
	require.Equal(t, world.DefaultNickname(second.ID()), result.Nickname)
}

func TestNicknameResubmitIsAcceptedWithoutNotice(t *testing.T) {
	deps, _ := newTestDeps()
	p := connectAndHello(t, deps, 10, uuid.Nil)

	requestNickname(p, deps, "ace")
	p.Session.FlushOutput()

	requestNickname(p, deps, "ace")

	// Accepted, but no "nickname is now" message for a no-op.
	out := p.Session.PendingOutput()
	require.Len(t, out, 1)
	result, ok := packet.ReadNicknameUpdateResult(bodyReader(out[0].Data))
	require.True(t, ok)
	require.Equal(t, packet.NicknameAccepted, result.Status)
	require.Equal(t, "ace", result.Nickname)
}
