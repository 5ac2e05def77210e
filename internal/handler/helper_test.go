package handler

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Boshugege/Neural-Wings-server/internal/config"
	"github.com/Boshugege/Neural-Wings-server/internal/core/event"
	"github.com/Boshugege/Neural-Wings-server/internal/net"
	"github.com/Boshugege/Neural-Wings-server/internal/net/packet"
	"github.com/Boshugege/Neural-Wings-server/internal/world"
)

func newTestDeps() (*Deps, *net.MemTransport) {
	tr := net.NewMemTransport()
	bus := event.NewBus()
	log := zap.NewNop()
	return &Deps{
		Config: config.Defaults(),
		Log:    log,
		World:  world.NewState(log, bus, tr),
		Bus:    bus,
	}, tr
}

// bodyReader strips the type byte the same way the server's dispatch
// path does before a handler runs.
func bodyReader(pkt []byte) *packet.Reader {
	return packet.NewReader(pkt[packet.HeaderLen:])
}

// connectAndHello runs a connection through the full handshake and
// drops the welcome packets so tests start from a clean output buffer.
func connectAndHello(t *testing.T, deps *Deps, handle net.ConnHandle, id uuid.UUID) *world.Player {
	t.Helper()

	p := deps.World.OnConnect(handle)
	HandleHello(p.Session, bodyReader(packet.WriteClientHello(id)), deps)
	require.True(t, p.Welcomed())

	p.Session.FlushOutput()
	return p
}

// pendingTypes lists the message types buffered on a session.
func pendingTypes(p *world.Player) []packet.MsgType {
	var types []packet.MsgType
	for _, o := range p.Session.PendingOutput() {
		t, _ := packet.PeekType(o.Data)
		types = append(types, t)
	}
	return types
}

// lastChatBroadcast decodes the most recent chat packet buffered on a
// session.
func lastChatBroadcast(t *testing.T, p *world.Player) packet.ChatBroadcast {
	t.Helper()

	out := p.Session.PendingOutput()
	require.NotEmpty(t, out, "expected buffered chat output")
	last := out[len(out)-1]

	typ, ok := packet.PeekType(last.Data)
	require.True(t, ok)
	require.Equal(t, packet.MsgChatBroadcast, typ)

	m, ok := packet.ReadChatBroadcast(bodyReader(last.Data))
	require.True(t, ok)
	return m
}

func sendChat(p *world.Player, deps *Deps, chatType packet.ChatType, text string) {
	HandleChat(p.Session, bodyReader(packet.WriteChatRequest(chatType, text)), deps)
}
