package net

import (
	"context"
	"errors"
	stdnet "net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Boshugege/Neural-Wings-server/internal/net/packet"
)

// WSConfig tunes the WebSocket transport.
type WSConfig struct {
	BindAddress    string
	InQueueSize    int // pending transport events before readers block
	OutQueueSize   int // per-connection outgoing packets
	WriteTimeout   time.Duration
	MaxMessageSize int64
}

// WSTransport is the reference Transport: binary WebSocket messages
// over a single HTTP endpoint. Both logical channels share the TCP
// stream; the unreliable channel is best-effort only in the sense that
// packets are dropped when a peer's outgoing queue is full, while
// reliable packets that cannot be queued close the connection.
type WSTransport struct {
	cfg      WSConfig
	log      *zap.Logger
	upgrader websocket.Upgrader
	srv      *http.Server

	events chan Event

	mu         sync.Mutex
	conns      map[ConnHandle]*wsConn
	nextHandle ConnHandle
	stopped    bool
}

type wsConn struct {
	handle ConnHandle
	ws     *websocket.Conn
	send   chan []byte
	once   sync.Once
}

func NewWSTransport(cfg WSConfig, log *zap.Logger) *WSTransport {
	return &WSTransport{
		cfg: cfg,
		log: log.Named("ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		events: make(chan Event, cfg.InQueueSize),
		conns:  make(map[ConnHandle]*wsConn),
	}
}

// Start binds the listener and begins accepting connections.
func (t *WSTransport) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/connect", t.handleUpgrade)

	t.srv = &http.Server{Addr: t.cfg.BindAddress, Handler: mux}

	ln, err := stdnet.Listen("tcp", t.cfg.BindAddress)
	if err != nil {
		return err
	}

	go func() {
		if err := t.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.log.Error("serve failed", zap.Error(err))
		}
	}()

	t.log.Info("listening", zap.String("addr", t.cfg.BindAddress))
	return nil
}

func (t *WSTransport) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	ws, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		t.log.Debug("upgrade failed", zap.Error(err))
		return
	}
	ws.SetReadLimit(t.cfg.MaxMessageSize)

	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		_ = ws.Close()
		return
	}
	t.nextHandle++
	c := &wsConn{
		handle: t.nextHandle,
		ws:     ws,
		send:   make(chan []byte, t.cfg.OutQueueSize),
	}
	t.conns[c.handle] = c
	t.mu.Unlock()

	t.events <- Event{Type: EventConnect, Handle: c.handle}

	go t.writePump(c)
	go t.readPump(c)
}

// readPump owns all reads for one connection. Exits on any read error
// and surfaces the disconnect to the game loop.
func (t *WSTransport) readPump(c *wsConn) {
	defer func() {
		t.drop(c)
		t.events <- Event{Type: EventDisconnect, Handle: c.handle}
	}()

	for {
		mt, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				t.log.Debug("read failed", zap.Uint32("handle", uint32(c.handle)), zap.Error(err))
			}
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		t.events <- Event{Type: EventMessage, Handle: c.handle, Data: data}
	}
}

// writePump owns all writes for one connection.
func (t *WSTransport) writePump(c *wsConn) {
	for data := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(t.cfg.WriteTimeout))
		if err := c.ws.WriteMessage(websocket.BinaryMessage, data); err != nil {
			t.log.Debug("write failed", zap.Uint32("handle", uint32(c.handle)), zap.Error(err))
			t.drop(c)
			return
		}
	}
	// send channel closed: flush a close frame and drop the socket.
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	_ = c.ws.Close()
}

// drop removes the connection once; safe to call from any goroutine.
// The send channel is closed under the mutex so Send never races a
// close.
func (t *WSTransport) drop(c *wsConn) {
	c.once.Do(func() {
		t.mu.Lock()
		delete(t.conns, c.handle)
		close(c.send)
		t.mu.Unlock()
	})
}

// Poll returns the next pending event without blocking.
func (t *WSTransport) Poll() (Event, bool) {
	select {
	case ev := <-t.events:
		return ev, true
	default:
		return Event{}, false
	}
}

// Send queues one packet. Unreliable packets are dropped when the
// peer's queue is full; reliable packets that cannot be queued mean the
// peer has stopped draining, so the connection is closed.
func (t *WSTransport) Send(handle ConnHandle, data []byte, channel uint8) {
	t.mu.Lock()
	c := t.conns[handle] // present in the map implies send is open
	if c == nil {
		t.mu.Unlock()
		return
	}
	select {
	case c.send <- data:
		t.mu.Unlock()
		return
	default:
	}
	t.mu.Unlock()

	if channel == packet.ChannelUnreliable {
		return
	}
	t.log.Warn("send queue full, closing slow client",
		zap.Uint32("handle", uint32(handle)))
	t.drop(c)
}

// Close forcibly tears down one connection.
func (t *WSTransport) Close(handle ConnHandle) error {
	t.mu.Lock()
	c := t.conns[handle]
	t.mu.Unlock()
	if c == nil {
		return errors.New("unknown connection handle")
	}
	t.drop(c)
	return nil
}

// Flush is a no-op: writePump goroutines stream queued packets
// continuously. The method exists so the game loop's flush point stays
// transport-agnostic.
func (t *WSTransport) Flush() {}

// Stop shuts the listener down and drops every connection.
func (t *WSTransport) Stop() {
	t.mu.Lock()
	t.stopped = true
	conns := make([]*wsConn, 0, len(t.conns))
	for _, c := range t.conns {
		conns = append(conns, c)
	}
	t.mu.Unlock()

	for _, c := range conns {
		t.drop(c)
	}
	if t.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = t.srv.Shutdown(ctx)
	}
	t.log.Info("stopped")
}
