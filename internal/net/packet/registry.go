package packet

// Handler processes one decoded packet body. The sess parameter is the
// owning connection's session, passed as any to keep this package free
// of upward dependencies; handlers assert to the concrete type.
type Handler func(sess any, r *Reader)

// DispatchResult tells the caller why a packet was or was not handled.
type DispatchResult int

const (
	Dispatched DispatchResult = iota
	UnknownType
	WrongState
)

type entry struct {
	states map[SessionState]struct{}
	fn     Handler
}

// Registry maps message types to handlers gated by session state.
// New message kinds are added by registering, never by growing a
// conditional chain.
type Registry struct {
	entries map[MsgType]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[MsgType]entry)}
}

// Register binds a handler to a message type for the given states.
// Registering the same type twice replaces the previous handler.
func (reg *Registry) Register(t MsgType, states []SessionState, fn Handler) {
	set := make(map[SessionState]struct{}, len(states))
	for _, s := range states {
		set[s] = struct{}{}
	}
	reg.entries[t] = entry{states: set, fn: fn}
}

// Dispatch routes one packet to its handler if the session state allows.
func (reg *Registry) Dispatch(t MsgType, state SessionState, sess any, r *Reader) DispatchResult {
	e, ok := reg.entries[t]
	if !ok {
		return UnknownType
	}
	if _, allowed := e.states[state]; !allowed {
		return WrongState
	}
	e.fn(sess, r)
	return Dispatched
}
