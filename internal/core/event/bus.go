package event

// Bus is a double-buffered event bus. Events emitted during tick N are
// dispatched at the start of tick N+1, so subscribers never observe
// half-applied state from the emitting handler.
// Accessed only from the game loop goroutine — no locks.
type Bus struct {
	front    []any
	back     []any
	handlers []func(any)
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler invoked for every dispatched event.
// Handlers type-switch on the events they care about.
func (b *Bus) Subscribe(fn func(any)) {
	b.handlers = append(b.handlers, fn)
}

// Emit queues an event for dispatch on the next tick.
func (b *Bus) Emit(ev any) {
	b.back = append(b.back, ev)
}

// SwapBuffers promotes events emitted last tick into the dispatch buffer.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front[:0]
}

// DispatchAll delivers every front-buffer event to every subscriber.
func (b *Bus) DispatchAll() {
	for _, ev := range b.front {
		for _, fn := range b.handlers {
			fn(ev)
		}
	}
}
