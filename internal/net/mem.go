package net

// MemTransport is an in-process Transport. Tests script incoming
// events with the Queue helpers and inspect Sent/ClosedHandles after
// running ticks.
type MemTransport struct {
	// Sent records every packet handed to Send, per handle, in order.
	Sent map[ConnHandle][]Outgoing
	// ClosedHandles records forced closes, in order.
	ClosedHandles []ConnHandle
	// FlushCount counts Flush calls.
	FlushCount int

	events  []Event
	started bool
}

func NewMemTransport() *MemTransport {
	return &MemTransport{Sent: make(map[ConnHandle][]Outgoing)}
}

func (t *MemTransport) QueueConnect(h ConnHandle) {
	t.events = append(t.events, Event{Type: EventConnect, Handle: h})
}

func (t *MemTransport) QueueDisconnect(h ConnHandle) {
	t.events = append(t.events, Event{Type: EventDisconnect, Handle: h})
}

func (t *MemTransport) QueueMessage(h ConnHandle, data []byte) {
	t.events = append(t.events, Event{Type: EventMessage, Handle: h, Data: data})
}

func (t *MemTransport) Start() error {
	t.started = true
	return nil
}

func (t *MemTransport) Poll() (Event, bool) {
	if len(t.events) == 0 {
		return Event{}, false
	}
	ev := t.events[0]
	t.events = t.events[1:]
	return ev, true
}

func (t *MemTransport) Send(handle ConnHandle, data []byte, channel uint8) {
	t.Sent[handle] = append(t.Sent[handle], Outgoing{Data: data, Channel: channel})
}

func (t *MemTransport) Close(handle ConnHandle) error {
	t.ClosedHandles = append(t.ClosedHandles, handle)
	return nil
}

func (t *MemTransport) Flush() { t.FlushCount++ }

func (t *MemTransport) Stop() { t.started = false }
