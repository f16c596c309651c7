package ecs

// EventType identifies a loosely-typed notification for consumers outside the
// simulation (UI callbacks, audio cues, debug overlays).
type EventType string

// Event is a generic ECS event payload.
type Event struct {
	Type EventType
	Data any
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Emit adds an event.
func (q *EventQueue) Emit(typ EventType, data any) {
	if q == nil || typ == "" {
		return
	}
	q.items = append(q.items, Event{Type: typ, Data: data})
}

// Push adds an already built event.
func (q *EventQueue) Push(evt Event) {
	q.Emit(evt.Type, evt.Data)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Reset drops the backlog.
func (q *EventQueue) Reset() {
	if q == nil {
		return
	}
	q.items = nil
}

// EventHandler consumes one event.
type EventHandler func(evt Event)

// EventRouter maps event types to handlers. Handlers for one type run in
// registration order.
type EventRouter struct {
	handlers map[EventType][]EventHandler
	// Unmatched is called for events with no registered handler.
	Unmatched func(evt Event)
}

func NewEventRouter() *EventRouter {
	return &EventRouter{handlers: make(map[EventType][]EventHandler)}
}

func (r *EventRouter) Handle(typ EventType, h EventHandler) {
	if r == nil || h == nil {
		return
	}
	r.handlers[typ] = append(r.handlers[typ], h)
}

// Dispatch drains q and routes every event in FIFO order. It returns the
// number of events no handler claimed.
func (r *EventRouter) Dispatch(q *EventQueue) int {
	if r == nil {
		return 0
	}
	unmatched := 0
	for _, evt := range q.Drain() {
		hs := r.handlers[evt.Type]
		if len(hs) == 0 {
			unmatched++
			if r.Unmatched != nil {
				r.Unmatched(evt)
			}
			continue
		}
		for _, h := range hs {
			h(evt)
		}
	}
	return unmatched
}
