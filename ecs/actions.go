package ecs

// ActionRequest asks the dispatcher to act on the intent declared by Source.
// The request carries no payload: the source entity's components are the
// single source of truth at dispatch time.
type ActionRequest struct {
	Source Entity
}

// ActionQueue buffers structural intents raised during gameplay until the
// actions phase.
type ActionQueue struct {
	items []ActionRequest
}

func NewActionQueue() *ActionQueue {
	return &ActionQueue{}
}

func (q *ActionQueue) Push(source Entity) {
	if q == nil || !source.Valid() {
		return
	}
	q.items = append(q.items, ActionRequest{Source: source})
}

// Drain returns all requests in FIFO order and clears the queue.
func (q *ActionQueue) Drain() []ActionRequest {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *ActionQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *ActionQueue) Reset() {
	if q == nil {
		return
	}
	q.items = nil
}
