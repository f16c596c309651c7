package ecs

// Queues bundles the three deferred queues of one running world. Systems get
// the queue they need injected; the bundle exists for teardown and end of
// frame bookkeeping.
type Queues struct {
	Actions *ActionQueue
	Events  *EventQueue
	Signals *SignalQueue
}

func NewQueues() *Queues {
	return &Queues{
		Actions: NewActionQueue(),
		Events:  NewEventQueue(),
		Signals: NewSignalQueue(),
	}
}

// Reset empties every queue, including deferred signals.
func (q *Queues) Reset() {
	if q == nil {
		return
	}
	q.Actions.Reset()
	q.Events.Reset()
	q.Signals.Reset()
}

// Empty reports whether nothing is pending in any queue.
func (q *Queues) Empty() bool {
	if q == nil {
		return true
	}
	return q.Actions.Len() == 0 && q.Events.Len() == 0 && q.Signals.Len() == 0 && q.Signals.Deferred() == 0
}
