package ecs

// SignalKind discriminates trigger signals.
type SignalKind string

const (
	SignalWave      SignalKind = "wave"
	SignalSceneLoad SignalKind = "scene_load"
)

// Signal is a broadcast gameplay trigger. Only the fields relevant to Kind
// are meaningful.
type Signal struct {
	Kind SignalKind
	// Wave is the 1-based wave number for SignalWave.
	Wave int
	// MapID is the loaded map for SignalSceneLoad.
	MapID string
	// Time is the simulated time the signal was raised at.
	Time float64
}

// SignalQueue is push-only for producers. Consumers drain it in the frame it
// was produced or defer signals explicitly to the next frame.
type SignalQueue struct {
	items    []Signal
	deferred []Signal
}

func NewSignalQueue() *SignalQueue {
	return &SignalQueue{}
}

func (q *SignalQueue) Push(sig Signal) {
	if q == nil || sig.Kind == "" {
		return
	}
	q.items = append(q.items, sig)
}

func (q *SignalQueue) Drain() []Signal {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Defer hands signals back to be delivered again after Advance.
func (q *SignalQueue) Defer(sigs ...Signal) {
	if q == nil {
		return
	}
	q.deferred = append(q.deferred, sigs...)
}

// Advance ends the frame: deferred signals become pending again, ahead of
// anything pushed later.
func (q *SignalQueue) Advance() {
	if q == nil || len(q.deferred) == 0 {
		return
	}
	q.items = append(q.deferred, q.items...)
	q.deferred = nil
}

func (q *SignalQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *SignalQueue) Deferred() int {
	if q == nil {
		return 0
	}
	return len(q.deferred)
}

func (q *SignalQueue) Reset() {
	if q == nil {
		return
	}
	q.items = nil
	q.deferred = nil
}
