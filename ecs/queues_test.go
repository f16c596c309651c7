package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventQueueDrainIsAtomic(t *testing.T) {
	q := NewEventQueue()
	q.Emit("ui.toast", "hello")
	q.Emit("ui.toast", "again")
	q.Emit("", "dropped")

	events := q.Drain()
	require.Len(t, events, 2)
	require.Equal(t, "hello", events[0].Data)
	require.Zero(t, q.Len())
	require.Nil(t, q.Drain())
}

func TestEventRouterToleratesUnknownTypes(t *testing.T) {
	q := NewEventQueue()
	r := NewEventRouter()

	var handled []any
	var unmatched []EventType
	r.Handle("battle.started", func(evt Event) { handled = append(handled, evt.Data) })
	r.Unmatched = func(evt Event) { unmatched = append(unmatched, evt.Type) }

	q.Emit("battle.started", 1)
	q.Emit("mystery", nil)
	q.Emit("battle.started", 2)

	require.Equal(t, 1, r.Dispatch(q))
	require.Equal(t, []any{1, 2}, handled)
	require.Equal(t, []EventType{"mystery"}, unmatched)
	require.Zero(t, q.Len())
}

func TestActionQueueFIFO(t *testing.T) {
	q := NewActionQueue()
	a, b := makeEntity(1, 0), makeEntity(2, 0)
	q.Push(a)
	q.Push(0)
	q.Push(b)

	require.Equal(t, []ActionRequest{{Source: a}, {Source: b}}, q.Drain())
	require.Zero(t, q.Len())
}

func TestSignalQueueDefer(t *testing.T) {
	q := NewSignalQueue()
	q.Push(Signal{Kind: SignalWave, Wave: 1})
	q.Push(Signal{Kind: SignalWave, Wave: 2})

	got := q.Drain()
	require.Len(t, got, 2)
	q.Defer(got[1])
	q.Push(Signal{Kind: SignalWave, Wave: 3})
	require.Equal(t, 1, q.Deferred())

	q.Advance()
	next := q.Drain()
	require.Equal(t, []int{2, 3}, []int{next[0].Wave, next[1].Wave})
}

func TestQueuesReset(t *testing.T) {
	qs := NewQueues()
	qs.Actions.Push(makeEntity(1, 0))
	qs.Events.Emit("ui.toast", nil)
	qs.Signals.Push(Signal{Kind: SignalWave})
	qs.Signals.Defer(Signal{Kind: SignalWave})
	require.False(t, qs.Empty())

	qs.Reset()
	require.True(t, qs.Empty())
}

func TestSchedulerRunsInPhaseOrder(t *testing.T) {
	s := NewScheduler()
	var order []string
	rec := func(name string) System {
		return SystemFunc(func(*World, float64) { order = append(order, name) })
	}
	s.Add(PhaseMovement, rec("movement"))
	s.Add(PhasePerception, rec("perception"))
	s.Add(PhaseDecision, rec("ai"))
	s.Add(PhasePerception, rec("perception2"))
	s.Add(PhaseCleanup, rec("cleanup"))

	s.Update(NewWorld(), 0.016)
	require.Equal(t, []string{"perception", "perception2", "ai", "movement", "cleanup"}, order)
}
