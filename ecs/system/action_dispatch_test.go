package system

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

func circle(r float64) *component.Collider {
	return &component.Collider{Shape: component.ColliderCircle, Radius: r}
}

func indexedWorld() *ecs.World {
	w := ecs.NewWorld()
	w.SetSpatialIndex(ecs.NewSpatialHash(32))
	return w
}

func TestDispatchSkipsSourcesPendingRemoval(t *testing.T) {
	tests := []struct {
		name    string
		pending bool
		handled int
		intent  bool
	}{
		{"live_source", false, 1, false},
		{"pending_source", true, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			q := ecs.NewActionQueue()
			handled := 0
			sys := NewActionDispatchSystem(q, nil, IntentRoute(component.IntentBattle, func(*ecs.World, ecs.Entity, component.Intent) {
				handled++
			}))

			e := ecs.Spawn(w, ecs.Bind(component.IntentComponent.Kind(), &component.Intent{Kind: component.IntentBattle, BattleID: "b"}))
			q.Push(e)
			if tc.pending {
				w.QueueDestroy(e)
			}
			sys.Update(w, 0.1)

			require.Equal(t, tc.handled, handled)
			require.Equal(t, tc.intent, ecs.Has(w, e, component.IntentComponent.Kind()))
			require.Zero(t, q.Len())
		})
	}
}

func TestTeleportLeavesPendingSubject(t *testing.T) {
	tests := []struct {
		name    string
		pending bool
		wantX   float64
	}{
		{"live_subject", false, 900},
		{"pending_subject", true, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			q := ecs.NewActionQueue()
			sys := NewActionDispatchSystem(q, nil, TeleportRoute())

			subject := ecs.Spawn(w, ecs.Bind(component.TransformComponent.Kind(), &component.Transform{X: 10}))
			source := ecs.Spawn(w, ecs.Bind(component.IntentComponent.Kind(), &component.Intent{
				Kind:    component.IntentTeleport,
				Subject: component.EntityRef(subject),
				X:       900,
			}))
			q.Push(source)
			if tc.pending {
				w.QueueDestroy(subject)
			}
			sys.Update(w, 0.1)

			tr, ok := ecs.Get(w, subject, component.TransformComponent.Kind())
			require.True(t, ok)
			require.Equal(t, tc.wantX, tr.X)
		})
	}
}

func TestPortalAndEncounterDoNotOverwriteIntents(t *testing.T) {
	w := indexedWorld()
	q := ecs.NewActionQueue()
	index := NewSpatialIndexSystem()
	portals := NewPortalSystem(q)
	encounters := NewEncounterSystem(q)

	ecs.Spawn(w,
		ecs.Bind(component.PlayerTagComponent.Kind(), &component.PlayerTag{}),
		ecs.Bind(component.TransformComponent.Kind(), &component.Transform{X: 100, Y: 100}),
		ecs.Bind(component.ColliderComponent.Kind(), circle(10)),
	)
	ecs.Spawn(w,
		ecs.Bind(component.PortalComponent.Kind(), &component.Portal{ID: "ford", DestX: 500, DestY: 500}),
		ecs.Bind(component.TransformComponent.Kind(), &component.Transform{X: 110, Y: 100}),
		ecs.Bind(component.ColliderComponent.Kind(), circle(10)),
		ecs.Bind(component.StaticTagComponent.Kind(), &component.StaticTag{}),
	)
	enemy := ecs.Spawn(w,
		ecs.Bind(component.AIStateComponent.Kind(), &component.AIState{}),
		ecs.Bind(component.TransformComponent.Kind(), &component.Transform{X: 105, Y: 100}),
		ecs.Bind(component.ColliderComponent.Kind(), circle(10)),
		ecs.Bind(component.EncounterComponent.Kind(), &component.Encounter{BattleID: "b"}),
	)

	index.Update(w, 0.1)
	portals.Update(w, 0.1)
	encounters.Update(w, 0.1)

	in, ok := ecs.Get(w, enemy, component.IntentComponent.Kind())
	require.True(t, ok)
	require.Equal(t, component.IntentTeleport, in.Kind)
	enc, _ := ecs.Get(w, enemy, component.EncounterComponent.Kind())
	require.False(t, enc.Triggered, "encounter waits for the next frame")

	// Player stepping onto the in-map portal teleports too.
	reqs := q.Drain()
	require.Len(t, reqs, 2)
	require.Equal(t, enemy, reqs[1].Source)
}
