package ecs

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

func TestViewIsCachedPerSignature(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]("cache_a")
	kb := component.NewComponentKind[int]("cache_b")

	require.Same(t, w.With(ka, kb), w.With(kb, ka))
	require.Same(t, w.With(ka).Without(kb), w.With(ka).Without(kb))
	require.NotSame(t, w.With(ka), w.With(ka).Without(kb))
}

func TestViewTracksStructuralChanges(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]("track_a")
	kx := component.NewComponentKind[int]("track_x")

	view := w.With(ka).Without(kx)
	e := CreateEntity(w)
	require.False(t, view.Contains(e))

	require.NoError(t, Add(w, e, ka, intPtr(1)))
	require.True(t, view.Contains(e))

	require.NoError(t, Add(w, e, kx, intPtr(1)))
	require.False(t, view.Contains(e), "excluded component removes membership")

	require.True(t, Remove(w, e, kx))
	require.True(t, view.Contains(e))

	require.True(t, DestroyEntity(w, e))
	require.Zero(t, view.Len())
}

func TestViewEachToleratesMutation(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]("mut_a")

	ents := make([]Entity, 0, 6)
	for i := 0; i < 6; i++ {
		ents = append(ents, Spawn(w, Bind(ka, intPtr(i))))
	}

	var visited []Entity
	var added Entity
	w.With(ka).Each(func(e Entity) {
		visited = append(visited, e)
		// destroy one other live entity per visit
		for _, other := range ents {
			if other != e && IsAlive(w, other) {
				DestroyEntity(w, other)
				break
			}
		}
		if !added.Valid() {
			added = Spawn(w, Bind(ka, intPtr(99)))
		}
	})

	for _, e := range visited {
		require.NotEqual(t, added, e, "entities added mid-walk are seen next pass")
	}
	require.Less(t, len(visited), len(ents))
	require.True(t, w.With(ka).Contains(added))
}

// TestQueryConsistency drives random add/remove sequences interleaved with
// iteration and checks every yielded entity against the view signature.
func TestQueryConsistency(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	w := NewWorld()
	kinds := []component.ComponentKind[int]{
		component.NewComponentKind[int]("prop_a"),
		component.NewComponentKind[int]("prop_b"),
		component.NewComponentKind[int]("prop_c"),
	}
	view := w.With(kinds[0], kinds[1]).Without(kinds[2])

	var live []Entity
	mutate := func() {
		switch op := rng.IntN(5); {
		case op == 0 || len(live) == 0:
			live = append(live, CreateEntity(w))
		case op == 1:
			i := rng.IntN(len(live))
			DestroyEntity(w, live[i])
			live = append(live[:i], live[i+1:]...)
		case op == 2:
			_ = Add(w, live[rng.IntN(len(live))], kinds[rng.IntN(3)], intPtr(op))
		default:
			Remove(w, live[rng.IntN(len(live))], kinds[rng.IntN(3)])
		}
	}

	for round := 0; round < 200; round++ {
		for i := 0; i < 5; i++ {
			mutate()
		}
		destroyedBefore := map[Entity]struct{}{}
		for _, e := range Entities(w) {
			if rng.IntN(10) == 0 {
				DestroyEntity(w, e)
				destroyedBefore[e] = struct{}{}
			}
		}
		live = Entities(w)

		view.Each(func(e Entity) {
			require.True(t, IsAlive(w, e))
			require.NotContains(t, destroyedBefore, e)
			require.True(t, Has(w, e, kinds[0]))
			require.True(t, Has(w, e, kinds[1]))
			require.False(t, Has(w, e, kinds[2]))
			if rng.IntN(3) == 0 {
				mutate()
				live = Entities(w)
			}
		})
	}
}
