package ecs

import (
	"math/rand/v2"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/require"
)

func box(x, y, w, h float64) cp.BB {
	return cp.BB{L: x, B: y, R: x + w, T: y + h}
}

func TestSpatialHashMultiCellInsert(t *testing.T) {
	h := NewSpatialHash(10)
	e := Entity(makeEntity(1, 0))
	require.True(t, h.InsertDynamic(e, box(5, 5, 20, 1)))

	for _, q := range []cp.BB{box(6, 5, 1, 1), box(16, 5, 1, 1), box(24, 5, 1, 1)} {
		require.Contains(t, h.Query(q), e)
	}
	require.NotContains(t, h.Query(box(40, 40, 1, 1)), e)
}

func TestSpatialHashNegativeCoordinates(t *testing.T) {
	h := NewSpatialHash(16)
	e := Entity(makeEntity(3, 0))
	require.True(t, h.InsertStatic(e, box(-20, -20, 8, 8)))
	require.Equal(t, []Entity{e}, h.Query(box(-15, -15, 1, 1)))
	require.Empty(t, h.Query(box(1, 1, 1, 1)))
}

func TestSpatialHashStaticSurvivesDynamicClear(t *testing.T) {
	h := NewSpatialHash(32)
	wall := Entity(makeEntity(1, 0))
	mover := Entity(makeEntity(2, 0))
	h.InsertStatic(wall, box(0, 0, 10, 10))
	h.InsertDynamic(mover, box(2, 2, 4, 4))

	require.ElementsMatch(t, []Entity{wall, mover}, h.Query(box(0, 0, 10, 10)))

	h.ClearDynamic()
	require.Equal(t, []Entity{wall}, h.Query(box(0, 0, 10, 10)))
	require.True(t, h.IsStatic(wall))

	h.ClearStatic()
	require.Empty(t, h.Query(box(0, 0, 10, 10)))
	require.Zero(t, h.Len())
}

func TestSpatialHashRejectsInvalidBoxes(t *testing.T) {
	h := NewSpatialHash(32)
	e := Entity(makeEntity(1, 0))
	require.False(t, h.InsertDynamic(e, cp.BB{L: 10, B: 0, R: 0, T: 10}))
	require.Nil(t, h.Query(cp.BB{L: 10, B: 0, R: 0, T: 10}))
}

func TestSpatialHashDestroyDetaches(t *testing.T) {
	w := NewWorld()
	h := NewSpatialHash(32)
	w.SetSpatialIndex(h)

	e := CreateEntity(w)
	h.InsertStatic(e, box(0, 0, 8, 8))
	require.True(t, DestroyEntity(w, e))
	require.Empty(t, h.Query(box(0, 0, 8, 8)))
}

// TestSpatialHashSoundness checks there are no false negatives and that a
// query prunes the search space by at least an order of magnitude.
func TestSpatialHashSoundness(t *testing.T) {
	const (
		cell  = 50.0
		cells = 20
		count = 400
	)
	rng := rand.New(rand.NewPCG(1, 2))
	h := NewSpatialHash(cell)

	boxes := make(map[Entity]cp.BB, count)
	for i := 1; i <= count; i++ {
		e := Entity(makeEntity(entityID(i), 0))
		x := rng.Float64() * cell * cells
		y := rng.Float64() * cell * cells
		bb := box(x, y, 4+rng.Float64()*20, 4+rng.Float64()*20)
		boxes[e] = bb
		if i%3 == 0 {
			h.InsertStatic(e, bb)
		} else {
			h.InsertDynamic(e, bb)
		}
	}

	totalCandidates := 0
	queries := 200
	for q := 0; q < queries; q++ {
		x := rng.Float64() * cell * cells
		y := rng.Float64() * cell * cells
		qb := box(x, y, 10+rng.Float64()*30, 10+rng.Float64()*30)

		candidates := toSet(h.Query(qb))
		totalCandidates += len(candidates)
		for e, bb := range boxes {
			if bb.Intersects(qb) {
				require.Contains(t, candidates, e, "false negative for %v", e)
			}
		}
		for e := range toSet(h.QueryOverlapping(qb)) {
			require.True(t, boxes[e].Intersects(qb))
		}
	}

	avg := float64(totalCandidates) / float64(queries)
	require.Less(t, avg*10, float64(count), "average candidates %.1f should be under a tenth of %d", avg, count)
}

func TestSpatialHashBoxesPastCellLimit(t *testing.T) {
	h := NewSpatialHash(1)
	wide := Entity(makeEntity(1, 0))
	small := Entity(makeEntity(2, 0))
	far := Entity(makeEntity(3, 0))

	require.True(t, h.InsertStatic(wide, box(-1e9, -1, 2e9, 2)))
	require.True(t, h.InsertDynamic(small, box(500000, 0, 1, 1)))
	require.True(t, h.InsertDynamic(far, box(0, 50000, 1, 1)))

	tests := []struct {
		name  string
		query cp.BB
		want  []Entity
	}{
		{"small_query_finds_wide_box", box(500000, 0, 1, 1), []Entity{wide, small}},
		{"wide_query_scans", box(-1e12, -0.5, 2e12, 1), []Entity{wide, small}},
		{"tall_query_scans", box(0, -1e12, 1, 2e12), []Entity{wide, far}},
		{"miss", box(10, 10, 1, 1), nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, h.Query(tc.query))
		})
	}

	require.Zero(t, h.CellsTouched(box(-1e12, 0, 2e12, 1)))
	h.Remove(wide)
	require.Equal(t, []Entity{small}, h.Query(box(500000, 0, 1, 1)))

	require.True(t, h.InsertDynamic(wide, box(-1e9, -1, 2e9, 2)))
	h.ClearDynamic()
	require.Nil(t, h.Query(box(500000, 0, 1, 1)))
	require.Zero(t, h.Len())
}
