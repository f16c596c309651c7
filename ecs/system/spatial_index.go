package system

import (
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

// SpatialIndexSystem rebuilds the dynamic cell map from every collider each
// frame. Static colliders are inserted the first time they are seen and stay
// until the scene clears the static map.
type SpatialIndexSystem struct{}

func NewSpatialIndexSystem() *SpatialIndexSystem {
	return &SpatialIndexSystem{}
}

func (s *SpatialIndexSystem) Update(w *ecs.World, _ float64) {
	idx := w.SpatialIndex()
	if idx == nil {
		return
	}
	idx.ClearDynamic()

	w.With(component.TransformComponent, component.ColliderComponent, component.StaticTagComponent).Each(func(e ecs.Entity) {
		if idx.IsStatic(e) {
			return
		}
		tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		col, _ := ecs.Get(w, e, component.ColliderComponent.Kind())
		idx.InsertStatic(e, col.BB(tr.X, tr.Y))
	})

	w.With(component.TransformComponent, component.ColliderComponent).
		Without(component.StaticTagComponent).
		Each(func(e ecs.Entity) {
			tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
			col, _ := ecs.Get(w, e, component.ColliderComponent.Kind())
			idx.InsertDynamic(e, col.BB(tr.X, tr.Y))
		})
}

// overlapping returns the live entities whose collider exactly overlaps the
// collider of e, using the index for the broad phase.
func overlapping(w *ecs.World, e ecs.Entity) []ecs.Entity {
	idx := w.SpatialIndex()
	tr, okT := ecs.Get(w, e, component.TransformComponent.Kind())
	col, okC := ecs.Get(w, e, component.ColliderComponent.Kind())
	if idx == nil || !okT || !okC {
		return nil
	}
	var out []ecs.Entity
	for _, other := range idx.Query(col.BB(tr.X, tr.Y)) {
		if other == e || !w.IsAlive(other) || w.IsPendingDestroy(other) {
			continue
		}
		otr, okT := ecs.Get(w, other, component.TransformComponent.Kind())
		ocol, okC := ecs.Get(w, other, component.ColliderComponent.Kind())
		if !okT || !okC {
			continue
		}
		if col.Overlaps(tr.X, tr.Y, *ocol, otr.X, otr.Y) {
			out = append(out, other)
		}
	}
	return out
}
