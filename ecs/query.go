package ecs

import "github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"

// Query returns the entities currently holding every kind, excluding any
// queued for destruction. The result is a copy and safe to keep while the
// world is mutated.
func (w *World) Query(kinds ...component.Key) []Entity {
	v := w.With(kinds...)
	if v == nil {
		return nil
	}
	out := make([]Entity, 0, v.Len())
	v.Each(func(e Entity) { out = append(out, e) })
	return out
}
