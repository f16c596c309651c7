package ecs

import (
	"fmt"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

// Entry is one component of a bag passed to Spawn.
type Entry struct {
	id    component.ComponentID
	value any
}

// Bind pairs a component kind with its value for Spawn.
func Bind[T any](kind component.ComponentKind[T], value *T) Entry {
	if value == nil {
		return Entry{}
	}
	return Entry{id: kind.ID(), value: value}
}

// Spawn creates an entity from a component bag. All components are stored
// before any view is updated, so queries observe the entity fully formed.
func Spawn(w *World, entries ...Entry) Entity {
	if w == nil {
		return 0
	}
	e := w.CreateEntity()
	for _, entry := range entries {
		if entry.id == 0 || entry.value == nil {
			continue
		}
		w.setComponent(e, entry.id, entry.value)
	}
	w.refresh(e)
	return e
}

func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.CreateEntity()
}

func IsAlive(w *World, e Entity) bool {
	return w.IsAlive(e)
}

// Entities returns a snapshot of every live entity.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.snapshot()
}

func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if w == nil || !w.IsAlive(e) {
		return fmt.Errorf("add %s to %v: %w", kind.Name(), e, component.ErrEntityNotAlive)
	}
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return fmt.Errorf("add %s to %v: %w", kind.Name(), e, component.ErrNilComponent)
	}
	if w.setComponent(e, kind.ID(), value) {
		w.refresh(e)
	}
	return nil
}

// Remove detaches a component. Removing an absent component or touching a
// dead entity is a no-op that reports false.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil || !w.IsAlive(e) {
		return false
	}
	if !w.removeComponent(e, kind.ID()) {
		return false
	}
	w.refresh(e)
	return true
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil || !w.IsAlive(e) {
		return false
	}
	return w.hasID(e, kind.ID())
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if w == nil || !w.IsAlive(e) {
		return nil, false
	}
	s := w.store(kind.ID(), false)
	if s == nil {
		return nil, false
	}
	value, ok := s.Get(e).(*T)
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

// First returns one entity holding the component, skipping entities queued
// for destruction.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	return w.With(kind).First()
}

// DestroyEntity removes an entity immediately: children first, then the link
// from its parent, then every component, view and spatial cell. Destroying a
// dead entity is a no-op.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.IsAlive(e) {
		return false
	}
	if _, busy := w.destroying[e]; busy {
		return false
	}
	w.destroying[e] = struct{}{}
	defer delete(w.destroying, e)

	if children, ok := Get(w, e, component.ChildrenComponent.Kind()); ok {
		refs := append([]component.EntityRef(nil), children.Entities...)
		for _, ref := range refs {
			child := Entity(ref)
			if p, ok := Get(w, child, component.ParentComponent.Kind()); ok && Entity(p.Entity) == e {
				DestroyEntity(w, child)
			}
		}
	}
	if p, ok := Get(w, e, component.ParentComponent.Kind()); ok {
		detachChild(w, Entity(p.Entity), e)
	}

	for _, s := range w.stores {
		s.Remove(e)
	}
	for _, v := range w.viewList {
		v.erase(e)
	}
	if w.spatial != nil {
		w.spatial.Remove(e)
	}
	delete(w.pendingSet, e)
	return w.entities.destroy(e)
}

func ForEach[A any](w *World, ka component.ComponentKind[A], fn func(Entity, *A)) {
	if w == nil || fn == nil {
		return
	}
	w.With(ka).Each(func(e Entity) {
		a, ok := Get(w, e, ka)
		if !ok {
			return
		}
		fn(e, a)
	})
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	w.With(ka, kb).Each(func(e Entity) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if !okA || !okB {
			return
		}
		fn(e, a, b)
	})
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	if w == nil || fn == nil {
		return
	}
	w.With(ka, kb, kc).Each(func(e Entity) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		c, okC := Get(w, e, kc)
		if !okA || !okB || !okC {
			return
		}
		fn(e, a, b, c)
	})
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	if w == nil || fn == nil {
		return
	}
	w.With(ka, kb, kc, kd).Each(func(e Entity) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		c, okC := Get(w, e, kc)
		d, okD := Get(w, e, kd)
		if !okA || !okB || !okC || !okD {
			return
		}
		fn(e, a, b, c, d)
	})
}
