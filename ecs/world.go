package ecs

import (
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

// World owns entities, component storage and the live views built over them.
// It is the only authority over component data; systems read and write
// components through it.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	views    map[string]*View
	viewList []*View

	pending    []Entity
	pendingSet map[Entity]struct{}
	destroying map[Entity]struct{}

	spatial *SpatialHash
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores:     make(map[component.ComponentID]*SparseSet),
		views:      make(map[string]*View),
		pendingSet: make(map[Entity]struct{}),
		destroying: make(map[Entity]struct{}),
	}
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// CreateEntity allocates a new entity with no components.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return w.entities.len()
}

// SetSpatialIndex attaches the spatial index so destroyed entities are
// detached from it.
func (w *World) SetSpatialIndex(idx *SpatialHash) {
	if w == nil {
		return
	}
	w.spatial = idx
}

// SpatialIndex returns the attached spatial index, if any.
func (w *World) SpatialIndex() *SpatialHash {
	if w == nil {
		return nil
	}
	return w.spatial
}

func (w *World) hasID(e Entity, id component.ComponentID) bool {
	s := w.store(id, false)
	return s != nil && s.Has(e)
}

func (w *World) setComponent(e Entity, id component.ComponentID, v any) bool {
	return w.store(id, true).Set(e, v)
}

func (w *World) removeComponent(e Entity, id component.ComponentID) bool {
	s := w.store(id, false)
	if s == nil {
		return false
	}
	return s.Remove(e)
}

// refresh re-evaluates every live view for e.
func (w *World) refresh(e Entity) {
	alive := w.entities.isAlive(e)
	for _, v := range w.viewList {
		if alive && v.matches(e) {
			v.insert(e)
		} else {
			v.erase(e)
		}
	}
}

// QueueDestroy marks an entity for removal at the next FlushDestroyed. This
// is the gameplay path: collections are never shrunk mid-iteration and views
// stop yielding the entity immediately.
func (w *World) QueueDestroy(e Entity) bool {
	if !w.IsAlive(e) {
		return false
	}
	if _, ok := w.pendingSet[e]; ok {
		return false
	}
	w.pendingSet[e] = struct{}{}
	w.pending = append(w.pending, e)
	return true
}

// IsPendingDestroy reports whether e is queued for deferred removal.
func (w *World) IsPendingDestroy(e Entity) bool {
	if w == nil {
		return false
	}
	_, ok := w.pendingSet[e]
	return ok
}

// PendingDestroyCount returns how many entities are queued for removal.
func (w *World) PendingDestroyCount() int {
	if w == nil {
		return 0
	}
	return len(w.pending)
}

// FlushDestroyed destroys every queued entity in FIFO order and returns how
// many were actually removed.
func (w *World) FlushDestroyed() int {
	if w == nil || len(w.pending) == 0 {
		return 0
	}
	queued := w.pending
	w.pending = nil
	n := 0
	for _, e := range queued {
		delete(w.pendingSet, e)
		if DestroyEntity(w, e) {
			n++
		}
	}
	return n
}
