package ecs

import (
	"slices"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

// Attach makes child a dependent of parent. Any previous parent link is
// dropped first.
func Attach(w *World, parent, child Entity, offsetX, offsetY float64) bool {
	if !w.IsAlive(parent) || !w.IsAlive(child) || parent == child {
		return false
	}
	if p, ok := Get(w, child, component.ParentComponent.Kind()); ok {
		detachChild(w, Entity(p.Entity), child)
	}
	_ = Add(w, child, component.ParentComponent.Kind(), &component.Parent{
		Entity:  component.EntityRef(parent),
		OffsetX: offsetX,
		OffsetY: offsetY,
	})

	children, ok := Get(w, parent, component.ChildrenComponent.Kind())
	if !ok {
		children = &component.Children{}
		_ = Add(w, parent, component.ChildrenComponent.Kind(), children)
	}
	if !slices.Contains(children.Entities, component.EntityRef(child)) {
		children.Entities = append(children.Entities, component.EntityRef(child))
	}
	return true
}

// Detach removes the parent link of child without destroying anything.
func Detach(w *World, child Entity) bool {
	p, ok := Get(w, child, component.ParentComponent.Kind())
	if !ok {
		return false
	}
	detachChild(w, Entity(p.Entity), child)
	return Remove(w, child, component.ParentComponent.Kind())
}

func detachChild(w *World, parent, child Entity) {
	children, ok := Get(w, parent, component.ChildrenComponent.Kind())
	if !ok {
		return
	}
	children.Entities = slices.DeleteFunc(children.Entities, func(ref component.EntityRef) bool {
		return Entity(ref) == child
	})
}

// Orphans returns entities whose parent link points at a dead entity.
func Orphans(w *World) []Entity {
	var out []Entity
	ForEach(w, component.ParentComponent.Kind(), func(e Entity, p *component.Parent) {
		if !w.IsAlive(Entity(p.Entity)) {
			out = append(out, e)
		}
	})
	return out
}
