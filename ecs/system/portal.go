package system

import (
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

type contact struct {
	portal ecs.Entity
	mover  ecs.Entity
}

// PortalSystem raises action requests when a mover steps onto a portal. The
// player entering a map portal requests a map switch sourced at the portal;
// any mover entering an in-map portal gets a teleport intent. A request is
// raised once per contact; the mover has to leave before it fires again.
// A mover that already declared an intent this frame keeps it and the
// teleport is retried on the next frame.
type PortalSystem struct {
	queue   *ecs.ActionQueue
	touched map[contact]bool
}

func NewPortalSystem(queue *ecs.ActionQueue) *PortalSystem {
	return &PortalSystem{queue: queue, touched: make(map[contact]bool)}
}

func (s *PortalSystem) Update(w *ecs.World, _ float64) {
	if w == nil || s.queue == nil {
		return
	}
	current := make(map[contact]bool)

	visit := func(mover ecs.Entity, isPlayer bool) {
		if w.IsPendingDestroy(mover) {
			return
		}
		for _, other := range overlapping(w, mover) {
			portal, ok := ecs.Get(w, other, component.PortalComponent.Kind())
			if !ok {
				continue
			}
			c := contact{portal: other, mover: mover}
			current[c] = true
			if s.touched[c] {
				continue
			}
			switch {
			case portal.InMap():
				if ecs.Has(w, mover, component.IntentComponent.Kind()) {
					delete(current, c)
					continue
				}
				_ = ecs.Add(w, mover, component.IntentComponent.Kind(), &component.Intent{
					Kind: component.IntentTeleport,
					X:    portal.DestX,
					Y:    portal.DestY,
				})
				s.queue.Push(mover)
			case isPlayer:
				s.queue.Push(other)
			}
		}
	}

	w.With(component.PlayerTagComponent, component.ColliderComponent).Each(func(e ecs.Entity) {
		visit(e, true)
	})
	w.With(component.AIStateComponent, component.ColliderComponent).Each(func(e ecs.Entity) {
		visit(e, false)
	})

	s.touched = current
}

// Reset forgets every contact, e.g. after a scene change.
func (s *PortalSystem) Reset() {
	clear(s.touched)
}

// MapPortalRoute matches sources that are map-switch portals.
func MapPortalRoute(handle func(w *ecs.World, portal ecs.Entity, p component.Portal)) ActionRoute {
	return ActionRoute{
		Name: "portal.map",
		Match: func(w *ecs.World, source ecs.Entity) bool {
			p, ok := ecs.Get(w, source, component.PortalComponent.Kind())
			return ok && !p.InMap()
		},
		Handle: func(w *ecs.World, source ecs.Entity) {
			if p, ok := ecs.Get(w, source, component.PortalComponent.Kind()); ok {
				handle(w, source, *p)
			}
		},
	}
}
