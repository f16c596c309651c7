package system

import (
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

// LifetimeSystem counts lifetimes down by simulated time and queues expired
// auto-destroy entities for removal.
type LifetimeSystem struct{}

func NewLifetimeSystem() *LifetimeSystem {
	return &LifetimeSystem{}
}

func (s *LifetimeSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.LifetimeComponent.Kind(), func(e ecs.Entity, lt *component.Lifetime) {
		if lt.Remaining > 0 {
			lt.Remaining -= dt
			if lt.Remaining > 0 {
				return
			}
		}
		if lt.AutoDestroy {
			w.QueueDestroy(e)
		}
	})
}
