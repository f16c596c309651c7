package system

import (
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

const (
	DefaultProjectileSpeed = 320.0
	EventEnemyDefeated     = ecs.EventType("enemy.defeated")
)

// ProjectileSystem fires projectiles on the player's fire press and resolves
// hits. Firing goes through the global command queue so the projectile is
// created in the actions phase, not during this query.
type ProjectileSystem struct {
	Speed  float64
	events *ecs.EventQueue
	log    *zap.Logger
	aim    map[ecs.Entity]cp.Vector
}

func NewProjectileSystem(events *ecs.EventQueue, log *zap.Logger) *ProjectileSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectileSystem{
		Speed:  DefaultProjectileSpeed,
		events: events,
		log:    log.With(zap.String("system", "projectile")),
		aim:    make(map[ecs.Entity]cp.Vector),
	}
}

func (s *ProjectileSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	s.fire(w)
	s.resolveHits(w)
}

func (s *ProjectileSystem) fire(w *ecs.World) {
	ecs.ForEach2(w,
		component.InputComponent.Kind(),
		component.TransformComponent.Kind(),
		func(e ecs.Entity, in *component.Input, tr *component.Transform) {
			if in.MoveX != 0 || in.MoveY != 0 {
				s.aim[e] = cp.Vector{X: in.MoveX, Y: in.MoveY}.Normalize()
			}
			if !in.FirePressed {
				return
			}
			dir, ok := s.aim[e]
			if !ok {
				dir = cp.Vector{X: 1}
			}
			cmds, ok := globalCommands(w)
			if !ok {
				s.log.Warn("fire without global command queue", zap.Stringer("entity", e))
				return
			}
			cmds.Push(component.Command{
				Kind:      component.CommandCreate,
				Archetype: "projectile",
				Data: map[string]any{
					"x":     tr.X,
					"y":     tr.Y,
					"vx":    dir.X * s.Speed,
					"vy":    dir.Y * s.Speed,
					"owner": uint64(e),
				},
			})
		})
}

func (s *ProjectileSystem) resolveHits(w *ecs.World) {
	ecs.ForEach(w, component.ProjectileComponent.Kind(), func(e ecs.Entity, p *component.Projectile) {
		for _, target := range overlapping(w, e) {
			if component.EntityRef(target) == p.Owner || !ecs.Has(w, target, component.AIStateComponent.Kind()) {
				continue
			}
			if p.Stun {
				_ = ecs.Add(w, target, component.AIInterruptComponent.Kind(), &component.AIInterrupt{State: component.AIStunned})
			}
			if hp, ok := ecs.Get(w, target, component.HealthComponent.Kind()); ok {
				hp.Current -= p.Damage
				if hp.Dead() && w.QueueDestroy(target) {
					s.events.Emit(EventEnemyDefeated, uint64(target))
				}
			}
			w.QueueDestroy(e)
			return
		}
	})
}

// globalCommands returns the command queue held by the global entity.
func globalCommands(w *ecs.World) (*component.Commands, bool) {
	g, ok := ecs.First(w, component.GlobalTagComponent.Kind())
	if !ok {
		return nil, false
	}
	return ecs.Get(w, g, component.CommandsComponent.Kind())
}
