package system

import (
	"go.uber.org/zap"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

const DefaultRunMultiplier = 1.6

// ControlSystem converts intent into velocity: the AI move direction scaled
// by its speed, and the player's input scaled by player speed.
type ControlSystem struct {
	log *zap.Logger
}

func NewControlSystem(log *zap.Logger) *ControlSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &ControlSystem{log: log.With(zap.String("system", "control"))}
}

func (s *ControlSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}

	ecs.ForEach3(w,
		component.AIStateComponent.Kind(),
		component.AIConfigComponent.Kind(),
		component.VelocityComponent.Kind(),
		func(_ ecs.Entity, st *component.AIState, cfg *component.AIConfig, vel *component.Velocity) {
			vel.X = st.MoveDir.X * cfg.Speed
			vel.Y = st.MoveDir.Y * cfg.Speed
		})

	ecs.ForEach2(w,
		component.InputComponent.Kind(),
		component.VelocityComponent.Kind(),
		func(e ecs.Entity, in *component.Input, vel *component.Velocity) {
			pc, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
			if !ok {
				s.log.Warn("input entity without player control", zap.Stringer("entity", e))
				vel.X, vel.Y = 0, 0
				return
			}
			speed := pc.Speed
			if in.Run {
				mult := pc.RunMultiplier
				if mult <= 0 {
					mult = DefaultRunMultiplier
				}
				speed *= mult
			}
			vel.X = in.MoveX * speed
			vel.Y = in.MoveY * speed
		})
}
