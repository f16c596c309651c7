package system

import (
	"math"

	"go.uber.org/zap"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

// MovementSystem integrates velocity into position with explicit Euler and
// then clamps to per-entity and map bounds, each axis on its own.
type MovementSystem struct {
	log *zap.Logger
}

func NewMovementSystem(log *zap.Logger) *MovementSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &MovementSystem{log: log.With(zap.String("system", "movement"))}
}

func (s *MovementSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	var level *component.LevelBounds
	if e, ok := ecs.First(w, component.LevelBoundsComponent.Kind()); ok {
		level, _ = ecs.Get(w, e, component.LevelBoundsComponent.Kind())
	}

	ecs.ForEach2(w,
		component.TransformComponent.Kind(),
		component.VelocityComponent.Kind(),
		func(e ecs.Entity, tr *component.Transform, vel *component.Velocity) {
			if !finiteScalar(vel.X) || !finiteScalar(vel.Y) {
				s.log.Warn("non-finite velocity zeroed", zap.Stringer("entity", e))
				vel.X, vel.Y = 0, 0
				return
			}
			if !finiteScalar(dt) || dt <= 0 {
				return
			}
			tr.X += vel.X * dt
			tr.Y += vel.Y * dt

			b, ok := ecs.Get(w, e, component.BoundsComponent.Kind())
			if !ok {
				return
			}
			tr.X = clamp(tr.X, b.MinX, b.MaxX)
			tr.Y = clamp(tr.Y, b.MinY, b.MaxY)
			if b.UseMapBounds && level != nil {
				tr.X = clamp(tr.X, 0, level.Width)
				tr.Y = clamp(tr.Y, 0, level.Height)
			}
		})
}

// clamp leaves v alone on an axis whose range is empty or inverted, so a
// zero-valued bound pair means "unbounded".
func clamp(v, lo, hi float64) float64 {
	if lo >= hi {
		return v
	}
	return math.Max(lo, math.Min(v, hi))
}

func finiteScalar(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
