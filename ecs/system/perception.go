package system

import (
	"math"
	"slices"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

const (
	DefaultPerceptionInterval = 0.1
	DefaultMaxObstacles       = 4
	DefaultObstacleRange      = 96.0
)

// PerceptionSystem rebuilds aiSensory for every AI entity. Recomputation is
// throttled to Interval seconds of simulated time; between recomputes the
// previous snapshot stands.
type PerceptionSystem struct {
	Interval      float64
	MaxObstacles  int
	ObstacleRange float64

	log     *zap.Logger
	accum   float64
	started bool
}

func NewPerceptionSystem(log *zap.Logger) *PerceptionSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &PerceptionSystem{
		Interval:      DefaultPerceptionInterval,
		MaxObstacles:  DefaultMaxObstacles,
		ObstacleRange: DefaultObstacleRange,
		log:           log.With(zap.String("system", "perception")),
	}
}

func (s *PerceptionSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	s.accum += dt
	if s.started && s.Interval > 0 && s.accum < s.Interval {
		return
	}
	s.started = true
	if s.Interval > 0 && s.accum >= s.Interval {
		s.accum = math.Mod(s.accum, s.Interval)
	} else {
		s.accum = 0
	}
	s.Recompute(w)
}

// Reset makes the next Update recompute immediately.
func (s *PerceptionSystem) Reset() {
	s.accum = 0
	s.started = false
}

// Recompute refreshes every snapshot now, ignoring the throttle.
func (s *PerceptionSystem) Recompute(w *ecs.World) {
	player, playerFound := findPlayer(w)

	ecs.ForEach3(w,
		component.AIConfigComponent.Kind(),
		component.AIStateComponent.Kind(),
		component.TransformComponent.Kind(),
		func(e ecs.Entity, cfg *component.AIConfig, st *component.AIState, tr *component.Transform) {
			sense := s.sense(w, e, cfg.WithDefaults(), st, tr, player, playerFound)
			if out, ok := ecs.Get(w, e, component.AISensoryComponent.Kind()); ok {
				*out = sense
				return
			}
			if err := ecs.Add(w, e, component.AISensoryComponent.Kind(), &sense); err != nil {
				s.log.Warn("attach sensory", zap.Stringer("entity", e), zap.Error(err))
			}
		})
}

func findPlayer(w *ecs.World) (cp.Vector, bool) {
	e, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return cp.Vector{}, false
	}
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return cp.Vector{}, false
	}
	return cp.Vector{X: tr.X, Y: tr.Y}, true
}

func (s *PerceptionSystem) sense(w *ecs.World, self ecs.Entity, cfg component.AIConfig, st *component.AIState, tr *component.Transform, player cp.Vector, playerFound bool) component.AISensory {
	pos := cp.Vector{X: tr.X, Y: tr.Y}
	out := component.AISensory{Valid: finite(pos)}
	if !out.Valid {
		return out
	}

	if playerFound {
		out.PlayerFound = true
		out.DistSq = pos.DistanceSq(player)
		out.PlayerVisible = CanSee(cfg, facingOf(st), pos, player)
		if out.PlayerVisible {
			out.PlayerPos = player
		}
		out.Shortcut = s.findShortcut(w, self, cfg, pos, player, out.DistSq)
	}
	out.Obstacles = s.nearbyObstacles(w, self, pos)
	return out
}

func facingOf(st *component.AIState) cp.Vector {
	if st == nil || st.Facing.LengthSq() == 0 {
		return cp.Vector{X: 1}
	}
	return st.Facing
}

// CanSee applies the vision shape of cfg from pos looking along facing.
func CanSee(cfg component.AIConfig, facing, pos, target cp.Vector) bool {
	d := target.Sub(pos)
	distSq := d.LengthSq()
	if distSq > cfg.VisionRadius*cfg.VisionRadius {
		return false
	}
	if cfg.VisionShape != component.VisionCone || distSq == 0 {
		return true
	}

	along := d.Dot(facing)
	if along <= 0 {
		return false
	}
	// Top-down bias: a target roughly level with the entity on the facing side
	// is seen even outside the aperture.
	if cfg.MinVerticalRatio > 0 && math.Abs(d.Y) <= cfg.MinVerticalRatio*math.Abs(d.X) && d.X*facing.X > 0 {
		return true
	}
	cosHalf := math.Cos(cfg.VisionAngle * math.Pi / 360)
	if cosHalf <= 0 {
		return true
	}
	// along/(|d||f|) >= cos(half), squared.
	return along*along >= cosHalf*cosHalf*distSq*facing.LengthSq()
}

func (s *PerceptionSystem) findShortcut(w *ecs.World, self ecs.Entity, cfg component.AIConfig, pos, player cp.Vector, directSq float64) *component.ShortcutSense {
	idx := w.SpatialIndex()
	if idx == nil || cfg.VisionRadius <= 0 {
		return nil
	}
	r := cfg.VisionRadius
	direct := math.Sqrt(directSq)

	var best *component.ShortcutSense
	for _, cand := range idx.Query(cp.BB{L: pos.X - r, B: pos.Y - r, R: pos.X + r, T: pos.Y + r}) {
		if cand == self || w.IsPendingDestroy(cand) {
			continue
		}
		portal, ok := ecs.Get(w, cand, component.PortalComponent.Kind())
		if !ok || !portal.InMap() {
			continue
		}
		ptr, ok := ecs.Get(w, cand, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		at := cp.Vector{X: ptr.X, Y: ptr.Y}
		toPortalSq := pos.DistanceSq(at)
		if toPortalSq > r*r {
			continue
		}
		dest := cp.Vector{X: portal.DestX, Y: portal.DestY}
		detour := math.Sqrt(toPortalSq) + dest.Distance(player)
		if detour >= direct {
			continue
		}
		if best == nil || detour < best.Detour {
			best = &component.ShortcutSense{
				Portal: component.EntityRef(cand),
				Pos:    at,
				Dest:   dest,
				Detour: detour,
			}
		}
	}
	return best
}

func (s *PerceptionSystem) nearbyObstacles(w *ecs.World, self ecs.Entity, pos cp.Vector) []component.ObstacleSense {
	idx := w.SpatialIndex()
	if idx == nil || s.MaxObstacles <= 0 || s.ObstacleRange <= 0 {
		return nil
	}
	r := s.ObstacleRange
	var out []component.ObstacleSense
	for _, cand := range idx.Query(cp.BB{L: pos.X - r, B: pos.Y - r, R: pos.X + r, T: pos.Y + r}) {
		if cand == self || !ecs.Has(w, cand, component.ObstacleTagComponent.Kind()) {
			continue
		}
		tr, ok := ecs.Get(w, cand, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		center := cp.Vector{X: tr.X, Y: tr.Y}
		radius := 0.0
		if col, ok := ecs.Get(w, cand, component.ColliderComponent.Kind()); ok {
			center = col.Center(tr.X, tr.Y)
			radius = col.BoundingRadius()
		}
		distSq := pos.DistanceSq(center)
		reach := r + radius
		if distSq > reach*reach {
			continue
		}
		out = append(out, component.ObstacleSense{
			Entity: component.EntityRef(cand),
			Pos:    center,
			Radius: radius,
			DistSq: distSq,
		})
	}
	slices.SortStableFunc(out, func(a, b component.ObstacleSense) int {
		switch {
		case a.DistSq < b.DistSq:
			return -1
		case a.DistSq > b.DistSq:
			return 1
		}
		return 0
	})
	if len(out) > s.MaxObstacles {
		out = out[:s.MaxObstacles]
	}
	return out
}

func finite(v cp.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
