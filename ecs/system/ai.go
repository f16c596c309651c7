package system

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

// AITuning holds the AI constants shared by every entity.
type AITuning struct {
	Seed              uint64
	WanderMin         float64
	WanderMax         float64
	IdleChance        float64
	FleeDistance      float64
	RecomputeInterval float64
	AvoidRadius       float64
	// StunSpin is the cosmetic stun rotation speed in radians per second.
	StunSpin float64
}

func DefaultAITuning() AITuning {
	return AITuning{
		WanderMin:         2,
		WanderMax:         4,
		IdleChance:        0.3,
		FleeDistance:      200,
		RecomputeInterval: 0.1,
		AvoidRadius:       DefaultAvoidRadius,
		StunSpin:          2 * math.Pi,
	}
}

// AISystem runs the per-entity behavior state machine. It reads aiSensory and
// aiConfig and owns aiState; it never touches velocity or transform.
type AISystem struct {
	Tuning AITuning
	// Paused skips every update, e.g. while a battle is running.
	Paused bool

	log       *zap.Logger
	behaviors map[component.AIStateKind]aiBehavior
}

func NewAISystem(tuning AITuning, log *zap.Logger) *AISystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &AISystem{
		Tuning: tuning,
		log:    log.With(zap.String("system", "ai")),
		behaviors: map[component.AIStateKind]aiBehavior{
			component.AIWander:  wanderState{},
			component.AIChase:   chaseState{},
			component.AIFlee:    fleeState{},
			component.AIStunned: stunnedState{},
		},
	}
}

// aiTick is everything one behavior update may look at.
type aiTick struct {
	sys    *AISystem
	e      ecs.Entity
	cfg    component.AIConfig
	st     *component.AIState
	sense  component.AISensory
	pos    cp.Vector
	dt     float64
	tuning *AITuning
}

func (t *aiTick) transition(to component.AIStateKind) {
	t.sys.log.Debug("transition",
		zap.Stringer("entity", t.e),
		zap.String("from", string(t.st.State)),
		zap.String("to", string(to)))
	t.st.State = to
	t.st.JustEntered = true
}

// sensed reports whether the player is currently visible.
func (t *aiTick) sensed() bool {
	return t.sense.Valid && t.sense.PlayerFound && t.sense.PlayerVisible
}

type aiBehavior interface {
	enter(t *aiTick)
	update(t *aiTick)
}

func (s *AISystem) Update(w *ecs.World, dt float64) {
	if w == nil || s.Paused {
		return
	}
	ecs.ForEach3(w,
		component.AIConfigComponent.Kind(),
		component.AIStateComponent.Kind(),
		component.TransformComponent.Kind(),
		func(e ecs.Entity, cfg *component.AIConfig, st *component.AIState, tr *component.Transform) {
			s.step(w, e, cfg, st, tr, dt)
		})
}

func (s *AISystem) step(w *ecs.World, e ecs.Entity, cfg *component.AIConfig, st *component.AIState, tr *component.Transform, dt float64) {
	if irq, ok := ecs.Get(w, e, component.AIInterruptComponent.Kind()); ok {
		if irq.State.Valid() {
			st.State = irq.State
			st.JustEntered = true
		}
		ecs.Remove(w, e, component.AIInterruptComponent.Kind())
	}
	if !st.State.Valid() {
		st.State = component.AIWander
		st.JustEntered = true
	}

	t := &aiTick{
		sys:    s,
		e:      e,
		cfg:    cfg.WithDefaults(),
		st:     st,
		pos:    cp.Vector{X: tr.X, Y: tr.Y},
		dt:     dt,
		tuning: &s.Tuning,
	}
	// Missing sensory reads as nothing sensed.
	if sense, ok := ecs.Get(w, e, component.AISensoryComponent.Kind()); ok {
		t.sense = *sense
	}
	if t.sensed() {
		st.HasLastKnown = true
		st.LastKnown = t.sense.PlayerPos
	}

	b := s.behaviors[st.State]
	if st.JustEntered {
		st.JustEntered = false
		b.enter(t)
	}
	b.update(t)

	if !finite(st.MoveDir) {
		st.MoveDir = cp.Vector{}
	}
}

// roll returns a deterministic value in [0,1) for the k-th draw of the
// current roll of entity e.
func (t *aiTick) roll(k byte) float64 {
	var buf [25]byte
	binary.LittleEndian.PutUint64(buf[0:], t.tuning.Seed)
	binary.LittleEndian.PutUint64(buf[8:], uint64(t.e))
	binary.LittleEndian.PutUint64(buf[16:], t.st.Rolls)
	buf[24] = k
	return float64(xxhash.Sum64(buf[:])>>11) / (1 << 53)
}

// face turns the entity toward target without moving.
func (t *aiTick) face(target cp.Vector) {
	d := target.Sub(t.pos)
	if d.LengthSq() > 0 {
		t.st.Facing = d.Normalize()
	}
}

// steerTo recomputes the movement direction toward target at most once per
// recompute interval.
func (t *aiTick) steerTo(target cp.Vector) {
	t.st.RecomputeTimer -= t.dt
	if t.st.RecomputeTimer > 0 {
		return
	}
	t.st.RecomputeTimer = t.tuning.RecomputeInterval
	t.st.MoveDir = Steer(t.pos, target, t.sense.Obstacles, t.tuning.AvoidRadius)
	if t.st.MoveDir.LengthSq() > 0 {
		t.st.Facing = t.st.MoveDir
	}
}

func exitRadiusSq(radius, multiplier float64) float64 {
	r := radius * multiplier
	return r * r
}
