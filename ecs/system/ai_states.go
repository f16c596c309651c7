package system

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

// timerEpsilon absorbs the rounding left by subtracting a fractional dt,
// so a timer expires on the tick that reaches its duration.
const timerEpsilon = 1e-9

func expired(timer float64) bool {
	return timer <= timerEpsilon
}

// trackTarget refreshes the lost-target window while the player is sensed
// and runs it down otherwise. It reports whether the window ran out.
func trackTarget(t *aiTick) bool {
	if t.sensed() {
		t.st.LostTimer = t.cfg.LostTargetTimeout
		return false
	}
	t.st.LostTimer -= t.dt
	return expired(t.st.LostTimer)
}

type wanderState struct{}

func (wanderState) enter(t *aiTick) {
	t.st.Suspicion = 0
	t.st.Timer = 0
	t.st.MoveDir = cp.Vector{}
	t.st.StunRotation = 0
	t.st.HasLastKnown = false
}

func (wanderState) update(t *aiTick) {
	st := t.st
	visible := t.sensed()

	switch {
	case visible && t.cfg.SuspicionRate <= 0:
		st.Suspicion = 1
	case visible:
		st.Suspicion = math.Min(1, st.Suspicion+t.cfg.SuspicionRate*t.dt)
	case t.cfg.SuspicionDecay <= 0:
		st.Suspicion = 0
	default:
		st.Suspicion = math.Max(0, st.Suspicion-t.cfg.SuspicionDecay*t.dt)
	}

	if st.Suspicion >= 1 {
		switch t.cfg.Behavior {
		case component.BehaviorChase:
			t.transition(component.AIChase)
			return
		case component.BehaviorFlee:
			t.transition(component.AIFlee)
			return
		}
	}
	if visible && st.Suspicion > 0 {
		st.MoveDir = cp.Vector{}
		t.face(t.sense.PlayerPos)
		return
	}

	st.Timer -= t.dt
	if !expired(st.Timer) {
		return
	}
	tu := t.tuning
	st.Timer = tu.WanderMin + t.roll(0)*(tu.WanderMax-tu.WanderMin)
	st.Idle = t.roll(1) < tu.IdleChance
	heading := t.roll(2) * 2 * math.Pi
	st.Rolls++
	if st.Idle {
		st.MoveDir = cp.Vector{}
		return
	}
	st.MoveDir = cp.Vector{X: math.Cos(heading), Y: math.Sin(heading)}
	st.Facing = st.MoveDir
}

type chaseState struct{}

func (chaseState) enter(t *aiTick) {
	t.st.LostTimer = t.cfg.LostTargetTimeout
	t.st.RecomputeTimer = 0
}

func (chaseState) update(t *aiTick) {
	st := t.st
	if trackTarget(t) {
		t.transition(component.AIWander)
		return
	}
	if t.sense.Valid && t.sense.PlayerFound && t.sense.DistSq > exitRadiusSq(t.cfg.VisionRadius, t.cfg.ChaseExitMultiplier) {
		t.transition(component.AIWander)
		return
	}

	switch {
	case t.sense.Shortcut != nil:
		t.steerTo(t.sense.Shortcut.Pos)
	case t.sensed():
		t.steerTo(t.sense.PlayerPos)
	case st.HasLastKnown:
		t.steerTo(st.LastKnown)
	default:
		st.MoveDir = cp.Vector{}
	}
}

type fleeState struct{}

func (fleeState) enter(t *aiTick) {
	t.st.LostTimer = t.cfg.LostTargetTimeout
	t.st.RecomputeTimer = 0
}

func (fleeState) update(t *aiTick) {
	st := t.st
	if trackTarget(t) {
		t.transition(component.AIWander)
		return
	}
	if t.sense.Valid && t.sense.PlayerFound && t.sense.DistSq > exitRadiusSq(t.cfg.VisionRadius, t.cfg.FleeExitMultiplier) {
		t.transition(component.AIWander)
		return
	}

	threat := t.sense.PlayerPos
	if !t.sensed() {
		if !st.HasLastKnown {
			st.MoveDir = cp.Vector{}
			return
		}
		threat = st.LastKnown
	}
	away := t.pos.Sub(threat)
	if away.LengthSq() == 0 {
		away = st.Facing.Neg()
		if away.LengthSq() == 0 {
			away = cp.Vector{X: 1}
		}
	}
	t.steerTo(t.pos.Add(away.Normalize().Mult(t.tuning.FleeDistance)))
}

type stunnedState struct{}

func (stunnedState) enter(t *aiTick) {
	t.st.MoveDir = cp.Vector{}
	t.st.Timer = t.cfg.StunDuration
	t.st.StunRotation = 0
}

func (stunnedState) update(t *aiTick) {
	st := t.st
	st.MoveDir = cp.Vector{}
	st.Timer -= t.dt
	st.StunRotation = math.Mod(st.StunRotation+t.tuning.StunSpin*t.dt, 2*math.Pi)
	if expired(st.Timer) {
		t.transition(component.AIWander)
	}
}
