package component

import "github.com/jakecoffman/cp"

// AIStateKind is the closed set of AI behavior states.
type AIStateKind string

const (
	AIWander  AIStateKind = "wander"
	AIChase   AIStateKind = "chase"
	AIFlee    AIStateKind = "flee"
	AIStunned AIStateKind = "stunned"
)

func (k AIStateKind) Valid() bool {
	switch k {
	case AIWander, AIChase, AIFlee, AIStunned:
		return true
	}
	return false
}

// AIState is the mutable runtime state owned by the AI system.
type AIState struct {
	State AIStateKind
	// JustEntered is set by every transition and cleared by the entry logic
	// of the new state.
	JustEntered bool

	MoveDir   cp.Vector
	Facing    cp.Vector
	Suspicion float64

	// Timer is the state-local countdown: the wander re-roll or the stun.
	Timer          float64
	LostTimer      float64
	RecomputeTimer float64
	Idle           bool

	HasLastKnown bool
	LastKnown    cp.Vector

	StunRotation float64
	Rolls        uint64
}

var AIStateComponent = NewComponent[AIState]("aiState")
