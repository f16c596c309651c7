package ecs

import "sort"

// Phase orders systems inside one tick.
type Phase int

const (
	PhaseInput      Phase = iota // raw input to intent
	PhasePerception              // sensory snapshots
	PhaseDecision                // AI state machine
	PhaseControl                 // intent to velocity
	PhaseMovement                // integration and clamping, spatial rebuild
	PhaseGameplay                // overlap-driven gameplay, signals
	PhaseActions                 // deferred action dispatch
	PhaseCleanup                 // deferred destruction
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePerception:
		return "perception"
	case PhaseDecision:
		return "decision"
	case PhaseControl:
		return "control"
	case PhaseMovement:
		return "movement"
	case PhaseGameplay:
		return "gameplay"
	case PhaseActions:
		return "actions"
	case PhaseCleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}

// System updates a world once per tick. dt is simulated seconds.
type System interface {
	Update(w *World, dt float64)
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World, dt float64)

func (f SystemFunc) Update(w *World, dt float64) { f(w, dt) }

type scheduled struct {
	phase  Phase
	system System
}

// Scheduler runs systems in phase order; systems sharing a phase keep their
// registration order.
type Scheduler struct {
	systems []scheduled
	sorted  bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Add(phase Phase, system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, scheduled{phase: phase, system: system})
	s.sorted = false
}

func (s *Scheduler) Update(w *World, dt float64) {
	s.ensureSorted()
	for _, entry := range s.systems {
		entry.system.Update(w, dt)
	}
}

// UpdatePhase runs only the systems registered for phase.
func (s *Scheduler) UpdatePhase(w *World, phase Phase, dt float64) {
	s.ensureSorted()
	for _, entry := range s.systems {
		if entry.phase == phase {
			entry.system.Update(w, dt)
		}
	}
}

func (s *Scheduler) Systems() []System {
	s.ensureSorted()
	systems := make([]System, 0, len(s.systems))
	for _, entry := range s.systems {
		systems = append(systems, entry.system)
	}
	return systems
}

func (s *Scheduler) ensureSorted() {
	if s.sorted {
		return
	}
	sort.SliceStable(s.systems, func(i, j int) bool {
		return s.systems[i].phase < s.systems[j].phase
	})
	s.sorted = true
}
