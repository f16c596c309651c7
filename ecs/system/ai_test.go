package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/require"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

func spawnAI(w *ecs.World, cfg component.AIConfig, state component.AIStateKind, sense component.AISensory) ecs.Entity {
	return ecs.Spawn(w,
		ecs.Bind(component.TransformComponent.Kind(), &component.Transform{}),
		ecs.Bind(component.AIConfigComponent.Kind(), &cfg),
		ecs.Bind(component.AIStateComponent.Kind(), &component.AIState{State: state, JustEntered: true}),
		ecs.Bind(component.AISensoryComponent.Kind(), &sense),
	)
}

func aiState(t *testing.T, w *ecs.World, e ecs.Entity) *component.AIState {
	t.Helper()
	st, ok := ecs.Get(w, e, component.AIStateComponent.Kind())
	require.True(t, ok)
	return st
}

func setSense(t *testing.T, w *ecs.World, e ecs.Entity, sense component.AISensory) {
	t.Helper()
	out, ok := ecs.Get(w, e, component.AISensoryComponent.Kind())
	require.True(t, ok)
	*out = sense
}

func TestChaseExitHysteresis(t *testing.T) {
	tests := []struct {
		name   string
		distSq float64
		want   component.AIStateKind
	}{
		{"inside_radius", 100 * 100 * 0.5, component.AIChase},
		{"exactly_at_exit", 100 * 100 * 2.25, component.AIChase},
		{"just_beyond_exit", 100 * 100 * 2.26, component.AIWander},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			sys := NewAISystem(DefaultAITuning(), nil)
			cfg := component.AIConfig{Behavior: component.BehaviorChase, VisionRadius: 100, Speed: 50}
			e := spawnAI(w, cfg, component.AIChase, component.AISensory{
				Valid:         true,
				PlayerFound:   true,
				PlayerVisible: true,
				DistSq:        50 * 50,
				PlayerPos:     cp.Vector{X: 50},
			})

			sys.Update(w, 0.1)
			require.Equal(t, component.AIChase, aiState(t, w, e).State)

			setSense(t, w, e, component.AISensory{Valid: true, PlayerFound: true, DistSq: tc.distSq})
			sys.Update(w, 0.1)
			require.Equal(t, tc.want, aiState(t, w, e).State)
		})
	}
}

func TestChaseLostTargetTimeout(t *testing.T) {
	tests := []struct {
		name  string
		dt    float64
		ticks int
		want  component.AIStateKind
	}{
		{"timeout_minus_one_tick", 0.5, 19, component.AIChase},
		{"exact_timeout", 0.5, 20, component.AIWander},
		{"tenth_second_minus_one_tick", 0.1, 99, component.AIChase},
		{"tenth_second_exact", 0.1, 100, component.AIWander},
		{"thirty_hz_minus_one_tick", 1.0 / 30, 299, component.AIChase},
		{"thirty_hz_exact", 1.0 / 30, 300, component.AIWander},
		{"sixty_hz_exact", 1.0 / 60, 600, component.AIWander},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			sys := NewAISystem(DefaultAITuning(), nil)
			cfg := component.AIConfig{Behavior: component.BehaviorChase, VisionRadius: 100}
			e := spawnAI(w, cfg, component.AIChase, component.AISensory{Valid: true, PlayerFound: true, DistSq: 120 * 120})

			for i := 0; i < tc.ticks; i++ {
				sys.Update(w, tc.dt)
			}
			require.Equal(t, tc.want, aiState(t, w, e).State)
		})
	}
}

func TestChaseLostTargetTimeoutIsConfigurable(t *testing.T) {
	w := ecs.NewWorld()
	sys := NewAISystem(DefaultAITuning(), nil)
	cfg := component.AIConfig{Behavior: component.BehaviorChase, VisionRadius: 100, LostTargetTimeout: 1}
	e := spawnAI(w, cfg, component.AIChase, component.AISensory{Valid: true})

	sys.Update(w, 0.5)
	require.Equal(t, component.AIChase, aiState(t, w, e).State)
	sys.Update(w, 0.5)
	require.Equal(t, component.AIWander, aiState(t, w, e).State)
}

func TestChaseRefreshesTimerWhileVisible(t *testing.T) {
	w := ecs.NewWorld()
	sys := NewAISystem(DefaultAITuning(), nil)
	cfg := component.AIConfig{Behavior: component.BehaviorChase, VisionRadius: 100}
	visible := component.AISensory{Valid: true, PlayerFound: true, PlayerVisible: true, DistSq: 400, PlayerPos: cp.Vector{X: 20}}
	e := spawnAI(w, cfg, component.AIChase, visible)

	for i := 0; i < 19; i++ {
		sys.Update(w, 0.5)
	}
	setSense(t, w, e, component.AISensory{Valid: true, PlayerFound: true, DistSq: 400})
	for i := 0; i < 19; i++ {
		sys.Update(w, 0.5)
	}
	st := aiState(t, w, e)
	require.Equal(t, component.AIChase, st.State)
	require.True(t, st.HasLastKnown)
	require.Equal(t, cp.Vector{X: 20}, st.LastKnown)
	require.Greater(t, st.MoveDir.X, 0.0, "keeps heading for the last known position")
}

func TestStunnedDeterminism(t *testing.T) {
	w := ecs.NewWorld()
	sys := NewAISystem(DefaultAITuning(), nil)
	cfg := component.AIConfig{Behavior: component.BehaviorChase, VisionRadius: 100, StunDuration: 2}
	e := spawnAI(w, cfg, component.AIWander, component.AISensory{})
	require.NoError(t, ecs.Add(w, e, component.AIInterruptComponent.Kind(), &component.AIInterrupt{State: component.AIStunned}))

	for i := 1; i <= 3; i++ {
		sys.Update(w, 0.5)
		st := aiState(t, w, e)
		require.Equal(t, component.AIStunned, st.State, "tick %d", i)
		require.Zero(t, st.MoveDir.LengthSq())
	}
	require.False(t, ecs.Has(w, e, component.AIInterruptComponent.Kind()), "interrupt is consumed")

	sys.Update(w, 0.5)
	st := aiState(t, w, e)
	require.Equal(t, component.AIWander, st.State)
	require.True(t, st.JustEntered)
}

func TestWanderSuspicion(t *testing.T) {
	tests := []struct {
		name     string
		behavior component.BehaviorFamily
		rate     float64
		ticks    int
		want     component.AIStateKind
	}{
		{"instant_chase", component.BehaviorChase, 0, 1, component.AIChase},
		{"instant_flee", component.BehaviorFlee, 0, 1, component.AIFlee},
		{"passive_never_leaves", component.BehaviorPassive, 0, 5, component.AIWander},
		{"gradual_not_yet", component.BehaviorChase, 1, 7, component.AIWander},
		{"gradual_reaches_one", component.BehaviorChase, 1, 8, component.AIChase},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			sys := NewAISystem(DefaultAITuning(), nil)
			cfg := component.AIConfig{Behavior: tc.behavior, VisionRadius: 100, SuspicionRate: tc.rate}
			e := spawnAI(w, cfg, component.AIWander, component.AISensory{
				Valid:         true,
				PlayerFound:   true,
				PlayerVisible: true,
				DistSq:        900,
				PlayerPos:     cp.Vector{X: -30},
			})
			for i := 0; i < tc.ticks; i++ {
				sys.Update(w, 0.125)
			}
			require.Equal(t, tc.want, aiState(t, w, e).State)
		})
	}
}

func TestWanderFacesPlayerWhileSuspicious(t *testing.T) {
	w := ecs.NewWorld()
	sys := NewAISystem(DefaultAITuning(), nil)
	cfg := component.AIConfig{Behavior: component.BehaviorChase, VisionRadius: 100, SuspicionRate: 0.5}
	e := spawnAI(w, cfg, component.AIWander, component.AISensory{
		Valid: true, PlayerFound: true, PlayerVisible: true, DistSq: 900, PlayerPos: cp.Vector{X: -30},
	})

	sys.Update(w, 0.5)
	st := aiState(t, w, e)
	require.Equal(t, component.AIWander, st.State)
	require.InDelta(t, 0.25, st.Suspicion, 1e-9)
	require.Zero(t, st.MoveDir.LengthSq())
	require.InDelta(t, -1, st.Facing.X, 1e-9)
}

func TestWanderRollsAreDeterministic(t *testing.T) {
	run := func() []cp.Vector {
		w := ecs.NewWorld()
		sys := NewAISystem(DefaultAITuning(), nil)
		sys.Tuning.Seed = 7
		e := spawnAI(w, component.AIConfig{VisionRadius: 10}, component.AIWander, component.AISensory{})
		var dirs []cp.Vector
		for i := 0; i < 40; i++ {
			sys.Update(w, 0.5)
			dirs = append(dirs, aiState(t, w, e).MoveDir)
		}
		return dirs
	}
	require.Equal(t, run(), run())

	w := ecs.NewWorld()
	sys := NewAISystem(DefaultAITuning(), nil)
	e := spawnAI(w, component.AIConfig{VisionRadius: 10}, component.AIWander, component.AISensory{})
	sys.Update(w, 0.1)
	st := aiState(t, w, e)
	require.GreaterOrEqual(t, st.Timer, 2.0)
	require.LessOrEqual(t, st.Timer, 4.0)
	require.EqualValues(t, 1, st.Rolls)
}

func TestFleeExit(t *testing.T) {
	tests := []struct {
		name       string
		multiplier float64
		distSq     float64
		want       component.AIStateKind
	}{
		{"default_inside", 0, 100 * 100 * 2.25, component.AIFlee},
		{"default_beyond", 0, 100 * 100 * 2.26, component.AIWander},
		{"custom_multiplier", 2, 100 * 100 * 3.9, component.AIFlee},
		{"custom_multiplier_beyond", 2, 100 * 100 * 4.1, component.AIWander},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			sys := NewAISystem(DefaultAITuning(), nil)
			cfg := component.AIConfig{Behavior: component.BehaviorFlee, VisionRadius: 100, FleeExitMultiplier: tc.multiplier}
			e := spawnAI(w, cfg, component.AIFlee, component.AISensory{
				Valid: true, PlayerFound: true, PlayerVisible: true, DistSq: tc.distSq, PlayerPos: cp.Vector{X: 10},
			})
			sys.Update(w, 0.1)
			require.Equal(t, tc.want, aiState(t, w, e).State)
		})
	}
}

func TestFleeMovesAwayFromPlayer(t *testing.T) {
	w := ecs.NewWorld()
	sys := NewAISystem(DefaultAITuning(), nil)
	cfg := component.AIConfig{Behavior: component.BehaviorFlee, VisionRadius: 100}
	e := spawnAI(w, cfg, component.AIFlee, component.AISensory{
		Valid: true, PlayerFound: true, PlayerVisible: true, DistSq: 900, PlayerPos: cp.Vector{X: 30},
	})
	sys.Update(w, 0.1)
	require.Less(t, aiState(t, w, e).MoveDir.X, 0.0)
}

func TestChasePrefersShortcut(t *testing.T) {
	w := ecs.NewWorld()
	sys := NewAISystem(DefaultAITuning(), nil)
	cfg := component.AIConfig{Behavior: component.BehaviorChase, VisionRadius: 100}
	e := spawnAI(w, cfg, component.AIChase, component.AISensory{
		Valid:         true,
		PlayerFound:   true,
		PlayerVisible: true,
		DistSq:        900,
		PlayerPos:     cp.Vector{X: 30},
		Shortcut:      &component.ShortcutSense{Pos: cp.Vector{Y: 50}},
	})
	sys.Update(w, 0.1)
	dir := aiState(t, w, e).MoveDir
	require.InDelta(t, 1, dir.Y, 1e-9)
}

func TestMissingSensoryIsNoTarget(t *testing.T) {
	w := ecs.NewWorld()
	sys := NewAISystem(DefaultAITuning(), nil)
	cfg := component.AIConfig{Behavior: component.BehaviorChase, VisionRadius: 100}
	e := ecs.Spawn(w,
		ecs.Bind(component.TransformComponent.Kind(), &component.Transform{}),
		ecs.Bind(component.AIConfigComponent.Kind(), &cfg),
		ecs.Bind(component.AIStateComponent.Kind(), &component.AIState{}),
	)
	require.NotPanics(t, func() { sys.Update(w, 0.1) })
	st := aiState(t, w, e)
	require.Equal(t, component.AIWander, st.State)
	require.Zero(t, st.Suspicion)
}

func TestStunnedExpiresOnExactTick(t *testing.T) {
	tests := []struct {
		name  string
		dt    float64
		ticks int
	}{
		{"half_second", 0.5, 4},
		{"tenth_second", 0.1, 20},
		{"thirty_hz", 1.0 / 30, 60},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			sys := NewAISystem(DefaultAITuning(), nil)
			cfg := component.AIConfig{Behavior: component.BehaviorChase, VisionRadius: 100, StunDuration: 2}
			e := spawnAI(w, cfg, component.AIWander, component.AISensory{})
			require.NoError(t, ecs.Add(w, e, component.AIInterruptComponent.Kind(), &component.AIInterrupt{State: component.AIStunned}))

			for i := 1; i < tc.ticks; i++ {
				sys.Update(w, tc.dt)
				require.Equal(t, component.AIStunned, aiState(t, w, e).State, "tick %d", i)
			}
			sys.Update(w, tc.dt)
			require.Equal(t, component.AIWander, aiState(t, w, e).State)
		})
	}
}

func TestFleeLostTargetTimeout(t *testing.T) {
	tests := []struct {
		name  string
		sense component.AISensory
		ticks int
		want  component.AIStateKind
	}{
		{"hidden_minus_one_tick", component.AISensory{Valid: true, PlayerFound: true, DistSq: 120 * 120}, 29, component.AIFlee},
		{"hidden_exact", component.AISensory{Valid: true, PlayerFound: true, DistSq: 120 * 120}, 30, component.AIWander},
		{"no_sensory_exact", component.AISensory{}, 30, component.AIWander},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			sys := NewAISystem(DefaultAITuning(), nil)
			cfg := component.AIConfig{Behavior: component.BehaviorFlee, VisionRadius: 100, LostTargetTimeout: 3}
			e := spawnAI(w, cfg, component.AIFlee, component.AISensory{
				Valid: true, PlayerFound: true, PlayerVisible: true, DistSq: 900, PlayerPos: cp.Vector{X: 30},
			})
			sys.Update(w, 0.1)
			require.Equal(t, component.AIFlee, aiState(t, w, e).State)

			setSense(t, w, e, tc.sense)
			for i := 0; i < tc.ticks; i++ {
				sys.Update(w, 0.1)
			}
			st := aiState(t, w, e)
			require.Equal(t, tc.want, st.State)
			if tc.want == component.AIFlee {
				require.Less(t, st.MoveDir.X, 0.0, "keeps running from the last known position")
			}
		})
	}
}
