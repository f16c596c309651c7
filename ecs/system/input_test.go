package system

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/input"
)

func TestInputSystem(t *testing.T) {
	w := ecs.NewWorld()
	keys := input.NewScripted()
	sys := NewInputSystem(keys)
	e := ecs.Spawn(w, ecs.Bind(component.InputComponent.Kind(), &component.Input{}))
	get := func() *component.Input {
		in, ok := ecs.Get(w, e, component.InputComponent.Kind())
		require.True(t, ok)
		return in
	}

	keys.Press(input.KeyRight, input.KeyDown, input.KeyFire)
	sys.Update(w, 0.016)
	in := get()
	require.InDelta(t, 1, math.Hypot(in.MoveX, in.MoveY), 1e-9, "diagonal is normalized")
	require.InDelta(t, math.Sqrt2/2, in.MoveX, 1e-9)
	require.True(t, in.Fire)
	require.True(t, in.FirePressed)

	sys.Update(w, 0.016)
	require.True(t, get().Fire)
	require.False(t, get().FirePressed, "held key is not pressed again")

	keys.Release(input.KeyFire, input.KeyDown)
	keys.Press(input.KeyInteract)
	sys.Update(w, 0.016)
	in = get()
	require.Equal(t, 1.0, in.MoveX)
	require.Zero(t, in.MoveY)
	require.False(t, in.Fire)
	require.True(t, in.InteractPressed)
}

func TestControlPlayerSpeed(t *testing.T) {
	tests := []struct {
		name string
		in   component.Input
		want float64
	}{
		{"walk", component.Input{MoveX: 1}, 100},
		{"run", component.Input{MoveX: 1, Run: true}, 150},
		{"idle", component.Input{}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			in := tc.in
			e := ecs.Spawn(w,
				ecs.Bind(component.InputComponent.Kind(), &in),
				ecs.Bind(component.VelocityComponent.Kind(), &component.Velocity{}),
				ecs.Bind(component.PlayerComponent.Kind(), &component.Player{Speed: 100, RunMultiplier: 1.5}),
			)
			NewControlSystem(nil).Update(w, 0.016)
			vel, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
			require.Equal(t, tc.want, vel.X)
		})
	}
}
