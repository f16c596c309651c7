package system

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

func TestMovementClamp(t *testing.T) {
	tests := []struct {
		name   string
		start  component.Transform
		vel    component.Velocity
		bounds *component.Bounds
		level  *component.LevelBounds
		wantX  float64
		wantY  float64
	}{
		{
			name:   "clamped_on_x",
			vel:    component.Velocity{X: 150},
			bounds: &component.Bounds{MinX: 0, MaxX: 100, MinY: 0, MaxY: 100},
			wantX:  100,
		},
		{
			name:   "x_clamped_y_free",
			start:  component.Transform{X: 50, Y: 500},
			vel:    component.Velocity{X: -80, Y: 40},
			bounds: &component.Bounds{MinX: 0, MaxX: 100},
			wantX:  0,
			wantY:  540,
		},
		{
			name:  "unbounded",
			vel:   component.Velocity{X: 150, Y: -20},
			wantX: 150,
			wantY: -20,
		},
		{
			name:   "map_bounds_tighter",
			start:  component.Transform{X: 10, Y: 10},
			vel:    component.Velocity{X: 300, Y: 300},
			bounds: &component.Bounds{MinX: 0, MaxX: 1000, MinY: 0, MaxY: 1000, UseMapBounds: true},
			level:  &component.LevelBounds{Width: 200, Height: 120},
			wantX:  200,
			wantY:  120,
		},
		{
			name:   "map_bounds_opt_out",
			vel:    component.Velocity{X: 300},
			bounds: &component.Bounds{MinX: 0, MaxX: 1000},
			level:  &component.LevelBounds{Width: 200, Height: 120},
			wantX:  300,
		},
		{
			name:   "non_finite_velocity",
			start:  component.Transform{X: 5, Y: 5},
			vel:    component.Velocity{X: math.NaN(), Y: 1},
			bounds: &component.Bounds{MinX: 0, MaxX: 100},
			wantX:  5,
			wantY:  5,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			tr, vel := tc.start, tc.vel
			e := ecs.Spawn(w,
				ecs.Bind(component.TransformComponent.Kind(), &tr),
				ecs.Bind(component.VelocityComponent.Kind(), &vel),
				ecs.Bind(component.BoundsComponent.Kind(), tc.bounds),
			)
			if tc.level != nil {
				ecs.Spawn(w, ecs.Bind(component.LevelBoundsComponent.Kind(), tc.level))
			}

			NewMovementSystem(nil).Update(w, 1)

			got, ok := ecs.Get(w, e, component.TransformComponent.Kind())
			require.True(t, ok)
			require.Equal(t, tc.wantX, got.X)
			require.Equal(t, tc.wantY, got.Y)
			if math.IsNaN(tc.vel.X) {
				v, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
				require.Equal(t, component.Velocity{}, *v)
			}
		})
	}
}

func TestControlAndMovementMoveAI(t *testing.T) {
	w := ecs.NewWorld()
	cfg := component.AIConfig{Speed: 40}
	st := component.AIState{State: component.AIChase}
	st.MoveDir.X = 1
	e := ecs.Spawn(w,
		ecs.Bind(component.TransformComponent.Kind(), &component.Transform{}),
		ecs.Bind(component.VelocityComponent.Kind(), &component.Velocity{}),
		ecs.Bind(component.AIConfigComponent.Kind(), &cfg),
		ecs.Bind(component.AIStateComponent.Kind(), &st),
	)

	NewControlSystem(nil).Update(w, 0.5)
	NewMovementSystem(nil).Update(w, 0.5)

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	require.InDelta(t, 20, tr.X, 1e-9)
}
