package prefabs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreload(t *testing.T) {
	c, err := Preload(context.Background())
	require.NoError(t, err)

	require.Equal(t, "player", c.Player().Name)
	require.Equal(t, "chase", c.Enemy().AI.Behavior)
	require.Positive(t, c.Projectile().Lifetime)
	require.NotEmpty(t, c.SpawnRules())
	for _, spec := range []interface{ Validate() error }{c.Player(), c.Enemy(), c.Portal(), c.Projectile(), c.Obstacle()} {
		require.NoError(t, spec.Validate())
	}
}

func TestOverlay(t *testing.T) {
	base := EnemySpec{
		Name: "enemy",
		AI:   AISpec{Behavior: "chase", VisionRadius: 100, Speed: 10},
		Collider: ColliderSpec{
			Shape:  "circle",
			Radius: 8,
		},
		Health: HealthSpec{Current: 2, Max: 2},
	}

	tests := []struct {
		name    string
		data    map[string]any
		wantErr bool
		check   func(t *testing.T, got EnemySpec)
	}{
		{
			name: "flat_position_and_nested_merge",
			data: map[string]any{"x": 12.5, "y": 40, "ai": map[string]any{"behavior": "flee"}},
			check: func(t *testing.T, got EnemySpec) {
				require.Equal(t, 12.5, got.X)
				require.Equal(t, 40.0, got.Y)
				require.Equal(t, "flee", got.AI.Behavior)
				require.Equal(t, 100.0, got.AI.VisionRadius, "untouched nested fields survive")
			},
		},
		{
			name:    "unknown_key",
			data:    map[string]any{"wings": 2},
			wantErr: true,
		},
		{
			name:    "wrong_type",
			data:    map[string]any{"x": "left"},
			wantErr: true,
		},
		{
			name: "empty",
			check: func(t *testing.T, got EnemySpec) {
				require.Equal(t, base, got)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Overlay(base, tc.data)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidSpec)
				return
			}
			require.NoError(t, err)
			tc.check(t, got)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		spec interface{ Validate() error }
		ok   bool
	}{
		{"enemy_bad_behavior", EnemySpec{AI: AISpec{Behavior: "dance", VisionRadius: 10}, Health: HealthSpec{Max: 1}, Collider: ColliderSpec{Shape: "circle", Radius: 1}}, false},
		{"enemy_short_exit", EnemySpec{AI: AISpec{Behavior: "chase", VisionRadius: 10, ChaseExitMultiplier: 0.5}, Health: HealthSpec{Max: 1}, Collider: ColliderSpec{Shape: "circle", Radius: 1}}, false},
		{"portal_without_entry", PortalSpec{TargetMap: "cave", Collider: ColliderSpec{Width: 1, Height: 1}}, false},
		{"portal_in_map", PortalSpec{DestX: 10, Collider: ColliderSpec{Width: 1, Height: 1}}, true},
		{"projectile_no_lifetime", ProjectileSpec{Collider: ColliderSpec{Shape: "circle", Radius: 1}}, false},
		{"obstacle_box", ObstacleSpec{Collider: ColliderSpec{Shape: "box", Width: 4, Height: 4}}, true},
		{"obstacle_bad_shape", ObstacleSpec{Collider: ColliderSpec{Shape: "hexagon"}}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.spec.Validate()
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidSpec)
		})
	}
}
