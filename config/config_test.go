package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		check   func(t *testing.T, c *Config)
	}{
		{
			name: "overrides_keep_defaults",
			body: "[simulation]\ntick_rate = 30\n\n[world]\ninitial_map = \"cave\"\n",
			check: func(t *testing.T, c *Config) {
				require.Equal(t, 30, c.Simulation.TickRate)
				require.Equal(t, 64.0, c.Simulation.CellSize)
				require.Equal(t, "cave", c.World.InitialMap)
				require.Equal(t, "start", c.World.InitialEntry)
				require.InDelta(t, 1.0/30, c.DT(), 1e-12)
			},
		},
		{
			name:    "invalid_idle_chance",
			body:    "[ai]\nidle_chance = 2.0\n",
			wantErr: true,
		},
		{
			name:    "malformed",
			body:    "[simulation\n",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "world.toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0o644))
			c, err := Load(path)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.check(t, c)
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), c)
}
