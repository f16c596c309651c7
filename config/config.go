package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	AI         AIConfig         `toml:"ai"`
	World      WorldConfig      `toml:"world"`
	Waves      WavesConfig      `toml:"waves"`
	Logging    LoggingConfig    `toml:"logging"`
	Prefabs    PrefabsConfig    `toml:"prefabs"`
}

type SimulationConfig struct {
	TickRate           int     `toml:"tick_rate"`           // fixed steps per second
	PerceptionInterval float64 `toml:"perception_interval"` // seconds between sensory rebuilds
	CellSize           float64 `toml:"cell_size"`           // spatial hash cell side
	MaxObstacles       int     `toml:"max_obstacles"`
	ObstacleRange      float64 `toml:"obstacle_range"`
	Seed               uint64  `toml:"seed"`
	Headless           bool    `toml:"headless"`
	HeadlessSeconds    float64 `toml:"headless_seconds"`
}

type AIConfig struct {
	WanderMin         float64 `toml:"wander_min"`
	WanderMax         float64 `toml:"wander_max"`
	IdleChance        float64 `toml:"idle_chance"`
	FleeDistance      float64 `toml:"flee_distance"`
	RecomputeInterval float64 `toml:"recompute_interval"`
	AvoidRadius       float64 `toml:"avoid_radius"`
}

type WorldConfig struct {
	InitialMap   string `toml:"initial_map"`
	InitialEntry string `toml:"initial_entry"`
}

type WavesConfig struct {
	Interval float64 `toml:"interval"` // seconds; 0 disables waves
	MaxWaves int     `toml:"max_waves"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type PrefabsConfig struct {
	Watch bool   `toml:"watch"` // hot reload prefab yaml from disk
	Dir   string `toml:"dir"`
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive, got %d", c.Simulation.TickRate)
	}
	if c.Simulation.CellSize <= 0 {
		return fmt.Errorf("simulation.cell_size must be positive, got %g", c.Simulation.CellSize)
	}
	if c.AI.WanderMax < c.AI.WanderMin {
		return fmt.Errorf("ai.wander_max %g below ai.wander_min %g", c.AI.WanderMax, c.AI.WanderMin)
	}
	if c.AI.IdleChance < 0 || c.AI.IdleChance > 1 {
		return fmt.Errorf("ai.idle_chance must be within [0,1], got %g", c.AI.IdleChance)
	}
	if c.World.InitialMap == "" {
		return errors.New("world.initial_map is required")
	}
	return nil
}

// DT is the fixed step in seconds.
func (c *Config) DT() float64 {
	return 1 / float64(c.Simulation.TickRate)
}

func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate:           60,
			PerceptionInterval: 0.1,
			CellSize:           64,
			MaxObstacles:       4,
			ObstacleRange:      96,
			HeadlessSeconds:    10,
		},
		AI: AIConfig{
			WanderMin:         2,
			WanderMax:         4,
			IdleChance:        0.3,
			FleeDistance:      200,
			RecomputeInterval: 0.1,
			AvoidRadius:       48,
		},
		World: WorldConfig{
			InitialMap:   "meadow",
			InitialEntry: "start",
		},
		Waves: WavesConfig{
			Interval: 20,
			MaxWaves: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Prefabs: PrefabsConfig{
			Dir: "prefabs",
		},
	}
}
