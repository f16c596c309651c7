package prefabs

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// Overlay decodes data over a copy of base. Keys that do not exist in the
// spec, or values of the wrong type, are rejected.
func Overlay[T any](base T, data map[string]any) (T, error) {
	if len(data) == 0 {
		return base, nil
	}
	raw, err := yaml.Marshal(data)
	if err != nil {
		return base, fmt.Errorf("prefabs: encode overlay: %w", err)
	}
	// base may share pointer fields with the catalog, decode into a deep copy.
	var out T
	baseRaw, err := yaml.Marshal(base)
	if err != nil {
		return base, fmt.Errorf("prefabs: encode base: %w", err)
	}
	if err := yaml.Unmarshal(baseRaw, &out); err != nil {
		return base, fmt.Errorf("prefabs: copy base: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		return base, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	return out, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSpec, fmt.Sprintf(format, args...))
}

type TransformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
}

type ColliderSpec struct {
	Shape   string  `yaml:"shape"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Radius  float64 `yaml:"radius"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

func (c ColliderSpec) Validate() error {
	switch c.Shape {
	case "circle":
		if c.Radius <= 0 {
			return invalid("circle collider needs a positive radius")
		}
	case "box", "":
		if c.Width <= 0 || c.Height <= 0 {
			return invalid("box collider needs a positive size, got %gx%g", c.Width, c.Height)
		}
	default:
		return invalid("unknown collider shape %q", c.Shape)
	}
	return nil
}

type BoundsSpec struct {
	MinX         float64 `yaml:"min_x"`
	MaxX         float64 `yaml:"max_x"`
	MinY         float64 `yaml:"min_y"`
	MaxY         float64 `yaml:"max_y"`
	UseMapBounds bool    `yaml:"use_map_bounds"`
}

type HealthSpec struct {
	Current float64 `yaml:"current"`
	Max     float64 `yaml:"max"`
}

type AISpec struct {
	Behavior            string  `yaml:"behavior"`
	VisionRadius        float64 `yaml:"vision_radius"`
	VisionShape         string  `yaml:"vision_shape"`
	VisionAngle         float64 `yaml:"vision_angle"`
	MinVerticalRatio    float64 `yaml:"min_vertical_ratio"`
	Speed               float64 `yaml:"speed"`
	ChaseExitMultiplier float64 `yaml:"chase_exit_multiplier"`
	FleeExitMultiplier  float64 `yaml:"flee_exit_multiplier"`
	LostTargetTimeout   float64 `yaml:"lost_target_timeout"`
	StunDuration        float64 `yaml:"stun_duration"`
	SuspicionRate       float64 `yaml:"suspicion_rate"`
	SuspicionDecay      float64 `yaml:"suspicion_decay"`
}

func (a AISpec) Validate() error {
	switch a.Behavior {
	case "chase", "flee", "passive":
	default:
		return invalid("unknown ai behavior %q", a.Behavior)
	}
	switch a.VisionShape {
	case "circle", "cone", "":
	default:
		return invalid("unknown vision shape %q", a.VisionShape)
	}
	if a.VisionRadius <= 0 {
		return invalid("vision_radius must be positive")
	}
	if a.Speed < 0 || a.ChaseExitMultiplier < 0 || a.FleeExitMultiplier < 0 {
		return invalid("ai speeds and multipliers must not be negative")
	}
	if a.ChaseExitMultiplier > 0 && a.ChaseExitMultiplier < 1 {
		return invalid("chase_exit_multiplier %g would leave chase inside the vision radius", a.ChaseExitMultiplier)
	}
	return nil
}

type EncounterSpec struct {
	BattleID   string   `yaml:"battle_id"`
	EnemyGroup []string `yaml:"enemy_group"`
}

type PlayerSpec struct {
	Name          string `yaml:"name"`
	TransformSpec `yaml:",inline"`
	Speed         float64      `yaml:"speed"`
	RunMultiplier float64      `yaml:"run_multiplier"`
	Collider      ColliderSpec `yaml:"collider"`
	Bounds        *BoundsSpec  `yaml:"bounds"`
	Health        HealthSpec   `yaml:"health"`
	Color         *YAMLColor   `yaml:"color"`
}

func (s PlayerSpec) Validate() error {
	if s.Speed <= 0 {
		return invalid("player speed must be positive")
	}
	if s.Health.Max <= 0 {
		return invalid("player health max must be positive")
	}
	return s.Collider.Validate()
}

type EnemySpec struct {
	Name          string `yaml:"name"`
	TransformSpec `yaml:",inline"`
	AI            AISpec         `yaml:"ai"`
	Collider      ColliderSpec   `yaml:"collider"`
	Bounds        *BoundsSpec    `yaml:"bounds"`
	Health        HealthSpec     `yaml:"health"`
	Encounter     *EncounterSpec `yaml:"encounter"`
	Color         *YAMLColor     `yaml:"color"`
}

func (s EnemySpec) Validate() error {
	if err := s.AI.Validate(); err != nil {
		return err
	}
	if s.Health.Max <= 0 {
		return invalid("enemy health max must be positive")
	}
	if s.Encounter != nil && s.Encounter.BattleID == "" {
		return invalid("encounter needs a battle_id")
	}
	return s.Collider.Validate()
}

type PortalSpec struct {
	Name          string `yaml:"name"`
	ID            string `yaml:"id"`
	TransformSpec `yaml:",inline"`
	TargetMap     string       `yaml:"target_map"`
	TargetEntry   string       `yaml:"target_entry"`
	DestX         float64      `yaml:"dest_x"`
	DestY         float64      `yaml:"dest_y"`
	Collider      ColliderSpec `yaml:"collider"`
	Color         *YAMLColor   `yaml:"color"`
}

func (s PortalSpec) Validate() error {
	if s.TargetMap != "" && s.TargetEntry == "" {
		return invalid("portal %q to map %q needs a target_entry", s.ID, s.TargetMap)
	}
	return s.Collider.Validate()
}

type ProjectileSpec struct {
	Name          string `yaml:"name"`
	TransformSpec `yaml:",inline"`
	VX            float64      `yaml:"vx"`
	VY            float64      `yaml:"vy"`
	Owner         uint64       `yaml:"owner"`
	Damage        float64      `yaml:"damage"`
	Stun          bool         `yaml:"stun"`
	Lifetime      float64      `yaml:"lifetime"`
	Collider      ColliderSpec `yaml:"collider"`
	Color         *YAMLColor   `yaml:"color"`
}

func (s ProjectileSpec) Validate() error {
	if s.Lifetime <= 0 {
		return invalid("projectile lifetime must be positive")
	}
	if s.Damage < 0 {
		return invalid("projectile damage must not be negative")
	}
	return s.Collider.Validate()
}

type ObstacleSpec struct {
	Name          string `yaml:"name"`
	TransformSpec `yaml:",inline"`
	Collider      ColliderSpec `yaml:"collider"`
	Color         *YAMLColor   `yaml:"color"`
}

func (s ObstacleSpec) Validate() error {
	return s.Collider.Validate()
}

type GlobalSpec struct {
	Name string `yaml:"name"`
	ID   string `yaml:"id"`
}

func (s GlobalSpec) Validate() error {
	return nil
}

type YAMLColor struct {
	color.Color
}

// UnmarshalYAML accepts #rrggbb or #rrggbbaa.
func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string, got %v", value.Tag)
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(value.Value, "#"))
	if err != nil || (len(raw) != 3 && len(raw) != 4) {
		return fmt.Errorf("invalid color %q", value.Value)
	}
	n := color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 0xff}
	if len(raw) == 4 {
		n.A = raw[3]
	}
	c.Color = n
	return nil
}

// MarshalYAML writes the color back as #rrggbbaa so overlays round-trip.
func (c YAMLColor) MarshalYAML() (any, error) {
	if c.Color == nil {
		return nil, nil
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A), nil
}

// NRGBA returns the color, or fallback when unset.
func (c *YAMLColor) NRGBA(fallback color.NRGBA) color.NRGBA {
	if c == nil || c.Color == nil {
		return fallback
	}
	return color.NRGBAModel.Convert(c.Color).(color.NRGBA)
}
