package component

// BehaviorFamily selects what an AI does once fully alerted.
type BehaviorFamily string

const (
	BehaviorChase   BehaviorFamily = "chase"
	BehaviorFlee    BehaviorFamily = "flee"
	BehaviorPassive BehaviorFamily = "passive"
)

type VisionShape string

const (
	VisionCircle VisionShape = "circle"
	VisionCone   VisionShape = "cone"
)

const (
	DefaultChaseExitMultiplier = 1.5
	DefaultFleeExitMultiplier  = 1.5
	DefaultLostTargetTimeout   = 10.0
	DefaultStunDuration        = 2.5
	DefaultVisionAngle         = 90.0
)

// AIConfig is per-entity AI tuning. It is set at creation and never mutated
// at runtime.
type AIConfig struct {
	Behavior     BehaviorFamily `yaml:"behavior"`
	VisionRadius float64        `yaml:"vision_radius"`
	VisionShape  VisionShape    `yaml:"vision_shape"`
	// VisionAngle is the full cone aperture in degrees.
	VisionAngle float64 `yaml:"vision_angle"`
	// MinVerticalRatio widens a cone for top-down framing: a target on the
	// facing side with |dy| <= ratio*|dx| is inside the cone.
	MinVerticalRatio float64 `yaml:"min_vertical_ratio"`
	Speed            float64 `yaml:"speed"`

	ChaseExitMultiplier float64 `yaml:"chase_exit_multiplier"`
	FleeExitMultiplier  float64 `yaml:"flee_exit_multiplier"`
	LostTargetTimeout   float64 `yaml:"lost_target_timeout"`
	StunDuration        float64 `yaml:"stun_duration"`

	// SuspicionRate and SuspicionDecay are per second. A rate <= 0 makes a
	// sighting alert the entity immediately.
	SuspicionRate  float64 `yaml:"suspicion_rate"`
	SuspicionDecay float64 `yaml:"suspicion_decay"`
}

// WithDefaults returns a copy with zero tunables replaced by defaults.
func (c AIConfig) WithDefaults() AIConfig {
	if c.Behavior == "" {
		c.Behavior = BehaviorChase
	}
	if c.VisionShape == "" {
		c.VisionShape = VisionCircle
	}
	if c.VisionAngle <= 0 {
		c.VisionAngle = DefaultVisionAngle
	}
	if c.ChaseExitMultiplier <= 0 {
		c.ChaseExitMultiplier = DefaultChaseExitMultiplier
	}
	if c.FleeExitMultiplier <= 0 {
		c.FleeExitMultiplier = DefaultFleeExitMultiplier
	}
	if c.LostTargetTimeout <= 0 {
		c.LostTargetTimeout = DefaultLostTargetTimeout
	}
	if c.StunDuration <= 0 {
		c.StunDuration = DefaultStunDuration
	}
	return c
}

var AIConfigComponent = NewComponent[AIConfig]("aiConfig")
