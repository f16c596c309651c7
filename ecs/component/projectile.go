package component

type Projectile struct {
	Owner  EntityRef `yaml:"-"`
	Damage float64   `yaml:"damage"`
	Stun   bool      `yaml:"stun"`
}

var ProjectileComponent = NewComponent[Projectile]("projectile")
