package component

// Lifetime counts down in simulated seconds. When it runs out an entity with
// AutoDestroy is queued for removal.
type Lifetime struct {
	Remaining   float64 `yaml:"remaining"`
	AutoDestroy bool    `yaml:"auto_destroy"`
}

var LifetimeComponent = NewComponent[Lifetime]("lifeTime")
