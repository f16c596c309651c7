package component

type Health struct {
	Current float64 `yaml:"current"`
	Max     float64 `yaml:"max"`
}

func (h Health) Dead() bool {
	return h.Current <= 0
}

var HealthComponent = NewComponent[Health]("health")
