package component

type Player struct {
	Speed         float64 `yaml:"speed"`
	RunMultiplier float64 `yaml:"run_multiplier"`
}

var PlayerComponent = NewComponent[Player]("playerControl")
