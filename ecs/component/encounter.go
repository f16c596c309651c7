package component

// Encounter starts a battle when the player touches the holder.
type Encounter struct {
	EnemyGroup []string `yaml:"enemy_group"`
	BattleID   string   `yaml:"battle_id"`
	Triggered  bool     `yaml:"-"`
}

var EncounterComponent = NewComponent[Encounter]("encounter")
