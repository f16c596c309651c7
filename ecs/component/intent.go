package component

type IntentKind string

const (
	IntentBattle    IntentKind = "battle"
	IntentMapSwitch IntentKind = "map_switch"
	IntentTeleport  IntentKind = "teleport"
)

// Intent is a transient structural request declared by an entity and
// resolved by the action dispatcher. Only fields relevant to Kind are set.
type Intent struct {
	Kind IntentKind

	MapID   string
	EntryID string

	EnemyGroup []string
	BattleID   string

	// Subject is the entity acted upon when it differs from the source.
	Subject EntityRef
	X, Y    float64
}

var IntentComponent = NewComponent[Intent]("intent")
