package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]("player")

type EnemyTag struct{}

var EnemyTagComponent = NewComponent[EnemyTag]("enemy")

// GlobalTag marks the single session entity that survives scene changes.
type GlobalTag struct{}

var GlobalTagComponent = NewComponent[GlobalTag]("global")

// StaticTag marks entities indexed once per scene in the static cell map.
type StaticTag struct{}

var StaticTagComponent = NewComponent[StaticTag]("static")

type ObstacleTag struct{}

var ObstacleTagComponent = NewComponent[ObstacleTag]("obstacle")

// Archetype records which factory built an entity, for serialization.
type Archetype struct {
	Name string
}

var ArchetypeComponent = NewComponent[Archetype]("archetype")
