package component

import "github.com/jakecoffman/cp"

// ShortcutSense is a portal whose destination shortens the way to the player.
type ShortcutSense struct {
	Portal EntityRef
	Pos    cp.Vector
	Dest   cp.Vector
	// Detour is the walking length through the portal.
	Detour float64
}

type ObstacleSense struct {
	Entity EntityRef
	Pos    cp.Vector
	Radius float64
	DistSq float64
}

// AISensory is rebuilt by perception and read-only for everything else. It
// carries no memory between recomputes.
type AISensory struct {
	Valid         bool
	PlayerFound   bool
	PlayerVisible bool
	DistSq        float64
	PlayerPos     cp.Vector
	Shortcut      *ShortcutSense
	// Obstacles are nearest first.
	Obstacles []ObstacleSense
}

var AISensoryComponent = NewComponent[AISensory]("aiSensory")
