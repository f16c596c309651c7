package component

// LevelBounds stores the world-space size of the current map. It lives on the
// global entity and is rewritten on every scene load.
type LevelBounds struct {
	Width  float64
	Height float64
}

var LevelBoundsComponent = NewComponent[LevelBounds]("levelBounds")
