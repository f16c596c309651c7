package component

// Bounds clamps an entity's position after integration, per axis.
type Bounds struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y"`
	// UseMapBounds also clamps into [0,width]x[0,height] of the current map.
	UseMapBounds bool `yaml:"use_map_bounds"`
}

var BoundsComponent = NewComponent[Bounds]("bounds")
