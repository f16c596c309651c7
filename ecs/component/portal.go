package component

// Portal is a reusable trigger. A portal with a TargetMap switches maps; one
// without teleports within the current map to (DestX, DestY).
type Portal struct {
	ID          string  `yaml:"id"`
	TargetMap   string  `yaml:"target_map"`
	TargetEntry string  `yaml:"target_entry"`
	DestX       float64 `yaml:"dest_x"`
	DestY       float64 `yaml:"dest_y"`
}

func (p Portal) InMap() bool {
	return p.TargetMap == ""
}

var PortalComponent = NewComponent[Portal]("portal")
