package component

import "image/color"

// Appearance is read by the debug renderer only.
type Appearance struct {
	Color color.NRGBA
}

var AppearanceComponent = NewComponent[Appearance]("appearance")
