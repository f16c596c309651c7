package component

// Velocity is written by the control pass and integrated by movement. No
// other system writes it.
type Velocity struct {
	X float64
	Y float64
}

var VelocityComponent = NewComponent[Velocity]("velocity")
