package component

// Input stores per-frame player intent. MoveX/MoveY are normalized so the
// combined length never exceeds 1.
type Input struct {
	MoveX float64
	MoveY float64

	Run      bool
	Interact bool
	Fire     bool

	InteractPressed bool
	FirePressed     bool
}

var InputComponent = NewComponent[Input]("input")
