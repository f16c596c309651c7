package system

import (
	"math"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/input"
)

// InputSystem turns logical key state into the input component of every
// entity that has one. Diagonals are normalized; pressed flags are true only
// on the frame the key went down.
type InputSystem struct {
	provider input.Provider
}

func NewInputSystem(provider input.Provider) *InputSystem {
	return &InputSystem{provider: provider}
}

func (s *InputSystem) Update(w *ecs.World, _ float64) {
	if w == nil || s.provider == nil {
		return
	}
	p := s.provider

	moveX, moveY := 0.0, 0.0
	if p.IsKeyDown(input.KeyLeft) {
		moveX--
	}
	if p.IsKeyDown(input.KeyRight) {
		moveX++
	}
	if p.IsKeyDown(input.KeyUp) {
		moveY--
	}
	if p.IsKeyDown(input.KeyDown) {
		moveY++
	}
	if l := math.Hypot(moveX, moveY); l > 1 {
		moveX /= l
		moveY /= l
	}
	run := p.IsKeyDown(input.KeyRun)
	interact := p.IsKeyDown(input.KeyInteract)
	fire := p.IsKeyDown(input.KeyFire)

	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, in *component.Input) {
		in.InteractPressed = interact && !in.Interact
		in.FirePressed = fire && !in.Fire
		in.MoveX = moveX
		in.MoveY = moveY
		in.Run = run
		in.Interact = interact
		in.Fire = fire
	})
}
