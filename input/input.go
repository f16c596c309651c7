// Package input maps device state to the logical keys the simulation reads.
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Key is a logical key, independent of the device binding.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyRun
	KeyInteract
	KeyFire
)

// Provider answers "is this logical key down" for the current frame.
type Provider interface {
	IsKeyDown(k Key) bool
}

// Bindings maps each logical key to any of several ebiten keys.
type Bindings map[Key][]ebiten.Key

func DefaultBindings() Bindings {
	return Bindings{
		KeyUp:       {ebiten.KeyW, ebiten.KeyArrowUp},
		KeyDown:     {ebiten.KeyS, ebiten.KeyArrowDown},
		KeyLeft:     {ebiten.KeyA, ebiten.KeyArrowLeft},
		KeyRight:    {ebiten.KeyD, ebiten.KeyArrowRight},
		KeyRun:      {ebiten.KeyShiftLeft, ebiten.KeyShiftRight},
		KeyInteract: {ebiten.KeyE, ebiten.KeyEnter},
		KeyFire:     {ebiten.KeySpace},
	}
}

// Ebiten reads the keyboard and the first standard gamepad.
type Ebiten struct {
	Bindings Bindings
}

func NewEbiten() *Ebiten {
	return &Ebiten{Bindings: DefaultBindings()}
}

const stickDeadzone = 0.2

func (p *Ebiten) IsKeyDown(k Key) bool {
	for _, key := range p.Bindings[k] {
		if ebiten.IsKeyPressed(key) {
			return true
		}
	}
	gamepads := ebiten.AppendGamepadIDs(nil)
	if len(gamepads) == 0 {
		return false
	}
	id := gamepads[0]
	lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
	ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
	switch k {
	case KeyLeft:
		return lx < -stickDeadzone
	case KeyRight:
		return lx > stickDeadzone
	case KeyUp:
		return ly < -stickDeadzone
	case KeyDown:
		return ly > stickDeadzone
	case KeyRun:
		return ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomLeft)
	case KeyInteract:
		return ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
	case KeyFire:
		return ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightLeft)
	}
	return false
}

// Scripted is a Provider driven by code, for headless runs and tests.
type Scripted struct {
	down map[Key]bool
}

func NewScripted() *Scripted {
	return &Scripted{down: make(map[Key]bool)}
}

func (s *Scripted) Press(keys ...Key) {
	for _, k := range keys {
		s.down[k] = true
	}
}

func (s *Scripted) Release(keys ...Key) {
	for _, k := range keys {
		delete(s.down, k)
	}
}

func (s *Scripted) IsKeyDown(k Key) bool {
	return s.down[k]
}
