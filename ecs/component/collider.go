package component

import (
	"math"

	"github.com/jakecoffman/cp"
)

type ColliderShape string

const (
	ColliderBox    ColliderShape = "box"
	ColliderCircle ColliderShape = "circle"
)

// Collider is the narrow-phase shape, centered on the transform plus offset.
type Collider struct {
	Shape   ColliderShape `yaml:"shape"`
	Width   float64       `yaml:"width"`
	Height  float64       `yaml:"height"`
	Radius  float64       `yaml:"radius"`
	OffsetX float64       `yaml:"offset_x"`
	OffsetY float64       `yaml:"offset_y"`
}

func (c Collider) Center(x, y float64) cp.Vector {
	return cp.Vector{X: x + c.OffsetX, Y: y + c.OffsetY}
}

// BB returns the axis-aligned box around the collider at (x, y).
func (c Collider) BB(x, y float64) cp.BB {
	p := c.Center(x, y)
	if c.Shape == ColliderCircle {
		return cp.BB{L: p.X - c.Radius, B: p.Y - c.Radius, R: p.X + c.Radius, T: p.Y + c.Radius}
	}
	hw, hh := c.Width/2, c.Height/2
	return cp.BB{L: p.X - hw, B: p.Y - hh, R: p.X + hw, T: p.Y + hh}
}

// BoundingRadius is the radius of the circle enclosing the shape.
func (c Collider) BoundingRadius() float64 {
	if c.Shape == ColliderCircle {
		return c.Radius
	}
	return math.Hypot(c.Width/2, c.Height/2)
}

// Overlaps runs the exact shape test between two placed colliders.
func (c Collider) Overlaps(x, y float64, o Collider, ox, oy float64) bool {
	a, b := c.Center(x, y), o.Center(ox, oy)
	switch {
	case c.Shape == ColliderCircle && o.Shape == ColliderCircle:
		r := c.Radius + o.Radius
		return a.DistanceSq(b) <= r*r
	case c.Shape == ColliderCircle:
		return circleBox(a, c.Radius, o.BB(ox, oy))
	case o.Shape == ColliderCircle:
		return circleBox(b, o.Radius, c.BB(x, y))
	default:
		return c.BB(x, y).Intersects(o.BB(ox, oy))
	}
}

func circleBox(p cp.Vector, r float64, bb cp.BB) bool {
	nx := math.Max(bb.L, math.Min(p.X, bb.R))
	ny := math.Max(bb.B, math.Min(p.Y, bb.T))
	dx, dy := p.X-nx, p.Y-ny
	return dx*dx+dy*dy <= r*r
}

var ColliderComponent = NewComponent[Collider]("collider")
