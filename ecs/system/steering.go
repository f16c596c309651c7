package system

import (
	"github.com/jakecoffman/cp"

	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs/component"
)

const (
	DefaultAvoidRadius = 48.0
	arriveDistSq       = 4.0
	avoidWeight        = 1.5
)

// Steer returns a unit direction from pos toward target bent away from
// obstacles closer than avoidRadius. It returns the zero vector when the
// target is reached or the result is not finite.
func Steer(pos, target cp.Vector, obstacles []component.ObstacleSense, avoidRadius float64) cp.Vector {
	if !finite(pos) || !finite(target) {
		return cp.Vector{}
	}
	seek := target.Sub(pos)
	if seek.LengthSq() <= arriveDistSq {
		return cp.Vector{}
	}
	dir := seek.Normalize()

	if avoidRadius > 0 {
		for _, o := range obstacles {
			away := pos.Sub(o.Pos)
			gap := away.Length() - o.Radius
			if gap >= avoidRadius {
				continue
			}
			if gap < 0 {
				gap = 0
			}
			if away.LengthSq() == 0 {
				away = dir.Perp()
			}
			push := (avoidRadius - gap) / avoidRadius
			dir = dir.Add(away.Normalize().Mult(push * avoidWeight))
		}
	}

	if dir.LengthSq() == 0 {
		return cp.Vector{}
	}
	dir = dir.Normalize()
	if !finite(dir) {
		return cp.Vector{}
	}
	return dir
}
