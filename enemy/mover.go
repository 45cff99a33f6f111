package enemy

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/scrollbrawl/prefabs"
)

// bossSpeedScale slows the boss so it stays on screen for the encounter.
const bossSpeedScale = 0.25

// MoveInput is what a mover sees each tick.
type MoveInput struct {
	Pos     cp.Vector
	Target  cp.Vector
	Elapsed float64 // seconds since Initialize
	Speed   float64
	Spec    *prefabs.EnemySpec
}

// Mover turns the current state into a velocity in world units per second.
type Mover interface {
	Velocity(in MoveInput) (cp.Vector, error)
}

type groundMover struct{}

func (groundMover) Velocity(in MoveInput) (cp.Vector, error) {
	return cp.Vector{X: -in.Speed}, nil
}

// aerialMover heads for the target and wobbles around that heading.
type aerialMover struct{}

func (aerialMover) Velocity(in MoveInput) (cp.Vector, error) {
	dir := in.Target.Sub(in.Pos)
	if dir.Length() < 1e-6 {
		return cp.Vector{}, nil
	}
	dir = dir.Normalize()

	if in.Spec != nil && in.Spec.MoveDeviation > 0 {
		rate := in.Spec.DeviationRate
		if rate <= 0 {
			rate = 1
		}
		angle := in.Spec.MoveDeviation * math.Pi / 180 * math.Sin(in.Elapsed*rate)
		dir = dir.Rotate(cp.ForAngle(angle))
	}
	return dir.Mult(in.Speed), nil
}

type bossMover struct{}

func (bossMover) Velocity(in MoveInput) (cp.Vector, error) {
	return cp.Vector{X: -in.Speed * bossSpeedScale}, nil
}

func builtinMover(kind prefabs.Kind) Mover {
	switch kind {
	case prefabs.KindAerial:
		return aerialMover{}
	case prefabs.KindBoss:
		return bossMover{}
	default:
		return groundMover{}
	}
}
