package motion

import (
	"github.com/nathoo/overworld/engine/geom"
	"github.com/nathoo/overworld/types"
)

// Speeds are movement speeds in world units per second.
type Speeds struct {
	Walk float64
	Run  float64
}

// ApplyIntent sets velocity, facing, speed and locomotion state from one
// frame of input. Diagonals get unit velocity. When two axes are held,
// facing favors left/right.
func ApplyIntent(a *Actor, in types.Intent, sp Speeds) {
	var v geom.Vec2
	facing, moving := a.Facing, false

	if in.Up {
		v.Y = 1
		facing, moving = types.North, true
	}
	if in.Down {
		v.Y = -1
		facing, moving = types.South, true
	}
	if in.Left {
		v.X = -1
		facing, moving = types.West, true
	}
	if in.Right {
		v.X = 1
		facing, moving = types.East, true
	}

	a.Velocity = v.Normalize()
	a.Facing = facing

	if in.Run {
		a.Speed = sp.Run
	} else {
		a.Speed = sp.Walk
	}

	switch {
	case !moving || a.Velocity.IsZero():
		a.State = Idle
	case in.Run:
		a.State = Running
	default:
		a.State = Walking
	}
}

// Stop zeroes the actor's velocity and marks it idle.
func Stop(a *Actor) {
	a.Velocity = geom.Vec2{}
	a.State = Idle
}
