// Package motion advances actors by their velocity each frame, gating the
// move on a predictive overlap query against the collider registry.
package motion

import (
	"github.com/nathoo/overworld/engine/collider"
	"github.com/nathoo/overworld/engine/geom"
	"github.com/nathoo/overworld/types"
)

// Depth ordering: higher depth draws in front. Actors lower on the map
// (smaller y) are nearer the camera.
const (
	DepthBase  = 100.0
	DepthScale = 0.001
)

// DepthFromY maps a vertical position to a draw depth. Strictly decreasing.
func DepthFromY(y float64) float64 {
	return DepthBase - y*DepthScale
}

// State is the locomotion state used by animation hooks.
type State int

const (
	Idle State = iota
	Walking
	Running
)

func (s State) String() string {
	switch s {
	case Walking:
		return "walking"
	case Running:
		return "running"
	default:
		return "idle"
	}
}

// Actor is a moving world object with a collider in the registry.
type Actor struct {
	ID       collider.ID
	Position geom.Vec2
	Velocity geom.Vec2 // unit direction
	Speed    float64
	Facing   types.Direction
	State    State
	Depth    float64

	// Collision is the overlap union from the last frame that moved.
	Collision collider.BehaviorSet
	// Available holds dialogue triggers the player may start explicitly.
	Available []types.DialogueSpec
}

// Spawn registers an actor's collider and returns the actor.
func Spawn(reg *collider.Registry, name string, pos geom.Vec2, c collider.Collider) *Actor {
	id := reg.Add(name, "", pos, c)
	return &Actor{
		ID:       id,
		Position: pos,
		Depth:    DepthFromY(pos.Y),
	}
}

// Teleport moves an actor without any overlap checks.
func Teleport(reg *collider.Registry, a *Actor, pos geom.Vec2) {
	a.Position = pos
	a.Depth = DepthFromY(pos.Y)
	a.Collision = collider.BehaviorSet{}
	a.Available = nil
	reg.SetPosition(a.ID, pos)
}

// Interaction is emitted once per collider the predictive volume overlaps.
type Interaction struct {
	Actor     collider.ID
	Collider  collider.ID
	Behaviors collider.BehaviorSet
}

// Result is the outcome of one integration step.
type Result struct {
	Interactions []Interaction
	Delta        geom.Vec2
	Moved        bool
	Blocked      bool
}

// Integrator steps actors against a registry.
type Integrator struct {
	Registry *collider.Registry
}

// NewIntegrator creates an integrator over reg.
func NewIntegrator(reg *collider.Registry) *Integrator {
	return &Integrator{Registry: reg}
}

// Step advances a by velocity*dt*speed. The move is committed only when no
// overlapping collider carries Obstruct; otherwise the actor stays put.
// A zero-length move queries nothing and keeps last frame's overlap state.
func (in *Integrator) Step(a *Actor, dt float64) Result {
	delta := a.Velocity.Scale(dt * a.Speed)
	if delta.IsZero() {
		return Result{}
	}
	vol, ok := in.Registry.Volume(a.ID, delta)
	if !ok {
		return Result{}
	}

	res := Result{Delta: delta}
	a.Collision = collider.BehaviorSet{}
	a.Available = nil
	for _, h := range in.Registry.Query(vol, a.ID) {
		a.Collision.Union(h.Behaviors)
		res.Interactions = append(res.Interactions, Interaction{
			Actor:     a.ID,
			Collider:  h.ID,
			Behaviors: h.Behaviors,
		})
	}

	if a.Collision.IsObstruction() {
		res.Blocked = true
		return res
	}

	a.Position = a.Position.Add(delta)
	a.Depth = DepthFromY(a.Position.Y)
	in.Registry.SetPosition(a.ID, a.Position)
	res.Moved = true
	return res
}
