package collider

import "github.com/nathoo/overworld/engine/geom"

// Collider is an axis-aligned overlap shape attached to a world object.
type Collider struct {
	Half      geom.Vec2 // half-extents
	Offset    geom.Vec2 // from the object's position to the shape center
	Behaviors BehaviorSet
}

// New creates a collider from full width/height and an offset.
func New(size, offset geom.Vec2, bs ...Behavior) Collider {
	return Collider{
		Half:      size.Scale(0.5),
		Offset:    offset,
		Behaviors: NewSet(bs...),
	}
}

// Volume returns the world-space box at pos, displaced by delta.
func (c Collider) Volume(pos, delta geom.Vec2) geom.AABB {
	return geom.Box(pos.Add(delta).Add(c.Offset), c.Half)
}

// Intersect tests the collider at pos against other. A collider with no
// behaviors never reports an overlap, whatever the geometry says.
func (c Collider) Intersect(pos geom.Vec2, other geom.AABB) (BehaviorSet, bool) {
	if c.Behaviors.Empty() {
		return BehaviorSet{}, false
	}
	if !c.Volume(pos, geom.Vec2{}).Intersects(other) {
		return BehaviorSet{}, false
	}
	return c.Behaviors.Clone(), true
}
