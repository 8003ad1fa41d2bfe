// Package geom holds the small amount of 2D vector and box math the
// collision core needs. Only axis-aligned boxes; no rotation or scale.
package geom

import "math"

// Epsilon is the length below which a vector counts as zero.
const Epsilon = 1e-6

// Vec2 is a 2D vector in world units. Y grows upward.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsZero reports whether v is shorter than Epsilon.
func (v Vec2) IsZero() bool {
	return v.Len() < Epsilon
}

// Normalize returns v scaled to unit length, or the zero vector when v is zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l < Epsilon {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec2
}

// Box builds an AABB from its center and half-extents.
func Box(center, half Vec2) AABB {
	return AABB{
		Min: Vec2{X: center.X - half.X, Y: center.Y - half.Y},
		Max: Vec2{X: center.X + half.X, Y: center.Y + half.Y},
	}
}

// Translate returns the box moved by d.
func (b AABB) Translate(d Vec2) AABB {
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec2 {
	return Vec2{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}

// Intersects reports whether the boxes overlap with positive area.
// Boxes that only share an edge do not intersect, so an actor flush
// against a wall can still move along it.
func (b AABB) Intersects(o AABB) bool {
	if b.Min.X >= o.Max.X || o.Min.X >= b.Max.X {
		return false
	}
	if b.Min.Y >= o.Max.Y || o.Min.Y >= b.Max.Y {
		return false
	}
	return true
}

// Contains reports whether p lies inside the box (edges inclusive).
func (b AABB) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
