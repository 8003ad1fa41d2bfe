// Package collider owns world object overlap shapes, their behavior tags,
// and the registry that answers overlap queries.
package collider

import (
	"fmt"
	"strings"

	"github.com/nathoo/overworld/types"
)

// Behavior is a tag on a collider describing what overlapping it does.
// The set of variants is closed: Obstruct, Collect, Load, Dialogue, Script.
type Behavior interface {
	// Visit calls the Visitor method matching the variant.
	Visit(v Visitor) error
	String() string
	behavior()
}

// Visitor handles every Behavior variant. Consumers implement it instead of
// type-switching, so a new variant is a compile error at every site.
type Visitor interface {
	VisitObstruct(Obstruct) error
	VisitCollect(Collect) error
	VisitLoad(Load) error
	VisitDialogue(Dialogue) error
	VisitScript(Script) error
}

// Obstruct blocks movement.
type Obstruct struct{}

// Collect is picked up by the actor.
type Collect struct{}

// Load opens another scene.
type Load struct {
	Path string
}

// Dialogue starts or offers a dialogue node.
type Dialogue struct {
	Spec types.DialogueSpec
}

// Script evaluates code against the bound interpreter.
type Script struct {
	Code string
}

func (Obstruct) behavior() {}
func (Collect) behavior()  {}
func (Load) behavior()     {}
func (Dialogue) behavior() {}
func (Script) behavior()   {}

func (b Obstruct) Visit(v Visitor) error { return v.VisitObstruct(b) }
func (b Collect) Visit(v Visitor) error  { return v.VisitCollect(b) }
func (b Load) Visit(v Visitor) error     { return v.VisitLoad(b) }
func (b Dialogue) Visit(v Visitor) error { return v.VisitDialogue(b) }
func (b Script) Visit(v Visitor) error   { return v.VisitScript(b) }

func (Obstruct) String() string { return "obstruct" }
func (Collect) String() string  { return "collect" }
func (b Load) String() string   { return "load:" + b.Path }
func (b Dialogue) String() string {
	return fmt.Sprintf("dialogue:%s", b.Spec.NodeName)
}
func (b Script) String() string {
	code := strings.TrimSpace(b.Code)
	if len(code) > 24 {
		code = code[:24] + "..."
	}
	return "script:" + code
}

// BehaviorSet is an insertion-ordered set of behaviors. The zero value is
// an empty set ready to use.
type BehaviorSet struct {
	items []Behavior
}

// NewSet builds a set from the given behaviors, dropping duplicates.
func NewSet(bs ...Behavior) BehaviorSet {
	var s BehaviorSet
	for _, b := range bs {
		s.Add(b)
	}
	return s
}

// Has reports whether b is in the set.
func (s BehaviorSet) Has(b Behavior) bool {
	for _, x := range s.items {
		if x == b {
			return true
		}
	}
	return false
}

// Add inserts b. Returns false if it was already present.
func (s *BehaviorSet) Add(b Behavior) bool {
	if b == nil || s.Has(b) {
		return false
	}
	s.items = append(s.items, b)
	return true
}

// Remove deletes b. Returns false if it was not present.
func (s *BehaviorSet) Remove(b Behavior) bool {
	for i, x := range s.items {
		if x == b {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Union adds every member of o to s.
func (s *BehaviorSet) Union(o BehaviorSet) {
	for _, b := range o.items {
		s.Add(b)
	}
}

// Len returns the number of behaviors.
func (s BehaviorSet) Len() int { return len(s.items) }

// Empty reports whether the set has no behaviors.
func (s BehaviorSet) Empty() bool { return len(s.items) == 0 }

// Items returns a copy of the members in insertion order.
func (s BehaviorSet) Items() []Behavior {
	out := make([]Behavior, len(s.items))
	copy(out, s.items)
	return out
}

// Clone returns an independent copy.
func (s BehaviorSet) Clone() BehaviorSet {
	return BehaviorSet{items: s.Items()}
}

// IsObstruction reports whether the set blocks movement.
func (s BehaviorSet) IsObstruction() bool {
	return s.Has(Obstruct{})
}

func (s BehaviorSet) String() string {
	parts := make([]string, len(s.items))
	for i, b := range s.items {
		parts[i] = b.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
