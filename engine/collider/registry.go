package collider

import "github.com/nathoo/overworld/engine/geom"

// ID identifies a registered world object. 0 is never issued.
type ID uint64

// Entry is one registered world object.
type Entry struct {
	ID       ID
	Name     string
	Scene    string // "" = present in every scene
	Position geom.Vec2
	Collider Collider
}

// Hit is one collider that overlapped a query volume.
type Hit struct {
	ID        ID
	Behaviors BehaviorSet
}

// Registry holds every collider and answers overlap queries against the
// active scene.
type Registry struct {
	nextID  ID
	entries map[ID]*Entry
	order   []ID
	active  string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nextID:  1,
		entries: make(map[ID]*Entry),
	}
}

// Add registers a world object and returns its ID.
func (r *Registry) Add(name, scene string, pos geom.Vec2, c Collider) ID {
	id := r.nextID
	r.nextID++
	c.Behaviors = c.Behaviors.Clone()
	r.entries[id] = &Entry{ID: id, Name: name, Scene: scene, Position: pos, Collider: c}
	r.order = append(r.order, id)
	return id
}

// Remove unregisters an object. Returns false if it was unknown.
func (r *Registry) Remove(id ID) bool {
	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	for i, x := range r.order {
		if x == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a copy of the entry for id.
func (r *Registry) Get(id ID) (Entry, bool) {
	e, ok := r.entries[id]
	if !ok {
		return Entry{}, false
	}
	cp := *e
	cp.Collider.Behaviors = e.Collider.Behaviors.Clone()
	return cp, true
}

// ByName returns the IDs of every object with the given name, in
// registration order.
func (r *Registry) ByName(name string) []ID {
	var ids []ID
	for _, id := range r.order {
		if r.entries[id].Name == name {
			ids = append(ids, id)
		}
	}
	return ids
}

// Each calls fn with a copy of every entry in registration order.
func (r *Registry) Each(fn func(Entry)) {
	for _, id := range r.order {
		e, _ := r.Get(id)
		fn(e)
	}
}

// Len returns the number of registered objects.
func (r *Registry) Len() int { return len(r.entries) }

// SetPosition moves an object. Returns false if it was unknown.
func (r *Registry) SetPosition(id ID, pos geom.Vec2) bool {
	e, ok := r.entries[id]
	if !ok {
		return false
	}
	e.Position = pos
	return true
}

// SetActiveScene selects the scene whose colliders take part in queries.
func (r *Registry) SetActiveScene(scene string) { r.active = scene }

// ActiveScene returns the current scene.
func (r *Registry) ActiveScene() string { return r.active }

// InScope reports whether the object takes part in queries right now.
func (r *Registry) InScope(id ID) bool {
	e, ok := r.entries[id]
	return ok && r.inScope(e)
}

func (r *Registry) inScope(e *Entry) bool {
	return e.Scene == "" || e.Scene == r.active
}

// InsertBehavior adds b to a live collider without recreating it.
func (r *Registry) InsertBehavior(id ID, b Behavior) bool {
	e, ok := r.entries[id]
	if !ok {
		return false
	}
	return e.Collider.Behaviors.Add(b)
}

// RemoveBehavior drops b from a live collider.
func (r *Registry) RemoveBehavior(id ID, b Behavior) bool {
	e, ok := r.entries[id]
	if !ok {
		return false
	}
	return e.Collider.Behaviors.Remove(b)
}

// HasBehavior reports whether the live collider currently carries b.
func (r *Registry) HasBehavior(id ID, b Behavior) bool {
	e, ok := r.entries[id]
	return ok && e.Collider.Behaviors.Has(b)
}

// Volume returns the object's world box displaced by delta.
func (r *Registry) Volume(id ID, delta geom.Vec2) (geom.AABB, bool) {
	e, ok := r.entries[id]
	if !ok {
		return geom.AABB{}, false
	}
	return e.Collider.Volume(e.Position, delta), true
}

// Query returns every in-scope collider other than exclude whose volume
// intersects vol. Each hit carries a fresh copy of that collider's tags.
func (r *Registry) Query(vol geom.AABB, exclude ID) []Hit {
	var hits []Hit
	for _, id := range r.order {
		if id == exclude {
			continue
		}
		e := r.entries[id]
		if !r.inScope(e) {
			continue
		}
		if bs, ok := e.Collider.Intersect(e.Position, vol); ok {
			hits = append(hits, Hit{ID: id, Behaviors: bs})
		}
	}
	return hits
}

// Union merges the behavior sets of all hits. The bool is false when the
// union is empty.
func Union(hits []Hit) (BehaviorSet, bool) {
	var s BehaviorSet
	for _, h := range hits {
		s.Union(h.Behaviors)
	}
	return s, !s.Empty()
}
