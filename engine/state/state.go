// Package state holds the immutable content definitions and the mutable
// world state layered over them (runtime overrides win over authored values).
package state

import (
	"fmt"
	"sort"

	"github.com/nathoo/overworld/engine/dialogue"
	"github.com/nathoo/overworld/types"
)

// Defs holds the content loaded from Lua and YAML.
type Defs struct {
	Game      types.GameDef
	Scenes    map[string]types.SceneDef
	Dialogues []*dialogue.Asset
}

// Scene returns the scene definition for id.
func (d *Defs) Scene(id string) (types.SceneDef, bool) {
	s, ok := d.Scenes[id]
	return s, ok
}

// SceneIDs returns every scene ID, sorted.
func (d *Defs) SceneIDs() []string {
	ids := make([]string, 0, len(d.Scenes))
	for id := range d.Scenes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ObjectKey identifies one authored object across scene reloads.
func ObjectKey(scene string, index int) string {
	return fmt.Sprintf("%s#%d", scene, index)
}

// World is the mutable state the engine keeps across frames and scenes.
type World struct {
	Scene string
	Frame uint64

	// Visibility overrides by object name.
	Visibility map[string]bool
	// Collectable overrides by object name.
	Collectable map[string]bool
	// Taken marks objects already collected, by ObjectKey.
	Taken map[string]bool
	// Inventory counts collected objects by name.
	Inventory map[string]int

	StartShown bool
}

// NewWorld creates a fresh world positioned at the start scene.
func NewWorld(defs *Defs) *World {
	return &World{
		Scene:       defs.Game.StartScene,
		Visibility:  map[string]bool{},
		Collectable: map[string]bool{},
		Taken:       map[string]bool{},
		Inventory:   map[string]int{},
	}
}

// Visible returns the effective visibility of an object.
func (w *World) Visible(obj types.ObjectDef) bool {
	if v, ok := w.Visibility[obj.Name]; ok {
		return v
	}
	return obj.Visible
}

// CollectableOverride returns the runtime collectable override for name.
func (w *World) CollectableOverride(name string) (value, ok bool) {
	value, ok = w.Collectable[name]
	return value, ok
}

// Take records a collected object and returns the new count for its name.
func (w *World) Take(key, name string) int {
	w.Taken[key] = true
	w.Inventory[name]++
	return w.Inventory[name]
}

// Count returns how many objects with the given name were collected.
func (w *World) Count(name string) int { return w.Inventory[name] }

// InventoryNames returns collected object names, sorted.
func (w *World) InventoryNames() []string {
	names := make([]string, 0, len(w.Inventory))
	for n := range w.Inventory {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
