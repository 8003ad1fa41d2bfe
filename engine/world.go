package engine

import (
	"fmt"

	"github.com/nathoo/overworld/engine/collider"
	"github.com/nathoo/overworld/engine/events"
	"github.com/nathoo/overworld/engine/geom"
	"github.com/nathoo/overworld/engine/interact"
	"github.com/nathoo/overworld/engine/motion"
	"github.com/nathoo/overworld/engine/state"
	"github.com/nathoo/overworld/types"
)

// Collect removes a collected object from the world and credits it to the
// inventory.
func (e *Engine) Collect(_, object collider.ID) error {
	i, ok := e.findPlaced(object)
	if !ok {
		return fmt.Errorf("collect: unknown object %d", object)
	}
	p := e.objects[i]
	n := e.World.Take(p.key, p.def.Name)
	e.Registry.Remove(p.id)
	e.objects = append(e.objects[:i], e.objects[i+1:]...)
	e.emit(events.Event{Kind: events.Collected, Object: p.def.Name, Count: n})
	return nil
}

// LoadScene replaces the active scene's colliders and moves the player to
// the new scene's spawn point.
func (e *Engine) LoadScene(path string) error {
	def, ok := e.Defs.Scene(path)
	if !ok {
		return fmt.Errorf("%w: %q", interact.ErrSceneNotFound, path)
	}

	for _, p := range e.objects {
		e.Registry.Remove(p.id)
	}
	e.objects = e.objects[:0]

	e.World.Scene = def.ID
	e.Registry.SetActiveScene(def.ID)
	for i, obj := range def.Objects {
		p := placed{key: state.ObjectKey(def.ID, i), def: obj}
		if e.World.Taken[p.key] {
			continue
		}
		c := collider.New(geom.V(obj.W, obj.H), geom.Vec2{}, e.behaviorsFor(p).Items()...)
		p.id = e.Registry.Add(obj.Name, def.ID, geom.V(obj.X, obj.Y), c)
		e.objects = append(e.objects, p)
	}

	motion.Teleport(e.Registry, e.Player, geom.V(def.SpawnX, def.SpawnY))
	e.logger.Info("scene loaded", "scene", def.ID, "objects", len(e.objects))
	e.emit(events.Event{Kind: events.SceneLoaded, Scene: def.ID})
	return nil
}

// StartOptional begins an auto-display dialogue node.
func (e *Engine) StartOptional(spec types.DialogueSpec) error {
	_, err := e.startSpec(spec, false)
	return err
}

// SetVisible records a visibility override and refreshes live objects.
func (e *Engine) SetVisible(object string, visible bool) int {
	e.World.Visibility[object] = visible
	e.refreshNamed(object)
	return e.definedCount(object)
}

// SetCollectable records a collectable override and refreshes live objects.
func (e *Engine) SetCollectable(object string, collectable bool) int {
	e.World.Collectable[object] = collectable
	e.refreshNamed(object)
	return e.definedCount(object)
}

// StartDialogue begins node on every dialogue that has it. Script-started
// dialogues disable movement.
func (e *Engine) StartDialogue(node string) ([]events.Event, error) {
	mark := len(e.frame)
	found, err := e.startSpec(types.DialogueSpec{NodeName: node, UI: types.UIMovementDisabled}, true)
	if !found {
		e.logger.Warn("start_dialogue: no dialogue has node", "node", node)
	}
	// startSpec emits into the frame; hand those back to the caller instead.
	evs := append([]events.Event(nil), e.frame[mark:]...)
	e.frame = e.frame[:mark]
	return evs, err
}

func (e *Engine) refreshNamed(name string) {
	for _, p := range e.objects {
		if p.def.Name == name {
			e.refresh(p)
		}
	}
}
