// Package interact turns the integrator's overlap events into collection,
// scene loads, dialogue triggers and script runs.
package interact

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nathoo/overworld/engine/collider"
	"github.com/nathoo/overworld/engine/motion"
	"github.com/nathoo/overworld/types"
)

// ErrSceneNotFound is returned by a SceneLoader for an unknown path. The
// dispatcher treats it as a logged no-op.
var ErrSceneNotFound = errors.New("scene not found")

// Collector removes a collected object and credits the actor.
type Collector interface {
	Collect(actor, object collider.ID) error
}

// SceneLoader switches the active scene.
type SceneLoader interface {
	LoadScene(path string) error
}

// DialogueStarter begins a node on every running dialogue that has it.
type DialogueStarter interface {
	StartOptional(spec types.DialogueSpec) error
}

// ScriptRunner evaluates object scripts.
type ScriptRunner interface {
	Eval(code string) error
}

// Handlers are the collaborators a Dispatcher calls into.
type Handlers struct {
	Collector Collector
	Scenes    SceneLoader
	Dialogues DialogueStarter
	Scripts   ScriptRunner
}

// Dispatcher routes each behavior of an Interaction to its handler.
type Dispatcher struct {
	reg    *collider.Registry
	h      Handlers
	logger *log.Logger
}

// New creates a dispatcher. A nil logger falls back to the default.
func New(reg *collider.Registry, h Handlers, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{reg: reg, h: h, logger: logger}
}

// DispatchAll handles interactions in order. It stops after a scene load,
// since the remaining colliders belong to the scene that was left.
func (d *Dispatcher) DispatchAll(a *motion.Actor, ixs []motion.Interaction) (loaded bool, err error) {
	for _, ix := range ixs {
		loaded, err = d.Dispatch(a, ix)
		if err != nil || loaded {
			return loaded, err
		}
	}
	return false, nil
}

// Dispatch handles one interaction, one behavior at a time.
func (d *Dispatcher) Dispatch(a *motion.Actor, ix motion.Interaction) (loaded bool, err error) {
	v := &visitor{d: d, actor: a, ix: ix}
	for _, b := range ix.Behaviors.Items() {
		if err := b.Visit(v); err != nil {
			return v.loaded, err
		}
		if v.loaded {
			break
		}
	}
	return v.loaded, nil
}

// visitor carries the context of a single interaction.
type visitor struct {
	d      *Dispatcher
	actor  *motion.Actor
	ix     motion.Interaction
	loaded bool
}

func (v *visitor) VisitObstruct(collider.Obstruct) error { return nil }

func (v *visitor) VisitCollect(collider.Collect) error {
	reg := v.d.reg
	// The snapshot in the event may be stale; the live tag decides.
	if !reg.HasBehavior(v.ix.Collider, collider.Collect{}) {
		return nil
	}
	reg.RemoveBehavior(v.ix.Collider, collider.Collect{})
	if v.d.h.Collector == nil {
		return nil
	}
	if err := v.d.h.Collector.Collect(v.actor.ID, v.ix.Collider); err != nil {
		return fmt.Errorf("collecting %d: %w", v.ix.Collider, err)
	}
	return nil
}

func (v *visitor) VisitLoad(b collider.Load) error {
	if v.d.h.Scenes == nil {
		return nil
	}
	err := v.d.h.Scenes.LoadScene(b.Path)
	switch {
	case errors.Is(err, ErrSceneNotFound):
		v.d.logger.Warn("load target missing", "path", b.Path)
		return nil
	case err != nil:
		return fmt.Errorf("loading %q: %w", b.Path, err)
	}
	v.loaded = true
	return nil
}

func (v *visitor) VisitDialogue(b collider.Dialogue) error {
	if !b.Spec.AutoDisplay {
		for _, s := range v.actor.Available {
			if s == b.Spec {
				return nil
			}
		}
		v.actor.Available = append(v.actor.Available, b.Spec)
		return nil
	}
	if v.d.h.Dialogues == nil {
		return nil
	}
	return v.d.h.Dialogues.StartOptional(b.Spec)
}

func (v *visitor) VisitScript(b collider.Script) error {
	if v.d.h.Scripts == nil {
		return nil
	}
	if err := v.d.h.Scripts.Eval(b.Code); err != nil {
		v.d.logger.Warn("object script failed", "collider", v.ix.Collider, "err", err)
	}
	return nil
}
