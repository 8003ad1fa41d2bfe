// Package engine provides the Step() orchestrator that wires together
// input, motion, interaction dispatch, dialogue and script commands into a
// single frame.
package engine

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nathoo/overworld/engine/collider"
	"github.com/nathoo/overworld/engine/dialogue"
	"github.com/nathoo/overworld/engine/effects"
	"github.com/nathoo/overworld/engine/events"
	"github.com/nathoo/overworld/engine/geom"
	"github.com/nathoo/overworld/engine/interact"
	"github.com/nathoo/overworld/engine/motion"
	"github.com/nathoo/overworld/engine/script"
	"github.com/nathoo/overworld/engine/state"
	"github.com/nathoo/overworld/loader"
	"github.com/nathoo/overworld/types"
)

// Default tuning used when the Game table leaves a value unset.
const (
	DefaultWalkSpeed  = 100.0
	DefaultRunSpeed   = 180.0
	DefaultCharWidth  = 16.0
	DefaultCharHeight = 16.0
)

// Frame is the result of one Step.
type Frame struct {
	Number uint64
	Events []events.Event
	Moved  bool
	Scene  string
	// Modal is true while a dialogue that disables movement is open.
	Modal bool
}

// Observer receives every frame a host steps. Hosts use it to feed the
// inspector.
type Observer func(e *Engine, f Frame)

// running is a dialogue instance with its own interpreter.
type running struct {
	inst  *dialogue.Instance
	vm    *script.VM
	ui    types.UIType
	begun string
}

// placed is a scene object currently registered as a collider.
type placed struct {
	id  collider.ID
	key string
	def types.ObjectDef
}

// Engine holds the definitions, the world and every subsystem.
type Engine struct {
	Defs     *state.Defs
	World    *state.World
	Registry *collider.Registry
	Player   *motion.Actor

	integrator *motion.Integrator
	dispatcher *interact.Dispatcher
	queue      *script.Queue
	worldVM    *script.VM
	dialogues  []*running
	objects    []placed
	speeds     motion.Speeds
	logger     *log.Logger

	frame []events.Event
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger shared by every subsystem.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine positioned in the start scene.
func New(defs *state.Defs, opts ...Option) (*Engine, error) {
	e := &Engine{
		Defs:     defs,
		World:    state.NewWorld(defs),
		Registry: collider.NewRegistry(),
		queue:    script.NewQueue(),
		logger:   log.Default(),
	}
	for _, o := range opts {
		o(e)
	}

	g := defs.Game
	e.speeds = motion.Speeds{
		Walk: orDefault(g.WalkSpeed, DefaultWalkSpeed),
		Run:  orDefault(g.RunSpeed, DefaultRunSpeed),
	}

	e.worldVM = script.NewVM(e.queue, script.WithName("world"), script.WithLogger(e.logger))
	for _, asset := range defs.Dialogues {
		vm := script.NewVM(e.queue, script.WithName(asset.Name), script.WithLogger(e.logger))
		e.dialogues = append(e.dialogues, &running{
			inst: dialogue.NewInstance(asset, vm, dialogue.WithLogger(e.logger)),
			vm:   vm,
		})
	}

	size := geom.V(orDefault(g.CharWidth, DefaultCharWidth), orDefault(g.CharHeight, DefaultCharHeight))
	e.Player = motion.Spawn(e.Registry, "player", geom.Vec2{}, collider.New(size, geom.Vec2{}))
	e.Player.Speed = e.speeds.Walk

	e.integrator = motion.NewIntegrator(e.Registry)
	e.dispatcher = interact.New(e.Registry, interact.Handlers{
		Collector: e,
		Scenes:    e,
		Dialogues: e,
		Scripts:   e.worldVM,
	}, e.logger)

	if err := e.LoadScene(g.StartScene); err != nil {
		e.Close()
		return nil, fmt.Errorf("entering start scene: %w", err)
	}
	e.frame = nil
	return e, nil
}

// Close releases every interpreter.
func (e *Engine) Close() {
	e.worldVM.Close()
	for _, r := range e.dialogues {
		r.vm.Close()
	}
}

// Queue exposes the command queue shared by every VM.
func (e *Engine) Queue() *script.Queue { return e.queue }

// Step runs one frame. An error means content is broken (a required dialogue
// node is missing) and the host should stop.
func (e *Engine) Step(in types.Intent, dt float64) (Frame, error) {
	e.World.Frame++
	e.frame = nil
	f := Frame{Number: e.World.Frame}

	err := e.step(in, dt, &f)

	f.Events = e.frame
	f.Scene = e.World.Scene
	f.Modal = e.Modal()
	e.frame = nil
	e.logger.Debug("frame", "n", f.Number, "events", len(f.Events), "moved", f.Moved, "pos", e.Player.Position)
	return f, err
}

func (e *Engine) step(in types.Intent, dt float64, f *Frame) error {
	if !e.World.StartShown {
		e.World.StartShown = true
		if name := e.Defs.Game.StartDialogue; name != "" {
			spec := types.DialogueSpec{NodeName: name, UI: types.UIMovementDisabled}
			found, err := e.startSpec(spec, true)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("start dialogue: %w: %q", dialogue.ErrNodeNotFound, name)
			}
		}
	}

	// 1. Dialogue input. While a modal dialogue is open Accept only
	// advances it; open notices wait their turn.
	if in.Accept {
		modal := e.Modal()
		for _, r := range e.dialogues {
			if r.inst.State() != dialogue.InProgress {
				continue
			}
			if modal && r.ui != types.UIMovementDisabled {
				continue
			}
			evs, err := r.inst.Advance()
			e.emit(events.FromDialogue(evs)...)
			if err != nil {
				return err
			}
		}
	}
	if in.Choose > 0 {
		for _, r := range e.dialogues {
			if r.inst.State() != dialogue.WaitingForChoice {
				continue
			}
			evs, err := r.inst.Choose(in.Choose - 1)
			e.emit(events.FromDialogue(evs)...)
			switch {
			case errors.Is(err, dialogue.ErrInvalidChoice):
				e.logger.Warn("ignoring choice", "dialogue", r.inst.Asset().Name, "err", err)
			case err != nil:
				return err
			}
		}
	}
	if in.Interact && len(e.Player.Available) > 0 && !e.Modal() {
		if _, err := e.startSpec(e.Player.Available[0], true); err != nil {
			return err
		}
	}

	// 2-3. Movement and interactions.
	if e.Modal() {
		motion.Stop(e.Player)
	} else {
		motion.ApplyIntent(e.Player, in, e.speeds)
	}
	res := e.integrator.Step(e.Player, dt)
	f.Moved = res.Moved
	for _, ix := range res.Interactions {
		e.emit(events.Event{
			Kind:      events.Interaction,
			Object:    e.objectName(ix.Collider),
			Behaviors: ix.Behaviors.String(),
		})
	}
	if _, err := e.dispatcher.DispatchAll(e.Player, res.Interactions); err != nil {
		return err
	}

	// 4. Script commands, drained once.
	evs, err := effects.Apply(e, e.queue.Drain(), e.logger)
	e.emit(evs...)
	return err
}

// Modal reports whether an open dialogue disables movement.
func (e *Engine) Modal() bool {
	for _, r := range e.dialogues {
		if r.inst.InProgress() && r.ui == types.UIMovementDisabled {
			return true
		}
	}
	return false
}

func (e *Engine) emit(evs ...events.Event) {
	e.frame = append(e.frame, evs...)
}

// startSpec begins spec's node on every dialogue that has it. Unless force
// is set, a dialogue already showing that node is left alone so standing on
// a notice does not restart it every frame. Reports whether any dialogue
// had the node; the first error wins.
func (e *Engine) startSpec(spec types.DialogueSpec, force bool) (found bool, err error) {
	for _, r := range e.dialogues {
		if !r.inst.HasNode(spec.NodeName) {
			continue
		}
		found = true
		if !force && r.inst.InProgress() && r.begun == spec.NodeName {
			continue
		}
		evs, _, berr := r.inst.BeginOptional(spec.NodeName)
		r.ui, r.begun = spec.UI, spec.NodeName
		e.emit(events.FromDialogue(evs)...)
		if berr != nil && err == nil {
			err = berr
		}
	}
	return found, err
}

func (e *Engine) objectName(id collider.ID) string {
	if ent, ok := e.Registry.Get(id); ok {
		return ent.Name
	}
	return ""
}

func (e *Engine) findPlaced(id collider.ID) (int, bool) {
	for i, p := range e.objects {
		if p.id == id {
			return i, true
		}
	}
	return -1, false
}

// behaviorsFor derives an object's live tags from its definition and the
// world's runtime overrides.
func (e *Engine) behaviorsFor(p placed) collider.BehaviorSet {
	if e.World.Taken[p.key] {
		return collider.BehaviorSet{}
	}
	bs, _ := loader.BehaviorsFor(p.def, e.World.Visible(p.def))
	if c, ok := e.World.CollectableOverride(p.def.Name); ok {
		if c {
			bs.Add(collider.Collect{})
		} else {
			bs.Remove(collider.Collect{})
		}
	}
	return bs
}

func (e *Engine) refresh(p placed) {
	ent, ok := e.Registry.Get(p.id)
	if !ok {
		return
	}
	for _, b := range ent.Collider.Behaviors.Items() {
		e.Registry.RemoveBehavior(p.id, b)
	}
	for _, b := range e.behaviorsFor(p).Items() {
		e.Registry.InsertBehavior(p.id, b)
	}
}

// definedCount counts authored objects named name across every scene.
func (e *Engine) definedCount(name string) int {
	n := 0
	for _, s := range e.Defs.Scenes {
		for _, o := range s.Objects {
			if o.Name == name {
				n++
			}
		}
	}
	return n
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
