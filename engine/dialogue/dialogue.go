package dialogue

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

var (
	// ErrNodeNotFound is a content defect: a required node name is missing.
	ErrNodeNotFound = errors.New("dialogue node not found")
	// ErrInvalidChoice is returned for an out-of-range Choose index.
	ErrInvalidChoice = errors.New("invalid dialogue choice")
	// ErrRunaway is returned when execution passes too many non-pausing
	// nodes in one go, e.g. a GoTo cycle.
	ErrRunaway = errors.New("dialogue did not pause")
)

// maxSteps bounds the non-pausing nodes run by one execute call.
const maxSteps = 1024

// Interpreter evaluates script code synchronously.
type Interpreter interface {
	Eval(code string) error
}

// State is the instance's execution state.
type State int

const (
	Ended State = iota
	InProgress
	WaitingForChoice
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case WaitingForChoice:
		return "waiting_for_choice"
	default:
		return "ended"
	}
}

// EventKind identifies what a dialogue Event carries.
type EventKind int

const (
	EventText EventKind = iota
	EventEnd
	EventChoices
)

// Event is emitted for the UI when dialogue output changes.
type Event struct {
	Kind     EventKind
	Dialogue string
	Text     string
	Choices  []Choice
}

// Instance runs one Asset against one interpreter.
type Instance struct {
	asset  *Asset
	interp Interpreter
	logger *log.Logger

	current      int
	pendingIndex int
	hasIndex     bool
	pendingName  string
	hasName      bool
	state        State
	choices      []Choice
}

// Option configures an Instance.
type Option func(*Instance)

// WithLogger sets the logger used for script failures.
func WithLogger(l *log.Logger) Option {
	return func(d *Instance) { d.logger = l }
}

// NewInstance binds asset to interp. The instance starts Ended.
func NewInstance(asset *Asset, interp Interpreter, opts ...Option) *Instance {
	d := &Instance{
		asset:  asset,
		interp: interp,
		logger: log.Default(),
		state:  Ended,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Asset returns the bound asset.
func (d *Instance) Asset() *Asset { return d.asset }

// State returns the current execution state.
func (d *Instance) State() State { return d.state }

// InProgress reports whether the dialogue is showing something.
func (d *Instance) InProgress() bool { return d.state != Ended }

// Current returns the current node index. It may be past the end.
func (d *Instance) Current() int { return d.current }

// Pending returns the pending override: an index, a name, or neither.
func (d *Instance) Pending() (index int, hasIndex bool, name string, hasName bool) {
	return d.pendingIndex, d.hasIndex, d.pendingName, d.hasName
}

// Choices returns the options while waiting for a choice.
func (d *Instance) Choices() []Choice {
	out := make([]Choice, len(d.choices))
	copy(out, d.choices)
	return out
}

// HasNode reports whether the asset has a node with the given name.
func (d *Instance) HasNode(name string) bool { return d.asset.Has(name) }

// Begin starts running from the named node. A missing name is returned as
// ErrNodeNotFound and leaves the instance Ended.
func (d *Instance) Begin(name string) ([]Event, error) {
	d.pendingName, d.hasName = name, true
	d.state = InProgress
	d.choices = nil
	return d.execute()
}

// BeginOptional is Begin for best-effort triggers. If the name does not
// exist it returns false and changes nothing.
func (d *Instance) BeginOptional(name string) ([]Event, bool, error) {
	if !d.asset.Has(name) {
		return nil, false, nil
	}
	events, err := d.Begin(name)
	return events, true, err
}

// Advance moves past the current Text node. No-op unless InProgress.
func (d *Instance) Advance() ([]Event, error) {
	if d.state != InProgress {
		return nil, nil
	}
	if d.hasIndex {
		d.current = d.pendingIndex
	} else {
		d.current++
	}
	d.pendingIndex, d.hasIndex = 0, false
	return d.execute()
}

// Choose picks option i (0-based) of the current Branch. No-op unless
// WaitingForChoice.
func (d *Instance) Choose(i int) ([]Event, error) {
	if d.state != WaitingForChoice {
		return nil, nil
	}
	if i < 0 || i >= len(d.choices) {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidChoice, i+1, len(d.choices))
	}
	next := d.choices[i].Next
	d.choices = nil
	d.state = InProgress
	d.pendingName, d.hasName = next, true
	return d.execute()
}

// execute runs nodes until one needs to wait for the player.
func (d *Instance) execute() ([]Event, error) {
	if d.state == Ended {
		return nil, nil
	}

	if d.hasName {
		name := d.pendingName
		d.clearPending()
		idx, err := d.resolve(name)
		if err != nil {
			d.stop()
			return nil, err
		}
		d.current = idx
	}

	var events []Event
	for steps := 0; ; steps++ {
		if steps >= maxSteps {
			d.stop()
			return events, fmt.Errorf("%w: %s after %d nodes", ErrRunaway, d.asset.Name, steps)
		}
		if d.current < 0 || d.current >= len(d.asset.Nodes) {
			// Running off the end is a silent end.
			d.stop()
			return events, nil
		}

		node := d.asset.Nodes[d.current]
		switch b := node.Body.(type) {
		case Text:
			events = append(events, Event{Kind: EventText, Dialogue: d.asset.Name, Text: b.Text})
			if node.Next != "" {
				idx, err := d.resolve(node.Next)
				if err != nil {
					d.stop()
					return events, err
				}
				d.pendingIndex, d.hasIndex = idx, true
			}
			return events, nil

		case GoTo:
			idx, err := d.resolve(b.Target)
			if err != nil {
				d.stop()
				return events, err
			}
			d.current = idx

		case End:
			d.stop()
			events = append(events, Event{Kind: EventEnd, Dialogue: d.asset.Name})
			return events, nil

		case Script:
			d.eval(node, b.Code)
			if node.Next != "" {
				idx, err := d.resolve(node.Next)
				if err != nil {
					d.stop()
					return events, err
				}
				d.current = idx
			} else {
				d.current++
			}

		case Branch:
			d.state = WaitingForChoice
			d.choices = b.Choices
			events = append(events, Event{Kind: EventChoices, Dialogue: d.asset.Name, Choices: d.Choices()})
			return events, nil

		default:
			d.stop()
			return events, fmt.Errorf("dialogue %s node %d: unknown body %T", d.asset.Name, d.current, node.Body)
		}
	}
}

func (d *Instance) resolve(name string) (int, error) {
	idx, ok := d.asset.Index(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q in %s", ErrNodeNotFound, name, d.asset.Name)
	}
	return idx, nil
}

// eval runs a script node. Failures are logged and the dialogue moves on.
func (d *Instance) eval(node Node, code string) {
	if d.interp == nil {
		d.logger.Warn("script node without interpreter", "dialogue", d.asset.Name, "node", d.current)
		return
	}
	if err := d.interp.Eval(code); err != nil {
		d.logger.Warn("dialogue script failed",
			"dialogue", d.asset.Name, "node", d.current, "name", node.Name, "err", err)
	}
}

func (d *Instance) stop() {
	d.state = Ended
	d.choices = nil
	d.clearPending()
}

func (d *Instance) clearPending() {
	d.pendingIndex, d.hasIndex = 0, false
	d.pendingName, d.hasName = "", false
}
