// Package effects applies drained script commands to the world. It is the
// only place script requests turn into mutations.
package effects

import (
	"github.com/charmbracelet/log"

	"github.com/nathoo/overworld/engine/events"
	"github.com/nathoo/overworld/engine/script"
)

// World is the mutation surface commands are applied against.
type World interface {
	// SetVisible toggles every object with the given name and returns how
	// many were affected.
	SetVisible(object string, visible bool) int
	// SetCollectable inserts or strips Collect on every object with the
	// given name and returns how many were affected.
	SetCollectable(object string, collectable bool) int
	// StartDialogue begins node on every dialogue that has it.
	StartDialogue(node string) ([]events.Event, error)
}

// Apply applies cmds in order. Each applied command is reported as a
// Command event. An error from starting a dialogue stops the batch.
func Apply(w World, cmds []script.Command, logger *log.Logger) ([]events.Event, error) {
	if logger == nil {
		logger = log.Default()
	}
	var out []events.Event

	for _, cmd := range cmds {
		out = append(out, events.Event{Kind: events.Command, Text: cmd.String()})

		switch c := cmd.(type) {
		case script.SetVisible:
			if w.SetVisible(c.Object, c.Visible) == 0 {
				logger.Warn("set_visible: no such object", "object", c.Object)
			}

		case script.SetCollectable:
			if w.SetCollectable(c.Object, c.Collectable) == 0 {
				logger.Warn("set_collectable: no such object", "object", c.Object)
			}

		case script.StartDialogue:
			evs, err := w.StartDialogue(c.Node)
			out = append(out, evs...)
			if err != nil {
				return out, err
			}

		case script.PlaySound:
			out = append(out, events.Event{Kind: events.Sound, Path: c.Path})

		default:
			logger.Warn("unknown command", "command", cmd.String())
		}
	}

	return out, nil
}
