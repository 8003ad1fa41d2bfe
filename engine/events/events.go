// Package events defines the typed records a frame emits for hosts: dialogue
// output, interactions, applied commands and world changes.
package events

import (
	"github.com/nathoo/overworld/engine/dialogue"
)

// Kind names an event type. Values are stable and appear on the wire.
type Kind string

const (
	Text        Kind = "text"
	End         Kind = "end"
	Choices     Kind = "choices"
	Interaction Kind = "interaction"
	Command     Kind = "command"
	Sound       Kind = "sound"
	Collected   Kind = "collected"
	SceneLoaded Kind = "scene_loaded"
)

// Event is one thing that happened during a frame. Only the fields that
// apply to Kind are set.
type Event struct {
	Kind      Kind     `json:"kind"`
	Dialogue  string   `json:"dialogue,omitempty"`
	Text      string   `json:"text,omitempty"`
	Choices   []string `json:"choices,omitempty"`
	Object    string   `json:"object,omitempty"`
	Behaviors string   `json:"behaviors,omitempty"`
	Path      string   `json:"path,omitempty"`
	Scene     string   `json:"scene,omitempty"`
	Count     int      `json:"count,omitempty"`
}

// FromDialogue converts dialogue output into frame events.
func FromDialogue(in []dialogue.Event) []Event {
	out := make([]Event, 0, len(in))
	for _, e := range in {
		switch e.Kind {
		case dialogue.EventText:
			out = append(out, Event{Kind: Text, Dialogue: e.Dialogue, Text: e.Text})
		case dialogue.EventEnd:
			out = append(out, Event{Kind: End, Dialogue: e.Dialogue})
		case dialogue.EventChoices:
			opts := make([]string, len(e.Choices))
			for i, c := range e.Choices {
				opts[i] = c.Text
			}
			out = append(out, Event{Kind: Choices, Dialogue: e.Dialogue, Choices: opts})
		}
	}
	return out
}

// Filter returns the events whose kind is one of kinds.
func Filter(evs []Event, kinds ...Kind) []Event {
	var out []Event
	for _, e := range evs {
		for _, k := range kinds {
			if e.Kind == k {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Has reports whether any event has the given kind.
func Has(evs []Event, kind Kind) bool {
	for _, e := range evs {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
