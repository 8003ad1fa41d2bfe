package engine

import (
	"github.com/nathoo/overworld/engine/collider"
)

// Snapshot is an immutable, serializable view of the engine after a frame.
type Snapshot struct {
	Frame     uint64          `json:"frame"`
	Scene     string          `json:"scene"`
	Player    PlayerView      `json:"player"`
	Inventory map[string]int  `json:"inventory"`
	Available []string        `json:"available,omitempty"`
	Dialogues []DialogueView  `json:"dialogues"`
	Objects   []ObjectView    `json:"objects"`
	Overrides map[string]bool `json:"visibility,omitempty"`
}

// PlayerView is the player's kinematic state.
type PlayerView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Facing string  `json:"facing"`
	State  string  `json:"state"`
	Depth  float64 `json:"depth"`
}

// DialogueView is one dialogue instance.
type DialogueView struct {
	Name  string `json:"name"`
	State string `json:"state"`
	Node  int    `json:"node"`
}

// ObjectView is one live scene object.
type ObjectView struct {
	Name      string  `json:"name"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Behaviors string  `json:"behaviors"`
}

var facingNames = [...]string{"south", "north", "east", "west"}

// Snapshot copies the current state. The result shares nothing with the
// engine.
func (e *Engine) Snapshot() Snapshot {
	p := e.Player
	s := Snapshot{
		Frame: e.World.Frame,
		Scene: e.World.Scene,
		Player: PlayerView{
			X:     p.Position.X,
			Y:     p.Position.Y,
			State: p.State.String(),
			Depth: p.Depth,
		},
		Inventory: make(map[string]int, len(e.World.Inventory)),
		Overrides: make(map[string]bool, len(e.World.Visibility)),
	}
	if int(p.Facing) < len(facingNames) {
		s.Player.Facing = facingNames[p.Facing]
	}
	for k, v := range e.World.Inventory {
		s.Inventory[k] = v
	}
	for k, v := range e.World.Visibility {
		s.Overrides[k] = v
	}
	for _, spec := range p.Available {
		s.Available = append(s.Available, spec.NodeName)
	}
	for _, r := range e.dialogues {
		s.Dialogues = append(s.Dialogues, DialogueView{
			Name:  r.inst.Asset().Name,
			State: r.inst.State().String(),
			Node:  r.inst.Current(),
		})
	}
	e.Registry.Each(func(ent collider.Entry) {
		if ent.ID == p.ID || !e.Registry.InScope(ent.ID) {
			return
		}
		s.Objects = append(s.Objects, ObjectView{
			Name:      ent.Name,
			X:         ent.Position.X,
			Y:         ent.Position.Y,
			Behaviors: ent.Collider.Behaviors.String(),
		})
	})
	return s
}
