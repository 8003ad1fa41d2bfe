// Package types defines the shared data structures for the overworld core.
// This package contains only type definitions: no logic, no methods.
package types

// Direction is the way an actor is facing.
type Direction int

const (
	South Direction = iota
	North
	East
	West
)

// UIType is the presentation mode a dialogue trigger asks for.
type UIType int

const (
	// UIMovementDisabled shows a modal box; the player cannot walk while it is open.
	UIMovementDisabled UIType = iota
	// UINotice shows a passive notice; movement continues.
	UINotice
)

// DialogueSpec describes a dialogue trigger attached to a world object.
// It is comparable so it can live inside a behavior set.
type DialogueSpec struct {
	NodeName    string
	UI          UIType
	AutoDisplay bool
}

// Intent is one frame of already-mapped player input.
type Intent struct {
	Up, Down, Left, Right bool
	Run                   bool
	Accept                bool // advance the current dialogue
	Interact              bool // trigger an available dialogue
	Choose                int  // 1-based choice selection; 0 = none
}

// GameDef holds game metadata and tuning from the Lua Game{} table.
type GameDef struct {
	Title         string
	Author        string
	Version       string
	StartScene    string
	StartDialogue string
	WalkSpeed     float64
	RunSpeed      float64
	CharWidth     float64
	CharHeight    float64
}

// ObjectDef is a scene object as authored, before behaviors are derived.
type ObjectDef struct {
	Name        string
	X, Y        float64 // center
	W, H        float64
	Visible     bool
	Shape       bool // authored as a bare shape (no sprite)
	HasChildren bool
	Props       map[string]any
}

// SceneDef is one map/level as authored.
type SceneDef struct {
	ID      string
	SpawnX  float64
	SpawnY  float64
	Objects []ObjectDef
}
