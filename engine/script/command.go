// Package script bridges the embedded Lua interpreter to the engine. Native
// functions never touch the world; they append Commands to a Queue that the
// engine drains once per frame.
package script

import (
	"fmt"
	"sync"
)

// Command is a deferred world mutation requested by a script.
type Command interface {
	String() string
	command()
}

// SetVisible shows or hides every object with the given name.
type SetVisible struct {
	Object  string
	Visible bool
}

// SetCollectable adds or strips the Collect tag on named objects.
type SetCollectable struct {
	Object      string
	Collectable bool
}

// StartDialogue begins the node on every dialogue that has it.
type StartDialogue struct {
	Node string
}

// PlaySound asks the host to play an audio asset.
type PlaySound struct {
	Path string
}

func (SetVisible) command()     {}
func (SetCollectable) command() {}
func (StartDialogue) command()  {}
func (PlaySound) command()      {}

func (c SetVisible) String() string {
	return fmt.Sprintf("set_visible(%q, %t)", c.Object, c.Visible)
}

func (c SetCollectable) String() string {
	return fmt.Sprintf("set_collectable(%q, %t)", c.Object, c.Collectable)
}

func (c StartDialogue) String() string { return fmt.Sprintf("start_dialogue(%q)", c.Node) }
func (c PlaySound) String() string     { return fmt.Sprintf("play_sound(%q)", c.Path) }

// Queue is an append-many, drain-once command buffer. Safe for concurrent
// producers.
type Queue struct {
	mu   sync.Mutex
	cmds []Command
}

// NewQueue creates an empty queue.
func NewQueue() *Queue { return &Queue{} }

// Push appends cmd.
func (q *Queue) Push(cmd Command) {
	q.mu.Lock()
	q.cmds = append(q.cmds, cmd)
	q.mu.Unlock()
}

// Drain removes and returns every queued command in append order.
func (q *Queue) Drain() []Command {
	q.mu.Lock()
	out := q.cmds
	q.cmds = nil
	q.mu.Unlock()
	return out
}

// Len returns the number of queued commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.cmds)
}
