// Package parser converts typed host commands into frame intents.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strconv"
	"strings"

	"github.com/nathoo/overworld/types"
)

// MaxFrames caps how many frames one command may hold its intent.
const MaxFrames = 600

// Command is a parsed line: an intent held for Frames frames.
type Command struct {
	Verb   string // canonical verb; "" for empty input
	Intent types.Intent
	Frames int
}

type dir struct{ up, down, left, right bool }

var directions = map[string]dir{
	"n": {up: true}, "north": {up: true}, "up": {up: true}, "u": {up: true},
	"s": {down: true}, "south": {down: true}, "down": {down: true}, "d": {down: true},
	"e": {right: true}, "east": {right: true}, "right": {right: true},
	"w": {left: true}, "west": {left: true}, "left": {left: true},
	"ne": {up: true, right: true}, "northeast": {up: true, right: true},
	"nw": {up: true, left: true}, "northwest": {up: true, left: true},
	"se": {down: true, right: true}, "southeast": {down: true, right: true},
	"sw": {down: true, left: true}, "southwest": {down: true, left: true},
}

var verbAliases = map[string]string{
	// Movement
	"go":   "go",
	"walk": "go",
	"move": "go",
	"head": "go",

	// Running
	"run":    "run",
	"sprint": "run",
	"dash":   "run",

	// Dialogue advance
	"a":        "accept",
	"accept":   "accept",
	"next":     "accept",
	"continue": "accept",
	"ok":       "accept",

	// Interaction
	"i":        "interact",
	"interact": "interact",
	"talk":     "interact",
	"use":      "interact",
	"examine":  "interact",
	"x":        "interact",

	// Choices
	"choose": "choose",
	"pick":   "choose",
	"c":      "choose",

	// Idle
	"wait": "wait",
	"z":    "wait",
}

// Parse converts a raw command string into a Command. Unknown verbs come
// back with a zero intent and the verb as typed.
func Parse(input string) Command {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(words) == 0 {
		return Command{}
	}

	// Bare number: choose that option.
	if n, err := strconv.Atoi(words[0]); err == nil && len(words) == 1 {
		return Command{Verb: "choose", Intent: types.Intent{Choose: max(n, 0)}, Frames: 1}
	}

	// Bare direction: walk one frame (or N).
	if d, ok := directions[words[0]]; ok {
		return move(d, false, words[1:])
	}

	verb, ok := verbAliases[words[0]]
	if !ok {
		return Command{Verb: words[0], Frames: 1}
	}
	rest := words[1:]

	switch verb {
	case "go", "run":
		if len(rest) == 0 {
			return Command{Verb: verb, Frames: 1}
		}
		d, ok := directions[rest[0]]
		if !ok {
			return Command{Verb: verb, Frames: 1}
		}
		return move(d, verb == "run", rest[1:])
	case "accept":
		return Command{Verb: verb, Intent: types.Intent{Accept: true}, Frames: 1}
	case "interact":
		return Command{Verb: verb, Intent: types.Intent{Interact: true}, Frames: 1}
	case "choose":
		n := 0
		if len(rest) > 0 {
			n, _ = strconv.Atoi(rest[0])
		}
		return Command{Verb: verb, Intent: types.Intent{Choose: max(n, 0)}, Frames: 1}
	default: // wait
		return Command{Verb: verb, Frames: frames(rest)}
	}
}

func move(d dir, run bool, rest []string) Command {
	verb := "go"
	if run {
		verb = "run"
	}
	return Command{
		Verb: verb,
		Intent: types.Intent{
			Up: d.up, Down: d.down, Left: d.left, Right: d.right,
			Run: run,
		},
		Frames: frames(rest),
	}
}

// frames reads an optional repeat count, clamped to [1, MaxFrames].
func frames(rest []string) int {
	if len(rest) == 0 {
		return 1
	}
	n, err := strconv.Atoi(rest[0])
	if err != nil || n < 1 {
		return 1
	}
	return min(n, MaxFrames)
}
