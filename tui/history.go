// Package tui provides a real-time Bubble Tea host for the overworld engine:
// the engine is stepped on a fixed tick and dialogue output scrolls in a
// viewport above a status bar.
package tui

// line is one unstyled transcript line with its classification, so it can
// be re-wrapped and re-styled when the terminal is resized.
type line struct {
	text string
	kind lineKind
}

// Transcript keeps the most recent output lines, dropping the oldest once
// full.
type Transcript struct {
	lines []line
	max   int
}

// NewTranscript creates a transcript holding at most max lines.
func NewTranscript(max int) *Transcript {
	if max < 1 {
		max = 1
	}
	return &Transcript{
		lines: make([]line, 0, max),
		max:   max,
	}
}

// Push appends a line.
func (t *Transcript) Push(l line) {
	t.lines = append(t.lines, l)
	if over := len(t.lines) - t.max; over > 0 {
		t.lines = append(t.lines[:0], t.lines[over:]...)
	}
}

// Lines returns the lines, oldest first. The slice must not be modified.
func (t *Transcript) Lines() []line { return t.lines }

// Len returns the number of lines held.
func (t *Transcript) Len() int { return len(t.lines) }
