// Package cli provides a line-oriented host for the overworld engine: each
// typed command is held as an intent for one or more frames and the frame
// events are printed as text.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nathoo/overworld/engine"
	"github.com/nathoo/overworld/engine/events"
	"github.com/nathoo/overworld/engine/parser"
	"github.com/nathoo/overworld/types"
)

// DefaultDT is the simulated frame length used when DT is unset.
const DefaultDT = 1.0 / 30

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	DT        float64
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)
	Observe   engine.Observer
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
		DT:     DefaultDT,
	}
}

// Run starts the loop: title, one idle frame (which shows the start
// dialogue), then prompt -> input -> frames -> output. A non-nil error means
// the content is broken and the host should exit non-zero.
func (c *CLI) Run() error {
	if g := c.Engine.Defs.Game; g.Title != "" {
		c.printLine(g.Title)
		c.printLine("")
	}
	if err := c.step(types.Intent{}, 1); err != nil {
		return err
	}

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return nil // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		cmd := parser.Parse(input)
		if cmd.Intent == (types.Intent{}) && cmd.Verb != "wait" {
			c.printLine(fmt.Sprintf("I don't know how to %q.", input))
			continue
		}
		if err := c.step(cmd.Intent, cmd.Frames); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// step holds in for n frames. Movement stops early once the player is
// blocked; one-shot inputs (accept, interact, choose) only apply to the
// first frame.
func (c *CLI) step(in types.Intent, n int) error {
	dt := c.DT
	if dt <= 0 {
		dt = DefaultDT
	}
	for i := 0; i < n; i++ {
		f, err := c.Engine.Step(in, dt)
		c.printFrame(f)
		if c.Observe != nil {
			c.Observe(c.Engine, f)
		}
		if err != nil {
			return err
		}
		in.Accept, in.Interact, in.Choose = false, false, 0
		if moving(in) && !f.Moved {
			break
		}
		// Stop walking into a new scene or a dialogue that just opened.
		if events.Has(f.Events, events.SceneLoaded) || events.Has(f.Events, events.Text) {
			break
		}
	}
	return nil
}

func moving(in types.Intent) bool {
	return in.Up || in.Down || in.Left || in.Right
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit         - Exit game",
		"  /help         - Show this help",
		"  /state        - Debug: dump current state",
		"  /trace        - Toggle per-frame event trace",
		"",
		"Game commands:",
		"  n/s/e/w [frames]      - Walk (diagonals: ne, nw, se, sw)",
		"  go <dir> [frames]     - Walk for a number of frames",
		"  run <dir> [frames]    - Run for a number of frames",
		"  interact (i, talk)    - Start an available dialogue",
		"  accept (a, next)      - Advance the open dialogue",
		"  <number>, choose <n>  - Pick a dialogue choice",
		"  wait [frames] (z)     - Let frames pass",
		"  again (g)             - Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.Engine.Snapshot()
	c.printSystem(fmt.Sprintf("Frame: %d", s.Frame))
	c.printSystem(fmt.Sprintf("Scene: %s", s.Scene))
	c.printSystem(fmt.Sprintf("Player: (%.1f, %.1f) facing %s, %s", s.Player.X, s.Player.Y, s.Player.Facing, s.Player.State))
	if len(s.Inventory) > 0 {
		c.printSystem(fmt.Sprintf("Inventory: %s", formatCounts(s.Inventory)))
	}
	for _, a := range s.Available {
		c.printSystem(fmt.Sprintf("Available: %s", a))
	}
	for _, d := range s.Dialogues {
		if d.State != "ended" {
			c.printSystem(fmt.Sprintf("Dialogue %s: %s at node %d", d.Name, d.State, d.Node))
		}
	}
}

func (c *CLI) printFrame(f engine.Frame) {
	for _, ev := range f.Events {
		switch ev.Kind {
		case events.Text:
			c.printLine(ev.Text)
		case events.Choices:
			for i, choice := range ev.Choices {
				c.printLine(fmt.Sprintf("  %d. %s", i+1, choice))
			}
		case events.Collected:
			c.printSystem(fmt.Sprintf("Collected %s (%d).", ev.Object, ev.Count))
		case events.SceneLoaded:
			c.printLine("")
			c.printLine(fmt.Sprintf("-- %s --", ev.Scene))
		case events.Sound:
			c.printLine(fmt.Sprintf("*%s*", ev.Path))
		}
		if c.Trace {
			c.printSystem(fmt.Sprintf("trace %d: %s", f.Number, traceLine(ev)))
		}
	}
}

func traceLine(ev events.Event) string {
	switch ev.Kind {
	case events.Interaction:
		return fmt.Sprintf("%s %s {%s}", ev.Kind, ev.Object, ev.Behaviors)
	case events.Command:
		return fmt.Sprintf("%s %s", ev.Kind, ev.Text)
	case events.Text, events.End, events.Choices:
		return fmt.Sprintf("%s [%s]", ev.Kind, ev.Dialogue)
	default:
		return string(ev.Kind)
	}
}

func formatCounts(m map[string]int) string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s x%d", n, m[n])
	}
	return strings.Join(parts, ", ")
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
