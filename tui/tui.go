package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/overworld/engine"
	"github.com/nathoo/overworld/engine/events"
	"github.com/nathoo/overworld/types"
)

const (
	// DefaultFPS is the tick rate when none is configured.
	DefaultFPS = 30
	// transcriptSize bounds the dialogue log kept for the viewport.
	transcriptSize = 500
)

// tickMsg asks the model to step one frame.
type tickMsg time.Time

// Model is the Bubble Tea model for the overworld TUI.
type Model struct {
	engine  *engine.Engine
	keys    keyMap
	help    help.Model
	observe engine.Observer

	viewport viewport.Model
	log      *Transcript

	fps      int
	held     types.Intent // direction keys currently held
	holdLeft int          // frames until held directions are released
	pending  types.Intent // one-shot inputs for the next frame
	run      bool

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	err      error
}

// Option configures a Model.
type Option func(*Model)

// WithFPS sets the tick rate.
func WithFPS(fps int) Option {
	return func(m *Model) {
		if fps > 0 {
			m.fps = fps
		}
	}
}

// WithObserver is called after every frame.
func WithObserver(fn engine.Observer) Option {
	return func(m *Model) { m.observe = fn }
}

// WithTrace starts with per-frame event tracing enabled.
func WithTrace(on bool) Option {
	return func(m *Model) { m.trace = on }
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, opts ...Option) Model {
	m := Model{
		engine: eng,
		keys:   defaultKeyMap(),
		help:   help.New(),
		log:    NewTranscript(transcriptSize),
		fps:    DefaultFPS,
	}
	for _, o := range opts {
		o(&m)
	}
	if title := eng.Defs.Game.Title; title != "" {
		m.push(title, kindScene)
	}
	return m
}

// Run starts the Bubble Tea program. A non-nil error from a frame ends the
// program and is returned.
func Run(eng *engine.Engine, opts ...Option) error {
	p := tea.NewProgram(New(eng, opts...), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.err
	}
	return nil
}

// Err returns the fatal frame error that stopped the model, if any.
func (m Model) Err() error { return m.err }

// Init starts the frame ticker.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// holdFrames is how long one key press keeps the player walking.
func (m Model) holdFrames() int {
	return max(m.fps/4, 1)
}

// Update handles messages (ticks, key presses, window resize).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		vpHeight := m.height - 2 // 1 status bar + 1 help line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m = m.advance()
		if m.err != nil {
			m.quitting = true
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.press(types.Intent{Up: true})
	case key.Matches(msg, m.keys.Down):
		m.press(types.Intent{Down: true})
	case key.Matches(msg, m.keys.Left):
		m.press(types.Intent{Left: true})
	case key.Matches(msg, m.keys.Right):
		m.press(types.Intent{Right: true})
	case key.Matches(msg, m.keys.Stop):
		m.held, m.holdLeft = types.Intent{}, 0
	case key.Matches(msg, m.keys.Run):
		m.run = !m.run
	case key.Matches(msg, m.keys.Accept):
		m.pending.Accept = true
	case key.Matches(msg, m.keys.Interact):
		m.pending.Interact = true
	case key.Matches(msg, m.keys.Choose):
		m.pending.Choose = int(msg.String()[0] - '0')
	case key.Matches(msg, m.keys.Trace):
		m.trace = !m.trace
		if m.trace {
			m.push("Trace output enabled.", kindSystem)
		} else {
			m.push("Trace output disabled.", kindSystem)
		}
		m.refreshViewport()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// press holds a direction. A perpendicular direction still held is kept so
// two alternating keys walk diagonally.
func (m *Model) press(d types.Intent) {
	if m.holdLeft == 0 {
		m.held = types.Intent{}
	}
	switch {
	case d.Up, d.Down:
		m.held.Up, m.held.Down = d.Up, d.Down
	case d.Left, d.Right:
		m.held.Left, m.held.Right = d.Left, d.Right
	}
	m.holdLeft = m.holdFrames()
}

// advance steps the engine once with the current input.
func (m Model) advance() Model {
	in := m.pending
	m.pending = types.Intent{}
	if m.holdLeft > 0 {
		in.Up, in.Down, in.Left, in.Right = m.held.Up, m.held.Down, m.held.Left, m.held.Right
		m.holdLeft--
	}
	in.Run = m.run

	f, err := m.engine.Step(in, 1/float64(m.fps))
	if m.observe != nil {
		m.observe(m.engine, f)
	}
	n := m.log.Len()
	m.appendFrame(f)
	if err != nil {
		m.err = err
		m.push(fmt.Sprintf("fatal: %v", err), kindError)
	}
	if m.log.Len() != n || err != nil {
		m.refreshViewport()
	}
	return m
}

func (m *Model) appendFrame(f engine.Frame) {
	for _, ev := range f.Events {
		switch ev.Kind {
		case events.Text:
			m.push(ev.Text, kindDialogue)
		case events.Choices:
			for i, c := range ev.Choices {
				m.push(fmt.Sprintf("  %d. %s", i+1, c), kindChoice)
			}
		case events.Collected:
			m.push(fmt.Sprintf("Collected %s (%d).", ev.Object, ev.Count), kindSystem)
		case events.SceneLoaded:
			m.push(sceneDisplayName(ev.Scene), kindScene)
		case events.Sound:
			m.push("*"+ev.Path+"*", kindSound)
		}
		if m.trace {
			m.push(fmt.Sprintf("[trace] %d %s %s%s", f.Number, ev.Kind, ev.Object, ev.Text), kindTrace)
		}
	}
}

func (m *Model) push(text string, kind lineKind) {
	m.log.Push(line{text: text, kind: kind})
}

// refreshViewport re-wraps and re-styles the transcript at the current
// width and scrolls to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	styled := make([]string, 0, m.log.Len())
	for _, l := range m.log.Lines() {
		if l.text == "" {
			styled = append(styled, "")
			continue
		}
		styled = append(styled, renderLine(wordWrap(l.text, width), l.kind))
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries. Leading indentation is kept on the first line.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	indent := text[:len(text)-len(strings.TrimLeft(text, " "))]
	var result strings.Builder
	result.WriteString(indent)
	lineLen := len(indent)

	for i, word := range strings.Fields(text) {
		wLen := len(word)
		switch {
		case i == 0:
			result.WriteString(word)
			lineLen += wLen
		case lineLen+1+wLen > width:
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		default:
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport + status bar + key help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.help.View(m.keys)
}
