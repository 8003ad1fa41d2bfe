package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
)

// keyMap maps terminal keys to player input. Terminals only report key
// presses, so a direction key is held for a few frames and refreshed by the
// terminal's key repeat.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Stop     key.Binding
	Run      key.Binding
	Accept   key.Binding
	Interact key.Binding
	Choose   key.Binding
	Trace    key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "w"), key.WithHelp("↑/w", "north")),
		Down:     key.NewBinding(key.WithKeys("down", "s"), key.WithHelp("↓/s", "south")),
		Left:     key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "west")),
		Right:    key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "east")),
		Stop:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Run:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run")),
		Accept:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "next")),
		Interact: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "talk")),
		Choose:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "choose")),
		Trace:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "trace")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Run, k.Accept, k.Interact, k.Choose, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Stop, k.Run},
		{k.Accept, k.Interact, k.Choose},
		{k.Trace, k.Quit},
	}
}

// viewportKeyMap returns a viewport keymap that only scrolls with paging
// keys; arrows belong to the player.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
