package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleModal = lipgloss.NewStyle().
			Background(lipgloss.Color("94")).
			Foreground(lipgloss.Color("230")).
			Bold(true)

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleChoice = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81"))

	styleScene = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true).
			Underline(true)

	styleSound = lipgloss.NewStyle().
			Foreground(lipgloss.Color("141")).
			Italic(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of a transcript line for styling.
type lineKind int

const (
	kindDialogue lineKind = iota
	kindChoice
	kindScene
	kindSound
	kindSystem
	kindError
	kindTrace
)

// renderLine applies the style for l's kind to already-wrapped text.
func renderLine(text string, kind lineKind) string {
	switch kind {
	case kindChoice:
		return styleChoice.Render(text)
	case kindScene:
		return styleScene.Render(text)
	case kindSound:
		return styleSound.Render(text)
	case kindSystem:
		return styledSystemMsg(text)
	case kindError:
		return styleError.Render(text)
	case kindTrace:
		return styleTrace.Render(text)
	default:
		return styleDialogue.Render(text)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
