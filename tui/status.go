package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sceneDisplayName derives a human-readable name from a scene ID.
// "dark_forest" -> "Dark Forest", "maps/cave.tmx" -> "Cave".
func sceneDisplayName(id string) string {
	if i := strings.LastIndexAny(id, "/\\"); i >= 0 {
		id = id[i+1:]
	}
	if i := strings.IndexByte(id, '.'); i > 0 {
		id = id[:i]
	}
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// renderStatusBar produces a full-width inverted status line showing the
// scene, the player's position and the inventory.
func (m Model) renderStatusBar() string {
	s := m.engine.Snapshot()

	left := fmt.Sprintf(" %s | (%.0f, %.0f) %s", sceneDisplayName(s.Scene), s.Player.X, s.Player.Y, s.Player.Facing)
	if m.run {
		left += " | run"
	}
	right := fmt.Sprintf("F:%d ", s.Frame)

	// Show inventory items if they fit, otherwise just the total.
	if len(s.Inventory) > 0 {
		names := make([]string, 0, len(s.Inventory))
		total := 0
		for n := range s.Inventory {
			names = append(names, n)
			total += s.Inventory[n]
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, n := range names {
			parts[i] = fmt.Sprintf("%s x%d", n, s.Inventory[n])
		}
		candidate := fmt.Sprintf("Inv: %s | F:%d ", strings.Join(parts, ", "), s.Frame)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Inv: %d | F:%d ", total, s.Frame)
		}
	}

	style := styleStatusBar
	if m.engine.Modal() {
		style = styleModal
		left += " | talking"
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return style.Width(m.width).Render(bar)
}
