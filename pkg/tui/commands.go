package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Akram012388/skillissue-world/pkg/keyboard"
)

// keyFor maps a terminal key press onto a browse key. Vim-style j/k
// double as the arrow keys.
func keyFor(msg tea.KeyMsg) (keyboard.Key, bool) {
	switch msg.Type {
	case tea.KeyEsc:
		return keyboard.KeyEscape, true
	case tea.KeyUp:
		return keyboard.KeyUp, true
	case tea.KeyDown:
		return keyboard.KeyDown, true
	case tea.KeyEnter:
		return keyboard.KeyEnter, true
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "/":
			return keyboard.KeySlash, true
		case "c":
			return keyboard.KeyCopy, true
		case "g":
			return keyboard.KeyOpen, true
		case "k":
			return keyboard.KeyUp, true
		case "j":
			return keyboard.KeyDown, true
		}
	}
	return "", false
}

// GetHelpText returns the help text for keyboard shortcuts
func GetHelpText() string {
	return `KEYBOARD SHORTCUTS
   /                 → Focus search
   Esc               → Clear filters, leave search or details
   ↑/↓ or k/j        → Move selection
   Enter             → Show details of the selected skill
   c                 → Copy install command
   g                 → Open the GitHub repo
   a                 → Switch agent
   t                 → Cycle tag filter
   ?                 → Toggle this help
   q, Ctrl+C (twice) → Quit`
}

// StatusHints is the one-line shortcut summary shown in the status bar.
const StatusHints = "/ search │ ↑↓ select │ enter details │ c copy │ g repo │ a agent │ t tag │ ? help │ q quit"
