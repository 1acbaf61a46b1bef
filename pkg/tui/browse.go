package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

// Browse runs the interactive skill browser until the user quits.
func Browse(ctx context.Context, cat Catalog, opts Options) error {
	if !isTTY() {
		return errors.New("browse needs an interactive terminal")
	}

	p := tea.NewProgram(NewModel(ctx, cat, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	result, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "error running program")
	}

	if model, ok := result.(Model); ok {
		if skill, ok := model.State().Selected(); ok {
			fmt.Printf("Last selected: %s (%s)\n", skill.Name, skill.DetailPath())
		}
	}
	return nil
}

// isTTY checks if the terminal supports advanced features
func isTTY() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
