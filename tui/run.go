package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the menu and blocks until the user quits or ctx is done.
func Run(ctx context.Context, settings Settings) error {
	p := tea.NewProgram(newModel(ctx, settings), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if m, ok := final.(model); ok {
		m.stop()
	}
	if err != nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}
