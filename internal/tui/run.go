package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the browser until the user quits.
func Run(ctx context.Context, deps Deps, view string, opts ...tea.ProgramOption) error {
	m, err := New(ctx, deps, view)
	if err != nil {
		return err
	}

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("terminal browser failed: %w", err)
	}
	return nil
}
