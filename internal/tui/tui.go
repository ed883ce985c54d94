package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows m full screen with mouse tracking until the user quits and
// returns the final model.
func Run(m Model) (Model, error) {
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	if err != nil {
		return m, err
	}
	if fm, ok := final.(Model); ok {
		return fm, nil
	}
	return m, nil
}
