package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(cfg Config) error {
	if cfg.Store == nil {
		return errors.New("tui: no task store configured")
	}
	applyColorProfilePreference()
	applyThemePreference(cfg.Theme)

	m := newAppModel(cfg)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
