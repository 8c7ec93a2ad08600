package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"

	"github.com/example/ibozctl/internal/config"
)

const (
	toastDurationSeconds = 6

	errorAlertKey   = "Error"
	successAlertKey = "Success"
)

func newAlertModel(theme config.Theme, width int) bubbleup.AlertModel {
	model := *bubbleup.NewAlertModel(width, true, toastDurationSeconds)

	color := strings.TrimSpace(theme.Panel.BorderSelected)
	if color == "" {
		color = strings.TrimSpace(theme.Status.ModeBg)
	}
	if color == "" {
		color = theme.Status.Fg
	}

	model.RegisterNewAlertType(bubbleup.AlertDefinition{
		Key:       bubbleup.InfoKey,
		ForeColor: color,
		Prefix:    bubbleup.InfoNerdSymbol,
	})
	model.RegisterNewAlertType(bubbleup.AlertDefinition{
		Key:       successAlertKey,
		ForeColor: theme.Panel.SuccessFg,
		Prefix:    "✓ ",
	})
	model.RegisterNewAlertType(bubbleup.AlertDefinition{
		Key:       errorAlertKey,
		ForeColor: theme.Panel.ErrorFg,
		Prefix:    "✗ ",
	})

	return model
}

func (m Model) updateAlerts(msg tea.Msg) (Model, tea.Cmd) {
	outAlert, alertCmd := m.ui.alert.Update(msg)
	m.ui.alert = outAlert.(bubbleup.AlertModel)
	return m, alertCmd
}

func (m *Model) toastCmd(message string) tea.Cmd {
	if strings.TrimSpace(message) == "" {
		return nil
	}
	return m.ui.alert.NewAlertCmd(bubbleup.InfoKey, message)
}

// successToastCmd confirms a change the backend accepted.
func (m *Model) successToastCmd(message string) tea.Cmd {
	if strings.TrimSpace(message) == "" {
		return nil
	}
	return m.ui.alert.NewAlertCmd(successAlertKey, message)
}

func (m *Model) errorToastCmd(message string) tea.Cmd {
	if strings.TrimSpace(message) == "" {
		return nil
	}
	return m.ui.alert.NewAlertCmd(errorAlertKey, message)
}
