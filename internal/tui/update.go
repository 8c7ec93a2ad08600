package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/ibozctl/internal/api"
)

// Update handles events and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, alertCmd := m.updateAlerts(msg)
	next, cmd := m.update(msg)
	if nm, ok := next.(Model); ok {
		nm.syncViewport()
		next = nm
	}
	return next, tea.Batch(alertCmd, cmd)
}

func (m Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		return m.updateSpinner(msg)
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case healthMsg:
		return m.handleHealth(msg)
	case loadedMsg[api.DashboardResponse]:
		return m.handleDashboardLoaded(msg)
	case loadedMsg[api.FocusPlanResponse]:
		return m.handleFocusPlanLoaded(msg)
	case loadedMsg[api.AutomationsResponse]:
		return m.handleAutomationsLoaded(msg)
	case loadedMsg[api.ProviderState]:
		return m.handleProviderLoaded(msg)
	case focusTickMsg:
		return m.handleFocusTick(msg)
	case testRunMsg:
		return m.handleTestRun(msg)
	case configSavedMsg:
		return m.handleConfigSaved(msg)
	case authDoneMsg:
		return m.handleAuthDone(msg)
	case messagesFetchedMsg:
		return m.handleMessagesFetched(msg)
	case autoRefreshMsg:
		return m.handleAutoRefresh(msg)
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	default:
		return m, nil
	}
}
