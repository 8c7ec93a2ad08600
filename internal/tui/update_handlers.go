package tui

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/focus"
	"github.com/example/ibozctl/internal/provider"
)

const settingsSavedStatus = "Connection settings saved"

func (m Model) updateSpinner(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.ui.spinner, cmd = m.ui.spinner.Update(msg)
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Close modals on any keypress
	if m.ui.showHelp {
		m.ui.showHelp = false
		return m, nil
	}
	if m.ui.showError {
		m.ui.showError = false
		m.ui.err = nil
		return m, nil
	}
	if m.settings.editing {
		return m.handleEditingKey(msg)
	}

	km := m.keyMap()
	switch {
	case key.Matches(msg, km.global.Quit):
		return m, tea.Quit
	case key.Matches(msg, km.global.Help):
		m.ui.showHelp = true
		return m, nil
	case key.Matches(msg, km.global.NextTab):
		return m.switchTab(m.currentTab + 1)
	case key.Matches(msg, km.global.PrevTab):
		return m.switchTab(m.currentTab - 1)
	case key.Matches(msg, km.global.Refresh):
		m.logf("refresh tab=%s", m.currentTab)
		return m, m.observeTabCmd(m.currentTab, true)
	}
	if idx := slices.IndexFunc(tabs, func(t tab) bool {
		return msg.String() == fmt.Sprint(int(t)+1)
	}); idx >= 0 {
		return m.switchTab(tabs[idx])
	}

	switch m.currentTab {
	case tabFocus:
		return m.handleFocusKey(msg)
	case tabAutomations:
		return m.handleAutomationsKey(msg)
	case tabSettings:
		return m.handleSettingsKey(msg)
	default:
		return m.handleScrollKey(msg)
	}
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.ui.viewport, cmd = m.ui.viewport.Update(msg)
	return m, cmd
}

// switchTab moves to t, wrapping at both ends. The read behind the tab
// being left is abandoned; the new tab loads only if it has nothing yet.
func (m Model) switchTab(t tab) (tea.Model, tea.Cmd) {
	n := tab(len(tabs))
	t = (t%n + n) % n
	if t == m.currentTab {
		return m, nil
	}
	m.stopTabFetch(m.currentTab)
	m.currentTab = t
	m.ui.viewport.GotoTop()
	m.logf("tab switch to=%s", t)
	return m, tea.Batch(m.observeTabCmd(t, false), m.setWindowTitleCmd())
}

func (m Model) handleScrollKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keyMap()
	switch {
	case key.Matches(msg, km.global.Up):
		m.ui.viewport.SetYOffset(m.ui.viewport.YOffset - 1)
		return m, nil
	case key.Matches(msg, km.global.Down):
		m.ui.viewport.SetYOffset(m.ui.viewport.YOffset + 1)
		return m, nil
	case key.Matches(msg, km.global.PageUp):
		m.ui.viewport.SetYOffset(m.ui.viewport.YOffset - m.ui.viewport.Height)
		return m, nil
	case key.Matches(msg, km.global.PageDown):
		m.ui.viewport.SetYOffset(m.ui.viewport.YOffset + m.ui.viewport.Height)
		return m, nil
	}
	return m, nil
}

func (m Model) handleFocusKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keyMap()
	var sessions []api.FocusSession
	if plan := m.data.focusPlan.State().Data; plan != nil {
		sessions = plan.Sessions
	}
	switch {
	case key.Matches(msg, km.global.Up):
		m.focus.cursor = max(0, m.focus.cursor-1)
		return m, nil
	case key.Matches(msg, km.global.Down):
		m.focus.cursor = max(0, min(len(sessions)-1, m.focus.cursor+1))
		return m, nil
	case key.Matches(msg, km.focus.Start):
		session, ok := m.selectedSession()
		if !ok {
			return m, nil
		}
		return m.startFocus(session)
	case key.Matches(msg, km.focus.Stop):
		if m.focus.timer.Status() == focus.StatusIdle {
			return m, nil
		}
		m.focus.timer.Stop()
		return m, m.setWindowTitleCmd()
	case key.Matches(msg, km.focus.Acknowledge):
		m.focus.timer.Acknowledge()
		return m, m.setWindowTitleCmd()
	case key.Matches(msg, km.focus.MuteNotifications):
		m.focus.controls.NotificationsMuted = !m.focus.controls.NotificationsMuted
		return m, nil
	case key.Matches(msg, km.focus.ToggleBatching):
		m.focus.controls.BatchingEnabled = !m.focus.controls.BatchingEnabled
		return m, nil
	case key.Matches(msg, km.focus.ToggleSummaries):
		m.focus.controls.AutoSummaries = !m.focus.controls.AutoSummaries
		return m, nil
	}
	return m.handleScrollKey(msg)
}

// startFocus begins session, replacing whatever was running. The ticker is
// bound to the new generation so the old one dies on its next tick.
func (m Model) startFocus(session api.FocusSession) (tea.Model, tea.Cmd) {
	generation := m.focus.timer.Start(session, m.now())
	if m.focus.timer.Status() == focus.StatusCompleted {
		return m, tea.Batch(m.setWindowTitleCmd(), m.focusCompleteToastCmd())
	}
	return m, tea.Batch(m.focusTickCmd(generation), m.setWindowTitleCmd())
}

func (m Model) handleFocusTick(msg focusTickMsg) (tea.Model, tea.Cmd) {
	if !m.focus.timer.Current(msg.generation) {
		m.logf("focus tick drop stale gen=%d current=%d", msg.generation, m.focus.timer.Generation())
		return m, nil
	}
	m.focus.timer.Advance(msg.at)
	if m.focus.timer.Status() == focus.StatusCompleted {
		return m, tea.Batch(m.setWindowTitleCmd(), m.focusCompleteToastCmd())
	}
	return m, m.focusTickCmd(msg.generation)
}

func (m *Model) focusCompleteToastCmd() tea.Cmd {
	return tea.Batch(
		m.toastCmd("Focus session complete: "+m.focus.timer.Session().Label),
		bellCmd(),
	)
}

func (m Model) handleAutomationsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keyMap()
	var templates []api.AutomationTemplate
	if res := m.data.automations.State().Data; res != nil {
		templates = res.Templates
	}
	switch {
	case key.Matches(msg, km.global.Up):
		m.runner.cursor = max(0, m.runner.cursor-1)
		return m, nil
	case key.Matches(msg, km.global.Down):
		m.runner.cursor = max(0, min(len(templates)-1, m.runner.cursor+1))
		return m, nil
	case key.Matches(msg, km.automations.Run):
		if m.runner.cursor < 0 || m.runner.cursor >= len(templates) {
			return m, nil
		}
		return m, m.runTestCmd(templates[m.runner.cursor].ID)
	}
	return m.handleScrollKey(msg)
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keyMap()
	switch {
	case key.Matches(msg, km.settings.Next):
		m.settings.moveField(1)
		return m, nil
	case key.Matches(msg, km.settings.Prev):
		m.settings.moveField(-1)
		return m, nil
	case key.Matches(msg, km.settings.Edit):
		return m, m.settings.activate()
	case key.Matches(msg, km.settings.Save):
		return m.saveSettings()
	case key.Matches(msg, km.settings.Authenticate):
		return m.authenticate()
	case key.Matches(msg, km.settings.FetchMessages):
		return m, m.fetchMessagesCmd()
	}
	return m.handleScrollKey(msg)
}

func (m Model) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keyMap()
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, km.settings.Done),
		msg.Type == tea.KeyEnter && m.settings.field != fieldLabels:
		m.settings.finishEdit()
		return m, nil
	}
	return m, m.settings.updateEditing(msg)
}

// saveSettings validates the draft and sends it. Validation failures never
// reach the network.
func (m Model) saveSettings() (tea.Model, tea.Cmd) {
	m.settings.status = ""
	cfg, err := provider.Submit(m.settings.draft)
	if err != nil {
		m.settings.formErr = err.Error()
		return m, nil
	}
	m.settings.formErr = ""
	return m, m.saveConfigCmd(cfg)
}

func (m Model) handleConfigSaved(msg configSavedMsg) (tea.Model, tea.Cmd) {
	if !m.settings.save.Settle(msg.ticket, msg.state, msg.err) {
		return m, nil
	}
	if msg.err != nil {
		return m, m.errorToastCmd("Failed to save configuration")
	}
	m.data.provider.Set(msg.state)
	m.settings.reduce(provider.ServerStateArrived{State: msg.state})
	m.settings.auth.Sync(msg.state)
	m.settings.messages.Reset()
	m.settings.syncInputs()
	m.settings.status = settingsSavedStatus
	return m, m.successToastCmd(settingsSavedStatus)
}

func (m Model) authenticate() (tea.Model, tea.Cmd) {
	sub, req, err := m.settings.auth.Begin()
	if err != nil {
		m.settings.authFormErr = err.Error()
		return m, nil
	}
	m.settings.authFormErr = ""
	return m, m.authenticateCmd(sub, req)
}

// handleAuthDone applies the server snapshot but keeps the draft: the
// operator may be mid-edit on connection settings.
func (m Model) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.settings.auth.Fail(msg.submission, msg.err)
		return m, nil
	}
	if !m.settings.auth.Succeed(msg.submission, msg.state) {
		return m, nil
	}
	m.data.provider.Set(msg.state)
	m.settings.syncInputs()
	return m, m.successToastCmd(m.settings.auth.StatusText())
}

func (m Model) handleMessagesFetched(msg messagesFetchedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.settings.messages.Fail(msg.generation, msg.err)
		return m, nil
	}
	if !m.settings.messages.Apply(msg.generation, msg.response) {
		return m, nil
	}
	m.data.provider.Patch(func(state *api.ProviderState) {
		provider.PatchState(state, msg.response)
	})
	return m, nil
}

func (m Model) handleTestRun(msg testRunMsg) (tea.Model, tea.Cmd) {
	if !m.runner.dispatcher.Settle(msg.ticket, msg.result, msg.err) {
		return m, nil
	}
	if msg.err != nil {
		return m, m.errorToastCmd("Simulation failed")
	}
	return m, m.toastCmd(fmt.Sprintf("Simulation %s: %s", msg.result.Status, msg.ticket.Key))
}

func (m Model) handleHealth(msg healthMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.ui.err = fmt.Errorf("backend unreachable at %s: %w", m.backend.BaseURL(), msg.err)
		m.ui.showError = true
		return m, nil
	}
	m.logf("health status=%s", msg.health.Status)
	return m, nil
}

func (m Model) handleDashboardLoaded(msg loadedMsg[api.DashboardResponse]) (tea.Model, tea.Cmd) {
	m.data.dashboard.Apply(msg.result)
	return m, nil
}

// handleFocusPlanLoaded seeds the distraction controls from every fresh
// plan. Toggles made since are session local and are overwritten.
func (m Model) handleFocusPlanLoaded(msg loadedMsg[api.FocusPlanResponse]) (tea.Model, tea.Cmd) {
	if !m.data.focusPlan.Apply(msg.result) {
		return m, nil
	}
	if plan := m.data.focusPlan.State().Data; plan != nil {
		m.focus.controls = plan.Controls
		m.focus.controlsSeeded = true
		m.focus.cursor = max(0, min(len(plan.Sessions)-1, m.focus.cursor))
	}
	return m, nil
}

func (m Model) handleAutomationsLoaded(msg loadedMsg[api.AutomationsResponse]) (tea.Model, tea.Cmd) {
	if !m.data.automations.Apply(msg.result) {
		return m, nil
	}
	if res := m.data.automations.State().Data; res != nil {
		m.runner.cursor = max(0, min(len(res.Templates)-1, m.runner.cursor))
	}
	return m, nil
}

func (m Model) handleProviderLoaded(msg loadedMsg[api.ProviderState]) (tea.Model, tea.Cmd) {
	if !m.data.provider.Apply(msg.result) {
		return m, nil
	}
	state := m.data.provider.State().Data
	if state == nil {
		return m, nil
	}
	if m.settings.editing {
		m.settings.finishEdit()
	}
	m.settings.reduce(provider.ServerStateArrived{State: state})
	m.settings.auth.Sync(state)
	m.settings.syncInputs()
	return m, nil
}

func (m Model) handleAutoRefresh(autoRefreshMsg) (tea.Model, tea.Cmd) {
	if m.uiConfig.RefreshInterval() <= 0 {
		return m, nil
	}
	if m.currentTab != tabDashboard || m.data.dashboard.Pending() {
		return m, m.autoRefreshCmd()
	}
	return m, tea.Batch(m.observeDashboardCmd(), m.autoRefreshCmd())
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	oldWidth := m.ui.width
	m.ui.width = msg.Width
	m.ui.height = msg.Height
	if msg.Width != oldWidth && msg.Width > 0 {
		m.ui.alert = newAlertModel(m.theme, msg.Width)
	}
	m.ui.viewport.Width = msg.Width
	m.ui.viewport.Height = bodyHeight(msg.Height)
	m.focus.bar.Width = max(10, min(60, msg.Width-8))
	m.settings.setWidth(msg.Width)
	if width := max(20, min(100, msg.Width-4)); width != m.renderers.glamourWidth {
		if r, err := newGlamourRenderer(m.theme, width); err == nil {
			m.renderers.glamourRenderer = r
			m.renderers.glamourWidth = width
		}
	}
	return m, nil
}

func bellCmd() tea.Cmd {
	return func() tea.Msg {
		fmt.Print("\a")
		return nil
	}
}
