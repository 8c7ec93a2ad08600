package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/provider"
	"github.com/example/ibozctl/internal/resource"
)

// testRunParameters is sent with every simulated run. Runs from the panel
// never execute against a live mailbox.
var testRunParameters = map[string]any{"dryRun": true}

type loadedMsg[T any] struct {
	result resource.Result[T]
}

type healthMsg struct {
	health *api.HealthResponse
	err    error
}

type autoRefreshMsg struct{}

type focusTickMsg struct {
	generation uint64
	at         time.Time
}

type testRunMsg struct {
	ticket resource.Ticket
	result *api.TestRunResponse
	err    error
}

type configSavedMsg struct {
	ticket resource.Ticket
	state  *api.ProviderState
	err    error
}

type authDoneMsg struct {
	submission provider.Submission
	state      *api.ProviderState
	err        error
}

type messagesFetchedMsg struct {
	generation uint64
	response   *api.MessagesResponse
	err        error
}

// fetchCmd runs req against the backend off the event loop.
func fetchCmd[T any](backend Backend, req resource.Request) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg[T]{result: resource.Load(req, func(ctx context.Context, endpoint string) (*T, error) {
			var out T
			if err := backend.Get(ctx, endpoint, &out); err != nil {
				return nil, err
			}
			return &out, nil
		})}
	}
}

func (m *Model) observeDashboardCmd() tea.Cmd {
	return fetchCmd[api.DashboardResponse](m.backend, m.data.dashboard.Observe(m.ctx, api.EndpointDashboard))
}

func (m *Model) observeFocusPlanCmd() tea.Cmd {
	return fetchCmd[api.FocusPlanResponse](m.backend, m.data.focusPlan.Observe(m.ctx, api.EndpointFocusPlan))
}

func (m *Model) observeAutomationsCmd() tea.Cmd {
	return fetchCmd[api.AutomationsResponse](
		m.backend,
		m.data.automations.Observe(m.ctx, api.EndpointAutomations),
	)
}

func (m *Model) observeProviderCmd() tea.Cmd {
	return fetchCmd[api.ProviderState](m.backend, m.data.provider.Observe(m.ctx, api.EndpointProvider))
}

// observeTabCmd loads the data behind t. Without force it only loads what
// has never arrived and is not already on its way.
func (m *Model) observeTabCmd(t tab, force bool) tea.Cmd {
	switch t {
	case tabDashboard:
		if force || needsLoad(m.data.dashboard) {
			return m.observeDashboardCmd()
		}
	case tabFocus:
		if force || needsLoad(m.data.focusPlan) {
			return m.observeFocusPlanCmd()
		}
	case tabAutomations:
		if force || needsLoad(m.data.automations) {
			return m.observeAutomationsCmd()
		}
	case tabSettings:
		if force || needsLoad(m.data.provider) {
			return m.observeProviderCmd()
		}
	}
	return nil
}

// stopTabFetch abandons the read behind t once it is no longer shown.
func (m *Model) stopTabFetch(t tab) {
	switch t {
	case tabDashboard:
		stopPending(m.data.dashboard)
	case tabFocus:
		stopPending(m.data.focusPlan)
	case tabAutomations:
		stopPending(m.data.automations)
	case tabSettings:
		stopPending(m.data.provider)
	}
}

func needsLoad[T any](f *resource.Fetcher[T]) bool {
	return f.State().Data == nil && !f.Pending()
}

func stopPending[T any](f *resource.Fetcher[T]) {
	if f.Pending() {
		f.Stop()
	}
}

func (m *Model) healthCmd() tea.Cmd {
	backend := m.backend
	ctx := m.ctx
	return func() tea.Msg {
		res, err := backend.Health(ctx)
		return healthMsg{health: res, err: err}
	}
}

func (m *Model) autoRefreshCmd() tea.Cmd {
	interval := m.uiConfig.RefreshInterval()
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return autoRefreshMsg{}
	})
}

func (m *Model) focusTickCmd(generation uint64) tea.Cmd {
	return tea.Tick(m.uiConfig.TickInterval(), func(at time.Time) tea.Msg {
		return focusTickMsg{generation: generation, at: at}
	})
}

func (m *Model) runTestCmd(templateID string) tea.Cmd {
	ticket := m.runner.dispatcher.Invoke(templateID)
	backend := m.backend
	ctx := m.ctx
	return func() tea.Msg {
		res, err := backend.RunAutomationTest(ctx, templateID, testRunParameters)
		return testRunMsg{ticket: ticket, result: res, err: err}
	}
}

func (m *Model) saveConfigCmd(cfg api.ProviderConfig) tea.Cmd {
	ticket := m.settings.save.Invoke(string(cfg.Provider))
	backend := m.backend
	ctx := m.ctx
	return func() tea.Msg {
		state, err := backend.SaveProviderConfig(ctx, cfg)
		if err != nil {
			err = fmt.Errorf("save provider config: %w", err)
		}
		return configSavedMsg{ticket: ticket, state: state, err: err}
	}
}

func (m *Model) authenticateCmd(sub provider.Submission, req api.AuthRequest) tea.Cmd {
	backend := m.backend
	ctx := m.ctx
	return func() tea.Msg {
		state, err := backend.Authenticate(ctx, req)
		return authDoneMsg{submission: sub, state: state, err: err}
	}
}

func (m *Model) fetchMessagesCmd() tea.Cmd {
	generation := m.settings.messages.Begin()
	backend := m.backend
	ctx := m.ctx
	return func() tea.Msg {
		res, err := backend.FetchMessages(ctx)
		return messagesFetchedMsg{generation: generation, response: res, err: err}
	}
}
