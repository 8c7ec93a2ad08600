package tui

import (
	"context"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/config"
	"github.com/example/ibozctl/internal/resource"
)

// Backend is the part of the automation backend the panel talks to.
// *api.Client satisfies it.
type Backend interface {
	BaseURL() string
	Get(ctx context.Context, endpoint string, out any) error
	Health(ctx context.Context) (*api.HealthResponse, error)
	RunAutomationTest(ctx context.Context, templateID string, params map[string]any) (*api.TestRunResponse, error)
	SaveProviderConfig(ctx context.Context, cfg api.ProviderConfig) (*api.ProviderState, error)
	Authenticate(ctx context.Context, req api.AuthRequest) (*api.ProviderState, error)
	FetchMessages(ctx context.Context) (*api.MessagesResponse, error)
}

type tab int

const (
	tabDashboard tab = iota
	tabFocus
	tabAutomations
	tabSettings
)

var tabs = []tab{tabDashboard, tabFocus, tabAutomations, tabSettings}

func (t tab) String() string {
	switch t {
	case tabDashboard:
		return "Dashboard"
	case tabFocus:
		return "Focus"
	case tabAutomations:
		return "Automations"
	case tabSettings:
		return "Email settings"
	default:
		return "Unknown"
	}
}

// Model is the TUI application state
type Model struct {
	currentTab tab

	ui        uiState
	data      fetchersState
	focus     focusState
	runner    runnerState
	settings  settingsState
	renderers renderersState
	theme     config.Theme
	uiConfig  config.UIConfig
	keyMapCfg config.KeyMap

	backend Backend
	now     func() time.Time

	// Context for cancellation
	ctx context.Context
}

// New creates a new TUI model
func New(
	ctx context.Context,
	backend Backend,
	theme config.Theme,
	uiConfig config.UIConfig,
	keyMapCfg config.KeyMap,
) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	ui := newUIState(theme)
	ui.help = newHelpModel(theme)
	ui.alert = newAlertModel(theme, 0)

	r, _ := newGlamourRenderer(theme, 80)

	model := Model{
		currentTab: tabDashboard,
		ui:         ui,
		data: fetchersState{
			dashboard:   resource.NewFetcher[api.DashboardResponse](),
			focusPlan:   resource.NewFetcher[api.FocusPlanResponse](),
			automations: resource.NewFetcher[api.AutomationsResponse](),
			provider:    resource.NewFetcher[api.ProviderState](),
		},
		focus: newFocusState(theme),
		runner: runnerState{
			dispatcher: resource.NewDispatcher[api.TestRunResponse](),
		},
		settings:  newSettingsState(theme),
		theme:     theme,
		uiConfig:  uiConfig.WithDefaults(),
		keyMapCfg: keyMapCfg,
		backend:   backend,
		now:       time.Now,
		renderers: renderersState{
			glamourRenderer: r,
			glamourWidth:    80,
			htmlConverter:   newHTMLConverter(),
		},
		ctx: ctx,
	}
	model.logf("debug logging enabled")
	return model
}

func newGlamourRenderer(
	theme config.Theme,
	width int,
) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyle(theme)),
		glamour.WithEmoji(),
		glamour.WithWordWrap(width),
	)
}

func newHTMLConverter() *md.Converter {
	return md.NewConverter(
		md.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithStrongDelimiter("**"),
				commonmark.WithEmDelimiter("_"),
				commonmark.WithCodeBlockFence("```"),
			),
		),
		md.WithEscapeMode(md.EscapeModeDisabled),
	)
}

// Init checks the backend and loads the first tab
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.healthCmd(),
		m.observeDashboardCmd(),
		m.ui.spinner.Tick,
		m.ui.alert.Init(),
		m.autoRefreshCmd(),
		m.setWindowTitleCmd(),
	)
}

// Run starts the TUI
func Run(
	ctx context.Context,
	backend Backend,
	theme config.Theme,
	uiConfig config.UIConfig,
	keyMapCfg config.KeyMap,
) error {
	p := tea.NewProgram(
		New(ctx, backend, theme, uiConfig, keyMapCfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
