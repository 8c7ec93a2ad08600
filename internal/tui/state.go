package tui

import (
	md "github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.dalton.dog/bubbleup"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/config"
	"github.com/example/ibozctl/internal/focus"
	"github.com/example/ibozctl/internal/provider"
	"github.com/example/ibozctl/internal/resource"
)

type uiState struct {
	width     int
	height    int
	spinner   spinner.Model
	help      help.Model
	alert     bubbleup.AlertModel
	viewport  viewport.Model
	showHelp  bool
	showError bool
	err       error
}

type fetchersState struct {
	dashboard   *resource.Fetcher[api.DashboardResponse]
	focusPlan   *resource.Fetcher[api.FocusPlanResponse]
	automations *resource.Fetcher[api.AutomationsResponse]
	provider    *resource.Fetcher[api.ProviderState]
}

type focusState struct {
	timer          *focus.Timer
	cursor         int
	controls       api.FocusControls
	controlsSeeded bool
	bar            progress.Model
}

type runnerState struct {
	dispatcher *resource.Dispatcher[api.TestRunResponse]
	cursor     int
}

type settingsField int

const (
	fieldProvider settingsField = iota
	fieldDisplayName
	fieldSyncWindow
	fieldProtocol
	fieldAPIBase
	fieldHost
	fieldPort
	fieldTLS
	fieldLabels
	fieldAuthMethod
	fieldUsername
	fieldSecret
)

type settingsState struct {
	draft    provider.Draft
	auth     *provider.Auth
	messages *provider.Messages
	save     *resource.Dispatcher[api.ProviderState]

	field   settingsField
	editing bool

	displayName textinput.Model
	syncWindow  textinput.Model
	apiBase     textinput.Model
	host        textinput.Model
	port        textinput.Model
	username    textinput.Model
	secret      textinput.Model
	labels      textarea.Model

	status      string
	formErr     string
	authFormErr string
}

type renderersState struct {
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int
	htmlConverter   *md.Converter
}

func newUIState(theme config.Theme) uiState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Panel.TitleFg))
	return uiState{spinner: s, viewport: viewport.New(0, 0)}
}

func newFocusState(theme config.Theme) focusState {
	bar := progress.New(
		progress.WithGradient(theme.Panel.ProgressStart, theme.Panel.ProgressEnd),
		progress.WithoutPercentage(),
	)
	bar.Width = 40
	return focusState{timer: &focus.Timer{}, bar: bar}
}

func newSettingsState(theme config.Theme) settingsState {
	s := settingsState{
		draft:       provider.NewDraft(),
		auth:        provider.NewAuth(),
		messages:    provider.NewMessages(),
		save:        resource.NewDispatcher[api.ProviderState](),
		displayName: newSettingsInput(theme, "Automation inbox", 120),
		syncWindow:  newSettingsInput(theme, "24", 6),
		apiBase:     newSettingsInput(theme, "https://gmail.googleapis.com", 250),
		host:        newSettingsInput(theme, provider.DefaultIMAPHost, 250),
		port:        newSettingsInput(theme, "993", 6),
		username:    newSettingsInput(theme, "ops-team@example.com", 250),
		secret:      newSettingsInput(theme, "xxxx-xxxx-xxxx", 4096),
	}
	s.secret.EchoMode = textinput.EchoPassword
	s.secret.EchoCharacter = '•'

	labels := textarea.New()
	labels.Placeholder = "INBOX\nUrgent"
	labels.ShowLineNumbers = false
	labels.Prompt = "  "
	labels.SetHeight(4)
	labels.SetWidth(40)
	labels.Blur()
	s.labels = labels

	s.syncInputs()
	return s
}

func newSettingsInput(theme config.Theme, placeholder string, limit int) textinput.Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	input.CharLimit = limit
	input.Width = 40
	input.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Panel.ValueFg))
	input.PlaceholderStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Status.Dim)).
		Faint(true)
	input.Blur()
	return input
}
