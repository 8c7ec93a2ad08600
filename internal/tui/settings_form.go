package tui

import (
	"slices"
	"strconv"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/provider"
)

var settingsFieldNames = map[settingsField]string{
	fieldProvider:    "Email provider",
	fieldDisplayName: "Display name",
	fieldSyncWindow:  "Sync window (hours)",
	fieldProtocol:    "Connection protocol",
	fieldAPIBase:     "API base URL",
	fieldHost:        "IMAP host",
	fieldPort:        "Port",
	fieldTLS:         "Require TLS",
	fieldLabels:      "Label filters",
	fieldAuthMethod:  "Authentication method",
	fieldUsername:    "Username / service account",
	fieldSecret:      "Secret",
}

func (f settingsField) String() string {
	return settingsFieldNames[f]
}

// isAuthField reports whether f belongs to the authentication form rather
// than the connection settings.
func (f settingsField) isAuthField() bool {
	return f == fieldAuthMethod || f == fieldUsername || f == fieldSecret
}

// visibleFields lists the fields shown for the current protocol, in
// navigation order.
func (s *settingsState) visibleFields() []settingsField {
	fields := []settingsField{fieldProvider, fieldDisplayName, fieldSyncWindow, fieldProtocol}
	switch s.draft.Connection.Protocol {
	case api.ProtocolIMAP:
		fields = append(fields, fieldHost, fieldPort, fieldTLS)
	default:
		fields = append(fields, fieldAPIBase)
	}
	return append(fields, fieldLabels, fieldAuthMethod, fieldUsername, fieldSecret)
}

func (s *settingsState) moveField(delta int) {
	fields := s.visibleFields()
	idx := slices.Index(fields, s.field)
	if idx < 0 {
		idx = 0
	}
	idx = min(len(fields)-1, max(0, idx+delta))
	s.field = fields[idx]
}

// clampField keeps the cursor on a visible field after the protocol
// changes underneath it.
func (s *settingsState) clampField() {
	if slices.Contains(s.visibleFields(), s.field) {
		return
	}
	s.field = fieldProtocol
}

// syncInputs copies the draft and auth form into the text widgets.
func (s *settingsState) syncInputs() {
	d := s.draft
	s.displayName.SetValue(d.DisplayName)
	s.syncWindow.SetValue(strconv.Itoa(d.SyncWindowHours))
	if c := d.Connection.API; c != nil {
		s.apiBase.SetValue(c.BaseURL)
	}
	if c := d.Connection.IMAP; c != nil {
		s.host.SetValue(c.Host)
		s.port.SetValue(strconv.Itoa(c.Port))
	}
	s.labels.SetValue(d.LabelText)
	s.username.SetValue(s.auth.Username())
	s.secret.SetValue(s.auth.Secret())
}

func (s *settingsState) reduce(ev provider.Event) {
	s.draft = provider.Reduce(s.draft, ev)
	s.clampField()
}

func (s *settingsState) input(f settingsField) *textinput.Model {
	switch f {
	case fieldDisplayName:
		return &s.displayName
	case fieldSyncWindow:
		return &s.syncWindow
	case fieldAPIBase:
		return &s.apiBase
	case fieldHost:
		return &s.host
	case fieldPort:
		return &s.port
	case fieldUsername:
		return &s.username
	case fieldSecret:
		return &s.secret
	default:
		return nil
	}
}

// activate handles the edit key on the focused field: selects cycle, the
// toggle flips, text fields enter edit mode.
func (s *settingsState) activate() tea.Cmd {
	switch s.field {
	case fieldProvider:
		next := nextProvider(s.draft.Provider)
		s.reduce(provider.ProviderChanged{Provider: next})
		s.auth.SelectMethod(provider.PreferredAuthMethod(next))
		s.syncInputs()
		return nil
	case fieldProtocol:
		next := api.ProtocolIMAP
		if s.draft.Connection.Protocol == api.ProtocolIMAP {
			next = api.ProtocolAPI
		}
		s.reduce(provider.ProtocolChanged{Protocol: next})
		s.syncInputs()
		return nil
	case fieldTLS:
		s.reduce(provider.TLSToggled{})
		return nil
	case fieldAuthMethod:
		next := api.AuthMethodOAuth
		if s.auth.Method() == api.AuthMethodOAuth {
			next = api.AuthMethodAppPassword
		}
		s.auth.SelectMethod(next)
		s.secret.SetValue("")
		return nil
	case fieldLabels:
		s.editing = true
		return tea.Batch(s.labels.Focus(), textarea.Blink)
	}
	input := s.input(s.field)
	if input == nil {
		return nil
	}
	s.editing = true
	input.CursorEnd()
	return tea.Batch(input.Focus(), textinput.Blink)
}

// finishEdit leaves edit mode and redisplays the normalized draft values.
func (s *settingsState) finishEdit() {
	s.editing = false
	s.labels.Blur()
	for _, f := range s.visibleFields() {
		if input := s.input(f); input != nil {
			input.Blur()
		}
	}
	s.syncInputs()
}

// updateEditing forwards a key to the widget being edited and feeds the new
// value back into the draft or the auth form.
func (s *settingsState) updateEditing(msg tea.Msg) tea.Cmd {
	if s.field == fieldLabels {
		var cmd tea.Cmd
		s.labels, cmd = s.labels.Update(msg)
		s.reduce(provider.LabelsEdited{Text: s.labels.Value()})
		return cmd
	}
	input := s.input(s.field)
	if input == nil {
		return nil
	}
	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	value := input.Value()
	switch s.field {
	case fieldDisplayName:
		s.reduce(provider.DisplayNameEdited{Value: value})
	case fieldSyncWindow:
		s.reduce(provider.SyncWindowEdited{Text: value})
	case fieldAPIBase:
		s.reduce(provider.APIBaseEdited{Value: value})
	case fieldHost:
		s.reduce(provider.HostEdited{Value: value})
	case fieldPort:
		s.reduce(provider.PortEdited{Text: value})
	case fieldUsername:
		s.auth.SetUsername(value)
	case fieldSecret:
		s.auth.SetSecret(value)
	}
	return cmd
}

func (s *settingsState) setWidth(width int) {
	w := max(20, min(60, width-32))
	for _, input := range []*textinput.Model{
		&s.displayName,
		&s.syncWindow,
		&s.apiBase,
		&s.host,
		&s.port,
		&s.username,
		&s.secret,
	} {
		input.Width = w
	}
	s.labels.SetWidth(w)
}

func nextProvider(current api.Provider) api.Provider {
	idx := slices.Index(api.Providers, current)
	return api.Providers[(idx+1)%len(api.Providers)]
}
