package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/provider"
)

var authMethodLabels = map[api.AuthMethod]string{
	api.AuthMethodOAuth:       "OAuth token exchange",
	api.AuthMethodAppPassword: "App password / service credential",
}

func (m *Model) renderSettings() (string, int) {
	s := m.panelStyles()
	fetched := m.data.provider.State()

	lines := []string{
		s.sectionTitle("Email provider integration", ""),
		"  " + s.value.Bold(true).Render(provider.IntegrationStatus(fetched.Loading, fetched.Data)) +
			"  " + s.dim.Render("Last sync · "+provider.FormatTimestamp(lastSync(fetched.Data))),
	}
	if fetched.Err != "" {
		lines = append(lines, "  "+s.err.Render("Failed to load current configuration: "+fetched.Err))
	}
	if state := fetched.Data; state != nil && state.Config != nil {
		cfg := state.Config
		labels := strings.Join(cfg.LabelFilters, ", ")
		if labels == "" {
			labels = "All mail"
		}
		lines = append(lines,
			fmt.Sprintf("  %s %s  %s",
				s.dim.Render("Provider"),
				s.value.Render(cfg.DisplayName),
				s.dim.Render("Protocol · "+strings.ToUpper(string(cfg.Connection.Protocol))),
			),
			fmt.Sprintf("  %s %s  %s",
				s.dim.Render("Sync window"),
				s.value.Render(fmt.Sprintf("%d hours", cfg.SyncWindowHours)),
				s.dim.Render("Labels · "+labels),
			),
			fmt.Sprintf("  %s %s",
				s.dim.Render("Messages fetched"),
				s.value.Render(fmt.Sprint(state.MessagesFetched)),
			),
		)
	}

	lines = append(lines, "", s.sectionTitle("Connection settings", ""))
	cursorLine := -1
	inAuth := false
	for _, f := range m.settings.visibleFields() {
		if f.isAuthField() && !inAuth {
			inAuth = true
			lines = append(lines, m.renderConnectionFeedback()...)
			lines = append(lines, "", s.sectionTitle("Authentication", ""))
		}
		if f == m.settings.field {
			cursorLine = len(lines)
		}
		lines = append(lines, m.renderSettingsField(f)...)
	}
	lines = append(lines, m.renderAuthFeedback()...)

	lines = append(lines, "", s.sectionTitle("Sample inbox preview", ""))
	lines = append(lines, m.renderMessages()...)
	return strings.Join(lines, "\n"), cursorLine
}

func lastSync(state *api.ProviderState) *time.Time {
	if state == nil {
		return nil
	}
	return state.LastSync
}

func (m *Model) renderSettingsField(f settingsField) []string {
	s := m.panelStyles()
	st := &m.settings
	selected := f == st.field

	label := f.String()
	if f == fieldSecret {
		label = "App password"
		if st.auth.Method() == api.AuthMethodOAuth {
			label = "OAuth access token"
		}
	}
	labelStyle := s.label
	if selected {
		labelStyle = s.selected
	}
	head := cursorPrefix(selected) + labelStyle.Width(28).Render(label)

	d := st.draft
	switch f {
	case fieldProvider:
		opt := provider.OptionFor(d.Provider)
		return []string{
			head + s.value.Render("◂ "+opt.Label+" ▸"),
			"  " + strings.Repeat(" ", 28) + s.dim.Render(truncateToWidth(opt.Description, max(10, m.contentWidth()-32))),
		}
	case fieldProtocol:
		return []string{head + s.value.Render("◂ "+strings.ToUpper(string(d.Connection.Protocol))+" ▸")}
	case fieldTLS:
		on := d.Connection.IMAP != nil && d.Connection.IMAP.UseTLS
		return []string{head + s.value.Render(checkbox(on))}
	case fieldAuthMethod:
		return []string{head + s.value.Render("◂ "+authMethodLabels[st.auth.Method()]+" ▸")}
	case fieldLabels:
		if st.editing && selected {
			out := []string{head + s.dim.Render("One label per line. Use commas or line breaks.")}
			for _, line := range strings.Split(st.labels.View(), "\n") {
				out = append(out, "  "+strings.Repeat(" ", 28)+line)
			}
			return out
		}
		value := strings.Join(provider.NormalizeLabels(d.LabelText), ", ")
		if value == "" {
			return []string{head + s.dim.Render("All mail")}
		}
		return []string{head + s.value.Render(value)}
	}
	if input := st.input(f); input != nil {
		return []string{head + input.View()}
	}
	return []string{head}
}

func (m *Model) renderConnectionFeedback() []string {
	s := m.panelStyles()
	var out []string
	if m.settings.formErr != "" {
		out = append(out, "  "+s.err.Render(m.settings.formErr))
	}
	save := m.settings.save.State()
	switch {
	case save.Loading:
		out = append(out, "  "+s.dim.Render(m.ui.spinner.View()+" Saving..."))
	case save.Err != "":
		out = append(out, "  "+s.err.Render(save.Err))
	case m.settings.status != "":
		out = append(out, "  "+s.success.Render(m.settings.status))
	}
	return out
}

func (m *Model) renderAuthFeedback() []string {
	s := m.panelStyles()
	auth := m.settings.auth
	var out []string
	if m.settings.authFormErr != "" {
		out = append(out, "  "+s.err.Render(m.settings.authFormErr))
	}
	switch {
	case auth.InFlight():
		out = append(out, "  "+s.dim.Render(m.ui.spinner.View()+" Authenticating..."))
	case auth.Err() != "":
		out = append(out, "  "+s.err.Render(auth.Err()))
	}
	if auth.StatusText() != "" {
		out = append(out, "  "+s.success.Render(auth.StatusText()))
	}
	return out
}

func (m *Model) renderMessages() []string {
	s := m.panelStyles()
	msgs := m.settings.messages
	width := m.contentWidth()
	var out []string
	if msgs.Loading() {
		out = append(out, "  "+s.dim.Render(m.ui.spinner.View()+" Loading…"))
	}
	if msgs.Err() != "" {
		out = append(out, "  "+s.err.Render(msgs.Err()))
	}
	if msgs.SyncedAt() != nil {
		out = append(out, "  "+s.dim.Render("Last sync "+provider.FormatTimestamp(msgs.SyncedAt())))
	}
	now := m.now()
	for _, msg := range msgs.Messages() {
		importance := s.dim.Render("Normal")
		if msg.Importance == "high" {
			importance = s.err.Render("High")
		}
		out = append(out,
			"  "+s.title.Render(truncateToWidth(msg.Subject, width-16))+"  "+importance,
			"    "+s.label.Render("From "+msg.Sender)+"  "+s.dim.Render(formatRelativeTime(now, msg.ReceivedAt)),
		)
		for _, line := range wrapTextLines(m.snippetText(msg.Snippet), width-6, 3) {
			out = append(out, "    "+s.value.Render(line))
		}
		if len(msg.Labels) > 0 {
			out = append(out, "    "+s.dim.Render(strings.Join(msg.Labels, " · ")))
		}
	}
	if len(msgs.Messages()) == 0 && !msgs.Loading() {
		out = append(out, "  "+s.dim.Render("Authenticate, then fetch to preview the messages the backend delivers."))
	}
	return out
}
