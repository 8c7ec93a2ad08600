package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/example/ibozctl/internal/api"
)

type metric struct {
	label  string
	value  string
	helper string
}

func dashboardMetrics(s api.DashboardSummary) []metric {
	return []metric{
		{
			label:  "Inbox",
			value:  fmt.Sprintf("%d / %d", s.CurrentInbox, s.InboxZeroTarget),
			helper: "Messages remaining to hit Inbox Zero",
		},
		{
			label:  "Automation rate",
			value:  formatPercent(s.AutomationRate),
			helper: "Emails triaged without manual effort",
		},
		{
			label:  "Time saved",
			value:  fmt.Sprintf("%d min", s.TimeSavedMinutes),
			helper: "Estimated reclaimed focus time today",
		},
		{
			label:  "Focus potential",
			value:  fmt.Sprint(s.FocusPotential()),
			helper: "Extra emails to schedule into focus mode",
		},
	}
}

func (m *Model) renderDashboard() string {
	state := m.data.dashboard.State()
	status, ok := m.statusLine(state.Loading, state.Err, state.Data != nil)
	if !ok {
		return status
	}
	d := state.Data
	s := m.panelStyles()
	width := m.contentWidth()

	var b strings.Builder
	if status != "" {
		b.WriteString(status + "\n\n")
	}

	b.WriteString(s.sectionTitle("Today's momentum", "") + "\n")
	b.WriteString(m.renderMetricCards(dashboardMetrics(d.Summary), width) + "\n\n")

	b.WriteString(s.sectionTitle("Action queues", "Live classification snapshot") + "\n")
	for _, q := range d.Queues {
		tag := "Rules"
		if q.LLMEnabled {
			tag = "LLM Assisted"
		}
		b.WriteString(fmt.Sprintf(
			"  %s %s  %s\n",
			s.value.Bold(true).Render(fmt.Sprintf("%4d", q.Count)),
			s.title.Render(q.Label),
			s.dim.Render(tag),
		))
		for _, line := range wrapTextLines(q.Description, width-8, 2) {
			b.WriteString("       " + s.label.Render(line) + "\n")
		}
	}
	if len(d.Queues) == 0 {
		b.WriteString(s.dim.Render("  No queues") + "\n")
	}

	b.WriteString("\n" + s.sectionTitle("Focus runway", "open the Focus tab to start a session") + "\n")
	for _, session := range d.FocusSessions {
		b.WriteString(m.renderSessionSummary(session, false, width) + "\n")
	}
	if len(d.FocusSessions) == 0 {
		b.WriteString(s.dim.Render("  Nothing planned") + "\n")
	}

	b.WriteString("\n" + s.sectionTitle("Automation recommendations", "") + "\n")
	for _, rec := range d.Recommendations {
		b.WriteString("  " + s.title.Render(rec.Title) + "  " +
			s.success.Render("Confidence "+formatPercent(rec.Confidence)) + "\n")
		for _, line := range wrapTextLines(rec.Description, width-4, 3) {
			b.WriteString("  " + s.label.Render(line) + "\n")
		}
	}
	if len(d.Recommendations) == 0 {
		b.WriteString(s.dim.Render("  No recommendations") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderMetricCards lays the cards out side by side when they fit and
// stacks them otherwise.
func (m *Model) renderMetricCards(metrics []metric, width int) string {
	s := m.panelStyles()
	cardWidth := 24
	cards := make([]string, 0, len(metrics))
	for _, mt := range metrics {
		body := s.label.Render(mt.label) + "\n" +
			s.value.Bold(true).Render(mt.value) + "\n" +
			s.dim.Render(strings.Join(wrapTextLines(mt.helper, cardWidth-4, 2), "\n"))
		cards = append(cards, s.card.Width(cardWidth).Render(body))
	}
	if len(cards) == 0 {
		return ""
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if lipgloss.Width(row) <= width {
		return row
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// renderSessionSummary is one focus session as a two line entry.
func (m *Model) renderSessionSummary(session api.FocusSession, selected bool, width int) string {
	s := m.panelStyles()
	title := s.title.Render(session.Label)
	if selected {
		title = s.selected.Render(session.Label)
	}
	tag := "Rules first"
	if session.LLMAssisted {
		tag = "LLM assisted"
	}
	head := cursorPrefix(selected) + title + "  " + s.dim.Render(tag)
	if session.Start != "" {
		head += "  " + s.label.Render(session.Start)
	}
	detail := fmt.Sprintf("%d emails · %d minute block", session.EmailCount, session.EstimatedMinutes)
	lines := []string{head, "    " + s.value.Render(detail)}
	for _, line := range wrapTextLines(session.Description, width-6, 2) {
		lines = append(lines, "    "+s.label.Render(line))
	}
	return strings.Join(lines, "\n")
}
