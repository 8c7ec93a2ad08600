package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/focus"
)

type focusControl struct {
	label  string
	helper string
	on     bool
	key    string
}

func (m *Model) focusControls() []focusControl {
	km := m.keyMap().focus
	c := m.focus.controls
	return []focusControl{
		{
			label:  "Silence non-urgent notifications",
			helper: "Pause Slack and Teams alerts for non-escalation senders.",
			on:     c.NotificationsMuted,
			key:    km.MuteNotifications.Help().Key,
		},
		{
			label:  "Batch similar intents",
			helper: "Group emails by category to reduce context switching.",
			on:     c.BatchingEnabled,
			key:    km.ToggleBatching.Help().Key,
		},
		{
			label:  "Show AI summaries",
			helper: "Surface key points and attachments before entering each email.",
			on:     c.AutoSummaries,
			key:    km.ToggleSummaries.Help().Key,
		},
	}
}

func (m *Model) renderFocus() (string, int) {
	state := m.data.focusPlan.State()
	status, ok := m.statusLine(state.Loading, state.Err, state.Data != nil)
	if !ok {
		return status, -1
	}
	plan := state.Data
	s := m.panelStyles()
	width := m.contentWidth()

	var lines []string
	if status != "" {
		lines = append(lines, status, "")
	}

	lines = append(lines,
		s.sectionTitle("Focus streak", plan.Date),
		fmt.Sprintf("  %s  %s  %s",
			s.value.Bold(true).Render(fmt.Sprintf("%d days", plan.Metrics.Streak)),
			s.label.Render(fmt.Sprintf("Goal: %d days", plan.Metrics.Goal)),
			s.label.Render(fmt.Sprintf("%d emails cleared today", plan.Metrics.ClearedToday)),
		),
		"",
		s.sectionTitle("Session tracker", ""),
	)
	lines = append(lines, m.renderTracker()...)

	lines = append(lines, "", s.sectionTitle("Distraction controls", ""))
	for _, c := range m.focusControls() {
		lines = append(lines,
			fmt.Sprintf("  %s %s  %s", checkbox(c.on), s.value.Render(c.label), s.dim.Render(c.key)),
			"      "+s.dim.Render(c.helper),
		)
	}

	lines = append(lines, "", s.sectionTitle("Upcoming sessions", ""))
	cursorLine := -1
	for i, session := range plan.Sessions {
		selected := i == m.focus.cursor
		if selected {
			cursorLine = len(lines)
		}
		lines = append(lines, m.renderSessionSummary(session, selected, width))
		if m.focus.timer.Status() != focus.StatusIdle && m.focus.timer.SessionID() == session.ID {
			lines = append(lines, "    "+s.success.Render(activeSessionNote(m.focus.timer.Remaining())))
		}
	}
	if len(plan.Sessions) == 0 {
		lines = append(lines, s.dim.Render("  Nothing planned"))
	}
	return strings.Join(lines, "\n"), cursorLine
}

// renderTracker shows the running session: countdown, bar and a nudge.
func (m *Model) renderTracker() []string {
	s := m.panelStyles()
	t := m.focus.timer
	if t.Status() == focus.StatusIdle {
		return []string{
			"  " + s.dim.Render("Select a session to launch a timer, mute distractions, and apply batching rules."),
			"  " + s.dim.Render("Your controls persist between focus streaks."),
		}
	}
	session := t.Session()
	progress := t.Progress()
	lines := []string{
		"  " + s.value.Render(session.Label) + "  " +
			s.label.Render(fmt.Sprintf("%d emails · %d minute block", session.EmailCount, session.EstimatedMinutes)),
		"  " + s.title.Render(t.Countdown()) + "  " + s.dim.Render("COUNTDOWN"),
		"  " + m.focus.bar.ViewAs(float64(progress)/100) + " " + s.label.Render(fmt.Sprintf("%d%%", progress)),
	}
	if t.Status() == focus.StatusCompleted {
		lines = append(lines, "  "+s.success.Render(progressNote(progress)))
	} else {
		lines = append(lines, "  "+s.dim.Render(progressNote(progress)))
	}
	return lines
}

func progressNote(progress int) string {
	if progress >= 100 {
		return "Great work! Log automation overrides and share wins with your team."
	}
	return "Stay in flow; automations are handling low-priority noise while you clear critical items."
}

// activeSessionNote is shown under the session card that is being timed.
func activeSessionNote(remainingSeconds int) string {
	minutes := int(math.Ceil(float64(remainingSeconds) / 60))
	switch {
	case minutes <= 0:
		return "Session complete, log actions and celebrate!"
	case minutes == 1:
		return "In progress · 1 minute remaining"
	default:
		return fmt.Sprintf("In progress · %d minutes remaining", minutes)
	}
}

// selectedSession returns the session under the cursor, if any.
func (m *Model) selectedSession() (api.FocusSession, bool) {
	plan := m.data.focusPlan.State().Data
	if plan == nil || m.focus.cursor < 0 || m.focus.cursor >= len(plan.Sessions) {
		return api.FocusSession{}, false
	}
	return plan.Sessions[m.focus.cursor], true
}
