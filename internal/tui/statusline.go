package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/example/ibozctl/internal/config"
	"github.com/example/ibozctl/internal/focus"
)

type statusSegment struct {
	text  string
	style lipgloss.Style
}

const statusSeparatorGlyph = "\ue0b0"

func statusBaseStyle(theme config.Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(theme.Status.Bg)).
		Foreground(lipgloss.Color(theme.Status.Fg))
}

func statusSegmentStyle(theme config.Theme) lipgloss.Style {
	return statusBaseStyle(theme).Padding(0, 1)
}

func statusDimStyle(theme config.Theme) lipgloss.Style {
	return statusBaseStyle(theme).
		Foreground(lipgloss.Color(theme.Status.Dim)).
		Padding(0, 1)
}

func statusModeStyle(theme config.Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(theme.Status.ModeBg)).
		Foreground(lipgloss.Color(theme.Status.ModeFg)).
		Bold(true).
		Padding(0, 1)
}

func statusTabStyle(theme config.Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(theme.Status.TabBg)).
		Foreground(lipgloss.Color(theme.Status.TabFg)).
		Bold(true).
		Padding(0, 1)
}

func statusTextSegment(theme config.Theme, text string) statusSegment {
	return statusSegment{text: text, style: statusSegmentStyle(theme)}
}

func statusDimSegment(theme config.Theme, text string) statusSegment {
	return statusSegment{text: text, style: statusDimStyle(theme)}
}

func statusModeSegment(theme config.Theme, text string) statusSegment {
	return statusSegment{text: text, style: statusModeStyle(theme)}
}

func statusPowerlineSeparator(leftBg string, rightBg string) statusSegment {
	style := lipgloss.NewStyle().
		Background(lipgloss.Color(rightBg)).
		Foreground(lipgloss.Color(leftBg))
	return statusSegment{text: statusSeparatorGlyph, style: style}
}

// renderTabBar draws the tab strip with the active tab highlighted.
func (m *Model) renderTabBar() string {
	segments := make([]statusSegment, 0, len(tabs)*2)
	for i, t := range tabs {
		label := t.String()
		if t == m.currentTab {
			segments = append(segments, statusSegment{text: label, style: statusTabStyle(m.theme)})
		} else {
			segments = append(segments, statusDimSegment(m.theme, label))
		}
		if i < len(tabs)-1 {
			segments = append(segments, statusDimSegment(m.theme, "│"))
		}
	}
	right := []statusSegment{statusDimSegment(m.theme, truncateToWidth(m.backend.BaseURL(), 40))}
	return renderStatusline(m.theme, m.ui.width, segments, right)
}

// renderStatusbar draws the bottom line: the mode, what is in flight, and
// the running focus countdown if any.
func (m *Model) renderStatusbar() string {
	mode := "BROWSE"
	if m.settings.editing {
		mode = "EDIT"
	}
	left := []statusSegment{
		statusModeSegment(m.theme, mode),
		statusPowerlineSeparator(m.theme.Status.ModeBg, m.theme.Status.Bg),
	}
	if activity := m.activity(); activity != "" {
		left = append(left, statusTextSegment(m.theme, m.ui.spinner.View()+" "+activity))
	}

	var right []statusSegment
	if m.focus.timer.Status() != focus.StatusIdle {
		right = append(right, statusTextSegment(
			m.theme,
			"⏱ "+m.focus.timer.Countdown()+" "+truncateToWidth(m.focus.timer.Session().Label, 24),
		))
	}
	right = append(right, statusDimSegment(m.theme, "? help"))
	return renderStatusline(m.theme, m.ui.width, left, right)
}

// activity names the request the operator is waiting on, if any.
func (m *Model) activity() string {
	switch {
	case m.settings.save.State().Loading:
		return "Saving connection settings..."
	case m.settings.auth.InFlight():
		return "Authenticating..."
	case m.settings.messages.Loading():
		return "Fetching messages..."
	case m.runner.dispatcher.State().Loading:
		return "Running simulation..."
	case m.data.dashboard.Pending(), m.data.focusPlan.Pending(),
		m.data.automations.Pending(), m.data.provider.Pending():
		return "Loading..."
	default:
		return ""
	}
}

func renderStatusline(
	theme config.Theme,
	width int,
	left []statusSegment,
	right []statusSegment,
) string {
	leftLine := renderStatusSegments(left)
	rightLine := renderStatusSegments(right)

	if width <= 0 {
		if rightLine == "" {
			return leftLine
		}
		if leftLine == "" {
			return rightLine
		}
		return leftLine + statusBaseStyle(theme).Render(" ") + rightLine
	}

	gap := max(width-lipgloss.Width(leftLine)-lipgloss.Width(rightLine), 1)
	filler := statusBaseStyle(theme).Render(strings.Repeat(" ", gap))
	return leftLine + filler + rightLine
}

func renderStatusSegments(segments []statusSegment) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.text == "" {
			continue
		}
		b.WriteString(seg.style.Render(seg.text))
	}
	return b.String()
}
