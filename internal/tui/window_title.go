package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/ibozctl/internal/focus"
)

const (
	windowTitleMaxRunes = 80
	windowTitleSuffix   = " - ibozctl"
	windowTitleApp      = "ibozctl"
)

func (m *Model) setWindowTitleCmd() tea.Cmd {
	return tea.SetWindowTitle(m.windowTitle())
}

// windowTitle names the active tab, or the running focus session since that
// is what matters when the terminal is in the background.
func (m *Model) windowTitle() string {
	switch m.focus.timer.Status() {
	case focus.StatusRunning:
		return formatWindowTitle("Focus: " + m.focus.timer.Session().Label)
	case focus.StatusCompleted:
		return formatWindowTitle("Focus complete")
	}
	if m.currentTab == tabDashboard {
		return formatWindowTitle("")
	}
	return formatWindowTitle(m.currentTab.String())
}

func formatWindowTitle(body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return windowTitleApp
	}
	maxBody := windowTitleMaxRunes - len([]rune(windowTitleSuffix))
	body = truncateTitle(body, maxBody)
	return body + windowTitleSuffix
}

func truncateTitle(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	if maxRunes <= 3 {
		return strings.Repeat(".", maxRunes)
	}
	return string(runes[:maxRunes-3]) + "..."
}
