package tui

import "github.com/charmbracelet/lipgloss"

// View renders the UI.
func (m Model) View() string {
	output := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTabBar(),
		m.ui.viewport.View(),
		m.renderHelpLine(),
		m.renderStatusbar(),
	)
	output = m.ui.alert.Render(output)

	// Overlay modals on top of base view
	if m.ui.showHelp {
		return m.overlayModal(output, m.renderHelpModal(), m.theme.Panel.BorderSelected)
	}
	if m.ui.showError && m.ui.err != nil {
		return m.overlayModal(output, m.renderErrorModal(), m.theme.Panel.ErrorFg)
	}
	return output
}

// syncViewport re-renders the active tab into the viewport, scrolling just
// enough to keep the cursor row on screen.
func (m *Model) syncViewport() {
	content, cursorLine := m.renderBody()
	m.ui.viewport.SetContent(content)
	if cursorLine < 0 || m.ui.viewport.Height <= 0 {
		return
	}
	top := m.ui.viewport.YOffset
	bottom := top + m.ui.viewport.Height - 1
	switch {
	case cursorLine < top:
		m.ui.viewport.SetYOffset(cursorLine)
	case cursorLine > bottom:
		m.ui.viewport.SetYOffset(cursorLine - m.ui.viewport.Height + 1)
	}
}

// renderBody draws the active tab. The second result is the line the
// cursor sits on, or -1.
func (m *Model) renderBody() (string, int) {
	switch m.currentTab {
	case tabFocus:
		return m.renderFocus()
	case tabAutomations:
		return m.renderAutomations()
	case tabSettings:
		return m.renderSettings()
	default:
		return m.renderDashboard(), -1
	}
}
