package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/example/ibozctl/internal/config"
)

func newHelpModel(theme config.Theme) help.Model {
	key := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Panel.TitleFg)).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Status.Dim))

	m := help.New()
	m.Styles = help.Styles{
		ShortKey:       key,
		ShortDesc:      dim,
		ShortSeparator: dim,
		FullKey:        key,
		FullDesc:       dim,
		FullSeparator:  dim,
		Ellipsis:       dim,
	}
	m.ShortSeparator = " · "
	m.FullSeparator = "   "
	return m
}

// renderHelpLine is the one line key hint shown under the active tab.
func (m *Model) renderHelpLine() string {
	h := m.ui.help
	h.ShowAll = false
	h.Width = max(0, m.ui.width-2)
	return lipgloss.NewStyle().Padding(0, 1).Render(h.View(m.keyMap()))
}
