package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/example/ibozctl/internal/api"
)

// overlayModal centers a bordered dialog on top of the base view.
func (m *Model) overlayModal(baseView string, modal string, borderColor string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(1, 2).
		Render(modal)
	return overlay.Composite(box, baseView, overlay.Center, overlay.Center, 0, 0)
}

// modalBody lays out a title, body and dim footer at a fixed width.
func (m *Model) modalBody(width int, title lipgloss.Style, titleText, body, footer string) string {
	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	foot := centered.Foreground(lipgloss.Color(m.theme.Modal.FooterFg)).Render(footer)
	return strings.Join([]string{
		centered.Inherit(title).Render(titleText),
		body,
		foot,
	}, "\n\n")
}

func (m *Model) renderHelpModal() string {
	width := max(40, min(80, m.ui.width-10))

	h := m.ui.help
	h.ShowAll = true
	h.Width = max(10, width-4)

	body := h.View(m.keyMap())
	if m.backend != nil {
		body += "\n\n" + lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Status.Dim)).
			Render("Backend "+m.backend.BaseURL())
	}
	return m.modalBody(width, lipgloss.NewStyle().Bold(true), m.currentTab.String()+" shortcuts", body, "Press any key to close")
}

func (m *Model) renderErrorModal() string {
	width := max(30, min(60, m.ui.width-10))

	title := "Error"
	if status := api.StatusCode(m.ui.err); status != 0 {
		title = fmt.Sprintf("Backend error (%d)", status)
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Panel.ErrorFg))
	return m.modalBody(width, titleStyle, title, wordwrap.String(m.ui.err.Error(), width), "Press any key to dismiss")
}
