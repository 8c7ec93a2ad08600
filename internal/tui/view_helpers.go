package tui

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	styleTagRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	scriptTagRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	blankRunRe  = regexp.MustCompile(`\n{3,}`)
)

// Chrome around the scrolling body: tab bar, help line, status bar.
const chromeHeight = 3

func bodyHeight(height int) int {
	return max(1, height-chromeHeight)
}

func truncateToWidth(text string, maxWidth int) string {
	if maxWidth <= 0 || text == "" {
		return ""
	}
	if runewidth.StringWidth(text) <= maxWidth {
		return text
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return runewidth.Truncate(text, maxWidth, "...")
}

// formatPercent renders a 0..1 ratio as a whole percentage.
func formatPercent(ratio float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(ratio*100)))
}

func formatRelativeTime(now, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

// renderMarkdown renders markdown with the shared renderer, falling back to
// the raw text.
func (m *Model) renderMarkdown(text string) string {
	if m.renderers.glamourRenderer == nil {
		return text
	}
	rendered, err := m.renderers.glamourRenderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(rendered)
}

// snippetText turns a message snippet, which providers send as HTML more
// often than not, into plain display text.
func (m *Model) snippetText(snippet string) string {
	snippet = strings.TrimSpace(snippet)
	if snippet == "" || !strings.Contains(snippet, "<") || m.renderers.htmlConverter == nil {
		return stripZeroWidth(snippet)
	}
	cleaned := styleTagRe.ReplaceAllString(snippet, "")
	cleaned = scriptTagRe.ReplaceAllString(cleaned, "")
	text, err := m.renderers.htmlConverter.ConvertString(cleaned)
	if err != nil {
		return stripZeroWidth(snippet)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return stripZeroWidth(strings.TrimSpace(text))
}

func stripZeroWidth(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch r {
		case 0x034F, 0x200B, 0x200C, 0x200D, 0x200E, 0x200F, 0x2060, 0xFEFF:
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// wrapTextLines word wraps text into at most maxLines lines, truncating the
// last one.
func wrapTextLines(text string, width int, maxLines int) []string {
	if maxLines <= 0 || width <= 0 {
		return nil
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := make([]string, 0, maxLines)
	current := ""
	for i, word := range words {
		if current == "" {
			current = truncateToWidth(word, width)
			continue
		}

		candidate := current + " " + word
		if lipgloss.Width(candidate) <= width {
			current = candidate
			continue
		}

		lines = append(lines, current)
		if len(lines) == maxLines-1 {
			rest := strings.Join(words[i:], " ")
			lines = append(lines, truncateToWidth(rest, width))
			return lines
		}
		current = word
	}
	if current != "" {
		lines = append(lines, truncateToWidth(current, width))
	}
	return lines
}

// panelStyles is the set of text styles every tab body draws with.
type panelStyles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	dim      lipgloss.Style
	selected lipgloss.Style
	err      lipgloss.Style
	success  lipgloss.Style
	warn     lipgloss.Style
	card     lipgloss.Style
}

func (m *Model) panelStyles() panelStyles {
	p := m.theme.Panel
	return panelStyles{
		title:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.TitleFg)).Bold(true),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.LabelFg)),
		value:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.ValueFg)),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Status.Dim)),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color(p.SelectedFg)).Bold(true),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.ErrorFg)),
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.SuccessFg)),
		warn:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.WarnFg)),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.BorderNormal)).
			Padding(0, 1),
	}
}

// contentWidth is the usable body width, with a floor for tiny terminals.
func (m *Model) contentWidth() int {
	return max(40, m.ui.width-2)
}

// cursorPrefix marks the row under the cursor.
func cursorPrefix(selected bool) string {
	if selected {
		return "▸ "
	}
	return "  "
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// sectionTitle renders a tab heading with an optional dim subtitle.
func (s panelStyles) sectionTitle(title, subtitle string) string {
	if subtitle == "" {
		return s.title.Render(title)
	}
	return s.title.Render(title) + "  " + s.dim.Render(subtitle)
}

// statusLine renders the loading or error state shared by every fetched
// tab. ok is false when there is nothing else worth drawing.
func (m *Model) statusLine(loading bool, errText string, hasData bool) (string, bool) {
	s := m.panelStyles()
	switch {
	case errText != "" && !hasData:
		return s.err.Render(errText), false
	case errText != "":
		return s.err.Render(errText), true
	case loading && !hasData:
		return s.dim.Render(m.ui.spinner.View() + " Loading..."), false
	default:
		return "", hasData
	}
}
