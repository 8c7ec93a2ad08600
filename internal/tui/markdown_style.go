package tui

import (
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"

	"github.com/example/ibozctl/internal/config"
)

// markdownStyle themes the renderer used for template details and
// simulation parameters.
func markdownStyle(theme config.Theme) ansi.StyleConfig {
	style := styles.DarkStyleConfig

	style.Document.Color = ptr(theme.Panel.ValueFg)
	style.Document.Margin = ptr(uint(0))
	style.Paragraph.Color = ptr(theme.Panel.ValueFg)
	style.Text.Color = ptr(theme.Panel.ValueFg)

	style.BlockQuote.Color = ptr(theme.Status.Dim)
	style.BlockQuote.IndentToken = ptr("▍ ")

	style.Heading.Color = ptr(theme.Panel.TitleFg)
	style.H1.Color = ptr(theme.Panel.TitleFg)
	style.H1.BackgroundColor = nil
	style.H2.Color = ptr(theme.Panel.TitleFg)
	style.H3.Color = ptr(theme.Panel.TitleFg)

	style.HorizontalRule.Color = ptr(theme.Status.Dim)

	style.Item.Color = ptr(theme.Panel.ValueFg)
	style.Enumeration.Color = ptr(theme.Panel.LabelFg)

	style.Link.Color = ptr(theme.Status.TabBg)
	style.LinkText.Color = ptr(theme.Status.TabBg)
	style.LinkText.Bold = ptr(true)

	style.Code.Color = ptr(theme.Panel.ValueFg)
	style.Code.BackgroundColor = ptr(theme.Panel.BorderNormal)
	style.CodeBlock.Color = ptr(theme.Panel.ValueFg)
	style.CodeBlock.BackgroundColor = ptr(theme.Panel.BorderNormal)
	style.CodeBlock.Margin = ptr(uint(0))

	return style
}

func ptr[T any](value T) *T {
	return &value
}
