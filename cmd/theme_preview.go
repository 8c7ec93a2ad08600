package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.withmatt.com/themes"

	"github.com/example/ibozctl/internal/config"
)

var previewThemeName string

var themePreviewCmd = &cobra.Command{
	Use:   "theme-preview",
	Short: "Preview resolved theme colors",
	RunE:  runThemePreview,
}

func init() {
	themePreviewCmd.Flags().StringVar(&previewThemeName, "name", "", "theme name to preview")
	rootCmd.AddCommand(themePreviewCmd)
}

type swatch struct {
	label string
	value string
}

func runThemePreview(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	theme := cfg.Theme
	if previewThemeName != "" {
		theme.Name = previewThemeName
	}
	if theme.Name == "" {
		theme.Name = config.DefaultThemeName
	}
	resolved, err := config.ResolveTheme(theme)
	if err != nil {
		return fmt.Errorf("unable to resolve theme: %w", err)
	}
	palette, err := themes.GetTheme(theme.Name)
	if err != nil {
		return fmt.Errorf("unable to load palette %q: %w", theme.Name, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Theme preview: %s\n", theme.Name)
	for _, section := range []struct {
		title  string
		colors []swatch
	}{
		{"Palette", []swatch{
			{"background", palette.Background},
			{"foreground", palette.Foreground},
			{"red", palette.Red},
			{"green", palette.Green},
			{"yellow", palette.Yellow},
			{"blue", palette.Blue},
			{"magenta", palette.Magenta},
			{"cyan", palette.Cyan},
		}},
		{"Status bar", []swatch{
			{"bg", resolved.Status.Bg},
			{"fg", resolved.Status.Fg},
			{"dim", resolved.Status.Dim},
			{"mode_bg", resolved.Status.ModeBg},
			{"mode_fg", resolved.Status.ModeFg},
			{"tab_bg", resolved.Status.TabBg},
			{"tab_fg", resolved.Status.TabFg},
		}},
		{"Panels", []swatch{
			{"title_fg", resolved.Panel.TitleFg},
			{"label_fg", resolved.Panel.LabelFg},
			{"value_fg", resolved.Panel.ValueFg},
			{"selected_fg", resolved.Panel.SelectedFg},
			{"border_selected", resolved.Panel.BorderSelected},
			{"border_normal", resolved.Panel.BorderNormal},
			{"error_fg", resolved.Panel.ErrorFg},
			{"success_fg", resolved.Panel.SuccessFg},
			{"warn_fg", resolved.Panel.WarnFg},
			{"progress_start", resolved.Panel.ProgressStart},
			{"progress_end", resolved.Panel.ProgressEnd},
		}},
		{"Modal", []swatch{
			{"footer_fg", resolved.Modal.FooterFg},
		}},
	} {
		printSwatches(out, section.title, section.colors)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, sampleCard(resolved))
	return nil
}

func printSwatches(out io.Writer, title string, colors []swatch) {
	fmt.Fprintf(out, "\n%s\n", title)
	for _, c := range colors {
		block := "  "
		if c.value != "" {
			block = lipgloss.NewStyle().Background(lipgloss.Color(c.value)).Render("  ")
		}
		fmt.Fprintf(out, "  %-16s %s %s\n", c.label, block, c.value)
	}
}

// sampleCard renders a metric card the way the dashboard draws one.
func sampleCard(theme config.Theme) string {
	p := theme.Panel
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(p.LabelFg)).Render("Automation rate")
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(p.ValueFg)).Bold(true).Render("62%")
	ok := lipgloss.NewStyle().Foreground(lipgloss.Color(p.SuccessFg)).Render("Auto Execute")
	warn := lipgloss.NewStyle().Foreground(lipgloss.Color(p.WarnFg)).Render("Approval Required")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.BorderSelected)).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, label, value, ok+"  "+warn))
}
