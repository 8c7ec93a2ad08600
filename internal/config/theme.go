package config

import (
	"fmt"
	"strings"

	"go.withmatt.com/themes"
)

const DefaultThemeName = "Nord"

type Theme struct {
	Name   string      `toml:"name"`
	Status ThemeStatus `toml:"status"`
	Panel  ThemePanel  `toml:"panel"`
	Modal  ThemeModal  `toml:"modal"`
}

type ThemeStatus struct {
	Bg     string `toml:"bg"`
	Fg     string `toml:"fg"`
	Dim    string `toml:"dim"`
	ModeBg string `toml:"mode_bg"`
	ModeFg string `toml:"mode_fg"`
	TabBg  string `toml:"tab_bg"`
	TabFg  string `toml:"tab_fg"`
}

type ThemePanel struct {
	TitleFg        string `toml:"title_fg"`
	LabelFg        string `toml:"label_fg"`
	ValueFg        string `toml:"value_fg"`
	SelectedFg     string `toml:"selected_fg"`
	BorderSelected string `toml:"border_selected"`
	BorderNormal   string `toml:"border_normal"`
	ErrorFg        string `toml:"error_fg"`
	SuccessFg      string `toml:"success_fg"`
	WarnFg         string `toml:"warn_fg"`
	ProgressStart  string `toml:"progress_start"`
	ProgressEnd    string `toml:"progress_end"`
}

type ThemeModal struct {
	FooterFg string `toml:"footer_fg"`
}

// ResolveTheme fills every unset color from the named palette and resolves
// palette color names such as "bright_magenta" to hex values.
func ResolveTheme(theme Theme) (Theme, error) {
	palette, err := paletteForTheme(theme.Name)
	if err != nil {
		return Theme{}, err
	}
	base := themeFromPalette(palette)
	merged := mergeTheme(base, theme)
	merged = resolveThemeColorNames(merged, palette)
	merged.Name = theme.Name
	return merged, nil
}

func themeFromPalette(palette *themes.Theme) Theme {
	accent := firstNonEmpty(
		palette.Magenta,
		palette.Foreground,
	)
	onAccent := firstNonEmpty(
		palette.Background,
	)
	selectedFg := firstNonEmpty(
		palette.BrightGreen,
		palette.Green,
		palette.Foreground,
	)
	titleFg := firstNonEmpty(
		palette.BrightMagenta,
		palette.Magenta,
		palette.Foreground,
	)
	errorFg := firstNonEmpty(
		palette.Red,
		palette.BrightRed,
		palette.Foreground,
	)
	successFg := firstNonEmpty(
		palette.Green,
		palette.BrightGreen,
		palette.Foreground,
	)
	warnFg := firstNonEmpty(
		palette.Yellow,
		palette.BrightYellow,
		palette.Foreground,
	)
	progressStart := firstNonEmpty(
		palette.Cyan,
		palette.Blue,
		palette.Foreground,
	)
	progressEnd := firstNonEmpty(
		palette.Green,
		palette.BrightGreen,
		palette.Foreground,
	)
	return Theme{
		Status: ThemeStatus{
			Bg:     palette.Background,
			Fg:     palette.Foreground,
			Dim:    palette.Foreground,
			ModeBg: accent,
			ModeFg: onAccent,
			TabBg:  accent,
			TabFg:  onAccent,
		},
		Panel: ThemePanel{
			TitleFg:        titleFg,
			LabelFg:        palette.Foreground,
			ValueFg:        palette.Foreground,
			SelectedFg:     selectedFg,
			BorderSelected: accent,
			BorderNormal:   palette.Background,
			ErrorFg:        errorFg,
			SuccessFg:      successFg,
			WarnFg:         warnFg,
			ProgressStart:  progressStart,
			ProgressEnd:    progressEnd,
		},
		Modal: ThemeModal{
			FooterFg: palette.Foreground,
		},
	}
}

func mergeTheme(base, override Theme) Theme {
	out := override
	fillIfEmpty(&out.Status.Bg, base.Status.Bg)
	fillIfEmpty(&out.Status.Fg, base.Status.Fg)
	fillIfEmpty(&out.Status.Dim, base.Status.Dim)
	fillIfEmpty(&out.Status.ModeBg, base.Status.ModeBg)
	fillIfEmpty(&out.Status.ModeFg, base.Status.ModeFg)
	fillIfEmpty(&out.Status.TabBg, base.Status.TabBg)
	fillIfEmpty(&out.Status.TabFg, base.Status.TabFg)

	fillIfEmpty(&out.Panel.TitleFg, base.Panel.TitleFg)
	fillIfEmpty(&out.Panel.LabelFg, base.Panel.LabelFg)
	fillIfEmpty(&out.Panel.ValueFg, base.Panel.ValueFg)
	fillIfEmpty(&out.Panel.SelectedFg, base.Panel.SelectedFg)
	fillIfEmpty(&out.Panel.BorderSelected, base.Panel.BorderSelected)
	fillIfEmpty(&out.Panel.BorderNormal, base.Panel.BorderNormal)
	fillIfEmpty(&out.Panel.ErrorFg, base.Panel.ErrorFg)
	fillIfEmpty(&out.Panel.SuccessFg, base.Panel.SuccessFg)
	fillIfEmpty(&out.Panel.WarnFg, base.Panel.WarnFg)
	fillIfEmpty(&out.Panel.ProgressStart, base.Panel.ProgressStart)
	fillIfEmpty(&out.Panel.ProgressEnd, base.Panel.ProgressEnd)

	fillIfEmpty(&out.Modal.FooterFg, base.Modal.FooterFg)

	return out
}

func fillIfEmpty(target *string, value string) {
	if *target == "" {
		*target = value
	}
}

func firstNonEmpty(candidates ...string) string {
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

func paletteForTheme(name string) (*themes.Theme, error) {
	themeName := strings.TrimSpace(name)
	if themeName == "" {
		themeName = DefaultThemeName
	}
	palette, err := themes.GetTheme(themeName)
	if err != nil {
		return nil, fmt.Errorf("theme %q: %w", themeName, err)
	}
	return palette, nil
}

func resolveThemeColorNames(theme Theme, palette *themes.Theme) Theme {
	for _, field := range []*string{
		&theme.Status.Bg,
		&theme.Status.Fg,
		&theme.Status.Dim,
		&theme.Status.ModeBg,
		&theme.Status.ModeFg,
		&theme.Status.TabBg,
		&theme.Status.TabFg,
		&theme.Panel.TitleFg,
		&theme.Panel.LabelFg,
		&theme.Panel.ValueFg,
		&theme.Panel.SelectedFg,
		&theme.Panel.BorderSelected,
		&theme.Panel.BorderNormal,
		&theme.Panel.ErrorFg,
		&theme.Panel.SuccessFg,
		&theme.Panel.WarnFg,
		&theme.Panel.ProgressStart,
		&theme.Panel.ProgressEnd,
		&theme.Modal.FooterFg,
	} {
		*field = resolveColorName(*field, palette)
	}
	return theme
}

func resolveColorName(value string, palette *themes.Theme) string {
	if palette == nil {
		return value
	}
	switch normalizeColorName(value) {
	case "foreground":
		return palette.Foreground
	case "background":
		return palette.Background
	case "cursor":
		return palette.Cursor
	case "black":
		return palette.Black
	case "red":
		return palette.Red
	case "green":
		return palette.Green
	case "yellow":
		return palette.Yellow
	case "blue":
		return palette.Blue
	case "magenta":
		return palette.Magenta
	case "cyan":
		return palette.Cyan
	case "white":
		return palette.White
	case "brightblack":
		return palette.BrightBlack
	case "brightred":
		return palette.BrightRed
	case "brightgreen":
		return palette.BrightGreen
	case "brightyellow":
		return palette.BrightYellow
	case "brightblue":
		return palette.BrightBlue
	case "brightmagenta":
		return palette.BrightMagenta
	case "brightcyan":
		return palette.BrightCyan
	case "brightwhite":
		return palette.BrightWhite
	default:
		return value
	}
}

func normalizeColorName(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(normalized)
}
