package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/ibozctl/internal/config"
	"github.com/example/ibozctl/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}

	theme, err := config.ResolveTheme(cfg.Theme)
	if err != nil {
		return fmt.Errorf("unable to resolve theme: %w", err)
	}
	uiConfig := cfg.UI.WithDefaults()
	if err := tui.Run(cmd.Context(), client, theme, uiConfig, cfg.Keys); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
