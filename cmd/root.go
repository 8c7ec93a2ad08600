package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/config"
	"github.com/example/ibozctl/internal/log"
)

var version = "dev"

var serverFlag string

var rootCmd = &cobra.Command{
	Use:     "ibozctl",
	Short:   "A control panel for the inbox zero automation backend",
	Long:    `ibozctl is a terminal control panel for an inbox zero automation backend: dashboard, focus sessions, automation simulations and provider settings.`,
	Version: version,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	RunE:         runTUI,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		return log.Setup(debug)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return log.Close()
	},
}

func Execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancel()

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "backend base URL (overrides $"+config.ServerEnv+" and the config file)")
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// loadClient reads the config file and builds a client for the backend it
// points at.
func loadClient() (*config.Config, *api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load config: %w", err)
	}
	url := cfg.ResolveServer(serverFlag)
	log.Printf("Using backend %s", url)
	return cfg, api.NewClient(url, cfg.Server.Timeout()), nil
}
