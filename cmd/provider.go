package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/oauth"
	"github.com/example/ibozctl/internal/tui"
)

var (
	tokenProvider string
	tokenUsername string
)

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Manage the email provider integration",
}

var providerConfigureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Edit and save the connection settings",
	Long:  "Launch an interactive form to choose the provider and edit its connection settings.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := loadClient()
		if err != nil {
			return err
		}
		return tui.RunConfigure(cmd.Context(), client)
	},
}

var providerAuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := loadClient()
		if err != nil {
			return err
		}
		return tui.RunAuth(cmd.Context(), client, cfg.OAuth)
	},
}

var providerTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an OAuth access token for the provider",
	Long:  "Print an OAuth access token, refreshing the cached one or running the browser consent flow when needed.",
	RunE:  runProviderToken,
}

var providerLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the cached OAuth token",
	RunE:  runProviderLogout,
}

func init() {
	for _, c := range []*cobra.Command{providerTokenCmd, providerLogoutCmd} {
		c.Flags().StringVar(&tokenProvider, "provider", "", "provider (gmail or outlook); defaults to the configured one")
		c.Flags().StringVar(&tokenUsername, "username", "", "mailbox user; defaults to the authenticated one")
	}
	providerCmd.AddCommand(providerConfigureCmd, providerAuthCmd, providerTokenCmd, providerLogoutCmd)
	rootCmd.AddCommand(providerCmd)
}

func runProviderToken(cmd *cobra.Command, args []string) error {
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}
	p, username, err := tokenTarget(cmd, client)
	if err != nil {
		return err
	}
	tok, err := oauth.Token(cmd.Context(), p, cfg.OAuth, username)
	if err != nil {
		return fmt.Errorf("unable to get oauth token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok.AccessToken)
	return nil
}

func runProviderLogout(cmd *cobra.Command, args []string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}
	p, username, err := tokenTarget(cmd, client)
	if err != nil {
		return err
	}
	if err := oauth.DeleteToken(p, username); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Forgot cached token for %s/%s\n", p, username)
	return nil
}

// tokenTarget resolves the provider and username from flags, falling back to
// what the backend reports.
func tokenTarget(cmd *cobra.Command, client *api.Client) (api.Provider, string, error) {
	p := api.Provider(strings.ToLower(strings.TrimSpace(tokenProvider)))
	username := strings.TrimSpace(tokenUsername)
	if p == "" || username == "" {
		state, err := client.ProviderState(cmd.Context())
		if err != nil {
			return "", "", fmt.Errorf("unable to load provider state: %w", err)
		}
		if p == "" && state.Config != nil {
			p = state.Config.Provider
		}
		if username == "" && state.Auth != nil {
			username = state.Auth.Username
		}
	}
	if !p.Valid() {
		return "", "", fmt.Errorf("unknown provider %q", p)
	}
	if username == "" {
		return "", "", errors.New("no username; pass --username")
	}
	return p, username, nil
}
