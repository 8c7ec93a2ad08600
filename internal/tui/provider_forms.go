package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/config"
	"github.com/example/ibozctl/internal/oauth"
	"github.com/example/ibozctl/internal/provider"
)

// RunConfigure walks through the connection settings in a form and saves
// them. The form starts from the configuration the backend currently holds.
func RunConfigure(ctx context.Context, backend Backend) error {
	if ctx == nil {
		ctx = context.Background()
	}
	state, err := loadProviderState(ctx, backend)
	if err != nil {
		return err
	}
	draft := provider.Reduce(provider.NewDraft(), provider.ServerStateArrived{State: state})

	selected := draft.Provider
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[api.Provider]().
				Title("Email provider").
				Options(providerFormOptions()...).
				DescriptionFunc(func() string {
					return provider.OptionFor(selected).Description
				}, &selected).
				Value(&selected),
		),
	).WithProgramOptions(tea.WithAltScreen())
	if err := form.RunWithContext(ctx); err != nil {
		return ignoreAbort(err)
	}
	if selected != draft.Provider {
		draft = provider.Reduce(draft, provider.ProviderChanged{Provider: selected})
	}

	draft, err = runConnectionForm(ctx, draft)
	if err != nil {
		return ignoreAbort(err)
	}

	cfg, err := provider.Submit(draft)
	if err != nil {
		return err
	}
	saved, err := backend.SaveProviderConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("save provider config: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Connection settings saved")
	fmt.Println(provider.IntegrationStatus(false, saved))
	return nil
}

func runConnectionForm(ctx context.Context, draft provider.Draft) (provider.Draft, error) {
	displayName := draft.DisplayName
	syncWindow := strconv.Itoa(draft.SyncWindowHours)
	protocol := draft.Connection.Protocol
	labels := draft.LabelText

	general := huh.NewGroup(
		huh.NewInput().
			Title("Display name").
			Validate(validateNotBlank).
			Value(&displayName),
		huh.NewInput().
			Title("Sync window (hours)").
			Validate(validateNumber).
			Value(&syncWindow),
		huh.NewSelect[api.Protocol]().
			Title("Connection protocol").
			Options(
				huh.NewOption("Provider API", api.ProtocolAPI),
				huh.NewOption("IMAP", api.ProtocolIMAP),
			).
			Value(&protocol),
		huh.NewText().
			Title("Label or folder filters").
			Description("One label per line. Use commas or line breaks.").
			Value(&labels),
	)
	form := huh.NewForm(general).WithProgramOptions(tea.WithAltScreen())
	if err := form.RunWithContext(ctx); err != nil {
		return draft, err
	}

	draft = provider.Reduce(draft, provider.DisplayNameEdited{Value: displayName})
	draft = provider.Reduce(draft, provider.SyncWindowEdited{Text: syncWindow})
	draft = provider.Reduce(draft, provider.LabelsEdited{Text: labels})
	if protocol != draft.Connection.Protocol {
		draft = provider.Reduce(draft, provider.ProtocolChanged{Protocol: protocol})
	}

	switch draft.Connection.Protocol {
	case api.ProtocolIMAP:
		imap := draft.Connection.IMAP
		host := imap.Host
		port := strconv.Itoa(imap.Port)
		useTLS := imap.UseTLS
		form = huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("IMAP host").Validate(validateNotBlank).Value(&host),
			huh.NewInput().Title("Port").Validate(validateNumber).Value(&port),
			huh.NewConfirm().Title("Require TLS").Affirmative("Yes").Negative("No").Value(&useTLS),
		)).WithProgramOptions(tea.WithAltScreen())
		if err := form.RunWithContext(ctx); err != nil {
			return draft, err
		}
		draft = provider.Reduce(draft, provider.HostEdited{Value: host})
		draft = provider.Reduce(draft, provider.PortEdited{Text: port})
		if useTLS != draft.Connection.IMAP.UseTLS {
			draft = provider.Reduce(draft, provider.TLSToggled{})
		}
	default:
		base := ""
		if draft.Connection.API != nil {
			base = draft.Connection.API.BaseURL
		}
		form = huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("API base URL").Validate(validateNotBlank).Value(&base),
		)).WithProgramOptions(tea.WithAltScreen())
		if err := form.RunWithContext(ctx); err != nil {
			return draft, err
		}
		draft = provider.Reduce(draft, provider.APIBaseEdited{Value: base})
	}
	return draft, nil
}

// RunAuth collects credentials and authenticates the configured provider.
// With an OAuth client configured for the provider, the access token comes
// from the browser consent flow instead of being pasted.
func RunAuth(ctx context.Context, backend Backend, oauthCfg config.OAuthConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	state, err := loadProviderState(ctx, backend)
	if err != nil {
		return err
	}
	if state.Config == nil {
		return errors.New("no provider configured; run `ibozctl provider configure` first")
	}
	p := state.Config.Provider

	auth := provider.NewAuth()
	auth.Sync(state)
	method := auth.Method()
	username := auth.Username()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(provider.OptionFor(p).Label).
				Description(provider.IntegrationStatus(false, state)),
			huh.NewSelect[api.AuthMethod]().
				Title("Method").
				Options(
					huh.NewOption(authMethodLabels[api.AuthMethodOAuth], api.AuthMethodOAuth),
					huh.NewOption(authMethodLabels[api.AuthMethodAppPassword], api.AuthMethodAppPassword),
				).
				Value(&method),
			huh.NewInput().
				Title("Mailbox user").
				Placeholder("ops-team@example.com").
				Validate(validateNotBlank).
				Value(&username),
		),
	).WithProgramOptions(tea.WithAltScreen())
	if err := form.RunWithContext(ctx); err != nil {
		return ignoreAbort(err)
	}
	if method != auth.Method() {
		auth.SelectMethod(method)
	}
	auth.SetUsername(strings.TrimSpace(username))

	secret, err := collectSecret(ctx, p, method, auth.Username(), oauthCfg)
	if err != nil {
		return ignoreAbort(err)
	}
	auth.SetSecret(secret)

	sub, req, err := auth.Begin()
	if err != nil {
		return err
	}
	updated, err := backend.Authenticate(ctx, req)
	if err != nil {
		auth.Fail(sub, err)
		return errors.New(auth.Err())
	}
	auth.Succeed(sub, updated)
	fmt.Println(auth.StatusText())
	return nil
}

func collectSecret(
	ctx context.Context,
	p api.Provider,
	method api.AuthMethod,
	username string,
	oauthCfg config.OAuthConfig,
) (string, error) {
	if method == api.AuthMethodOAuth {
		tok, err := oauth.Token(ctx, p, oauthCfg, username)
		switch {
		case err == nil:
			return tok.AccessToken, nil
		case !errors.Is(err, oauth.ErrNotConfigured) && !errors.Is(err, oauth.ErrUnsupported):
			return "", err
		}
		fmt.Fprintf(os.Stderr, "No OAuth client for %s; paste an access token instead.\n", p)
	}

	title := "App password"
	placeholder := "xxxx-xxxx-xxxx"
	if method == api.AuthMethodOAuth {
		title = "OAuth access token"
		placeholder = "ya29.a0AWY..."
	}
	var secret string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(title).
			Placeholder(placeholder).
			EchoMode(huh.EchoModePassword).
			Validate(validateNotBlank).
			Value(&secret),
	)).WithProgramOptions(tea.WithAltScreen())
	if err := form.RunWithContext(ctx); err != nil {
		return "", err
	}
	return secret, nil
}

func loadProviderState(ctx context.Context, backend Backend) (*api.ProviderState, error) {
	var state api.ProviderState
	if err := backend.Get(ctx, api.EndpointProvider, &state); err != nil {
		return nil, fmt.Errorf("load provider config: %w", err)
	}
	return &state, nil
}

func providerFormOptions() []huh.Option[api.Provider] {
	options := make([]huh.Option[api.Provider], 0, len(provider.Options))
	for _, opt := range provider.Options {
		options = append(options, huh.NewOption(opt.Label, opt.Provider))
	}
	return options
}

func validateNotBlank(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("required")
	}
	return nil
}

func validateNumber(value string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(value)); err != nil {
		return errors.New("must be a number")
	}
	return nil
}

func ignoreAbort(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return err
}
