// Package provider reconciles the email provider configuration draft with
// server state, and tracks the authentication and message sync flows that
// hang off it.
package provider

import "github.com/example/ibozctl/internal/api"

const (
	DefaultSyncWindowHours = 24
	DefaultIMAPHost        = "imap.example.com"
	DefaultIMAPPort        = 993

	gmailAPIBase   = "https://gmail.googleapis.com"
	outlookAPIBase = "https://graph.microsoft.com/v1.0"
)

// Option describes a provider for pickers.
type Option struct {
	Provider    api.Provider
	Label       string
	Description string
}

var Options = []Option{
	{
		Provider:    api.ProviderGmail,
		Label:       "Gmail / Google Workspace",
		Description: "OAuth connection with least privileged scopes for delegated sending and read access.",
	},
	{
		Provider:    api.ProviderOutlook,
		Label:       "Microsoft 365 / Outlook",
		Description: "Azure AD application with Graph API permissions scoped to the automation mailbox.",
	},
	{
		Provider:    api.ProviderIMAP,
		Label:       "Generic IMAP",
		Description: "Use app passwords for legacy systems that do not support modern auth.",
	},
}

// OptionFor returns the picker entry for p, falling back to gmail.
func OptionFor(p api.Provider) Option {
	for _, opt := range Options {
		if opt.Provider == p {
			return opt
		}
	}
	return Options[0]
}

// DeriveDefaults returns the canonical configuration for provider. Unknown
// providers get the gmail defaults.
func DeriveDefaults(provider api.Provider) api.ProviderConfig {
	switch provider {
	case api.ProviderOutlook:
		return api.ProviderConfig{
			Provider:        api.ProviderOutlook,
			DisplayName:     "Outlook automation inbox",
			Connection:      api.APIConnection(outlookAPIBase),
			SyncWindowHours: DefaultSyncWindowHours,
			LabelFilters:    []string{"Inbox", "Automation"},
		}
	case api.ProviderIMAP:
		return api.ProviderConfig{
			Provider:        api.ProviderIMAP,
			DisplayName:     "IMAP automation inbox",
			Connection:      api.IMAPConnection(DefaultIMAPHost, DefaultIMAPPort, true),
			SyncWindowHours: DefaultSyncWindowHours,
			LabelFilters:    []string{"INBOX"},
		}
	default:
		return api.ProviderConfig{
			Provider:        api.ProviderGmail,
			DisplayName:     "Gmail automation inbox",
			Connection:      api.APIConnection(gmailAPIBase),
			SyncWindowHours: DefaultSyncWindowHours,
			LabelFilters:    []string{"INBOX", "Urgent"},
		}
	}
}

// DefaultAPIBase is the api base URL used when a provider is switched to
// the api protocol. IMAP has no API of its own, so it points at gmail.
func DefaultAPIBase(provider api.Provider) string {
	if provider == api.ProviderOutlook {
		return outlookAPIBase
	}
	return gmailAPIBase
}

// PreferredAuthMethod is oauth for providers with a modern auth flow and an
// app password for everything else.
func PreferredAuthMethod(provider api.Provider) api.AuthMethod {
	switch provider {
	case api.ProviderGmail, api.ProviderOutlook:
		return api.AuthMethodOAuth
	default:
		return api.AuthMethodAppPassword
	}
}
