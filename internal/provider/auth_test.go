package provider

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/ibozctl/internal/api"
)

var updatedAt = time.Date(2025, 3, 18, 14, 5, 0, 0, time.UTC)

func authedState(method api.AuthMethod) *api.ProviderState {
	cfg := DeriveDefaults(api.ProviderGmail)
	return &api.ProviderState{
		Config: &cfg,
		Auth: &api.AuthState{
			Method:    method,
			Username:  "ops-team@example.com",
			Status:    "connected",
			UpdatedAt: updatedAt,
		},
	}
}

func TestAuth_MethodSwitchClearsSecret(t *testing.T) {
	a := NewAuth()
	require.Equal(t, api.AuthMethodOAuth, a.Method())
	a.SetUsername("ops-team@example.com")
	a.SetSecret("ya29.token")

	a.SelectMethod(api.AuthMethodAppPassword)
	require.Empty(t, a.Secret())

	_, _, err := a.Begin()
	require.True(t, IsValidation(err), "an empty secret must not be submitted")
}

func TestAuth_BeginPopulatesOneSecret(t *testing.T) {
	tests := []struct {
		method      api.AuthMethod
		oauthToken  string
		appPassword string
	}{
		{method: api.AuthMethodOAuth, oauthToken: "s3cret"},
		{method: api.AuthMethodAppPassword, appPassword: "s3cret"},
	}
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			a := NewAuth()
			a.SelectMethod(tt.method)
			a.SetUsername("ops-team@example.com")
			a.SetSecret("s3cret")

			sub, req, err := a.Begin()
			require.NoError(t, err)
			require.Equal(t, tt.method, sub.Method)
			require.Equal(t, tt.method, req.Method)
			require.Equal(t, "ops-team@example.com", req.Username)
			require.Equal(t, tt.oauthToken, req.OAuthToken)
			require.Equal(t, tt.appPassword, req.AppPassword)
			require.Equal(t, Authenticating, a.Status())
			require.True(t, a.InFlight())
		})
	}
}

func TestAuth_BeginRequiresUsername(t *testing.T) {
	a := NewAuth()
	a.SetSecret("token")
	_, _, err := a.Begin()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "username", verr.Field)
	require.Equal(t, Unauthenticated, a.Status())
}

func TestAuth_Succeed(t *testing.T) {
	a := NewAuth()
	a.SetUsername("ops-team@example.com")
	a.SetSecret("token")
	sub, _, err := a.Begin()
	require.NoError(t, err)

	require.True(t, a.Succeed(sub, authedState(api.AuthMethodOAuth)))
	require.Equal(t, Authenticated, a.Status())
	require.Empty(t, a.Secret())
	require.Empty(t, a.Err())
	require.Equal(t, "Connected • updated "+FormatTimestamp(&updatedAt), a.StatusText())
	require.False(t, a.InFlight())
}

func TestAuth_FailKeepsConnectedStatus(t *testing.T) {
	a := NewAuth()
	a.Sync(authedState(api.AuthMethodOAuth))
	connected := a.StatusText()
	require.NotEmpty(t, connected)

	a.SetSecret("bad-token")
	sub, _, err := a.Begin()
	require.NoError(t, err)
	require.True(t, a.Fail(sub, &api.TransportError{Status: 401, Message: "invalid oauth token"}))

	require.Equal(t, AuthFailed, a.Status())
	require.Equal(t, "invalid oauth token", a.Err())
	require.Equal(t, connected, a.StatusText())
}

func TestAuth_LastSubmissionWins(t *testing.T) {
	a := NewAuth()
	a.SetUsername("ops-team@example.com")
	a.SetSecret("first")
	first, _, err := a.Begin()
	require.NoError(t, err)
	a.SetSecret("second")
	second, _, err := a.Begin()
	require.NoError(t, err)

	require.False(t, a.Fail(first, errors.New("late failure")))
	require.Empty(t, a.Err())
	require.Equal(t, Authenticating, a.Status())

	require.True(t, a.Succeed(second, authedState(api.AuthMethodOAuth)))
	require.False(t, a.Succeed(first, authedState(api.AuthMethodOAuth)))
	require.Equal(t, Authenticated, a.Status())
}

func TestAuth_Sync(t *testing.T) {
	a := NewAuth()
	a.Sync(authedState(api.AuthMethodAppPassword))
	require.Equal(t, api.AuthMethodAppPassword, a.Method())
	require.Equal(t, "ops-team@example.com", a.Username())
	require.Equal(t, Authenticated, a.Status())

	imap := DeriveDefaults(api.ProviderIMAP)
	a = NewAuth()
	a.SetSecret("token")
	a.Sync(&api.ProviderState{Config: &imap})
	require.Equal(t, api.AuthMethodAppPassword, a.Method())
	require.Empty(t, a.Secret())
	require.Empty(t, a.StatusText())

	gmail := DeriveDefaults(api.ProviderGmail)
	a = NewAuth()
	a.SetSecret("token")
	a.Sync(&api.ProviderState{Config: &gmail})
	require.Equal(t, api.AuthMethodOAuth, a.Method())
	require.Equal(t, "token", a.Secret(), "same method keeps the secret")
}

func TestIntegrationStatus(t *testing.T) {
	cfg := DeriveDefaults(api.ProviderGmail)
	tests := []struct {
		name    string
		loading bool
		state   *api.ProviderState
		want    string
	}{
		{name: "loading", loading: true, want: "Loading…"},
		{name: "nothing", want: "Not configured"},
		{name: "no config", state: &api.ProviderState{}, want: "Not configured"},
		{name: "awaiting", state: &api.ProviderState{Config: &cfg}, want: "Awaiting authentication"},
		{name: "oauth", state: authedState(api.AuthMethodOAuth), want: "Connected via OAuth"},
		{name: "app password", state: authedState(api.AuthMethodAppPassword), want: "Connected via app password"},
		{name: "reloading keeps state", loading: true, state: authedState(api.AuthMethodOAuth), want: "Connected via OAuth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IntegrationStatus(tt.loading, tt.state))
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	require.Equal(t, "—", FormatTimestamp(nil))
	require.Equal(t, "—", FormatTimestamp(&time.Time{}))
	require.Equal(t, updatedAt.Local().Format(TimestampLayout), FormatTimestamp(&updatedAt))
}
