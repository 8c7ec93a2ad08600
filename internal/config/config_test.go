package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, DefaultServerURL, cfg.Server.BaseURL)
	require.Equal(t, DefaultThemeName, cfg.Theme.Name)
	require.Equal(t, time.Second, cfg.UI.TickInterval())
	require.Zero(t, cfg.UI.RefreshInterval())
}

func TestLoadFile_Parse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
base_url = "https://iboz.internal"
timeout_seconds = 15

[ui]
refresh_interval_seconds = 30

[theme]
name = "Dracula"

[theme.panel]
error_fg = "bright_red"

[oauth.outlook]
client_id = "abc"
tenant = "contoso"

[keys.focus]
start = ["s"]
`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "https://iboz.internal", cfg.Server.BaseURL)
	require.Equal(t, 15*time.Second, cfg.Server.Timeout())
	require.Equal(t, 30*time.Second, cfg.UI.RefreshInterval())
	require.Equal(t, 1000, cfg.UI.TickIntervalMillis)
	require.Equal(t, "Dracula", cfg.Theme.Name)
	require.Equal(t, "bright_red", cfg.Theme.Panel.ErrorFg)
	require.True(t, cfg.OAuth.Outlook.Configured())
	require.False(t, cfg.OAuth.Gmail.Configured())
	require.Equal(t, "contoso", cfg.OAuth.Outlook.Tenant)
	require.Equal(t, []string{"s"}, cfg.Keys.Focus.Start)
	require.Empty(t, cfg.Keys.Focus.Stop)
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\n"), 0o600))

	_, err := LoadFile(path)
	require.ErrorContains(t, err, "failed to parse config")
}

func TestSaveFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Server.BaseURL = "http://10.0.0.5:9000"
	cfg.OAuth.Gmail = OAuthClient{ClientID: "id", ClientSecret: "secret"}

	require.NoError(t, SaveFile(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Server, got.Server)
	require.Equal(t, cfg.OAuth, got.OAuth)
	require.Equal(t, cfg.Theme.Name, got.Theme.Name)
}

func TestResolveServer(t *testing.T) {
	cfg := Default()
	cfg.Server.BaseURL = "http://from-config"

	t.Setenv(ServerEnv, "")
	require.Equal(t, "http://from-config", cfg.ResolveServer(""))

	t.Setenv(ServerEnv, "http://from-env")
	require.Equal(t, "http://from-env", cfg.ResolveServer(""))
	require.Equal(t, "http://from-flag", cfg.ResolveServer(" http://from-flag "))

	t.Setenv(ServerEnv, "")
	cfg.Server.BaseURL = ""
	require.Equal(t, DefaultServerURL, cfg.ResolveServer(""))
}

func TestUIConfigDefaults(t *testing.T) {
	u := UIConfig{TickIntervalMillis: -5, RefreshIntervalSeconds: -1}.WithDefaults()
	require.Equal(t, 1000, u.TickIntervalMillis)
	require.Zero(t, u.RefreshIntervalSeconds)

	u = UIConfig{TickIntervalMillis: 250}.WithDefaults()
	require.Equal(t, 250*time.Millisecond, u.TickInterval())
}

func TestResolveTheme(t *testing.T) {
	theme, err := ResolveTheme(Theme{
		Name:  DefaultThemeName,
		Panel: ThemePanel{ErrorFg: "#ff0000", WarnFg: "bright_yellow"},
	})
	require.NoError(t, err)
	require.Equal(t, DefaultThemeName, theme.Name)
	require.Equal(t, "#ff0000", theme.Panel.ErrorFg)
	require.NotEqual(t, "bright_yellow", theme.Panel.WarnFg)
	require.NotEmpty(t, theme.Status.Bg)
	require.NotEmpty(t, theme.Panel.ProgressStart)
	require.NotEmpty(t, theme.Modal.FooterFg)
}

func TestResolveTheme_Unknown(t *testing.T) {
	_, err := ResolveTheme(Theme{Name: "definitely-not-a-theme"})
	require.Error(t, err)
}
