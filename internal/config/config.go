package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

const (
	appConfigDir = "ibozctl"

	// DefaultServerURL is where the automation backend listens by default.
	DefaultServerURL = "http://localhost:8080"
	// ServerEnv overrides server.base_url.
	ServerEnv = "IBOZ_SERVER"
)

// ServerConfig locates the automation backend.
type ServerConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

func (s ServerConfig) WithDefaults() ServerConfig {
	if strings.TrimSpace(s.BaseURL) == "" {
		s.BaseURL = DefaultServerURL
	}
	if s.TimeoutSeconds < 0 {
		s.TimeoutSeconds = 0
	}
	return s
}

// Timeout is the per request timeout. Zero leaves requests unbounded.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(max(0, s.TimeoutSeconds)) * time.Second
}

// OAuthClient holds the credentials of an OAuth application registered with
// a provider.
type OAuthClient struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	Tenant       string `toml:"tenant,omitempty"`
}

func (c OAuthClient) Configured() bool {
	return strings.TrimSpace(c.ClientID) != ""
}

type OAuthConfig struct {
	Gmail   OAuthClient `toml:"gmail"`
	Outlook OAuthClient `toml:"outlook"`
}

// Config represents the ibozctl configuration
type Config struct {
	Server ServerConfig `toml:"server"`
	UI     UIConfig     `toml:"ui"`
	Theme  Theme        `toml:"theme"`
	OAuth  OAuthConfig  `toml:"oauth"`
	Keys   KeyMap       `toml:"keys"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server: ServerConfig{}.WithDefaults(),
		UI:     UIConfig{}.WithDefaults(),
		Theme:  Theme{Name: DefaultThemeName},
	}
}

// ConfigDir returns the directory where config files are stored
func ConfigDir() (string, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(appConfigDir, "config.toml"))
}

// Load reads the config file from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Server = cfg.Server.WithDefaults()
	cfg.UI = cfg.UI.WithDefaults()
	return &cfg, nil
}

// Save writes the config to disk
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg to path, creating the parent directory.
func SaveFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// OAuth client secrets may live in here.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ResolveServer picks the backend URL: an explicit flag wins, then the
// environment, then the config file.
func (c *Config) ResolveServer(flag string) string {
	if v := strings.TrimSpace(flag); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(ServerEnv)); v != "" {
		return v
	}
	return c.Server.WithDefaults().BaseURL
}
