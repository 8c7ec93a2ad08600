package config

import "time"

type UIConfig struct {
	TickIntervalMillis     int `toml:"tick_interval_millis"`
	RefreshIntervalSeconds int `toml:"refresh_interval_seconds"`
}

func (u UIConfig) WithDefaults() UIConfig {
	if u.TickIntervalMillis <= 0 {
		u.TickIntervalMillis = 1000
	}
	if u.RefreshIntervalSeconds < 0 {
		u.RefreshIntervalSeconds = 0
	}
	return u
}

// TickInterval is how often a running focus session is advanced.
func (u UIConfig) TickInterval() time.Duration {
	return time.Duration(u.TickIntervalMillis) * time.Millisecond
}

// RefreshInterval is the dashboard auto refresh period. Zero disables it.
func (u UIConfig) RefreshInterval() time.Duration {
	return time.Duration(u.RefreshIntervalSeconds) * time.Second
}
