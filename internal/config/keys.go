package config

// KeyMap holds per view key overrides. Empty lists keep the built in keys.
type KeyMap struct {
	Global      GlobalKeyMap      `toml:"global"`
	Focus       FocusKeyMap       `toml:"focus"`
	Automations AutomationsKeyMap `toml:"automations"`
	Settings    SettingsKeyMap    `toml:"settings"`
}

type GlobalKeyMap struct {
	Up       []string `toml:"up"`
	Down     []string `toml:"down"`
	PageUp   []string `toml:"page_up"`
	PageDown []string `toml:"page_down"`
	NextTab  []string `toml:"next_tab"`
	PrevTab  []string `toml:"prev_tab"`
	Refresh  []string `toml:"refresh"`
	Help     []string `toml:"help"`
	Quit     []string `toml:"quit"`
}

type FocusKeyMap struct {
	Start             []string `toml:"start"`
	Stop              []string `toml:"stop"`
	Acknowledge       []string `toml:"acknowledge"`
	MuteNotifications []string `toml:"mute_notifications"`
	ToggleBatching    []string `toml:"toggle_batching"`
	ToggleSummaries   []string `toml:"toggle_summaries"`
}

type AutomationsKeyMap struct {
	Run []string `toml:"run"`
}

type SettingsKeyMap struct {
	Edit          []string `toml:"edit"`
	Next          []string `toml:"next"`
	Prev          []string `toml:"prev"`
	Save          []string `toml:"save"`
	Authenticate  []string `toml:"authenticate"`
	FetchMessages []string `toml:"fetch_messages"`
	Done          []string `toml:"done"`
}
