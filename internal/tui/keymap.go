package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/example/ibozctl/internal/config"
)

type globalKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

type focusKeyMap struct {
	Start             key.Binding
	Stop              key.Binding
	Acknowledge       key.Binding
	MuteNotifications key.Binding
	ToggleBatching    key.Binding
	ToggleSummaries   key.Binding
}

type automationsKeyMap struct {
	Run key.Binding
}

type settingsKeyMap struct {
	Edit          key.Binding
	Next          key.Binding
	Prev          key.Binding
	Save          key.Binding
	Authenticate  key.Binding
	FetchMessages key.Binding
	Done          key.Binding
}

type keyMap struct {
	tab     tab
	editing bool

	global      globalKeyMap
	focus       focusKeyMap
	automations automationsKeyMap
	settings    settingsKeyMap
}

func keyMapFromConfig(cfg config.KeyMap) keyMap {
	return keyMap{
		global: globalKeyMap{
			Up: makeBinding(bindingDef{keys: []string{"k", "up"}, desc: "up"}, cfg.Global.Up),
			Down: makeBinding(
				bindingDef{keys: []string{"j", "down"}, desc: "down"},
				cfg.Global.Down,
			),
			PageUp: makeBinding(
				bindingDef{keys: []string{"pgup"}, desc: "page up"},
				cfg.Global.PageUp,
			),
			PageDown: makeBinding(
				bindingDef{keys: []string{"pgdown"}, desc: "page down"},
				cfg.Global.PageDown,
			),
			NextTab: makeBinding(
				bindingDef{keys: []string{"tab", "right", "l"}, desc: "next tab"},
				cfg.Global.NextTab,
			),
			PrevTab: makeBinding(
				bindingDef{keys: []string{"shift+tab", "left", "h"}, desc: "prev tab"},
				cfg.Global.PrevTab,
			),
			Refresh: makeBinding(
				bindingDef{keys: []string{"r"}, desc: "refresh"},
				cfg.Global.Refresh,
			),
			Help: makeBinding(bindingDef{keys: []string{"?"}, desc: "help"}, cfg.Global.Help),
			Quit: makeBinding(
				bindingDef{keys: []string{"q", "ctrl+c"}, desc: "quit"},
				cfg.Global.Quit,
			),
		},
		focus: focusKeyMap{
			Start: makeBinding(
				bindingDef{keys: []string{"enter", " "}, desc: "start"},
				cfg.Focus.Start,
			),
			Stop: makeBinding(
				bindingDef{keys: []string{"x"}, desc: "stop"},
				cfg.Focus.Stop,
			),
			Acknowledge: makeBinding(
				bindingDef{keys: []string{"a"}, desc: "acknowledge"},
				cfg.Focus.Acknowledge,
			),
			MuteNotifications: makeBinding(
				bindingDef{keys: []string{"m"}, desc: "mute"},
				cfg.Focus.MuteNotifications,
			),
			ToggleBatching: makeBinding(
				bindingDef{keys: []string{"b"}, desc: "batching"},
				cfg.Focus.ToggleBatching,
			),
			ToggleSummaries: makeBinding(
				bindingDef{keys: []string{"s"}, desc: "summaries"},
				cfg.Focus.ToggleSummaries,
			),
		},
		automations: automationsKeyMap{
			Run: makeBinding(
				bindingDef{keys: []string{"enter", "t"}, desc: "test run"},
				cfg.Automations.Run,
			),
		},
		settings: settingsKeyMap{
			Edit: makeBinding(
				bindingDef{keys: []string{"enter", " "}, desc: "edit"},
				cfg.Settings.Edit,
			),
			Next: makeBinding(
				bindingDef{keys: []string{"j", "down"}, desc: "next field"},
				cfg.Settings.Next,
			),
			Prev: makeBinding(
				bindingDef{keys: []string{"k", "up"}, desc: "prev field"},
				cfg.Settings.Prev,
			),
			Save: makeBinding(
				bindingDef{keys: []string{"ctrl+s", "S"}, desc: "save"},
				cfg.Settings.Save,
			),
			Authenticate: makeBinding(
				bindingDef{keys: []string{"A"}, desc: "authenticate"},
				cfg.Settings.Authenticate,
			),
			FetchMessages: makeBinding(
				bindingDef{keys: []string{"F"}, desc: "fetch messages"},
				cfg.Settings.FetchMessages,
			),
			Done: makeBinding(
				bindingDef{keys: []string{"esc"}, desc: "done"},
				cfg.Settings.Done,
			),
		},
	}
}

func (m Model) keyMap() keyMap {
	km := keyMapFromConfig(m.keyMapCfg)
	km.tab = m.currentTab
	km.editing = m.settings.editing
	return km
}

type bindingDef struct {
	keys []string
	desc string
}

func makeBinding(def bindingDef, override []string) key.Binding {
	keys := def.keys
	if len(override) > 0 {
		keys = override
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(formatHelpKeys(keys), def.desc),
	)
}

func formatHelpKeys(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		label := formatKeyLabel(key)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return strings.Join(out, "/")
}

func formatKeyLabel(key string) string {
	switch key {
	case "up":
		return "↑"
	case "down":
		return "↓"
	case "left":
		return "←"
	case "right":
		return "→"
	case "pgdown":
		return "pgdn"
	case "pgup":
		return "pgup"
	case "shift+tab":
		return "S-tab"
	case " ":
		return "space"
	default:
		return key
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	if k.editing {
		return []key.Binding{k.settings.Done, k.global.Quit}
	}
	switch k.tab {
	case tabFocus:
		return []key.Binding{
			k.global.Up,
			k.global.Down,
			k.focus.Start,
			k.focus.Stop,
			k.focus.Acknowledge,
			k.global.NextTab,
			k.global.Help,
			k.global.Quit,
		}
	case tabAutomations:
		return []key.Binding{
			k.global.Up,
			k.global.Down,
			k.automations.Run,
			k.global.NextTab,
			k.global.Help,
			k.global.Quit,
		}
	case tabSettings:
		return []key.Binding{
			k.settings.Next,
			k.settings.Prev,
			k.settings.Edit,
			k.settings.Save,
			k.settings.Authenticate,
			k.settings.FetchMessages,
			k.global.Help,
		}
	default:
		return []key.Binding{
			k.global.Up,
			k.global.Down,
			k.global.Refresh,
			k.global.NextTab,
			k.global.Help,
			k.global.Quit,
		}
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	if k.editing {
		return [][]key.Binding{
			{k.settings.Done},
			{k.global.Quit},
		}
	}
	nav := []key.Binding{k.global.NextTab, k.global.PrevTab, k.global.Refresh}
	meta := []key.Binding{k.global.Help, k.global.Quit}
	switch k.tab {
	case tabFocus:
		return [][]key.Binding{
			{k.global.Up, k.global.Down},
			{k.focus.Start, k.focus.Stop, k.focus.Acknowledge},
			{k.focus.MuteNotifications, k.focus.ToggleBatching, k.focus.ToggleSummaries},
			nav,
			meta,
		}
	case tabAutomations:
		return [][]key.Binding{
			{k.global.Up, k.global.Down},
			{k.automations.Run},
			nav,
			meta,
		}
	case tabSettings:
		return [][]key.Binding{
			{k.settings.Next, k.settings.Prev, k.settings.Edit, k.settings.Done},
			{k.settings.Save, k.settings.Authenticate, k.settings.FetchMessages},
			{k.global.PageUp, k.global.PageDown},
			nav,
			meta,
		}
	default:
		return [][]key.Binding{
			{k.global.Up, k.global.Down, k.global.PageUp, k.global.PageDown},
			nav,
			meta,
		}
	}
}
