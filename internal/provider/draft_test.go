package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/ibozctl/internal/api"
)

func TestDeriveDefaults(t *testing.T) {
	tests := []struct {
		provider api.Provider
		name     string
		conn     api.Connection
		labels   []string
	}{
		{
			provider: api.ProviderGmail,
			name:     "Gmail automation inbox",
			conn:     api.APIConnection("https://gmail.googleapis.com"),
			labels:   []string{"INBOX", "Urgent"},
		},
		{
			provider: api.ProviderOutlook,
			name:     "Outlook automation inbox",
			conn:     api.APIConnection("https://graph.microsoft.com/v1.0"),
			labels:   []string{"Inbox", "Automation"},
		},
		{
			provider: api.ProviderIMAP,
			name:     "IMAP automation inbox",
			conn:     api.IMAPConnection("imap.example.com", 993, true),
			labels:   []string{"INBOX"},
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			cfg := DeriveDefaults(tt.provider)
			require.Equal(t, tt.provider, cfg.Provider)
			require.Equal(t, tt.name, cfg.DisplayName)
			require.Equal(t, tt.conn, cfg.Connection)
			require.Equal(t, uint(24), cfg.SyncWindowHours)
			require.Equal(t, tt.labels, cfg.LabelFilters)
		})
	}
}

func TestDeriveDefaults_ReturnsFreshCopies(t *testing.T) {
	a := DeriveDefaults(api.ProviderGmail)
	a.LabelFilters[0] = "mutated"
	require.Equal(t, "INBOX", DeriveDefaults(api.ProviderGmail).LabelFilters[0])
}

func TestOnProviderChange_KeepsUserValues(t *testing.T) {
	prev := NewDraft()
	prev.SyncWindowHours = 48
	prev.LabelFilters = []string{"Support", "Billing"}

	next := OnProviderChange(prev, api.ProviderOutlook)
	require.Equal(t, api.ProviderOutlook, next.Provider)
	require.Equal(t, 48, next.SyncWindowHours)
	require.Equal(t, []string{"Support", "Billing"}, next.LabelFilters)
	require.Equal(t, api.APIConnection("https://graph.microsoft.com/v1.0"), next.Connection)
	require.Equal(t, "Outlook automation inbox", next.DisplayName)
}

func TestOnProviderChange_UntouchedFallsBackToDefaults(t *testing.T) {
	prev := Draft{Provider: api.ProviderGmail}

	next := OnProviderChange(prev, api.ProviderIMAP)
	require.Equal(t, api.ProviderIMAP, next.Provider)
	require.Equal(t, DefaultSyncWindowHours, next.SyncWindowHours)
	require.Equal(t, []string{"INBOX"}, next.LabelFilters)
	require.Equal(t, "INBOX", next.LabelText)
	require.NotNil(t, next.Connection.IMAP)
	require.Nil(t, next.Connection.API)
	require.Equal(t, "imap.example.com", next.Connection.IMAP.Host)
	require.Equal(t, 993, next.Connection.IMAP.Port)
	require.True(t, next.Connection.IMAP.UseTLS)
}

func TestOnProviderChange_ZeroOrNegativeSyncWindowUsesDefault(t *testing.T) {
	for _, hours := range []int{0, -3} {
		prev := NewDraft()
		prev.SyncWindowHours = hours
		require.Equal(t, DefaultSyncWindowHours, OnProviderChange(prev, api.ProviderOutlook).SyncWindowHours)
	}
}

func TestOnProviderChange_LabelText(t *testing.T) {
	prev := NewDraft()
	prev.LabelText = "Ops, Alerts"
	require.Equal(t, "Ops, Alerts", OnProviderChange(prev, api.ProviderIMAP).LabelText)

	prev.LabelText = "   \n "
	require.Equal(t, "Inbox\nAutomation", OnProviderChange(prev, api.ProviderOutlook).LabelText)
}

func TestOnProviderChange_DoesNotAliasPrev(t *testing.T) {
	prev := NewDraft()
	prev.LabelFilters = []string{"A"}
	next := OnProviderChange(prev, api.ProviderOutlook)
	next.LabelFilters[0] = "B"
	require.Equal(t, "A", prev.LabelFilters[0])
}

func TestOnProtocolChange_Defaults(t *testing.T) {
	conn, history := OnProtocolChange(
		api.APIConnection("https://gmail.googleapis.com"),
		ConnectionHistory{},
		api.ProviderGmail,
		api.ProtocolIMAP,
	)
	require.Equal(t, api.IMAPConnection("imap.example.com", 993, true), conn)
	require.Nil(t, conn.API)
	require.Equal(t, "https://gmail.googleapis.com", history.API.BaseURL)

	conn, _ = OnProtocolChange(
		api.IMAPConnection("mail.corp", 143, false),
		ConnectionHistory{},
		api.ProviderOutlook,
		api.ProtocolAPI,
	)
	require.Equal(t, api.APIConnection("https://graph.microsoft.com/v1.0"), conn)
	require.Nil(t, conn.IMAP)
}

func TestOnProtocolChange_IMAPProviderFallsBackToGmailAPI(t *testing.T) {
	conn, _ := OnProtocolChange(
		api.IMAPConnection("imap.example.com", 993, true),
		ConnectionHistory{},
		api.ProviderIMAP,
		api.ProtocolAPI,
	)
	require.Equal(t, "https://gmail.googleapis.com", conn.API.BaseURL)
}

func TestOnProtocolChange_RestoresEnteredSettings(t *testing.T) {
	d := draftFromConfig(DeriveDefaults(api.ProviderIMAP))
	d = Reduce(d, HostEdited{Value: "mail.corp.example"})
	d = Reduce(d, PortEdited{Text: "1993"})
	d = Reduce(d, TLSToggled{})

	d = Reduce(d, ProtocolChanged{Protocol: api.ProtocolAPI})
	require.Equal(t, api.ProtocolAPI, d.Connection.Protocol)
	require.Nil(t, d.Connection.IMAP)
	d = Reduce(d, APIBaseEdited{Value: "https://proxy.corp.example"})

	d = Reduce(d, ProtocolChanged{Protocol: api.ProtocolIMAP})
	require.Equal(t, api.IMAPConnection("mail.corp.example", 1993, false), d.Connection)

	d = Reduce(d, ProtocolChanged{Protocol: api.ProtocolAPI})
	require.Equal(t, api.APIConnection("https://proxy.corp.example"), d.Connection)
}

func TestOnProtocolChange_SameProtocolKeepsConnection(t *testing.T) {
	prev := api.IMAPConnection("mail.corp", 143, false)
	conn, _ := OnProtocolChange(prev, ConnectionHistory{}, api.ProviderIMAP, api.ProtocolIMAP)
	require.Equal(t, prev, conn)
	conn.IMAP.Host = "changed"
	require.Equal(t, "mail.corp", prev.IMAP.Host)
}

func TestNormalizeLabels(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "newline and comma", text: "INBOX\nUrgent, Work", want: []string{"INBOX", "Urgent", "Work"}},
		{name: "only separators", text: "  ,, \n ", want: []string{}},
		{name: "empty", text: "", want: []string{}},
		{name: "crlf", text: "INBOX\r\nUrgent\r\n", want: []string{"INBOX", "Urgent"}},
		{name: "duplicates kept", text: "INBOX, INBOX\nUrgent", want: []string{"INBOX", "INBOX", "Urgent"}},
		{name: "inner spaces kept", text: " Needs Reply ,Later", want: []string{"Needs Reply", "Later"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NormalizeLabels(tt.text))
		})
	}
}

func TestSubmit_ClampsNegativeSyncWindow(t *testing.T) {
	d := NewDraft()
	d = Reduce(d, SyncWindowEdited{Text: "-5"})
	require.Equal(t, -5, d.SyncWindowHours)

	cfg, err := Submit(d)
	require.NoError(t, err)
	require.Equal(t, uint(0), cfg.SyncWindowHours)
}

func TestSubmit_LabelsFromText(t *testing.T) {
	d := NewDraft()
	d = Reduce(d, LabelsEdited{Text: "Ops\nAlerts, Ops"})

	cfg, err := Submit(d)
	require.NoError(t, err)
	require.Equal(t, []string{"Ops", "Alerts", "Ops"}, cfg.LabelFilters)
}

func TestSubmit_EmptyLabelTextSendsEmptyList(t *testing.T) {
	d := NewDraft()
	d = Reduce(d, LabelsEdited{Text: " , "})

	cfg, err := Submit(d)
	require.NoError(t, err)
	require.NotNil(t, cfg.LabelFilters)
	require.Empty(t, cfg.LabelFilters)
}

func TestSubmit_Validation(t *testing.T) {
	imap := Reduce(NewDraft(), ProviderChanged{Provider: api.ProviderIMAP})

	tests := []struct {
		name  string
		draft Draft
		field string
	}{
		{name: "display name", draft: Reduce(NewDraft(), DisplayNameEdited{Value: "  "}), field: "displayName"},
		{name: "api base", draft: Reduce(NewDraft(), APIBaseEdited{Value: ""}), field: "connection.apiBaseUrl"},
		{name: "imap host", draft: Reduce(imap, HostEdited{Value: ""}), field: "connection.host"},
		{name: "port too high", draft: Reduce(imap, PortEdited{Text: "70000"}), field: "connection.port"},
		{name: "negative port", draft: Reduce(imap, PortEdited{Text: "-1"}), field: "connection.port"},
		{name: "unknown provider", draft: Draft{Provider: "yahoo", DisplayName: "x"}, field: "provider"},
		{
			name:  "unknown protocol",
			draft: Draft{Provider: api.ProviderGmail, DisplayName: "x", Connection: api.Connection{Protocol: "pop3"}},
			field: "connection.protocol",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Submit(tt.draft)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tt.field, verr.Field)
			require.True(t, IsValidation(err))
		})
	}
}

func TestReduce_PortEdits(t *testing.T) {
	d := Reduce(NewDraft(), ProviderChanged{Provider: api.ProviderIMAP})

	require.Equal(t, 143, Reduce(d, PortEdited{Text: "143"}).Connection.IMAP.Port)
	require.Equal(t, 993, Reduce(d, PortEdited{Text: "abc"}).Connection.IMAP.Port)
	require.Equal(t, 993, Reduce(d, PortEdited{Text: ""}).Connection.IMAP.Port)
}

func TestReduce_SyncWindowNonNumeric(t *testing.T) {
	d := Reduce(NewDraft(), SyncWindowEdited{Text: "soon"})
	require.Equal(t, 0, d.SyncWindowHours)
	require.Equal(t, 12, Reduce(d, SyncWindowEdited{Text: " 12 "}).SyncWindowHours)
}

func TestReduce_FieldEditsIgnoreOtherProtocol(t *testing.T) {
	d := NewDraft()
	require.Equal(t, d.Connection, Reduce(d, HostEdited{Value: "mail.corp"}).Connection)
	require.Equal(t, d.Connection, Reduce(d, TLSToggled{}).Connection)

	imap := Reduce(d, ProviderChanged{Provider: api.ProviderIMAP})
	require.Equal(t, imap.Connection, Reduce(imap, APIBaseEdited{Value: "https://x"}).Connection)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	d := Reduce(NewDraft(), ProviderChanged{Provider: api.ProviderIMAP})
	_ = Reduce(d, HostEdited{Value: "changed"})
	require.Equal(t, "imap.example.com", d.Connection.IMAP.Host)
}

func TestReduce_ServerStateArrived(t *testing.T) {
	saved := api.ProviderConfig{
		Provider:        api.ProviderOutlook,
		DisplayName:     "Ops mailbox",
		Connection:      api.APIConnection("https://graph.microsoft.com/beta"),
		SyncWindowHours: 72,
		LabelFilters:    []string{"Ops", "Escalations"},
	}
	d := Reduce(NewDraft(), LabelsEdited{Text: "stale"})

	d = Reduce(d, ServerStateArrived{State: &api.ProviderState{Config: &saved}})
	require.Equal(t, api.ProviderOutlook, d.Provider)
	require.Equal(t, "Ops mailbox", d.DisplayName)
	require.Equal(t, 72, d.SyncWindowHours)
	require.Equal(t, "Ops\nEscalations", d.LabelText)
	require.Equal(t, saved.Connection, d.Connection)

	d.LabelFilters[0] = "mutated"
	require.Equal(t, "Ops", saved.LabelFilters[0])

	cfg, err := Submit(d)
	require.NoError(t, err)
	require.Equal(t, saved.Connection, cfg.Connection)
}

func TestReduce_ServerStateWithoutConfigResetsToDefaults(t *testing.T) {
	d := Reduce(NewDraft(), ProviderChanged{Provider: api.ProviderIMAP})
	d = Reduce(d, ServerStateArrived{State: &api.ProviderState{}})
	require.Equal(t, NewDraft(), d)

	require.Equal(t, d, Reduce(d, ServerStateArrived{}))
}
