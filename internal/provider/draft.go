package provider

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/log"
)

// ValidationError rejects a draft before anything is sent to the backend.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// ConnectionHistory remembers the last settings entered for each protocol so
// switching back restores them.
type ConnectionHistory struct {
	API  *api.APISettings
	IMAP *api.IMAPSettings
}

func (h ConnectionHistory) remember(conn api.Connection) ConnectionHistory {
	conn = conn.Clone()
	switch conn.Protocol {
	case api.ProtocolAPI:
		if conn.API != nil {
			h.API = conn.API
		}
	case api.ProtocolIMAP:
		if conn.IMAP != nil {
			h.IMAP = conn.IMAP
		}
	}
	return h
}

// Draft is the locally edited, not yet submitted provider configuration.
// Sync window and port are kept signed so out of range input survives until
// Submit clamps or rejects it.
type Draft struct {
	Provider        api.Provider
	DisplayName     string
	Connection      api.Connection
	SyncWindowHours int
	LabelFilters    []string
	LabelText       string
	History         ConnectionHistory
}

// NewDraft returns the draft shown before any server state arrives.
func NewDraft() Draft {
	return draftFromConfig(DeriveDefaults(api.ProviderGmail))
}

func draftFromConfig(cfg api.ProviderConfig) Draft {
	cfg = cfg.Clone()
	return Draft{
		Provider:        cfg.Provider,
		DisplayName:     cfg.DisplayName,
		Connection:      cfg.Connection,
		SyncWindowHours: int(cfg.SyncWindowHours),
		LabelFilters:    cfg.LabelFilters,
		LabelText:       JoinLabels(cfg.LabelFilters),
	}
}

// OnProviderChange starts from the defaults of provider and carries over a
// positive sync window and non-empty label filters from prev.
func OnProviderChange(prev Draft, provider api.Provider) Draft {
	next := draftFromConfig(DeriveDefaults(provider))
	if prev.SyncWindowHours > 0 {
		next.SyncWindowHours = prev.SyncWindowHours
	}
	if len(prev.LabelFilters) > 0 {
		next.LabelFilters = append([]string(nil), prev.LabelFilters...)
	}
	if strings.TrimSpace(prev.LabelText) != "" {
		next.LabelText = prev.LabelText
	}
	return next
}

// OnProtocolChange builds the connection for protocol. Settings previously
// entered for that protocol are restored from history; otherwise protocol
// defaults apply. The connection being left is recorded in the returned
// history.
func OnProtocolChange(
	prev api.Connection,
	history ConnectionHistory,
	provider api.Provider,
	protocol api.Protocol,
) (api.Connection, ConnectionHistory) {
	history = history.remember(prev)
	if prev.Protocol == protocol {
		return prev.Clone(), history
	}
	switch protocol {
	case api.ProtocolIMAP:
		if h := history.IMAP; h != nil {
			return api.IMAPConnection(h.Host, h.Port, h.UseTLS), history
		}
		return api.IMAPConnection(DefaultIMAPHost, DefaultIMAPPort, true), history
	default:
		if h := history.API; h != nil {
			return api.APIConnection(h.BaseURL), history
		}
		return api.APIConnection(DefaultAPIBase(provider)), history
	}
}

// Event is a named transition of the draft.
type Event interface {
	apply(Draft) Draft
}

type (
	ProviderChanged struct{ Provider api.Provider }
	ProtocolChanged struct{ Protocol api.Protocol }
	// ServerStateArrived replaces the whole draft with the server's saved
	// configuration, or with the gmail defaults when nothing is configured yet.
	ServerStateArrived struct{ State *api.ProviderState }
	DisplayNameEdited  struct{ Value string }
	SyncWindowEdited   struct{ Text string }
	LabelsEdited       struct{ Text string }
	APIBaseEdited      struct{ Value string }
	HostEdited         struct{ Value string }
	PortEdited         struct{ Text string }
	TLSToggled         struct{}
)

func (e ProviderChanged) apply(d Draft) Draft {
	return OnProviderChange(d, e.Provider)
}

func (e ProtocolChanged) apply(d Draft) Draft {
	d.Connection, d.History = OnProtocolChange(d.Connection, d.History, d.Provider, e.Protocol)
	return d
}

func (e ServerStateArrived) apply(d Draft) Draft {
	if e.State == nil {
		return d
	}
	if e.State.Config == nil {
		return NewDraft()
	}
	return draftFromConfig(*e.State.Config)
}

func (e DisplayNameEdited) apply(d Draft) Draft {
	d.DisplayName = e.Value
	return d
}

func (e SyncWindowEdited) apply(d Draft) Draft {
	d.SyncWindowHours = ParseSyncWindow(e.Text)
	return d
}

func (e LabelsEdited) apply(d Draft) Draft {
	d.LabelText = e.Text
	return d
}

func (e APIBaseEdited) apply(d Draft) Draft {
	if d.Connection.API != nil {
		d.Connection = api.APIConnection(e.Value)
	}
	return d
}

func (e HostEdited) apply(d Draft) Draft {
	if c := d.Connection.IMAP; c != nil {
		d.Connection = api.IMAPConnection(e.Value, c.Port, c.UseTLS)
	}
	return d
}

func (e PortEdited) apply(d Draft) Draft {
	if c := d.Connection.IMAP; c != nil {
		d.Connection = api.IMAPConnection(c.Host, ParsePort(e.Text), c.UseTLS)
	}
	return d
}

func (TLSToggled) apply(d Draft) Draft {
	if c := d.Connection.IMAP; c != nil {
		d.Connection = api.IMAPConnection(c.Host, c.Port, !c.UseTLS)
	}
	return d
}

// Reduce applies ev to d. d is not modified.
func Reduce(d Draft, ev Event) Draft {
	d.Connection = d.Connection.Clone()
	d.LabelFilters = append([]string(nil), d.LabelFilters...)
	next := ev.apply(d)
	log.Printf("draft %T provider=%s protocol=%s", ev, next.Provider, next.Connection.Protocol)
	return next
}

// ParseSyncWindow reads a sync window in hours. Non-numeric input is 0.
func ParseSyncWindow(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return n
}

// ParsePort reads an IMAP port. Non-numeric or zero input falls back to the
// default port.
func ParsePort(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n == 0 {
		return DefaultIMAPPort
	}
	return n
}

// Submit turns d into the configuration sent to the backend. The sync window
// is clamped to zero and label filters come from the normalized label text.
func Submit(d Draft) (api.ProviderConfig, error) {
	if !d.Provider.Valid() {
		return api.ProviderConfig{}, &ValidationError{
			Field:  "provider",
			Reason: fmt.Sprintf("unknown provider %q", d.Provider),
		}
	}
	if strings.TrimSpace(d.DisplayName) == "" {
		return api.ProviderConfig{}, &ValidationError{Field: "displayName", Reason: "is required"}
	}
	if err := validateConnection(d.Connection); err != nil {
		return api.ProviderConfig{}, err
	}
	return api.ProviderConfig{
		Provider:        d.Provider,
		DisplayName:     d.DisplayName,
		Connection:      d.Connection.Clone(),
		SyncWindowHours: uint(max(0, d.SyncWindowHours)),
		LabelFilters:    NormalizeLabels(d.LabelText),
	}, nil
}

func validateConnection(c api.Connection) error {
	switch c.Protocol {
	case api.ProtocolAPI:
		if c.API == nil || strings.TrimSpace(c.API.BaseURL) == "" {
			return &ValidationError{Field: "connection.apiBaseUrl", Reason: "is required"}
		}
	case api.ProtocolIMAP:
		if c.IMAP == nil || strings.TrimSpace(c.IMAP.Host) == "" {
			return &ValidationError{Field: "connection.host", Reason: "is required"}
		}
		if c.IMAP.Port < 1 || c.IMAP.Port > 65535 {
			return &ValidationError{
				Field:  "connection.port",
				Reason: fmt.Sprintf("%d is outside 1-65535", c.IMAP.Port),
			}
		}
	default:
		return &ValidationError{
			Field:  "connection.protocol",
			Reason: fmt.Sprintf("unknown protocol %q", c.Protocol),
		}
	}
	return nil
}
