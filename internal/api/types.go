package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// Provider identifies a supported email backend.
type Provider string

const (
	ProviderGmail   Provider = "gmail"
	ProviderOutlook Provider = "outlook"
	ProviderIMAP    Provider = "imap"
)

// Providers lists the supported providers in display order.
var Providers = []Provider{ProviderGmail, ProviderOutlook, ProviderIMAP}

func (p Provider) Valid() bool {
	switch p {
	case ProviderGmail, ProviderOutlook, ProviderIMAP:
		return true
	}
	return false
}

// Protocol is the transport used to reach a provider.
type Protocol string

const (
	ProtocolAPI  Protocol = "api"
	ProtocolIMAP Protocol = "imap"
)

func (p Protocol) Valid() bool {
	return p == ProtocolAPI || p == ProtocolIMAP
}

// AuthMethod enumerates supported credential flows.
type AuthMethod string

const (
	AuthMethodOAuth       AuthMethod = "oauth"
	AuthMethodAppPassword AuthMethod = "appPassword"
)

// DashboardResponse is returned by GET /api/dashboard.
type DashboardResponse struct {
	Summary         DashboardSummary `json:"summary"`
	FocusSessions   []FocusSession   `json:"focusSessions"`
	Queues          []Queue          `json:"queues"`
	Recommendations []Recommendation `json:"recommendations"`
}

type DashboardSummary struct {
	InboxZeroTarget  int     `json:"inboxZeroTarget"`
	CurrentInbox     int     `json:"currentInbox"`
	AutomationRate   float64 `json:"automationRate"`
	TimeSavedMinutes int     `json:"timeSavedMinutes"`
}

// FocusPotential is the number of emails above the inbox zero target.
func (s DashboardSummary) FocusPotential() int {
	return max(0, s.CurrentInbox-s.InboxZeroTarget)
}

// FocusSession is a planned block of inbox work. Supplied by the backend and
// never modified locally.
type FocusSession struct {
	ID               string `json:"id"`
	Label            string `json:"label"`
	Description      string `json:"description"`
	Start            string `json:"start,omitempty"`
	EstimatedMinutes int    `json:"estimated"`
	EmailCount       int    `json:"emails"`
	LLMAssisted      bool   `json:"llmSupport"`
}

type Queue struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Count       int    `json:"count"`
	LLMEnabled  bool   `json:"llmEnabled"`
}

type Recommendation struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// FocusPlanResponse is returned by GET /api/focus/plan.
type FocusPlanResponse struct {
	Date     string         `json:"date"`
	Sessions []FocusSession `json:"sessions"`
	Metrics  FocusMetrics   `json:"metrics"`
	Controls FocusControls  `json:"controls"`
}

type FocusMetrics struct {
	ClearedToday int `json:"clearedToday"`
	Streak       int `json:"streak"`
	Goal         int `json:"goal"`
}

type FocusControls struct {
	NotificationsMuted bool `json:"notificationsMuted"`
	BatchingEnabled    bool `json:"batchingEnabled"`
	AutoSummaries      bool `json:"autoSummaries"`
}

// AutomationsResponse is returned by GET /api/automations.
type AutomationsResponse struct {
	Overview  AutomationOverview   `json:"overview"`
	Templates []AutomationTemplate `json:"templates"`
}

type AutomationOverview struct {
	Active             int     `json:"active"`
	AutomationCoverage float64 `json:"automationCoverage"`
	AvgTimeSaved       int     `json:"avgTimeSaved"`
}

type AutomationTemplate struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Trigger          string   `json:"trigger"`
	Conditions       []string `json:"conditions"`
	Actions          []string `json:"actions"`
	RequiresApproval bool     `json:"requiresApproval"`
	Owner            string   `json:"owner"`
	LastRun          string   `json:"lastRun"`
}

// TestRunRequest is the body of POST /api/automations/test-run.
type TestRunRequest struct {
	TemplateID string         `json:"templateId"`
	Parameters map[string]any `json:"parameters"`
}

// TestRunResponse is the simulated outcome of an automation.
type TestRunResponse struct {
	TemplateID string         `json:"templateId"`
	Status     string         `json:"status"`
	Summary    string         `json:"summary"`
	Parameters map[string]any `json:"parameters"`
	Review     TestRunReview  `json:"review"`
}

type TestRunReview struct {
	RequiresApproval bool    `json:"requiresApproval"`
	Confidence       float64 `json:"confidence"`
}

// APISettings holds the fields of an api protocol connection.
type APISettings struct {
	BaseURL string
}

// IMAPSettings holds the fields of an imap protocol connection.
type IMAPSettings struct {
	Host   string
	Port   int
	UseTLS bool
}

// Connection describes how the backend reaches the provider. Exactly one of
// API or IMAP is set, matching Protocol.
type Connection struct {
	Protocol Protocol
	API      *APISettings
	IMAP     *IMAPSettings
}

// APIConnection builds an api protocol connection.
func APIConnection(baseURL string) Connection {
	return Connection{Protocol: ProtocolAPI, API: &APISettings{BaseURL: baseURL}}
}

// IMAPConnection builds an imap protocol connection.
func IMAPConnection(host string, port int, useTLS bool) Connection {
	return Connection{
		Protocol: ProtocolIMAP,
		IMAP:     &IMAPSettings{Host: host, Port: port, UseTLS: useTLS},
	}
}

// Clone returns a deep copy.
func (c Connection) Clone() Connection {
	out := Connection{Protocol: c.Protocol}
	if c.API != nil {
		api := *c.API
		out.API = &api
	}
	if c.IMAP != nil {
		imap := *c.IMAP
		out.IMAP = &imap
	}
	return out
}

type connectionWire struct {
	Protocol   Protocol `json:"protocol"`
	Host       string   `json:"host,omitempty"`
	Port       int      `json:"port,omitempty"`
	UseTLS     *bool    `json:"useTls,omitempty"`
	APIBaseURL string   `json:"apiBaseUrl,omitempty"`
}

func (c Connection) MarshalJSON() ([]byte, error) {
	wire := connectionWire{Protocol: c.Protocol}
	switch c.Protocol {
	case ProtocolAPI:
		if c.API != nil {
			wire.APIBaseURL = c.API.BaseURL
		}
	case ProtocolIMAP:
		if c.IMAP != nil {
			useTLS := c.IMAP.UseTLS
			wire.Host = c.IMAP.Host
			wire.Port = c.IMAP.Port
			wire.UseTLS = &useTLS
		}
	}
	return json.Marshal(wire)
}

func (c *Connection) UnmarshalJSON(data []byte) error {
	var wire connectionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Protocol {
	case ProtocolAPI:
		*c = APIConnection(wire.APIBaseURL)
	case ProtocolIMAP:
		useTLS := false
		if wire.UseTLS != nil {
			useTLS = *wire.UseTLS
		}
		*c = IMAPConnection(wire.Host, wire.Port, useTLS)
	default:
		return fmt.Errorf("unknown connection protocol %q", wire.Protocol)
	}
	return nil
}

// ProviderConfig is the provider level configuration accepted by the backend.
type ProviderConfig struct {
	Provider        Provider   `json:"provider"`
	DisplayName     string     `json:"displayName"`
	Connection      Connection `json:"connection"`
	SyncWindowHours uint       `json:"syncWindowHours"`
	LabelFilters    []string   `json:"labelFilters"`
}

// Clone returns a deep copy.
func (c ProviderConfig) Clone() ProviderConfig {
	out := c
	out.Connection = c.Connection.Clone()
	out.LabelFilters = append([]string(nil), c.LabelFilters...)
	return out
}

// AuthState reports the server side authentication metadata.
type AuthState struct {
	Method    AuthMethod `json:"method"`
	Username  string     `json:"username,omitempty"`
	Status    string     `json:"status"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ProviderState is the server-reflected integration snapshot.
type ProviderState struct {
	Config          *ProviderConfig `json:"config,omitempty"`
	Auth            *AuthState      `json:"auth,omitempty"`
	LastSync        *time.Time      `json:"lastSync,omitempty"`
	MessagesFetched uint            `json:"messagesFetched"`
}

// AuthRequest is the body of POST /api/email/provider/authenticate. Only the
// secret field matching Method is populated.
type AuthRequest struct {
	Method      AuthMethod `json:"method"`
	Username    string     `json:"username"`
	AppPassword string     `json:"appPassword,omitempty"`
	OAuthToken  string     `json:"oauthToken,omitempty"`
}

// Message is a fetched email. Read only.
type Message struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	Sender     string    `json:"sender"`
	ReceivedAt time.Time `json:"receivedAt"`
	Snippet    string    `json:"snippet"`
	Labels     []string  `json:"labels"`
	Importance string    `json:"importance"`
}

// MessagesResponse is returned by GET /api/email/messages.
type MessagesResponse struct {
	Messages []Message  `json:"messages"`
	SyncedAt *time.Time `json:"syncedAt,omitempty"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
