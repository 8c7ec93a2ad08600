package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 0)
}

func TestClient_Dashboard(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, EndpointDashboard, r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `{
			"summary": {"inboxZeroTarget": 25, "currentInbox": 140, "automationRate": 0.62, "timeSavedMinutes": 95},
			"focusSessions": [{"id": "focus-urgent", "label": "Urgent", "estimated": 45, "emails": 18, "llmSupport": true}],
			"queues": [{"id": "vip", "label": "VIP", "count": 4, "llmEnabled": true}],
			"recommendations": []
		}`)
	})

	res, err := c.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, 115, res.Summary.FocusPotential())
	require.Len(t, res.FocusSessions, 1)
	session := res.FocusSessions[0]
	require.Equal(t, 45, session.EstimatedMinutes)
	require.Equal(t, 18, session.EmailCount)
	require.True(t, session.LLMAssisted)
	require.Equal(t, 4, res.Queues[0].Count)
}

func TestClient_ErrorUsesBodyText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "templateId is required", http.StatusBadRequest)
	})

	_, err := c.RunAutomationTest(context.Background(), "", nil)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	require.Equal(t, http.StatusBadRequest, te.Status)
	require.Equal(t, "templateId is required", te.Message)
	require.Equal(t, EndpointTestRun, te.Endpoint)
	require.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestClient_ErrorSynthesizedWhenBodyEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.FocusPlan(context.Background())
	require.EqualError(t, err, "request failed with status 503")
	require.Equal(t, "request failed with status 503", ErrorMessage(err))
}

func TestClient_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>")
	})

	_, err := c.Automations(context.Background())
	var te *TransportError
	require.True(t, errors.As(err, &te))
	require.Equal(t, http.StatusOK, te.Status)
	require.Contains(t, te.Message, "invalid response")
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewClient(srv.URL, time.Second).Health(context.Background())
	var te *TransportError
	require.True(t, errors.As(err, &te))
	require.Zero(t, te.Status)
	require.NotEmpty(t, te.Message)
}

func TestClient_RunAutomationTest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body TestRunRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "auto-ack", body.TemplateID)
		require.Equal(t, "vip", body.Parameters["queue"])

		_ = json.NewEncoder(w).Encode(TestRunResponse{
			TemplateID: body.TemplateID,
			Status:     "simulated",
			Summary:    "3 emails would be acknowledged",
			Parameters: body.Parameters,
			Review:     TestRunReview{RequiresApproval: true, Confidence: 0.82},
		})
	})

	res, err := c.RunAutomationTest(context.Background(), "auto-ack", map[string]any{"queue": "vip"})
	require.NoError(t, err)
	require.Equal(t, "simulated", res.Status)
	require.True(t, res.Review.RequiresApproval)
	require.InDelta(t, 0.82, res.Review.Confidence, 0.0001)
}

func TestClient_SaveProviderConfigWireShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, EndpointProvider, r.URL.Path)
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		conn := raw["connection"].(map[string]any)
		require.Equal(t, "imap", conn["protocol"])
		require.Equal(t, "imap.example.com", conn["host"])
		require.InDelta(t, 993, conn["port"], 0)
		require.Equal(t, true, conn["useTls"])
		require.NotContains(t, conn, "apiBaseUrl")
		require.InDelta(t, 0, raw["syncWindowHours"], 0)

		_, _ = io.WriteString(w, `{
			"config": {
				"provider": "imap",
				"displayName": "IMAP automation inbox",
				"connection": {"protocol": "imap", "host": "imap.example.com", "port": 993, "useTls": true},
				"syncWindowHours": 0,
				"labelFilters": ["INBOX"]
			},
			"messagesFetched": 0
		}`)
	})

	cfg := ProviderConfig{
		Provider:     ProviderIMAP,
		DisplayName:  "IMAP automation inbox",
		Connection:   IMAPConnection("imap.example.com", 993, true),
		LabelFilters: []string{"INBOX"},
	}
	state, err := c.SaveProviderConfig(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, cfg, *state.Config)
	require.Nil(t, state.Auth)
	require.Nil(t, state.LastSync)
}

func TestClient_AuthenticateSendsOneSecret(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		require.Equal(t, "appPassword", raw["method"])
		require.Equal(t, "xxxx-xxxx", raw["appPassword"])
		require.NotContains(t, raw, "oauthToken")

		_, _ = io.WriteString(w, `{
			"auth": {"method": "appPassword", "username": "ops", "status": "connected", "updatedAt": "2025-03-18T14:05:00Z"},
			"messagesFetched": 0
		}`)
	})

	state, err := c.Authenticate(context.Background(), AuthRequest{
		Method:      AuthMethodAppPassword,
		Username:    "ops",
		AppPassword: "xxxx-xxxx",
	})
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 3, 18, 14, 5, 0, 0, time.UTC), state.Auth.UpdatedAt)
}

func TestClient_FetchMessages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{
			"messages": [
				{"id": "m1", "subject": "Invoice", "sender": "billing@example.com", "receivedAt": "2025-03-18T08:00:00Z", "labels": ["INBOX"], "importance": "high"}
			],
			"syncedAt": "2025-03-18T09:00:00Z"
		}`)
	})

	res, err := c.FetchMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	require.Equal(t, []string{"INBOX"}, res.Messages[0].Labels)
	require.NotNil(t, res.SyncedAt)
}

func TestClient_ContextCancel(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Dashboard(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestConnectionJSON(t *testing.T) {
	tests := []struct {
		name string
		conn Connection
		wire string
	}{
		{
			name: "api",
			conn: APIConnection("https://gmail.googleapis.com"),
			wire: `{"protocol":"api","apiBaseUrl":"https://gmail.googleapis.com"}`,
		},
		{
			name: "imap without tls",
			conn: IMAPConnection("mail.corp", 143, false),
			wire: `{"protocol":"imap","host":"mail.corp","port":143,"useTls":false}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.conn)
			require.NoError(t, err)
			require.JSONEq(t, tt.wire, string(data))

			var got Connection
			require.NoError(t, json.Unmarshal([]byte(tt.wire), &got))
			require.Equal(t, tt.conn, got)
		})
	}
}

func TestConnectionJSON_UnknownProtocol(t *testing.T) {
	var c Connection
	require.Error(t, json.Unmarshal([]byte(`{"protocol":"pop3"}`), &c))
}

func TestConnectionClone(t *testing.T) {
	orig := IMAPConnection("mail.corp", 143, false)
	clone := orig.Clone()
	clone.IMAP.Host = "other"
	require.Equal(t, "mail.corp", orig.IMAP.Host)
}
