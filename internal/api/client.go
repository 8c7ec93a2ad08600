package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/ibozctl/internal/log"
)

const (
	EndpointHealth       = "/api/health"
	EndpointDashboard    = "/api/dashboard"
	EndpointFocusPlan    = "/api/focus/plan"
	EndpointAutomations  = "/api/automations"
	EndpointTestRun      = "/api/automations/test-run"
	EndpointProvider     = "/api/email/provider"
	EndpointAuthenticate = "/api/email/provider/authenticate"
	EndpointMessages     = "/api/email/messages"
)

// maxErrorBody caps how much of a failed response body becomes the error message.
const maxErrorBody = 64 << 10

// Client talks to the automation backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the backend rooted at baseURL. A zero
// timeout leaves requests unbounded.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP creates a client that uses the supplied http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET for endpoint and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

// Post issues a POST with a JSON body and decodes the JSON response into out.
func (c *Client) Post(ctx context.Context, endpoint string, body any, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Printf("api %s %s", method, endpoint)
	res, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Message: err.Error(), Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		log.Printf("api %s %s status=%d", method, endpoint, res.StatusCode)
		return newStatusError(endpoint, res.StatusCode, string(text))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &TransportError{
			Endpoint: endpoint,
			Status:   res.StatusCode,
			Message:  fmt.Sprintf("invalid response: %v", err),
			Err:      err,
		}
	}
	return nil
}

// Health checks that the backend is reachable.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.Get(ctx, EndpointHealth, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Dashboard loads the inbox summary, queues, and recommendations.
func (c *Client) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	var out DashboardResponse
	if err := c.Get(ctx, EndpointDashboard, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FocusPlan loads today's focus sessions and controls.
func (c *Client) FocusPlan(ctx context.Context) (*FocusPlanResponse, error) {
	var out FocusPlanResponse
	if err := c.Get(ctx, EndpointFocusPlan, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Automations loads the automation templates.
func (c *Client) Automations(ctx context.Context) (*AutomationsResponse, error) {
	var out AutomationsResponse
	if err := c.Get(ctx, EndpointAutomations, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RunAutomationTest asks the backend to simulate a template.
func (c *Client) RunAutomationTest(
	ctx context.Context,
	templateID string,
	parameters map[string]any,
) (*TestRunResponse, error) {
	var out TestRunResponse
	req := TestRunRequest{TemplateID: templateID, Parameters: parameters}
	if err := c.Post(ctx, EndpointTestRun, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProviderState loads the email provider integration snapshot.
func (c *Client) ProviderState(ctx context.Context) (*ProviderState, error) {
	var out ProviderState
	if err := c.Get(ctx, EndpointProvider, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveProviderConfig stores a provider configuration and returns the new snapshot.
func (c *Client) SaveProviderConfig(ctx context.Context, cfg ProviderConfig) (*ProviderState, error) {
	var out ProviderState
	if err := c.Post(ctx, EndpointProvider, cfg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Authenticate submits credentials and returns the new snapshot.
func (c *Client) Authenticate(ctx context.Context, req AuthRequest) (*ProviderState, error) {
	var out ProviderState
	if err := c.Post(ctx, EndpointAuthenticate, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchMessages pulls the current message batch from the provider.
func (c *Client) FetchMessages(ctx context.Context) (*MessagesResponse, error) {
	var out MessagesResponse
	if err := c.Get(ctx, EndpointMessages, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
