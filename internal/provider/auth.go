package provider

import (
	"errors"
	"strings"
	"time"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/log"
)

// AuthStatus is the lifecycle state of an Auth manager.
type AuthStatus int

const (
	Unauthenticated AuthStatus = iota
	Authenticating
	Authenticated
	AuthFailed
)

func (s AuthStatus) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case AuthFailed:
		return "failed"
	default:
		return "unauthenticated"
	}
}

// TimestampLayout is used for every timestamp shown to the operator.
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders t in local time, or an em dash when unset.
func FormatTimestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "—"
	}
	return t.Local().Format(TimestampLayout)
}

// ConnectedStatus is the status line shown after a successful authentication.
func ConnectedStatus(updatedAt time.Time) string {
	return "Connected • updated " + FormatTimestamp(&updatedAt)
}

// Submission identifies one credential submission.
type Submission struct {
	Method     api.AuthMethod
	Generation uint64
}

// Auth tracks the credential form and the outcome of the latest submission.
// The secret is held only until it is sent or the method changes.
type Auth struct {
	method     api.AuthMethod
	username   string
	secret     string
	status     AuthStatus
	statusText string
	err        string
	generation uint64
	inFlight   bool
}

func NewAuth() *Auth {
	return &Auth{method: api.AuthMethodOAuth}
}

// SelectMethod switches the credential flow and discards any entered secret.
func (a *Auth) SelectMethod(method api.AuthMethod) {
	if a.secret != "" {
		log.Printf("auth discard secret on method change %s -> %s", a.method, method)
	}
	a.method = method
	a.secret = ""
}

func (a *Auth) SetUsername(username string) {
	a.username = username
}

func (a *Auth) SetSecret(secret string) {
	a.secret = secret
}

// Sync mirrors server state into the form. Without server side auth the
// method follows the configured provider.
func (a *Auth) Sync(state *api.ProviderState) {
	if state == nil {
		return
	}
	if state.Auth != nil {
		a.method = state.Auth.Method
		a.username = state.Auth.Username
		a.status = Authenticated
		a.statusText = ConnectedStatus(state.Auth.UpdatedAt)
		return
	}
	method := api.AuthMethodAppPassword
	if state.Config != nil {
		method = PreferredAuthMethod(state.Config.Provider)
	}
	if method != a.method {
		a.SelectMethod(method)
	}
	a.status = Unauthenticated
	a.statusText = ""
}

// Begin validates the form and returns the request to send. Only the secret
// field matching the selected method is populated.
func (a *Auth) Begin() (Submission, api.AuthRequest, error) {
	if strings.TrimSpace(a.username) == "" {
		return Submission{}, api.AuthRequest{}, &ValidationError{Field: "username", Reason: "is required"}
	}
	if a.secret == "" {
		return Submission{}, api.AuthRequest{}, &ValidationError{Field: "secret", Reason: "is required"}
	}
	req := api.AuthRequest{Method: a.method, Username: a.username}
	switch a.method {
	case api.AuthMethodOAuth:
		req.OAuthToken = a.secret
	case api.AuthMethodAppPassword:
		req.AppPassword = a.secret
	default:
		return Submission{}, api.AuthRequest{}, &ValidationError{Field: "method", Reason: "unknown method " + string(a.method)}
	}

	a.generation++
	a.inFlight = true
	a.status = Authenticating
	a.err = ""
	log.Printf("auth submit method=%s user=%s gen=%d", a.method, a.username, a.generation)
	return Submission{Method: a.method, Generation: a.generation}, req, nil
}

// Succeed applies the server state returned for sub. Stale submissions are
// dropped and false is returned.
func (a *Auth) Succeed(sub Submission, state *api.ProviderState) bool {
	if !a.current(sub) {
		return false
	}
	a.inFlight = false
	a.status = Authenticated
	a.secret = ""
	a.err = ""
	updatedAt := time.Time{}
	if state != nil && state.Auth != nil {
		a.method = state.Auth.Method
		a.username = state.Auth.Username
		updatedAt = state.Auth.UpdatedAt
	}
	a.statusText = ConnectedStatus(updatedAt)
	log.Printf("auth ok method=%s gen=%d", a.method, sub.Generation)
	return true
}

// Fail records the error for sub. A previously shown connected status is
// left as is.
func (a *Auth) Fail(sub Submission, err error) bool {
	if !a.current(sub) {
		return false
	}
	a.inFlight = false
	a.status = AuthFailed
	a.err = api.ErrorMessage(err)
	if a.err == "" {
		a.err = "Authentication failed"
	}
	log.Printf("auth failed gen=%d err=%v", sub.Generation, err)
	return true
}

func (a *Auth) current(sub Submission) bool {
	if sub.Generation != a.generation || !a.inFlight {
		log.Printf("auth drop stale gen=%d current=%d", sub.Generation, a.generation)
		return false
	}
	return true
}

func (a *Auth) Method() api.AuthMethod { return a.method }
func (a *Auth) Username() string       { return a.username }
func (a *Auth) Secret() string         { return a.secret }
func (a *Auth) Status() AuthStatus     { return a.status }
func (a *Auth) StatusText() string     { return a.statusText }
func (a *Auth) Err() string            { return a.err }
func (a *Auth) InFlight() bool         { return a.inFlight }

// IntegrationStatus summarizes the provider state in one phrase.
func IntegrationStatus(loading bool, state *api.ProviderState) string {
	switch {
	case loading && state == nil:
		return "Loading…"
	case state == nil || state.Config == nil:
		return "Not configured"
	case state.Auth != nil && state.Auth.Method == api.AuthMethodOAuth:
		return "Connected via OAuth"
	case state.Auth != nil:
		return "Connected via app password"
	default:
		return "Awaiting authentication"
	}
}

// IsValidation reports whether err was raised locally before any request.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
