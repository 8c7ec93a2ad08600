package api

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError is a failed request: either a non-2xx response or a network
// failure (Status 0). Message is what gets shown to the operator.
type TransportError struct {
	Endpoint string
	Status   int
	Message  string
	Err      error
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func newStatusError(endpoint string, status int, body string) *TransportError {
	message := strings.TrimSpace(body)
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &TransportError{Endpoint: endpoint, Status: status, Message: message}
}

// ErrorMessage reduces err to the string shown in a panel. Transport errors
// keep the body text verbatim.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "unknown error"
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Status
	}
	return 0
}
