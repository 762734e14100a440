package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError is a client-side precondition failure. No network call
// was attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

// AuthError means the token is missing or the backend rejected it (401).
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return e.Reason
}

// RequestError means the backend rejected the request as malformed (400).
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("invalid request (HTTP %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("invalid request (HTTP %d)", e.Status)
}

// ConnectivityError covers network failures, non-parseable responses, and
// any other non-2xx status.
type ConnectivityError struct {
	Status int // 0 when the request never reached the backend
	Err    error
}

func (e *ConnectivityError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("server error (HTTP %d)", e.Status)
	}
	return fmt.Sprintf("could not connect to the server: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// Domain failures the backend reports through its "detail" field. These
// are outcomes, not faults: the form returns to a resubmittable state.
var (
	ErrCredentialMismatch = errors.New("email and password do not match")
	ErrEmailExists        = errors.New("an account with this email already exists")
)

// classifyStatus converts a non-2xx status into the matching error type.
func classifyStatus(status int, detail string) error {
	switch status {
	case http.StatusUnauthorized:
		return &AuthError{Reason: "authentication failed, please login again"}
	case http.StatusBadRequest:
		return &RequestError{Status: status, Detail: detail}
	default:
		return &ConnectivityError{Status: status}
	}
}

// UserMessage renders err as a short human-readable notice. The chat
// controller uses this for inline synthetic messages; commands use it for
// their final output.
func UserMessage(err error) string {
	var authErr *AuthError
	var reqErr *RequestError
	switch {
	case errors.As(err, &authErr):
		return "Authentication error. Please login again."
	case errors.As(err, &reqErr):
		return "Invalid request. Please check your input."
	default:
		return "Error: Could not connect to the server."
	}
}
