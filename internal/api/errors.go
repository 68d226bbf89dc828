package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions the caller branches on.
var (
	// ErrNotAuthenticated indicates an operation was attempted without a
	// usable session.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrDuplicateIdentity indicates the email is already registered with
	// the identity provider.
	ErrDuplicateIdentity = errors.New("email already registered")

	// ErrWeakCredential indicates the password failed provider policy.
	ErrWeakCredential = errors.New("password does not meet requirements")

	// ErrEmailNotVerified indicates sign-in succeeded at the provider but
	// the email address has not been verified yet.
	ErrEmailNotVerified = errors.New("email address not verified")
)

// AuthError indicates the provider or backend rejected the caller's
// credentials or token.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Message
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// TransportError wraps a network-level failure (connection refused, timeout,
// DNS). The previous local state should be kept when one occurs.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportError reports whether err is a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// ServerError carries a 4xx/5xx response with the backend's human-readable
// reason, surfaced to the user verbatim.
type ServerError struct {
	Status int
	Reason string
}

func (e *ServerError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("server rejected request (%d)", e.Status)
}

// IsServerError reports whether err is a ServerError.
func IsServerError(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

// Reason extracts the server-provided reason from err, or err's own message
// when no ServerError is present.
func Reason(err error) string {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Error()
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// ProfileRegistrationError indicates the identity was created but the
// backend profile registration failed, leaving a profile-less identity.
// The inconsistency must be surfaced, never swallowed.
type ProfileRegistrationError struct {
	Err error
}

func (e *ProfileRegistrationError) Error() string {
	return fmt.Sprintf("account created but profile registration failed: %v", e.Err)
}

func (e *ProfileRegistrationError) Unwrap() error { return e.Err }

// IsProfileRegistrationError reports whether err is a ProfileRegistrationError.
func IsProfileRegistrationError(err error) bool {
	var pe *ProfileRegistrationError
	return errors.As(err, &pe)
}
