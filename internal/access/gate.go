// Package access decides whether the current session may see a protected
// view. Evaluate is a pure function of the latest session snapshot; the
// decision is never cached across renders.
package access

import (
	"github.com/careerconnect/client/internal/model"
	"github.com/careerconnect/client/internal/session"
)

// Decision is the outcome of an access check.
type Decision int

const (
	// Allow renders the requested view.
	Allow Decision = iota

	// RedirectLogin sends an anonymous user to the login view.
	RedirectLogin

	// RedirectVerify sends an unverified user to the email-verification
	// view. Takes priority over role mismatch.
	RedirectVerify

	// RedirectHome sends a verified user whose role is not admitted back
	// to the home view.
	RedirectHome
)

// String returns the decision name for diagnostics.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectVerify:
		return "redirect-verify"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Evaluate checks the session against the view's role requirements. The
// branch order is load-bearing: anonymous before unverified, unverified
// before role mismatch. An empty requiredRoles admits every Active session.
func Evaluate(snap session.Snapshot, requiredRoles ...model.Role) Decision {
	if snap.State == session.Anonymous {
		return RedirectLogin
	}
	if snap.State == session.PendingVerification {
		return RedirectVerify
	}
	if len(requiredRoles) > 0 {
		role := snap.Role()
		for _, required := range requiredRoles {
			if role == required {
				return Allow
			}
		}
		return RedirectHome
	}
	return Allow
}
