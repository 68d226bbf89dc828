// Package identity defines the capability boundary to the external identity
// provider: account creation, password sign-in, email verification, and
// bearer-token issuance. Any compliant provider satisfies the session
// manager's needs; the REST implementation targets a Firebase-style
// identity toolkit API.
package identity

import "context"

// Identity is a snapshot of the authenticated account as known to the
// provider. EmailVerified is re-read on Reload.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
}

// Provider is the identity-provider capability interface.
type Provider interface {
	// SignUp creates a new identity and returns its snapshot. Fails with
	// api.ErrDuplicateIdentity when the email is taken and
	// api.ErrWeakCredential when the password fails provider policy.
	SignUp(ctx context.Context, email, password string) (Identity, error)

	// SignIn authenticates with email and password. Verification status
	// is reported in the snapshot; enforcing it is the session manager's
	// job.
	SignIn(ctx context.Context, email, password string) (Identity, error)

	// SignOut drops the provider-side session state. Never fails; calling
	// it without a session is a no-op.
	SignOut()

	// SendVerificationEmail asks the provider to (re)send the
	// verification mail for the current identity. Idempotent. Fails with
	// api.ErrNotAuthenticated when no identity is pending.
	SendVerificationEmail(ctx context.Context) error

	// Reload re-reads the identity snapshot from the provider, picking up
	// out-of-band changes such as a completed email verification.
	Reload(ctx context.Context) (Identity, error)

	// Token returns a valid bearer token for the current identity,
	// refreshing it transparently when close to expiry. Fails with
	// api.ErrNotAuthenticated when signed out.
	Token(ctx context.Context) (string, error)

	// RefreshToken returns the long-lived refresh token, or "" when
	// signed out. Persisted in the keyring so sessions survive restarts.
	RefreshToken() string

	// Resume restores a session from a persisted refresh token.
	Resume(ctx context.Context, refreshToken string) (Identity, error)

	// OnChange registers a callback invoked after every identity change
	// (sign-in, sign-out, reload). A nil identity means signed out.
	OnChange(fn func(*Identity))
}
