// Package session owns the authenticated identity, the cached profile
// record, and the email-verification gate. A session moves through three
// states: Anonymous, PendingVerification (identity exists, email not
// verified) and Active. Only Active sessions can reach role-gated views.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/careerconnect/client/internal/api"
	"github.com/careerconnect/client/internal/identity"
	"github.com/careerconnect/client/internal/model"
)

// State is the session lifecycle state.
type State int

const (
	Anonymous State = iota
	PendingVerification
	Active
)

// String returns the state name for display and diagnostics.
func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case PendingVerification:
		return "pending-verification"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the session at one instant. Views read
// snapshots; they never mutate session state directly.
type Snapshot struct {
	State State

	// Identity is the provider-side account record, nil when Anonymous.
	Identity *identity.Identity

	// Profile is the backend profile, nil until fetched.
	Profile *model.Profile

	// VerificationRequired is true iff an identity exists whose email is
	// not verified.
	VerificationRequired bool

	// ProfileError carries a profile fetch/registration inconsistency
	// (identity exists but the backend record is missing or unreadable).
	// Surfaced to the user, never silently dropped.
	ProfileError error
}

// Role returns the profile role, or "" when no profile is loaded.
func (s Snapshot) Role() model.Role {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Role
}

// ProfileService is the slice of the backend API the manager needs.
type ProfileService interface {
	Register(ctx context.Context, reg api.RegisterProfile) error
	Profile(ctx context.Context) (model.Profile, error)
}

// CredentialStore persists the provider refresh token between runs.
type CredentialStore interface {
	RefreshToken() (string, error)
	StoreRefreshToken(token string) error
	ClearRefreshToken() error
}

// RoleAttributes carries the registration form fields beyond credentials.
type RoleAttributes struct {
	Role            model.Role
	DisplayName     string
	Phone           string
	InstitutionName string
	CompanyName     string
}

// Manager owns the session. All mutation goes through its methods; views
// receive Snapshot copies via Current.
type Manager struct {
	provider identity.Provider
	profiles ProfileService
	creds    CredentialStore

	mu         sync.Mutex
	ident      *identity.Identity
	profile    *model.Profile
	profileErr error
}

// NewManager constructs a session manager. The credential store may be nil,
// in which case sessions do not survive restarts.
func NewManager(provider identity.Provider, profiles ProfileService, creds CredentialStore) *Manager {
	if provider == nil {
		panic("session: identity provider must not be nil")
	}
	m := &Manager{
		provider: provider,
		profiles: profiles,
		creds:    creds,
	}

	// Track out-of-band identity changes (e.g. a reload observing that
	// verification completed elsewhere).
	provider.OnChange(func(ident *identity.Identity) {
		m.mu.Lock()
		m.ident = ident
		if ident == nil {
			m.profile = nil
			m.profileErr = nil
		}
		m.mu.Unlock()
	})

	return m
}

// SetProfileService installs the backend profile service after
// construction. The manager and the API client reference each other (the
// client reads tokens from the manager), so one side must be wired late.
// Must be called before any sign-in or resume.
func (m *Manager) SetProfileService(profiles ProfileService) {
	m.mu.Lock()
	m.profiles = profiles
	m.mu.Unlock()
}

// Current returns the session snapshot.
func (m *Manager) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{State: Anonymous, ProfileError: m.profileErr}

	if m.ident != nil {
		ident := *m.ident
		snap.Identity = &ident
		if ident.EmailVerified {
			snap.State = Active
		} else {
			snap.State = PendingVerification
			snap.VerificationRequired = true
		}
	}

	if m.profile != nil {
		profile := *m.profile
		snap.Profile = &profile
	}

	return snap
}

// SignUp creates an identity, sends the verification mail, and registers
// the backend profile tagged with the chosen role. When profile
// registration fails after the identity was created, the identity exists
// but is profile-less; this is reported as a ProfileRegistrationError and
// also recorded on the snapshot.
func (m *Manager) SignUp(ctx context.Context, email, password string, attrs RoleAttributes) error {
	if !attrs.Role.IsValid() {
		return errors.New("a valid role must be chosen")
	}

	ident, err := m.provider.SignUp(ctx, email, password)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.ident = &ident
	m.profile = nil
	m.profileErr = nil
	m.mu.Unlock()

	m.persistRefreshToken()

	if err := m.provider.SendVerificationEmail(ctx); err != nil {
		// The identity exists; the user can resend from the verify view.
		m.mu.Lock()
		m.profileErr = err
		m.mu.Unlock()
	}

	reg := api.RegisterProfile{
		UID:             ident.UID,
		Email:           email,
		UserType:        string(attrs.Role),
		DisplayName:     displayNameFor(attrs, email),
		Phone:           attrs.Phone,
		InstitutionName: attrs.InstitutionName,
		CompanyName:     attrs.CompanyName,
	}
	if err := m.profiles.Register(ctx, reg); err != nil {
		regErr := &api.ProfileRegistrationError{Err: err}
		m.mu.Lock()
		m.profileErr = regErr
		m.mu.Unlock()
		return regErr
	}

	return nil
}

// displayNameFor resolves the display name the way the registration form
// does: organization name for owner roles, falling back to the mailbox.
func displayNameFor(attrs RoleAttributes, email string) string {
	switch attrs.Role {
	case model.RoleInstitution:
		if attrs.InstitutionName != "" {
			return attrs.InstitutionName
		}
	case model.RoleCompany:
		if attrs.CompanyName != "" {
			return attrs.CompanyName
		}
	case model.RoleStudent, model.RoleAdmin:
	}
	if attrs.DisplayName != "" {
		return attrs.DisplayName
	}
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return email[:i]
		}
	}
	return email
}

// SignIn authenticates and, when the email is verified, loads the profile
// and activates the session. An unverified identity leaves the session in
// PendingVerification and returns api.ErrEmailNotVerified; no usable
// session is established.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	ident, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.ident = &ident
	m.profile = nil
	m.profileErr = nil
	m.mu.Unlock()

	m.persistRefreshToken()

	if !ident.EmailVerified {
		return api.ErrEmailNotVerified
	}

	return m.loadProfile(ctx)
}

// SignOut clears the session synchronously. It never fails, even without a
// session.
func (m *Manager) SignOut() {
	m.provider.SignOut()

	m.mu.Lock()
	m.ident = nil
	m.profile = nil
	m.profileErr = nil
	m.mu.Unlock()

	if m.creds != nil {
		_ = m.creds.ClearRefreshToken()
	}
}

// Refresh re-reads the verification status from the provider and re-fetches
// the profile. Used after an out-of-band verification event ("I've clicked
// the link").
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	hasIdent := m.ident != nil
	m.mu.Unlock()
	if !hasIdent {
		return api.ErrNotAuthenticated
	}

	ident, err := m.provider.Reload(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.ident = &ident
	m.mu.Unlock()

	if !ident.EmailVerified {
		return nil
	}
	return m.loadProfile(ctx)
}

// ResendVerification asks the provider to send the verification mail again.
// Idempotent; it never re-registers the profile.
func (m *Manager) ResendVerification(ctx context.Context) error {
	m.mu.Lock()
	hasIdent := m.ident != nil
	m.mu.Unlock()
	if !hasIdent {
		return api.ErrNotAuthenticated
	}
	return m.provider.SendVerificationEmail(ctx)
}

// Resume restores a session from the persisted refresh token, if any.
// Returns api.ErrNotAuthenticated when nothing was persisted.
func (m *Manager) Resume(ctx context.Context) error {
	if m.creds == nil {
		return api.ErrNotAuthenticated
	}
	refresh, err := m.creds.RefreshToken()
	if err != nil || refresh == "" {
		return api.ErrNotAuthenticated
	}

	ident, err := m.provider.Resume(ctx, refresh)
	if err != nil {
		// A dead token is useless; forget it.
		_ = m.creds.ClearRefreshToken()
		return err
	}

	m.mu.Lock()
	m.ident = &ident
	m.mu.Unlock()

	m.persistRefreshToken()

	if !ident.EmailVerified {
		return nil
	}
	return m.loadProfile(ctx)
}

// Token implements api.TokenSource for the work-item store and the
// notification poller. Only Active sessions yield tokens.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	usable := m.ident != nil && m.ident.EmailVerified
	m.mu.Unlock()
	if !usable {
		return "", api.ErrNotAuthenticated
	}
	return m.provider.Token(ctx)
}

// SetProfile replaces the cached profile after a successful profile edit.
func (m *Manager) SetProfile(profile model.Profile) {
	m.mu.Lock()
	m.profile = &profile
	m.profileErr = nil
	m.mu.Unlock()
}

// loadProfile fetches the backend profile for a verified identity. A
// missing profile is recorded as a ProfileRegistrationError on the
// snapshot and returned; the session stays Active so the user can see and
// report the inconsistency, but role-gated views stay closed.
func (m *Manager) loadProfile(ctx context.Context) error {
	profile, err := m.profiles.Profile(ctx)
	if err != nil {
		regErr := err
		if api.IsServerError(err) {
			regErr = &api.ProfileRegistrationError{Err: err}
		}
		m.mu.Lock()
		m.profile = nil
		m.profileErr = regErr
		m.mu.Unlock()
		return regErr
	}

	m.mu.Lock()
	m.profile = &profile
	m.profileErr = nil
	m.mu.Unlock()
	return nil
}

// persistRefreshToken stores the provider refresh token for session resume.
func (m *Manager) persistRefreshToken() {
	if m.creds == nil {
		return
	}
	if refresh := m.provider.RefreshToken(); refresh != "" {
		_ = m.creds.StoreRefreshToken(refresh)
	}
}
