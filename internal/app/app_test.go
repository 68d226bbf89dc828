package app

import (
	"context"
	"testing"
	"time"

	"github.com/careerconnect/client/internal/api"
	"github.com/careerconnect/client/internal/identity"
	"github.com/careerconnect/client/internal/model"
	"github.com/careerconnect/client/internal/notify"
	"github.com/careerconnect/client/internal/session"
	"github.com/careerconnect/client/internal/ui/login"
	"github.com/careerconnect/client/internal/workitems"
	"github.com/careerconnect/client/tests/testutil"
)

// gateProvider is an in-memory identity.Provider for routing tests.
type gateProvider struct {
	ident     *identity.Identity
	refresh   string
	verified  bool
	listeners []func(*identity.Identity)
}

func (f *gateProvider) SignUp(_ context.Context, email, _ string) (identity.Identity, error) {
	ident := identity.Identity{UID: "uid-" + email, Email: email}
	f.ident = &ident
	f.refresh = "refresh-" + email
	return ident, nil
}

func (f *gateProvider) SignIn(_ context.Context, email, _ string) (identity.Identity, error) {
	ident := identity.Identity{UID: "uid-" + email, Email: email, EmailVerified: f.verified}
	f.ident = &ident
	f.refresh = "refresh-" + email
	return ident, nil
}

func (f *gateProvider) SignOut() {
	f.ident = nil
	f.refresh = ""
	for _, fn := range f.listeners {
		fn(nil)
	}
}

func (f *gateProvider) SendVerificationEmail(context.Context) error { return nil }

func (f *gateProvider) Reload(context.Context) (identity.Identity, error) {
	if f.ident == nil {
		return identity.Identity{}, api.ErrNotAuthenticated
	}
	f.ident.EmailVerified = f.verified
	return *f.ident, nil
}

func (f *gateProvider) Token(context.Context) (string, error) {
	if f.ident == nil {
		return "", api.ErrNotAuthenticated
	}
	return "token-" + f.ident.UID, nil
}

func (f *gateProvider) RefreshToken() string { return f.refresh }

func (f *gateProvider) Resume(_ context.Context, refreshToken string) (identity.Identity, error) {
	ident := identity.Identity{UID: "uid-resumed", Email: "resumed@example.com", EmailVerified: f.verified}
	f.ident = &ident
	f.refresh = refreshToken
	return ident, nil
}

func (f *gateProvider) OnChange(fn func(*identity.Identity)) {
	f.listeners = append(f.listeners, fn)
}

// gateProfiles is an in-memory session.ProfileService.
type gateProfiles struct {
	profile model.Profile
}

func (f *gateProfiles) Register(context.Context, api.RegisterProfile) error { return nil }

func (f *gateProfiles) Profile(context.Context) (model.Profile, error) {
	return f.profile, nil
}

// gateCreds is an in-memory session.CredentialStore.
type gateCreds struct {
	token string
}

func (f *gateCreds) RefreshToken() (string, error)    { return f.token, nil }
func (f *gateCreds) StoreRefreshToken(t string) error { f.token = t; return nil }
func (f *gateCreds) ClearRefreshToken() error         { f.token = ""; return nil }

// newTestModel wires a root model over fakes. The API client points at an
// unreachable address; routing tests never touch the network.
func newTestModel(t *testing.T, verified bool, role model.Role) (Model, *session.Manager) {
	t.Helper()

	cache := testutil.NewTestStore(t)
	provider := &gateProvider{verified: verified}
	profiles := &gateProfiles{profile: model.Profile{
		UID:         "uid-x@example.com",
		Email:       "x@example.com",
		DisplayName: "Test User",
		Role:        role,
	}}

	sess := session.NewManager(provider, profiles, &gateCreds{})
	client := api.NewClient("http://127.0.0.1:1", sess)
	items := workitems.New(client, workitems.WithCache(cache))
	center := notify.NewCenter(client, cache)
	poller := notify.NewPoller(center, time.Hour, func() bool { return false })
	t.Cleanup(poller.Stop)

	return New(sess, items, center, poller, client), sess
}

func TestSignedInUnverifiedLandsOnVerify(t *testing.T) {
	m, sess := newTestModel(t, false, model.RoleStudent)
	if err := sess.SignIn(context.Background(), "x@example.com", "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if sess.Current().State != session.PendingVerification {
		t.Fatalf("unexpected session state %v", sess.Current().State)
	}

	next, _ := m.Update(login.SignedInMsg{})
	if got := next.(Model).currentView; got != ViewVerify {
		t.Fatalf("expected verify view, got %v", got)
	}
}

func TestSignedInAnonymousLandsOnLogin(t *testing.T) {
	m, _ := newTestModel(t, true, model.RoleStudent)

	// No sign-in happened; a stray activation must not land anywhere
	// protected.
	next, _ := m.Update(login.SignedInMsg{})
	if got := next.(Model).currentView; got != ViewLogin {
		t.Fatalf("expected login view, got %v", got)
	}
}

func TestSignedInActiveLandsOnRoleHome(t *testing.T) {
	m, sess := newTestModel(t, true, model.RoleAdmin)
	if err := sess.SignIn(context.Background(), "x@example.com", "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	next, _ := m.Update(login.SignedInMsg{})
	if got := next.(Model).currentView; got != ViewAdmin {
		t.Fatalf("expected admin view, got %v", got)
	}
}

func TestResumePendingVerificationRoutesToVerify(t *testing.T) {
	m, sess := newTestModel(t, false, model.RoleStudent)
	if err := sess.SignIn(context.Background(), "x@example.com", "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	next, _ := m.Update(resumeResultMsg{})
	if got := next.(Model).currentView; got != ViewVerify {
		t.Fatalf("expected verify view, got %v", got)
	}
}

func TestResumeAnonymousStaysOnLogin(t *testing.T) {
	m, _ := newTestModel(t, true, model.RoleStudent)

	next, _ := m.Update(resumeResultMsg{})
	if got := next.(Model).currentView; got != ViewLogin {
		t.Fatalf("expected login view, got %v", got)
	}
}
