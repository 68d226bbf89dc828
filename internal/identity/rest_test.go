package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/careerconnect/client/internal/api"
)

// toolkitStub serves the handful of identity toolkit endpoints the provider
// talks to. Handlers are keyed by path.
func toolkitStub(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, h := range handlers {
		mux.HandleFunc(path, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func toolkitError(w http.ResponseWriter, code string) {
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"message": code},
	})
}

func TestSignInLooksUpVerificationStatus(t *testing.T) {
	var gotKey string
	srv := toolkitStub(t, map[string]http.HandlerFunc{
		"/v1/accounts:signInWithPassword": func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.URL.Query().Get("key")
			json.NewEncoder(w).Encode(map[string]string{
				"localId":      "u1",
				"email":        "u1@example.com",
				"idToken":      "id-token",
				"refreshToken": "refresh-token",
				"expiresIn":    "3600",
			})
		},
		"/v1/accounts:lookup": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"users": []map[string]interface{}{
					{"localId": "u1", "email": "u1@example.com", "emailVerified": true},
				},
			})
		},
	})

	p := NewRESTProvider(srv.URL, "web-api-key")

	ident, err := p.SignIn(context.Background(), "u1@example.com", "secret")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if ident.UID != "u1" || !ident.EmailVerified {
		t.Fatalf("unexpected identity %+v", ident)
	}
	if gotKey != "web-api-key" {
		t.Fatalf("expected API key in query, got %q", gotKey)
	}
	if p.RefreshToken() != "refresh-token" {
		t.Fatalf("refresh token not adopted, got %q", p.RefreshToken())
	}

	token, err := p.Token(context.Background())
	if err != nil || token != "id-token" {
		t.Fatalf("expected cached id token, got %q err %v", token, err)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	srv := toolkitStub(t, map[string]http.HandlerFunc{
		"/v1/accounts:signUp": func(w http.ResponseWriter, r *http.Request) {
			toolkitError(w, "EMAIL_EXISTS")
		},
	})

	p := NewRESTProvider(srv.URL, "key")

	_, err := p.SignUp(context.Background(), "taken@example.com", "secret")
	if !errors.Is(err, api.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestSignUpWeakPassword(t *testing.T) {
	srv := toolkitStub(t, map[string]http.HandlerFunc{
		"/v1/accounts:signUp": func(w http.ResponseWriter, r *http.Request) {
			toolkitError(w, "WEAK_PASSWORD : Password should be at least 6 characters")
		},
	})

	p := NewRESTProvider(srv.URL, "key")

	_, err := p.SignUp(context.Background(), "new@example.com", "123")
	if !errors.Is(err, api.ErrWeakCredential) {
		t.Fatalf("expected ErrWeakCredential, got %v", err)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	srv := toolkitStub(t, map[string]http.HandlerFunc{
		"/v1/accounts:signInWithPassword": func(w http.ResponseWriter, r *http.Request) {
			toolkitError(w, "INVALID_LOGIN_CREDENTIALS")
		},
	})

	p := NewRESTProvider(srv.URL, "key")

	_, err := p.SignIn(context.Background(), "u1@example.com", "wrong")
	if !api.IsAuthError(err) {
		t.Fatalf("expected AuthError, got %v", err)
	}
}

func TestResumeDeadRefreshToken(t *testing.T) {
	srv := toolkitStub(t, map[string]http.HandlerFunc{
		"/v1/token": func(w http.ResponseWriter, r *http.Request) {
			toolkitError(w, "INVALID_REFRESH_TOKEN")
		},
	})

	p := NewRESTProvider(srv.URL, "key")

	if _, err := p.Resume(context.Background(), "stale"); !errors.Is(err, api.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := p.Resume(context.Background(), ""); !errors.Is(err, api.ErrNotAuthenticated) {
		t.Fatalf("empty token: expected ErrNotAuthenticated, got %v", err)
	}
}

func TestTokenWithoutSession(t *testing.T) {
	p := NewRESTProvider("http://127.0.0.1:0", "key")

	if _, err := p.Token(context.Background()); !errors.Is(err, api.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestUnknownProviderCodeBecomesServerError(t *testing.T) {
	srv := toolkitStub(t, map[string]http.HandlerFunc{
		"/v1/accounts:signUp": func(w http.ResponseWriter, r *http.Request) {
			toolkitError(w, "QUOTA_EXCEEDED")
		},
	})

	p := NewRESTProvider(srv.URL, "key")

	_, err := p.SignUp(context.Background(), "x@example.com", "secret")
	if api.Reason(err) != "QUOTA_EXCEEDED" {
		t.Fatalf("expected code preserved, got %v", err)
	}
}

func TestSignOutNotifiesListeners(t *testing.T) {
	srv := toolkitStub(t, map[string]http.HandlerFunc{
		"/v1/accounts:signInWithPassword": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{
				"localId":      "u1",
				"email":        "u1@example.com",
				"idToken":      "id-token",
				"refreshToken": "refresh-token",
				"expiresIn":    "3600",
			})
		},
		"/v1/accounts:lookup": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"users": []map[string]interface{}{
					{"localId": "u1", "email": "u1@example.com", "emailVerified": true},
				},
			})
		},
	})

	p := NewRESTProvider(srv.URL, "key")

	var events []*Identity
	p.OnChange(func(ident *Identity) { events = append(events, ident) })

	if _, err := p.SignIn(context.Background(), "u1@example.com", "secret"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	p.SignOut()

	if len(events) != 2 {
		t.Fatalf("expected sign-in and sign-out events, got %d", len(events))
	}
	if events[0] == nil || events[0].UID != "u1" {
		t.Fatalf("unexpected sign-in event %+v", events[0])
	}
	if events[1] != nil {
		t.Fatal("sign-out event should carry a nil identity")
	}

	if p.RefreshToken() != "" {
		t.Fatal("sign-out must clear the refresh token")
	}
	if _, err := p.Token(context.Background()); !errors.Is(err, api.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated after sign-out, got %v", err)
	}
}
