package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/careerconnect/client/internal/api"
)

// tokenSkew is how long before expiry a cached ID token is refreshed.
const tokenSkew = 2 * time.Minute

// RESTProvider implements Provider against a Firebase-style identity
// toolkit REST API (signUp, signInWithPassword, sendOobCode, lookup,
// token refresh). All provider errors are mapped to the api taxonomy.
type RESTProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu           sync.Mutex
	identity     *Identity
	idToken      string
	tokenExpiry  time.Time
	refreshToken string
	listeners    []func(*Identity)
}

// NewRESTProvider creates a provider rooted at baseURL authenticating with
// the given web API key.
func NewRESTProvider(baseURL, apiKey string) *RESTProvider {
	return &RESTProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// credentialsResponse is returned by signUp and signInWithPassword.
type credentialsResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// lookupResponse is returned by accounts:lookup.
type lookupResponse struct {
	Users []struct {
		LocalID       string `json:"localId"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"emailVerified"`
	} `json:"users"`
}

// refreshResponse is returned by the token endpoint.
type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
	UserID       string `json:"user_id"`
}

// providerError is the identity toolkit error envelope.
type providerError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignUp creates a new identity.
func (p *RESTProvider) SignUp(ctx context.Context, email, password string) (Identity, error) {
	var creds credentialsResponse
	err := p.post(ctx, "/v1/accounts:signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &creds)
	if err != nil {
		return Identity{}, err
	}

	// A fresh sign-up is always unverified.
	ident := Identity{UID: creds.LocalID, Email: creds.Email}
	p.adopt(ident, creds.IDToken, creds.RefreshToken, creds.ExpiresIn)
	return ident, nil
}

// SignIn authenticates with email and password and looks up the current
// verification status.
func (p *RESTProvider) SignIn(ctx context.Context, email, password string) (Identity, error) {
	var creds credentialsResponse
	err := p.post(ctx, "/v1/accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &creds)
	if err != nil {
		return Identity{}, err
	}

	ident, err := p.lookup(ctx, creds.IDToken)
	if err != nil {
		return Identity{}, err
	}

	p.adopt(ident, creds.IDToken, creds.RefreshToken, creds.ExpiresIn)
	return ident, nil
}

// SignOut clears all provider-side state.
func (p *RESTProvider) SignOut() {
	p.mu.Lock()
	p.identity = nil
	p.idToken = ""
	p.tokenExpiry = time.Time{}
	p.refreshToken = ""
	listeners := append([]func(*Identity){}, p.listeners...)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(nil)
	}
}

// SendVerificationEmail requests a verification mail for the current
// identity. Safe to call repeatedly.
func (p *RESTProvider) SendVerificationEmail(ctx context.Context) error {
	token, err := p.Token(ctx)
	if err != nil {
		return err
	}
	return p.post(ctx, "/v1/accounts:sendOobCode", map[string]interface{}{
		"requestType": "VERIFY_EMAIL",
		"idToken":     token,
	}, nil)
}

// Reload re-reads the identity snapshot from the provider.
func (p *RESTProvider) Reload(ctx context.Context) (Identity, error) {
	token, err := p.Token(ctx)
	if err != nil {
		return Identity{}, err
	}

	ident, err := p.lookup(ctx, token)
	if err != nil {
		return Identity{}, err
	}

	p.mu.Lock()
	p.identity = &ident
	listeners := append([]func(*Identity){}, p.listeners...)
	p.mu.Unlock()

	snapshot := ident
	for _, fn := range listeners {
		fn(&snapshot)
	}
	return ident, nil
}

// Token returns a valid ID token, refreshing through the refresh token when
// the cached one is expired or about to expire.
func (p *RESTProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	if p.identity == nil {
		p.mu.Unlock()
		return "", api.ErrNotAuthenticated
	}
	token := p.idToken
	valid := token != "" && time.Now().Before(p.tokenExpiry.Add(-tokenSkew))
	refresh := p.refreshToken
	p.mu.Unlock()

	if valid {
		return token, nil
	}
	if refresh == "" {
		return "", api.ErrNotAuthenticated
	}

	var resp refreshResponse
	err := p.post(ctx, "/v1/token", map[string]interface{}{
		"grant_type":    "refresh_token",
		"refresh_token": refresh,
	}, &resp)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.idToken = resp.IDToken
	p.refreshToken = resp.RefreshToken
	p.tokenExpiry = tokenExpiry(resp.IDToken, resp.ExpiresIn)
	token = p.idToken
	p.mu.Unlock()

	return token, nil
}

// RefreshToken returns the current long-lived refresh token.
func (p *RESTProvider) RefreshToken() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refreshToken
}

// Resume restores a session from a persisted refresh token.
func (p *RESTProvider) Resume(ctx context.Context, refreshToken string) (Identity, error) {
	if refreshToken == "" {
		return Identity{}, api.ErrNotAuthenticated
	}

	var resp refreshResponse
	err := p.post(ctx, "/v1/token", map[string]interface{}{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	}, &resp)
	if err != nil {
		return Identity{}, err
	}

	ident, err := p.lookup(ctx, resp.IDToken)
	if err != nil {
		return Identity{}, err
	}

	p.adopt(ident, resp.IDToken, resp.RefreshToken, resp.ExpiresIn)
	return ident, nil
}

// OnChange registers an identity-change listener.
func (p *RESTProvider) OnChange(fn func(*Identity)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// adopt installs a new identity and token set and notifies listeners.
func (p *RESTProvider) adopt(ident Identity, idToken, refreshToken, expiresIn string) {
	p.mu.Lock()
	p.identity = &ident
	p.idToken = idToken
	p.refreshToken = refreshToken
	p.tokenExpiry = tokenExpiry(idToken, expiresIn)
	listeners := append([]func(*Identity){}, p.listeners...)
	p.mu.Unlock()

	snapshot := ident
	for _, fn := range listeners {
		fn(&snapshot)
	}
}

// lookup fetches the account record behind an ID token.
func (p *RESTProvider) lookup(ctx context.Context, idToken string) (Identity, error) {
	var resp lookupResponse
	err := p.post(ctx, "/v1/accounts:lookup", map[string]interface{}{
		"idToken": idToken,
	}, &resp)
	if err != nil {
		return Identity{}, err
	}
	if len(resp.Users) == 0 {
		return Identity{}, &api.AuthError{Message: "account not found"}
	}

	u := resp.Users[0]
	return Identity{
		UID:           u.LocalID,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
	}, nil
}

// post performs a provider API call and maps failures to the api taxonomy.
func (p *RESTProvider) post(ctx context.Context, path string, body, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling provider request: %w", err)
	}

	url := fmt.Sprintf("%s%s?key=%s", p.baseURL, path, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return &api.TransportError{Op: "POST " + path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &api.TransportError{Op: "POST " + path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapProviderError(respBody, resp.StatusCode)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling provider response from %s: %w", path, err)
	}
	return nil
}

// mapProviderError converts an identity toolkit error code into the shared
// error taxonomy, preserving the original code in the message.
func mapProviderError(body []byte, status int) error {
	var pe providerError
	_ = json.Unmarshal(body, &pe)
	code := pe.Error.Message

	switch {
	case code == "EMAIL_EXISTS":
		return api.ErrDuplicateIdentity
	case strings.HasPrefix(code, "WEAK_PASSWORD"):
		return api.ErrWeakCredential
	case code == "EMAIL_NOT_FOUND",
		code == "INVALID_PASSWORD",
		code == "INVALID_LOGIN_CREDENTIALS",
		code == "USER_DISABLED":
		return &api.AuthError{Message: "invalid email or password"}
	case code == "INVALID_REFRESH_TOKEN",
		code == "TOKEN_EXPIRED",
		code == "USER_NOT_FOUND":
		return api.ErrNotAuthenticated
	case code != "":
		return &api.ServerError{Status: status, Reason: code}
	default:
		return &api.ServerError{Status: status, Reason: "identity provider error"}
	}
}
