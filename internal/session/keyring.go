package session

import "github.com/careerconnect/client/internal/credential"

// KeyringStore persists the refresh token in the system keyring.
type KeyringStore struct{}

// RefreshToken reads the persisted refresh token. A missing entry is not
// an error for the caller; it returns "" and the keyring error.
func (KeyringStore) RefreshToken() (string, error) {
	return credential.Get(credential.RefreshTokenKey)
}

// StoreRefreshToken writes the refresh token to the keyring.
func (KeyringStore) StoreRefreshToken(token string) error {
	return credential.Set(credential.RefreshTokenKey, token)
}

// ClearRefreshToken removes the persisted refresh token.
func (KeyringStore) ClearRefreshToken() error {
	return credential.Delete(credential.RefreshTokenKey)
}
