package api

import (
	"context"

	"github.com/careerconnect/client/internal/model"
)

// RegisterProfile is the payload registering a backend profile for a newly
// created identity.
type RegisterProfile struct {
	UID             string `json:"uid"`
	Email           string `json:"email"`
	UserType        string `json:"userType"`
	DisplayName     string `json:"displayName"`
	Phone           string `json:"phone,omitempty"`
	InstitutionName string `json:"institutionName,omitempty"`
	CompanyName     string `json:"companyName,omitempty"`
}

// Register creates the backend profile record for a new identity. The
// identity must already exist at the provider; a failure here leaves a
// profile-less identity behind, which callers surface as a
// ProfileRegistrationError.
func (c *Client) Register(ctx context.Context, reg RegisterProfile) error {
	return c.PostPublic(ctx, "/api/auth/register", reg, nil)
}

// Profile fetches the caller's backend profile.
func (c *Client) Profile(ctx context.Context) (model.Profile, error) {
	var wire wireProfile
	if err := c.Get(ctx, "/api/auth/profile", &wire); err != nil {
		return model.Profile{}, err
	}
	return wire.toProfile()
}

// ProfileUpdate is the payload for editing the caller's own profile.
type ProfileUpdate struct {
	DisplayName     string `json:"displayName,omitempty"`
	Phone           string `json:"phone,omitempty"`
	InstitutionName string `json:"institutionName,omitempty"`
	CompanyName     string `json:"companyName,omitempty"`
}

// UpdateProfile edits the caller's backend profile and returns the updated
// record.
func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate) (model.Profile, error) {
	var wire wireProfile
	if err := c.Put(ctx, "/api/auth/profile", upd, &wire); err != nil {
		return model.Profile{}, err
	}
	return wire.toProfile()
}
