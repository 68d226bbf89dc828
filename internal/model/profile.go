package model

import "time"

// Profile is the backend account record associated with an identity.
type Profile struct {
	// UID is the identity provider's user id; it keys the backend record.
	UID string `json:"uid"`

	// Email is the account's sign-in address.
	Email string `json:"email"`

	// DisplayName is the name shown to other users. For institutions and
	// companies it mirrors the organization name.
	DisplayName string `json:"displayName"`

	// Role is the account type chosen at registration.
	Role Role `json:"userType"`

	// Phone is an optional contact number.
	Phone string `json:"phone,omitempty"`

	// InstitutionName is set only for institution accounts.
	InstitutionName string `json:"institutionName,omitempty"`

	// CompanyName is set only for company accounts.
	CompanyName string `json:"companyName,omitempty"`

	// EmailVerified mirrors the identity provider's verification flag at
	// the time the profile was last synced.
	EmailVerified bool `json:"emailVerified"`

	// CreatedAt is when the profile record was registered.
	CreatedAt time.Time `json:"createdAt"`
}

// OrganizationName returns the institution or company name for owner
// accounts, falling back to the display name.
func (p Profile) OrganizationName() string {
	switch p.Role {
	case RoleInstitution:
		if p.InstitutionName != "" {
			return p.InstitutionName
		}
	case RoleCompany:
		if p.CompanyName != "" {
			return p.CompanyName
		}
	case RoleStudent, RoleAdmin:
	}
	return p.DisplayName
}
