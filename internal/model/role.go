package model

import "fmt"

// Role identifies the account type of a platform user. The set is closed;
// every switch over Role in the views covers all four values so that adding
// a role is a compile-time visible change.
type Role string

const (
	RoleStudent     Role = "student"
	RoleInstitution Role = "institution"
	RoleCompany     Role = "company"
	RoleAdmin       Role = "admin"
)

// Roles lists all valid roles in display order.
var Roles = []Role{RoleStudent, RoleInstitution, RoleCompany, RoleAdmin}

// ParseRole converts a raw role string from the backend into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// IsValid reports whether r is one of the four known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleInstitution, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// Label returns the human-readable name for the role.
func (r Role) Label() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleInstitution:
		return "Institution"
	case RoleCompany:
		return "Company"
	case RoleAdmin:
		return "Administrator"
	default:
		return string(r)
	}
}

// OwnsPostings reports whether accounts with this role publish postings
// (institutions publish courses, companies publish jobs).
func (r Role) OwnsPostings() bool {
	return r == RoleInstitution || r == RoleCompany
}
