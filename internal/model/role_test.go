package model

import "testing"

func TestParseRoleAcceptsKnownRoles(t *testing.T) {
	for _, role := range Roles {
		parsed, err := ParseRole(string(role))
		if err != nil {
			t.Fatalf("ParseRole(%s): %v", role, err)
		}
		if parsed != role {
			t.Fatalf("got %s want %s", parsed, role)
		}
	}
}

func TestParseRoleRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "teacher", "Student", "ADMIN"} {
		if _, err := ParseRole(raw); err == nil {
			t.Fatalf("ParseRole(%q) should fail", raw)
		}
	}
}

func TestOwnsPostings(t *testing.T) {
	if RoleStudent.OwnsPostings() || RoleAdmin.OwnsPostings() {
		t.Fatal("students and admins do not publish postings")
	}
	if !RoleInstitution.OwnsPostings() || !RoleCompany.OwnsPostings() {
		t.Fatal("institutions and companies publish postings")
	}
}
