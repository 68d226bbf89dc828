package access

import (
	"testing"

	"github.com/careerconnect/client/internal/identity"
	"github.com/careerconnect/client/internal/model"
	"github.com/careerconnect/client/internal/session"
)

func anonymousSnapshot() session.Snapshot {
	return session.Snapshot{State: session.Anonymous}
}

func pendingSnapshot() session.Snapshot {
	return session.Snapshot{
		State:                session.PendingVerification,
		Identity:             &identity.Identity{UID: "u1", Email: "u1@example.com"},
		VerificationRequired: true,
	}
}

func activeSnapshot(role model.Role) session.Snapshot {
	return session.Snapshot{
		State: session.Active,
		Identity: &identity.Identity{
			UID:           "u1",
			Email:         "u1@example.com",
			EmailVerified: true,
		},
		Profile: &model.Profile{
			UID:   "u1",
			Email: "u1@example.com",
			Role:  role,
		},
	}
}

func TestEvaluateAnonymousRedirectsToLogin(t *testing.T) {
	if d := Evaluate(anonymousSnapshot()); d != RedirectLogin {
		t.Fatalf("expected RedirectLogin got %v", d)
	}
	if d := Evaluate(anonymousSnapshot(), model.RoleStudent); d != RedirectLogin {
		t.Fatalf("expected RedirectLogin for role-gated view got %v", d)
	}
}

func TestEvaluateUnverifiedRedirectsToVerify(t *testing.T) {
	if d := Evaluate(pendingSnapshot()); d != RedirectVerify {
		t.Fatalf("expected RedirectVerify got %v", d)
	}
}

// The verification check must win over the role check: an unverified user
// is sent to the verification view even when the role would not match.
func TestEvaluateVerificationBeatsRoleMismatch(t *testing.T) {
	snap := pendingSnapshot()
	snap.Profile = &model.Profile{Role: model.RoleStudent}

	if d := Evaluate(snap, model.RoleAdmin); d != RedirectVerify {
		t.Fatalf("expected RedirectVerify got %v", d)
	}
}

func TestEvaluateRoleMismatchRedirectsHome(t *testing.T) {
	snap := activeSnapshot(model.RoleStudent)

	if d := Evaluate(snap, model.RoleInstitution); d != RedirectHome {
		t.Fatalf("expected RedirectHome got %v", d)
	}
	if d := Evaluate(snap, model.RoleInstitution, model.RoleCompany); d != RedirectHome {
		t.Fatalf("expected RedirectHome got %v", d)
	}
}

func TestEvaluateMatchingRoleAllows(t *testing.T) {
	snap := activeSnapshot(model.RoleCompany)

	if d := Evaluate(snap, model.RoleInstitution, model.RoleCompany); d != Allow {
		t.Fatalf("expected Allow got %v", d)
	}
}

func TestEvaluateNoRequiredRolesAdmitsAnyActiveSession(t *testing.T) {
	for _, role := range model.Roles {
		if d := Evaluate(activeSnapshot(role)); d != Allow {
			t.Fatalf("role %s: expected Allow got %v", role, d)
		}
	}
}

// A session is never admitted to a protected view while anonymous or
// unverified, whatever the role requirements say.
func TestEvaluateNeverAllowsWithoutActiveSession(t *testing.T) {
	snapshots := []session.Snapshot{anonymousSnapshot(), pendingSnapshot()}
	for _, snap := range snapshots {
		if d := Evaluate(snap); d == Allow {
			t.Fatalf("state %v: protected view must not be allowed", snap.State)
		}
		if d := Evaluate(snap, model.RoleAdmin); d == Allow {
			t.Fatalf("state %v: role-gated view must not be allowed", snap.State)
		}
	}
}
