package authz

import "testing"

func TestPermissionsForUnion(t *testing.T) {
	got := PermissionsFor([]string{RoleClient, RoleMember})

	for _, p := range []Permission{PermViewProfile, PermUpdateProfile, PermViewProject, PermViewUsers, PermViewTasks} {
		if !got.Has(p) {
			t.Errorf("union missing %s", p)
		}
	}
	if got.Has(PermCreateProject) {
		t.Error("union grants create_project which neither role holds")
	}
	if got.Has(PermSuperOwner) {
		t.Error("union grants super_owner which neither role holds")
	}
}

func TestPermissionsForOrderIndependent(t *testing.T) {
	a := PermissionsFor([]string{RoleTeamLead, RoleClient})
	b := PermissionsFor([]string{RoleClient, RoleTeamLead})
	if len(a) != len(b) {
		t.Fatalf("set sizes differ: %d vs %d", len(a), len(b))
	}
	for p := range a {
		if !b.Has(p) {
			t.Errorf("sets differ on %s", p)
		}
	}
}

func TestPermissionsForUnknownRole(t *testing.T) {
	got := PermissionsFor([]string{"NoSuchRole"})
	if len(got) != 0 {
		t.Errorf("unknown role granted %d permissions", len(got))
	}
	// A valid role next to an unknown one still resolves.
	got = PermissionsFor([]string{"NoSuchRole", RoleClient})
	if !got.Has(PermViewProfile) {
		t.Error("valid role ignored when listed after unknown role")
	}
}

func TestPermissionsForEmpty(t *testing.T) {
	if got := PermissionsFor(nil); len(got) != 0 {
		t.Errorf("nil roles granted %d permissions", len(got))
	}
}

func TestHasAll(t *testing.T) {
	granted := PermissionsFor([]string{RoleTeamLead})

	if !HasAll(granted, nil) {
		t.Error("empty required set must pass")
	}
	if !HasAll(granted, []Permission{PermViewTask, PermCreateTask}) {
		t.Error("held permissions reported missing")
	}
	if HasAll(granted, []Permission{PermViewTask, PermRemoveTask}) {
		t.Error("one missing permission must fail the whole set")
	}
}

func TestAdminHoldsSuperOwner(t *testing.T) {
	if !PermissionsFor([]string{RoleAdmin}).Has(PermSuperOwner) {
		t.Error("Admin must carry the super_owner sentinel")
	}
}

// Every role the seeder knows must resolve to at least one permission;
// a matrix entry drifting out of sync with AllRoles would silently
// strand a role with no capabilities.
func TestAllRolesHaveMatrixEntries(t *testing.T) {
	for _, r := range AllRoles() {
		if len(RolePermissions[r]) == 0 {
			t.Errorf("role %s has no permissions in the matrix", r)
		}
	}
}
