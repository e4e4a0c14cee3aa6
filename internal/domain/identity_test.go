package domain

import "testing"

func TestNormalizeRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want Role
	}{
		{"SYSTEM_ADMIN", RoleSystemAdmin},
		{"system_admin", RoleSystemAdmin},
		{"ROLE_SYSTEM_ADMIN", RoleSystemAdmin},
		{"ADMIN", RoleSystemAdmin},
		{" role_admin ", RoleSystemAdmin},
		{"ADMINISTRATOR", RoleSystemAdmin},
		{"LEAD_POWER", RoleLeadpowerManager},
		{"leadpower", RoleLeadpowerManager},
		{"LEADPOWER_MANAGER", RoleLeadpowerManager},
		{"OEM", RoleOEMManager},
		{"SITE", RoleSiteManager},
		{"INSPECTOR", RoleSiteInspector},
		{"DRIVER", RoleCourier},
		{"DELIVERY_DRIVER", RoleCourier},
		{"VIEWER", RoleReadOnly},
		{"", ""},
		{"   ", ""},
		{"warehouse", Role("WAREHOUSE")},
	}

	for _, tt := range tests {
		if got := NormalizeRole(tt.raw); got != tt.want {
			t.Fatalf("NormalizeRole(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestRolePredicates(t *testing.T) {
	t.Parallel()

	if !NormalizeRole("LEAD_POWER").IsFullAccess() {
		t.Fatal("expected normalized LEAD_POWER to have full access")
	}
	if Role("LEAD_POWER").IsFullAccess() {
		t.Fatal("raw legacy code must not match the full-access set")
	}
	if RoleLeadpowerManager.IsAdmin() {
		t.Fatal("full access does not imply admin")
	}
	if !RoleSystemAdmin.IsAdmin() || !RoleSystemAdmin.IsFullAccess() {
		t.Fatal("system admin must be admin with full access")
	}
	if Role("WAREHOUSE").IsValid() || Role("WAREHOUSE").IsFullAccess() {
		t.Fatal("unknown roles belong to no role set")
	}
	if !Role("").IsEmpty() {
		t.Fatal("expected empty role")
	}
	if got := RoleCourier.DisplayName(); got != "Courier" {
		t.Fatalf("unexpected display name %q", got)
	}
}

func TestIdentityNormalizedAndEqual(t *testing.T) {
	t.Parallel()

	raw := Identity{UserID: 1, DisplayName: "Kim", Role: "ROLE_SITE"}
	n := raw.Normalized()

	if n.Role != RoleSiteManager {
		t.Fatalf("expected SITE_MANAGER, got %q", n.Role)
	}
	if raw.Role != "ROLE_SITE" {
		t.Fatal("Normalized must not modify the receiver")
	}
	if n.Equal(raw) {
		t.Fatal("identities with different role codes are not equal")
	}
	if !n.Equal(raw.Normalized()) {
		t.Fatal("expected equal identities")
	}
}
