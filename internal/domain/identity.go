package domain

import "strings"

// Identity is the acting user of the console session.
type Identity struct {
	UserID      int64  `json:"userid"`
	LoginID     string `json:"loginId,omitempty"`
	DisplayName string `json:"userName"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
}

// Role is a canonical console role code.
type Role string

const (
	// RoleSystemAdmin has full access and is the only role allowed to impersonate.
	RoleSystemAdmin Role = "SYSTEM_ADMIN"

	// RoleLeadpowerManager has full access to every menu and resource.
	RoleLeadpowerManager Role = "LEADPOWER_MANAGER"

	RoleOEMManager    Role = "OEM_MANAGER"
	RoleSiteManager   Role = "SITE_MANAGER"
	RoleSiteInspector Role = "SITE_INSPECTOR"
	RoleSalesManager  Role = "SALES_MANAGER"
	RoleCourier       Role = "COURIER"
	RoleReadOnly      Role = "READ_ONLY"
)

var validRoles = map[Role]bool{
	RoleSystemAdmin:      true,
	RoleLeadpowerManager: true,
	RoleOEMManager:       true,
	RoleSiteManager:      true,
	RoleSiteInspector:    true,
	RoleSalesManager:     true,
	RoleCourier:          true,
	RoleReadOnly:         true,
}

var fullAccessRoles = map[Role]bool{
	RoleSystemAdmin:      true,
	RoleLeadpowerManager: true,
}

// legacyRoles maps codes still emitted by older backend builds onto
// canonical roles. Keys are upper-cased with any ROLE_ prefix removed.
var legacyRoles = map[string]Role{
	"ADMIN":           RoleSystemAdmin,
	"ADMINISTRATOR":   RoleSystemAdmin,
	"SYSADMIN":        RoleSystemAdmin,
	"LEAD_POWER":      RoleLeadpowerManager,
	"LEADPOWER":       RoleLeadpowerManager,
	"OEM":             RoleOEMManager,
	"SITE":            RoleSiteManager,
	"INSPECTOR":       RoleSiteInspector,
	"SALES":           RoleSalesManager,
	"DRIVER":          RoleCourier,
	"DELIVERY_DRIVER": RoleCourier,
	"READONLY":        RoleReadOnly,
	"VIEWER":          RoleReadOnly,
}

var roleNames = map[Role]string{
	RoleSystemAdmin:      "System administrator",
	RoleLeadpowerManager: "Leadpower manager",
	RoleOEMManager:       "OEM manager",
	RoleSiteManager:      "Site manager",
	RoleSiteInspector:    "Site inspector",
	RoleSalesManager:     "Sales manager",
	RoleCourier:          "Courier",
	RoleReadOnly:         "Read only",
}

// NormalizeRole converts a raw backend role code into a canonical Role.
// Unknown codes are upper-cased and returned as-is so they never match a
// canonical constant by accident; an empty code stays empty.
func NormalizeRole(raw string) Role {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return ""
	}
	code = strings.TrimPrefix(code, "ROLE_")

	if validRoles[Role(code)] {
		return Role(code)
	}
	if role, ok := legacyRoles[code]; ok {
		return role
	}
	return Role(code)
}

// IsValid reports whether r is one of the canonical roles.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// IsFullAccess reports whether r bypasses menu and ownership checks.
func (r Role) IsFullAccess() bool {
	return fullAccessRoles[r]
}

// IsAdmin reports whether r may start an impersonation.
func (r Role) IsAdmin() bool {
	return r == RoleSystemAdmin
}

// IsEmpty reports whether no role is assigned.
func (r Role) IsEmpty() bool {
	return r == ""
}

// DisplayName returns a human readable role label.
func (r Role) DisplayName() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return string(r)
}

// Normalized returns a copy of the identity with its role normalized.
func (i Identity) Normalized() Identity {
	i.Role = NormalizeRole(string(i.Role))
	return i
}

// Equal reports whether two identities describe the same user and role.
func (i Identity) Equal(other Identity) bool {
	return i.UserID == other.UserID &&
		i.LoginID == other.LoginID &&
		i.DisplayName == other.DisplayName &&
		i.Email == other.Email &&
		i.Role == other.Role
}
