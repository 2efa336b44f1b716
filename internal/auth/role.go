package auth

import "strings"

// Role is the closed set of staff roles known to the console.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCareManager Role = "care_manager"
	// RoleViewer is the conservative mapping for unrecognized role strings.
	RoleViewer Role = "viewer"
)

// Capability names an action a role may or may not perform.
type Capability string

const (
	CapManageUsers     Capability = "manage_users"
	CapEditOrgSettings Capability = "edit_org_settings"
	CapViewAllClients  Capability = "view_all_clients"
	CapWriteChart      Capability = "write_chart"
)

// ParseRole maps a wire role string onto the closed enum.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleCareManager:
		return RoleCareManager
	default:
		return RoleViewer
	}
}

// Can reports whether the role has the given capability.
func (r Role) Can(c Capability) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleCareManager:
		return c == CapWriteChart
	default:
		return false
	}
}
