package domain

// Role names carried in the JWT "role" claim.
const (
	RoleEmployee   = "EMPLOYEE"
	RoleManager    = "MANAGER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// IsAdmin reports whether the role may perform admin-gated transitions.
func IsAdmin(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}
