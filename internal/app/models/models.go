package models

// Role is the role the Role Authority assigns to an authenticated user
type Role string

const (
	RoleAdmin     Role = "admin"
	RolePreceptor Role = "preceptor"
	RoleStudent   Role = "student"
	RolePending   Role = "usuario" // Registered, no role granted yet
)

// ParseRole maps a stored role onto a known Role; anything unknown is pending.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RolePreceptor, RoleStudent:
		return Role(s)
	default:
		return RolePending
	}
}
