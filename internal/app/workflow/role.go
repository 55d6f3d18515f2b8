package workflow

import "strings"

type Role string

const (
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

// ParseRole resolves a stored role. Anything other than admin, including an
// empty value, is the least-privileged vendor role.
func ParseRole(raw string) Role {
	if Role(strings.ToLower(strings.TrimSpace(raw))) == RoleAdmin {
		return RoleAdmin
	}
	return RoleVendor
}

// Authorize is the single access check used by every gated view.
func Authorize(role Role, required Role) error {
	if required == RoleVendor {
		return nil
	}
	if role != required {
		return ErrNotAdmin
	}
	return nil
}

// HomePath is the view a role lands on after sign-in.
func HomePath(role Role) string {
	if role == RoleAdmin {
		return "/admin"
	}
	return "/vendor"
}
