package domain

import "strings"

// Role is a capability granted by the identity provider.
type Role string

const (
	RoleUser       Role = "USER"
	RoleOwner      Role = "OWNER"
	RoleAdmin      Role = "ADMIN"
	RoleLocalGuide Role = "LOCAL_GUIDE"
)

// ParseRole accepts the role names issued in tokens, with or without the ROLE_ prefix.
func ParseRole(value string) (Role, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	normalized = strings.TrimPrefix(normalized, "ROLE_")
	switch Role(normalized) {
	case RoleUser, RoleOwner, RoleAdmin, RoleLocalGuide:
		return Role(normalized), true
	}
	return "", false
}

// Principal is the caller as seen by the core.
type Principal struct {
	ID       string
	Username string
	Roles    []Role
}

// Has reports whether the principal holds role.
func (p Principal) Has(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Require fails with ErrForbidden unless the principal is identified and holds
// at least one of roles.
func (p Principal) Require(roles ...Role) error {
	if strings.TrimSpace(p.ID) == "" {
		return Forbiddenf("authentication required")
	}
	for _, role := range roles {
		if p.Has(role) {
			return nil
		}
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	return Forbiddenf("requires one of roles %s", strings.Join(names, ", "))
}
