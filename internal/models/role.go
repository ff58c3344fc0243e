package models

import "strings"

// Role is an open set of role names. Only RoleAdmin carries privileges.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole normalizes a raw role name. Empty input yields RoleUser; names outside
// the known set are kept verbatim and report false.
func ParseRole(raw string) (Role, bool) {
	name := strings.TrimSpace(raw)
	switch Role(strings.ToLower(name)) {
	case "":
		return RoleUser, true
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return Role(name), false
}

// Known reports whether r is one of the predefined roles.
func (r Role) Known() bool {
	return r == RoleUser || r == RoleAdmin
}

// Privileged reports whether r grants elevated access.
func (r Role) Privileged() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
