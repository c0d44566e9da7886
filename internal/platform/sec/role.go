// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"encoding/json"
	"fmt"
	"strings"
)

// # User Roles

// Role represents the authorization level granted to an account.
//
// Roles are canonical English values everywhere inside the portal. The backend
// spells some of them in Spanish; translation happens only through
// [ParseRole] and [Role.BackendName].
type Role string

const (
	// Full management of users, lots and the platform itself
	RoleAdmin Role = "admin"

	// Land owner ("propietario") managing their own lots and documents
	RoleOwner Role = "owner"

	// Developer ("desarrollador") evaluating lots for projects
	RoleDeveloper Role = "developer"
)

// # Backend Mapping

// backendNames is the single translation table between canonical roles and
// the spellings the backend accepts.
var backendNames = map[Role]string{
	RoleAdmin:     "admin",
	RoleOwner:     "propietario",
	RoleDeveloper: "desarrollador",
}

// Roles returns every known role in a stable order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleOwner, RoleDeveloper}
}

// RoleNames returns the canonical names of every known role.
func RoleNames() []string {
	names := make([]string, 0, len(backendNames))
	for _, role := range Roles() {
		names = append(names, string(role))
	}
	return names
}

// ParseRole accepts either the canonical or the backend spelling of a role.
func ParseRole(raw string) (Role, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	for role, backend := range backendNames {
		if value == string(role) || value == backend {
			return role, nil
		}
	}
	return "", fmt.Errorf("sec: unknown role %q", raw)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := backendNames[r]
	return ok
}

// BackendName returns the spelling the backend expects for r.
func (r Role) BackendName() string {
	if name, ok := backendNames[r]; ok {
		return name
	}
	return string(r)
}

// DashboardPath returns the landing page of the role's dashboard.
func (r Role) DashboardPath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleOwner:
		return "/owner"
	case RoleDeveloper:
		return "/developer"
	default:
		return "/"
	}
}

// UnmarshalJSON decodes either spelling. Unknown values are kept verbatim so
// that a new backend role does not break profile decoding; [Role.Valid]
// reports false for them and they receive no capabilities.
func (r *Role) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("sec: role must be a string: %w", err)
	}

	parsed, err := ParseRole(raw)
	if err != nil {
		*r = Role(strings.ToLower(strings.TrimSpace(raw)))
		return nil
	}
	*r = parsed
	return nil
}
