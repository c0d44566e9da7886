// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user accounts as the portal sees them: the User entity
returned by the backend and the list, detail, update and delete operations
performed against the backend's user endpoints.

# Architecture

  - Entities: User (server-owned, read and written through [Service]).
  - Security: Every update is filtered through the capability table in
    [sec] before it is transmitted. The backend remains the authority and
    rejects disallowed fields on its own.
  - Session: The acting user comes from the session manager, which is also
    the only writer of the cached profile.
*/
package account

import (
	"strings"
	"time"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ident"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/sec"
)

// # Domain Entities

// UserID identifies an account. See [ident.ID] for the accepted encodings.
type UserID = ident.ID

// User represents an account of the 360Lateral platform.
type User struct {
	ID        UserID     `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      sec.Role   `json:"role"`
	IsActive  bool       `json:"is_active"`
	Phone     string     `json:"phone,omitempty"`
	Company   string     `json:"company,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// FullName joins the first and last name, falling back to the email.
func (user *User) FullName() string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		return user.Email
	}
	return name
}

// Permissions returns the capability set of the user's role.
func (user *User) Permissions() sec.Permissions {
	return sec.PermissionsFor(user.Role)
}

// # Field Identifiers

// Backend field names used in payloads and validation errors.
const (
	FieldEmail       = "email"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldPhone       = "phone"
	FieldCompany     = "company"
	FieldRole        = "role"
	FieldIsActive    = "is_active"
	FieldIsStaff     = "is_staff"
	FieldIsSuperuser = "is_superuser"
)
