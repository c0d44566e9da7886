// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "github.com/SamirJoseGil/360Lateral-sub000/internal/users/account"

// # Credential Constraints

const (
	// MinPasswordLength mirrors the backend's password policy.
	MinPasswordLength = 8

	// flightProfile is the de-duplication key of profile fetches. A service
	// serves one session, so one key suffices.
	flightProfile = "profile"

	// flightLoginPrefix prefixes the normalized email in login flights.
	flightLoginPrefix = "login:"
)

// # Field Identifiers

const (
	FieldEmail           = account.FieldEmail
	FieldPassword        = "password"
	FieldPasswordConfirm = "password_confirm"
	FieldFirstName       = account.FieldFirstName
	FieldLastName        = account.FieldLastName
	FieldPhone           = account.FieldPhone
	FieldRole            = account.FieldRole
)
