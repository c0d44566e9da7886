// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session holds the client side of an authenticated session: the access
and refresh JWTs plus a cached copy of the user's profile.

# Architecture

  - Store: A pluggable key-value backend (memory, Redis, file) that persists one
    serialized [Session] under one key. Writing the whole object at once keeps
    the access and refresh tokens consistent with each other.
  - TokenStore: The facade used by the HTTP client and the auth service. Its
    reads never fail; storage errors are logged and read as "no session".

The cached user is a display cache. Authorization decisions must also check
that the access token is usable.
*/
package session

import (
	"context"
	"time"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/users/account"
)

// # Domain Entities

// Pair is the token pair issued by the backend on login.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Complete reports whether both tokens are present.
func (p Pair) Complete() bool {
	return p.Access != "" && p.Refresh != ""
}

// Session is the persisted client-side session.
type Session struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *account.User `json:"user,omitempty"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// clone returns a copy that shares no pointers with s.
func (s *Session) clone() *Session {
	copied := *s
	if s.User != nil {
		user := *s.User
		copied.User = &user
	}
	return &copied
}

// # Storage Contract

// Store persists a single session object.
//
// Implementations are bound to one session key at construction time.
type Store interface {

	/*
		Load returns the stored session.

		Parameters:
		  - context: context.Context

		Returns:
		  - *Session: The stored session, or nil when none exists
		  - error: Storage failures
	*/
	Load(context context.Context) (*Session, error)

	/*
		Save replaces the stored session in a single write.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Storage failures
	*/
	Save(context context.Context, session *Session) error

	/*
		Replace overwrites the stored session only if one exists.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - bool: false when there was no session to replace
		  - error: Storage failures
	*/
	Replace(context context.Context, session *Session) (bool, error)

	/*
		Clear removes the stored session. Clearing an empty store is not an error.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Storage failures
	*/
	Clear(context context.Context) error
}
