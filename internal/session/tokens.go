// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/apperr"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/sec"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/users/account"
)

// TokenStore is the single owner of the persisted session.
//
// # Concurrency
//
// Writes are serialized by mu, so a read-modify-write such as
// [TokenStore.SetCachedUser] cannot interleave with [TokenStore.Clear]. Profile writes also go through
// [Store.Replace], which never recreates a session removed by another
// process sharing the same store.
type TokenStore struct {
	mu     sync.Mutex
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewTokenStore wraps store.
func NewTokenStore(store Store, logger *slog.Logger) *TokenStore {
	return &TokenStore{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// # Reads

// load returns the stored session, or nil when it is absent or unreadable.
func (tokens *TokenStore) load(ctx context.Context) *Session {
	current, err := tokens.store.Load(ctx)
	if err != nil {
		tokens.logger.WarnContext(ctx, "token_store_read_failed", slog.Any("error", err))
		return nil
	}
	return current
}

// AccessToken returns the stored access token, or "" if there is none.
func (tokens *TokenStore) AccessToken(ctx context.Context) string {
	if current := tokens.load(ctx); current != nil {
		return current.AccessToken
	}
	return ""
}

// RefreshToken returns the stored refresh token, or "" if there is none.
func (tokens *TokenStore) RefreshToken(ctx context.Context) string {
	if current := tokens.load(ctx); current != nil {
		return current.RefreshToken
	}
	return ""
}

// CachedUser returns the cached profile, or nil.
func (tokens *TokenStore) CachedUser(ctx context.Context) *account.User {
	if current := tokens.load(ctx); current != nil {
		return current.User
	}
	return nil
}

// IsTokenExpired reports whether token is expired now. See [sec.IsTokenExpired].
func (tokens *TokenStore) IsTokenExpired(token string) bool {
	return sec.IsTokenExpired(token, tokens.now())
}

// UsableAccessToken returns the access token only if it is present and unexpired.
func (tokens *TokenStore) UsableAccessToken(ctx context.Context) string {
	token := tokens.AccessToken(ctx)
	if token == "" || tokens.IsTokenExpired(token) {
		return ""
	}
	return token
}

// # Writes

// Establish stores a fresh session (tokens and profile) in one write.
func (tokens *TokenStore) Establish(ctx context.Context, pair Pair, user *account.User) error {
	tokens.mu.Lock()
	defer tokens.mu.Unlock()

	err := tokens.store.Save(ctx, &Session{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		User:         user,
		UpdatedAt:    tokens.now(),
	})
	if err != nil {
		return fmt.Errorf("token_store_establish_failed: %w", err)
	}
	return nil
}

// SetTokens replaces both tokens, keeping any cached profile.
// The JWT structure is not validated here.
func (tokens *TokenStore) SetTokens(ctx context.Context, pair Pair) error {
	tokens.mu.Lock()
	defer tokens.mu.Unlock()

	current := tokens.load(ctx)
	if current == nil {
		current = &Session{}
	}

	current.AccessToken = pair.Access
	current.RefreshToken = pair.Refresh
	current.UpdatedAt = tokens.now()

	if err := tokens.store.Save(ctx, current); err != nil {
		return fmt.Errorf("token_store_set_tokens_failed: %w", err)
	}
	return nil
}

// SetCachedUser replaces the cached profile of the current session.
//
// A profile cannot be cached without a session to attach it to. If the
// session disappears before the write lands, it stays gone and the call
// fails with Unauthenticated.
func (tokens *TokenStore) SetCachedUser(ctx context.Context, user *account.User) error {
	tokens.mu.Lock()
	defer tokens.mu.Unlock()

	current := tokens.load(ctx)
	if current == nil || current.AccessToken == "" {
		return apperr.Unauthenticated("No active session")
	}

	current.User = user
	current.UpdatedAt = tokens.now()

	replaced, err := tokens.store.Replace(ctx, current)
	if err != nil {
		return fmt.Errorf("token_store_set_user_failed: %w", err)
	}
	if !replaced {
		return apperr.Unauthenticated("No active session")
	}
	return nil
}

// Clear removes the tokens and the cached profile. It is idempotent.
func (tokens *TokenStore) Clear(ctx context.Context) error {
	tokens.mu.Lock()
	defer tokens.mu.Unlock()

	if err := tokens.store.Clear(ctx); err != nil {
		return fmt.Errorf("token_store_clear_failed: %w", err)
	}
	return nil
}

// Transfer moves the session into target and clears it here.
//
// It fails with Unauthenticated when there is no session to move. target
// must not be the receiver.
func (tokens *TokenStore) Transfer(ctx context.Context, target *TokenStore) error {
	tokens.mu.Lock()
	defer tokens.mu.Unlock()

	current, err := tokens.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("token_store_transfer_load_failed: %w", err)
	}
	if current == nil || current.AccessToken == "" {
		return apperr.Unauthenticated("No active session")
	}

	target.mu.Lock()
	err = target.store.Save(ctx, current)
	target.mu.Unlock()
	if err != nil {
		return fmt.Errorf("token_store_transfer_save_failed: %w", err)
	}

	if err := tokens.store.Clear(ctx); err != nil {
		return fmt.Errorf("token_store_transfer_clear_failed: %w", err)
	}
	return nil
}
