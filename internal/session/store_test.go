// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/sec"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/testkit"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/session"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/users/account"
)

/*
TestRedisStore_RoundTrip stores the whole session under one key with a TTL.
*/
func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	server, client := testkit.Redis(t)
	store := session.NewRedisStore(client, "sid-1", time.Hour)

	// 1. Absent key reads as no session
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// 2. Save and load
	saved := &session.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &account.User{ID: "42", Role: sec.RoleDeveloper},
	}
	require.NoError(t, store.Save(ctx, saved))

	assert.True(t, server.Exists("lateral:session:sid-1"))
	assert.Equal(t, time.Hour, server.TTL("lateral:session:sid-1"))

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.Equal(t, account.UserID("42"), loaded.User.ID)
	assert.Equal(t, sec.RoleDeveloper, loaded.User.Role)

	// 3. TTL expiry ends the session
	server.FastForward(2 * time.Hour)
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

/*
TestRedisStore_Clear is idempotent and isolated per session key.
*/
func TestRedisStore_Clear(t *testing.T) {
	ctx := context.Background()
	_, client := testkit.Redis(t)

	first := session.NewRedisStore(client, "a", time.Hour)
	second := session.NewRedisStore(client, "b", time.Hour)

	require.NoError(t, first.Save(ctx, &session.Session{AccessToken: "1"}))
	require.NoError(t, second.Save(ctx, &session.Session{AccessToken: "2"}))

	require.NoError(t, first.Clear(ctx))
	require.NoError(t, first.Clear(ctx))

	loaded, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", loaded.AccessToken)
}

/*
TestRedisStore_CorruptValue surfaces decode failures to the caller.
*/
func TestRedisStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	server, client := testkit.Redis(t)
	require.NoError(t, server.Set("lateral:session:bad", "{not json"))

	_, err := session.NewRedisStore(client, "bad", time.Hour).Load(ctx)
	assert.Error(t, err)
}

/*
TestFileStore_RoundTrip writes an owner-only file and removes it on clear.
*/
func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := session.NewFileStore(path)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, store.Save(ctx, &session.Session{AccessToken: "a", RefreshToken: "r"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r", loaded.RefreshToken)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

/*
TestRedisStore_Replace only overwrites an existing session and keeps the TTL fresh.
*/
func TestRedisStore_Replace(t *testing.T) {
	ctx := context.Background()
	server, client := testkit.Redis(t)
	store := session.NewRedisStore(client, "sid-x", time.Hour)

	replaced, err := store.Replace(ctx, &session.Session{AccessToken: "late"})
	require.NoError(t, err)
	assert.False(t, replaced)
	assert.False(t, server.Exists("lateral:session:sid-x"))

	require.NoError(t, store.Save(ctx, &session.Session{AccessToken: "a"}))
	server.FastForward(30 * time.Minute)

	replaced, err = store.Replace(ctx, &session.Session{AccessToken: "b"})
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, time.Hour, server.TTL("lateral:session:sid-x"))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", loaded.AccessToken)
}

/*
TestFileStore_Replace does not recreate a removed session file.
*/
func TestFileStore_Replace(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	store := session.NewFileStore(path)

	replaced, err := store.Replace(ctx, &session.Session{AccessToken: "late"})
	require.NoError(t, err)
	assert.False(t, replaced)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, store.Save(ctx, &session.Session{AccessToken: "a"}))
	replaced, err = store.Replace(ctx, &session.Session{AccessToken: "b"})
	require.NoError(t, err)
	assert.True(t, replaced)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", loaded.AccessToken)
}
