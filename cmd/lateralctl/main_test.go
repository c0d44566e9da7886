// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/apperr"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/testkit"
)

// setup points the CLI at a fake backend and a temporary session file.
func setup(t *testing.T) string {
	t.Helper()
	access := testkit.Token(t, time.Hour)
	user := `{"id": 5, "email": "dev@lateral.co", "first_name": "Luis", "last_name": "Mora", "role": "desarrollador"}`

	router := chi.NewRouter()
	router.Post("/auth/login/", func(writer http.ResponseWriter, request *http.Request) {
		var credentials struct {
			Password string `json:"password"`
		}
		_ = json.NewDecoder(request.Body).Decode(&credentials)
		if credentials.Password != "secret123" {
			writer.WriteHeader(http.StatusUnauthorized)
			_, _ = writer.Write([]byte(`{"error": "Invalid credentials"}`))
			return
		}
		_, _ = writer.Write([]byte(`{"user": ` + user + `, "tokens": {"access": "` + access + `", "refresh": "r"}}`))
	})
	router.Post("/auth/logout/", func(writer http.ResponseWriter, _ *http.Request) {})
	router.Get("/mapgis/consulta/cbml/{cbml}/", func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = writer.Write([]byte(`{"success": true}`))
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	sessionFile := filepath.Join(t.TempDir(), "session.json")
	t.Setenv("BACKEND_URL", server.URL)
	t.Setenv("SESSION_FILE", sessionFile)
	return sessionFile
}

func execute(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

/*
TestRun_SessionPersists keeps the login between invocations.
*/
func TestRun_SessionPersists(t *testing.T) {
	sessionFile := setup(t)

	out, err := execute("login", "-email", "dev@lateral.co", "-password", "secret123")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Luis Mora (developer)")

	info, err := os.Stat(sessionFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, err = execute("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, `"email": "dev@lateral.co"`)
	assert.Contains(t, out, `"can_view_all_users": false`)

	out, err = execute("mapgis", "05001010101")
	require.NoError(t, err)
	assert.Contains(t, out, `"cbml": "05001010101"`)

	_, err = execute("logout")
	require.NoError(t, err)

	_, err = execute("whoami")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))
}

/*
TestRun_LoginThrottlePersists counts failed logins across invocations.
*/
func TestRun_LoginThrottlePersists(t *testing.T) {
	sessionFile := setup(t)
	t.Setenv("LOGIN_MAX_ATTEMPTS", "2")

	for range 2 {
		_, err := execute("login", "-email", "dev@lateral.co", "-password", "wrong-pass")
		assert.True(t, apperr.IsKind(err, apperr.KindHTTP), "got %v", err)
	}

	_, err := os.Stat(filepath.Join(filepath.Dir(sessionFile), "login_attempts.json"))
	require.NoError(t, err)

	_, err = execute("login", "-email", "dev@lateral.co", "-password", "secret123")
	assert.True(t, apperr.IsKind(err, apperr.KindRateLimited), "got %v", err)
}

/*
TestRun_Usage rejects unknown commands and arguments.
*/
func TestRun_Usage(t *testing.T) {
	setup(t)

	_, err := execute()
	assert.Error(t, err)

	_, err = execute("reticulate")
	assert.ErrorContains(t, err, "unknown command")

	_, err = execute("users", "get")
	assert.ErrorContains(t, err, "missing argument")

	_, err = execute("users", "update", "7", "-role", "superuser")
	assert.Error(t, err)

	out, err := execute("help")
	require.NoError(t, err)
	assert.Contains(t, out, "usage: lateralctl")
}

/*
TestDescribe lists field errors under the message.
*/
func TestDescribe(t *testing.T) {
	err := apperr.ValidationError("Invalid input", apperr.FieldError{Field: "email", Message: "required"})
	assert.Equal(t, "Invalid input (VALIDATION_ERROR)\n  email: required", describe(err))
}
