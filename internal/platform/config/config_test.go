// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/config"
)

/*
TestLoad_Defaults verifies defaults are applied when only the backend is set.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://localhost:8000/api/")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", cfg.BackendURL)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.LoginMaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.LoginWindow)
	assert.Equal(t, "lateral_sid", cfg.SessionCookie)
	assert.Empty(t, cfg.RedisURL)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoad_Overrides checks durations and lists are parsed from the environment.
*/
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://api.360lateral.co")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("EXTRA_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SESSION_FILE", filepath.Join(t.TempDir(), "s.json"))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())

	path, err := cfg.SessionFilePath()
	require.NoError(t, err)
	assert.Equal(t, "s.json", filepath.Base(path))
}

/*
TestLoad_Invalid covers required and cross-field failures.
*/
func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing_backend", map[string]string{"BACKEND_URL": ""}},
		{"relative_backend", map[string]string{"BACKEND_URL": "/api"}},
		{"zero_attempts", map[string]string{"BACKEND_URL": "http://x", "LOGIN_MAX_ATTEMPTS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
