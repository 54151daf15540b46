package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_KEY", "key")
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("SESSION_MAX_AGE", "")
	t.Setenv("LOG_PRETTY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "key", cfg.SessionKey)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionMaxAge)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.False(t, cfg.LogPretty)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_KEY", "key")
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOWED_ORIGINS", "https://pencil.example, https://www.pencil.example,")
	t.Setenv("SESSION_MAX_AGE", "1h30m")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("GIN_MODE", "release")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"https://pencil.example", "https://www.pencil.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 90*time.Minute, cfg.SessionMaxAge)
	assert.True(t, cfg.LogPretty)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing session key", env: map[string]string{"SESSION_KEY": ""}},
		{name: "release without origins", env: map[string]string{"SESSION_KEY": "k", "GIN_MODE": "release", "ALLOWED_ORIGINS": ""}},
		{name: "bad max age", env: map[string]string{"SESSION_KEY": "k", "SESSION_MAX_AGE": "forever"}},
		{name: "bad pretty flag", env: map[string]string{"SESSION_KEY": "k", "LOG_PRETTY": "maybe"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, k := range []string{"SESSION_KEY", "GIN_MODE", "ALLOWED_ORIGINS", "SESSION_MAX_AGE", "LOG_PRETTY"} {
				t.Setenv(k, "")
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
