package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_HOST", "JWT_EXPIRY", "AI_MODEL", "CRON_ENABLED", "RATE_LIMIT_WINDOW"} {
		t.Setenv(key, "")
	}

	env, err := Get()
	require.NoError(t, err)

	assert.Equal(t, 8080, env.PORT)
	assert.Equal(t, "localhost", env.DB_HOST)
	assert.Equal(t, 24*time.Hour, env.JWT_EXPIRY)
	assert.Equal(t, "gpt-4o", env.AI_MODEL)
	assert.Equal(t, time.Minute, env.RATE_LIMIT_WINDOW)
	assert.True(t, env.CRON_ENABLED)
	assert.False(t, env.SpacesConfigured())
}

func TestGetOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY", "30m")
	t.Setenv("CRON_ENABLED", "false")
	t.Setenv("RATE_LIMIT_REQUESTS", "not-a-number")
	t.Setenv("GO_ENV", "production")

	env, err := Get()
	require.NoError(t, err)

	assert.Equal(t, 9090, env.PORT)
	assert.Equal(t, 30*time.Minute, env.JWT_EXPIRY)
	assert.False(t, env.CRON_ENABLED)
	assert.Equal(t, 100, env.RATE_LIMIT_REQUESTS)
	assert.True(t, env.IsProduction())
}
