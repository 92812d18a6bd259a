package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/learnhub-platform/learnhub-api/utils/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockoutFor(t *testing.T) {
	assert.Zero(t, lockoutFor(4))
	assert.Equal(t, 2*time.Minute, lockoutFor(5))
	assert.Equal(t, time.Hour, lockoutFor(10))
	assert.Equal(t, 24*time.Hour, lockoutFor(25))
}

func TestBruteForceLocksAfterFiveFailures(t *testing.T) {
	rc, mr := testutil.NewRedis(t)
	bf := NewBruteForceProtection(rc)
	ctx := context.Background()

	app := fiber.New()
	app.Post("/login", bf.CheckLockout(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusUnauthorized)
	})

	// app.Test requests come from 0.0.0.0
	ip := "0.0.0.0"
	for i := 0; i < 4; i++ {
		bf.RecordFailedAttempt(ctx, ip)
	}
	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	bf.RecordFailedAttempt(ctx, ip)
	resp, err = app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	mr.FastForward(2*time.Minute + time.Second)
	resp, err = app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLockoutEscalatesAcrossLocks(t *testing.T) {
	rc, mr := testutil.NewRedis(t)
	bf := NewBruteForceProtection(rc)
	ctx := context.Background()
	ip := "10.0.0.9"

	for i := 0; i < 10; i++ {
		bf.RecordFailedAttempt(ctx, ip)
	}
	ttl, err := rc.TTL(ctx, lockKey(ip))
	require.NoError(t, err)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)

	// the hour lock runs out, but the count is kept
	mr.FastForward(time.Hour + time.Second)
	locked, err := rc.Exists(ctx, lockKey(ip))
	require.NoError(t, err)
	assert.False(t, locked)
	count, err := rc.Get(ctx, attemptsKey(ip))
	require.NoError(t, err)
	assert.Equal(t, "10", count)

	for i := 0; i < 15; i++ {
		bf.RecordFailedAttempt(ctx, ip)
	}
	ttl, err = rc.TTL(ctx, lockKey(ip))
	require.NoError(t, err)
	assert.InDelta(t, (24 * time.Hour).Seconds(), ttl.Seconds(), 5)
}

func TestSuccessfulLoginClearsAttempts(t *testing.T) {
	rc, _ := testutil.NewRedis(t)
	bf := NewBruteForceProtection(rc)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		bf.RecordFailedAttempt(ctx, "10.0.0.1")
	}
	locked, err := rc.Exists(ctx, lockKey("10.0.0.1"))
	require.NoError(t, err)
	assert.True(t, locked)

	bf.RecordSuccessfulAttempt(ctx, "10.0.0.1")
	locked, err = rc.Exists(ctx, lockKey("10.0.0.1"))
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestBruteForceRedisDownFailsOpen(t *testing.T) {
	rc, mr := testutil.NewRedis(t)
	bf := NewBruteForceProtection(rc)
	mr.Close()

	app := fiber.New()
	app.Post("/login", bf.CheckLockout(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
