package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/learnhub-platform/learnhub-api/utils/cache"
	"github.com/learnhub-platform/learnhub-api/utils/response"
)

const failedAttemptWindow = 15 * time.Minute

// BruteForceProtection throttles repeated failed logins per client IP.
type BruteForceProtection struct {
	redisCache *cache.RedisCache
}

func NewBruteForceProtection(redisCache *cache.RedisCache) *BruteForceProtection {
	return &BruteForceProtection{redisCache: redisCache}
}

func lockKey(ip string) string     { return fmt.Sprintf("brute_force:lock:%s", ip) }
func attemptsKey(ip string) string { return fmt.Sprintf("brute_force:attempts:%s", ip) }

// lockoutFor returns how long an IP is locked after n failures in the window.
func lockoutFor(n int64) time.Duration {
	switch {
	case n >= 25:
		return 24 * time.Hour
	case n >= 10:
		return time.Hour
	case n >= 5:
		return 2 * time.Minute
	}
	return 0
}

// CheckLockout rejects requests from a locked IP with 429 and Retry-After.
// Redis failures let the request through.
func (b *BruteForceProtection) CheckLockout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := lockKey(c.IP())

		locked, err := b.redisCache.Exists(c.UserContext(), key)
		if err != nil {
			log.Warnf("[AUTH] brute force check skipped: %v", err)
			return c.Next()
		}
		if !locked {
			return c.Next()
		}

		ttl, _ := b.redisCache.TTL(c.UserContext(), key)
		retryAfter := int(ttl.Seconds())
		if retryAfter <= 0 {
			retryAfter = 60
		}

		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		return response.TooManyRequests(c, fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter))
	}
}

// RecordFailedAttempt counts a failure and applies progressive lockouts.
func (b *BruteForceProtection) RecordFailedAttempt(ctx context.Context, ip string) {
	attempts, err := b.redisCache.IncrementWithTTL(ctx, attemptsKey(ip), failedAttemptWindow)
	if err != nil {
		log.Warnf("[AUTH] failed to record login attempt: %v", err)
		return
	}

	if d := lockoutFor(attempts); d > 0 {
		if err := b.redisCache.Set(ctx, lockKey(ip), "locked", d); err != nil {
			log.Warnf("[AUTH] failed to lock %s: %v", ip, err)
		}
		// the count must outlive the lock so the next tier stays reachable
		if err := b.redisCache.Expire(ctx, attemptsKey(ip), d+failedAttemptWindow); err != nil {
			log.Warnf("[AUTH] failed to extend attempt window for %s: %v", ip, err)
		}
	}
}

// RecordSuccessfulAttempt clears the failure counter and any lock.
func (b *BruteForceProtection) RecordSuccessfulAttempt(ctx context.Context, ip string) {
	if err := b.redisCache.Delete(ctx, attemptsKey(ip), lockKey(ip)); err != nil {
		log.Warnf("[AUTH] failed to clear login attempts: %v", err)
	}
}
