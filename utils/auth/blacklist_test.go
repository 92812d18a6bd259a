package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/utils/auth"
	"github.com/learnhub-platform/learnhub-api/utils/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokeAndCheckToken(t *testing.T) {
	db := testutil.NewDB(t)
	svc := auth.NewBlacklistService(db)
	ctx := context.Background()

	revoked, err := svc.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.RevokeToken(ctx, "jti-1", 1, time.Now().Add(time.Hour), "logout"))
	require.NoError(t, svc.RevokeToken(ctx, "jti-1", 1, time.Now().Add(time.Hour), "logout"))

	revoked, err = svc.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestCleanupExpiredTokens(t *testing.T) {
	db := testutil.NewDB(t)
	svc := auth.NewBlacklistService(db)
	ctx := context.Background()

	require.NoError(t, svc.RevokeToken(ctx, "old", 1, time.Now().Add(-time.Hour), "logout"))
	require.NoError(t, svc.RevokeToken(ctx, "live", 1, time.Now().Add(time.Hour), "logout"))

	deleted, err := svc.CleanupExpiredTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var count int64
	require.NoError(t, db.Model(&model.JWTTokenBlacklist{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRevokeAllUserTokensBumpsVersion(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "bob", model.RoleStudent)

	require.NoError(t, auth.NewBlacklistService(db).RevokeAllUserTokens(context.Background(), u.ID))

	var reloaded model.User
	require.NoError(t, db.First(&reloaded, u.ID).Error)
	assert.Equal(t, u.TokenVersion+1, reloaded.TokenVersion)
}
