package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhammad-Huzaifa24/backend-PMS/models"
)

func TestTokenService_Issue(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := createTestUser(t, env, "Alice", "alice@example.com", models.RoleDeveloper)

	pair, err := env.tokens.Issue(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(15*60), pair.ExpiresIn)

	claims, err := env.tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.ID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, models.RoleDeveloper, claims.Role)

	// the refresh token is persisted on the user record
	stored, err := env.users.GetByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, stored.RefreshToken) // sanitized view
	env.db.mu.Lock()
	assert.Equal(t, pair.RefreshToken, env.db.users[user.ID].RefreshToken)
	env.db.mu.Unlock()
}

func TestTokenService_VerifyAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("garbage token is invalid", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.tokens.VerifyAccess("not-a-token")
		assert.True(t, models.IsCode(err, models.ErrCodeInvalidToken))
	})

	t.Run("token signed with another secret is invalid", func(t *testing.T) {
		env := newTestEnv(t)
		user := createTestUser(t, env, "Alice", "alice@example.com", models.RoleDeveloper)

		other := NewTokenService(&memUserRepo{db: env.db}, "other-secret", "other-refresh", 15*time.Minute, 24*time.Hour)
		pair, err := other.Issue(ctx, user.ID)
		require.NoError(t, err)

		_, err = env.tokens.VerifyAccess(pair.AccessToken)
		assert.True(t, models.IsCode(err, models.ErrCodeInvalidToken))
	})

	t.Run("expired token is invalid", func(t *testing.T) {
		env := newTestEnv(t)
		user := createTestUser(t, env, "Alice", "alice@example.com", models.RoleDeveloper)

		expired := NewTokenService(&memUserRepo{db: env.db}, "test-access-secret", "test-refresh-secret", -time.Minute, 24*time.Hour)
		pair, err := expired.Issue(ctx, user.ID)
		require.NoError(t, err)

		_, err = env.tokens.VerifyAccess(pair.AccessToken)
		assert.True(t, models.IsCode(err, models.ErrCodeInvalidToken))
	})
}

func TestTokenService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("rotation invalidates the previous refresh token", func(t *testing.T) {
		env := newTestEnv(t)
		user := createTestUser(t, env, "Alice", "alice@example.com", models.RoleDeveloper)

		first, err := env.tokens.Issue(ctx, user.ID)
		require.NoError(t, err)

		second, err := env.tokens.Refresh(ctx, first.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, second.AccessToken)

		_, err = env.tokens.Refresh(ctx, first.RefreshToken)
		assert.True(t, models.IsCode(err, models.ErrCodeInvalidToken))

		third, err := env.tokens.Refresh(ctx, second.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, third.RefreshToken)
	})

	t.Run("garbage token is invalid", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.tokens.Refresh(ctx, "not-a-token")
		assert.True(t, models.IsCode(err, models.ErrCodeInvalidToken))
	})

	t.Run("token for a deleted user is not found", func(t *testing.T) {
		env := newTestEnv(t)
		user := createTestUser(t, env, "Alice", "alice@example.com", models.RoleDeveloper)

		pair, err := env.tokens.Issue(ctx, user.ID)
		require.NoError(t, err)

		env.db.mu.Lock()
		delete(env.db.users, user.ID)
		env.db.mu.Unlock()

		_, err = env.tokens.Refresh(ctx, pair.RefreshToken)
		assert.True(t, models.IsCode(err, models.ErrCodeNotFound))
	})
}
