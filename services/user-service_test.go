package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhammad-Huzaifa24/backend-PMS/models"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a sanitized user", func(t *testing.T) {
		env := newTestEnv(t)

		user, err := env.users.Register(ctx, "Alice", "alice@example.com", "s3cret", models.RoleDeveloper)
		require.NoError(t, err)
		assert.Equal(t, "Alice", user.Name)
		assert.Equal(t, models.RoleDeveloper, user.Role)
		assert.Empty(t, user.Password)
		assert.Empty(t, user.RefreshToken)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.users.Register(ctx, "Alice", "", "s3cret", models.RoleDeveloper)
		assert.True(t, models.IsCode(err, models.ErrCodeInvalid))
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.users.Register(ctx, "Alice", "alice@example.com", "s3cret", models.Role("Admin"))
		assert.True(t, models.IsCode(err, models.ErrCodeInvalid))
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.users.Register(ctx, "Alice", "alice@example.com", "s3cret", models.RoleDeveloper)
		require.NoError(t, err)

		_, err = env.users.Register(ctx, "Alice again", "alice@example.com", "s3cret", models.RoleQA)
		assert.True(t, models.IsCode(err, models.ErrCodeConflict))
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials issue a token pair", func(t *testing.T) {
		env := newTestEnv(t)
		registered := createTestUser(t, env, "Alice", "alice@example.com", models.RoleDeveloper)

		user, pair, err := env.users.Login(ctx, "alice@example.com", testPassword)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.Empty(t, user.Password)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.Equal(t, int64(15*60), pair.ExpiresIn)

		claims, err := env.tokens.VerifyAccess(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, registered.ID.Hex(), claims.ID)
		assert.Equal(t, models.RoleDeveloper, claims.Role)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		createTestUser(t, env, "Alice", "alice@example.com", models.RoleDeveloper)

		_, _, err := env.users.Login(ctx, "alice@example.com", "wrong")
		assert.True(t, models.IsCode(err, models.ErrCodeInvalid))
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		env := newTestEnv(t)

		_, _, err := env.users.Login(ctx, "ghost@example.com", testPassword)
		assert.True(t, models.IsCode(err, models.ErrCodeNotFound))
	})
}

func TestUserService_Logout(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := createTestUser(t, env, "Alice", "alice@example.com", models.RoleDeveloper)

	_, pair, err := env.users.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)

	require.NoError(t, env.users.Logout(ctx, user.ID))

	// the cleared refresh token can no longer be rotated
	_, err = env.tokens.Refresh(ctx, pair.RefreshToken)
	assert.True(t, models.IsCode(err, models.ErrCodeInvalidToken))
}

func TestUserService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("lists only non-managers, sanitized", func(t *testing.T) {
		env := newTestEnv(t)
		createTestUser(t, env, "Mgr", "mgr@example.com", models.RoleManager)
		createTestUser(t, env, "Dev", "dev@example.com", models.RoleDeveloper)
		createTestUser(t, env, "QA", "qa@example.com", models.RoleQA)

		users, err := env.users.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)
		for _, u := range users {
			assert.NotEqual(t, models.RoleManager, u.Role)
			assert.Empty(t, u.Password)
		}
	})

	t.Run("empty result is not found", func(t *testing.T) {
		env := newTestEnv(t)
		createTestUser(t, env, "Mgr", "mgr@example.com", models.RoleManager)

		_, err := env.users.GetAll(ctx)
		assert.True(t, models.IsCode(err, models.ErrCodeNotFound))
	})
}

func TestUserService_GetByID(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := createTestUser(t, env, "Alice", "alice@example.com", models.RoleDeveloper)

	t.Run("returns sanitized user", func(t *testing.T) {
		got, err := env.users.GetByID(ctx, user.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Empty(t, got.Password)
	})

	t.Run("malformed id is invalid", func(t *testing.T) {
		_, err := env.users.GetByID(ctx, "not-an-id")
		assert.True(t, models.IsCode(err, models.ErrCodeInvalid))
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := env.users.GetByID(ctx, "000000000000000000000000")
		assert.True(t, models.IsCode(err, models.ErrCodeNotFound))
	})
}
