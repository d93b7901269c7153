package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stackhaven/accounts/internal/account/store"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user with public fields set", func(t *testing.T) {
		svc := &UserService{Store: newTestStore(t)}

		user, err := svc.Register(ctx, "alice@example.com", "secret123", "Alice")
		require.NoError(t, err)
		require.NotEmpty(t, user.ID)
		require.Equal(t, "alice@example.com", user.Email)
		require.Equal(t, "Alice", user.Name)
		require.True(t, user.IsActive)
		require.False(t, user.IsStaff)
		require.False(t, user.IsSuperuser)
		require.Nil(t, user.LastLogin)
	})

	t.Run("stores the password only as a hash", func(t *testing.T) {
		svc := &UserService{Store: newTestStore(t)}

		user, err := svc.Register(ctx, "bob@example.com", "secret123", "Bob")
		require.NoError(t, err)

		stored, err := svc.Store.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotEqual(t, "secret123", stored.PasswordHash)
		require.True(t, strings.HasPrefix(stored.PasswordHash, "$argon2id$"))
	})

	t.Run("lowercases the email", func(t *testing.T) {
		svc := &UserService{Store: newTestStore(t)}

		user, err := svc.Register(ctx, "Carol@EXAMPLE.Com", "secret123", "Carol")
		require.NoError(t, err)
		require.Equal(t, "carol@example.com", user.Email)
	})

	t.Run("rejects a duplicate email in any case", func(t *testing.T) {
		svc := &UserService{Store: newTestStore(t)}

		first, err := svc.Register(ctx, "dave@example.com", "secret123", "Dave")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "DAVE@example.com", "other-secret", "Dave Again")
		require.Error(t, err)

		ve, ok := AsValidationError(err)
		require.True(t, ok)
		require.Contains(t, ve.Fields, "email")

		// The original account is untouched
		stored, err := svc.Store.Users().GetUserByEmail(ctx, "dave@example.com")
		require.NoError(t, err)
		require.Equal(t, first.ID, stored.ID)
	})

	t.Run("rejects a short password without creating a record", func(t *testing.T) {
		svc := &UserService{Store: newTestStore(t)}

		_, err := svc.Register(ctx, "eve@example.com", "pw", "Eve")
		require.Error(t, err)

		ve, ok := AsValidationError(err)
		require.True(t, ok)
		require.Contains(t, ve.Fields, "password")

		_, err = svc.Store.Users().GetUserByEmail(ctx, "eve@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("counts password length in characters, not bytes", func(t *testing.T) {
		svc := &UserService{Store: newTestStore(t)}

		// 3 characters but 6 bytes
		_, err := svc.Register(ctx, "grace@example.com", "ñññ", "Grace")
		require.Error(t, err)

		ve, ok := AsValidationError(err)
		require.True(t, ok)
		require.Contains(t, ve.Fields, "password")

		_, err = svc.Store.Users().GetUserByEmail(ctx, "grace@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)

		// 5 characters is enough regardless of encoding width
		_, err = svc.Register(ctx, "grace@example.com", "ñññññ", "Grace")
		require.NoError(t, err)
	})

	t.Run("rejects a blank or malformed email", func(t *testing.T) {
		svc := &UserService{Store: newTestStore(t)}

		for _, email := range []string{"", "not-an-email", "@example.com", "frank@", "two@@example.com"} {
			_, err := svc.Register(ctx, email, "secret123", "Frank")
			require.Error(t, err, "email %q should be rejected", email)

			ve, ok := AsValidationError(err)
			require.True(t, ok)
			require.Contains(t, ve.Fields, "email")
		}
	})

	t.Run("reports both fields when both are bad", func(t *testing.T) {
		svc := &UserService{Store: newTestStore(t)}

		_, err := svc.Register(ctx, "", "pw", "")
		require.Error(t, err)

		ve, ok := AsValidationError(err)
		require.True(t, ok)
		require.Contains(t, ve.Fields, "email")
		require.Contains(t, ve.Fields, "password")
	})
}

func TestRegisterSuperuser(t *testing.T) {
	ctx := context.Background()
	svc := &UserService{Store: newTestStore(t)}

	user, err := svc.RegisterSuperuser(ctx, "root@example.com", "secret123")
	require.NoError(t, err)
	require.True(t, user.IsStaff)
	require.True(t, user.IsSuperuser)
	require.True(t, user.IsActive)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	str := func(s string) *string { return &s }

	t.Run("updates name only", func(t *testing.T) {
		svc := &UserService{Store: newTestStore(t)}
		user, err := svc.Register(ctx, "alice@example.com", "secret123", "Alice")
		require.NoError(t, err)

		updated, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Name: str("Alice B")})
		require.NoError(t, err)
		require.Equal(t, "Alice B", updated.Name)
		require.Equal(t, user.Email, updated.Email)
		require.Equal(t, user.PasswordHash, updated.PasswordHash)
	})

	t.Run("re-hashes a new password", func(t *testing.T) {
		svc := &UserService{Store: newTestStore(t)}
		user, err := svc.Register(ctx, "bob@example.com", "secret123", "Bob")
		require.NoError(t, err)

		updated, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Password: str("newsecret")})
		require.NoError(t, err)
		require.NotEqual(t, "newsecret", updated.PasswordHash)
		require.NotEqual(t, user.PasswordHash, updated.PasswordHash)
	})

	t.Run("rejects a short new password", func(t *testing.T) {
		svc := &UserService{Store: newTestStore(t)}
		user, err := svc.Register(ctx, "carol@example.com", "secret123", "Carol")
		require.NoError(t, err)

		_, err = svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Password: str("pw")})
		require.Error(t, err)

		ve, ok := AsValidationError(err)
		require.True(t, ok)
		require.Contains(t, ve.Fields, "password")

		// Old hash survives
		stored, err := svc.Store.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, user.PasswordHash, stored.PasswordHash)
	})

	t.Run("counts a new password's length in characters", func(t *testing.T) {
		svc := &UserService{Store: newTestStore(t)}
		user, err := svc.Register(ctx, "frank@example.com", "secret123", "Frank")
		require.NoError(t, err)

		// 3 characters but 6 bytes
		_, err = svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Password: str("ñññ")})
		require.Error(t, err)

		ve, ok := AsValidationError(err)
		require.True(t, ok)
		require.Contains(t, ve.Fields, "password")

		stored, err := svc.Store.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, user.PasswordHash, stored.PasswordHash)
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		svc := &UserService{Store: newTestStore(t)}
		user, err := svc.Register(ctx, "dave@example.com", "secret123", "Dave")
		require.NoError(t, err)

		updated, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{})
		require.NoError(t, err)
		require.Equal(t, user.Name, updated.Name)
		require.Equal(t, user.PasswordHash, updated.PasswordHash)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := &UserService{Store: newTestStore(t)}

		_, err := svc.UpdateProfile(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV", ProfileUpdate{Name: str("Ghost")})
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	require.Equal(t, "a@b.com", NormalizeEmail("  A@B.Com "))
	require.Equal(t, "a@b.com", NormalizeEmail("a@b.com"))
	require.Equal(t, "", NormalizeEmail("   "))
}
