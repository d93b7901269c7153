package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/stackhaven/accounts/internal/account/domain"
	"github.com/stackhaven/accounts/internal/account/store"
	"github.com/stackhaven/accounts/pkg/cryptox"
	"github.com/stackhaven/accounts/pkg/idx"
	"github.com/stackhaven/accounts/pkg/slogx"
)

// UserService owns account creation and profile maintenance. Passwords only
// ever pass through here on the way into an argon2 hash; they are never
// persisted or logged in the clear.
type UserService struct {
	Store store.Store
}

// ProfileUpdate is a partial update; nil fields are left untouched.
type ProfileUpdate struct {
	Name     *string
	Password *string
}

// NormalizeEmail lowercases and trims an email address. All lookups and
// storage go through this, which is what makes uniqueness case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a regular account. The email must be unused (any case)
// and the password at least MinPasswordLength characters.
func (s *UserService) Register(ctx context.Context, email, password, name string) (domain.User, error) {
	return s.create(ctx, email, password, name, false)
}

// RegisterSuperuser creates a staff superuser account. Same validation as
// Register.
func (s *UserService) RegisterSuperuser(ctx context.Context, email, password string) (domain.User, error) {
	return s.create(ctx, email, password, "", true)
}

func (s *UserService) create(ctx context.Context, email, password, name string, super bool) (domain.User, error) {
	l := slogx.FromContext(ctx)

	email = NormalizeEmail(email)
	if fields := validateCredentials(email, password); len(fields) > 0 {
		return domain.User{}, &ValidationError{Fields: fields}
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      super,
		IsSuperuser:  super,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// The unique index is the authority here; a concurrent
			// registration race lands in this branch too.
			return domain.User{}, &ValidationError{Fields: map[string]string{
				"email": "a user with this email already exists",
			}}
		}
		return domain.User{}, err
	}

	l.Info("user created", "user_id", user.ID, "superuser", super)
	return s.Store.Users().GetUserByID(ctx, user.ID)
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// UpdateProfile applies a partial profile update. A new password is length
// checked and re-hashed; it never reaches the store verbatim.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if upd.Password != nil && utf8.RuneCountInString(*upd.Password) < MinPasswordLength {
		return domain.User{}, &ValidationError{Fields: map[string]string{
			"password": "ensure this field has at least 5 characters",
		}}
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByID(ctx, userID); err != nil {
			return err
		}
		if upd.Name != nil {
			if err := tx.Users().UpdateName(ctx, userID, *upd.Name); err != nil {
				return err
			}
		}
		if upd.Password != nil {
			hash, err := cryptox.HashPassword(*upd.Password)
			if err != nil {
				return err
			}
			if err := tx.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	if upd.Password != nil {
		l.Info("password changed", "user_id", userID)
	}
	return s.Store.Users().GetUserByID(ctx, userID)
}

// validateCredentials returns per-field problems for a registration payload.
// The email is expected to be normalized already.
func validateCredentials(email, password string) map[string]string {
	fields := make(map[string]string)

	switch {
	case email == "":
		fields["email"] = "this field may not be blank"
	case !looksLikeEmail(email):
		fields["email"] = "enter a valid email address"
	}

	// Rune count, not byte length: the minimum is in characters
	if utf8.RuneCountInString(password) < MinPasswordLength {
		fields["password"] = "ensure this field has at least 5 characters"
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// looksLikeEmail performs a shallow shape check: one @ with something on
// both sides and no whitespace. Deliverability is not our problem.
func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	if strings.ContainsAny(s, " \t") {
		return false
	}
	return !strings.Contains(s[at+1:], "@")
}
