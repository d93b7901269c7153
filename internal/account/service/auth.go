package service

import (
	"context"
	"errors"

	"github.com/stackhaven/accounts/internal/account/domain"
	"github.com/stackhaven/accounts/internal/account/store"
	"github.com/stackhaven/accounts/pkg/cryptox"
	"github.com/stackhaven/accounts/pkg/slogx"
)

// decoyHash is a well-formed argon2id hash that matches no password. It is
// verified when the email is unknown so that lookup failures cost the same
// as wrong passwords.
const decoyHash = "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$D9cVPvXT4Sxrzz62F0N9ZcT6RCd9b9a1WYLscaBGgGk"

// AuthService validates raw credentials against stored hashes. Every failure
// mode (unknown email, wrong password, deactivated account) surfaces as the
// same ErrInvalidCredentials, so callers cannot enumerate users.
type AuthService struct {
	Store store.Store
}

// Authenticate checks email and password and returns the matching user.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyPassword(password, decoyHash)
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Info("authentication failed", "user_id", user.ID)
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if !user.IsActive {
		l.Info("authentication rejected for inactive account", "user_id", user.ID)
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}
