package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/stackhaven/accounts/internal/account/domain"
	"github.com/stackhaven/accounts/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// BootstrapService creates the initial superuser on an empty store. It is
// the service-shaped equivalent of a createsuperuser admin command.
type BootstrapService struct {
	Users *UserService
	Token string // Pre-configured bootstrap token; empty disables the check
}

// IsBootstrapped reports whether any user exists yet.
func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Users.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the first account as a staff superuser. Refused once any
// user exists, and when the supplied token does not match the configured one.
func (s *BootstrapService) Bootstrap(ctx context.Context, token, email, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if done, err := s.IsBootstrapped(ctx); err != nil {
		return domain.User{}, err
	} else if done {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.User{}, ErrBootstrapAlready
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return domain.User{}, ErrBootstrapUnauthorized
	}

	user, err := s.Users.RegisterSuperuser(ctx, email, password)
	if err != nil {
		return domain.User{}, err
	}

	l.Info("system bootstrapped", "user_id", user.ID)
	return user, nil
}
