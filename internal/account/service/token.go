package service

import (
	"context"
	"errors"
	"time"

	"github.com/stackhaven/accounts/internal/account/domain"
	"github.com/stackhaven/accounts/internal/account/store"
	"github.com/stackhaven/accounts/pkg/cryptox"
	"github.com/stackhaven/accounts/pkg/slogx"
)

// TokenService mints and resolves the opaque bearer tokens. Issuance is
// idempotent: a user holds at most one token and repeated logins return it
// unchanged.
type TokenService struct {
	Store store.Store
}

// IssueOrGet returns the user's bearer token, minting one on first login.
// It also stamps last_login. The tokens.user_id unique index arbitrates
// concurrent first logins; the loser re-reads the winner's token.
func (s *TokenService) IssueOrGet(ctx context.Context, userID string) (string, error) {
	l := slogx.FromContext(ctx)

	var key string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Tokens().GetTokenByUserID(ctx, userID)
		if err == nil {
			key = existing.Key
			return tx.Users().UpdateLastLogin(ctx, userID, time.Now().UTC())
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		fresh, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return err
		}

		err = tx.Tokens().CreateToken(ctx, domain.Token{Key: fresh, UserID: userID})
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost the race; the winner's token is the token.
			winner, err := tx.Tokens().GetTokenByUserID(ctx, userID)
			if err != nil {
				return err
			}
			key = winner.Key
			return tx.Users().UpdateLastLogin(ctx, userID, time.Now().UTC())
		}
		if err != nil {
			return err
		}

		key = fresh
		l.Info("token issued", "user_id", userID)
		return tx.Users().UpdateLastLogin(ctx, userID, time.Now().UTC())
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// Resolve maps an opaque token back to the owning user's ID. Unknown tokens
// and tokens whose owner has been deactivated both fail with
// ErrInvalidToken. Implements httpx.TokenResolver.
func (s *TokenService) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	rec, err := s.Store.Tokens().GetTokenByKey(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}

	user, err := s.Store.Users().GetUserByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	if !user.IsActive {
		return "", ErrInvalidToken
	}

	return user.ID, nil
}

// Revoke deletes a user's token, forcing a fresh issue on next login.
func (s *TokenService) Revoke(ctx context.Context, userID string) error {
	return s.Store.Tokens().DeleteTokenByUserID(ctx, userID)
}
