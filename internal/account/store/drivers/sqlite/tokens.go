package sqlite

import (
	"context"
	"time"

	"github.com/stackhaven/accounts/internal/account/domain"
)

type tokensRepo struct {
	db dbtx
}

func (r *tokensRepo) GetTokenByKey(ctx context.Context, key string) (domain.Token, error) {
	var t domain.Token
	err := r.db.QueryRowContext(ctx,
		`SELECT key, user_id, created_at FROM tokens WHERE key = ?`, key).
		Scan(&t.Key, &t.UserID, &t.CreatedAt)
	if err != nil {
		return domain.Token{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tokensRepo) GetTokenByUserID(ctx context.Context, userID string) (domain.Token, error) {
	var t domain.Token
	err := r.db.QueryRowContext(ctx,
		`SELECT key, user_id, created_at FROM tokens WHERE user_id = ?`, userID).
		Scan(&t.Key, &t.UserID, &t.CreatedAt)
	if err != nil {
		return domain.Token{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tokensRepo) CreateToken(ctx context.Context, t domain.Token) error {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tokens (key, user_id, created_at) VALUES (?, ?, ?)`,
		t.Key, t.UserID, createdAt)
	return mapConstraint(err)
}

func (r *tokensRepo) DeleteTokenByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM tokens WHERE user_id = ?`, userID)
	return err
}
