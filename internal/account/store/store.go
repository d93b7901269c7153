package store

import (
	"context"
	"errors"
	"time"

	"github.com/stackhaven/accounts/internal/account/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and transactions so multi-step operations like idempotent token
// issuance stay atomic.
type Store interface {
	Users() Users
	Tokens() Tokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up by already-normalized email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken; the unique index
	// serializes concurrent creates so a race never yields two rows.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateName mutates the display name and bumps updated_at.
	UpdateName(ctx context.Context, userID string, name string) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// UpdateLastLogin records a successful login.
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error

	// SetActive flips the is_active flag. Inactive users cannot
	// authenticate and their token stops resolving.
	SetActive(ctx context.Context, userID string, active bool) error

	// IsEmpty returns true if there are no users. Used by bootstrap.
	IsEmpty(ctx context.Context) (bool, error)
}

type Tokens interface {
	// GetTokenByKey resolves an opaque token string to its record.
	GetTokenByKey(ctx context.Context, key string) (domain.Token, error)

	// GetTokenByUserID returns the user's token, if one was ever issued.
	GetTokenByUserID(ctx context.Context, userID string) (domain.Token, error)

	// CreateToken stores a freshly minted token. Returns ErrAlreadyExists
	// when the user already holds one (tokens are one per user).
	CreateToken(ctx context.Context, t domain.Token) error

	// DeleteTokenByUserID revokes a user's token.
	DeleteTokenByUserID(ctx context.Context, userID string) error
}
