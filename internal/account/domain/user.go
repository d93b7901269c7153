package domain

import "time"

type User struct {
	ID           string
	Email        string // normalized to lowercase, unique
	Name         string // optional display name
	PasswordHash string // argon2id encoded, never plaintext
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	LastLogin    *time.Time // nullable, set on successful token obtain
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
