package domain

import "time"

// Token is the opaque bearer token bound one-to-one to a user. The key is
// stored verbatim because issuance is idempotent: a second login must hand
// back the exact same string, which a digest could not reproduce. Tokens do
// not expire.
type Token struct {
	Key       string // crypto-random, base64url
	UserID    string
	CreatedAt time.Time
}
