package models

import "time"

// Token is one entry in a user's set of currently-valid session tokens.
// A signed JWT is only accepted while its row is still present, which is what
// makes logout an actual revocation.
type Token struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
