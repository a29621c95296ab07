package auth

import "time"

// SessionClaims are the claims carried inside an encrypted session token.
type SessionClaims struct {
	SessionID string
	UserID    string
	IssuedAt  time.Time
	// ExpiresAt is zero when the session never expires.
	ExpiresAt time.Time
}
