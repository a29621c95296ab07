package domain

import "time"

// Session binds an opaque session token to a user.
// A zero ExpiresAt means the session lives until it is ended.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

// IsExpired reports whether the session has passed its expiration time.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Identity is the resolved actor of a request. The zero value is Anonymous.
type Identity struct {
	UserID    string
	SessionID string
}

// Anonymous is the identity of a request without a valid session.
var Anonymous = Identity{}

// IsAnonymous reports whether no user is bound to the identity.
func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}
