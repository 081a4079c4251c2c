package domain

import "time"

// Session is a server-side login session identified by an opaque bearer token.
// A session is either active (present with expires_at in the future) or
// terminal (deleted, or past expiry and awaiting the sweep).
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry at the given instant.
// A session expires only when now is strictly after expires_at; the exact
// expiry instant still counts as active.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// CreateSession carries the fields legal to set when persisting a new session.
type CreateSession struct {
	UserID       string
	SessionToken string
	ExpiresAt    time.Time
}

// UpdateSession is a merge-update projection: nil fields are left untouched.
// It never carries a primary key or creation timestamp.
type UpdateSession struct {
	SessionToken *string
	ExpiresAt    *time.Time
}
