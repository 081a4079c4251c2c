package ports

import (
	"context"
	"time"

	"github.com/masjidmap/auth-service/internal/core/domain"
)

// SessionService manages the session lifecycle. A user may own any number of
// concurrent sessions (multi-device login is an explicit policy choice);
// rotate/extend address the user's session record and are last-write-wins when
// several exist.
type SessionService interface {
	// Create issues a fresh token and persists a new session expiring one
	// session duration from now.
	Create(ctx context.Context, userID string) (string, error)

	// FetchByToken validates the token shape, resolves the session, rejects
	// expired ones, and returns the owning user.
	FetchByToken(ctx context.Context, token string) (*domain.User, error)

	// RotateToken replaces the session token in place; expiry is untouched.
	RotateToken(ctx context.Context, userID string) (string, error)

	// ExtendExpiry adds one session duration to the session's current expiry,
	// not to now.
	ExtendExpiry(ctx context.Context, userID string) error

	// RotateAndExtend rotates the token and extends the expiry in one
	// merge-update.
	RotateAndExtend(ctx context.Context, userID string) (string, error)

	// Delete removes the session matching the token. Deleting an absent
	// session is not an error.
	Delete(ctx context.Context, token string) error

	// SweepExpired deletes every session past its expiry and reports how many
	// were removed. Meant for a recurring schedule, not the request path.
	SweepExpired(ctx context.Context) (int64, error)
}

// SessionRepository is the store adapter for session records.
type SessionRepository interface {
	Insert(ctx context.Context, session domain.CreateSession) error
	FindByToken(ctx context.Context, token string) (*domain.Session, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Session, error)
	UpdateByUserID(ctx context.Context, userID string, update domain.UpdateSession) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
