package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/masjidmap/auth-service/internal/core/domain"
	"github.com/masjidmap/auth-service/internal/core/ports"
	"github.com/masjidmap/auth-service/internal/pkg/token"
)

// SessionDuration is the lifetime granted at creation and added per extension.
const SessionDuration = time.Hour

// Tokens are 43 characters as generated; the accepted band leaves headroom
// without admitting arbitrary input.
const (
	minTokenLen = 40
	maxTokenLen = 50
)

var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateSessionToken is a cheap format guard applied before any token-based
// lookup, rejecting obviously malformed input before a storage round-trip. It
// is not cryptographic validation.
func ValidateSessionToken(tok string) error {
	if tok == "" {
		return domain.ErrInvalidSessionToken
	}
	if len(tok) < minTokenLen || len(tok) > maxTokenLen {
		return domain.ErrInvalidSessionToken
	}
	if !tokenPattern.MatchString(tok) {
		return domain.ErrInvalidSessionToken
	}
	return nil
}

// SessionService manages session records. Rotate/extend read-then-write the
// user's session without locking; concurrent calls on the same user are
// last-write-wins.
type SessionService struct {
	sessions ports.SessionRepository
	users    ports.UserRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewSessionService(sessions ports.SessionRepository, users ports.UserRepository, log zerolog.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		users:    users,
		log:      log,
		now:      time.Now,
	}
}

// Create issues a fresh token and persists a session expiring one
// SessionDuration from now. Every login creates a new row; existing sessions
// for the user are left alone (multi-device policy).
func (s *SessionService) Create(ctx context.Context, userID string) (string, error) {
	tok, err := token.Generate()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	err = s.sessions.Insert(ctx, domain.CreateSession{
		UserID:       userID,
		SessionToken: tok,
		ExpiresAt:    s.now().Add(SessionDuration).UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}
	return tok, nil
}

// FetchByToken resolves a token to its owning user. A session counts as
// expired only when now is strictly after expires_at.
func (s *SessionService) FetchByToken(ctx context.Context, tok string) (*domain.User, error) {
	if err := ValidateSessionToken(tok); err != nil {
		return nil, err
	}

	sess, err := s.sessions.FindByToken(ctx, tok)
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		return nil, &domain.SessionExpiredError{ExpiresAt: sess.ExpiresAt}
	}

	user, err := s.users.FindUserByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RotateToken replaces the session token in place; expiry is untouched.
func (s *SessionService) RotateToken(ctx context.Context, userID string) (string, error) {
	tok, err := token.Generate()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	if err := s.sessions.UpdateByUserID(ctx, userID, domain.UpdateSession{SessionToken: &tok}); err != nil {
		return "", err
	}
	return tok, nil
}

// ExtendExpiry adds SessionDuration to the session's current expiry, not to
// now, so back-to-back extensions accumulate.
func (s *SessionService) ExtendExpiry(ctx context.Context, userID string) error {
	sess, err := s.sessions.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	expiresAt := sess.ExpiresAt.Add(SessionDuration)
	return s.sessions.UpdateByUserID(ctx, userID, domain.UpdateSession{ExpiresAt: &expiresAt})
}

// RotateAndExtend rotates the token and extends the expiry in one merge-update.
func (s *SessionService) RotateAndExtend(ctx context.Context, userID string) (string, error) {
	sess, err := s.sessions.FindByUserID(ctx, userID)
	if err != nil {
		return "", err
	}

	tok, err := token.Generate()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	expiresAt := sess.ExpiresAt.Add(SessionDuration)
	err = s.sessions.UpdateByUserID(ctx, userID, domain.UpdateSession{
		SessionToken: &tok,
		ExpiresAt:    &expiresAt,
	})
	if err != nil {
		return "", err
	}
	return tok, nil
}

// Delete removes the session matching the token. Deleting an absent session
// is not an error.
func (s *SessionService) Delete(ctx context.Context, tok string) error {
	if err := ValidateSessionToken(tok); err != nil {
		return err
	}
	return s.sessions.DeleteByToken(ctx, tok)
}

// SweepExpired deletes every session past its expiry and returns the count.
func (s *SessionService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	if n > 0 {
		s.log.Info().Int64("deleted", n).Msg("expired sessions swept")
	}
	return n, nil
}
