package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	// ErrUserNotFound covers both a missing identifier record and a dangling
	// user reference; callers must not distinguish the two outwardly.
	ErrUserNotFound = errors.New("user not found")

	// ErrPasswordMismatch means the supplied password does not match the
	// stored hash. Presented identically to ErrUserNotFound at the edge.
	ErrPasswordMismatch = errors.New("password verification failed")

	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidSessionToken = errors.New("invalid session token format")
)

// ValidationError reports client-correctable form violations, one message per
// offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, field+": "+msg)
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

// NotUniqueError reports a registration attempt with an identifier that is
// already bound to an account.
type NotUniqueError struct {
	Field string
}

func (e *NotUniqueError) Error() string {
	return e.Field + " already registered"
}

// SessionExpiredError carries the expiry instant of a stale session.
type SessionExpiredError struct {
	ExpiresAt time.Time
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session expired at %s", e.ExpiresAt.UTC().Format(time.RFC3339))
}
