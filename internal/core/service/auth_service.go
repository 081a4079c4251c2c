package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/masjidmap/auth-service/internal/core/domain"
	"github.com/masjidmap/auth-service/internal/core/ports"
	"github.com/masjidmap/auth-service/internal/pkg/password"
)

// AuthService implements the registration and authentication flows.
type AuthService struct {
	users  ports.UserRepository
	hasher *password.Hasher
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, hasher *password.Hasher, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, log: log}
}

// Register validates the form, enforces identifier uniqueness, hashes the
// password, and creates the user plus its identifier record in one
// transaction. Returns the new user's id.
//
// The pre-check and the create are two round-trips; the storage-level unique
// index on (identifier_type, identifier_value) is the authoritative signal,
// and a duplicate key inside the transaction surfaces as the same
// NotUniqueError the pre-check produces.
func (s *AuthService) Register(ctx context.Context, name string, identifier domain.Identifier, pw string) (string, error) {
	if err := validateRegistration(name, identifier, pw); err != nil {
		return "", err
	}

	_, err := s.users.FindIdentifier(ctx, identifier)
	switch {
	case err == nil:
		return "", &domain.NotUniqueError{Field: string(identifier.Type)}
	case !errors.Is(err, domain.ErrUserNotFound):
		return "", fmt.Errorf("check identifier uniqueness: %w", err)
	}

	hash, err := s.hasher.Hash([]byte(pw))
	if err != nil {
		s.log.Error().Err(err).Msg("password hashing failed")
		return "", fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.users.CreateWithIdentifier(ctx, domain.CreateUser{
		DisplayName:  name,
		PasswordHash: hash,
	}, identifier)
	if err != nil {
		var notUnique *domain.NotUniqueError
		if errors.As(err, &notUnique) {
			return "", err
		}
		return "", fmt.Errorf("create user with identifier: %w", err)
	}

	return userID, nil
}

// Authenticate resolves the identifier to a user and verifies the password.
// A missing identifier, a dangling user reference, and a wrong password are
// all client-correctable; the HTTP layer collapses them into one generic
// "invalid credentials" message so accounts cannot be enumerated.
func (s *AuthService) Authenticate(ctx context.Context, identifier domain.Identifier, pw string) (string, error) {
	ident, err := s.users.FindIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("look up identifier: %w", err)
	}

	user, err := s.users.FindUserByID(ctx, ident.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Identifier points at a deleted user. A data-integrity anomaly,
			// but outwardly indistinguishable from an unknown identifier.
			s.log.Warn().Str("user_id", ident.UserID).Msg("identifier references missing user")
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("fetch user for identifier: %w", err)
	}

	if err := s.hasher.Verify([]byte(pw), user.PasswordHash); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			// Unparseable stored hash. Logged in full here; the caller sees
			// the same failure as a mismatch so the two halves are
			// indistinguishable outward.
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("stored password hash rejected by verifier")
		}
		return "", domain.ErrPasswordMismatch
	}

	return user.ID, nil
}
