package ports

import (
	"context"

	"github.com/masjidmap/auth-service/internal/core/domain"
)

// AuthService exposes the registration and authentication flows.
type AuthService interface {
	// Register validates the input, enforces identifier uniqueness, hashes the
	// password, and atomically creates the user plus its identifier record.
	// Returns the new user's id.
	Register(ctx context.Context, name string, identifier domain.Identifier, password string) (string, error)

	// Authenticate resolves the identifier and verifies the password against
	// the stored hash. Returns the owning user's id.
	Authenticate(ctx context.Context, identifier domain.Identifier, password string) (string, error)
}

// UserRepository is the narrow store adapter for user identity records.
type UserRepository interface {
	// CreateWithIdentifier persists the user and its identifier record as one
	// multi-statement transaction: either both rows exist afterwards or
	// neither does. A storage-level duplicate on the identifier surfaces as
	// *domain.NotUniqueError.
	CreateWithIdentifier(ctx context.Context, user domain.CreateUser, identifier domain.Identifier) (string, error)

	// FindIdentifier looks up an identifier record by exact (type, value)
	// match. Returns domain.ErrUserNotFound when absent.
	FindIdentifier(ctx context.Context, identifier domain.Identifier) (*domain.UserIdentifier, error)

	// FindUserByID fetches a user by primary key. Returns
	// domain.ErrUserNotFound when absent.
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
}
