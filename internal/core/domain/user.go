package domain

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// IdentifierType discriminates the two kinds of login identifiers. The tag is
// persisted alongside the raw value so account lookups can select the
// comparison field deterministically.
type IdentifierType string

const (
	IdentifierEmail  IdentifierType = "email"
	IdentifierMobile IdentifierType = "mobile"
)

// Identifier is the email-or-mobile value a user authenticates with, distinct
// from their display name.
type Identifier struct {
	Type  IdentifierType `json:"type"`
	Value string         `json:"value"`
}

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateUser carries only the fields legal to set at creation time. Role
// defaults to member and timestamps are assigned by the repository.
type CreateUser struct {
	DisplayName  string
	PasswordHash string
}

// UserIdentifier binds an Identifier to a user record.
type UserIdentifier struct {
	Identifier
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
