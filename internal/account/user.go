// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package account

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// User represents a stored account. Field names follow the historical
// schema: nom/prenom are the last and first names, actif the enabled flag.
type User struct {
	ID           ulid.ULID
	Email        string
	PasswordHash string
	Nom          *string
	Prenom       *string
	Actif        bool
	DateCreation time.Time
}

// NewUser creates a validated User with a fresh ID and actif set to true.
// Nom and prenom are optional and may be nil.
func NewUser(email, passwordHash string, nom, prenom *string) (*User, error) {
	if email == "" {
		return nil, oops.Code("USER_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if passwordHash == "" {
		return nil, oops.Code("USER_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	return &User{
		ID:           ulid.Make(),
		Email:        email,
		PasswordHash: passwordHash,
		Nom:          nom,
		Prenom:       prenom,
		Actif:        true,
		DateCreation: time.Now(),
	}, nil
}

// PublicUser is the client-facing projection of a User. It never carries the
// password hash.
type PublicUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Nom          *string   `json:"nom"`
	Prenom       *string   `json:"prenom"`
	DateCreation time.Time `json:"date_creation"`
}

// Public returns the client-facing projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID.String(),
		Email:        u.Email,
		Nom:          u.Nom,
		Prenom:       u.Prenom,
		DateCreation: u.DateCreation,
	}
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user. Returns an error wrapping ErrEmailTaken
	// when the email uniqueness constraint is violated.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByEmail retrieves a user by email. The match is case-sensitive,
	// emails are compared exactly as stored.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail reports whether a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// Transactor runs a function inside one storage transaction. If fn returns
// nil the transaction is committed, otherwise it is rolled back.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
