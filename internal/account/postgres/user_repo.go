// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/account"
)

// UserRepository implements account.UserRepository using PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores a new user. A unique-constraint violation on email is
// reported as account.ErrEmailTaken; the constraint is the source of truth
// for email uniqueness regardless of any application-level pre-check.
func (r *UserRepository) Create(ctx context.Context, user *account.User) error {
	_, err := querier(ctx, r.db).Exec(ctx, `
		INSERT INTO utilisateurs (id, email, password_hash, nom, prenom, actif, date_creation)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		user.ID.String(),
		user.Email,
		user.PasswordHash,
		user.Nom,
		user.Prenom,
		user.Actif,
		user.DateCreation,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("EMAIL_TAKEN").
				With("email", user.Email).
				Wrap(account.ErrEmailTaken)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert utilisateur").
			With("email", user.Email).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id ulid.ULID) (*account.User, error) {
	row := querier(ctx, r.db).QueryRow(ctx, `
		SELECT id, email, password_hash, nom, prenom, actif, date_creation
		FROM utilisateurs
		WHERE id = $1
	`, id.String())

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("id", id.String()).
			Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_ID_FAILED").
			With("operation", "get user by id").
			With("id", id.String()).
			Wrap(err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email, compared exactly as stored.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*account.User, error) {
	row := querier(ctx, r.db).QueryRow(ctx, `
		SELECT id, email, password_hash, nom, prenom, actif, date_creation
		FROM utilisateurs
		WHERE email = $1
	`, email)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("email", email).
			Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_EMAIL_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}
	return user, nil
}

// ExistsByEmail reports whether a user with the given email exists.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := querier(ctx, r.db).QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM utilisateurs WHERE email = $1)
	`, email).Scan(&exists)
	if err != nil {
		return false, oops.Code("USER_EXISTS_FAILED").
			With("operation", "check email existence").
			Wrap(err)
	}
	return exists, nil
}

// scanUser scans a single row into a User.
// Callers are responsible for handling pgx.ErrNoRows.
func scanUser(row pgx.Row) (*account.User, error) {
	var (
		idStr        string
		email        string
		passwordHash string
		nom          *string
		prenom       *string
		actif        bool
		dateCreation time.Time
	)

	err := row.Scan(&idStr, &email, &passwordHash, &nom, &prenom, &actif, &dateCreation)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("USER_SCAN_FAILED").
			With("operation", "scan utilisateur").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("USER_INVALID_ID").
			With("operation", "parse user id").
			With("id", idStr).
			Wrap(err)
	}

	return &account.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Nom:          nom,
		Prenom:       prenom,
		Actif:        actif,
		DateCreation: dateCreation,
	}, nil
}

// Compile-time interface check.
var _ account.UserRepository = (*UserRepository)(nil)
