// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// RegisterInput carries the fields accepted at registration. Nom and Prenom
// are optional.
type RegisterInput struct {
	Email    string
	Password string
	Nom      *string
	Prenom   *string
}

// Registrar creates user accounts.
type Registrar struct {
	tx     Transactor
	users  UserRepository
	roles  RoleRepository
	hasher PasswordHasher
	logger *slog.Logger
}

// NewRegistrar creates a Registrar with a no-op logger.
// Returns an error if any required dependency is nil.
func NewRegistrar(tx Transactor, users UserRepository, roles RoleRepository, hasher PasswordHasher) (*Registrar, error) {
	return NewRegistrarWithLogger(tx, users, roles, hasher, slog.New(slog.DiscardHandler))
}

// NewRegistrarWithLogger creates a Registrar with the provided logger.
// Returns an error if any required dependency is nil.
func NewRegistrarWithLogger(tx Transactor, users UserRepository, roles RoleRepository, hasher PasswordHasher, logger *slog.Logger) (*Registrar, error) {
	if tx == nil {
		return nil, oops.Errorf("transactor is required")
	}
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if roles == nil {
		return nil, oops.Errorf("roles repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Registrar{tx: tx, users: users, roles: roles, hasher: hasher, logger: logger}, nil
}

// Register creates a new user with the default role binding. The user insert
// and the role binding are atomic: a failure in either rolls back both.
//
// The pre-insert existence check is a fast path only; the storage-level
// unique constraint on email is the source of truth, so Register reports
// ErrEmailTaken even when the pre-check passed and the insert tripped the
// constraint under a concurrent registration.
func (r *Registrar) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, oops.Code("VALIDATION_FAILED").
			Wrap(ErrValidation)
	}

	hash, err := r.hasher.Hash(in.Password)
	if err != nil {
		return nil, oops.Code("REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(in.Email, hash, in.Nom, in.Prenom)
	if err != nil {
		return nil, oops.Code("REGISTER_FAILED").
			With("operation", "build user").
			Wrap(err)
	}

	// The transaction must complete even if the client goes away.
	txCtx := context.WithoutCancel(ctx)
	err = r.tx.InTransaction(txCtx, func(ctx context.Context) error {
		exists, err := r.users.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return oops.Code("REGISTER_FAILED").
				With("operation", "check email").
				Wrap(err)
		}
		if exists {
			return oops.Code("EMAIL_TAKEN").Wrap(ErrEmailTaken)
		}

		if err := r.users.Create(ctx, user); err != nil {
			// The unique constraint can trip even after the check
			// passed; surface it as the same conflict.
			if errors.Is(err, ErrEmailTaken) {
				return oops.Code("EMAIL_TAKEN").Wrap(err)
			}
			return oops.Code("REGISTER_FAILED").
				With("operation", "insert user").
				Wrap(err)
		}

		role, err := r.roles.GetByName(ctx, DefaultRoleName)
		if err != nil {
			return oops.Code("REGISTER_FAILED").
				With("operation", "lookup default role").
				Wrap(err)
		}
		if err := r.roles.AssignToUser(ctx, user.ID, role.ID); err != nil {
			return oops.Code("REGISTER_FAILED").
				With("operation", "assign default role").
				Wrap(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "user registered",
		"user_id", user.ID.String(),
		"email", user.Email,
	)
	return user, nil
}
