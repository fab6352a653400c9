// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// Service provides authentication operations: session issuance at login and
// bearer-token validation.
type Service struct {
	tx       Transactor
	users    UserRepository
	sessions SessionRepository
	logs     ConnectionLogRepository
	hasher   PasswordHasher
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a Service with a no-op logger.
// Returns an error if any required dependency is nil.
func NewService(tx Transactor, users UserRepository, sessions SessionRepository, logs ConnectionLogRepository, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(tx, users, sessions, logs, hasher, slog.New(slog.DiscardHandler))
}

// NewServiceWithLogger creates a Service with the provided logger.
// Returns an error if any required dependency is nil.
func NewServiceWithLogger(tx Transactor, users UserRepository, sessions SessionRepository, logs ConnectionLogRepository, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if tx == nil {
		return nil, oops.Errorf("transactor is required")
	}
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Errorf("sessions repository is required")
	}
	if logs == nil {
		return nil, oops.Errorf("connection log repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		tx:       tx,
		users:    users,
		sessions: sessions,
		logs:     logs,
		hasher:   hasher,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Login authenticates a user by email and password and issues a session.
//
// Every outcome writes exactly one connection log row inside the same
// transaction as the decision: failed attempts commit their log row, while an
// infrastructure error rolls the whole attempt back, log row included. The
// response never distinguishes unknown email from wrong password; only the
// log does.
func (s *Service) Login(ctx context.Context, email, password string, meta RequestMeta) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, oops.Code("VALIDATION_FAILED").Wrap(ErrValidation)
	}

	var (
		result  *LoginResult
		outcome error
	)

	// Runs to completion even if the client disconnects mid-request.
	txCtx := context.WithoutCancel(ctx)
	err := s.tx.InTransaction(txCtx, func(ctx context.Context) error {
		now := s.now()

		user, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				outcome = oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
				return s.record(ctx, nil, email, now, meta, false, LogUnknownEmail)
			}
			return oops.Code("LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(err)
		}

		if !user.Actif {
			outcome = oops.Code("AUTH_INACTIVE_USER").Wrap(ErrInactiveUser)
			return s.record(ctx, &user.ID, email, now, meta, false, LogInactiveUser)
		}

		valid, err := s.hasher.Verify(password, user.PasswordHash)
		if err != nil {
			return oops.Code("LOGIN_FAILED").
				With("operation", "verify password").
				Wrap(err)
		}
		if !valid {
			outcome = oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
			return s.record(ctx, &user.ID, email, now, meta, false, LogWrongPassword)
		}

		expiresAt := now.Add(SessionTokenExpiry)
		session, err := NewSession(user.ID, NewSessionToken(), &expiresAt)
		if err != nil {
			return oops.Code("LOGIN_FAILED").
				With("operation", "build session").
				Wrap(err)
		}
		if err := s.sessions.Create(ctx, session); err != nil {
			return oops.Code("LOGIN_FAILED").
				With("operation", "insert session").
				Wrap(err)
		}

		if err := s.record(ctx, &user.ID, email, now, meta, true, LogLoginSuccess); err != nil {
			return err
		}

		result = &LoginResult{
			Token:     session.Token,
			ExpiresAt: expiresAt,
			User:      user,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if outcome != nil {
		s.logger.InfoContext(ctx, "login refused", "email", email)
		return nil, outcome
	}

	s.logger.InfoContext(ctx, "login succeeded",
		"user_id", result.User.ID.String(),
		"email", email,
	)
	return result, nil
}

// Authenticate resolves a bearer token to its user.
//
// A match writes one successful connection log row in the same transaction as
// the lookup, so "session looked valid" and "log says it was used" never
// diverge. A non-match writes nothing and reports ErrInvalidToken.
func (s *Service) Authenticate(ctx context.Context, token string, meta RequestMeta) (*User, error) {
	if token == "" {
		return nil, oops.Code("AUTH_MISSING_TOKEN").Wrap(ErrMissingToken)
	}

	var (
		user    *User
		outcome error
	)

	txCtx := context.WithoutCancel(ctx)
	err := s.tx.InTransaction(txCtx, func(ctx context.Context) error {
		now := s.now()

		_, resolved, err := s.sessions.ResolveToken(ctx, token, now)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				outcome = oops.Code("AUTH_INVALID_TOKEN").Wrap(ErrInvalidToken)
				// No audit row for invalid tokens; rolling back
				// the empty transaction is intentional.
				return outcome
			}
			return oops.Code("AUTH_VALIDATE_FAILED").
				With("operation", "resolve token").
				Wrap(err)
		}

		if err := s.record(ctx, &resolved.ID, resolved.Email, now, meta, true, LogTokenSuccess); err != nil {
			return err
		}

		user = resolved
		return nil
	})
	if outcome != nil {
		return nil, outcome
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// record appends one connection log row inside the current transaction.
func (s *Service) record(ctx context.Context, userID *ulid.ULID, email string, now time.Time, meta RequestMeta, succes bool, message string) error {
	entry := &ConnectionLog{
		UserID:         userID,
		EmailTentative: email,
		Timestamp:      now,
		AdresseIP:      meta.IP,
		UserAgent:      meta.UserAgent,
		Succes:         succes,
		Message:        message,
	}
	if err := s.logs.Record(ctx, entry); err != nil {
		return oops.Code("AUDIT_LOG_FAILED").
			With("operation", "record connection attempt").
			With("message", message).
			Wrap(err)
	}
	return nil
}
