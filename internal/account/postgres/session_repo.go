// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/account"
)

// SessionRepository implements account.SessionRepository using PostgreSQL.
type SessionRepository struct {
	db DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a new session.
func (r *SessionRepository) Create(ctx context.Context, session *account.Session) error {
	_, err := querier(ctx, r.db).Exec(ctx, `
		INSERT INTO sessions (id, utilisateur_id, token, date_expiration, actif, date_creation)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		session.ID.String(),
		session.UserID.String(),
		session.Token,
		session.DateExpiration,
		session.Actif,
		session.DateCreation,
	)
	if err != nil {
		return oops.Code("SESSION_CREATE_FAILED").
			With("operation", "insert session").
			With("user_id", session.UserID.String()).
			Wrap(err)
	}
	return nil
}

// ResolveToken looks up a live session by token together with its user.
// A session counts as live when it is active, its user is active, and its
// expiration is either unset or after now. account.ErrNotFound covers every
// other case, so callers cannot distinguish an unknown token from a stale one.
func (r *SessionRepository) ResolveToken(ctx context.Context, token string, now time.Time) (*account.Session, *account.User, error) {
	row := querier(ctx, r.db).QueryRow(ctx, `
		SELECT s.id, s.utilisateur_id, s.token, s.date_expiration, s.actif, s.date_creation,
		       u.id, u.email, u.password_hash, u.nom, u.prenom, u.actif, u.date_creation
		FROM sessions s
		JOIN utilisateurs u ON u.id = s.utilisateur_id
		WHERE s.token = $1
		  AND s.actif = TRUE
		  AND u.actif = TRUE
		  AND (s.date_expiration IS NULL OR s.date_expiration > $2)
	`, token, now)

	var (
		sessIDStr      string
		userIDStr      string
		tok            string
		dateExpiration *time.Time
		sessActif      bool
		sessCreated    time.Time

		uIDStr       string
		email        string
		passwordHash string
		nom          *string
		prenom       *string
		uActif       bool
		uCreated     time.Time
	)

	err := row.Scan(
		&sessIDStr, &userIDStr, &tok, &dateExpiration, &sessActif, &sessCreated,
		&uIDStr, &email, &passwordHash, &nom, &prenom, &uActif, &uCreated,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, oops.Code("SESSION_NOT_FOUND").
			Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, nil, oops.Code("SESSION_RESOLVE_FAILED").
			With("operation", "resolve session token").
			Wrap(err)
	}

	sessID, err := ulid.Parse(sessIDStr)
	if err != nil {
		return nil, nil, oops.Code("SESSION_INVALID_ID").
			With("operation", "parse session id").
			With("id", sessIDStr).
			Wrap(err)
	}
	userID, err := ulid.Parse(userIDStr)
	if err != nil {
		return nil, nil, oops.Code("SESSION_INVALID_USER_ID").
			With("operation", "parse session user id").
			With("id", userIDStr).
			Wrap(err)
	}
	uID, err := ulid.Parse(uIDStr)
	if err != nil {
		return nil, nil, oops.Code("USER_INVALID_ID").
			With("operation", "parse user id").
			With("id", uIDStr).
			Wrap(err)
	}

	session := &account.Session{
		ID:             sessID,
		UserID:         userID,
		Token:          tok,
		DateExpiration: dateExpiration,
		Actif:          sessActif,
		DateCreation:   sessCreated,
	}
	user := &account.User{
		ID:           uID,
		Email:        email,
		PasswordHash: passwordHash,
		Nom:          nom,
		Prenom:       prenom,
		Actif:        uActif,
		DateCreation: uCreated,
	}
	return session, user, nil
}

// Compile-time interface check.
var _ account.SessionRepository = (*SessionRepository)(nil)
