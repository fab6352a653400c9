// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package account

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// SessionTokenExpiry is how long a freshly issued session stays valid.
const SessionTokenExpiry = 24 * time.Hour

// Session binds a bearer token to a user for a bounded validity window.
// A nil DateExpiration means the session never expires.
type Session struct {
	ID             ulid.ULID
	UserID         ulid.ULID
	Token          string
	DateExpiration *time.Time
	Actif          bool
	DateCreation   time.Time
}

// NewSession creates a validated Session. expiresAt may be nil for a session
// without expiry.
func NewSession(userID ulid.ULID, token string, expiresAt *time.Time) (*Session, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if token == "" {
		return nil, oops.Code("SESSION_INVALID_TOKEN").Errorf("token cannot be empty")
	}
	return &Session{
		ID:             ulid.Make(),
		UserID:         userID,
		Token:          token,
		DateExpiration: expiresAt,
		Actif:          true,
		DateCreation:   time.Now(),
	}, nil
}

// IsValidAt reports whether the session is usable at the given time:
// active, and either without expiry or expiring strictly later.
func (s *Session) IsValidAt(t time.Time) bool {
	if !s.Actif {
		return false
	}
	return s.DateExpiration == nil || s.DateExpiration.After(t)
}

// NewSessionToken generates a fresh opaque bearer token. UUIDv4 gives the
// 128-bit-class uniqueness and unguessability the wire protocol requires.
func NewSessionToken() string {
	return uuid.NewString()
}

// SessionRepository manages session persistence.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// ResolveToken returns the session matching token together with its
	// owning user, provided the session is active and unexpired at "now"
	// and the user is active. Returns an error wrapping ErrNotFound when
	// no such row exists.
	ResolveToken(ctx context.Context, token string, now time.Time) (*Session, *User, error)
}
