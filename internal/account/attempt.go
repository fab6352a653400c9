// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package account

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Audit messages recorded in the connection log. The French strings are the
// historical log vocabulary and are matched by operator tooling.
const (
	LogUnknownEmail  = "Email inconnu"
	LogInactiveUser  = "Utilisateur inactif"
	LogWrongPassword = "Mot de passe incorrect"
	LogLoginSuccess  = "Connexion réussie"
	LogTokenSuccess  = "Connexion réussie via middleware RequireAuth"
)

// ConnectionLog is one append-only record of an authentication attempt,
// successful or not. UserID is nil when the email matched no account.
type ConnectionLog struct {
	UserID         *ulid.ULID
	EmailTentative string
	Timestamp      time.Time
	AdresseIP      string
	UserAgent      string
	Succes         bool
	Message        string
}

// ConnectionLogRepository appends audit records. Rows are never read back by
// this flow; they exist for traceability.
type ConnectionLogRepository interface {
	Record(ctx context.Context, entry *ConnectionLog) error
}

// RequestMeta carries per-request client details into the audit log.
type RequestMeta struct {
	IP        string
	UserAgent string
}
