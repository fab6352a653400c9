// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package postgres

import (
	"context"

	"github.com/samber/oops"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/account"
)

// ConnectionLogRepository implements account.ConnectionLogRepository using
// PostgreSQL.
type ConnectionLogRepository struct {
	db DB
}

// NewConnectionLogRepository creates a new ConnectionLogRepository.
func NewConnectionLogRepository(db DB) *ConnectionLogRepository {
	return &ConnectionLogRepository{db: db}
}

// Record inserts a connection attempt row. The user id is null for attempts
// against unknown emails.
func (r *ConnectionLogRepository) Record(ctx context.Context, entry *account.ConnectionLog) error {
	var userID *string
	if entry.UserID != nil {
		s := entry.UserID.String()
		userID = &s
	}

	_, err := querier(ctx, r.db).Exec(ctx, `
		INSERT INTO logs_connexion (utilisateur_id, email_tentative, date_heure, adresse_ip, user_agent, succes, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		userID,
		entry.EmailTentative,
		entry.Timestamp,
		entry.AdresseIP,
		entry.UserAgent,
		entry.Succes,
		entry.Message,
	)
	if err != nil {
		return oops.Code("CONNECTION_LOG_FAILED").
			With("operation", "insert log_connexion").
			With("email", entry.EmailTentative).
			Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ account.ConnectionLogRepository = (*ConnectionLogRepository)(nil)
