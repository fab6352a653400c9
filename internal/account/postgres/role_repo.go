// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/account"
)

// RoleRepository implements account.RoleRepository using PostgreSQL.
type RoleRepository struct {
	db DB
}

// NewRoleRepository creates a new RoleRepository.
func NewRoleRepository(db DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// GetByName retrieves a role by its name.
func (r *RoleRepository) GetByName(ctx context.Context, nom string) (*account.Role, error) {
	var idStr string
	err := querier(ctx, r.db).QueryRow(ctx, `
		SELECT id FROM roles WHERE nom = $1
	`, nom).Scan(&idStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ROLE_NOT_FOUND").
			With("nom", nom).
			Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ROLE_GET_BY_NAME_FAILED").
			With("operation", "get role by name").
			With("nom", nom).
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("ROLE_INVALID_ID").
			With("operation", "parse role id").
			With("id", idStr).
			Wrap(err)
	}
	return &account.Role{ID: id, Nom: nom}, nil
}

// AssignToUser binds a role to a user.
func (r *RoleRepository) AssignToUser(ctx context.Context, userID, roleID ulid.ULID) error {
	_, err := querier(ctx, r.db).Exec(ctx, `
		INSERT INTO utilisateur_roles (utilisateur_id, role_id)
		VALUES ($1, $2)
	`, userID.String(), roleID.String())
	if err != nil {
		return oops.Code("ROLE_ASSIGN_FAILED").
			With("operation", "insert utilisateur_role").
			With("user_id", userID.String()).
			With("role_id", roleID.String()).
			Wrap(err)
	}
	return nil
}

// NamesByUser returns the names of all roles assigned to a user, sorted by
// name. An empty slice means the user has no assignments.
func (r *RoleRepository) NamesByUser(ctx context.Context, userID ulid.ULID) ([]string, error) {
	rows, err := querier(ctx, r.db).Query(ctx, `
		SELECT r.nom
		FROM roles r
		JOIN utilisateur_roles ur ON ur.role_id = r.id
		WHERE ur.utilisateur_id = $1
		ORDER BY r.nom
	`, userID.String())
	if err != nil {
		return nil, oops.Code("ROLE_NAMES_FAILED").
			With("operation", "list roles by user").
			With("user_id", userID.String()).
			Wrap(err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var nom string
		if err := rows.Scan(&nom); err != nil {
			return nil, oops.Code("ROLE_SCAN_FAILED").
				With("operation", "scan role name").
				Wrap(err)
		}
		names = append(names, nom)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("ROLE_ROWS_ERROR").
			With("operation", "iterate role names").
			Wrap(err)
	}
	return names, nil
}

// Compile-time interface check.
var _ account.RoleRepository = (*RoleRepository)(nil)
