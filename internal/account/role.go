// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package account

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// DefaultRoleName is the role bound to every new account at registration.
const DefaultRoleName = "user"

// Role is static reference data; this flow reads and assigns roles but never
// manages them.
type Role struct {
	ID  ulid.ULID
	Nom string
}

// RoleRepository manages role reference data and user-role bindings.
type RoleRepository interface {
	// GetByName retrieves a role by its name.
	GetByName(ctx context.Context, nom string) (*Role, error)

	// AssignToUser binds a role to a user.
	AssignToUser(ctx context.Context, userID, roleID ulid.ULID) error

	// NamesByUser returns the names of all roles assigned to a user,
	// sorted by name. Returns an empty slice when there are none.
	NamesByUser(ctx context.Context, userID ulid.ULID) ([]string, error)
}
