// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package account

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Profile is a user's public identity plus the names of all assigned roles.
type Profile struct {
	PublicUser
	Roles []string `json:"roles"`
}

// ProfileService aggregates profile data. Reads only, no transaction needed.
type ProfileService struct {
	users UserRepository
	roles RoleRepository
}

// NewProfileService creates a ProfileService.
// Returns an error if any required dependency is nil.
func NewProfileService(users UserRepository, roles RoleRepository) (*ProfileService, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if roles == nil {
		return nil, oops.Errorf("roles repository is required")
	}
	return &ProfileService{users: users, roles: roles}, nil
}

// Get returns the profile for the given user. Roles is an empty slice, never
// nil, when the user has no assignments.
func (p *ProfileService) Get(ctx context.Context, userID ulid.ULID) (*Profile, error) {
	user, err := p.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("USER_NOT_FOUND").Wrap(err)
		}
		return nil, oops.Code("PROFILE_FAILED").
			With("operation", "get user").
			With("user_id", userID.String()).
			Wrap(err)
	}

	names, err := p.roles.NamesByUser(ctx, userID)
	if err != nil {
		return nil, oops.Code("PROFILE_FAILED").
			With("operation", "list roles").
			With("user_id", userID.String()).
			Wrap(err)
	}
	if names == nil {
		names = []string{}
	}

	return &Profile{
		PublicUser: user.Public(),
		Roles:      names,
	}, nil
}
