// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package httpapi

import (
	"context"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/account"
)

// userKey is the context key under which requireAuth stores the
// authenticated user.
type userKey struct{}

// ContextWithUser returns a context carrying the authenticated user.
func ContextWithUser(ctx context.Context, user *account.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the authenticated user stored by requireAuth.
func UserFromContext(ctx context.Context) (*account.User, bool) {
	user, ok := ctx.Value(userKey{}).(*account.User)
	return user, ok
}
