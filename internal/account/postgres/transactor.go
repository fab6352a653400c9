// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package postgres

import (
	"context"

	"github.com/samber/oops"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/account"
)

// Transactor implements account.Transactor on a pgx connection source. It
// stores the active pgx.Tx in context so that repository methods called from
// inside fn participate in the same transaction.
type Transactor struct {
	db BeginDB
}

// NewTransactor creates a Transactor backed by the given connection source.
func NewTransactor(db BeginDB) *Transactor {
	return &Transactor{db: db}
}

// InTransaction begins a transaction, stores it in context, and calls fn.
// If fn returns nil, the transaction is committed. Otherwise it is rolled
// back. Rollback also runs on panic and on commit failure.
func (t *Transactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return oops.Code("TX_BEGIN_FAILED").Wrap(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return oops.Code("TX_COMMIT_FAILED").Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ account.Transactor = (*Transactor)(nil)
