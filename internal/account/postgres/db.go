// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

// Package postgres provides PostgreSQL implementations of the account
// repositories.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the query surface the repositories need. It is satisfied by
// *pgxpool.Pool, pgx.Tx, and pgxmock pools.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BeginDB is a DB that can open transactions.
type BeginDB interface {
	DB
	Begin(ctx context.Context) (pgx.Tx, error)
}

// txKey is the context key under which the Transactor stores the active
// transaction.
type txKey struct{}

// querier returns the transaction stored in ctx by the Transactor, falling
// back to db when the call runs outside a transaction.
func querier(ctx context.Context, db DB) DB {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db
}
