// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package main

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/observability"
	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/store"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// StoreFactory connects to the database.
	// Default: store.Connect
	StoreFactory func(ctx context.Context, url string) (DataStore, error)

	// MigratorFactory creates a migrator for the database URL.
	// Default: store.NewMigrator
	MigratorFactory func(url string) (Migrator, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer

	// APIServerFactory creates the HTTP API server.
	// Default: httpapi.NewServer
	APIServerFactory func(addr string, handler http.Handler) APIServer
}

// StatusDeps contains injectable dependencies for the status command.
type StatusDeps struct {
	// StoreFactory connects to the database.
	// Default: store.Connect
	StoreFactory func(ctx context.Context, url string) (DataStore, error)

	// MigratorFactory creates a migrator for the database URL.
	// Default: store.NewMigrator
	MigratorFactory func(url string) (Migrator, error)
}

// DataStore interface wraps the methods used from store.Store.
type DataStore interface {
	Pool() *pgxpool.Pool
	Ping(ctx context.Context) error
	Close()
}

// Migrator interface wraps the methods used from store.Migrator.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	PendingMigrations() ([]uint, error)
	Close() error
}

// ObservabilityServer interface wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// APIServer interface wraps the methods used from httpapi.Server.
type APIServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

func defaultStoreFactory(ctx context.Context, url string) (DataStore, error) {
	return store.Connect(ctx, url)
}

func defaultMigratorFactory(url string) (Migrator, error) {
	return store.NewMigrator(url)
}
