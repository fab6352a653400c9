// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/observability"
)

// fakeStore satisfies DataStore without a database. Pool returns nil, which
// keeps the serve command from wiring the API over it.
type fakeStore struct {
	pingErr error
	closed  bool
}

func (f *fakeStore) Pool() *pgxpool.Pool        { return nil }
func (f *fakeStore) Ping(context.Context) error { return f.pingErr }
func (f *fakeStore) Close()                     { f.closed = true }

// fakeMigrator satisfies Migrator with scripted results.
type fakeMigrator struct {
	upErr      error
	downErr    error
	stepsErr   error
	stepsGot   int
	version    uint
	dirty      bool
	versionErr error
	pending    []uint
	pendingErr error
	closed     bool
}

func (f *fakeMigrator) Up() error   { return f.upErr }
func (f *fakeMigrator) Down() error { return f.downErr }

func (f *fakeMigrator) Steps(n int) error {
	f.stepsGot = n
	return f.stepsErr
}

func (f *fakeMigrator) Version() (uint, bool, error) {
	return f.version, f.dirty, f.versionErr
}

func (f *fakeMigrator) PendingMigrations() ([]uint, error) {
	return f.pending, f.pendingErr
}

func (f *fakeMigrator) Close() error {
	f.closed = true
	return nil
}

// fakeObsServer satisfies ObservabilityServer. Start hands back a channel the
// test can feed to simulate a listener failure.
type fakeObsServer struct {
	startErr error
	errCh    chan error
	started  bool
	stopped  bool
}

func (f *fakeObsServer) Start() (<-chan error, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.started = true
	if f.errCh == nil {
		f.errCh = make(chan error, 1)
	}
	return f.errCh, nil
}

func (f *fakeObsServer) Stop(context.Context) error {
	f.stopped = true
	return nil
}

func (f *fakeObsServer) Addr() string                    { return "127.0.0.1:0" }
func (f *fakeObsServer) Metrics() *observability.Metrics { return nil }
