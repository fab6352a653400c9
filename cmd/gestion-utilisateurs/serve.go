// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/account"
	acctpg "github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/account/postgres"
	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/config"
	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/httpapi"
	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/logging"
	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/observability"
)

const (
	serviceName          = "gestion-utilisateurs"
	shutdownTimeout      = 5 * time.Second
	readinessPingTimeout = 2 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server: runs pending database migrations, then
serves registration, login, profile, and health endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cmd, nil)
		},
	}

	registerConfigFlags(cmd)
	cmd.Flags().String("server.metrics_addr", config.DefaultMetricsAddr,
		"metrics/health HTTP address (empty = disabled)")

	return cmd
}

// registerConfigFlags registers the flags shared by commands that load the
// full configuration. Flag names mirror the config keys so they override the
// file directly.
func registerConfigFlags(cmd *cobra.Command) {
	cmd.Flags().String("server.addr", config.DefaultServerAddr, "HTTP API listen address")
	cmd.Flags().String("database.url", "", "PostgreSQL connection URL")
	cmd.Flags().String("logging.format", config.DefaultLogFormat, "log format (json or text)")
	cmd.Flags().String("logging.level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
}

// runServeWithDeps starts the service with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.StoreFactory == nil {
		deps.StoreFactory = defaultStoreFactory
	}
	if deps.MigratorFactory == nil {
		deps.MigratorFactory = defaultMigratorFactory
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}
	if deps.APIServerFactory == nil {
		deps.APIServerFactory = func(addr string, handler http.Handler) APIServer {
			return httpapi.NewServer(addr, handler)
		}
	}

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabaseURL(); err != nil {
		return err
	}

	// Level already validated by config.Load.
	level, _ := logging.ParseLevel(cfg.Logging.Level)
	logging.SetDefault(serviceName, version, cfg.Logging.Format, level)

	slog.Info("starting service",
		"addr", cfg.Server.Addr,
		"metrics_addr", cfg.Server.MetricsAddr,
	)

	connectCtx, connectCancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	st, err := deps.StoreFactory(connectCtx, cfg.Database.URL)
	connectCancel()
	if err != nil {
		return err
	}
	defer st.Close()

	slog.Info("connected to database")

	if err := runPendingMigrations(deps.MigratorFactory, cfg.Database.URL); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Observability server, when configured. Readiness is a live database
	// ping so a lost connection flips the probe.
	var obsServer ObservabilityServer
	var metrics *observability.Metrics
	if cfg.Server.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Server.MetricsAddr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), readinessPingTimeout)
			defer pingCancel()
			return st.Ping(pingCtx) == nil
		})
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return err
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		metrics = obsServer.Metrics()
		slog.Info("observability server started", "addr", obsServer.Addr())
	}

	// The API is only wired over a real pool. Tests inject a store without
	// one and exercise the lifecycle around it.
	var apiServer APIServer
	if pool := st.Pool(); pool != nil {
		handler, err := buildAPIHandler(pool, metrics)
		if err != nil {
			return err
		}
		apiServer = deps.APIServerFactory(cfg.Server.Addr, handler)
		apiErrChan, err := apiServer.Start()
		if err != nil {
			stopServer(obsServer, "observability")
			return err
		}
		go monitorServerErrors(ctx, cancel, apiErrChan, "api")
		slog.Info("api server started", "addr", apiServer.Addr())
	}

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Service started")

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	slog.Info("shutting down...")

	stopServer(apiServer, "api")
	stopServer(obsServer, "observability")

	slog.Info("shutdown complete")
	return nil
}

// serverStopper is satisfied by both server kinds.
type serverStopper interface {
	Stop(ctx context.Context) error
}

func stopServer(srv serverStopper, name string) {
	// Interface values holding typed nils still reach here; callers pass
	// nil interfaces when the server was never created.
	if srv == nil {
		return
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping server", "server", name, "error", err)
	}
}

// runPendingMigrations applies all pending migrations before serving.
func runPendingMigrations(factory func(url string) (Migrator, error), databaseURL string) error {
	m, err := factory(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			slog.Warn("error closing migrator", "error", closeErr)
		}
	}()

	if err := m.Up(); err != nil {
		return err
	}

	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "version", v, "dirty", dirty)
	return nil
}

// buildAPIHandler wires the repositories and services over the pool.
func buildAPIHandler(pool *pgxpool.Pool, metrics *observability.Metrics) (http.Handler, error) {
	tx := acctpg.NewTransactor(pool)
	users := acctpg.NewUserRepository(pool)
	roles := acctpg.NewRoleRepository(pool)
	sessions := acctpg.NewSessionRepository(pool)
	logs := acctpg.NewConnectionLogRepository(pool)
	hasher := account.NewBcryptHasher()

	logger := slog.Default()

	registrar, err := account.NewRegistrarWithLogger(tx, users, roles, hasher, logger)
	if err != nil {
		return nil, err
	}
	authService, err := account.NewServiceWithLogger(tx, users, sessions, logs, hasher, logger)
	if err != nil {
		return nil, err
	}
	profileService, err := account.NewProfileService(users, roles)
	if err != nil {
		return nil, err
	}

	health := func(ctx context.Context) (time.Time, error) {
		var now time.Time
		if err := pool.QueryRow(ctx, "SELECT NOW()").Scan(&now); err != nil {
			return time.Time{}, err
		}
		return now, nil
	}

	api, err := httpapi.NewAPI(registrar, authService, profileService, health, logger, metrics)
	if err != nil {
		return nil, err
	}
	return api.Handler(), nil
}

// monitorServerErrors monitors a server's error channel and cancels the
// context on error so a failed listener takes the whole process down
// gracefully. It exits when an error arrives, the channel closes, or the
// context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
