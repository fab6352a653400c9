// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package main

import (
	"strconv"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/config"
	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/store"
)

// NewMigrateCmd creates the migrate subcommand and its children.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back, or inspect the schema migrations of the PostgreSQL database.`,
	}

	cmd.PersistentFlags().String("database.url", "", "PostgreSQL connection URL")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, nil, runMigrateUp)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, nil, runMigrateDown)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "steps <n>",
		Short: "Apply n migrations up, or -n down",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseSteps(args[0])
			if err != nil {
				return err
			}
			return withMigrator(cmd, nil, func(cmd *cobra.Command, m Migrator) error {
				return runMigrateSteps(cmd, m, n)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the current migration version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, nil, runMigrateVersion)
		},
	})

	return cmd
}

// parseSteps parses the signed step count for "migrate steps".
func parseSteps(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, oops.Code("INVALID_STEPS").
			With("arg", arg).
			Errorf("steps must be a signed integer")
	}
	if n == 0 {
		return 0, oops.Code("INVALID_STEPS").Errorf("steps must be non-zero")
	}
	return n, nil
}

// withMigrator loads configuration, builds a migrator, runs fn, and closes
// the migrator. A nil factory uses the default.
func withMigrator(cmd *cobra.Command, factory func(url string) (Migrator, error), fn func(*cobra.Command, Migrator) error) error {
	if factory == nil {
		factory = defaultMigratorFactory
	}

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabaseURL(); err != nil {
		return err
	}

	m, err := factory(cfg.Database.URL)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "open migrator").Wrap(err)
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			cmd.PrintErrln("warning: closing migrator:", closeErr)
		}
	}()

	return fn(cmd, m)
}

func runMigrateUp(cmd *cobra.Command, m Migrator) error {
	pending, err := m.PendingMigrations()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		cmd.Println("No pending migrations")
		return nil
	}

	cmd.Printf("Applying %d migration(s)...\n", len(pending))
	if err := m.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "migrate up").Wrap(err)
	}
	cmd.Println("Migrations completed successfully")
	return nil
}

func runMigrateDown(cmd *cobra.Command, m Migrator) error {
	cmd.Println("Rolling back all migrations...")
	if err := m.Down(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "migrate down").Wrap(err)
	}
	cmd.Println("Rollback completed successfully")
	return nil
}

func runMigrateSteps(cmd *cobra.Command, m Migrator, n int) error {
	if err := m.Steps(n); err != nil {
		return oops.Code("MIGRATION_FAILED").
			With("operation", "migrate steps").
			With("steps", n).
			Wrap(err)
	}
	cmd.Printf("Applied %d step(s)\n", n)
	return nil
}

func runMigrateVersion(cmd *cobra.Command, m Migrator) error {
	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if v == 0 {
		cmd.Println("No migrations applied")
		return nil
	}

	label := strconv.FormatUint(uint64(v), 10)
	if name, err := store.MigrationName(v); err == nil && name != "" {
		label += " (" + name + ")"
	}
	if dirty {
		cmd.Printf("Version %s, dirty\n", label)
		return nil
	}
	cmd.Printf("Version %s\n", label)
	return nil
}
