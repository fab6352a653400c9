// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gestion Utilisateurs Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jlancon8/GestionUtilisateurs-PostgresSQL/internal/config"
)

// ServiceStatus holds the status information reported by the status command.
type ServiceStatus struct {
	Database         string `json:"database"`
	MigrationVersion uint   `json:"migration_version"`
	Dirty            bool   `json:"dirty,omitempty"`
	PendingCount     int    `json:"pending_count"`
	Error            string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
}

// newStatusCmd creates the status subcommand with all flags configured.
func newStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database and migration status",
		Long:  `Check that the PostgreSQL database is reachable and report the migration state.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatusWithDeps(cmd.Context(), cmd, cfg, nil)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().String("database.url", "", "PostgreSQL connection URL")

	return cmd
}

// runStatusWithDeps executes the status command with injectable dependencies.
// If deps is nil, default implementations are used.
func runStatusWithDeps(ctx context.Context, cmd *cobra.Command, cfg *statusConfig, deps *StatusDeps) error {
	if deps == nil {
		deps = &StatusDeps{}
	}
	if deps.StoreFactory == nil {
		deps.StoreFactory = defaultStoreFactory
	}
	if deps.MigratorFactory == nil {
		deps.MigratorFactory = defaultMigratorFactory
	}

	conf, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := conf.RequireDatabaseURL(); err != nil {
		return err
	}

	status := queryServiceStatus(ctx, conf, deps)

	var output string
	if cfg.jsonOutput {
		output, err = formatStatusJSON(status)
		if err != nil {
			return err
		}
	} else {
		output = formatStatusTable(status)
	}

	cmd.Println(output)
	return nil
}

// queryServiceStatus probes the database and the migration state. Failures
// land in the Error field rather than aborting, so status always reports.
func queryServiceStatus(ctx context.Context, conf *config.Config, deps *StatusDeps) ServiceStatus {
	status := ServiceStatus{Database: "unreachable"}

	connectCtx, cancel := context.WithTimeout(ctx, conf.Database.ConnectTimeout)
	defer cancel()

	st, err := deps.StoreFactory(connectCtx, conf.Database.URL)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer st.Close()

	if err := st.Ping(connectCtx); err != nil {
		status.Error = err.Error()
		return status
	}
	status.Database = "connected"

	m, err := deps.MigratorFactory(conf.Database.URL)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer func() { _ = m.Close() }()

	v, dirty, err := m.Version()
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.MigrationVersion = v
	status.Dirty = dirty

	pending, err := m.PendingMigrations()
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.PendingCount = len(pending)

	return status
}

// formatStatusJSON renders the status as indented JSON.
func formatStatusJSON(status ServiceStatus) (string, error) {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatStatusTable renders the status as an aligned table.
func formatStatusTable(status ServiceStatus) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "DATABASE\t%s\n", status.Database)
	if status.Database == "connected" {
		fmt.Fprintf(w, "MIGRATION VERSION\t%d\n", status.MigrationVersion)
		if status.Dirty {
			fmt.Fprintf(w, "DIRTY\ttrue\n")
		}
		fmt.Fprintf(w, "PENDING MIGRATIONS\t%d\n", status.PendingCount)
	}
	if status.Error != "" {
		fmt.Fprintf(w, "ERROR\t%s\n", status.Error)
	}

	_ = w.Flush()
	return strings.TrimRight(sb.String(), "\n")
}
