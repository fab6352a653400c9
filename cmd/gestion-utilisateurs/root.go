package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the gestion-utilisateurs CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gestion-utilisateurs",
		Short: "Gestion Utilisateurs - user account service over PostgreSQL",
		Long: `Gestion Utilisateurs is an HTTP user account service backed by PostgreSQL:
registration, session-token login, profile lookup, and an audit trail of
connection attempts.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}
