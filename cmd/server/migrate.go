package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/mealledger/internal/storage/sqlite"
)

func (a *app) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and print the schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			// New creates the database directory and applies pending migrations.
			store, err := sqlite.New(cfg.DBPath)
			if err != nil {
				return err
			}
			store.Close()

			version, dirty, err := sqlite.SchemaVersion(sqlite.DSN(cfg.DBPath))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty: %v)\n", version, dirty)
			return nil
		},
	}
}
