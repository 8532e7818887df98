package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/OldStager01/energy-advisor/internal/logger"
	"github.com/OldStager01/energy-advisor/pkg/database"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the recommendation history tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			timeout := cfg.Database.MigrationTimeout
			if timeout <= 0 {
				timeout = 60 * time.Second
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			db, err := database.Open(ctx, cfg.Database.ToDBConfig())
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			migrator := database.NewMigrator(db)
			out := cmd.OutOrStdout()

			if dryRun {
				pending, err := migrator.Pending(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d pending: %s\n", len(pending), strings.Join(pending, ", "))
				return nil
			}

			logger.Info("Running database migrations")
			applied, err := migrator.Run(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			logger.WithField("applied", len(applied)).Info("Migrations completed successfully")
			fmt.Fprintf(out, "applied %d migrations\n", len(applied))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list pending migrations without applying them")
	return cmd
}
