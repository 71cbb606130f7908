package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dangerclosesec/greenhug/internal/config"
	"github.com/dangerclosesec/greenhug/internal/migration"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var (
		dryRun  bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			db, err := migration.Open(cfg.DSN())
			if err != nil {
				return err
			}
			defer db.Close()

			migrator, err := migration.NewMigrator(db)
			if err != nil {
				return fmt.Errorf("loading migrations: %w", err)
			}

			out := cmd.OutOrStdout()
			if dryRun {
				pending, err := migrator.Pending(ctx)
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					fmt.Fprintln(out, "No pending migrations.")
				}
				for _, m := range pending {
					fmt.Fprintf(out, "pending %04d_%s\n", m.Version, m.Description)
				}
				return nil
			}

			applied, err := migrator.Up(ctx)
			for _, m := range applied {
				fmt.Fprintf(out, "applied %04d_%s\n", m.Version, m.Description)
			}
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(out, "No changes detected. Migration skipped.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List pending migrations without applying them")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Maximum time to run migrations")

	return cmd
}
