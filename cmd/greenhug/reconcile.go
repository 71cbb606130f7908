package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dangerclosesec/greenhug/internal/config"
	"github.com/dangerclosesec/greenhug/internal/database"
	"github.com/dangerclosesec/greenhug/internal/repository"
	"github.com/dangerclosesec/greenhug/internal/service"
	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	var (
		batchSize int
		dryRun    bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Rebuild accumulated impact from stored project entries",
		Long: "Recomputes every company's accumulated impact from the entries of its projects " +
			"and repairs the records that drifted. With --dry-run drift is only reported.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			db, err := database.Open(cfg)
			if err != nil {
				return err
			}

			logger := slog.Default()
			companyRepo := repository.NewCompanyRepository(db)
			projectRepo := repository.NewProjectRepository(db)
			auditLogService := service.NewImpactAuditLogService(repository.NewImpactAuditLogRepository(db))
			aggregator := service.NewImpactAggregator(
				repository.NewImpactRepository(db),
				repository.NewGormTransactor(db),
				auditLogService,
				nil,
				nil,
				logger,
			)

			// Interval doesn't matter for a one-time run
			reconciler := service.NewImpactReconciliationService(companyRepo, projectRepo, aggregator, 0, logger)
			reconciler.SetBatchSize(batchSize)
			reconciler.SetDryRun(dryRun)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			report, err := reconciler.ReconcileAll(ctx)
			if report != nil {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(report); encErr != nil {
					return encErr
				}
			}
			if err != nil {
				return fmt.Errorf("reconciliation failed: %w", err)
			}
			if report.Failed > 0 {
				return fmt.Errorf("reconciliation failed for %d companies", report.Failed)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&batchSize, "batch-size", 100, "Number of companies to process in a batch")
	flags.BoolVar(&dryRun, "dry-run", false, "Report drift without making changes")
	flags.DurationVar(&timeout, "timeout", 30*time.Minute, "Maximum time to run reconciliation")

	return cmd
}
