// internal/service/impact_reconciliation.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dangerclosesec/greenhug/internal/impact"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/dangerclosesec/greenhug/internal/repository"
	"github.com/google/uuid"
)

// ReconcileReport summarizes one reconciliation run.
type ReconcileReport struct {
	Companies int `json:"companies"`
	Drifted   int `json:"drifted"`
	Repaired  int `json:"repaired"`
	Failed    int `json:"failed"`
}

// ImpactReconciliationService recomputes each company's accumulated impact
// from its stored entries and repairs records that drifted from them.
type ImpactReconciliationService struct {
	companyRepo  repository.CompanyRepositoryIface
	projectRepo  repository.ProjectRepositoryIface
	aggregator   *ImpactAggregator
	syncInterval time.Duration
	batchSize    int
	dryRun       bool // If true, report drift without writing
	logger       *slog.Logger
	stopChan     chan struct{}
	stoppedChan  chan struct{}
}

func NewImpactReconciliationService(
	companyRepo repository.CompanyRepositoryIface,
	projectRepo repository.ProjectRepositoryIface,
	aggregator *ImpactAggregator,
	syncInterval time.Duration,
	logger *slog.Logger,
) *ImpactReconciliationService {
	if syncInterval == 0 {
		syncInterval = 6 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ImpactReconciliationService{
		companyRepo:  companyRepo,
		projectRepo:  projectRepo,
		aggregator:   aggregator,
		syncInterval: syncInterval,
		batchSize:    100,
		logger:       logger,
		stopChan:     make(chan struct{}),
		stoppedChan:  make(chan struct{}),
	}
}

// Start runs ReconcileAll every sync interval until Stop is called.
func (s *ImpactReconciliationService) Start() {
	go func() {
		ticker := time.NewTicker(s.syncInterval)
		defer ticker.Stop()
		defer close(s.stoppedChan)

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				if _, err := s.ReconcileAll(ctx); err != nil {
					s.logger.Error("impact reconciliation failed", "error", err)
				}
				cancel()
			case <-s.stopChan:
				return
			}
		}
	}()
}

func (s *ImpactReconciliationService) Stop() {
	close(s.stopChan)
	<-s.stoppedChan
}

func (s *ImpactReconciliationService) SetBatchSize(size int) {
	if size > 0 {
		s.batchSize = size
	}
}

func (s *ImpactReconciliationService) SetDryRun(dryRun bool) {
	s.dryRun = dryRun
}

// ReconcileAll walks every company in batches. A company that fails is
// logged and counted; the run goes on with the next one.
func (s *ImpactReconciliationService) ReconcileAll(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{}
	s.logger.InfoContext(ctx, "starting impact reconciliation", "dry_run", s.dryRun, "batch_size", s.batchSize)

	for offset := 0; ; offset += s.batchSize {
		companies, total, err := s.companyRepo.FindAllPaginated(ctx, offset, s.batchSize)
		if err != nil {
			return report, fmt.Errorf("fetching companies: %w", err)
		}
		if len(companies) == 0 {
			break
		}

		s.logger.InfoContext(ctx, "processing company batch", "offset", offset, "size", len(companies), "total", total)

		for _, company := range companies {
			report.Companies++

			drifted, err := s.ReconcileCompany(ctx, company.ID)
			switch {
			case err != nil:
				report.Failed++
				s.logger.ErrorContext(ctx, "failed to reconcile company", "company_id", company.ID, "error", err)
			case drifted && s.dryRun:
				report.Drifted++
			case drifted:
				report.Drifted++
				report.Repaired++
			}
		}

		if int64(offset+len(companies)) >= total {
			break
		}

		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}
	}

	s.logger.InfoContext(ctx, "completed impact reconciliation",
		"companies", report.Companies,
		"drifted", report.Drifted,
		"repaired", report.Repaired,
		"failed", report.Failed,
	)
	return report, nil
}

// ReconcileCompany compares the company's record with the sum of its entries
// and rebuilds the record when they differ. It reports whether they differed.
func (s *ImpactReconciliationService) ReconcileCompany(ctx context.Context, companyID uuid.UUID) (bool, error) {
	entries, err := s.projectRepo.FindEntriesByCompany(ctx, companyID)
	if err != nil {
		return false, err
	}

	current, err := s.aggregator.GetAccumulated(ctx, companyID)
	if err != nil {
		return false, err
	}

	expected := impact.Summarize(model.ImpactEntries(entries))
	if current.Bundle().Equal(expected.Bundle) &&
		current.UnclassifiedEntries == int64(len(expected.Unclassified)) &&
		current.TotalPoints == impact.Points(expected.Bundle) {
		return false, nil
	}

	s.logger.InfoContext(ctx, "accumulated impact drifted from entries",
		"company_id", companyID,
		"stored_points", current.TotalPoints,
		"expected_points", impact.Points(expected.Bundle),
		"dry_run", s.dryRun,
	)

	if s.dryRun {
		return true, nil
	}

	if _, err := s.aggregator.Rebuild(ctx, companyID, model.ImpactEntries(entries)); err != nil {
		return true, err
	}
	return true, nil
}
