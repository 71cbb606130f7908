// internal/service/impact_aggregator.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dangerclosesec/greenhug/internal/audit"
	"github.com/dangerclosesec/greenhug/internal/domain"
	"github.com/dangerclosesec/greenhug/internal/impact"
	"github.com/dangerclosesec/greenhug/internal/metrics"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/dangerclosesec/greenhug/internal/repository"
	"github.com/google/uuid"
)

// AggregationResult describes one applied mutation. Delta is the change
// actually made to the counters, after flooring.
type AggregationResult struct {
	Impact       *model.CompanyImpact `json:"impact"`
	Delta        impact.Bundle        `json:"delta"`
	Classified   int                  `json:"classified"`
	Unclassified []impact.Entry       `json:"unclassified"`
	// Applied is false when a decrement found no accumulated record.
	Applied bool `json:"applied"`
}

// ImpactAggregator keeps each company's accumulated impact in step with its
// projects. Every mutation locks the company's record for the duration of a
// transaction, so concurrent mutations for one company serialize.
type ImpactAggregator struct {
	repo    repository.ImpactRepositoryIface
	tx      repository.Transactor
	ledger  audit.Logger
	cache   *CacheService
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewImpactAggregator wires the aggregator. cache and m may be nil.
func NewImpactAggregator(
	repo repository.ImpactRepositoryIface,
	tx repository.Transactor,
	ledger audit.Logger,
	cache *CacheService,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ImpactAggregator {
	if ledger == nil {
		ledger = &audit.NoOpLogger{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ImpactAggregator{
		repo:    repo,
		tx:      tx,
		ledger:  ledger,
		cache:   cache,
		metrics: m,
		logger:  logger,
	}
}

// ApplyProjectCreated adds a new project's entries to the company's record,
// creating the record on first use.
func (a *ImpactAggregator) ApplyProjectCreated(ctx context.Context, companyID, projectID uuid.UUID, entries []impact.Entry) (*AggregationResult, error) {
	return a.increment(ctx, model.ActionProjectCreated, companyID, projectID, entries)
}

// ApplyEntriesAdded adds entries appended to an existing project. Only the
// new entries are passed; the project's earlier entries are already counted.
func (a *ImpactAggregator) ApplyEntriesAdded(ctx context.Context, companyID, projectID uuid.UUID, entries []impact.Entry) (*AggregationResult, error) {
	return a.increment(ctx, model.ActionEntriesAdded, companyID, projectID, entries)
}

func (a *ImpactAggregator) increment(ctx context.Context, action string, companyID, projectID uuid.UUID, entries []impact.Entry) (*AggregationResult, error) {
	summary := impact.Summarize(entries)
	a.reportUnclassified(ctx, companyID, projectID, summary.Unclassified)

	return a.mutate(ctx, action, companyID, &projectID, true, summary, func(rec *model.CompanyImpact) (impact.Bundle, error) {
		sum := rec.Bundle().Add(summary.Bundle)
		if !sum.InRange() {
			return impact.Bundle{}, domain.ErrImpactOutOfRange
		}
		rec.SetBundle(sum)
		rec.UnclassifiedEntries += int64(len(summary.Unclassified))
		return summary.Bundle, nil
	})
}

// ApplyProjectDeleted removes a project's entries from the company's record.
// Counters never go below zero. A company without a record is left alone.
// Call it inside the transaction that deletes the project, before the
// entries are gone.
func (a *ImpactAggregator) ApplyProjectDeleted(ctx context.Context, companyID, projectID uuid.UUID, entries []impact.Entry) (*AggregationResult, error) {
	summary := impact.Summarize(entries)

	return a.mutate(ctx, model.ActionProjectDeleted, companyID, &projectID, false, summary, func(rec *model.CompanyImpact) (impact.Bundle, error) {
		before := rec.Bundle()
		rec.SetBundle(before.SubtractFloor(summary.Bundle))
		rec.UnclassifiedEntries = max(0, rec.UnclassifiedEntries-int64(len(summary.Unclassified)))
		return before.Diff(rec.Bundle()), nil
	})
}

// ApplyManualAdjustment overwrites the company's counters with b. Counters
// are brought into the stored range first.
func (a *ImpactAggregator) ApplyManualAdjustment(ctx context.Context, companyID uuid.UUID, b impact.Bundle) (*AggregationResult, error) {
	b = b.Clamp()
	return a.mutate(ctx, model.ActionManualAdjustment, companyID, nil, true, impact.Summary{Bundle: b}, func(rec *model.CompanyImpact) (impact.Bundle, error) {
		before := rec.Bundle()
		rec.SetBundle(b)
		return rec.Bundle().Diff(before), nil
	})
}

// Rebuild sets the company's record to the exact sum of entries, which must
// be every entry of every project of the company. A company with no entries
// and no record is left without one.
func (a *ImpactAggregator) Rebuild(ctx context.Context, companyID uuid.UUID, entries []impact.Entry) (*AggregationResult, error) {
	summary := impact.Summarize(entries)

	return a.mutate(ctx, model.ActionRebuild, companyID, nil, len(entries) > 0, summary, func(rec *model.CompanyImpact) (impact.Bundle, error) {
		before := rec.Bundle()
		rec.SetBundle(summary.Bundle)
		rec.UnclassifiedEntries = int64(len(summary.Unclassified))
		return rec.Bundle().Diff(before), nil
	})
}

// GetAccumulated returns the company's record, or an all-zero record when
// none exists yet.
func (a *ImpactAggregator) GetAccumulated(ctx context.Context, companyID uuid.UUID) (*model.CompanyImpact, error) {
	rec, err := a.repo.FindByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return model.NewCompanyImpact(companyID), nil
		}
		return nil, fmt.Errorf("getting accumulated impact: %w", err)
	}
	return rec, nil
}

// InvalidateRankings drops cached rankings.
func (a *ImpactAggregator) InvalidateRankings(ctx context.Context) {
	if a.cache == nil {
		return
	}
	a.cache.DeletePrefix(ctx, RankingKeyPrefix)
}

type pendingReportsKey struct{}

// pendingReports holds the success reports of mutations made inside a
// caller's transaction until that transaction commits.
type pendingReports struct {
	mu      sync.Mutex
	reports []func()
}

// deferReports returns a context under which successful mutations queue
// their reports instead of emitting them. Call flush once the surrounding
// transaction has committed; drop the reports otherwise.
func deferReports(ctx context.Context) (context.Context, *pendingReports) {
	p := &pendingReports{}
	return context.WithValue(ctx, pendingReportsKey{}, p), p
}

func (p *pendingReports) add(report func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reports = append(p.reports, report)
}

func (p *pendingReports) flush() {
	p.mu.Lock()
	reports := p.reports
	p.reports = nil
	p.mu.Unlock()

	for _, report := range reports {
		report()
	}
}

// mutate runs apply against the locked record, saves it and writes the ledger
// row in one transaction. apply returns the delta to record in the ledger.
func (a *ImpactAggregator) mutate(
	ctx context.Context,
	action string,
	companyID uuid.UUID,
	projectID *uuid.UUID,
	create bool,
	summary impact.Summary,
	apply func(rec *model.CompanyImpact) (impact.Bundle, error),
) (*AggregationResult, error) {
	start := time.Now()
	result := &AggregationResult{
		Classified:   summary.Classified,
		Unclassified: summary.Unclassified,
	}

	err := a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := a.repo.FindForUpdate(ctx, companyID, create)
		if err != nil {
			return err
		}

		pointsBefore := rec.TotalPoints
		delta, err := apply(rec)
		if err != nil {
			return err
		}

		if err := a.repo.Save(ctx, rec); err != nil {
			return err
		}

		if err := a.ledger.LogImpactChange(ctx, audit.Change{
			CompanyID:    companyID,
			ProjectID:    projectID,
			Action:       action,
			Delta:        delta,
			PointsBefore: pointsBefore,
			PointsAfter:  rec.TotalPoints,
			Unclassified: len(summary.Unclassified),
		}); err != nil {
			return fmt.Errorf("writing impact ledger: %w", err)
		}

		result.Impact = rec
		result.Delta = delta
		result.Applied = true
		return nil
	})

	if !create && errors.Is(err, domain.ErrNotFound) {
		a.logger.InfoContext(ctx, "no accumulated impact to update", "action", action, "company_id", companyID)
		result.Impact = model.NewCompanyImpact(companyID)
		err = nil
	}

	elapsed := time.Since(start)
	if err != nil {
		a.metrics.ObserveAggregation(action, err, elapsed)
		return nil, fmt.Errorf("applying %s to company %s: %w", action, companyID, err)
	}

	report := func() {
		a.metrics.ObserveAggregation(action, nil, elapsed)
		a.InvalidateRankings(ctx)
		if result.Applied {
			a.logger.InfoContext(ctx, "accumulated impact updated",
				"action", action,
				"company_id", companyID,
				"total_points", result.Impact.TotalPoints,
				"classified", summary.Classified,
				"unclassified", len(summary.Unclassified),
			)
		}
	}
	if pending, ok := ctx.Value(pendingReportsKey{}).(*pendingReports); ok {
		pending.add(report)
	} else {
		report()
	}

	return result, nil
}

func (a *ImpactAggregator) reportUnclassified(ctx context.Context, companyID, projectID uuid.UUID, entries []impact.Entry) {
	if len(entries) == 0 {
		return
	}

	metricsSeen := make([]string, 0, len(entries))
	for _, e := range entries {
		metricsSeen = append(metricsSeen, e.Metric)
	}

	a.logger.WarnContext(ctx, "impact entries with unrecognized metrics",
		"company_id", companyID,
		"project_id", projectID,
		"count", len(entries),
		"metrics", metricsSeen,
	)
	a.metrics.AddUnclassified(len(entries))
}
