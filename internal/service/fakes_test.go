package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dangerclosesec/greenhug/internal/audit"
	"github.com/dangerclosesec/greenhug/internal/domain"
	"github.com/dangerclosesec/greenhug/internal/impact"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/dangerclosesec/greenhug/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeImpactRepo keeps accumulated records in memory. Records handed out are
// copies; only Save changes the stored state.
type fakeImpactRepo struct {
	mu        sync.Mutex
	records   map[uuid.UUID]model.CompanyImpact
	companies map[uuid.UUID]model.Company
	saveErr   error
}

func newFakeImpactRepo() *fakeImpactRepo {
	return &fakeImpactRepo{
		records:   make(map[uuid.UUID]model.CompanyImpact),
		companies: make(map[uuid.UUID]model.Company),
	}
}

func (r *fakeImpactRepo) FindByCompany(ctx context.Context, companyID uuid.UUID) (*model.CompanyImpact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[companyID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (r *fakeImpactRepo) FindForUpdate(ctx context.Context, companyID uuid.UUID, create bool) (*model.CompanyImpact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[companyID]
	if !ok {
		if !create {
			return nil, domain.ErrNotFound
		}
		rec = *model.NewCompanyImpact(companyID)
		rec.CreatedAt = time.Now()
		r.records[companyID] = rec
	}
	return &rec, nil
}

func (r *fakeImpactRepo) Save(ctx context.Context, rec *model.CompanyImpact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return r.saveErr
	}

	// Store what a NUMERIC(20,4) column keeps.
	stored := *rec
	for _, c := range []*decimal.Decimal{
		&stored.TreesPlanted, &stored.WaterLiters, &stored.BottlesRecycled,
		&stored.Volunteers, &stored.UniformsRecycled, &stored.CO2Kg,
	} {
		*c = c.Round(impact.Scale)
		if c.GreaterThan(impact.MaxCounter) {
			return errors.New("numeric field overflow")
		}
	}
	r.records[rec.CompanyID] = stored
	return nil
}

func (r *fakeImpactRepo) FindForRanking(ctx context.Context, filter repository.RankingFilter) ([]*model.CompanyImpact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.CompanyImpact
	for id, rec := range r.records {
		company := r.companies[id]
		if filter.Region != "" && company.Region != filter.Region {
			continue
		}
		if filter.IndustryType != "" && company.IndustryType != filter.IndustryType {
			continue
		}
		rec := rec
		rec.Company = &company
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompanyID.String() < out[j].CompanyID.String() })
	return out, nil
}

func (r *fakeImpactRepo) snapshot() map[uuid.UUID]model.CompanyImpact {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := make(map[uuid.UUID]model.CompanyImpact, len(r.records))
	for k, v := range r.records {
		cp[k] = v
	}
	return cp
}

func (r *fakeImpactRepo) restore(s map[uuid.UUID]model.CompanyImpact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = s
}

type inTxKey struct{}

// fakeTransactor serializes transactions and restores the repository when
// one fails, which is what a row lock plus rollback gives the real store.
// Nested calls restore only their own changes, like a savepoint.
type fakeTransactor struct {
	mu   sync.Mutex
	repo *fakeImpactRepo
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(inTxKey{}) != nil {
		return t.run(ctx, fn)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.run(context.WithValue(ctx, inTxKey{}, true), fn)
}

func (t *fakeTransactor) run(ctx context.Context, fn func(ctx context.Context) error) error {
	var before map[uuid.UUID]model.CompanyImpact
	if t.repo != nil {
		before = t.repo.snapshot()
	}

	err := fn(ctx)
	if err != nil && t.repo != nil {
		t.repo.restore(before)
	}
	return err
}

// passthroughTransactor runs fn directly; for tests built on gomock repos.
type passthroughTransactor struct{}

func (passthroughTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingLedger struct {
	mu      sync.Mutex
	changes []audit.Change
	err     error
}

func (l *recordingLedger) LogImpactChange(ctx context.Context, change audit.Change) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return l.err
	}
	l.changes = append(l.changes, change)
	return nil
}

func (l *recordingLedger) all() []audit.Change {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]audit.Change(nil), l.changes...)
}
