package service_test

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/dangerclosesec/greenhug/internal/domain"
	"github.com/dangerclosesec/greenhug/internal/impact"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/dangerclosesec/greenhug/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type aggregatorFixture struct {
	repo   *fakeImpactRepo
	ledger *recordingLedger
	cache  *service.CacheService
	agg    *service.ImpactAggregator
}

func newAggregatorFixture(t *testing.T) *aggregatorFixture {
	t.Helper()

	repo := newFakeImpactRepo()
	ledger := &recordingLedger{}
	cache := service.NewCacheService(service.CacheConfig{TTL: time.Minute})
	t.Cleanup(cache.Close)

	return &aggregatorFixture{
		repo:   repo,
		ledger: ledger,
		cache:  cache,
		agg:    service.NewImpactAggregator(repo, &fakeTransactor{repo: repo}, ledger, cache, nil, nil),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAggregatorScenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("trees and volunteers", func(t *testing.T) {
		f := newAggregatorFixture(t)
		companyID := uuid.New()

		res, err := f.agg.ApplyProjectCreated(ctx, companyID, uuid.New(), []impact.Entry{
			{Metric: "árboles plantados", Value: "1000"},
			{Metric: "voluntarios", Value: "150"},
		})
		require.NoError(t, err)

		assert.True(t, res.Applied)
		assert.Equal(t, int64(3450), res.Impact.TotalPoints)
		assert.True(t, res.Impact.TreesPlanted.Equal(dec("1000")))
		assert.True(t, res.Impact.Volunteers.Equal(dec("150")))
		assert.Equal(t, 2, res.Classified)
		assert.Empty(t, res.Unclassified)
	})

	t.Run("water floors to whole points", func(t *testing.T) {
		f := newAggregatorFixture(t)

		res, err := f.agg.ApplyProjectCreated(ctx, uuid.New(), uuid.New(), []impact.Entry{
			{Metric: "agua infiltrada", Value: "15000", Unit: "litros"},
		})
		require.NoError(t, err)

		assert.Equal(t, int64(7), res.Impact.TotalPoints)
	})

	t.Run("decrement floors at zero", func(t *testing.T) {
		f := newAggregatorFixture(t)
		companyID := uuid.New()

		_, err := f.agg.ApplyManualAdjustment(ctx, companyID, impact.Bundle{BottlesRecycled: dec("2800")})
		require.NoError(t, err)

		res, err := f.agg.ApplyProjectDeleted(ctx, companyID, uuid.New(), []impact.Entry{
			{Metric: "botellas recicladas", Value: "3000"},
		})
		require.NoError(t, err)

		assert.True(t, res.Impact.BottlesRecycled.IsZero())
		assert.Equal(t, int64(0), res.Impact.TotalPoints)
	})

	t.Run("co2 in tons", func(t *testing.T) {
		f := newAggregatorFixture(t)

		res, err := f.agg.ApplyProjectCreated(ctx, uuid.New(), uuid.New(), []impact.Entry{
			{Metric: "CO2 capturado", Value: "2", Unit: "toneladas"},
		})
		require.NoError(t, err)

		assert.True(t, res.Impact.CO2Kg.Equal(dec("2000")))
		assert.Equal(t, int64(666), res.Impact.TotalPoints)
	})
}

func TestAggregatorUnrecognizedMetricsOnly(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(t)
	companyID := uuid.New()

	first, err := f.agg.ApplyProjectCreated(ctx, companyID, uuid.New(), []impact.Entry{
		{Metric: "voluntarios", Value: "10"},
	})
	require.NoError(t, err)

	res, err := f.agg.ApplyProjectCreated(ctx, companyID, uuid.New(), []impact.Entry{
		{Metric: "Equipos reciclados", Value: "500"},
		{Metric: "kilos de composta", Value: "80"},
	})
	require.NoError(t, err)

	assert.True(t, res.Impact.Bundle().Equal(first.Impact.Bundle()))
	assert.Equal(t, first.Impact.TotalPoints, res.Impact.TotalPoints)
	assert.Equal(t, int64(2), res.Impact.UnclassifiedEntries)
	assert.Len(t, res.Unclassified, 2)
	assert.Equal(t, 0, res.Classified)
}

func TestAggregatorCreateThenDeleteRestoresRecord(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(t)
	companyID := uuid.New()

	_, err := f.agg.ApplyProjectCreated(ctx, companyID, uuid.New(), []impact.Entry{
		{Metric: "agua infiltrada", Value: "0.1"},
		{Metric: "arboles plantados", Value: "7.3"},
		{Metric: "unknown", Value: "1"},
	})
	require.NoError(t, err)

	before, err := f.agg.GetAccumulated(ctx, companyID)
	require.NoError(t, err)

	entries := []impact.Entry{
		{Metric: "agua infiltrada", Value: "0.2"},
		{Metric: "Botellas Recicladas", Value: "17"},
		{Metric: "co2 capturado", Value: "1.5", Unit: "ton"},
		{Metric: "sin categoría", Value: "4"},
	}
	projectID := uuid.New()

	_, err = f.agg.ApplyProjectCreated(ctx, companyID, projectID, entries)
	require.NoError(t, err)
	_, err = f.agg.ApplyProjectDeleted(ctx, companyID, projectID, entries)
	require.NoError(t, err)

	after, err := f.agg.GetAccumulated(ctx, companyID)
	require.NoError(t, err)

	assert.True(t, after.Bundle().Equal(before.Bundle()), "before %+v after %+v", before.Bundle(), after.Bundle())
	assert.Equal(t, before.TotalPoints, after.TotalPoints)
	assert.Equal(t, before.UnclassifiedEntries, after.UnclassifiedEntries)
}

func TestAggregatorNeverNegative(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(t)
	companyID := uuid.New()
	rng := rand.New(rand.NewSource(7))

	metrics := impact.KnownMetrics()
	randomEntries := func() []impact.Entry {
		n := rng.Intn(4) + 1
		out := make([]impact.Entry, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, impact.Entry{
				Metric: metrics[rng.Intn(len(metrics))],
				Value:  strconv.FormatFloat(rng.Float64()*5000, 'f', 2, 64),
			})
		}
		return out
	}

	for i := 0; i < 200; i++ {
		entries := randomEntries()
		var err error
		if rng.Intn(2) == 0 {
			_, err = f.agg.ApplyProjectCreated(ctx, companyID, uuid.New(), entries)
		} else {
			_, err = f.agg.ApplyProjectDeleted(ctx, companyID, uuid.New(), entries)
		}
		require.NoError(t, err)

		rec, err := f.agg.GetAccumulated(ctx, companyID)
		require.NoError(t, err)
		for _, field := range impact.Fields {
			assert.False(t, rec.Bundle().Get(field).IsNegative(), "step %d: %s went negative", i, field)
		}
		assert.GreaterOrEqual(t, rec.TotalPoints, int64(0))
		assert.GreaterOrEqual(t, rec.UnclassifiedEntries, int64(0))
	}
}

func TestAggregatorDeleteWithoutRecord(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(t)
	companyID := uuid.New()

	res, err := f.agg.ApplyProjectDeleted(ctx, companyID, uuid.New(), []impact.Entry{
		{Metric: "voluntarios", Value: "3"},
	})
	require.NoError(t, err)

	assert.False(t, res.Applied)
	assert.Equal(t, int64(0), res.Impact.TotalPoints)
	assert.Empty(t, f.repo.snapshot())
	assert.Empty(t, f.ledger.all())
}

func TestAggregatorGetAccumulatedMissing(t *testing.T) {
	f := newAggregatorFixture(t)
	companyID := uuid.New()

	rec, err := f.agg.GetAccumulated(context.Background(), companyID)
	require.NoError(t, err)

	assert.Equal(t, companyID, rec.CompanyID)
	assert.True(t, rec.Bundle().IsZero())
	assert.Equal(t, int64(0), rec.TotalPoints)
}

func TestAggregatorConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(t)
	companyID := uuid.New()

	const workers = 50
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.agg.ApplyProjectCreated(ctx, companyID, uuid.New(), []impact.Entry{
				{Metric: "arboles plantados", Value: "1"},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	rec, err := f.agg.GetAccumulated(ctx, companyID)
	require.NoError(t, err)
	assert.True(t, rec.TreesPlanted.Equal(decimal.NewFromInt(workers)))
	assert.Equal(t, int64(workers*3), rec.TotalPoints)
	assert.Len(t, f.ledger.all(), workers)
}

func TestAggregatorLedger(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(t)
	companyID := uuid.New()
	projectID := uuid.New()

	entries := []impact.Entry{{Metric: "voluntarios", Value: "2"}, {Metric: "otra cosa", Value: "1"}}

	_, err := f.agg.ApplyProjectCreated(ctx, companyID, projectID, entries)
	require.NoError(t, err)
	_, err = f.agg.ApplyProjectDeleted(ctx, companyID, projectID, entries)
	require.NoError(t, err)

	changes := f.ledger.all()
	require.Len(t, changes, 2)

	assert.Equal(t, model.ActionProjectCreated, changes[0].Action)
	assert.Equal(t, projectID, *changes[0].ProjectID)
	assert.Equal(t, int64(0), changes[0].PointsBefore)
	assert.Equal(t, int64(6), changes[0].PointsAfter)
	assert.Equal(t, 1, changes[0].Unclassified)

	assert.Equal(t, model.ActionProjectDeleted, changes[1].Action)
	assert.Equal(t, int64(6), changes[1].PointsBefore)
	assert.Equal(t, int64(0), changes[1].PointsAfter)
	assert.True(t, changes[1].Delta.Volunteers.Equal(dec("2")))
}

func TestAggregatorLedgerFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(t)
	companyID := uuid.New()

	_, err := f.agg.ApplyProjectCreated(ctx, companyID, uuid.New(), []impact.Entry{{Metric: "voluntarios", Value: "1"}})
	require.NoError(t, err)

	f.ledger.err = errors.New("ledger unavailable")

	_, err = f.agg.ApplyProjectCreated(ctx, companyID, uuid.New(), []impact.Entry{{Metric: "voluntarios", Value: "5"}})
	require.Error(t, err)

	rec, err := f.agg.GetAccumulated(ctx, companyID)
	require.NoError(t, err)
	assert.True(t, rec.Volunteers.Equal(dec("1")))
	assert.Equal(t, int64(3), rec.TotalPoints)
}

func TestAggregatorStorageErrorPropagates(t *testing.T) {
	f := newAggregatorFixture(t)
	f.repo.saveErr = errors.New("connection reset")

	_, err := f.agg.ApplyProjectCreated(context.Background(), uuid.New(), uuid.New(), []impact.Entry{{Metric: "voluntarios", Value: "1"}})

	assert.ErrorIs(t, err, f.repo.saveErr)
}

func TestAggregatorRebuild(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(t)
	companyID := uuid.New()

	_, err := f.agg.ApplyManualAdjustment(ctx, companyID, impact.Bundle{TreesPlanted: dec("999")})
	require.NoError(t, err)

	res, err := f.agg.Rebuild(ctx, companyID, []impact.Entry{
		{Metric: "arboles plantados", Value: "10"},
		{Metric: "arboles plantados", Value: "5"},
		{Metric: "nada", Value: "5"},
	})
	require.NoError(t, err)

	assert.True(t, res.Impact.TreesPlanted.Equal(dec("15")))
	assert.Equal(t, int64(45), res.Impact.TotalPoints)
	assert.Equal(t, int64(1), res.Impact.UnclassifiedEntries)

	t.Run("no entries and no record", func(t *testing.T) {
		other := uuid.New()
		res, err := f.agg.Rebuild(ctx, other, nil)
		require.NoError(t, err)

		assert.False(t, res.Applied)
		_, found := f.repo.snapshot()[other]
		assert.False(t, found)
	})
}

func TestAggregatorManualAdjustmentClampsNegatives(t *testing.T) {
	f := newAggregatorFixture(t)

	res, err := f.agg.ApplyManualAdjustment(context.Background(), uuid.New(), impact.Bundle{
		TreesPlanted: dec("-5"),
		Volunteers:   dec("4"),
	})
	require.NoError(t, err)

	assert.True(t, res.Impact.TreesPlanted.IsZero())
	assert.Equal(t, int64(12), res.Impact.TotalPoints)
}

func TestAggregatorInvalidatesRankings(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(t)

	require.NoError(t, f.cache.Set(ctx, service.RankingKeyPrefix+"general", "stale"))
	require.NoError(t, f.cache.Set(ctx, "other", "kept"))

	_, err := f.agg.ApplyProjectCreated(ctx, uuid.New(), uuid.New(), []impact.Entry{{Metric: "voluntarios", Value: "1"}})
	require.NoError(t, err)

	var v string
	assert.Error(t, f.cache.Get(ctx, service.RankingKeyPrefix+"general", &v))
	assert.NoError(t, f.cache.Get(ctx, "other", &v))
}

func TestAggregatorSubScaleValuesRestoreExactly(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(t)
	companyID := uuid.New()

	_, err := f.agg.ApplyProjectCreated(ctx, companyID, uuid.New(), []impact.Entry{{Metric: "arboles plantados", Value: "3"}})
	require.NoError(t, err)

	entries := []impact.Entry{
		{Metric: "árboles plantados", Value: "0.12345"},
		{Metric: "agua infiltrada", Value: "1.00005"},
	}
	projectID := uuid.New()

	_, err = f.agg.ApplyProjectCreated(ctx, companyID, projectID, entries)
	require.NoError(t, err)

	stored := f.repo.snapshot()[companyID]
	assert.True(t, stored.TreesPlanted.Equal(dec("3.1235")))
	assert.True(t, stored.WaterLiters.Equal(dec("1.0001")))

	_, err = f.agg.ApplyProjectDeleted(ctx, companyID, projectID, entries)
	require.NoError(t, err)

	stored = f.repo.snapshot()[companyID]
	assert.True(t, stored.TreesPlanted.Equal(dec("3")), "trees = %s", stored.TreesPlanted)
	assert.True(t, stored.WaterLiters.IsZero(), "water = %s", stored.WaterLiters)
}

func TestAggregatorRejectsCountersPastTheColumn(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(t)
	companyID := uuid.New()

	_, err := f.agg.ApplyProjectCreated(ctx, companyID, uuid.New(), []impact.Entry{{Metric: "voluntarios", Value: "10"}})
	require.NoError(t, err)

	huge := []impact.Entry{{Metric: "voluntarios", Value: "1e19"}}
	_, err = f.agg.ApplyProjectCreated(ctx, companyID, uuid.New(), huge)
	assert.ErrorIs(t, err, domain.ErrImpactOutOfRange)

	rec, err := f.agg.GetAccumulated(ctx, companyID)
	require.NoError(t, err)
	assert.True(t, rec.Volunteers.Equal(dec("10")))
	assert.Equal(t, int64(30), rec.TotalPoints)

	t.Run("a single project at the limit is stored", func(t *testing.T) {
		other := uuid.New()
		res, err := f.agg.ApplyProjectCreated(ctx, other, uuid.New(), huge)
		require.NoError(t, err)

		assert.True(t, res.Impact.Volunteers.Equal(impact.MaxCounter))
		assert.Equal(t, int64(29999999999999999), res.Impact.TotalPoints)
	})
}
