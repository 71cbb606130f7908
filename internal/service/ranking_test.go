package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dangerclosesec/greenhug/internal/domain"
	"github.com/dangerclosesec/greenhug/internal/impact"
	"github.com/dangerclosesec/greenhug/internal/mocks"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/dangerclosesec/greenhug/internal/repository"
	"github.com/dangerclosesec/greenhug/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func impactRecord(id uuid.UUID, company *model.Company, b impact.Bundle) *model.CompanyImpact {
	rec := model.NewCompanyImpact(id)
	rec.SetBundle(b)
	rec.Company = company
	return rec
}

func TestBuildRanking(t *testing.T) {
	low := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	high := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	top := uuid.MustParse("00000000-0000-0000-0000-000000000003")

	records := []*model.CompanyImpact{
		impactRecord(high, &model.Company{Name: "B"}, impact.Bundle{}.With(impact.FieldVolunteers, dec("10"))),
		impactRecord(top, &model.Company{Name: "C"}, impact.Bundle{}.
			With(impact.FieldTreesPlanted, dec("1500")).
			With(impact.FieldWaterLiters, dec("3001"))),
		impactRecord(low, &model.Company{Name: "A"}, impact.Bundle{}.With(impact.FieldTreesPlanted, dec("10"))),
	}

	ranking := service.BuildRanking(records, repository.RankingFilter{})
	require.Len(t, ranking.Entries, 3)

	assert.Equal(t, top, ranking.Entries[0].Company.ID)
	assert.Equal(t, 1, ranking.Entries[0].Position)
	assert.Equal(t, int64(4501), ranking.Entries[0].TotalPoints)
	assert.Equal(t, int64(2), ranking.Entries[0].Social.CommunitiesBenefited)

	// 30 points each; the lower ID ranks first.
	assert.Equal(t, low, ranking.Entries[1].Company.ID)
	assert.Equal(t, 2, ranking.Entries[1].Position)
	assert.Equal(t, high, ranking.Entries[2].Company.ID)
	assert.Equal(t, 3, ranking.Entries[2].Position)
	assert.True(t, ranking.Entries[2].Social.VolunteerHours.Equal(dec("40")))
	assert.Equal(t, int64(0), ranking.Entries[2].Social.CommunitiesBenefited)

	assert.Equal(t, 3, ranking.Statistics.TotalCompanies)
	assert.Equal(t, int64(4561), ranking.Statistics.TotalPoints)
	assert.True(t, ranking.Statistics.AverageTrees.Equal(dec("503")))
	assert.True(t, ranking.Statistics.AverageWater.Equal(dec("1000")))
}

func TestBuildRankingEmpty(t *testing.T) {
	ranking := service.BuildRanking(nil, repository.RankingFilter{Region: model.RegionNorth})

	assert.Empty(t, ranking.Entries)
	assert.NotNil(t, ranking.Entries)
	assert.Equal(t, model.RegionNorth, ranking.Region)
	assert.True(t, ranking.Statistics.AverageTrees.IsZero())
}

func TestBuildStats(t *testing.T) {
	north := &model.Company{Region: model.RegionNorth, IndustryType: model.IndustryRetail}
	south := &model.Company{Region: model.RegionSouth, IndustryType: model.IndustryRetail}

	stats := service.BuildStats([]*model.CompanyImpact{
		impactRecord(uuid.New(), north, impact.Bundle{}.With(impact.FieldVolunteers, dec("1"))),
		impactRecord(uuid.New(), north, impact.Bundle{}.With(impact.FieldBottlesRecycled, dec("16"))),
		impactRecord(uuid.New(), south, impact.Bundle{}.With(impact.FieldCO2Kg, dec("3"))),
	})

	assert.Equal(t, 3, stats.Totals.Companies)
	assert.Equal(t, int64(6), stats.Totals.Points)
	assert.True(t, stats.Totals.BottlesRecycled.Equal(dec("16")))
	assert.True(t, stats.AveragePoints.Equal(dec("2")))
	assert.Equal(t, []service.RegionCount{
		{Region: model.RegionNorth, Companies: 2},
		{Region: model.RegionSouth, Companies: 1},
	}, stats.ByRegion)
	assert.Equal(t, []service.IndustryTypeCount{{IndustryType: model.IndustryRetail, Companies: 3}}, stats.ByIndustryType)
}

func TestRankingCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	cache := service.NewCacheService(service.CacheConfig{TTL: time.Minute})
	defer cache.Close()

	store := newFakeImpactRepo()
	agg := service.NewImpactAggregator(store, &fakeTransactor{repo: store}, nil, cache, nil, nil)

	repo := mocks.NewMockImpactRepositoryIface(ctrl)
	svc := service.NewRankingService(repo, nil, nil, agg, cache, nil)

	companyID := uuid.New()
	records := []*model.CompanyImpact{
		impactRecord(companyID, &model.Company{Name: "Acme"}, impact.Bundle{}.With(impact.FieldVolunteers, dec("5"))),
	}

	repo.EXPECT().FindForRanking(gomock.Any(), repository.RankingFilter{}).Return(records, nil).Times(2)

	first, err := svc.General(ctx)
	require.NoError(t, err)
	second, err := svc.General(ctx)
	require.NoError(t, err)

	require.Len(t, second.Entries, 1)
	assert.Equal(t, first.Entries[0].Company.ID, second.Entries[0].Company.ID)
	assert.Equal(t, int64(15), second.Entries[0].TotalPoints)
	assert.True(t, second.Entries[0].Totals.Volunteers.Equal(dec("5")))

	_, err = agg.ApplyProjectCreated(ctx, companyID, uuid.New(), []impact.Entry{{Metric: "voluntarios", Value: "1"}})
	require.NoError(t, err)

	_, err = svc.General(ctx)
	require.NoError(t, err)
}

func TestRankingFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo := mocks.NewMockImpactRepositoryIface(ctrl)
	svc := service.NewRankingService(repo, nil, nil, nil, nil, nil)

	repo.EXPECT().FindForRanking(gomock.Any(), repository.RankingFilter{Region: model.RegionCenter}).Return(nil, nil)
	ranking, err := svc.ByRegion(ctx, model.RegionCenter)
	require.NoError(t, err)
	assert.Equal(t, model.RegionCenter, ranking.Region)

	repo.EXPECT().FindForRanking(gomock.Any(), repository.RankingFilter{IndustryType: model.IndustryFood}).Return(nil, nil)
	ranking, err = svc.ByIndustryType(ctx, model.IndustryFood)
	require.NoError(t, err)
	assert.Equal(t, model.IndustryFood, ranking.IndustryType)

	_, err = svc.ByRegion(ctx, "Oeste")
	assert.ErrorIs(t, err, domain.ErrInvalidRegion)

	_, err = svc.ByIndustryType(ctx, "Mineria")
	assert.ErrorIs(t, err, domain.ErrInvalidIndustryType)
}

func TestCompanySummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	companies := mocks.NewMockCompanyRepositoryIface(ctrl)
	projects := mocks.NewMockProjectRepositoryIface(ctrl)
	store := newFakeImpactRepo()
	agg := service.NewImpactAggregator(store, &fakeTransactor{repo: store}, nil, nil, nil, nil)
	svc := service.NewRankingService(store, companies, projects, agg, nil, nil)

	company := &model.Company{ID: uuid.New(), Name: "Acme", Region: model.RegionNorth}
	latest := []*model.Project{
		{
			ID:   uuid.New(),
			Name: "Plantación",
			Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			Entries: []model.ProjectImpactEntry{
				{Metric: "Árboles nativos", Value: "120"},
				{Metric: "Voluntarios corporativos", Value: "12 personas"},
			},
		},
		{
			ID:      uuid.New(),
			Name:    "Limpieza",
			Date:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Entries: []model.ProjectImpactEntry{{Metric: "voluntarios", Value: "8"}},
		},
	}

	t.Run("company without accumulated impact", func(t *testing.T) {
		companies.EXPECT().FindByID(gomock.Any(), company.ID).Return(company, nil)
		projects.EXPECT().FindLatestByCompany(gomock.Any(), company.ID, 5).Return(latest, int64(7), nil)

		summary, err := svc.Summary(ctx, company.ID)
		require.NoError(t, err)

		assert.Equal(t, "Acme", summary.Company.Name)
		assert.Equal(t, int64(0), summary.Impact.TotalPoints)
		assert.Equal(t, int64(7), summary.Projects.Total)
		require.Len(t, summary.Projects.Latest, 2)
		assert.Equal(t, "Plantación", summary.Projects.Latest[0].Name)
		assert.True(t, summary.Projects.Metrics.TotalVolunteers.Equal(dec("20")))
		assert.True(t, summary.Projects.Metrics.TotalTrees.Equal(dec("120")))
		assert.Empty(t, summary.Visualization)
	})

	t.Run("company with accumulated impact", func(t *testing.T) {
		_, err := agg.ApplyProjectCreated(ctx, company.ID, latest[0].ID, []impact.Entry{{Metric: "agua infiltrada", Value: "4000", Unit: "L"}})
		require.NoError(t, err)

		companies.EXPECT().FindByID(gomock.Any(), company.ID).Return(company, nil)
		projects.EXPECT().FindLatestByCompany(gomock.Any(), company.ID, 5).Return(nil, int64(0), nil)

		summary, err := svc.Summary(ctx, company.ID)
		require.NoError(t, err)

		assert.Equal(t, int64(2), summary.Impact.TotalPoints)
		require.Len(t, summary.Visualization, 6)
		assert.Equal(t, "Litros de agua", summary.Visualization[1].Name)
		assert.Equal(t, "L", summary.Visualization[1].Unit)
		assert.True(t, summary.Visualization[1].Value.Equal(dec("4000")))
	})

	t.Run("unknown company", func(t *testing.T) {
		missing := uuid.New()
		companies.EXPECT().FindByID(gomock.Any(), missing).Return(nil, domain.ErrCompanyNotFound)

		_, err := svc.Summary(ctx, missing)
		assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
	})
}
