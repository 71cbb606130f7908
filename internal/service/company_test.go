package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dangerclosesec/greenhug/internal/domain"
	"github.com/dangerclosesec/greenhug/internal/impact"
	"github.com/dangerclosesec/greenhug/internal/mocks"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/dangerclosesec/greenhug/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func validCompanyInput() service.CompanyInput {
	return service.CompanyInput{
		Name:         " Acme ",
		IndustryType: model.IndustryRetail,
		Region:       model.RegionSouth,
		City:         "Temuco",
		Country:      "Chile",
	}
}

func TestCompanyCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo := mocks.NewMockCompanyRepositoryIface(ctrl)
	svc := service.NewCompanyService(repo, service.NewImpactAggregator(newFakeImpactRepo(), passthroughTransactor{}, nil, nil, nil, nil))

	t.Run("valid", func(t *testing.T) {
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, c *model.Company) error {
			c.ID = uuid.New()
			return nil
		})

		company, err := svc.Create(ctx, validCompanyInput())
		require.NoError(t, err)
		assert.Equal(t, "Acme", company.Name)
		assert.Equal(t, model.RegionSouth, company.Region)
		assert.NotEqual(t, uuid.Nil, company.ID)
	})

	t.Run("unknown region", func(t *testing.T) {
		in := validCompanyInput()
		in.Region = "Oeste"

		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.ErrorIs(t, err, domain.ErrInvalidRegion)
	})

	t.Run("unknown industry type", func(t *testing.T) {
		in := validCompanyInput()
		in.IndustryType = "Mineria"

		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidIndustryType)
	})

	t.Run("missing city", func(t *testing.T) {
		in := validCompanyInput()
		in.City = ""

		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestCompanyUpdateAndDeleteInvalidateRankings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo := mocks.NewMockCompanyRepositoryIface(ctrl)
	cache := service.NewCacheService(service.CacheConfig{TTL: time.Minute})
	defer cache.Close()

	agg := service.NewImpactAggregator(newFakeImpactRepo(), passthroughTransactor{}, nil, cache, nil, nil)
	svc := service.NewCompanyService(repo, agg)
	id := uuid.New()

	require.NoError(t, cache.Set(ctx, service.RankingKeyPrefix+"general", "stale"))

	repo.EXPECT().FindByID(gomock.Any(), id).Return(&model.Company{ID: id, Name: "Old"}, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	company, err := svc.Update(ctx, id, validCompanyInput())
	require.NoError(t, err)
	assert.Equal(t, "Acme", company.Name)
	assert.ErrorIs(t, cache.Get(ctx, service.RankingKeyPrefix+"general", new(string)), domain.ErrNotFound)

	require.NoError(t, cache.Set(ctx, service.RankingKeyPrefix+"general", "stale"))
	repo.EXPECT().Delete(gomock.Any(), id).Return(nil)

	require.NoError(t, svc.Delete(ctx, id))
	assert.ErrorIs(t, cache.Get(ctx, service.RankingKeyPrefix+"general", new(string)), domain.ErrNotFound)
}

func TestCompanyDeleteNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockCompanyRepositoryIface(ctrl)
	svc := service.NewCompanyService(repo, service.NewImpactAggregator(newFakeImpactRepo(), passthroughTransactor{}, nil, nil, nil, nil))
	id := uuid.New()

	repo.EXPECT().Delete(gomock.Any(), id).Return(domain.ErrCompanyNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), id), domain.ErrCompanyNotFound)
}

func TestCompanyGetIncludesImpact(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockCompanyRepositoryIface(ctrl)
	svc := service.NewCompanyService(repo, nil)
	id := uuid.New()

	rec := model.NewCompanyImpact(id)
	rec.SetBundle(impact.Bundle{}.With(impact.FieldVolunteers, dec("10")))
	repo.EXPECT().FindByIDWithDetails(gomock.Any(), id).Return(&model.Company{ID: id, Impact: rec}, nil)

	company, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(30), company.Impact.TotalPoints)
}
