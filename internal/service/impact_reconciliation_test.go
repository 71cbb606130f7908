package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dangerclosesec/greenhug/internal/impact"
	"github.com/dangerclosesec/greenhug/internal/mocks"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/dangerclosesec/greenhug/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestImpactReconciliation(t *testing.T) {
	ctx := context.Background()

	inSync := &model.Company{ID: uuid.New()}
	drifted := &model.Company{ID: uuid.New()}
	broken := &model.Company{ID: uuid.New()}

	trees := []model.ProjectImpactEntry{{Metric: "árboles plantados", Value: "10"}}
	water := []model.ProjectImpactEntry{{Metric: "agua infiltrada", Value: "6000"}, {Metric: "talleres", Value: "3"}}

	setup := func(t *testing.T, dryRun bool) (*service.ImpactReconciliationService, *service.ImpactAggregator) {
		ctrl := gomock.NewController(t)
		t.Cleanup(ctrl.Finish)

		store := newFakeImpactRepo()
		agg := service.NewImpactAggregator(store, &fakeTransactor{repo: store}, nil, nil, nil, nil)

		_, err := agg.ApplyProjectCreated(ctx, inSync.ID, uuid.New(), model.ImpactEntries(trees))
		require.NoError(t, err)
		_, err = agg.ApplyManualAdjustment(ctx, drifted.ID, impact.Bundle{}.With(impact.FieldWaterLiters, dec("100")))
		require.NoError(t, err)

		companies := mocks.NewMockCompanyRepositoryIface(ctrl)
		projects := mocks.NewMockProjectRepositoryIface(ctrl)

		gomock.InOrder(
			companies.EXPECT().FindAllPaginated(gomock.Any(), 0, 2).Return([]*model.Company{inSync, drifted}, int64(3), nil),
			companies.EXPECT().FindAllPaginated(gomock.Any(), 2, 2).Return([]*model.Company{broken}, int64(3), nil),
		)
		projects.EXPECT().FindEntriesByCompany(gomock.Any(), inSync.ID).Return(trees, nil)
		projects.EXPECT().FindEntriesByCompany(gomock.Any(), drifted.ID).Return(water, nil)
		projects.EXPECT().FindEntriesByCompany(gomock.Any(), broken.ID).Return(nil, errors.New("connection reset"))

		svc := service.NewImpactReconciliationService(companies, projects, agg, 0, nil)
		svc.SetBatchSize(2)
		svc.SetDryRun(dryRun)
		return svc, agg
	}

	t.Run("repairs drifted records", func(t *testing.T) {
		svc, agg := setup(t, false)

		report, err := svc.ReconcileAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, service.ReconcileReport{Companies: 3, Drifted: 1, Repaired: 1, Failed: 1}, *report)

		rec, err := agg.GetAccumulated(ctx, drifted.ID)
		require.NoError(t, err)
		assert.True(t, rec.WaterLiters.Equal(dec("6000")))
		assert.Equal(t, int64(3), rec.TotalPoints)
		assert.Equal(t, int64(1), rec.UnclassifiedEntries)
	})

	t.Run("dry run leaves records alone", func(t *testing.T) {
		svc, agg := setup(t, true)

		report, err := svc.ReconcileAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, service.ReconcileReport{Companies: 3, Drifted: 1, Failed: 1}, *report)

		rec, err := agg.GetAccumulated(ctx, drifted.ID)
		require.NoError(t, err)
		assert.True(t, rec.WaterLiters.Equal(dec("100")))
	})
}
