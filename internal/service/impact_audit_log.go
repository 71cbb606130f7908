package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dangerclosesec/greenhug/internal/audit"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/dangerclosesec/greenhug/internal/repository"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Ensure ImpactAuditLogService implements the audit.Logger interface
var _ audit.Logger = (*ImpactAuditLogService)(nil)

const maxHistoryPageSize = 500

// ImpactAuditLogService writes and reads the impact ledger
type ImpactAuditLogService struct {
	repo repository.ImpactAuditLogRepositoryIface
}

// NewImpactAuditLogService creates a new ImpactAuditLogService
func NewImpactAuditLogService(repo repository.ImpactAuditLogRepositoryIface) *ImpactAuditLogService {
	return &ImpactAuditLogService{
		repo: repo,
	}
}

// LogImpactChange stores one ledger row for an accumulated impact mutation
func (s *ImpactAuditLogService) LogImpactChange(ctx context.Context, change audit.Change) error {
	delta, err := json.Marshal(change.Delta)
	if err != nil {
		return fmt.Errorf("encoding impact delta: %w", err)
	}

	log := &model.ImpactAuditLog{
		CompanyID:    change.CompanyID,
		ProjectID:    change.ProjectID,
		ActionType:   change.Action,
		Delta:        datatypes.JSON(delta),
		PointsBefore: change.PointsBefore,
		PointsAfter:  change.PointsAfter,
		Unclassified: change.Unclassified,
		RequestID:    middleware.GetReqID(ctx),
	}

	return s.repo.Create(ctx, log)
}

// GetHistory returns a company's ledger, newest first
func (s *ImpactAuditLogService) GetHistory(ctx context.Context, params repository.QueryParams) ([]model.ImpactAuditLog, int64, error) {
	if params.Limit > maxHistoryPageSize {
		params.Limit = maxHistoryPageSize
	}
	return s.repo.Query(ctx, params)
}

// GetEntry retrieves a single ledger row
func (s *ImpactAuditLogService) GetEntry(ctx context.Context, id uuid.UUID) (*model.ImpactAuditLog, error) {
	return s.repo.FindByID(ctx, id)
}
