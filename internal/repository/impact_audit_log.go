package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dangerclosesec/greenhug/internal/domain"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImpactAuditLogRepositoryIface interface {
	Create(ctx context.Context, log *model.ImpactAuditLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ImpactAuditLog, error)
	Query(ctx context.Context, params QueryParams) ([]model.ImpactAuditLog, int64, error)
}

// ImpactAuditLogRepository handles database operations for the impact ledger
type ImpactAuditLogRepository struct {
	db *gorm.DB
}

// NewImpactAuditLogRepository creates a new ImpactAuditLogRepository
func NewImpactAuditLogRepository(db *gorm.DB) *ImpactAuditLogRepository {
	return &ImpactAuditLogRepository{
		db: db,
	}
}

// Create inserts a new ledger row
func (r *ImpactAuditLogRepository) Create(ctx context.Context, log *model.ImpactAuditLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}

	result := conn(ctx, r.db).Create(log)
	if result.Error != nil {
		return fmt.Errorf("failed to create impact audit log: %w", result.Error)
	}

	return nil
}

// FindByID retrieves a ledger row by its ID
func (r *ImpactAuditLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ImpactAuditLog, error) {
	var log model.ImpactAuditLog
	result := conn(ctx, r.db).Where("id = ?", id).First(&log)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find impact audit log: %w", result.Error)
	}

	return &log, nil
}

// QueryParams holds parameters for querying the ledger
type QueryParams struct {
	CompanyID  uuid.UUID
	ProjectID  uuid.UUID
	ActionType string
	StartTime  time.Time
	EndTime    time.Time
	Limit      int
	Offset     int
}

// Query retrieves ledger rows based on the provided query parameters
func (r *ImpactAuditLogRepository) Query(ctx context.Context, params QueryParams) ([]model.ImpactAuditLog, int64, error) {
	var logs []model.ImpactAuditLog
	var count int64

	query := conn(ctx, r.db).Model(&model.ImpactAuditLog{})

	// Apply filters
	if params.CompanyID != uuid.Nil {
		query = query.Where("company_id = ?", params.CompanyID)
	}
	if params.ProjectID != uuid.Nil {
		query = query.Where("project_id = ?", params.ProjectID)
	}
	if params.ActionType != "" {
		query = query.Where("action_type = ?", params.ActionType)
	}
	if !params.StartTime.IsZero() {
		query = query.Where("timestamp >= ?", params.StartTime)
	}
	if !params.EndTime.IsZero() {
		query = query.Where("timestamp <= ?", params.EndTime)
	}

	// Get total count for pagination
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count impact audit logs: %w", err)
	}

	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	} else {
		query = query.Limit(100) // Default limit
	}

	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	result := query.Order("timestamp DESC").Find(&logs)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to query impact audit logs: %w", result.Error)
	}

	return logs, count, nil
}
