// internal/repository/impact.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dangerclosesec/greenhug/internal/domain"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RankingFilter narrows the accumulated records by company attributes. Empty
// fields do not filter.
type RankingFilter struct {
	Region       model.Region
	IndustryType model.IndustryType
}

type ImpactRepositoryIface interface {
	FindByCompany(ctx context.Context, companyID uuid.UUID) (*model.CompanyImpact, error)
	FindForUpdate(ctx context.Context, companyID uuid.UUID, create bool) (*model.CompanyImpact, error)
	Save(ctx context.Context, impact *model.CompanyImpact) error
	FindForRanking(ctx context.Context, filter RankingFilter) ([]*model.CompanyImpact, error)
}

// ImpactRepository stores the per-company accumulated impact.
type ImpactRepository struct {
	db *gorm.DB
}

func NewImpactRepository(db *gorm.DB) *ImpactRepository {
	return &ImpactRepository{db: db}
}

// FindByCompany returns domain.ErrNotFound when the company has no record yet.
func (r *ImpactRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) (*model.CompanyImpact, error) {
	var rec model.CompanyImpact
	if err := conn(ctx, r.db).First(&rec, "company_id = ?", companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding accumulated impact: %w", err)
	}
	return &rec, nil
}

// FindForUpdate reads the company's record with a row lock held until the
// surrounding transaction ends. With create set, a zero record is inserted
// first if none exists, so concurrent first writers end up on the same row.
// Without create, a missing record is domain.ErrNotFound.
func (r *ImpactRepository) FindForUpdate(ctx context.Context, companyID uuid.UUID, create bool) (*model.CompanyImpact, error) {
	db := conn(ctx, r.db)

	if create {
		empty := model.NewCompanyImpact(companyID)
		err := db.Omit("Company").
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "company_id"}}, DoNothing: true}).
			Create(empty).Error
		if err != nil {
			return nil, fmt.Errorf("initializing accumulated impact: %w", err)
		}
	}

	var rec model.CompanyImpact
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rec, "company_id = ?", companyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("locking accumulated impact: %w", err)
	}
	return &rec, nil
}

func (r *ImpactRepository) Save(ctx context.Context, impact *model.CompanyImpact) error {
	if err := conn(ctx, r.db).Omit("Company").Save(impact).Error; err != nil {
		return fmt.Errorf("saving accumulated impact: %w", err)
	}
	return nil
}

// FindForRanking returns the accumulated records joined with their company.
func (r *ImpactRepository) FindForRanking(ctx context.Context, filter RankingFilter) ([]*model.CompanyImpact, error) {
	var impacts []*model.CompanyImpact

	query := conn(ctx, r.db).Joins("Company")
	if filter.Region != "" {
		query = query.Where(`"Company"."region" = ?`, filter.Region)
	}
	if filter.IndustryType != "" {
		query = query.Where(`"Company"."industry_type" = ?`, filter.IndustryType)
	}

	err := query.
		Order("company_impacts.total_points DESC").
		Order("company_impacts.company_id ASC").
		Find(&impacts).Error
	if err != nil {
		return nil, fmt.Errorf("finding ranking records: %w", err)
	}
	return impacts, nil
}
