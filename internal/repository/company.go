// internal/repository/company.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dangerclosesec/greenhug/internal/domain"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompanyRepositoryIface interface {
	Create(ctx context.Context, company *model.Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error)
	FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.Company, error)
	FindAll(ctx context.Context) ([]*model.Company, error)
	FindAllPaginated(ctx context.Context, offset, limit int) ([]*model.Company, int64, error)
	Update(ctx context.Context, company *model.Company) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(ctx context.Context, company *model.Company) error {
	if err := conn(ctx, r.db).Omit("Projects", "Impact").Create(company).Error; err != nil {
		return fmt.Errorf("creating company: %w", err)
	}
	return nil
}

func (r *CompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := conn(ctx, r.db).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("finding company: %w", err)
	}
	return &company, nil
}

// FindByIDWithDetails loads the company with its accumulated impact and its
// projects, newest first, including their entries.
func (r *CompanyRepository) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var company model.Company
	err := conn(ctx, r.db).
		Preload("Impact").
		Preload("Projects", func(db *gorm.DB) *gorm.DB {
			return db.Order("projects.date DESC")
		}).
		Preload("Projects.Entries").
		First(&company, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("finding company: %w", err)
	}
	return &company, nil
}

// FindAll returns all companies with projects, entries and accumulated impact
func (r *CompanyRepository) FindAll(ctx context.Context) ([]*model.Company, error) {
	var companies []*model.Company
	result := conn(ctx, r.db).
		Preload("Impact").
		Preload("Projects", func(db *gorm.DB) *gorm.DB {
			return db.Order("projects.date DESC")
		}).
		Preload("Projects.Entries").
		Order("companies.name ASC").
		Find(&companies)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find all companies: %w", result.Error)
	}
	return companies, nil
}

// FindAllPaginated returns a page of companies with their accumulated impact
func (r *CompanyRepository) FindAllPaginated(ctx context.Context, offset, limit int) ([]*model.Company, int64, error) {
	var companies []*model.Company
	var count int64

	if err := conn(ctx, r.db).Model(&model.Company{}).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	result := conn(ctx, r.db).
		Preload("Impact").
		Order("companies.name ASC").
		Offset(offset).
		Limit(limit).
		Find(&companies)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to find paginated companies: %w", result.Error)
	}

	return companies, count, nil
}

func (r *CompanyRepository) Update(ctx context.Context, company *model.Company) error {
	if err := conn(ctx, r.db).Omit("Projects", "Impact").Save(company).Error; err != nil {
		return fmt.Errorf("updating company: %w", err)
	}
	return nil
}

// Delete removes the company and everything hanging off it: entries,
// projects, accumulated impact and its ledger. Either all rows go or none.
func (r *CompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		projectIDs := tx.Model(&model.Project{}).Select("id").Where("company_id = ?", id)

		if err := tx.Where("project_id IN (?)", projectIDs).Delete(&model.ProjectImpactEntry{}).Error; err != nil {
			return fmt.Errorf("deleting impact entries: %w", err)
		}

		if err := tx.Where("company_id = ?", id).Delete(&model.Project{}).Error; err != nil {
			return fmt.Errorf("deleting projects: %w", err)
		}

		if err := tx.Where("company_id = ?", id).Delete(&model.CompanyImpact{}).Error; err != nil {
			return fmt.Errorf("deleting accumulated impact: %w", err)
		}

		if err := tx.Where("company_id = ?", id).Delete(&model.ImpactAuditLog{}).Error; err != nil {
			return fmt.Errorf("deleting impact ledger: %w", err)
		}

		result := tx.Delete(&model.Company{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("deleting company: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrCompanyNotFound
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}
