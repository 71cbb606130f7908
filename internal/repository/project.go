// internal/repository/project.go
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

type ProjectRepositoryIface interface {
	Create(ctx context.Context, project *model.Project) error
	CreateEntries(ctx context.Context, entries []model.ProjectImpactEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Project, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID) ([]*model.Project, error)
	FindLatestByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]*model.Project, int64, error)
	FindEntriesByCompany(ctx context.Context, companyID uuid.UUID) ([]model.ProjectImpactEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts the project together with its Entries.
func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	if err := conn(ctx, r.db).Create(project).Error; err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) CreateEntries(ctx context.Context, entries []model.ProjectImpactEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := conn(ctx, r.db).Create(&entries).Error; err != nil {
		return fmt.Errorf("creating impact entries: %w", err)
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := conn(ctx, r.db).Preload("Entries").First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("finding project: %w", err)
	}
	return &project, nil
}

// FindByIDForUpdate loads the project with its entries and locks the project
// row until the surrounding transaction ends.
func (r *ProjectRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Entries").
		First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("locking project: %w", err)
	}
	return &project, nil
}

// FindByCompany returns the company's projects, newest first, with entries.
func (r *ProjectRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]*model.Project, error) {
	var projects []*model.Project
	err := conn(ctx, r.db).
		Preload("Entries").
		Where("company_id = ?", companyID).
		Order("date DESC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("finding company projects: %w", err)
	}
	return projects, nil
}

// FindLatestByCompany returns up to limit projects, newest first, and the
// company's total project count.
func (r *ProjectRepository) FindLatestByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]*model.Project, int64, error) {
	var projects []*model.Project
	var count int64

	if err := conn(ctx, r.db).Model(&model.Project{}).Where("company_id = ?", companyID).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("counting company projects: %w", err)
	}

	err := conn(ctx, r.db).
		Preload("Entries").
		Where("company_id = ?", companyID).
		Order("date DESC").
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, 0, fmt.Errorf("finding latest company projects: %w", err)
	}
	return projects, count, nil
}

// FindEntriesByCompany returns every impact entry of every project of the
// company.
func (r *ProjectRepository) FindEntriesByCompany(ctx context.Context, companyID uuid.UUID) ([]model.ProjectImpactEntry, error) {
	var entries []model.ProjectImpactEntry
	err := conn(ctx, r.db).
		Joins("JOIN projects ON projects.id = project_impact_entries.project_id").
		Where("projects.company_id = ?", companyID).
		Order("project_impact_entries.created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("finding company impact entries: %w", err)
	}
	return entries, nil
}

// Delete removes the project's entries and then the project.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectImpactEntry{}).Error; err != nil {
			return fmt.Errorf("deleting impact entries: %w", err)
		}

		result := tx.Delete(&model.Project{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("deleting project: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrProjectNotFound
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}
