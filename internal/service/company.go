// internal/service/company.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dangerclosesec/greenhug/internal/domain"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/dangerclosesec/greenhug/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CompanyInput struct {
	Name              string             `json:"name" validate:"required,max=200"`
	IndustryType      model.IndustryType `json:"industry_type" validate:"required"`
	Region            model.Region       `json:"region" validate:"required"`
	City              string             `json:"city" validate:"required,max=100"`
	Country           string             `json:"country" validate:"required,max=100"`
	ImpactDescription string             `json:"impact_description"`
}

type CompanyService struct {
	repo       repository.CompanyRepositoryIface
	aggregator *ImpactAggregator
	validate   *validator.Validate
}

func NewCompanyService(repo repository.CompanyRepositoryIface, aggregator *ImpactAggregator) *CompanyService {
	return &CompanyService{
		repo:       repo,
		aggregator: aggregator,
		validate:   validator.New(),
	}
}

// List returns every company with its projects, entries and accumulated
// impact.
func (s *CompanyService) List(ctx context.Context) ([]*model.Company, error) {
	return s.repo.FindAll(ctx)
}

func (s *CompanyService) Get(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	return s.repo.FindByIDWithDetails(ctx, id)
}

func (s *CompanyService) Create(ctx context.Context, input CompanyInput) (*model.Company, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	company := &model.Company{}
	input.apply(company)

	if err := s.repo.Create(ctx, company); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "company created", "company_id", company.ID, "name", company.Name)
	return company, nil
}

// Update replaces the company's fields. Region and industry type feed the
// rankings, so cached rankings are dropped.
func (s *CompanyService) Update(ctx context.Context, id uuid.UUID, input CompanyInput) (*model.Company, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input.apply(company)
	if err := s.repo.Update(ctx, company); err != nil {
		return nil, err
	}

	s.aggregator.InvalidateRankings(ctx)
	return company, nil
}

// Delete removes the company with its projects, entries, accumulated impact
// and ledger.
func (s *CompanyService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.aggregator.InvalidateRankings(ctx)
	slog.InfoContext(ctx, "company deleted", "company_id", id)
	return nil
}

func (s *CompanyService) validateInput(input CompanyInput) error {
	if err := validateStruct(s.validate, input); err != nil {
		return err
	}
	if !input.IndustryType.Valid() {
		return fmt.Errorf("%w: %w %q", domain.ErrInvalidInput, domain.ErrInvalidIndustryType, input.IndustryType)
	}
	if !input.Region.Valid() {
		return fmt.Errorf("%w: %w %q", domain.ErrInvalidInput, domain.ErrInvalidRegion, input.Region)
	}
	return nil
}

func (in CompanyInput) apply(c *model.Company) {
	c.Name = strings.TrimSpace(in.Name)
	c.IndustryType = in.IndustryType
	c.Region = in.Region
	c.City = strings.TrimSpace(in.City)
	c.Country = strings.TrimSpace(in.Country)
	c.ImpactDescription = in.ImpactDescription
}
