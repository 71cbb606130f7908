// internal/service/project.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dangerclosesec/greenhug/internal/domain"
	"github.com/dangerclosesec/greenhug/internal/impact"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/dangerclosesec/greenhug/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ImpactEntryInput struct {
	ImpactType model.ImpactType `json:"impact_type" validate:"required,oneof=ambiental social cultura"`
	Metric     string           `json:"metric" validate:"required,max=200"`
	Value      string           `json:"value" validate:"required,max=100"`
	Unit       string           `json:"unit" validate:"max=50"`
	Note       string           `json:"note" validate:"max=2000"`
}

type CreateProjectInput struct {
	Name        string             `json:"name" validate:"required,max=200"`
	Type        model.ProjectType  `json:"type" validate:"omitempty,oneof=EXP LIFE UPC PRO"`
	Date        string             `json:"date" validate:"required"`
	Description string             `json:"description"`
	Results     string             `json:"results"`
	Entries     []ImpactEntryInput `json:"entries" validate:"dive"`
}

type AddEntriesInput struct {
	Entries []ImpactEntryInput `json:"entries" validate:"dive"`
}

// ProjectImpactOutput is returned by the operations that add entries. When
// the accumulated impact could not be updated the entries are still stored
// and AggregationApplied is false.
type ProjectImpactOutput struct {
	Project             *model.Project             `json:"project,omitempty"`
	Entries             []model.ProjectImpactEntry `json:"entries,omitempty"`
	Impact              *model.CompanyImpact       `json:"impact,omitempty"`
	UnclassifiedEntries []impact.Entry             `json:"unclassified_entries"`
	AggregationApplied  bool                       `json:"aggregation_applied"`
}

type DeleteProjectOutput struct {
	ProjectID uuid.UUID            `json:"project_id"`
	Reversed  impact.Bundle        `json:"reversed"`
	Impact    *model.CompanyImpact `json:"impact"`
}

type ProjectService struct {
	repo        repository.ProjectRepositoryIface
	companyRepo repository.CompanyRepositoryIface
	tx          repository.Transactor
	aggregator  *ImpactAggregator
	notifier    ReviewNotifier
	logger      *slog.Logger
	validate    *validator.Validate
}

// NewProjectService wires the project service. notifier may be nil.
func NewProjectService(
	repo repository.ProjectRepositoryIface,
	companyRepo repository.CompanyRepositoryIface,
	tx repository.Transactor,
	aggregator *ImpactAggregator,
	notifier ReviewNotifier,
	logger *slog.Logger,
) *ProjectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectService{
		repo:        repo,
		companyRepo: companyRepo,
		tx:          tx,
		aggregator:  aggregator,
		notifier:    notifier,
		logger:      logger,
		validate:    validator.New(),
	}
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	return s.repo.FindByID(ctx, id)
}

// ListByCompany returns the company's projects with their entries.
func (s *ProjectService) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*model.Project, error) {
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		return nil, err
	}
	return s.repo.FindByCompany(ctx, companyID)
}

// Create stores the project and its entries and adds the entries to the
// company's accumulated impact in the same transaction, so a concurrent
// delete of the project only ever sees it with its impact applied.
func (s *ProjectService) Create(ctx context.Context, companyID uuid.UUID, input CreateProjectInput) (*ProjectImpactOutput, error) {
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	date, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	project := &model.Project{
		CompanyID:   companyID,
		Name:        strings.TrimSpace(input.Name),
		Type:        input.Type,
		Date:        date,
		Description: input.Description,
		Results:     input.Results,
		Entries:     buildEntries(uuid.Nil, input.Entries),
	}

	out := &ProjectImpactOutput{Project: project}
	txCtx, pending := deferReports(ctx)
	if err := s.tx.WithinTransaction(txCtx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, project); err != nil {
			return err
		}
		return s.applyImpact(ctx, project, project.Entries, s.aggregator.ApplyProjectCreated, out)
	}); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	pending.flush()

	s.notifyUnclassified(ctx, company, project, out)
	return out, nil
}

// AddEntries appends entries to an existing project. Only the new entries
// are added to the accumulated impact. The project stays locked until both
// are committed.
func (s *ProjectService) AddEntries(ctx context.Context, projectID uuid.UUID, input AddEntriesInput) (*ProjectImpactOutput, error) {
	if len(input.Entries) == 0 {
		return nil, domain.ErrNoImpactEntries
	}
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	var project *model.Project
	out := &ProjectImpactOutput{}
	txCtx, pending := deferReports(ctx)
	if err := s.tx.WithinTransaction(txCtx, func(ctx context.Context) error {
		var err error
		project, err = s.repo.FindByIDForUpdate(ctx, projectID)
		if err != nil {
			return err
		}

		entries := buildEntries(project.ID, input.Entries)
		if err := s.repo.CreateEntries(ctx, entries); err != nil {
			return err
		}
		out.Entries = entries
		return s.applyImpact(ctx, project, entries, s.aggregator.ApplyEntriesAdded, out)
	}); err != nil {
		return nil, fmt.Errorf("adding impact entries: %w", err)
	}
	pending.flush()

	company, err := s.companyRepo.FindByID(ctx, project.CompanyID)
	if err != nil {
		s.logger.WarnContext(ctx, "company lookup failed after adding entries", "error", err, "project_id", project.ID)
		company = &model.Company{ID: project.CompanyID}
	}

	s.notifyUnclassified(ctx, company, project, out)
	return out, nil
}

// Delete removes the project and subtracts its entries from the company's
// accumulated impact in one transaction.
func (s *ProjectService) Delete(ctx context.Context, projectID uuid.UUID) (*DeleteProjectOutput, error) {
	var out *DeleteProjectOutput

	txCtx, pending := deferReports(ctx)
	err := s.tx.WithinTransaction(txCtx, func(ctx context.Context) error {
		project, err := s.repo.FindByIDForUpdate(ctx, projectID)
		if err != nil {
			return err
		}

		result, err := s.aggregator.ApplyProjectDeleted(ctx, project.CompanyID, project.ID, model.ImpactEntries(project.Entries))
		if err != nil {
			return err
		}

		if err := s.repo.Delete(ctx, project.ID); err != nil {
			return err
		}

		out = &DeleteProjectOutput{
			ProjectID: project.ID,
			Reversed:  result.Delta,
			Impact:    result.Impact,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("deleting project: %w", err)
	}
	pending.flush()

	return out, nil
}

type applyFunc func(ctx context.Context, companyID, projectID uuid.UUID, entries []impact.Entry) (*AggregationResult, error)

// applyImpact feeds stored entries to the aggregator inside the caller's
// transaction. Entries that would push a counter out of range fail the whole
// operation. Any other aggregation failure is rolled back on its own, logged
// and reported in out, and the entries are kept for reconciliation.
func (s *ProjectService) applyImpact(ctx context.Context, project *model.Project, stored []model.ProjectImpactEntry, apply applyFunc, out *ProjectImpactOutput) error {
	entries := model.ImpactEntries(stored)
	out.UnclassifiedEntries = impact.Summarize(entries).Unclassified
	if out.UnclassifiedEntries == nil {
		out.UnclassifiedEntries = []impact.Entry{}
	}

	result, err := apply(ctx, project.CompanyID, project.ID, entries)
	switch {
	case errors.Is(err, domain.ErrImpactOutOfRange):
		return err
	case err != nil:
		s.logger.ErrorContext(ctx, "failed to update accumulated impact",
			"error", err,
			"company_id", project.CompanyID,
			"project_id", project.ID,
		)
	default:
		out.Impact = result.Impact
		out.AggregationApplied = true
	}
	return nil
}

func (s *ProjectService) notifyUnclassified(ctx context.Context, company *model.Company, project *model.Project, out *ProjectImpactOutput) {
	if s.notifier == nil || len(out.UnclassifiedEntries) == 0 {
		return
	}
	notice := UnclassifiedNotice{
		CompanyName: company.Name,
		ProjectName: project.Name,
		Entries:     out.UnclassifiedEntries,
	}
	if err := s.notifier.NotifyUnclassified(ctx, notice); err != nil {
		s.logger.WarnContext(ctx, "failed to send unclassified metrics notice", "error", err, "project_id", project.ID)
	}
}

func buildEntries(projectID uuid.UUID, inputs []ImpactEntryInput) []model.ProjectImpactEntry {
	entries := make([]model.ProjectImpactEntry, 0, len(inputs))
	for _, in := range inputs {
		entries = append(entries, model.ProjectImpactEntry{
			ProjectID:  projectID,
			ImpactType: in.ImpactType,
			Metric:     strings.TrimSpace(in.Metric),
			Value:      strings.TrimSpace(in.Value),
			Unit:       strings.TrimSpace(in.Unit),
			Note:       in.Note,
		})
	}
	return entries
}
