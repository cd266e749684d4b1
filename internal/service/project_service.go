package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/mapper"
	"github.com/fabrikk-as/console-api/internal/repository"
	"github.com/fabrikk-as/console-api/internal/workflow"
)

// ProjectService manages execution projects. Projects are created only by
// completing a sales order; once the delivery note is signed the project
// is frozen and every mutation is refused.
type ProjectService struct {
	repo   *repository.ProjectRepository
	orch   *workflow.Orchestrator
	logger *zap.Logger
}

func NewProjectService(repo *repository.ProjectRepository, orch *workflow.Orchestrator, logger *zap.Logger) *ProjectService {
	return &ProjectService{repo: repo, orch: orch, logger: logger}
}

func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectDTO, error) {
	return s.reload(ctx, id)
}

func (s *ProjectService) GetBySalesOrderID(ctx context.Context, salesOrderID uuid.UUID) (*domain.ProjectDTO, error) {
	project, err := s.repo.GetBySalesOrderID(ctx, salesOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

// Update edits the project's own fields. A status in the request is
// applied through the transition table.
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProjectRequest) (*domain.ProjectDTO, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if err := workflow.ValidateProjectMutable(project); err != nil {
		return nil, err
	}

	if req.Status != "" && req.Status != project.Status {
		if err := s.orch.TransitionProject(project, req.Status); err != nil {
			return nil, err
		}
	}
	project.Name = req.Name
	project.Notes = req.Notes

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.reload(ctx, id)
}

// Transition applies a requested status change. Completion is reserved
// for the delivery-note sign-off.
func (s *ProjectService) Transition(ctx context.Context, id uuid.UUID, to domain.ProjectStatus) (*domain.ProjectDTO, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	oldStatus := project.Status
	if err := s.orch.TransitionProject(project, to); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}

	s.logger.Info("project status changed",
		zap.String("project_id", project.ID.String()),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(project.Status)))

	return s.reload(ctx, id)
}

// SignDeliveryNote records the customer sign-off, completes the project
// and freezes it. Signing is irreversible; a second attempt fails and
// leaves the stored record untouched.
func (s *ProjectService) SignDeliveryNote(ctx context.Context, id uuid.UUID, req *domain.SignDeliveryNoteRequest) (*domain.ProjectDTO, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if err := s.orch.SignDeliveryNote(project, req.SignedBy); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.logger.Info("delivery note signed",
		zap.String("project_id", project.ID.String()),
		zap.String("signed_by", req.SignedBy))

	return s.reload(ctx, id)
}

func (s *ProjectService) List(ctx context.Context, page, pageSize int, customerID *uuid.UUID, status *domain.ProjectStatus) (*domain.ListResponse[domain.ProjectDTO], error) {
	projects, total, err := s.repo.List(ctx, page, pageSize, customerID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	dtos := make([]domain.ProjectDTO, 0, len(projects))
	for i := range projects {
		dtos = append(dtos, mapper.ToProjectDTO(&projects[i]))
	}

	return &domain.ListResponse[domain.ProjectDTO]{
		Items:      dtos,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func (s *ProjectService) reload(ctx context.Context, id uuid.UUID) (*domain.ProjectDTO, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to reload project: %w", err)
	}
	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}
