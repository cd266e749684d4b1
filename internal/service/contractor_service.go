package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fabrikk-as/console-api/internal/billing"
	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/mapper"
	"github.com/fabrikk-as/console-api/internal/repository"
	"github.com/fabrikk-as/console-api/internal/workflow"
)

// ContractorService manages subcontractors, their project assignments and
// the payment ledger against each assignment's contract value.
type ContractorService struct {
	db          *gorm.DB
	repo        *repository.ContractorRepository
	projectRepo *repository.ProjectRepository
	orch        *workflow.Orchestrator
	logger      *zap.Logger
}

func NewContractorService(
	db *gorm.DB,
	repo *repository.ContractorRepository,
	projectRepo *repository.ProjectRepository,
	orch *workflow.Orchestrator,
	logger *zap.Logger,
) *ContractorService {
	return &ContractorService{
		db:          db,
		repo:        repo,
		projectRepo: projectRepo,
		orch:        orch,
		logger:      logger,
	}
}

func (s *ContractorService) Create(ctx context.Context, req *domain.CreateContractorRequest) (*domain.ContractorDTO, error) {
	contractor := &domain.Contractor{
		Name:          req.Name,
		Trade:         req.Trade,
		OrgNumber:     req.OrgNumber,
		Email:         req.Email,
		Phone:         req.Phone,
		ContactPerson: req.ContactPerson,
		IsActive:      true,
	}

	if err := s.repo.Create(ctx, contractor); err != nil {
		return nil, fmt.Errorf("failed to create contractor: %w", err)
	}

	s.logger.Info("contractor created",
		zap.String("contractor_id", contractor.ID.String()),
		zap.String("name", contractor.Name))

	dto := mapper.ToContractorDTO(contractor)
	return &dto, nil
}

func (s *ContractorService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContractorDTO, error) {
	contractor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractorNotFound
		}
		return nil, fmt.Errorf("failed to get contractor: %w", err)
	}
	dto := mapper.ToContractorDTO(contractor)
	return &dto, nil
}

func (s *ContractorService) List(ctx context.Context, page, pageSize int, activeOnly bool) (*domain.ListResponse[domain.ContractorDTO], error) {
	contractors, total, err := s.repo.List(ctx, page, pageSize, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list contractors: %w", err)
	}

	dtos := make([]domain.ContractorDTO, 0, len(contractors))
	for i := range contractors {
		dtos = append(dtos, mapper.ToContractorDTO(&contractors[i]))
	}

	return &domain.ListResponse[domain.ContractorDTO]{
		Items:      dtos,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// CreateAssignment engages a contractor on a project for a fixed contract
// value. The assignment starts pending with the full value outstanding.
func (s *ContractorService) CreateAssignment(ctx context.Context, req *domain.CreateContractorAssignmentRequest) (*domain.ContractorAssignmentDTO, error) {
	contractor, err := s.repo.GetByID(ctx, req.ContractorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractorNotFound
		}
		return nil, fmt.Errorf("failed to get contractor: %w", err)
	}

	project, err := s.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if err := workflow.ValidateProjectMutable(project); err != nil {
		return nil, err
	}

	if !req.ContractValue.IsPositive() {
		return nil, billing.ValidationErrors{"contractValue": "contract value must be greater than zero"}
	}

	assignment := &domain.ContractorAssignment{
		ContractorID:  contractor.ID,
		ProjectID:     project.ID,
		Description:   req.Description,
		ContractValue: req.ContractValue,
		PendingAmount: req.ContractValue,
		Status:        domain.ContractorAssignmentStatusPending,
	}

	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.logger.Info("contractor assignment created",
		zap.String("assignment_id", assignment.ID.String()),
		zap.String("contractor", contractor.Name),
		zap.String("project_id", project.ID.String()),
		zap.String("contract_value", assignment.ContractValue.StringFixed(2)))

	return s.reloadAssignment(ctx, assignment.ID)
}

func (s *ContractorService) GetAssignment(ctx context.Context, id uuid.UUID) (*domain.ContractorAssignmentDTO, error) {
	return s.reloadAssignment(ctx, id)
}

func (s *ContractorService) ListAssignments(ctx context.Context, contractorID, projectID *uuid.UUID) ([]domain.ContractorAssignmentDTO, error) {
	assignments, err := s.repo.ListAssignments(ctx, contractorID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	dtos := make([]domain.ContractorAssignmentDTO, 0, len(assignments))
	for i := range assignments {
		dtos = append(dtos, mapper.ToContractorAssignmentDTO(&assignments[i]))
	}
	return dtos, nil
}

// RecordPayment applies a payment to the assignment ledger and stores the
// payment row. Both writes share one transaction; the pending amount is
// clamped at zero and a cleared balance completes the assignment.
func (s *ContractorService) RecordPayment(ctx context.Context, assignmentID uuid.UUID, req *domain.RecordPaymentRequest, recordedBy string) (*domain.ContractorAssignmentDTO, error) {
	assignment, err := s.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	allocation, err := s.orch.RecordContractorPayment(assignment, req.Amount)
	if err != nil {
		return nil, err
	}

	payment := &domain.ContractorPayment{
		AssignmentID: assignment.ID,
		Amount:       req.Amount,
		Reference:    req.Reference,
		PaidAt:       time.Now().UTC(),
		RecordedBy:   recordedBy,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.NewContractorRepository(tx)
		if err := txRepo.UpdateAssignment(ctx, assignment); err != nil {
			return fmt.Errorf("failed to update assignment: %w", err)
		}
		if err := txRepo.CreatePayment(ctx, payment); err != nil {
			return fmt.Errorf("failed to create payment row: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("contractor payment recorded",
		zap.String("assignment_id", assignment.ID.String()),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("pending_amount", assignment.PendingAmount.StringFixed(2)),
		zap.String("status", string(assignment.Status)),
		zap.Bool("overpaid", allocation.Overpaid))

	dto, err := s.reloadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	dto.Overpaid = allocation.Overpaid
	return dto, nil
}

func (s *ContractorService) reloadAssignment(ctx context.Context, id uuid.UUID) (*domain.ContractorAssignmentDTO, error) {
	assignment, err := s.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to reload assignment: %w", err)
	}
	dto := mapper.ToContractorAssignmentDTO(assignment)
	return &dto, nil
}
