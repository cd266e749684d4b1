package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/mapper"
	"github.com/fabrikk-as/console-api/internal/repository"
	"github.com/fabrikk-as/console-api/internal/workflow"
)

// WorkOrderService manages shop-floor work orders under a project. Costs
// are estimates derived from material requirements and labor assignments;
// they never feed customer-facing invoices.
type WorkOrderService struct {
	db          *gorm.DB
	repo        *repository.WorkOrderRepository
	projectRepo *repository.ProjectRepository
	orch        *workflow.Orchestrator
	numbers     *NumberSequenceService
	logger      *zap.Logger
}

func NewWorkOrderService(
	db *gorm.DB,
	repo *repository.WorkOrderRepository,
	projectRepo *repository.ProjectRepository,
	orch *workflow.Orchestrator,
	numbers *NumberSequenceService,
	logger *zap.Logger,
) *WorkOrderService {
	return &WorkOrderService{
		db:          db,
		repo:        repo,
		projectRepo: projectRepo,
		orch:        orch,
		numbers:     numbers,
		logger:      logger,
	}
}

func (s *WorkOrderService) Create(ctx context.Context, req *domain.CreateWorkOrderRequest) (*domain.WorkOrderDTO, error) {
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

	workOrder := &domain.WorkOrder{
		ProjectID:            project.ID,
		Title:                req.Title,
		Description:          req.Description,
		Status:               domain.WorkOrderStatusPending,
		MaterialRequirements: toLineItems(req.MaterialRequirements, s.orch.DefaultTaxRate()),
		LaborAssignments:     toLaborAssignments(req.LaborAssignments),
	}
	// Material requirements are internal cost lines, not taxed sales lines
	for i := range workOrder.MaterialRequirements {
		workOrder.MaterialRequirements[i].TaxRatePercent = decimal.Zero
	}

	if err := s.orch.ValidateAndComputeWorkOrder(workOrder); err != nil {
		return nil, err
	}

	number, err := s.numbers.Generate(ctx, PrefixWorkOrder)
	if err != nil {
		return nil, err
	}
	workOrder.Number = number

	if err := s.repo.Create(ctx, workOrder); err != nil {
		return nil, fmt.Errorf("failed to create work order: %w", err)
	}

	s.logger.Info("work order created",
		zap.String("work_order_id", workOrder.ID.String()),
		zap.String("number", workOrder.Number),
		zap.String("project_id", project.ID.String()),
		zap.String("estimated_cost", workOrder.TotalEstimatedCost.StringFixed(2)))

	return s.reload(ctx, workOrder.ID)
}

func (s *WorkOrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrderDTO, error) {
	return s.reload(ctx, id)
}

// Update replaces the work order's fields, material requirements and
// labor assignments, recomputing estimated costs. Terminal work orders
// and finalized projects reject edits.
func (s *WorkOrderService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateWorkOrderRequest) (*domain.WorkOrderDTO, error) {
	workOrder, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}
	if workflow.IsTerminal(workflow.KindWorkOrder, string(workOrder.Status)) {
		return nil, &workflow.LockedError{Message: "work order is finalized"}
	}

	project, err := s.projectRepo.GetByID(ctx, workOrder.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if err := workflow.ValidateProjectMutable(project); err != nil {
		return nil, err
	}

	workOrder.Title = req.Title
	workOrder.Description = req.Description
	workOrder.MaterialRequirements = toLineItems(req.MaterialRequirements, s.orch.DefaultTaxRate())
	for i := range workOrder.MaterialRequirements {
		workOrder.MaterialRequirements[i].TaxRatePercent = decimal.Zero
	}
	workOrder.LaborAssignments = toLaborAssignments(req.LaborAssignments)

	if err := s.orch.ValidateAndComputeWorkOrder(workOrder); err != nil {
		return nil, err
	}

	// Cost lines and the recomputed estimates land together or not at all
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewLineItemRepository(tx).Replace(ctx, domain.DocumentTypeWorkOrderMaterial, workOrder.ID, workOrder.MaterialRequirements); err != nil {
			return fmt.Errorf("failed to replace material requirements: %w", err)
		}
		workOrderRepo := repository.NewWorkOrderRepository(tx)
		if err := workOrderRepo.ReplaceLaborAssignments(ctx, workOrder.ID, workOrder.LaborAssignments); err != nil {
			return fmt.Errorf("failed to replace labor assignments: %w", err)
		}
		if err := workOrderRepo.Update(ctx, workOrder); err != nil {
			return fmt.Errorf("failed to update work order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, id)
}

// Transition applies a requested status change
func (s *WorkOrderService) Transition(ctx context.Context, id uuid.UUID, to domain.WorkOrderStatus) (*domain.WorkOrderDTO, error) {
	workOrder, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}

	oldStatus := workOrder.Status
	if err := s.orch.TransitionWorkOrder(workOrder, to); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, workOrder); err != nil {
		return nil, fmt.Errorf("failed to update work order status: %w", err)
	}

	s.logger.Info("work order status changed",
		zap.String("work_order_id", workOrder.ID.String()),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(workOrder.Status)))

	return s.reload(ctx, id)
}

func (s *WorkOrderService) List(ctx context.Context, page, pageSize int, projectID *uuid.UUID, status *domain.WorkOrderStatus) (*domain.ListResponse[domain.WorkOrderDTO], error) {
	workOrders, total, err := s.repo.List(ctx, page, pageSize, projectID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}

	dtos := make([]domain.WorkOrderDTO, 0, len(workOrders))
	for i := range workOrders {
		dtos = append(dtos, mapper.ToWorkOrderDTO(&workOrders[i]))
	}

	return &domain.ListResponse[domain.WorkOrderDTO]{
		Items:      dtos,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func (s *WorkOrderService) reload(ctx context.Context, id uuid.UUID) (*domain.WorkOrderDTO, error) {
	workOrder, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("failed to reload work order: %w", err)
	}
	dto := mapper.ToWorkOrderDTO(workOrder)
	return &dto, nil
}
