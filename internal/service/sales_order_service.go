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

// SalesOrderService manages confirmed customer orders. Completing an order
// is the one operation that writes two aggregates: the order flips to done
// and its execution project is created in the same transaction.
type SalesOrderService struct {
	db           *gorm.DB
	repo         *repository.SalesOrderRepository
	customerRepo *repository.CustomerRepository
	fileRepo     *repository.FileRepository
	orch         *workflow.Orchestrator
	numbers      *NumberSequenceService
	logger       *zap.Logger
}

func NewSalesOrderService(
	db *gorm.DB,
	repo *repository.SalesOrderRepository,
	customerRepo *repository.CustomerRepository,
	fileRepo *repository.FileRepository,
	orch *workflow.Orchestrator,
	numbers *NumberSequenceService,
	logger *zap.Logger,
) *SalesOrderService {
	return &SalesOrderService{
		db:           db,
		repo:         repo,
		customerRepo: customerRepo,
		fileRepo:     fileRepo,
		orch:         orch,
		numbers:      numbers,
		logger:       logger,
	}
}

// CompleteSalesOrderResult pairs the updated order with the project the
// completion produced
type CompleteSalesOrderResult struct {
	SalesOrder domain.SalesOrderDTO `json:"salesOrder"`
	Project    domain.ProjectDTO    `json:"project"`
}

func (s *SalesOrderService) Create(ctx context.Context, req *domain.CreateSalesOrderRequest) (*domain.SalesOrderDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	poIssueDate, err := parseDatePtr(req.POIssueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: poIssueDate must be an ISO 8601 date", ErrInvalidInput)
	}

	if req.POFileID != nil {
		if _, err := s.fileRepo.GetByID(ctx, *req.POFileID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrFileNotFound
			}
			return nil, fmt.Errorf("failed to resolve PO file: %w", err)
		}
	}

	order := &domain.SalesOrder{
		CustomerID:       customer.ID,
		CustomerName:     customer.Name,
		CustomerPONumber: req.CustomerPONumber,
		DeliveryLocation: req.DeliveryLocation,
		POIssueDate:      poIssueDate,
		POFileID:         req.POFileID,
		QuotationID:      req.QuotationID,
		Status:           domain.SalesOrderStatusDraft,
		Notes:            req.Notes,
		LineItems:        toLineItems(req.LineItems, s.orch.DefaultTaxRate()),
	}

	if err := s.orch.ValidateAndComputeSalesOrder(order); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create sales order: %w", err)
	}

	s.logger.Info("sales order created",
		zap.String("sales_order_id", order.ID.String()),
		zap.String("customer", customer.Name),
		zap.String("total", order.Total.StringFixed(2)))

	return s.reload(ctx, order.ID)
}

func (s *SalesOrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SalesOrderDTO, error) {
	return s.reload(ctx, id)
}

// Update replaces an order's editable fields and line items. Orders in
// done or cancelled reject every edit.
func (s *SalesOrderService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateSalesOrderRequest) (*domain.SalesOrderDTO, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalesOrderNotFound
		}
		return nil, fmt.Errorf("failed to get sales order: %w", err)
	}

	if err := workflow.ValidateSalesOrderEditable(order); err != nil {
		return nil, err
	}

	poIssueDate, err := parseDatePtr(req.POIssueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: poIssueDate must be an ISO 8601 date", ErrInvalidInput)
	}

	order.CustomerPONumber = req.CustomerPONumber
	order.DeliveryLocation = req.DeliveryLocation
	order.POIssueDate = poIssueDate
	if req.POFileID != nil {
		order.POFileID = req.POFileID
	}
	order.Notes = req.Notes
	order.LineItems = toLineItems(req.LineItems, s.orch.DefaultTaxRate())

	if err := s.orch.ValidateAndComputeSalesOrder(order); err != nil {
		return nil, err
	}

	// Line items and the recomputed totals land together or not at all
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewLineItemRepository(tx).Replace(ctx, domain.DocumentTypeSalesOrder, order.ID, order.LineItems); err != nil {
			return fmt.Errorf("failed to replace line items: %w", err)
		}
		if err := repository.NewSalesOrderRepository(tx).Update(ctx, order); err != nil {
			return fmt.Errorf("failed to update sales order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, id)
}

// Submit moves a draft order to pending. The PO file must be uploaded
// before the order leaves draft; the number is assigned here.
func (s *SalesOrderService) Submit(ctx context.Context, id uuid.UUID) (*domain.SalesOrderDTO, error) {
	return s.transition(ctx, id, domain.SalesOrderStatusPending)
}

// Start moves a pending order to in_progress
func (s *SalesOrderService) Start(ctx context.Context, id uuid.UUID) (*domain.SalesOrderDTO, error) {
	return s.transition(ctx, id, domain.SalesOrderStatusInProgress)
}

// Cancel cancels an order from any non-terminal state
func (s *SalesOrderService) Cancel(ctx context.Context, id uuid.UUID) (*domain.SalesOrderDTO, error) {
	return s.transition(ctx, id, domain.SalesOrderStatusCancelled)
}

func (s *SalesOrderService) transition(ctx context.Context, id uuid.UUID, to domain.SalesOrderStatus) (*domain.SalesOrderDTO, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalesOrderNotFound
		}
		return nil, fmt.Errorf("failed to get sales order: %w", err)
	}

	oldStatus := order.Status
	if err := s.orch.TransitionSalesOrder(order, to); err != nil {
		return nil, err
	}

	if oldStatus == domain.SalesOrderStatusDraft && to != domain.SalesOrderStatusCancelled && order.Number == "" {
		number, err := s.numbers.Generate(ctx, PrefixSalesOrder)
		if err != nil {
			return nil, err
		}
		order.Number = number
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update sales order status: %w", err)
	}

	s.logger.Info("sales order status changed",
		zap.String("sales_order_id", order.ID.String()),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(order.Status)))

	return s.reload(ctx, id)
}

// Complete moves an in_progress order to done and creates its execution
// project. Both writes happen in one transaction: either the done order
// and the open project are both persisted, or neither is.
func (s *SalesOrderService) Complete(ctx context.Context, id uuid.UUID) (*CompleteSalesOrderResult, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalesOrderNotFound
		}
		return nil, fmt.Errorf("failed to get sales order: %w", err)
	}

	project, err := s.orch.CompleteSalesOrder(order)
	if err != nil {
		return nil, err
	}

	projectNumber, err := s.numbers.Generate(ctx, PrefixProject)
	if err != nil {
		return nil, err
	}
	project.Number = projectNumber
	project.Name = "Project " + projectNumber
	if order.Number != "" {
		project.Name = fmt.Sprintf("Project %s (order %s)", projectNumber, order.Number)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewProjectRepository(tx).Create(ctx, project); err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		if err := repository.NewSalesOrderRepository(tx).Update(ctx, order); err != nil {
			return fmt.Errorf("failed to update sales order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sales order completed",
		zap.String("sales_order_id", order.ID.String()),
		zap.String("project_id", project.ID.String()),
		zap.String("project_number", project.Number))

	orderDTO, err := s.reload(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CompleteSalesOrderResult{
		SalesOrder: *orderDTO,
		Project:    mapper.ToProjectDTO(project),
	}, nil
}

func (s *SalesOrderService) List(ctx context.Context, page, pageSize int, customerID *uuid.UUID, status *domain.SalesOrderStatus) (*domain.ListResponse[domain.SalesOrderDTO], error) {
	orders, total, err := s.repo.List(ctx, page, pageSize, customerID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales orders: %w", err)
	}

	dtos := make([]domain.SalesOrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, mapper.ToSalesOrderDTO(&orders[i]))
	}

	return &domain.ListResponse[domain.SalesOrderDTO]{
		Items:      dtos,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func (s *SalesOrderService) reload(ctx context.Context, id uuid.UUID) (*domain.SalesOrderDTO, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalesOrderNotFound
		}
		return nil, fmt.Errorf("failed to reload sales order: %w", err)
	}
	dto := mapper.ToSalesOrderDTO(order)
	return &dto, nil
}
