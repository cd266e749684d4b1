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

// QuotationService manages the quotation lifecycle: draft documents are
// edited freely with totals recomputed on every write, issuing assigns a
// number and sends the quotation, and accepted/rejected are terminal.
type QuotationService struct {
	db           *gorm.DB
	repo         *repository.QuotationRepository
	customerRepo *repository.CustomerRepository
	orch         *workflow.Orchestrator
	numbers      *NumberSequenceService
	logger       *zap.Logger
}

func NewQuotationService(
	db *gorm.DB,
	repo *repository.QuotationRepository,
	customerRepo *repository.CustomerRepository,
	orch *workflow.Orchestrator,
	numbers *NumberSequenceService,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		db:           db,
		repo:         repo,
		customerRepo: customerRepo,
		orch:         orch,
		numbers:      numbers,
		logger:       logger,
	}
}

func (s *QuotationService) Create(ctx context.Context, req *domain.CreateQuotationRequest) (*domain.QuotationDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	validUntil, err := parseDate(req.ValidUntil)
	if err != nil {
		return nil, fmt.Errorf("%w: validUntil must be an ISO 8601 date", ErrInvalidInput)
	}

	quotation := &domain.Quotation{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Title:        req.Title,
		ValidUntil:   validUntil,
		Status:       domain.QuotationStatusDraft,
		Notes:        req.Notes,
		LineItems:    toLineItems(req.LineItems, s.orch.DefaultTaxRate()),
	}

	if err := s.orch.ValidateAndComputeQuotation(quotation, true); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, quotation); err != nil {
		return nil, fmt.Errorf("failed to create quotation: %w", err)
	}

	s.logger.Info("quotation created",
		zap.String("quotation_id", quotation.ID.String()),
		zap.String("customer", customer.Name),
		zap.String("total", quotation.Total.StringFixed(2)))

	return s.reload(ctx, quotation.ID)
}

func (s *QuotationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	return s.reload(ctx, id)
}

// Update replaces a draft quotation's editable fields and line items.
// Totals are recomputed before anything is written.
func (s *QuotationService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuotationRequest) (*domain.QuotationDTO, error) {
	quotation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	if quotation.Status != domain.QuotationStatusDraft {
		return nil, ErrQuotationNotEditable
	}

	validUntil, err := parseDate(req.ValidUntil)
	if err != nil {
		return nil, fmt.Errorf("%w: validUntil must be an ISO 8601 date", ErrInvalidInput)
	}

	quotation.Title = req.Title
	quotation.ValidUntil = validUntil
	quotation.Notes = req.Notes
	quotation.LineItems = toLineItems(req.LineItems, s.orch.DefaultTaxRate())

	if err := s.orch.ValidateAndComputeQuotation(quotation, false); err != nil {
		return nil, err
	}

	// Line items and the recomputed totals land together or not at all
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewLineItemRepository(tx).Replace(ctx, domain.DocumentTypeQuotation, quotation.ID, quotation.LineItems); err != nil {
			return fmt.Errorf("failed to replace line items: %w", err)
		}
		if err := repository.NewQuotationRepository(tx).Update(ctx, quotation); err != nil {
			return fmt.Errorf("failed to update quotation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, id)
}

// Issue moves a draft quotation to sent and assigns its number
func (s *QuotationService) Issue(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	return s.transition(ctx, id, domain.QuotationStatusSent)
}

// Accept marks a sent quotation accepted (terminal)
func (s *QuotationService) Accept(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	return s.transition(ctx, id, domain.QuotationStatusAccepted)
}

// Reject marks a sent quotation rejected (terminal)
func (s *QuotationService) Reject(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	return s.transition(ctx, id, domain.QuotationStatusRejected)
}

func (s *QuotationService) transition(ctx context.Context, id uuid.UUID, to domain.QuotationStatus) (*domain.QuotationDTO, error) {
	quotation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	oldStatus := quotation.Status
	next, err := workflow.ApplyTransition(workflow.KindQuotation, string(quotation.Status), string(to))
	if err != nil {
		return nil, err
	}
	quotation.Status = domain.QuotationStatus(next)

	// Number is assigned when the quotation first leaves draft
	if oldStatus == domain.QuotationStatusDraft && quotation.Number == "" {
		number, err := s.numbers.Generate(ctx, PrefixQuotation)
		if err != nil {
			return nil, err
		}
		quotation.Number = number
	}

	if err := s.repo.Update(ctx, quotation); err != nil {
		return nil, fmt.Errorf("failed to update quotation status: %w", err)
	}

	s.logger.Info("quotation status changed",
		zap.String("quotation_id", quotation.ID.String()),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(quotation.Status)))

	return s.reload(ctx, id)
}

func (s *QuotationService) Delete(ctx context.Context, id uuid.UUID) error {
	quotation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuotationNotFound
		}
		return fmt.Errorf("failed to get quotation: %w", err)
	}
	if quotation.Status != domain.QuotationStatusDraft {
		return ErrQuotationNotEditable
	}
	return s.repo.Delete(ctx, id)
}

func (s *QuotationService) List(ctx context.Context, page, pageSize int, customerID *uuid.UUID, status *domain.QuotationStatus) (*domain.ListResponse[domain.QuotationDTO], error) {
	quotations, total, err := s.repo.List(ctx, page, pageSize, customerID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}

	dtos := make([]domain.QuotationDTO, 0, len(quotations))
	for i := range quotations {
		dtos = append(dtos, mapper.ToQuotationDTO(&quotations[i]))
	}

	return &domain.ListResponse[domain.QuotationDTO]{
		Items:      dtos,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func (s *QuotationService) reload(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	quotation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to reload quotation: %w", err)
	}
	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}
