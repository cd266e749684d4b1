package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fabrikk-as/console-api/internal/billing"
	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/erp"
	"github.com/fabrikk-as/console-api/internal/mapper"
	"github.com/fabrikk-as/console-api/internal/repository"
	"github.com/fabrikk-as/console-api/internal/workflow"
)

// InvoiceService manages proforma and tax invoices. A tax invoice must
// reference a done sales order, and any linked proforma invoices must
// belong to the same order; their payments offset the tax invoice balance.
type InvoiceService struct {
	repo           *repository.InvoiceRepository
	customerRepo   *repository.CustomerRepository
	salesOrderRepo *repository.SalesOrderRepository
	orch           *workflow.Orchestrator
	numbers        *NumberSequenceService
	logger         *zap.Logger
}

func NewInvoiceService(
	repo *repository.InvoiceRepository,
	customerRepo *repository.CustomerRepository,
	salesOrderRepo *repository.SalesOrderRepository,
	orch *workflow.Orchestrator,
	numbers *NumberSequenceService,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		repo:           repo,
		customerRepo:   customerRepo,
		salesOrderRepo: salesOrderRepo,
		orch:           orch,
		numbers:        numbers,
		logger:         logger,
	}
}

func (s *InvoiceService) Create(ctx context.Context, req *domain.CreateInvoiceRequest) (*domain.InvoiceDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	issueDate, err := parseDatePtr(req.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: issueDate must be an ISO 8601 date", ErrInvalidInput)
	}
	dueDate, err := parseDatePtr(req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: dueDate must be an ISO 8601 date", ErrInvalidInput)
	}

	invoice := &domain.Invoice{
		InvoiceType:       req.InvoiceType,
		CustomerID:        customer.ID,
		CustomerName:      customer.Name,
		SalesOrderID:      req.SalesOrderID,
		LinkedProformaIDs: req.LinkedProformaIDs,
		PaymentStatus:     domain.PaymentStatusPending,
		Notes:             req.Notes,
		LineItems:         toLineItems(req.LineItems, s.orch.DefaultTaxRate()),
	}
	if issueDate != nil {
		invoice.IssueDate = *issueDate
	}
	if dueDate != nil {
		invoice.DueDate = *dueDate
	}

	salesOrder, linkedProformas, err := s.loadLinkage(ctx, invoice)
	if err != nil {
		return nil, err
	}

	if err := s.orch.ValidateAndComputeInvoice(invoice, salesOrder, linkedProformas); err != nil {
		return nil, err
	}

	number, err := s.numbers.Generate(ctx, PrefixInvoice)
	if err != nil {
		return nil, err
	}
	invoice.Number = number

	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.logger.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
		zap.String("type", string(invoice.InvoiceType)),
		zap.String("total", invoice.Total.StringFixed(2)),
		zap.String("remaining_balance", invoice.RemainingBalance.StringFixed(2)))

	return s.reload(ctx, invoice.ID)
}

func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceDTO, error) {
	return s.reload(ctx, id)
}

// RecordPayment applies a received amount to the invoice ledger. The
// balance never goes below zero; overpayment is clamped and flagged on
// the response.
func (s *InvoiceService) RecordPayment(ctx context.Context, id uuid.UUID, req *domain.RecordPaymentRequest) (*domain.InvoiceDTO, error) {
	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if !req.Amount.IsPositive() {
		return nil, billing.ValidationErrors{"amount": "payment amount must be greater than zero"}
	}

	prior := []decimal.Decimal{invoice.PaymentReceived}
	if invoice.InvoiceType == domain.InvoiceTypeTax {
		salesOrder, linkedProformas, err := s.loadLinkage(ctx, invoice)
		if err != nil {
			return nil, err
		}
		// Linkage is re-validated on every payment, not only at creation
		if err := workflow.ValidateTaxInvoiceLinkage(salesOrder, linkedProformas, invoice.LinkedProformaIDs); err != nil {
			return nil, err
		}
		for _, proforma := range linkedProformas {
			prior = append(prior, proforma.PaymentReceived)
		}
	}

	allocation, err := billing.AllocatePayment(invoice.Total, prior, req.Amount)
	if err != nil {
		return nil, err
	}

	invoice.PaymentReceived = invoice.PaymentReceived.Add(req.Amount)
	invoice.RemainingBalance = allocation.RemainingBalance
	// An overdue invoice stays overdue until the balance is cleared
	if !(invoice.PaymentStatus == domain.PaymentStatusOverdue && allocation.Status != billing.LedgerStatusPaid) {
		invoice.PaymentStatus = domain.PaymentStatus(allocation.Status)
	}

	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.logger.Info("invoice payment recorded",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("reference", req.Reference),
		zap.String("remaining_balance", invoice.RemainingBalance.StringFixed(2)),
		zap.String("payment_status", string(invoice.PaymentStatus)),
		zap.Bool("overpaid", allocation.Overpaid))

	dto, err := s.reload(ctx, id)
	if err != nil {
		return nil, err
	}
	dto.Overpaid = allocation.Overpaid
	return dto, nil
}

// ApplyRemittance applies a payment recorded in the accounting system to
// the invoice with the given number. Called by the ERP sync job.
func (s *InvoiceService) ApplyRemittance(ctx context.Context, invoiceNumber string, remittance erp.Remittance) error {
	invoice, err := s.repo.GetByNumber(ctx, invoiceNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvoiceNotFound
		}
		return fmt.Errorf("failed to get invoice %s: %w", invoiceNumber, err)
	}

	_, err = s.RecordPayment(ctx, invoice.ID, &domain.RecordPaymentRequest{
		Amount:    remittance.Amount,
		Reference: remittance.Reference,
	})
	return err
}

// SweepOverdue marks every unpaid invoice past its due date as overdue
// and returns how many were flipped. The scheduler calls this nightly.
func (s *InvoiceService) SweepOverdue(ctx context.Context, asOf time.Time) (int, error) {
	invoices, err := s.repo.ListUnpaidPastDue(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to list past-due invoices: %w", err)
	}
	if len(invoices) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(invoices))
	for i := range invoices {
		ids = append(ids, invoices[i].ID)
	}
	if err := s.repo.MarkOverdue(ctx, ids); err != nil {
		return 0, fmt.Errorf("failed to mark invoices overdue: %w", err)
	}

	s.logger.Info("overdue sweep completed",
		zap.Int("marked", len(ids)),
		zap.Time("as_of", asOf))

	return len(ids), nil
}

func (s *InvoiceService) List(ctx context.Context, page, pageSize int, customerID *uuid.UUID, invoiceType *domain.InvoiceType, paymentStatus *domain.PaymentStatus) (*domain.ListResponse[domain.InvoiceDTO], error) {
	invoices, total, err := s.repo.List(ctx, page, pageSize, customerID, invoiceType, paymentStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	dtos := make([]domain.InvoiceDTO, 0, len(invoices))
	for i := range invoices {
		dtos = append(dtos, mapper.ToInvoiceDTO(&invoices[i]))
	}

	return &domain.ListResponse[domain.InvoiceDTO]{
		Items:      dtos,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// loadLinkage resolves the records a tax invoice references. Proformas
// only carry what the request names; validation happens downstream.
func (s *InvoiceService) loadLinkage(ctx context.Context, invoice *domain.Invoice) (*domain.SalesOrder, []domain.Invoice, error) {
	var salesOrder *domain.SalesOrder
	if invoice.SalesOrderID != nil {
		so, err := s.salesOrderRepo.GetByID(ctx, *invoice.SalesOrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrSalesOrderNotFound
			}
			return nil, nil, fmt.Errorf("failed to get sales order: %w", err)
		}
		salesOrder = so
	}

	var linkedProformas []domain.Invoice
	if len(invoice.LinkedProformaIDs) > 0 {
		proformas, err := s.repo.GetByIDs(ctx, invoice.LinkedProformaIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve linked proformas: %w", err)
		}
		linkedProformas = proformas
	}
	return salesOrder, linkedProformas, nil
}

func (s *InvoiceService) reload(ctx context.Context, id uuid.UUID) (*domain.InvoiceDTO, error) {
	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to reload invoice: %w", err)
	}
	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}
