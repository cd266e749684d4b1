package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabrikk-as/console-api/internal/domain"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_items.display_order ASC")
		}).
		Where("id = ?", id).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByIDs loads a set of invoices by id; used to resolve linked proformas
func (r *InvoiceRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Invoice, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var invoices []domain.Invoice
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.WithContext(ctx).Where("number = ?", number).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *domain.Invoice) error {
	return r.db.WithContext(ctx).Omit("LineItems", "Customer", "SalesOrder").Save(inv).Error
}

func (r *InvoiceRepository) List(ctx context.Context, page, pageSize int, customerID *uuid.UUID, invoiceType *domain.InvoiceType, paymentStatus *domain.PaymentStatus) ([]domain.Invoice, int64, error) {
	var invoices []domain.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Invoice{}).Preload("Customer")
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	if invoiceType != nil {
		query = query.Where("invoice_type = ?", *invoiceType)
	}
	if paymentStatus != nil {
		query = query.Where("payment_status = ?", *paymentStatus)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&invoices).Error

	return invoices, total, err
}

// ListUnpaidPastDue returns pending or partial invoices whose due date has
// passed; the overdue sweep marks these.
func (r *InvoiceRepository) ListUnpaidPastDue(ctx context.Context, asOf time.Time) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.WithContext(ctx).
		Where("payment_status IN ?", []domain.PaymentStatus{domain.PaymentStatusPending, domain.PaymentStatusPartial}).
		Where("due_date < ?", asOf).
		Find(&invoices).Error
	return invoices, err
}

// MarkOverdue flips a set of invoices to overdue in one statement
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id IN ?", ids).
		Update("payment_status", domain.PaymentStatusOverdue).Error
}
