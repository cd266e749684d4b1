package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabrikk-as/console-api/internal/domain"
)

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

func (r *QuotationRepository) Create(ctx context.Context, q *domain.Quotation) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *QuotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	var q domain.Quotation
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_items.display_order ASC")
		}).
		Where("id = ?", id).
		First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuotationRepository) Update(ctx context.Context, q *domain.Quotation) error {
	return r.db.WithContext(ctx).Omit("LineItems", "Customer").Save(q).Error
}

func (r *QuotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Quotation{}, "id = ?", id).Error
}

func (r *QuotationRepository) List(ctx context.Context, page, pageSize int, customerID *uuid.UUID, status *domain.QuotationStatus) ([]domain.Quotation, int64, error) {
	var quotations []domain.Quotation
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Quotation{}).Preload("Customer")
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&quotations).Error

	return quotations, total, err
}
