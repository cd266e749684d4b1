package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabrikk-as/console-api/internal/domain"
)

type SalesOrderRepository struct {
	db *gorm.DB
}

func NewSalesOrderRepository(db *gorm.DB) *SalesOrderRepository {
	return &SalesOrderRepository{db: db}
}

func (r *SalesOrderRepository) Create(ctx context.Context, so *domain.SalesOrder) error {
	return r.db.WithContext(ctx).Create(so).Error
}

func (r *SalesOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SalesOrder, error) {
	var so domain.SalesOrder
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("POFile").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_items.display_order ASC")
		}).
		Where("id = ?", id).
		First(&so).Error
	if err != nil {
		return nil, err
	}
	return &so, nil
}

func (r *SalesOrderRepository) Update(ctx context.Context, so *domain.SalesOrder) error {
	return r.db.WithContext(ctx).Omit("LineItems", "Customer", "POFile", "Quotation").Save(so).Error
}

func (r *SalesOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.SalesOrder{}, "id = ?", id).Error
}

func (r *SalesOrderRepository) List(ctx context.Context, page, pageSize int, customerID *uuid.UUID, status *domain.SalesOrderStatus) ([]domain.SalesOrder, int64, error) {
	var orders []domain.SalesOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.SalesOrder{}).Preload("Customer")
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
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&orders).Error

	return orders, total, err
}
