package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabrikk-as/console-api/internal/domain"
)

type WorkOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

func (r *WorkOrderRepository) Create(ctx context.Context, wo *domain.WorkOrder) error {
	return r.db.WithContext(ctx).Create(wo).Error
}

func (r *WorkOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("MaterialRequirements", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_items.display_order ASC")
		}).
		Preload("LaborAssignments").
		Where("id = ?", id).
		First(&wo).Error
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *WorkOrderRepository) Update(ctx context.Context, wo *domain.WorkOrder) error {
	return r.db.WithContext(ctx).Omit("MaterialRequirements", "LaborAssignments", "Project").Save(wo).Error
}

func (r *WorkOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.WorkOrder{}, "id = ?", id).Error
}

// ReplaceLaborAssignments swaps a work order's labor rows for a new set
func (r *WorkOrderRepository) ReplaceLaborAssignments(ctx context.Context, workOrderID uuid.UUID, assignments []domain.LaborAssignment) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("work_order_id = ?", workOrderID).
		Delete(&domain.LaborAssignment{}).Error; err != nil {
		return err
	}
	if len(assignments) == 0 {
		return nil
	}
	for i := range assignments {
		assignments[i].ID = uuid.Nil
		assignments[i].WorkOrderID = workOrderID
	}
	return tx.Create(&assignments).Error
}

func (r *WorkOrderRepository) List(ctx context.Context, page, pageSize int, projectID *uuid.UUID, status *domain.WorkOrderStatus) ([]domain.WorkOrder, int64, error) {
	var workOrders []domain.WorkOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.WorkOrder{})
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&workOrders).Error

	return workOrders, total, err
}
