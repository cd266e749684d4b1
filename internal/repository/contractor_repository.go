package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabrikk-as/console-api/internal/domain"
)

type ContractorRepository struct {
	db *gorm.DB
}

func NewContractorRepository(db *gorm.DB) *ContractorRepository {
	return &ContractorRepository{db: db}
}

func (r *ContractorRepository) Create(ctx context.Context, c *domain.Contractor) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ContractorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contractor, error) {
	var c domain.Contractor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContractorRepository) Update(ctx context.Context, c *domain.Contractor) error {
	return r.db.WithContext(ctx).Omit("Assignments").Save(c).Error
}

func (r *ContractorRepository) List(ctx context.Context, page, pageSize int, activeOnly bool) ([]domain.Contractor, int64, error) {
	var contractors []domain.Contractor
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Contractor{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("name ASC").Find(&contractors).Error

	return contractors, total, err
}

// CreateAssignment persists a new contractor engagement
func (r *ContractorRepository) CreateAssignment(ctx context.Context, a *domain.ContractorAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ContractorRepository) GetAssignmentByID(ctx context.Context, id uuid.UUID) (*domain.ContractorAssignment, error) {
	var a domain.ContractorAssignment
	err := r.db.WithContext(ctx).
		Preload("Contractor").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("contractor_payments.paid_at ASC")
		}).
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ContractorRepository) UpdateAssignment(ctx context.Context, a *domain.ContractorAssignment) error {
	return r.db.WithContext(ctx).Omit("Contractor", "Project", "Payments").Save(a).Error
}

func (r *ContractorRepository) ListAssignments(ctx context.Context, contractorID, projectID *uuid.UUID) ([]domain.ContractorAssignment, error) {
	var assignments []domain.ContractorAssignment
	query := r.db.WithContext(ctx).Preload("Contractor")
	if contractorID != nil {
		query = query.Where("contractor_id = ?", *contractorID)
	}
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	err := query.Order("created_at DESC").Find(&assignments).Error
	return assignments, err
}

// CreatePayment persists one ledger row for an assignment
func (r *ContractorRepository) CreatePayment(ctx context.Context, p *domain.ContractorPayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}
