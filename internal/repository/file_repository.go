package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabrikk-as/console-api/internal/domain"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, f *domain.FileAttachment) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FileAttachment, error) {
	var f domain.FileAttachment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.FileAttachment{}, "id = ?", id).Error
}

func (r *FileRepository) ListForDocument(ctx context.Context, docType domain.DocumentType, docID uuid.UUID) ([]domain.FileAttachment, error) {
	var files []domain.FileAttachment
	err := r.db.WithContext(ctx).
		Where("document_type = ? AND document_id = ?", docType, docID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}
