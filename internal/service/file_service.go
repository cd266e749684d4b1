package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fabrikk-as/console-api/internal/domain"
	"github.com/fabrikk-as/console-api/internal/mapper"
	"github.com/fabrikk-as/console-api/internal/repository"
	"github.com/fabrikk-as/console-api/internal/storage"
)

// FileService handles uploaded documents: customer PO files, drawings and
// scanned delivery notes. File contents go to the storage backend; the
// database row carries the metadata other aggregates reference.
type FileService struct {
	repo    *repository.FileRepository
	storage storage.Storage
	maxSize int64
	logger  *zap.Logger
}

func NewFileService(repo *repository.FileRepository, store storage.Storage, maxUploadSizeMB int64, logger *zap.Logger) *FileService {
	return &FileService{
		repo:    repo,
		storage: store,
		maxSize: maxUploadSizeMB * 1024 * 1024,
		logger:  logger,
	}
}

// Upload stores the file contents and records its metadata. The optional
// document reference ties the file to the record it belongs to.
func (s *FileService) Upload(ctx context.Context, filename, contentType string, data io.Reader, docType domain.DocumentType, docID *uuid.UUID, uploadedBy string) (*domain.FileAttachmentDTO, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrInvalidInput)
	}

	// Cut off reads one byte past the limit so oversized uploads fail
	// instead of silently truncating
	limited := io.LimitReader(data, s.maxSize+1)

	storagePath, size, err := s.storage.Upload(ctx, filename, contentType, limited)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}
	if size > s.maxSize {
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to remove oversized upload",
				zap.String("storage_path", storagePath),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("%w: file exceeds maximum upload size", ErrInvalidInput)
	}

	attachment := &domain.FileAttachment{
		Filename:     filename,
		ContentType:  contentType,
		Size:         size,
		StoragePath:  storagePath,
		DocumentType: docType,
		DocumentID:   docID,
		UploadedBy:   uploadedBy,
	}

	if err := s.repo.Create(ctx, attachment); err != nil {
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to remove orphaned upload",
				zap.String("storage_path", storagePath),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to record file metadata: %w", err)
	}

	s.logger.Info("file uploaded",
		zap.String("file_id", attachment.ID.String()),
		zap.String("filename", filename),
		zap.Int64("size", size))

	dto := mapper.ToFileAttachmentDTO(attachment)
	return &dto, nil
}

func (s *FileService) GetByID(ctx context.Context, id uuid.UUID) (*domain.FileAttachmentDTO, error) {
	attachment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	dto := mapper.ToFileAttachmentDTO(attachment)
	return &dto, nil
}

// Download returns the file contents along with its metadata. The caller
// owns closing the reader.
func (s *FileService) Download(ctx context.Context, id uuid.UUID) (*domain.FileAttachmentDTO, io.ReadCloser, error) {
	attachment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to get file: %w", err)
	}

	reader, err := s.storage.Download(ctx, attachment.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file contents: %w", err)
	}

	dto := mapper.ToFileAttachmentDTO(attachment)
	return &dto, reader, nil
}

func (s *FileService) Delete(ctx context.Context, id uuid.UUID) error {
	attachment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to get file: %w", err)
	}

	if err := s.storage.Delete(ctx, attachment.StoragePath); err != nil {
		return fmt.Errorf("failed to delete file contents: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete file metadata: %w", err)
	}

	s.logger.Info("file deleted", zap.String("file_id", id.String()))
	return nil
}

func (s *FileService) ListForDocument(ctx context.Context, docType domain.DocumentType, docID uuid.UUID) ([]domain.FileAttachmentDTO, error) {
	files, err := s.repo.ListForDocument(ctx, docType, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	dtos := make([]domain.FileAttachmentDTO, 0, len(files))
	for i := range files {
		dtos = append(dtos, mapper.ToFileAttachmentDTO(&files[i]))
	}
	return dtos, nil
}
