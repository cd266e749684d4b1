package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabrikk-as/console-api/internal/domain"
)

// LineItemRepository manages the polymorphic line item rows shared by
// quotations, sales orders, invoices and work order materials.
type LineItemRepository struct {
	db *gorm.DB
}

func NewLineItemRepository(db *gorm.DB) *LineItemRepository {
	return &LineItemRepository{db: db}
}

// Replace swaps a document's line items for a new set. The old rows are
// deleted and the new rows created in one transaction, so a failed insert
// never leaves the document without its items.
func (r *LineItemRepository) Replace(ctx context.Context, docType domain.DocumentType, docID uuid.UUID, items []domain.LineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_type = ? AND document_id = ?", docType, docID).
			Delete(&domain.LineItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].ID = uuid.Nil
			items[i].DocumentType = docType
			items[i].DocumentID = docID
			items[i].DisplayOrder = i
		}
		return tx.Create(&items).Error
	})
}

// ListForDocument loads a document's line items in display order
func (r *LineItemRepository) ListForDocument(ctx context.Context, docType domain.DocumentType, docID uuid.UUID) ([]domain.LineItem, error) {
	var items []domain.LineItem
	err := r.db.WithContext(ctx).
		Where("document_type = ? AND document_id = ?", docType, docID).
		Order("display_order ASC").
		Find(&items).Error
	return items, err
}
