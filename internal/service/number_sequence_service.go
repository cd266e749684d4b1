package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fabrikk-as/console-api/internal/repository"
)

// Document number prefixes. Each prefix carries its own yearly counter.
const (
	PrefixQuotation  = "QU"
	PrefixSalesOrder = "SO"
	PrefixProject    = "PR"
	PrefixWorkOrder  = "WO"
	PrefixInvoice    = "INV"
)

// NumberSequenceService generates unique, formatted document numbers.
//
// Format: {PREFIX}-{YEAR}-{SEQUENCE}
// Example: QU-2026-001, INV-2026-042
type NumberSequenceService struct {
	repo   *repository.NumberSequenceRepository
	logger *zap.Logger
}

// NewNumberSequenceService creates a new NumberSequenceService
func NewNumberSequenceService(
	repo *repository.NumberSequenceRepository,
	logger *zap.Logger,
) *NumberSequenceService {
	return &NumberSequenceService{
		repo:   repo,
		logger: logger,
	}
}

// Generate produces the next number for a document prefix. Numbers are
// assigned when a document is created or leaves draft; a document keeps
// its number for life.
func (s *NumberSequenceService) Generate(ctx context.Context, prefix string) (string, error) {
	year := time.Now().Year()

	nextSeq, err := s.repo.GetNextNumber(ctx, prefix, year)
	if err != nil {
		s.logger.Error("failed to get next sequence number",
			zap.String("prefix", prefix),
			zap.Int("year", year),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate %s number: %w", prefix, err)
	}

	// Format: PREFIX-YYYY-NNN (zero-padded to 3 digits)
	number := fmt.Sprintf("%s-%d-%03d", prefix, year, nextSeq)

	s.logger.Info("generated document number",
		zap.String("number", number),
		zap.String("prefix", prefix),
		zap.Int("year", year),
		zap.Int("sequence", nextSeq))

	return number, nil
}

// GetCurrentSequence returns the current sequence value for a prefix/year
// without incrementing it. Returns 0 if no sequence exists.
func (s *NumberSequenceService) GetCurrentSequence(ctx context.Context, prefix string, year int) (int, error) {
	return s.repo.GetCurrentSequence(ctx, prefix, year)
}

// InitializeSequence sets the sequence to a specific value, for data
// migrations that must account for existing numbered documents. The value
// should be the LAST USED sequence number.
func (s *NumberSequenceService) InitializeSequence(ctx context.Context, prefix string, year int, value int) error {
	return s.repo.SetSequence(ctx, prefix, year, value)
}
