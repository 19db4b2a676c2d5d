package services

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/extract"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// IngestService turns raw SMS or email text into stored transactions.
type IngestService struct {
	extractor *extract.Extractor
	store     storage.TransactionStore
	reports   Invalidator
	logger    *log.Logger
}

// NewIngestService builds the service. reports may be nil.
func NewIngestService(extractor *extract.Extractor, store storage.TransactionStore, reports Invalidator, logger *log.Logger) *IngestService {
	if extractor == nil {
		extractor = extract.New(nil)
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &IngestService{
		extractor: extractor,
		store:     store,
		reports:   reports,
		logger:    logger.WithComponent(log.ComponentIngest),
	}
}

// Preview extracts without persisting.
func (s *IngestService) Preview(raw string, kind core.Kind) (core.TransactionDraft, error) {
	if !kind.Valid() {
		return core.TransactionDraft{}, fmt.Errorf("kind %q: %w", kind, core.ErrInvalidKind)
	}
	d := s.extractor.Extract(raw, kind)
	if d == nil {
		return core.TransactionDraft{}, ErrUnparseable
	}
	return *d, nil
}

// Ingest extracts, classifies and stores raw text.
func (s *IngestService) Ingest(ctx context.Context, raw string, kind core.Kind) (core.Transaction, error) {
	d, err := s.Preview(raw, kind)
	if err != nil {
		s.logger.WarnContext(ctx, "Raw message rejected",
			log.FieldOperation, log.OpExtract,
			log.FieldKind, string(kind),
			log.FieldError, err.Error())
		return core.Transaction{}, err
	}

	t, err := s.store.SaveTransaction(ctx, d)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	if s.reports != nil {
		s.reports.Invalidate()
	}

	fields := log.NewFields().
		WithOperation(log.OpExtract).
		WithTransaction(t.ID, core.FormatAmount(t.Amount), string(t.Direction), t.Merchant, t.Category)
	s.logger.InfoContext(ctx, "Transaction ingested", append(fields.ToSlice(),
		log.FieldKind, string(kind),
		log.FieldSubcategory, t.Subcategory,
		log.FieldConfidence, t.Confidence)...)
	return t, nil
}
