package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/classify"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"

	"github.com/shopspring/decimal"
)

// TransactionService records caller-supplied transactions and lists stored ones.
type TransactionService struct {
	classifier *classify.Classifier
	store      storage.TransactionStore
	reports    Invalidator
	logger     *log.Logger
	now        func() time.Time
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for default dates and projections.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func applyOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func NewTransactionService(classifier *classify.Classifier, store storage.TransactionStore, reports Invalidator, logger *log.Logger, opts ...Option) *TransactionService {
	if classifier == nil {
		classifier = classify.Default()
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	o := applyOptions(opts)
	return &TransactionService{
		classifier: classifier,
		store:      store,
		reports:    reports,
		logger:     logger.WithComponent(log.ComponentIngest),
		now:        o.now,
	}
}

// Create classifies and stores a transaction. A zero date means today.
func (s *TransactionService) Create(ctx context.Context, merchant, description string, amount decimal.Decimal, direction core.Direction, date core.Date) (core.Transaction, error) {
	merchant = strings.TrimSpace(merchant)
	description = strings.TrimSpace(description)
	if date.IsZero() {
		date = core.DateOf(s.now())
	}
	r := s.classifier.ClassifyTransaction(merchant, description)
	d := core.TransactionDraft{
		Amount:      amount,
		Direction:   direction,
		Merchant:    merchant,
		Description: description,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Confidence:  r.Confidence,
		Date:        date,
	}
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}

	t, err := s.store.SaveTransaction(ctx, d)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	if s.reports != nil {
		s.reports.Invalidate()
	}

	s.logger.InfoContext(ctx, "Transaction recorded",
		log.NewFields().WithOperation(log.OpCreate).
			WithTransaction(t.ID, core.FormatAmount(t.Amount), string(t.Direction), t.Merchant, t.Category).ToSlice()...)
	return t, nil
}

// List returns transactions within [from, to]. Zero bounds are open.
func (s *TransactionService) List(ctx context.Context, from, to core.Date) ([]core.Transaction, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from.Time) {
		return nil, ErrInvalidRange
	}
	txns, err := s.store.ListTransactions(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}
