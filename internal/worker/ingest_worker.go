package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

// Ingester stores raw transaction text.
type Ingester interface {
	Ingest(ctx context.Context, raw string, kind core.Kind) (core.Transaction, error)
}

// IngestWorker feeds queued SMS and email bodies into the ingestion service.
type IngestWorker struct {
	ingester Ingester
	logger   *log.Logger

	processed atomic.Int64
	rejected  atomic.Int64
}

func NewIngestWorker(ingester Ingester, logger *log.Logger) *IngestWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &IngestWorker{ingester: ingester, logger: logger.WithComponent(log.ComponentWorker)}
}

// Handle processes one queued message. Text that can never be parsed is
// reported as permanent so the broker drops it instead of redelivering.
func (w *IngestWorker) Handle(ctx context.Context, msg *amqp.RawMessage) error {
	txn, err := w.ingester.Ingest(ctx, msg.Text, msg.Kind)
	if err != nil {
		if errors.Is(err, services.ErrUnparseable) || errors.Is(err, core.ErrInvalidKind) {
			w.rejected.Add(1)
			w.logger.WarnContext(ctx, "Discarding unparseable message",
				"message_id", msg.ID,
				log.FieldKind, string(msg.Kind))
			return amqp.Permanent(err)
		}
		return fmt.Errorf("ingest message %s: %w", msg.ID, err)
	}

	w.processed.Add(1)
	w.logger.InfoContext(ctx, "Message ingested",
		log.FieldOperation, log.OpConsume,
		"message_id", msg.ID,
		log.FieldTxnID, txn.ID,
		log.FieldCategory, txn.Category)
	return nil
}

// Run consumes from the client until ctx is cancelled.
func (w *IngestWorker) Run(ctx context.Context, client *amqp.Client) error {
	w.logger.InfoContext(ctx, "Ingest worker started")
	err := client.ConsumeRawMessages(ctx, w.Handle)
	w.logger.InfoContext(ctx, "Ingest worker stopped",
		"processed", w.processed.Load(),
		"rejected", w.rejected.Load())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stats returns counts of ingested and discarded messages.
func (w *IngestWorker) Stats() (processed, rejected int64) {
	return w.processed.Load(), w.rejected.Load()
}
