package worker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/extract"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage/memory"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Level: slog.LevelDebug, Output: &bytes.Buffer{}})
}

type failingIngester struct{ err error }

func (f failingIngester) Ingest(context.Context, string, core.Kind) (core.Transaction, error) {
	return core.Transaction{}, f.err
}

func TestIngestWorker_Handle(t *testing.T) {
	store := memory.New()
	now := func() time.Time { return time.Date(2025, 5, 12, 8, 0, 0, 0, time.UTC) }
	svc := services.NewIngestService(extract.New(nil, extract.WithClock(now)), store, nil, testLogger())
	w := NewIngestWorker(svc, testLogger())
	ctx := context.Background()

	if err := w.Handle(ctx, amqp.NewRawMessage(core.KindSMS, "Rs. 499 debited at NETFLIX")); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	txns, _ := store.ListTransactions(ctx, core.Date{}, core.Date{})
	if len(txns) != 1 || txns[0].Merchant != "NETFLIX" || txns[0].Category != "Entertainment" {
		t.Fatalf("unexpected stored transactions: %+v", txns)
	}

	err := w.Handle(ctx, amqp.NewRawMessage(core.KindSMS, "Your OTP is 123456"))
	if !amqp.IsPermanent(err) || !errors.Is(err, services.ErrUnparseable) {
		t.Fatalf("expected permanent ErrUnparseable, got %v", err)
	}

	processed, rejected := w.Stats()
	if processed != 1 || rejected != 1 {
		t.Fatalf("stats = %d/%d, want 1/1", processed, rejected)
	}
}

func TestIngestWorker_TransientErrorsAreRetried(t *testing.T) {
	boom := errors.New("database is locked")
	w := NewIngestWorker(failingIngester{err: boom}, testLogger())

	err := w.Handle(context.Background(), amqp.NewRawMessage(core.KindEmail, "Paid $5 at Cafe"))
	if err == nil || amqp.IsPermanent(err) || !errors.Is(err, boom) {
		t.Fatalf("expected retryable wrapped error, got %v", err)
	}
}

func TestIngestWorker_InvalidKindIsPermanent(t *testing.T) {
	w := NewIngestWorker(failingIngester{err: core.ErrInvalidKind}, testLogger())
	if err := w.Handle(context.Background(), &amqp.RawMessage{ID: "x", Kind: "fax", Text: "Rs 1"}); !amqp.IsPermanent(err) {
		t.Fatalf("expected permanent error, got %v", err)
	}
}
