package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
	"fintrack/internal/storage/storagetest"

	"github.com/shopspring/decimal"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store { return New() })
}

func TestStoreUsesClock(t *testing.T) {
	fixed := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return fixed }))
	g, err := s.CreateGoal(context.Background(), core.SavingsGoal{Name: "x", TargetAmount: decimal.NewFromInt(1), Deadline: core.NewDate(2025, 6, 1)})
	if err != nil {
		t.Fatal(err)
	}
	if !g.CreatedAt.Equal(fixed) {
		t.Fatalf("CreatedAt = %v, want %v", g.CreatedAt, fixed)
	}
}

func TestConcurrentContributions(t *testing.T) {
	s := New()
	ctx := context.Background()
	g, err := s.CreateGoal(ctx, core.SavingsGoal{Name: "Fund", TargetAmount: decimal.NewFromInt(1000), Deadline: core.NewDate(2030, 1, 1)})
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AddContribution(ctx, g.ID, decimal.NewFromInt(10)); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, _ := s.GetGoal(ctx, g.ID)
	if !got.CurrentAmount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected 500 after 50 contributions, got %s", got.CurrentAmount)
	}
}
