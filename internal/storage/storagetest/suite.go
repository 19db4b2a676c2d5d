// Package storagetest holds behaviour checks shared by every storage.Store implementation.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/storage"

	"github.com/shopspring/decimal"
)

func draft(amount string, dir core.Direction, merchant, category string, date core.Date) core.TransactionDraft {
	return core.TransactionDraft{
		Amount:      decimal.RequireFromString(amount),
		Direction:   dir,
		Merchant:    merchant,
		Description: merchant + " purchase",
		Category:    category,
		Confidence:  0.9,
		Date:        date,
		RawText:     "raw " + merchant,
	}
}

// Run exercises a fresh store. newStore must return an empty store per call.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Run("save and list transactions", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		d := draft("1234.56", core.Debit, "AMAZON", "Shopping", core.NewDate(2025, 5, 12))
		d.Subcategory = "Online"
		d.LastFourDigits = "1234"
		saved, err := s.SaveTransaction(ctx, d)
		if err != nil {
			t.Fatalf("SaveTransaction: %v", err)
		}
		if saved.ID == "" {
			t.Fatal("expected an ID")
		}
		if saved.CreatedAt.IsZero() {
			t.Fatal("expected CreatedAt")
		}

		got, err := s.ListTransactions(ctx, core.Date{}, core.Date{})
		if err != nil {
			t.Fatalf("ListTransactions: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(got))
		}
		g := got[0]
		if g.ID != saved.ID || !g.Amount.Equal(d.Amount) || g.Direction != core.Debit ||
			g.Merchant != "AMAZON" || g.Subcategory != "Online" || g.LastFourDigits != "1234" ||
			!g.Date.Equal(d.Date.Time) || g.RawText != d.RawText || g.Confidence != 0.9 {
			t.Errorf("round trip mismatch: %+v", g)
		}
	})

	t.Run("invalid draft is rejected", func(t *testing.T) {
		s := newStore(t)
		d := draft("0", core.Debit, "X", "Other", core.NewDate(2025, 1, 1))
		if _, err := s.SaveTransaction(context.Background(), d); !errors.Is(err, core.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("list filters by date range", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		dates := []core.Date{
			core.NewDate(2025, 5, 31),
			core.NewDate(2025, 4, 30),
			core.NewDate(2025, 5, 1),
			core.NewDate(2025, 5, 15),
			core.NewDate(2025, 6, 1),
		}
		for _, d := range dates {
			if _, err := s.SaveTransaction(ctx, draft("10", core.Debit, "SHOP", "Shopping", d)); err != nil {
				t.Fatalf("SaveTransaction: %v", err)
			}
		}
		from, to := storage.MonthRange(2025, 5)
		got, err := s.ListTransactions(ctx, from, to)
		if err != nil {
			t.Fatalf("ListTransactions: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 May transactions, got %d", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].Date.Before(got[i-1].Date.Time) {
				t.Fatalf("transactions not ordered by date: %v then %v", got[i-1].Date, got[i].Date)
			}
		}
		if got[0].Date.Day() != 1 || got[2].Date.Day() != 31 {
			t.Errorf("unexpected bounds: %v .. %v", got[0].Date, got[2].Date)
		}
	})

	t.Run("goals lifecycle", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		g, err := s.CreateGoal(ctx, core.SavingsGoal{
			Name:          "Laptop",
			TargetAmount:  decimal.RequireFromString("12000"),
			CurrentAmount: decimal.RequireFromString("500"),
			Deadline:      core.NewDate(2026, 1, 1),
		})
		if err != nil {
			t.Fatalf("CreateGoal: %v", err)
		}
		if g.ID == "" {
			t.Fatal("expected goal ID")
		}

		got, err := s.GetGoal(ctx, g.ID)
		if err != nil {
			t.Fatalf("GetGoal: %v", err)
		}
		if got.Name != "Laptop" || !got.TargetAmount.Equal(g.TargetAmount) || !got.CurrentAmount.Equal(g.CurrentAmount) || !got.Deadline.Equal(g.Deadline.Time) {
			t.Errorf("goal mismatch: %+v", got)
		}

		if _, err := s.CreateGoal(ctx, core.SavingsGoal{Name: "Trip", TargetAmount: decimal.NewFromInt(3000), Deadline: core.NewDate(2025, 12, 1)}); err != nil {
			t.Fatalf("CreateGoal: %v", err)
		}
		all, err := s.ListGoals(ctx)
		if err != nil {
			t.Fatalf("ListGoals: %v", err)
		}
		if len(all) != 2 || all[0].Name != "Laptop" || all[1].Name != "Trip" {
			t.Errorf("unexpected goals: %+v", all)
		}
	})

	t.Run("contributions clamp to target", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		g, err := s.CreateGoal(ctx, core.SavingsGoal{Name: "Bike", TargetAmount: decimal.NewFromInt(1000), Deadline: core.NewDate(2026, 1, 1)})
		if err != nil {
			t.Fatalf("CreateGoal: %v", err)
		}

		g, err = s.AddContribution(ctx, g.ID, decimal.RequireFromString("250.50"))
		if err != nil {
			t.Fatalf("AddContribution: %v", err)
		}
		if !g.CurrentAmount.Equal(decimal.RequireFromString("250.50")) {
			t.Errorf("expected 250.50, got %s", g.CurrentAmount)
		}

		g, err = s.AddContribution(ctx, g.ID, decimal.NewFromInt(5000))
		if err != nil {
			t.Fatalf("AddContribution: %v", err)
		}
		if !g.CurrentAmount.Equal(decimal.NewFromInt(1000)) || !g.Reached() {
			t.Errorf("expected clamped to 1000, got %s", g.CurrentAmount)
		}

		stored, err := s.GetGoal(ctx, g.ID)
		if err != nil {
			t.Fatalf("GetGoal: %v", err)
		}
		if !stored.CurrentAmount.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("contribution not persisted: %s", stored.CurrentAmount)
		}

		if _, err := s.AddContribution(ctx, g.ID, decimal.NewFromInt(-5)); !errors.Is(err, core.ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("missing goal", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		if _, err := s.GetGoal(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetGoal: expected ErrNotFound, got %v", err)
		}
		if _, err := s.AddContribution(ctx, "nope", decimal.NewFromInt(1)); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("AddContribution: expected ErrNotFound, got %v", err)
		}
	})
}
