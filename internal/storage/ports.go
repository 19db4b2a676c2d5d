package storage

import (
	"context"
	"errors"
	"time"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Ports for persistence adapters.
type (
	TransactionStore interface {
		// SaveTransaction persists a classified draft and returns it with an ID.
		SaveTransaction(ctx context.Context, d core.TransactionDraft) (core.Transaction, error)
		// ListTransactions returns transactions dated within [from, to], oldest first.
		// A zero bound is open.
		ListTransactions(ctx context.Context, from, to core.Date) ([]core.Transaction, error)
	}

	GoalStore interface {
		CreateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error)
		GetGoal(ctx context.Context, id string) (core.SavingsGoal, error)
		ListGoals(ctx context.Context) ([]core.SavingsGoal, error)
		// AddContribution atomically adds amount to the goal, clamped to its target.
		AddContribution(ctx context.Context, id string, amount decimal.Decimal) (core.SavingsGoal, error)
	}

	// Store is the full persistence surface a backend provides.
	Store interface {
		TransactionStore
		GoalStore
	}
)

// InRange reports whether d falls inside [from, to]; zero bounds are open.
func InRange(d, from, to core.Date) bool {
	if !from.IsZero() && d.Before(from.Time) {
		return false
	}
	if !to.IsZero() && d.After(to.Time) {
		return false
	}
	return true
}

// MonthRange returns the first and last day of a month.
func MonthRange(year int, month time.Month) (core.Date, core.Date) {
	first := core.NewDate(year, int(month), 1)
	last := core.DateOf(first.AddDate(0, 1, -1))
	return first, last
}
