package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store keeps transactions and goals in process memory.
type Store struct {
	mu    sync.Mutex
	txns  []core.Transaction
	goals map[string]core.SavingsGoal
	order []string
	now   func() time.Time
}

type Option func(*Store)

// WithClock overrides the clock used for CreatedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{goals: map[string]core.SavingsGoal{}, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) SaveTransaction(_ context.Context, d core.TransactionDraft) (core.Transaction, error) {
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t := core.Transaction{ID: uuid.NewString(), TransactionDraft: d, CreatedAt: s.now().UTC()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns = append(s.txns, t)
	return t, nil
}

func (s *Store) ListTransactions(_ context.Context, from, to core.Date) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.txns))
	for _, t := range s.txns {
		if storage.InRange(t.Date, from, to) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b core.Transaction) int {
		return a.Date.Compare(b.Date.Time)
	})
	return out, nil
}

func (s *Store) CreateGoal(_ context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	g.ID = uuid.NewString()
	g.CreatedAt = s.now().UTC()
	g.CurrentAmount = decimal.Min(g.CurrentAmount, g.TargetAmount)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = g
	s.order = append(s.order, g.ID)
	return g, nil
}

func (s *Store) GetGoal(_ context.Context, id string) (core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok {
		return core.SavingsGoal{}, fmt.Errorf("goal %s: %w", id, storage.ErrNotFound)
	}
	return g, nil
}

func (s *Store) ListGoals(_ context.Context) ([]core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.SavingsGoal, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.goals[id])
	}
	return out, nil
}

func (s *Store) AddContribution(_ context.Context, id string, amount decimal.Decimal) (core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok {
		return core.SavingsGoal{}, fmt.Errorf("goal %s: %w", id, storage.ErrNotFound)
	}
	if err := g.AddContribution(amount); err != nil {
		return core.SavingsGoal{}, err
	}
	s.goals[id] = g
	return g, nil
}

// Close is a no-op; it lets the memory store share the backend cleanup path.
func (s *Store) Close() error { return nil }
