package services

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/savings"
	"fintrack/internal/storage"

	"github.com/shopspring/decimal"
)

// IncomeWindowDays is how far back Plan looks for credits when no income is given.
const IncomeWindowDays = 30

// GoalPlan is a projection for a stored goal.
type GoalPlan struct {
	Goal       core.SavingsGoal
	Projection savings.Projection
	Income     decimal.Decimal
	// IncomeFromHistory is true when Income was summed from stored credits.
	IncomeFromHistory bool
	Overdue           bool
}

type GoalService struct {
	goals     storage.GoalStore
	txns      storage.TransactionStore
	projector *savings.Projector
	logger    *log.Logger
	now       func() time.Time
}

func NewGoalService(goals storage.GoalStore, txns storage.TransactionStore, logger *log.Logger, opts ...Option) *GoalService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	o := applyOptions(opts)
	return &GoalService{
		goals:     goals,
		txns:      txns,
		projector: savings.New(savings.WithClock(o.now)),
		logger:    logger.WithComponent(log.ComponentGoals),
		now:       o.now,
	}
}

func (s *GoalService) Create(ctx context.Context, name string, target, saved decimal.Decimal, deadline core.Date) (core.SavingsGoal, error) {
	g, err := s.goals.CreateGoal(ctx, core.SavingsGoal{
		Name:          name,
		TargetAmount:  target,
		CurrentAmount: saved,
		Deadline:      deadline,
	})
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("create goal: %w", err)
	}
	s.logger.InfoContext(ctx, "Goal created",
		log.FieldOperation, log.OpCreate,
		log.FieldGoalID, g.ID,
		log.FieldAmount, core.FormatAmount(g.TargetAmount))
	return g, nil
}

func (s *GoalService) Get(ctx context.Context, id string) (core.SavingsGoal, error) {
	g, err := s.goals.GetGoal(ctx, id)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("get goal: %w", err)
	}
	s.logger.DebugContext(ctx, "Goal loaded", log.FieldOperation, log.OpRead, log.FieldGoalID, id)
	return g, nil
}

func (s *GoalService) List(ctx context.Context) ([]core.SavingsGoal, error) {
	gs, err := s.goals.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return gs, nil
}

// Contribute adds amount to the goal; the saved total never exceeds the target.
func (s *GoalService) Contribute(ctx context.Context, id string, amount decimal.Decimal) (core.SavingsGoal, error) {
	if !amount.IsPositive() {
		return core.SavingsGoal{}, core.ErrInvalidAmount
	}
	g, err := s.goals.AddContribution(ctx, id, amount)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("add contribution: %w", err)
	}
	s.logger.InfoContext(ctx, "Contribution added",
		log.FieldOperation, log.OpContribute,
		log.FieldGoalID, id,
		log.FieldAmount, core.FormatAmount(amount),
		"reached", g.Reached())
	return g, nil
}

// Plan projects the savings needed to reach a goal. A nil income is replaced
// with the sum of credits dated in the trailing IncomeWindowDays.
func (s *GoalService) Plan(ctx context.Context, id string, income *decimal.Decimal) (GoalPlan, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return GoalPlan{}, err
	}

	plan := GoalPlan{Goal: g, Overdue: g.IsOverdue(s.now())}
	if income != nil {
		plan.Income = *income
	} else {
		plan.Income, err = s.recentIncome(ctx)
		if err != nil {
			return GoalPlan{}, err
		}
		plan.IncomeFromHistory = true
	}

	plan.Projection = s.projector.Project(g.TargetAmount, g.CurrentAmount, g.Deadline.Time, plan.Income)

	s.logger.DebugContext(ctx, "Goal projected",
		log.FieldOperation, log.OpProject,
		log.FieldGoalID, id,
		log.FieldFeasibility, string(plan.Projection.Feasibility),
		"overdue", plan.Overdue)
	return plan, nil
}

func (s *GoalService) recentIncome(ctx context.Context) (decimal.Decimal, error) {
	today := core.DateOf(s.now())
	from := core.DateOf(today.AddDate(0, 0, -IncomeWindowDays))
	txns, err := s.txns.ListTransactions(ctx, from, today)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list recent transactions: %w", err)
	}
	total := decimal.Zero
	for _, t := range txns {
		if t.Direction == core.Credit {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}
