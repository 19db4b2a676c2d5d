// Package savings projects the periodic contributions needed to reach a
// savings goal and labels how feasible they are relative to income.
package savings

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Feasibility is a qualitative label for a contribution relative to income.
type Feasibility string

const (
	Challenging      Feasibility = "challenging"
	Moderate         Feasibility = "moderate"
	Reasonable       Feasibility = "reasonable"
	EasilyAchievable Feasibility = "easily achievable"
	Indeterminate    Feasibility = "unable to calculate without income data"
)

var (
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
	weeksPerYear  = decimal.NewFromInt(52)

	challengingAbove = decimal.NewFromInt(30)
	moderateAbove    = decimal.NewFromInt(20)
	reasonableAbove  = decimal.NewFromInt(10)
)

// Projection is the suggested contribution plan for a goal.
type Projection struct {
	Monthly          decimal.Decimal  `json:"monthly"`
	Weekly           decimal.Decimal  `json:"weekly"`
	Feasibility      Feasibility      `json:"feasibility"`
	IncomePercentage *decimal.Decimal `json:"income_percentage,omitempty"`
	DaysLeft         int              `json:"days_left"`
	MonthsLeft       int              `json:"months_left"`
	WeeksLeft        int              `json:"weeks_left"`
}

// Projector computes projections against an injectable clock.
type Projector struct {
	now func() time.Time
}

// Option configures a Projector.
type Option func(*Projector)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Projector) { p.now = now }
}

func New(opts ...Option) *Projector {
	p := &Projector{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Project computes monthly and weekly contributions for saving target by
// deadline, given what is already saved and the income to compare against.
//
// Past deadlines are not rejected: daysLeft goes negative and the period
// counts clamp to 1, so the whole remaining amount is due at once. Flagging
// overdue goals is left to the caller.
func (p *Projector) Project(target, currentlySaved decimal.Decimal, deadline time.Time, totalIncome decimal.Decimal) Projection {
	daysLeft := int(math.Ceil(deadline.Sub(p.now()).Hours() / 24))
	monthsLeft := max(1, ceilDiv(daysLeft, 30))
	weeksLeft := max(1, ceilDiv(daysLeft, 7))

	proj := Projection{
		DaysLeft:   daysLeft,
		MonthsLeft: monthsLeft,
		WeeksLeft:  weeksLeft,
	}

	if !totalIncome.IsPositive() {
		proj.Monthly = target.Div(monthsPerYear).Ceil()
		proj.Weekly = target.Div(weeksPerYear).Ceil()
		proj.Feasibility = Indeterminate
		return proj
	}

	needed := target.Sub(currentlySaved)
	proj.Monthly = needed.Div(decimal.NewFromInt(int64(monthsLeft))).Ceil()
	proj.Weekly = needed.Div(decimal.NewFromInt(int64(weeksLeft))).Ceil()

	pct := proj.Monthly.Div(totalIncome).Mul(hundred).Round(2)
	proj.IncomePercentage = &pct
	proj.Feasibility = Classify(pct)
	return proj
}

// Classify buckets an income percentage. Thresholds are exclusive, so exactly
// 10% is easily achievable and anything above it is reasonable.
func Classify(incomePercentage decimal.Decimal) Feasibility {
	switch {
	case incomePercentage.GreaterThan(challengingAbove):
		return Challenging
	case incomePercentage.GreaterThan(moderateAbove):
		return Moderate
	case incomePercentage.GreaterThan(reasonableAbove):
		return Reasonable
	default:
		return EasilyAchievable
	}
}

func ceilDiv(n, d int) int {
	return int(math.Ceil(float64(n) / float64(d)))
}
