package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

const (
	KindSMS   Kind = "sms"
	KindEmail Kind = "email"
)

// DefaultCategory is assigned when no rule matches.
const DefaultCategory = "Other"

type (
	// Direction tells whether money came in (credit) or went out (debit).
	Direction string

	// Kind is the channel a raw transaction text arrived through.
	Kind string

	Date struct {
		time.Time
	}

	TransactionDraft struct {
		Amount         decimal.Decimal
		Direction      Direction
		Merchant       string
		Description    string
		Category       string
		Subcategory    string // empty when the rule has none
		Confidence     float64
		Date           Date
		LastFourDigits string // SMS only, empty when absent
		RawText        string
	}

	// Transaction is a classified draft that has been persisted.
	Transaction struct {
		ID string
		TransactionDraft
		CreatedAt time.Time
	}

	CategoryRule struct {
		Category    string   `yaml:"category"`
		Subcategory string   `yaml:"subcategory,omitempty"`
		Keywords    []string `yaml:"keywords"`
	}

	SavingsGoal struct {
		ID            string
		Name          string
		TargetAmount  decimal.Decimal
		CurrentAmount decimal.Decimal
		Deadline      Date
		CreatedAt     time.Time
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidDirection  = errors.New("invalid direction")
	ErrInvalidKind       = errors.New("invalid kind")
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")
	ErrEmptyCategory     = errors.New("empty category")
	ErrEmptyMerchant     = errors.New("empty merchant")
	ErrEmptyKeywords     = errors.New("rule has no keywords")
	ErrEmptyGoalName     = errors.New("empty goal name")
	ErrInvalidDeadline   = errors.New("invalid deadline")
	ErrGoalNameTooLong   = errors.New("goal name too long (max 200 characters)")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (d Direction) Valid() bool {
	return d == Credit || d == Debit
}

func (k Kind) Valid() bool {
	return k == KindSMS || k == KindEmail
}

func (t TransactionDraft) Validate() error {
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !t.Direction.Valid() {
		return ErrInvalidDirection
	}
	if strings.TrimSpace(t.Merchant) == "" {
		return ErrEmptyMerchant
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Confidence < 0 || t.Confidence > 1 {
		return ErrInvalidConfidence
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	return nil
}

func (r CategoryRule) Validate() error {
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if len(r.Keywords) == 0 {
		return ErrEmptyKeywords
	}
	for _, k := range r.Keywords {
		if strings.TrimSpace(k) == "" {
			return errors.New("rule " + r.Category + " has an empty keyword")
		}
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGoalName
	}
	if len(g.Name) > 200 {
		return ErrGoalNameTooLong
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if g.CurrentAmount.IsNegative() {
		return ErrInvalidAmount
	}
	if g.Deadline.IsZero() {
		return ErrInvalidDeadline
	}
	return nil
}

// AddContribution adds x to the saved amount, clamped to the target.
func (g *SavingsGoal) AddContribution(x decimal.Decimal) error {
	if !x.IsPositive() {
		return ErrInvalidAmount
	}
	g.CurrentAmount = decimal.Min(g.CurrentAmount.Add(x), g.TargetAmount)
	return nil
}

// Reached reports whether the target has been saved.
func (g SavingsGoal) Reached() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// Remaining returns the amount still to be saved, never negative.
func (g SavingsGoal) Remaining() decimal.Decimal {
	return decimal.Max(g.TargetAmount.Sub(g.CurrentAmount), decimal.Zero)
}

// IsOverdue is true when the deadline day has passed and the target is not reached.
func (g SavingsGoal) IsOverdue(now time.Time) bool {
	if g.Reached() {
		return false
	}
	return g.Deadline.Before(DateOf(now).Time)
}
