// Package insights flags unusual transactions and emits canned spending
// advice from static per-category thresholds.
//
// All functions are pure: they read their input slice and never modify it.
package insights

import (
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/classify"
	"fintrack/internal/core"
)

// BalancedMessage is emitted when no category crosses its threshold.
const BalancedMessage = "Your spending is well balanced this month."

// Threshold pairs a category spending limit with the insight it triggers.
type Threshold struct {
	Category string
	Limit    decimal.Decimal
	Message  string
}

// DefaultThresholds is the static insight table, in output order.
var DefaultThresholds = []Threshold{
	{classify.CategoryFood, decimal.NewFromInt(3000), "You're spending a lot on food. Consider cooking at home more often."},
	{classify.CategoryTransport, decimal.NewFromInt(2000), "Transport costs are high. Consider public transport or carpooling."},
	{classify.CategoryShopping, decimal.NewFromInt(5000), "Shopping expenses are significant this month. Try to limit impulse purchases."},
	{classify.CategoryEntertainment, decimal.NewFromInt(2000), "Entertainment spending is high. Review your subscriptions and outings."},
	{classify.CategoryBills, decimal.NewFromInt(4000), "Bills are taking a large share. Check for plans or connections you no longer use."},
}

var two = decimal.NewFromInt(2)

// DetectAnomalies returns the transactions whose amount exceeds twice the
// arithmetic mean of all amounts. An empty input yields an empty result.
func DetectAnomalies(txns []core.Transaction) []core.Transaction {
	out := []core.Transaction{}
	if len(txns) == 0 {
		return out
	}
	sum := decimal.Zero
	for _, t := range txns {
		sum = sum.Add(t.Amount)
	}
	threshold := sum.Div(decimal.NewFromInt(int64(len(txns)))).Mul(two)
	for _, t := range txns {
		if t.Amount.GreaterThan(threshold) {
			out = append(out, t)
		}
	}
	return out
}

// GenerateInsights checks DefaultThresholds against per-category totals.
func GenerateInsights(txns []core.Transaction) []string {
	return GenerateInsightsWith(txns, DefaultThresholds)
}

// GenerateInsightsWith checks the given thresholds, in order, against
// per-category totals.
func GenerateInsightsWith(txns []core.Transaction, thresholds []Threshold) []string {
	totals := categoryTotals(txns, false)
	var out []string
	for _, th := range thresholds {
		if total, ok := totals[th.Category]; ok && total.GreaterThan(th.Limit) {
			out = append(out, th.Message)
		}
	}
	if len(out) == 0 {
		return []string{BalancedMessage}
	}
	return out
}

// Breakdown sums debit amounts by category, largest first, ties by name.
func Breakdown(txns []core.Transaction) []core.CategoryAmount {
	totals := categoryTotals(txns, true)
	out := make([]core.CategoryAmount, 0, len(totals))
	for name, amount := range totals {
		out = append(out, core.CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Overview builds the month summary served by the report endpoints.
func Overview(year, month int, txns []core.Transaction) core.MonthOverview {
	ov := core.MonthOverview{
		Year:        year,
		Month:       month,
		TotalSpent:  decimal.Zero,
		TotalIncome: decimal.Zero,
		ByCategory:  Breakdown(txns),
	}
	for _, t := range txns {
		switch t.Direction {
		case core.Credit:
			ov.TotalIncome = ov.TotalIncome.Add(t.Amount)
		case core.Debit:
			ov.TotalSpent = ov.TotalSpent.Add(t.Amount)
		}
	}
	return ov
}

func categoryTotals(txns []core.Transaction, debitsOnly bool) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if debitsOnly && t.Direction != core.Debit {
			continue
		}
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}
	return totals
}
