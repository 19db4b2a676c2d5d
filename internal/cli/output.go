package cli

import (
	"fmt"

	"fintrack/internal/classify"
	"fintrack/internal/core"
	"fintrack/internal/savings"

	"github.com/fatih/color"
)

var (
	label  = color.New(color.FgCyan, color.Bold).SprintFunc()
	green  = color.New(color.FgGreen, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

// feasibilityColor maps easier plans to calmer colours.
func feasibilityColor(f savings.Feasibility) func(a ...any) string {
	switch f {
	case savings.EasilyAchievable, savings.Reasonable:
		return green
	case savings.Moderate:
		return yellow
	case savings.Challenging:
		return red
	default:
		return faint
	}
}

func orNone(s string) string {
	if s == "" {
		return faint("-")
	}
	return s
}

func (a *App) printClassification(r classify.Result) {
	fmt.Fprintf(a.out, "%s %s\n", label("Category:"), r.Category)
	fmt.Fprintf(a.out, "%s %s\n", label("Subcategory:"), orNone(r.Subcategory))
	fmt.Fprintf(a.out, "%s %.2f\n", label("Confidence:"), r.Confidence)
}

func (a *App) printDraft(d core.TransactionDraft) {
	amount := core.FormatAmount(d.Amount)
	if d.Direction == core.Credit {
		amount = green("+" + amount)
	} else {
		amount = red("-" + amount)
	}
	fmt.Fprintf(a.out, "%s %s\n", label("Amount:"), amount)
	fmt.Fprintf(a.out, "%s %s\n", label("Direction:"), d.Direction)
	fmt.Fprintf(a.out, "%s %s\n", label("Merchant:"), d.Merchant)
	fmt.Fprintf(a.out, "%s %s\n", label("Category:"), d.Category)
	fmt.Fprintf(a.out, "%s %s\n", label("Subcategory:"), orNone(d.Subcategory))
	fmt.Fprintf(a.out, "%s %.2f\n", label("Confidence:"), d.Confidence)
	fmt.Fprintf(a.out, "%s %s\n", label("Date:"), d.Date)
	fmt.Fprintf(a.out, "%s %s\n", label("Account:"), orNone(d.LastFourDigits))
}

func (a *App) printProjection(p savings.Projection) {
	fmt.Fprintf(a.out, "%s %s\n", label("Monthly:"), p.Monthly)
	fmt.Fprintf(a.out, "%s %s\n", label("Weekly:"), p.Weekly)
	fmt.Fprintf(a.out, "%s %d days (%d months, %d weeks)\n", label("Time left:"), p.DaysLeft, p.MonthsLeft, p.WeeksLeft)
	if p.IncomePercentage != nil {
		fmt.Fprintf(a.out, "%s %s%%\n", label("Of income:"), p.IncomePercentage.StringFixed(2))
	}
	fmt.Fprintf(a.out, "%s %s\n", label("Feasibility:"), feasibilityColor(p.Feasibility)(string(p.Feasibility)))
}
