package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

type draftResponse struct {
	Amount         string  `json:"amount"`
	Direction      string  `json:"direction"`
	Merchant       string  `json:"merchant"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	Subcategory    string  `json:"subcategory"`
	Confidence     float64 `json:"confidence"`
	Date           string  `json:"date"`
	LastFourDigits string  `json:"last_four_digits"`
	RawText        string  `json:"raw_text,omitempty"`
}

type transactionResponse struct {
	ID string `json:"id"`
	draftResponse
	CreatedAt time.Time `json:"created_at"`
}

type goalResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	TargetAmount  string    `json:"target_amount"`
	CurrentAmount string    `json:"current_amount"`
	Remaining     string    `json:"remaining"`
	Deadline      string    `json:"deadline"`
	Reached       bool      `json:"reached"`
	CreatedAt     time.Time `json:"created_at"`
}

type planResponse struct {
	Goal              goalResponse `json:"goal"`
	MonthlySavings    string       `json:"monthly_savings"`
	WeeklySavings     string       `json:"weekly_savings"`
	Feasibility       string       `json:"feasibility"`
	IncomePercentage  *string      `json:"income_percentage"`
	DaysLeft          int          `json:"days_left"`
	MonthsLeft        int          `json:"months_left"`
	WeeksLeft         int          `json:"weeks_left"`
	Income            string       `json:"income"`
	IncomeFromHistory bool         `json:"income_from_history"`
	Overdue           bool         `json:"overdue"`
}

type categoryAmountResponse struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type reportResponse struct {
	Year        int                      `json:"year"`
	Month       int                      `json:"month"`
	TotalSpent  string                   `json:"total_spent"`
	TotalIncome string                   `json:"total_income"`
	ByCategory  []categoryAmountResponse `json:"by_category"`
	Anomalies   []transactionResponse    `json:"anomalies"`
	Insights    []string                 `json:"insights"`
	Count       int                      `json:"transaction_count"`
	GeneratedAt time.Time                `json:"generated_at"`
}

func newDraftResponse(d core.TransactionDraft) draftResponse {
	return draftResponse{
		Amount:         core.FormatAmount(d.Amount),
		Direction:      string(d.Direction),
		Merchant:       d.Merchant,
		Description:    d.Description,
		Category:       d.Category,
		Subcategory:    d.Subcategory,
		Confidence:     d.Confidence,
		Date:           d.Date.String(),
		LastFourDigits: d.LastFourDigits,
		RawText:        d.RawText,
	}
}

func newTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{ID: t.ID, draftResponse: newDraftResponse(t.TransactionDraft), CreatedAt: t.CreatedAt}
}

func newTransactionsResponse(txns []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, newTransactionResponse(t))
	}
	return out
}

func newGoalResponse(g core.SavingsGoal) goalResponse {
	return goalResponse{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  core.FormatAmount(g.TargetAmount),
		CurrentAmount: core.FormatAmount(g.CurrentAmount),
		Remaining:     core.FormatAmount(g.Remaining()),
		Deadline:      g.Deadline.String(),
		Reached:       g.Reached(),
		CreatedAt:     g.CreatedAt,
	}
}

func newPlanResponse(p services.GoalPlan) planResponse {
	resp := planResponse{
		Goal:              newGoalResponse(p.Goal),
		MonthlySavings:    p.Projection.Monthly.String(),
		WeeklySavings:     p.Projection.Weekly.String(),
		Feasibility:       string(p.Projection.Feasibility),
		DaysLeft:          p.Projection.DaysLeft,
		MonthsLeft:        p.Projection.MonthsLeft,
		WeeksLeft:         p.Projection.WeeksLeft,
		Income:            core.FormatAmount(p.Income),
		IncomeFromHistory: p.IncomeFromHistory,
		Overdue:           p.Overdue,
	}
	if p.Projection.IncomePercentage != nil {
		pct := p.Projection.IncomePercentage.StringFixed(2)
		resp.IncomePercentage = &pct
	}
	return resp
}

func newReportResponse(r services.MonthlyReport) reportResponse {
	by := make([]categoryAmountResponse, 0, len(r.Overview.ByCategory))
	for _, c := range r.Overview.ByCategory {
		by = append(by, categoryAmountResponse{Category: c.Name, Amount: core.FormatAmount(c.Amount)})
	}
	return reportResponse{
		Year:        r.Overview.Year,
		Month:       r.Overview.Month,
		TotalSpent:  core.FormatAmount(r.Overview.TotalSpent),
		TotalIncome: core.FormatAmount(r.Overview.TotalIncome),
		ByCategory:  by,
		Anomalies:   newTransactionsResponse(r.Anomalies),
		Insights:    r.Insights,
		Count:       r.Count,
		GeneratedAt: r.GeneratedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// Headers are already written; an encode failure means the client went away.
	_ = json.NewEncoder(w).Encode(v)
}

// validationErrors are caller mistakes surfaced as 400.
var validationErrors = []error{
	core.ErrInvalidAmount,
	core.ErrInvalidDirection,
	core.ErrInvalidKind,
	core.ErrInvalidConfidence,
	core.ErrEmptyCategory,
	core.ErrEmptyMerchant,
	core.ErrEmptyGoalName,
	core.ErrGoalNameTooLong,
	core.ErrInvalidDeadline,
	services.ErrInvalidPeriod,
	services.ErrInvalidRange,
}

// errorStatus maps an error to the HTTP status and the message exposed to clients.
func errorStatus(err error) (int, string) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, reqErr.Error()
	case errors.Is(err, services.ErrUnparseable):
		return http.StatusUnprocessableEntity, services.ErrUnparseable.Error()
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "not found"
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusBadRequest, err.Error()
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldPath, r.URL.Path,
			log.FieldError, err.Error())
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
