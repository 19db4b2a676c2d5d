package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/storage"

	"github.com/shopspring/decimal"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"request error", badRequest("bad %s", "thing"), http.StatusBadRequest, "bad thing"},
		{"unparseable", fmt.Errorf("ingest: %w", services.ErrUnparseable), http.StatusUnprocessableEntity, "could not extract transaction"},
		{"not found", fmt.Errorf("goal x: %w", storage.ErrNotFound), http.StatusNotFound, "not found"},
		{"invalid kind", fmt.Errorf("kind %q: %w", "fax", core.ErrInvalidKind), http.StatusBadRequest, `kind "fax": invalid kind`},
		{"invalid period", services.ErrInvalidPeriod, http.StatusBadRequest, services.ErrInvalidPeriod.Error()},
		{"name too long", core.ErrGoalNameTooLong, http.StatusBadRequest, core.ErrGoalNameTooLong.Error()},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := errorStatus(tt.err)
			if status != tt.wantStatus || msg != tt.wantMsg {
				t.Errorf("errorStatus() = %d %q, want %d %q", status, msg, tt.wantStatus, tt.wantMsg)
			}
		})
	}
}

func TestNewGoalResponse(t *testing.T) {
	g := core.SavingsGoal{
		ID:            "g1",
		Name:          "Trip",
		TargetAmount:  decimal.RequireFromString("500"),
		CurrentAmount: decimal.RequireFromString("125.5"),
		Deadline:      core.NewDate(2025, 12, 31),
	}
	got := newGoalResponse(g)
	if got.TargetAmount != "500.00" || got.CurrentAmount != "125.50" || got.Remaining != "374.50" {
		t.Errorf("amounts = %s/%s/%s", got.TargetAmount, got.CurrentAmount, got.Remaining)
	}
	if got.Deadline != "2025-12-31" || got.Reached {
		t.Errorf("deadline/reached = %s/%v", got.Deadline, got.Reached)
	}
}

func TestNewDraftResponse_EmptyOptionals(t *testing.T) {
	d := core.TransactionDraft{
		Amount:    decimal.NewFromInt(42),
		Direction: core.Debit,
		Merchant:  "Email Receipt",
		Category:  core.DefaultCategory,
		Date:      core.NewDate(2025, 1, 2),
	}
	got := newDraftResponse(d)
	if got.Subcategory != "" || got.LastFourDigits != "" {
		t.Errorf("optional fields should be empty strings: %+v", got)
	}
	if got.Amount != "42.00" || got.Date != "2025-01-02" {
		t.Errorf("amount/date = %s/%s", got.Amount, got.Date)
	}
}
