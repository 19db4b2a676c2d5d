package http

import (
	"net/http"
	"strings"

	"fintrack/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type createGoalRequest struct {
	Name          string `json:"name"`
	TargetAmount  string `json:"target_amount"`
	CurrentAmount string `json:"current_amount"`
	Deadline      string `json:"deadline"`
}

type contributionRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	target, err := core.ParseAmount(req.TargetAmount)
	if err != nil {
		writeError(w, r, badRequest("invalid target_amount %q", req.TargetAmount))
		return
	}
	saved := decimal.Zero
	if strings.TrimSpace(req.CurrentAmount) != "" {
		saved, err = decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(req.CurrentAmount), ",", ""))
		if err != nil || saved.IsNegative() {
			writeError(w, r, badRequest("invalid current_amount %q", req.CurrentAmount))
			return
		}
	}
	if strings.TrimSpace(req.Deadline) == "" {
		writeError(w, r, badRequest("deadline is required"))
		return
	}
	deadline, err := parseDateParam("deadline", req.Deadline)
	if err != nil {
		writeError(w, r, err)
		return
	}

	g, err := s.svc.Goals.Create(r.Context(), sanitizeInput(req.Name), target, saved, deadline)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newGoalResponse(g))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.svc.Goals.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, newGoalResponse(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.svc.Goals.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newGoalResponse(g))
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, r, badRequest("invalid amount %q", req.Amount))
		return
	}

	g, err := s.svc.Goals.Contribute(r.Context(), chi.URLParam(r, "id"), amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newGoalResponse(g))
}

// handleGoalPlan projects a goal. Without ?income= the trailing credit total is used.
func (s *Server) handleGoalPlan(w http.ResponseWriter, r *http.Request) {
	var income *decimal.Decimal
	if v := strings.TrimSpace(r.URL.Query().Get("income")); v != "" {
		d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", ""))
		if err != nil {
			writeError(w, r, badRequest("invalid income %q", v))
			return
		}
		income = &d
	}

	plan, err := s.svc.Goals.Plan(r.Context(), chi.URLParam(r, "id"), income)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlanResponse(plan))
}
