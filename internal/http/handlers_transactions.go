package http

import (
	"net/http"

	"fintrack/internal/core"
)

type createTransactionRequest struct {
	Merchant    string `json:"merchant"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Direction   string `json:"direction"`
	Date        string `json:"date"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, r, badRequest("invalid amount %q", req.Amount))
		return
	}
	date, err := parseDateParam("date", req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	direction := core.Direction(req.Direction)
	if req.Direction == "" {
		direction = core.Debit
	}

	t, err := s.svc.Transactions.Create(r.Context(),
		sanitizeInput(req.Merchant), sanitizeInput(req.Description), amount, direction, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTransactionResponse(t))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseDateParam("from", q.Get("from"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := parseDateParam("to", q.Get("to"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	txns, err := s.svc.Transactions.List(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTransactionsResponse(txns))
}
