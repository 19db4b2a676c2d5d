package http

import (
	"net/http"
	"strconv"

	"fintrack/internal/core"
)

type ingestRequest struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
}

type categorizeRequest struct {
	Merchant    string `json:"merchant"`
	Description string `json:"description"`
}

type categorizeResponse struct {
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Confidence  float64 `json:"confidence"`
}

// handleIngest extracts a transaction from raw SMS or email text and stores it.
// With dry_run=true the draft is returned without being persisted.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	text := sanitizeInput(req.Text)
	if text == "" {
		writeError(w, r, badRequest("text is required"))
		return
	}
	kind := core.Kind(req.Kind)

	dryRun := false
	if v := r.URL.Query().Get("dry_run"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, badRequest("invalid dry_run %q", v))
			return
		}
		dryRun = b
	}

	if dryRun {
		d, err := s.svc.Ingest.Preview(text, kind)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newDraftResponse(d))
		return
	}

	t, err := s.svc.Ingest.Ingest(r.Context(), text, kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTransactionResponse(t))
}

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res := s.svc.Classifier.ClassifyTransaction(sanitizeInput(req.Merchant), sanitizeInput(req.Description))
	writeJSON(w, http.StatusOK, categorizeResponse{
		Category:    res.Category,
		Subcategory: res.Subcategory,
		Confidence:  res.Confidence,
	})
}
