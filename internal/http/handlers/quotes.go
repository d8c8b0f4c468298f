package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phsolutionsllc/replit-quote/internal/core"
	"github.com/phsolutionsllc/replit-quote/pkg/problem"
)

type QuoteHandler struct {
	Svc core.QuoteService
	Log *slog.Logger
}

func NewQuoteHandler(svc core.QuoteService, log *slog.Logger) *QuoteHandler {
	return &QuoteHandler{Svc: svc, Log: log}
}

func (h *QuoteHandler) Mount(r chi.Router) {
	r.Route("/quotes", func(r chi.Router) {
		r.Post("/", h.Search)
	})
}

// Search returns rate quotes matching the applicant profile, annotated with
// carrier eligibility and ranked approvals-first.
// 200: JSON array; 400: bad JSON/validation; 500: internal error.
func (h *QuoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req core.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}

	quotes, err := h.Svc.Search(r.Context(), req)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	if quotes == nil {
		quotes = []core.RateQuote{}
	}
	if err := json.NewEncoder(w).Encode(quotes); err != nil {
		h.Log.Error("failed to encode quotes", "err", err)
	}
}
