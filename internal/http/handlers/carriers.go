package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phsolutionsllc/replit-quote/internal/core"
	"github.com/phsolutionsllc/replit-quote/pkg/problem"
)

type CarrierHandler struct {
	Catalog *core.Handle
	Log     *slog.Logger
}

func NewCarrierHandler(catalog *core.Handle, log *slog.Logger) *CarrierHandler {
	return &CarrierHandler{Catalog: catalog, Log: log}
}

func (h *CarrierHandler) Mount(r chi.Router) {
	r.Route("/carriers", func(r chi.Router) {
		r.Get("/", h.List)
	})
}

// List returns the distinct carriers known for a coverage type, sorted.
// 200: JSON array; 400: missing or invalid coverage.
func (h *CarrierHandler) List(w http.ResponseWriter, r *http.Request) {
	cov, err := core.ParseCoverageType(r.URL.Query().Get("coverage"))
	if err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid Coverage", "Query parameter coverage must be term or fex.")
		return
	}

	carriers := h.Catalog.Load().Carriers(cov)
	if carriers == nil {
		carriers = []string{}
	}
	if err := json.NewEncoder(w).Encode(carriers); err != nil {
		h.Log.Error("failed to encode carriers", "coverage", cov, "err", err)
	}
}
