package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phsolutionsllc/replit-quote/internal/core"
)

// Reloader rebuilds the rule catalog from its source.
type Reloader interface {
	Reload(ctx context.Context) error
}

type AdminHandler struct {
	Reloader Reloader
	Catalog  *core.Handle
	Log      *slog.Logger
}

func NewAdminHandler(reloader Reloader, catalog *core.Handle, log *slog.Logger) *AdminHandler {
	return &AdminHandler{Reloader: reloader, Catalog: catalog, Log: log}
}

func (h *AdminHandler) Mount(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Post("/catalog/reload", h.ReloadCatalog)
	})
}

// ReloadCatalog forces a catalog rebuild from the rules file.
// 200: JSON with condition count; 500: reload failed, old catalog still serving.
func (h *AdminHandler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.Reloader.Reload(r.Context()); err != nil {
		writeError(r.Context(), h.Log, w, err, "Catalog reload failed; previous catalog remains active.")
		return
	}

	out := map[string]any{
		"status":     "reloaded",
		"conditions": h.Catalog.Load().Len(),
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		h.Log.Error("failed to encode reload result", "err", err)
	}
}
