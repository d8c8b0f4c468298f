package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phsolutionsllc/replit-quote/internal/core"
	"github.com/phsolutionsllc/replit-quote/pkg/problem"
)

type PreferenceHandler struct {
	Svc core.PreferenceService
	Log *slog.Logger
}

func NewPreferenceHandler(svc core.PreferenceService, log *slog.Logger) *PreferenceHandler {
	return &PreferenceHandler{Svc: svc, Log: log}
}

func (h *PreferenceHandler) Mount(r chi.Router) {
	r.Route("/carrier-preferences", func(r chi.Router) {
		r.Get("/{location_id}", h.Get)
		r.Put("/{location_id}", h.Put)
	})
}

// Get retrieves carrier preferences for a location. A location with no
// saved preferences gets an empty preference set, not a 404.
// 200: JSON; 400: missing ID; 500: internal error.
func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "location_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Location ID", "Path parameter location_id is required.")
		return
	}

	pref, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get carrier preferences")
		return
	}

	if err := json.NewEncoder(w).Encode(pref); err != nil {
		h.Log.Error("failed to encode preferences", "location_id", id, "err", err)
	}
}

// Put replaces carrier preferences for a location.
// 200: JSON; 400: bad JSON/validation; 500: internal error.
func (h *PreferenceHandler) Put(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "location_id")
	if id == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Location ID", "Path parameter location_id is required.")
		return
	}

	var pref core.CarrierPreference
	if err := json.NewDecoder(r.Body).Decode(&pref); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return
	}
	pref.LocationID = id

	if err := h.Svc.Save(r.Context(), id, pref); err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}

	if pref.FexPreferences == nil {
		pref.FexPreferences = map[string]bool{}
	}
	if pref.TermPreferences == nil {
		pref.TermPreferences = map[string]bool{}
	}
	if err := json.NewEncoder(w).Encode(pref); err != nil {
		h.Log.Error("failed to encode preferences", "location_id", id, "err", err)
	}
}
