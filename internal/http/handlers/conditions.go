package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phsolutionsllc/replit-quote/internal/core"
	"github.com/phsolutionsllc/replit-quote/pkg/problem"
)

type ConditionHandler struct {
	Catalog *core.Handle
	Log     *slog.Logger
}

func NewConditionHandler(catalog *core.Handle, log *slog.Logger) *ConditionHandler {
	return &ConditionHandler{Catalog: catalog, Log: log}
}

func (h *ConditionHandler) Mount(r chi.Router) {
	r.Route("/conditions", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/search", h.Search)
		r.Get("/{condition_name}/questions", h.Questions)
	})
}

// List returns every known condition in catalog order.
// 200: JSON array.
func (h *ConditionHandler) List(w http.ResponseWriter, r *http.Request) {
	conditions := h.Catalog.Load().ListConditions()
	if conditions == nil {
		conditions = []string{}
	}
	if err := json.NewEncoder(w).Encode(conditions); err != nil {
		h.Log.Error("failed to encode conditions", "err", err)
	}
}

// Search returns conditions whose name contains the query, case-insensitively.
// 200: JSON array; 400: missing query.
func (h *ConditionHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Query", "Query parameter query is required.")
		return
	}

	matches := h.Catalog.Load().Search(query)
	if matches == nil {
		matches = []string{}
	}
	if err := json.NewEncoder(w).Encode(matches); err != nil {
		h.Log.Error("failed to encode condition search", "query", query, "err", err)
	}
}

// Questions returns the follow-up questions for a condition, with the
// treatment-date question always first.
// 200: JSON array; 400: missing name; 404: unknown condition.
func (h *ConditionHandler) Questions(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "condition_name")
	if name == "" {
		problem.Write(w, http.StatusBadRequest, "Missing Condition Name", "Path parameter condition_name is required.")
		return
	}

	questions, err := h.Catalog.Load().QuestionsFor(name)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get questions for condition")
		return
	}

	if err := json.NewEncoder(w).Encode(questions); err != nil {
		h.Log.Error("failed to encode questions", "condition", name, "err", err)
	}
}
