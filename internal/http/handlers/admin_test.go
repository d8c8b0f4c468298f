package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phsolutionsllc/replit-quote/internal/core"
)

type stubReloader struct {
	err    error
	called bool
}

func (s *stubReloader) Reload(context.Context) error {
	s.called = true
	return s.err
}

func TestReloadCatalog(t *testing.T) {
	cat := core.NewCatalog()
	cat.AddCondition("Diabetes", core.CoverageTerm, nil)

	reloader := &stubReloader{}
	r := chi.NewRouter()
	NewAdminHandler(reloader, core.NewHandle(cat), testLogger()).Mount(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/catalog/reload", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reloader.called)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "reloaded", got["status"])
	assert.Equal(t, float64(1), got["conditions"])
}

func TestReloadCatalogFailure(t *testing.T) {
	reloader := &stubReloader{err: errors.New("parse failed")}
	r := chi.NewRouter()
	NewAdminHandler(reloader, core.NewHandle(nil), testLogger()).Mount(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/catalog/reload", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
