package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phsolutionsllc/replit-quote/internal/core"
)

type stubPrefService struct {
	pref    core.CarrierPreference
	getErr  error
	saveErr error
	savedID string
	saved   core.CarrierPreference
}

func (s *stubPrefService) Get(_ context.Context, locationID string) (core.CarrierPreference, error) {
	if s.getErr != nil {
		return core.CarrierPreference{}, s.getErr
	}
	pref := s.pref
	pref.LocationID = locationID
	return pref, nil
}

func (s *stubPrefService) Save(_ context.Context, locationID string, pref core.CarrierPreference) error {
	s.savedID = locationID
	s.saved = pref
	return s.saveErr
}

func prefRouter(svc core.PreferenceService) http.Handler {
	r := chi.NewRouter()
	NewPreferenceHandler(svc, testLogger()).Mount(r)
	return r
}

func TestGetPreferences(t *testing.T) {
	svc := &stubPrefService{pref: core.CarrierPreference{
		TermPreferences: map[string]bool{"Protective": true},
		FexPreferences:  map[string]bool{},
	}}

	rec := httptest.NewRecorder()
	prefRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/carrier-preferences/loc-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got core.CarrierPreference
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "loc-1", got.LocationID)
	assert.True(t, got.TermPreferences["Protective"])
}

func TestPutPreferences(t *testing.T) {
	svc := &stubPrefService{}

	body := `{"termPreferences":{"SBLI":true},"fexPreferences":{}}`
	rec := httptest.NewRecorder()
	prefRouter(svc).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPut, "/carrier-preferences/loc-1", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "loc-1", svc.savedID)
	assert.True(t, svc.saved.TermPreferences["SBLI"])

	var got core.CarrierPreference
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "loc-1", got.LocationID, "path ID wins over any body ID")
}

func TestPutPreferencesBadJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	prefRouter(&stubPrefService{}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPut, "/carrier-preferences/loc-1", strings.NewReader("{nope")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPutPreferencesValidationError(t *testing.T) {
	svc := &stubPrefService{saveErr: core.ErrValidation}

	rec := httptest.NewRecorder()
	prefRouter(svc).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPut, "/carrier-preferences/loc-1", strings.NewReader("{}")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
