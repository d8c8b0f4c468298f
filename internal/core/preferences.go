package core

import (
	"context"
	"fmt"
)

// CarrierPreference is an agent location's carrier allow-list per product
// line. A carrier mapped to true is included; one mapped to false, or a
// wholly absent location, places no restriction beyond what the maps say.
type CarrierPreference struct {
	LocationID      string          `json:"locationId,omitempty"`
	FexPreferences  map[string]bool `json:"fexPreferences"`
	TermPreferences map[string]bool `json:"termPreferences"`
}

// Allowed returns the carriers enabled for the given coverage, or nil
// when none is enabled (meaning: no filter). A map of all-false entries
// is the same as no map at all.
func (p CarrierPreference) Allowed(cov CoverageType) []string {
	prefs := p.TermPreferences
	if cov == CoverageFEX {
		prefs = p.FexPreferences
	}
	var carriers []string
	for carrier, chosen := range prefs {
		if chosen {
			carriers = append(carriers, carrier)
		}
	}
	return carriers
}

// PreferenceRepo persists carrier preferences keyed by location ID.
// Get returns a zero-value preference (no filter) for an absent key.
type PreferenceRepo interface {
	Get(ctx context.Context, locationID string) (CarrierPreference, error)
	Save(ctx context.Context, locationID string, pref CarrierPreference) error
}

// PreferenceService wraps the repo with input checks.
type PreferenceService interface {
	Get(ctx context.Context, locationID string) (CarrierPreference, error)
	Save(ctx context.Context, locationID string, pref CarrierPreference) error
}

type preferenceService struct {
	repo PreferenceRepo
}

func NewPreferenceService(repo PreferenceRepo) PreferenceService {
	return &preferenceService{repo: repo}
}

func (s *preferenceService) Get(ctx context.Context, locationID string) (CarrierPreference, error) {
	if locationID == "" {
		return CarrierPreference{}, fmt.Errorf("%w: missing location ID", ErrValidation)
	}
	return s.repo.Get(ctx, locationID)
}

func (s *preferenceService) Save(ctx context.Context, locationID string, pref CarrierPreference) error {
	if locationID == "" {
		return fmt.Errorf("%w: missing location ID", ErrValidation)
	}
	if pref.FexPreferences == nil {
		pref.FexPreferences = map[string]bool{}
	}
	if pref.TermPreferences == nil {
		pref.TermPreferences = map[string]bool{}
	}
	return s.repo.Save(ctx, locationID, pref)
}
