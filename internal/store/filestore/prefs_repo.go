// Package filestore keeps carrier preferences as one JSON file per
// location, the format agent locations have always been provisioned
// with.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phsolutionsllc/replit-quote/internal/core"
	"github.com/phsolutionsllc/replit-quote/internal/platform/ids"
)

type PreferenceRepoFile struct {
	dir string
}

// NewPreferenceRepo ensures the locations directory exists.
func NewPreferenceRepo(dir string) (*PreferenceRepoFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create locations dir: %w", err)
	}
	return &PreferenceRepoFile{dir: dir}, nil
}

// Get reads the preference file for a location. An absent file means no
// preference filter: a zero-value preference is returned, not an error.
func (repo *PreferenceRepoFile) Get(_ context.Context, locationID string) (core.CarrierPreference, error) {
	path, err := repo.path(locationID)
	if err != nil {
		return core.CarrierPreference{}, err
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return core.CarrierPreference{
			LocationID:      locationID,
			FexPreferences:  map[string]bool{},
			TermPreferences: map[string]bool{},
		}, nil
	}
	if err != nil {
		return core.CarrierPreference{}, fmt.Errorf("prefs.read: %w", err)
	}

	var pref core.CarrierPreference
	if err := json.Unmarshal(raw, &pref); err != nil {
		return core.CarrierPreference{}, fmt.Errorf("prefs.parse %s: %w", path, err)
	}
	pref.LocationID = locationID
	return pref, nil
}

// Save writes the preference file atomically (write temp, rename).
func (repo *PreferenceRepoFile) Save(_ context.Context, locationID string, pref core.CarrierPreference) error {
	path, err := repo.path(locationID)
	if err != nil {
		return err
	}

	pref.LocationID = locationID
	raw, err := json.Marshal(pref)
	if err != nil {
		return fmt.Errorf("prefs.marshal: %w", err)
	}

	// Unique temp name so concurrent saves for one location cannot
	// interleave partial writes.
	tmp := path + ".tmp-" + ids.New()
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("prefs.write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("prefs.rename: %w", err)
	}
	return nil
}

// path rejects location IDs that would escape the locations directory.
func (repo *PreferenceRepoFile) path(locationID string) (string, error) {
	if locationID == "" || strings.ContainsAny(locationID, `/\`) || strings.Contains(locationID, "..") {
		return "", fmt.Errorf("%w: invalid location ID", core.ErrValidation)
	}
	return filepath.Join(repo.dir, locationID+".json"), nil
}

// Ping reports whether the locations directory is accessible.
func (repo *PreferenceRepoFile) Ping(_ context.Context) error {
	_, err := os.Stat(repo.dir)
	return err
}
