package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phsolutionsllc/replit-quote/internal/core"
)

func newRepo(t *testing.T) *PreferenceRepoFile {
	t.Helper()
	repo, err := NewPreferenceRepo(t.TempDir())
	require.NoError(t, err)
	return repo
}

func TestGetAbsentLocation(t *testing.T) {
	repo := newRepo(t)

	pref, err := repo.Get(context.Background(), "loc-1")
	require.NoError(t, err)
	assert.Equal(t, "loc-1", pref.LocationID)
	assert.Empty(t, pref.TermPreferences)
	assert.Empty(t, pref.FexPreferences)
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	in := core.CarrierPreference{
		TermPreferences: map[string]bool{"Protective": true, "SBLI": false},
		FexPreferences:  map[string]bool{"Gerber": true},
	}
	require.NoError(t, repo.Save(ctx, "loc-1", in))

	got, err := repo.Get(ctx, "loc-1")
	require.NoError(t, err)
	assert.Equal(t, "loc-1", got.LocationID)
	assert.Equal(t, in.TermPreferences, got.TermPreferences)
	assert.Equal(t, in.FexPreferences, got.FexPreferences)
}

func TestSaveOverwrites(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "loc-1", core.CarrierPreference{
		TermPreferences: map[string]bool{"Protective": true},
	}))
	require.NoError(t, repo.Save(ctx, "loc-1", core.CarrierPreference{
		TermPreferences: map[string]bool{"SBLI": true},
	}))

	got, err := repo.Get(ctx, "loc-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"SBLI": true}, got.TermPreferences)
}

func TestInvalidLocationIDs(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	for _, id := range []string{"", "../etc", "a/b", `a\b`, "loc..1"} {
		_, err := repo.Get(ctx, id)
		assert.ErrorIs(t, err, core.ErrValidation, "id %q", id)

		err = repo.Save(ctx, id, core.CarrierPreference{})
		assert.ErrorIs(t, err, core.ErrValidation, "id %q", id)
	}
}

func TestGetCorruptFile(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewPreferenceRepo(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "loc-1.json"), []byte("{nope"), 0o644))

	_, err = repo.Get(context.Background(), "loc-1")
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	repo := newRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))
}
