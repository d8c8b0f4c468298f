package jobs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phsolutionsllc/replit-quote/internal/core"
)

const rulesV1 = `{"Term": {"Conditions": {"Diabetes": {"indications": {"": {
	"approvals": [{"carrier": "Protective", "timeRequirementType": "none"}]
}}}}}}`

const rulesV2 = `{"Term": {"Conditions": {
	"Diabetes": {},
	"Stroke": {}
}}}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeRules(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestReloadSwapsCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	writeRules(t, path, rulesV1)

	handle := core.NewHandle(nil)
	w := NewCatalogReloadWorker(path, handle, time.Minute, discardLogger())

	require.NoError(t, w.Reload(context.Background()))
	assert.Equal(t, 1, handle.Load().Len())

	writeRules(t, path, rulesV2)
	require.NoError(t, w.Reload(context.Background()))
	assert.Equal(t, 2, handle.Load().Len())
}

func TestReloadFailureKeepsCurrentCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	writeRules(t, path, rulesV1)

	handle := core.NewHandle(nil)
	w := NewCatalogReloadWorker(path, handle, time.Minute, discardLogger())
	require.NoError(t, w.Reload(context.Background()))
	before := handle.Load()

	writeRules(t, path, "{broken")
	assert.Error(t, w.Reload(context.Background()))
	assert.Same(t, before, handle.Load())
}

func TestReloadIfChangedSkipsUnchangedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	writeRules(t, path, rulesV1)

	handle := core.NewHandle(nil)
	w := NewCatalogReloadWorker(path, handle, time.Minute, discardLogger())

	require.NoError(t, w.reloadIfChanged(context.Background()))
	first := handle.Load()
	assert.Equal(t, 1, first.Len())

	// same mtime, no swap
	require.NoError(t, w.reloadIfChanged(context.Background()))
	assert.Same(t, first, handle.Load())

	// touch the file into the future to force a reload
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))
	require.NoError(t, w.reloadIfChanged(context.Background()))
	assert.NotSame(t, first, handle.Load())
}

func TestReloadIfChangedMissingFile(t *testing.T) {
	handle := core.NewHandle(nil)
	w := NewCatalogReloadWorker(filepath.Join(t.TempDir(), "nope.json"), handle, time.Minute, discardLogger())

	assert.Error(t, w.reloadIfChanged(context.Background()))
}
