package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/phsolutionsllc/replit-quote/internal/core"
	"github.com/phsolutionsllc/replit-quote/internal/store/rulefile"
)

// CatalogReloadWorker watches the rules file and swaps a fresh catalog in
// when the file changes. A failed reload keeps the current catalog serving.
type CatalogReloadWorker struct {
	BaseWorker
	path    string
	catalog *core.Handle
	log     *slog.Logger

	mu      sync.Mutex
	lastMod time.Time
}

func NewCatalogReloadWorker(path string, catalog *core.Handle, interval time.Duration, log *slog.Logger) *CatalogReloadWorker {
	return &CatalogReloadWorker{
		BaseWorker: NewBaseWorker("catalog-reload", interval, log),
		path:       path,
		catalog:    catalog,
		log:        log.With("worker", "catalog-reload"),
	}
}

func (w *CatalogReloadWorker) Name() string { return "catalog-reload" }

func (w *CatalogReloadWorker) Start(ctx context.Context) {
	w.Poll(ctx, w.reloadIfChanged)
}

// reloadIfChanged skips the reload when the file's mtime has not moved.
func (w *CatalogReloadWorker) reloadIfChanged(ctx context.Context) error {
	info, err := os.Stat(w.path)
	if err != nil {
		return fmt.Errorf("stat rules file: %w", err)
	}

	w.mu.Lock()
	unchanged := !info.ModTime().After(w.lastMod)
	w.mu.Unlock()
	if unchanged {
		return nil
	}

	if err := w.Reload(ctx); err != nil {
		return err
	}

	w.mu.Lock()
	w.lastMod = info.ModTime()
	w.mu.Unlock()
	return nil
}

// Reload parses the rules file and swaps the catalog unconditionally.
func (w *CatalogReloadWorker) Reload(_ context.Context) error {
	cat, err := rulefile.Load(w.path, w.log)
	if err != nil {
		return err
	}

	w.catalog.Swap(cat)
	w.log.Info("catalog reloaded", "path", w.path, "conditions", cat.Len())
	return nil
}
