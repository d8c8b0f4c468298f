package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/phsolutionsllc/replit-quote/internal/core"
	transporthttp "github.com/phsolutionsllc/replit-quote/internal/http"
	"github.com/phsolutionsllc/replit-quote/internal/http/handlers"
	"github.com/phsolutionsllc/replit-quote/internal/http/health"
	"github.com/phsolutionsllc/replit-quote/internal/jobs"
	"github.com/phsolutionsllc/replit-quote/internal/middleware"
	"github.com/phsolutionsllc/replit-quote/internal/platform/config"
	"github.com/phsolutionsllc/replit-quote/internal/platform/logging"
	"github.com/phsolutionsllc/replit-quote/internal/store/dynamo"
	"github.com/phsolutionsllc/replit-quote/internal/store/filestore"
	"github.com/phsolutionsllc/replit-quote/internal/store/mongo"
	"github.com/phsolutionsllc/replit-quote/internal/store/postgres"
	"github.com/phsolutionsllc/replit-quote/internal/store/rulefile"
)

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Env)
	log.Info("starting quote API", "port", cfg.Port, "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Rule catalog. A broken rules file degrades to an empty catalog so
	// quote search still works without eligibility annotation.
	catalog := core.NewHandle(nil)
	if cat, err := rulefile.Load(cfg.RulesPath, log); err != nil {
		var loadErr *core.CatalogLoadError
		if errors.As(err, &loadErr) {
			log.Error("rule catalog unavailable, serving empty catalog", "path", cfg.RulesPath, "err", err)
		} else {
			log.Error("failed to load rule catalog", "path", cfg.RulesPath, "err", err)
			os.Exit(1)
		}
	} else {
		catalog.Swap(cat)
		log.Info("rule catalog loaded", "path", cfg.RulesPath, "conditions", cat.Len())
	}

	// Quote store (Postgres)
	pg, err := postgres.NewClient(ctx, cfg.QuotesDatabaseURL,
		time.Duration(cfg.PostgresConnectTimeoutSec)*time.Second)
	if err != nil {
		log.Error("failed to connect to quote database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()
	log.Info("connected to quote database")

	quoteRepo := postgres.NewQuoteRepo(pg.DB, time.Duration(cfg.PostgresOpTimeoutMs)*time.Millisecond)

	// Carrier preference store
	prefRepo, prefPinger, cleanup, err := buildPrefStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to set up preference store", "store", cfg.PrefsStore, "err", err)
		os.Exit(1)
	}
	defer cleanup()
	log.Info("preference store ready", "store", cfg.PrefsStore)

	// Services
	quoteSvc := core.NewQuoteService(quoteRepo, prefRepo, catalog, core.VerdictSource(cfg.VerdictSource))
	prefSvc := core.NewPreferenceService(prefRepo)

	// Catalog reload: the worker owns the reload path so the admin endpoint
	// and the background poll share one implementation.
	reloader := jobs.NewCatalogReloadWorker(cfg.RulesPath, catalog,
		time.Duration(cfg.CatalogReloadSec)*time.Second, log)
	if cfg.CatalogReloadSec > 0 {
		go reloader.Start(ctx)
	}

	// Router
	api := transporthttp.NewRouter(transporthttp.Deps{
		Mounts: []handlers.Mountable{
			handlers.NewQuoteHandler(quoteSvc, log),
			handlers.NewConditionHandler(catalog, log),
			handlers.NewCarrierHandler(catalog, log),
			handlers.NewPreferenceHandler(prefSvc, log),
			handlers.NewAdminHandler(reloader, catalog, log),
		},
	})

	rl := middleware.NewRateLimiter(cfg.RateLimitRPM, time.Minute)
	rl.StartWithContext(ctx)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(time.Duration(cfg.HTTPRequestTimeoutSec) * time.Second))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.LimitRequestBody(middleware.MaxBodySize))
	r.Use(rl.Middleware)
	r.Use(middleware.SimpleAPIKey(cfg.APIKey))

	healthz := health.New(log, time.Duration(cfg.PostgresOpTimeoutMs)*time.Millisecond, map[string]health.Pinger{
		"postgres":    pg,
		"preferences": prefPinger,
	})
	r.Handle("/health", healthz)
	r.Handle("/readyz", healthz)
	r.Mount("/", api)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTPReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTPWriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.HTTPIdleTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error("server failed", "err", err)
		os.Exit(1)
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// buildPrefStore selects the carrier preference backend from config and
// returns the repo, a readiness pinger and a close function.
func buildPrefStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (core.PreferenceRepo, health.Pinger, func(), error) {
	noop := func() {}

	switch cfg.PrefsStore {
	case "mongo":
		client, err := mongo.NewClient(cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		repo := mongo.NewPreferenceRepo(client.DB, time.Duration(cfg.MongoOpTimeoutMs)*time.Millisecond)
		cleanup := func() {
			if err := client.Close(context.Background()); err != nil {
				log.Warn("failed to close mongo client", "err", err)
			}
		}
		return repo, client, cleanup, nil

	case "dynamodb":
		client, err := dynamo.NewClient(ctx, dynamo.Config{
			Region:          cfg.AWSRegion,
			Endpoint:        cfg.DynamoDBEndpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect dynamodb: %w", err)
		}
		if err := dynamo.EnsureTables(ctx, client.DB, log); err != nil {
			return nil, nil, nil, fmt.Errorf("ensure dynamodb tables: %w", err)
		}
		return dynamo.NewPreferenceRepo(client.DB), client, noop, nil

	default: // "file"
		repo, err := filestore.NewPreferenceRepo(cfg.LocationsDir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open locations dir: %w", err)
		}
		return repo, repo, noop, nil
	}
}
