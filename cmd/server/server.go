package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/camka14/mvp-site/internal/api"
	"github.com/camka14/mvp-site/internal/api/apiutil"
	eventsapi "github.com/camka14/mvp-site/internal/api/events"
	leaguesapi "github.com/camka14/mvp-site/internal/api/leagues"
	"github.com/camka14/mvp-site/internal/config"
	"github.com/camka14/mvp-site/internal/conflicts"
	"github.com/camka14/mvp-site/internal/db"
	"github.com/camka14/mvp-site/internal/events"
	"github.com/camka14/mvp-site/internal/leagues"
	"github.com/camka14/mvp-site/internal/metrics"
	"github.com/camka14/mvp-site/internal/ratelimit"
	"github.com/camka14/mvp-site/internal/scheduler"
)

// app holds the long-lived dependencies shared by the HTTP handlers and the
// background scheduler.
type app struct {
	cfg       *config.Config
	db        *db.DB
	metrics   metrics.Metrics
	scheduler *scheduler.Service
	limiter   *ratelimit.Limiter
	gatherer  prometheus.Gatherer
}

func newApp(cfg *config.Config) (*app, error) {
	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	a := &app{cfg: cfg, db: database, metrics: metrics.Nop{}, limiter: ratelimit.New(nil)}
	if cfg.Features.EnableMetrics {
		registry := prometheus.NewRegistry()
		a.metrics = metrics.NewService(registry)
		a.gatherer = registry
	}

	loc := cfg.Scheduling.Location()
	generator := leagues.NewGenerator(database.Queries, leagues.Options{
		MatchDuration:   cfg.Scheduling.MatchDuration(),
		HorizonWeeks:    cfg.Scheduling.GenerationHorizonWeeks,
		DefaultLocation: loc,
	})
	reconciler := events.NewReconciler(database, generator, a.metrics, events.Options{
		DefaultTimezone:           cfg.Scheduling.DefaultTimezone,
		RejectCrossEventConflicts: cfg.Scheduling.RejectCrossEventConflicts,
	})
	conflictService := conflicts.NewService(database.Queries,
		conflicts.WithMetrics(a.metrics),
		conflicts.WithDefaultLocation(loc),
	)

	eventsapi.InitHandlers(reconciler, conflictService)
	leaguesapi.InitHandlers(reconciler, database.Queries, a.limiter)

	if cfg.Features.EnableConflictSweep {
		sched, err := scheduler.New(loc)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init scheduler: %w", err)
		}
		a.scheduler = sched
		if err := scheduler.RegisterConflictSweep(sched, conflictService, cfg.Scheduling.ConflictSweepCron); err != nil {
			a.Close()
			return nil, fmt.Errorf("register conflict sweep: %w", err)
		}
	}

	return a, nil
}

func (a *app) Close() {
	a.limiter.Close()
	if a.scheduler != nil {
		if err := a.scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
	}
	if err := a.db.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database")
	}
}

func newServer(config *Config, a *app) *http.Server {
	router := http.NewServeMux()

	handler := api.ChainMiddleware(
		router,
		api.WithAuth,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	registerRoutes(router, a)

	return &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux, a *app) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := a.db.PingContext(r.Context()); err != nil {
			apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusServiceUnavailable, Message: "Database unavailable", Err: err})
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if a.gatherer != nil {
		mux.Handle("GET /metrics", metrics.NewMetricsHandler(a.gatherer))
	}

	// Event scheduling routes
	mux.HandleFunc("PATCH /api/v1/events/{id}", eventsapi.HandleEventUpdate)
	mux.HandleFunc("GET /api/v1/fields/{id}/conflicts", eventsapi.HandleFieldConflicts)

	// Schedule routes
	mux.HandleFunc("POST /api/v1/events/{id}/schedule", leaguesapi.HandleGenerateSchedule)
	mux.HandleFunc("GET /api/v1/events/{id}/schedule", leaguesapi.HandleGetSchedule)
}
