package main

import (
	"context"
	"net/http"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"cartotaco/auth"
	"cartotaco/config"
	"cartotaco/database"
	"cartotaco/favorites"
	"cartotaco/filter"
	"cartotaco/geocoding"
	"cartotaco/handlers"
	"cartotaco/logger"
	"cartotaco/metrics"
	"cartotaco/store"
	"cartotaco/submissions"
	"cartotaco/worker"
)

// main initializes configuration, the database, the site pipeline, and the
// HTTP server.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	warnings, err := cfg.Validate()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	for _, warning := range warnings {
		log.Warn(warning)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	source := database.NewTableSource(db)
	siteStore := store.NewSiteStore(source, log)
	favStore := favorites.NewStore(db, log)
	subStore := submissions.NewStore(db)
	geocoder := geocoding.NewClient(cfg.MapboxKey)
	provider := auth.HeaderProvider{}
	engine := filter.Engine{}
	m := metrics.New()

	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	go (&worker.RefreshWorker{
		Sites:    siteStore,
		Interval: cfg.EffectiveRefreshInterval(),
		Metrics:  m,
		Log:      log,
	}).Run(refreshCtx)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/sites", handlers.SitesHandler(siteStore, favStore, provider, engine))
	mux.HandleFunc("GET /api/sites/recent", handlers.RecentSitesHandler(siteStore))
	mux.HandleFunc("GET /api/sites/{id}", handlers.SiteDetailHandler(siteStore))
	mux.HandleFunc("GET /api/summary", handlers.SummaryHandler(siteStore))

	mux.HandleFunc("GET /api/favorites", handlers.FavoritesListHandler(favStore, provider))
	mux.HandleFunc("POST /api/favorites/{id}", handlers.AddFavoriteHandler(favStore, provider))
	mux.HandleFunc("DELETE /api/favorites/{id}", handlers.RemoveFavoriteHandler(favStore, provider))
	mux.HandleFunc("POST /api/favorites/{id}/toggle", handlers.ToggleFavoriteHandler(favStore, provider))

	mux.HandleFunc("POST /api/submissions", handlers.CreateSubmissionHandler(subStore, provider))
	mux.HandleFunc("GET /api/submissions", handlers.ListSubmissionsHandler(subStore, provider))
	mux.HandleFunc("GET /api/submissions/stats", handlers.SubmissionStatsHandler(subStore, provider))
	mux.HandleFunc("GET /api/submissions/{id}", handlers.GetSubmissionHandler(subStore, provider))
	mux.HandleFunc("PATCH /api/submissions/{id}", handlers.UpdateSubmissionHandler(subStore, provider))
	mux.HandleFunc("DELETE /api/submissions/{id}", handlers.DeleteSubmissionHandler(subStore, provider))

	mux.HandleFunc("GET /api/geocode", handlers.GeocodeHandler(geocoder))
	mux.HandleFunc("GET /api/reverse-geocode", handlers.ReverseGeocodeHandler(geocoder))

	mux.Handle("GET /metrics", m.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "X-User-Id", "X-User-Email"},
		AllowCredentials: true,
	})
	handler := m.Middleware(c.Handler(mux))

	log.Info("server starting", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
