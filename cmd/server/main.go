package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Simplici0/docquote/internal/config"
	"github.com/Simplici0/docquote/internal/db"
	"github.com/Simplici0/docquote/internal/logger"
	"github.com/Simplici0/docquote/internal/migrations"
	"github.com/Simplici0/docquote/internal/scenario"
	"github.com/Simplici0/docquote/internal/seed"
	"github.com/Simplici0/docquote/internal/store"
)

type server struct {
	catalog     *scenario.Catalog
	store       *store.Store
	log         *logger.Logger
	corsOrigins []string
}

func main() {
	cfg := config.Load()
	logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "docquote"})
	log := logger.Get()
	for _, w := range cfg.Warnings() {
		log.Warn().Msg(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog := scenario.Default()
	if cfg.ScenariosPath != "" {
		var err error
		catalog, err = scenario.Load(cfg.ScenariosPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.ScenariosPath).Msg("failed to load scenario catalog")
		}
	}
	log.Info().Strs("scenarios", catalog.Keys()).Msg("scenario catalog loaded")

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		log.Fatal().Err(err).Msg("failed to run database migrations")
	}

	stats, err := seed.Run(ctx, database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed presets")
	}
	log.Info().Int("inserts", stats.Inserts).Msg("seed complete")

	srv := &server{
		catalog:     catalog,
		store:       store.New(database),
		log:         logger.Named("http"),
		corsOrigins: cfg.CORSOrigins,
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	log.Info().Str("addr", httpServer.Addr).Str("env", cfg.Env).Msg("listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	if len(s.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/scenarios", s.handleScenarios)
	r.Post("/estimate", s.handleEstimate)
	r.Post("/compare", s.handleCompare)
	r.Post("/validate", s.handleValidate)

	r.Get("/presets", s.handlePresetsList)
	r.Get("/presets/{name}", s.handlePresetGet)
	r.Put("/presets/{name}", s.handlePresetPut)

	r.Get("/quotes", s.handleQuotesList)
	r.Post("/quotes", s.handleQuoteCreate)
	r.Get("/quotes/{id}", s.handleQuoteGet)

	return r
}

func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
