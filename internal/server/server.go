// Package server exposes the advisor over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"CryptoAdvisor/internal/metrics"
	"CryptoAdvisor/internal/model"
	"CryptoAdvisor/internal/narrative"
	"CryptoAdvisor/internal/portfolio"
	"CryptoAdvisor/internal/recorder"
	"CryptoAdvisor/internal/strategy"
)

// MarketSource supplies the current snapshot batch.
type MarketSource interface {
	Collect(ctx context.Context) model.MarketBatch
}

// Config holds server configuration
type Config struct {
	Addr           string
	Log            zerolog.Logger
	Metrics        *metrics.Registry
	Markets        MarketSource
	Engine         *strategy.Engine
	Narrator       narrative.Generator
	Recorder       recorder.Recorder
	Portfolios     portfolio.Store
	DemoUserID     string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	server     *http.Server
	log        zerolog.Logger
	metrics    *metrics.Registry
	markets    MarketSource
	engine     *strategy.Engine
	narrator   narrative.Generator
	recorder   recorder.Recorder
	portfolios portfolio.Store
	demoUser   string
	now        func() time.Time
}

// New creates a new HTTP server. Missing optional dependencies fall back to
// the built-in catalog, rule narratives, no history and the demo portfolio.
func New(cfg Config) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		log:        cfg.Log.With().Str("component", "server").Logger(),
		metrics:    cfg.Metrics,
		markets:    cfg.Markets,
		engine:     cfg.Engine,
		narrator:   cfg.Narrator,
		recorder:   cfg.Recorder,
		portfolios: cfg.Portfolios,
		demoUser:   cfg.DemoUserID,
		now:        time.Now,
	}
	if s.engine == nil {
		s.engine = strategy.NewEngine(nil)
	}
	if s.narrator == nil {
		s.narrator = narrative.RuleGenerator{}
	}
	if s.recorder == nil {
		s.recorder = recorder.NewNoopRecorder()
	}
	if s.demoUser == "" {
		s.demoUser = "mock-user-1"
	}
	if s.portfolios == nil {
		s.portfolios = portfolio.NewDemoStore(s.demoUser)
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 45 * time.Second
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	s.setupMiddleware(cfg)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware(cfg Config) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(cfg.RequestTimeout))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", s.metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/strategies", func(r chi.Router) {
			r.Get("/", s.handleListStrategies)
			r.Get("/{id}", s.handleGetStrategy)
		})
		r.Get("/markets", s.handleMarkets)
		r.Get("/recommendations", s.handleRecommendations)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/history", s.handleHistory)

		r.Route("/portfolios", func(r chi.Router) {
			r.Get("/", s.handleListPortfolios)
			r.Post("/", s.handleCreatePortfolio)
			r.Get("/{id}/investments", s.handleListInvestments)
			r.Post("/{id}/investments", s.handleAddInvestment)
		})
		r.Delete("/investments/{id}", s.handleDeleteInvestment)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs each request and records it in the metrics registry
// under its route pattern.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.ObserveHTTP(route, status, time.Since(start))

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
