// Package web serves the conversion API over HTTP.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/labnorm/internal/config"
	"github.com/JonMunkholm/labnorm/internal/core"
	"github.com/JonMunkholm/labnorm/internal/metrics"
	"github.com/JonMunkholm/labnorm/internal/store"
	"github.com/JonMunkholm/labnorm/internal/web/middleware"
)

// EventStore persists converted results. *store.EventStore implements it.
type EventStore interface {
	SaveResult(ctx context.Context, res *core.Result) (int, error)
	Events(ctx context.Context, conversionID string) ([]store.StoredEvent, error)
}

// Deps are the collaborators a Server is built from. Store, Metrics and
// Gatherer are optional.
type Deps struct {
	Converter *core.Converter
	Store     EventStore
	Metrics   *metrics.ConversionMetrics
	Gatherer  prometheus.Gatherer
}

// Server is the HTTP server for the conversion API.
type Server struct {
	cfg       *config.Config
	converter *core.Converter
	store     EventStore
	metrics   *metrics.ConversionMetrics
	gatherer  prometheus.Gatherer
	results   *cache.Cache
	router    *chi.Mux
	server    *http.Server
}

// NewServer creates a Server and wires its routes.
func NewServer(cfg *config.Config, deps Deps) *Server {
	ttl := cfg.Convert.ResultTTL
	s := &Server{
		cfg:       cfg,
		converter: deps.Converter,
		store:     deps.Store,
		metrics:   deps.Metrics,
		gatherer:  deps.Gatherer,
		results:   cache.New(ttl, ttl/2+time.Minute),
		router:    chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		s.router.Use(newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute).middleware)
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(&s.cfg.Security))

		r.Get("/labs", s.handleListLabs)
		r.Post("/labs/detect", s.handleDetectLab)

		r.Group(func(r chi.Router) {
			if s.cfg.Rate.Enabled {
				r.Use(newRateLimiter(s.cfg.Rate.ConvertLimit, time.Minute).middleware)
			}
			r.Post("/convert", s.handleConvert)
		})

		r.Get("/results/{id}", s.handleGetResult)
		r.Get("/export/{id}", s.handleExport)
	})
}

// Start listens on addr until Shutdown.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight conversions.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	if l := s.converter.Limiter(); l != nil {
		return l.WaitForDrain(ctx)
	}
	return nil
}

// Router returns the chi router for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// rateLimiter allows rate requests per window per client IP. Counters live
// in a go-cache keyed by IP and expire with their window.
type rateLimiter struct {
	visitors *cache.Cache
	rate     int
	window   time.Duration
}

func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		visitors: cache.New(window, 2*window),
		rate:     rate,
		window:   window,
	}
}

// allow consumes one request for ip.
func (rl *rateLimiter) allow(ip string) bool {
	if rl.visitors.Add(ip, 1, rl.window) == nil {
		return true
	}
	n, err := rl.visitors.IncrementInt(ip, 1)
	if err != nil {
		// The window expired between Add and IncrementInt.
		rl.visitors.Set(ip, 1, rl.window)
		return true
	}
	return n <= rl.rate
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			respondError(w, r, errRateLimited, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP is RemoteAddr without its port; TrustedRealIP has already
// rewritten it for proxied requests.
func clientIP(r *http.Request) string {
	if ip := middleware.ClientIP(r); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
