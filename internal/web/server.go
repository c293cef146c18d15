// Package web provides the JSON HTTP API for the PIG manager: session
// lifecycle, workbook preview and acceptance, dataset queries, reference
// list edits, repository browsing, and publish.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pimops/pigman/internal/config"
	"github.com/pimops/pigman/internal/session"
	"github.com/pimops/pigman/internal/web/middleware"
)

// Server is the HTTP server for the PIG manager API.
type Server struct {
	cfg      *config.Config
	sessions *session.Manager
	log      *slog.Logger
	router   *chi.Mux
	server   *http.Server
}

// NewServer assembles the router with its middleware stack and routes.
func NewServer(cfg *config.Config, sessions *session.Manager, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		log:      log,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Server.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

	s.router.Use(securityHeaders(s.cfg.Security))

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes. Everything except opening a
// session requires a session token.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/session", s.handleOpenSession)

		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(s.sessions))

			r.Get("/session", s.handleSessionInfo)
			r.Delete("/session", s.handleCloseSession)

			// PIG intake
			r.Post("/pig/preview", s.handlePreviewPIG)
			r.Post("/pig/accept", s.handleAcceptPIG)

			// Dataset
			r.Post("/data/query", s.handleQueryData)
			r.Post("/data/options", s.handleFilterOptions)
			r.Get("/data/stats", s.handleStats)
			r.Get("/export/preview", s.handleExportPreview)

			// PIG repository
			r.Get("/repository", s.handleListRepository)
			r.Get("/repository/file", s.handleRepositoryFile)
			r.Post("/repository/save", s.handleSaveWorkbook)

			// Reference lists
			r.Get("/reference/categories", s.handleListCategories)
			r.Post("/reference/categories", s.handleAddCategory)
			r.Delete("/reference/categories", s.handleRemoveCategory)
			r.Get("/reference/statuses", s.handleListStatuses)
			r.Post("/reference/statuses", s.handleAddStatus)
			r.Delete("/reference/statuses", s.handleRemoveStatus)

			// Export pipeline
			r.Post("/publish", s.handlePublish)
		})
	})
}

// Start begins listening for HTTP requests and blocks until the server
// stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	s.log.Info("server listening", "addr", s.cfg.Server.Addr())
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders hardens every response. The API serves JSON only, so the
// content security policy can deny everything.
func securityHeaders(sec config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if sec.EnableCSP {
				w.Header().Set("Content-Security-Policy", "default-src 'none'")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// rateLimiter implements a simple token bucket rate limiter per IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int
	window   time.Duration
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
	}
	go rl.cleanup()
	return rl
}

// cleanup removes stale visitor entries every minute.
func (rl *rateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// allow checks if the request should be allowed and consumes a token if so.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		rl.visitors[ip] = &visitor{tokens: rl.rate - 1, lastReset: time.Now()}
		return true
	}

	if time.Since(v.lastReset) > rl.window {
		v.tokens = rl.rate - 1
		v.lastReset = time.Now()
		return true
	}

	if v.tokens <= 0 {
		return false
	}
	v.tokens--
	return true
}

// middleware rate limits by client IP. RemoteAddr is already resolved by
// the real-IP middleware, which runs earlier in the stack.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r.RemoteAddr) {
			w.Header().Set("Retry-After", "60")
			respondJSON(w, http.StatusTooManyRequests, ErrorResponse{
				Error:   "rate limit exceeded",
				Message: "Too many requests",
				Action:  "Wait a moment before trying again",
				Code:    "RATE001",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
