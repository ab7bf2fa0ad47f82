// Package http serves the roster over a small REST endpoint so several
// machines can share one durable slot. GET returns the full roster and PUT
// (or POST) replaces it.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/nats-io/nuid"

	"github.com/alem-hub/assessment-hub/internal/application/roster"
	"github.com/alem-hub/assessment-hub/internal/interface/http/handlers"
	"github.com/alem-hub/assessment-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	Host string
	Port int

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// MaxBodyBytes bounds a roster replacement body.
	MaxBodyBytes int64

	EnableCORS     bool
	AllowedOrigins []string

	// RateLimitPerMinute is per client IP. 0 disables the limiter.
	RateLimitPerMinute int

	// TrustedProxies are IPs or CIDR ranges whose X-Forwarded-For and
	// X-Real-IP headers are believed.
	TrustedProxies []string

	// WriteToken guards PUT and POST. Empty leaves writes open.
	WriteToken  string
	TokenHeader string

	// Version is reported by /health and in response metadata.
	Version string
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:               "0.0.0.0",
		Port:               8080,
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       15 * time.Second,
		IdleTimeout:        60 * time.Second,
		MaxHeaderBytes:     1 << 20,
		MaxBodyBytes:       1 << 20,
		EnableCORS:         true,
		AllowedOrigins:     []string{"*"},
		RateLimitPerMinute: 120,
		TokenHeader:        handlers.DefaultTokenHeader,
		Version:            "v1",
	}
}

// Address returns host:port.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Dependencies contains everything the handlers need.
type Dependencies struct {
	// Store holds the shared roster and writes through to the backend slot.
	Store *roster.Store

	Logger *logger.Logger

	// HealthChecker is optional; without it /health reports uptime only.
	HealthChecker handlers.HealthChecker
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server is the roster API.
type Server struct {
	config   Config
	deps     Dependencies
	logger   *logger.Logger
	handler  http.Handler
	limiter  *handlers.RateLimiter
	clientIP *handlers.ClientIPResolver
	http     *http.Server

	mu        sync.Mutex
	running   bool
	startedAt time.Time
}

// NewServer wires routes and middleware. Nothing listens until Start.
func NewServer(config Config, deps Dependencies) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.Default()
	}
	s := &Server{
		config:    config,
		deps:      deps,
		logger:    log.With(logger.Component("http")),
		clientIP:  handlers.NewClientIPResolver(config.TrustedProxies),
		startedAt: time.Now(),
	}

	mux := http.NewServeMux()
	s.routes(mux)
	s.handler = s.middleware(mux)

	s.http = &http.Server{
		Addr:           config.Address(),
		Handler:        s.handler,
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		IdleTimeout:    config.IdleTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
		ErrorLog:       s.logger.StdLogger(logger.LevelWarn),
	}
	return s
}

// Handler returns the fully wrapped handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(mux *http.ServeMux) {
	// ─────────────────────────────────────────────────────────────────────────
	// Probes
	// ─────────────────────────────────────────────────────────────────────────
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("GET /live", s.handleLive)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	// ─────────────────────────────────────────────────────────────────────────
	// API v1
	// ─────────────────────────────────────────────────────────────────────────
	mux.HandleFunc("GET /api/v1/roster", s.handleGetRoster)
	mux.HandleFunc("PUT /api/v1/roster", s.handleReplaceRoster)
	mux.HandleFunc("POST /api/v1/roster", s.handleReplaceRoster)
	mux.HandleFunc("GET /api/v1/roster/{id}/evaluation", s.handleGetEvaluation)
	mux.HandleFunc("GET /api/v1/catalog", s.handleGetCatalog)
}

// middleware wraps h, outermost first: rate limit, CORS, recovery, request
// id, access log, security headers, token auth, body limit.
func (s *Server) middleware(h http.Handler) http.Handler {
	var chain []handlers.MiddlewareFunc
	if s.config.RateLimitPerMinute > 0 {
		s.limiter = handlers.NewRateLimiter(s.config.RateLimitPerMinute, time.Minute).
			KeyBy(s.clientIP.ClientIP)
		chain = append(chain, s.limiter.Middleware)
	}
	if s.config.EnableCORS {
		chain = append(chain, handlers.CORS(s.config.AllowedOrigins))
	}
	chain = append(chain,
		s.recoverPanics,
		s.tagRequest,
		s.accessLog,
		handlers.SecurityHeaders,
		handlers.NewWriteTokenAuth(s.config.TokenHeader, s.config.WriteToken).Middleware,
		handlers.RequestSizeLimit(s.config.MaxBodyBytes),
	)
	return handlers.Chain(chain...)(h)
}

// tagRequest assigns a request id and a request-scoped logger.
func (s *Server) tagRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = nuid.Next()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := context.WithValue(r.Context(), ctxKeyRequestID{}, id)
		ctx = logger.WithContext(ctx, s.logger.WithRequestID(id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		logger.FromContext(r.Context()).Info("http request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", sw.status),
			logger.Latency(time.Since(start)),
			logger.String("ip", s.clientIP.ClientIP(r)),
		)
	})
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				s.logger.Error("panic recovered",
					logger.Any("panic", v),
					logger.String("stack", string(debug.Stack())),
					logger.String("path", r.URL.Path),
				)
				s.fail(w, r, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred", "")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// ══════════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start listens on the configured address and blocks until Shutdown.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", logger.String("address", s.config.Address()))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// StartAsync runs Start in a goroutine. The channel carries a listen error,
// if any, and is closed when the server stops.
func (s *Server) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.Start(); err != nil {
			errCh <- err
		}
	}()
	return errCh
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}

	s.mu.Lock()
	running := s.running
	s.running = false
	s.mu.Unlock()
	if !running {
		return nil
	}

	s.logger.Info("shutting down HTTP server")
	return s.http.Shutdown(ctx)
}

// Uptime is the time since Start, or since NewServer when not started.
func (s *Server) Uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.startedAt)
}
