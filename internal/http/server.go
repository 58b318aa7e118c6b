// Package http serves the expense page and its wasm bundle, and forwards
// the three store endpoints to the upstream store so the page stays
// same-origin.
package http

import (
	"context"
	"io/fs"
	"net/http"
	"net/url"
	"sync"
	"time"

	applog "spesechart/internal/log"
	"spesechart/internal/metrics"
	"spesechart/internal/middleware/ratelimit"
	"spesechart/internal/middleware/security"
	"spesechart/internal/middleware/trace"
	"spesechart/internal/store/httpstore"
)

const (
	staticMaxAge  = 3600
	readyzTimeout = 2 * time.Second
)

type Server struct {
	http.Server

	upstream *url.URL
	client   *http.Client
	logger   *applog.Logger
	metrics  *metrics.Metrics
	limiter  *ratelimit.Limiter
	detector *security.Detector

	shutdownOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *applog.Logger) Option {
	return func(s *Server) { s.logger = l.WithComponent(applog.ComponentHTTP) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithRateLimit bounds add and delete requests per client IP per minute.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) {
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: perMinute})
	}
}

// NewServer configures routes, returning a ready-to-run http.Server.
// static must contain index.html; main.wasm and wasm_exec.js are served
// from it when present.
func NewServer(addr string, upstream *url.URL, static fs.FS, opts ...Option) *Server {
	s := &Server{
		upstream: upstream,
		client:   &http.Client{Timeout: readyzTimeout},
		logger:   applog.Discard(),
		detector: security.NewDetector(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil {
		s.limiter = ratelimit.NewLimiter(ratelimit.DefaultConfig())
	}

	mux := http.NewServeMux()

	files := http.FileServer(http.FS(static))
	mux.Handle("GET /static/", security.StaticAssetMiddleware(staticMaxAge)(http.StripPrefix("/static/", files)))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, static, "index.html")
	})

	proxy := s.newStoreProxy()
	limit := s.limiter.Middleware(s.detector.ExtractClientIP, func(r *http.Request) {
		s.metrics.RateLimited()
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path)
	})
	mux.Handle("POST "+httpstore.AddPath, limit(proxy))
	mux.Handle("DELETE "+httpstore.DeletePath+"{id}", limit(proxy))
	mux.Handle("GET "+httpstore.ListPath, proxy)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.logger, s.metrics, s.detector.ExtractClientIP)

	s.Server = http.Server{
		Addr:           addr,
		Handler:        tracer.Middleware(headers.Middleware(s.detector.Middleware(mux))),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s
}

// Shutdown gracefully shuts down the server and the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready once the upstream store answers the list
// endpoint with a non-error status.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.upstream.JoinPath(httpstore.ListPath).String(), nil)
	if err == nil {
		var resp *http.Response
		resp, err = s.client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode < http.StatusBadRequest {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("ready"))
				return
			}
		}
	}

	applog.FromContext(r.Context()).WarnContext(r.Context(), "Upstream store not ready",
		applog.FieldUpstream, s.upstream.String(),
		applog.FieldError, errString(err))
	http.Error(w, "store unavailable", http.StatusServiceUnavailable)
}

func errString(err error) string {
	if err == nil {
		return "error status"
	}
	return err.Error()
}
