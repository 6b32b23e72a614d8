// Package http serves the web form interface: pages, form posts, CSV
// upload/download, and the small JSON endpoints behind the charts.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"tally/internal/services"
	"tally/internal/storage"
	"tally/web"
)

type Server struct {
	http.Server
	templates *template.Template
	store     *storage.Repository
	reports   *services.Reports

	rateLimiter *rateLimiter

	defaultCurrency string
	maxUploadBytes  int64

	shutdownOnce sync.Once
}

// Options carries the handler-relevant configuration.
type Options struct {
	DefaultCurrency string
	MaxUploadBytes  int64
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server.
func NewServer(addr string, store *storage.Repository, reports *services.Reports, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:           store,
		reports:         reports,
		rateLimiter:     newRateLimiter(),
		defaultCurrency: opts.DefaultCurrency,
		maxUploadBytes:  opts.MaxUploadBytes,
	}

	t, err := template.ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	staticRoot, _ := fs.Sub(web.StaticFS, "static")
	static := http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot)))
	mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		static.ServeHTTP(w, r)
	}))

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/", s.withMiddleware(s.handleDashboard))
	mux.HandleFunc("/expenses", s.withMiddleware(s.handleExpenses))
	mux.HandleFunc("/expenses/update", s.withMiddleware(s.handleUpdateExpense))
	mux.HandleFunc("/expenses/delete", s.withMiddleware(s.handleDeleteExpense))
	mux.HandleFunc("/expenses/clear", s.withMiddleware(s.handleClearExpenses))
	mux.HandleFunc("/income", s.withMiddleware(s.handleIncome))
	mux.HandleFunc("/income/update", s.withMiddleware(s.handleUpdateIncome))
	mux.HandleFunc("/income/delete", s.withMiddleware(s.handleDeleteIncome))
	mux.HandleFunc("/budgets", s.withMiddleware(s.handleBudgets))
	mux.HandleFunc("/budgets/delete", s.withMiddleware(s.handleDeleteBudget))
	mux.HandleFunc("/savings", s.withMiddleware(s.handleSavings))
	mux.HandleFunc("/savings/update", s.withMiddleware(s.handleUpdateSavingsGoal))
	mux.HandleFunc("/savings/add", s.withMiddleware(s.handleAddToSavingsGoal))
	mux.HandleFunc("/savings/delete", s.withMiddleware(s.handleDeleteSavingsGoal))
	mux.HandleFunc("/recurring", s.withMiddleware(s.handleRecurring))
	mux.HandleFunc("/recurring/toggle", s.withMiddleware(s.handleToggleRecurring))
	mux.HandleFunc("/recurring/delete", s.withMiddleware(s.handleDeleteRecurring))
	mux.HandleFunc("/analytics", s.withMiddleware(s.handleAnalytics))
	mux.HandleFunc("/import", s.withMiddleware(s.handleImportCSV))
	mux.HandleFunc("/export", s.withMiddleware(s.handleExportCSV))
	mux.HandleFunc("/currency", s.withMiddleware(s.handleSetCurrency))
	mux.HandleFunc("/api/trend", s.withMiddleware(s.handleTrendJSON))
	mux.HandleFunc("/api/stats/categories", s.withMiddleware(s.handleCategoryStatsJSON))
	mux.HandleFunc("/api/stats/counts", s.withMiddleware(s.handleCountStatsJSON))

	return s
}

// Shutdown stops the rate limiter cleanup and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds security headers, rate limiting on writes, and
// request logging with a per-request ID.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; script-src 'self' https://cdn.jsdelivr.net; style-src 'self' 'unsafe-inline'; img-src 'self' data:")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// rateLimiter is a simple in-memory per-IP limiter for write requests.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
