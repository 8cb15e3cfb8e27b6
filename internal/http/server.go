// Package http exposes the JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/cache"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
	"fintrack/internal/sheet"
	"fintrack/internal/storage"
)

type Server struct {
	http.Server

	storage      *storage.SQLiteRepository
	transactions *services.TransactionService
	materializer *services.RecurringMaterializer
	engine       *analytics.Engine
	reports      *services.ReportService
	exporter     sheet.WorkbookExporter

	logger   *log.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	headers  *security.HeadersMiddleware
	tracer   *trace.Middleware

	// Computed reports are safe to serve slightly stale; writes
	// invalidate per user.
	reportCache  *cache.LRUCache[analytics.Report]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// Deps bundles everything the server needs.
type Deps struct {
	Storage      *storage.SQLiteRepository
	Transactions *services.TransactionService
	Materializer *services.RecurringMaterializer
	Engine       *analytics.Engine
	Reports      *services.ReportService
	Exporter     sheet.WorkbookExporter
}

// NewServer configures routes and middleware, returning a
// ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	detector := security.NewDetector()
	logger := log.New(log.Config{Handler: slog.Default().Handler()})

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		storage:      deps.Storage,
		transactions: deps.Transactions,
		materializer: deps.Materializer,
		engine:       deps.Engine,
		reports:      deps.Reports,
		exporter:     deps.Exporter,
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:     detector,
		headers:      security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		logger:       logger,
		tracer:       trace.NewMiddleware(logger, detector.ExtractClientIP),
		reportCache:  cache.NewLRUCache[analytics.Report](200, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/users", s.protect(s.handleCreateUser))
	mux.HandleFunc("GET /api/users", s.protect(s.handleListUsers))

	mux.HandleFunc("GET /api/transactions", s.protect(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.protect(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions/{id}", s.protect(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.protect(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.protect(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/budgets", s.protect(s.handleListBudgets))
	mux.HandleFunc("PUT /api/budgets", s.protect(s.handleUpsertBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.protect(s.handleDeleteBudget))
	mux.HandleFunc("GET /api/budgets/status", s.protect(s.handleBudgetStatus))

	mux.HandleFunc("GET /api/recurring", s.protect(s.handleListRecurring))
	mux.HandleFunc("POST /api/recurring", s.protect(s.handleCreateRecurring))
	mux.HandleFunc("DELETE /api/recurring/{id}", s.protect(s.handleDeleteRecurring))
	mux.HandleFunc("PATCH /api/recurring/{id}/active", s.protect(s.handleSetRecurringActive))
	mux.HandleFunc("POST /api/recurring/process", s.protect(s.handleProcessRecurring))

	mux.HandleFunc("GET /api/quick-cards", s.protect(s.handleListQuickCards))
	mux.HandleFunc("POST /api/quick-cards", s.protect(s.handleCreateQuickCard))
	mux.HandleFunc("PUT /api/quick-cards/{id}", s.protect(s.handleUpdateQuickCard))
	mux.HandleFunc("DELETE /api/quick-cards/{id}", s.protect(s.handleDeleteQuickCard))
	mux.HandleFunc("POST /api/quick-cards/{id}/log", s.protect(s.handleLogQuickCard))

	mux.HandleFunc("GET /api/analytics", s.protect(s.handleAnalytics))
	mux.HandleFunc("GET /api/spendings", s.protect(s.handleSpendings))
	mux.HandleFunc("GET /api/dashboard", s.protect(s.handleDashboard))
	mux.HandleFunc("GET /api/export", s.protect(s.handleExport))
	mux.HandleFunc("POST /api/report/email", s.protect(s.handleEmailReport))

	return s
}

// protect wraps a handler with a context logger, tracing, security
// headers, probe detection, and rate limiting on writes.
func (s *Server) protect(next http.HandlerFunc) http.HandlerFunc {
	wrapped := log.Middleware(s.logger)(s.tracer.Middleware(s.headers.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientIP := s.detector.ExtractClientIP(r)

		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(ctx, "Suspicious request blocked",
				"client_ip", clientIP,
				"path", r.URL.Path)
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}

		if r.Method != http.MethodGet && !s.limiter.Allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP,
				"method", r.Method,
				"path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		next(w, r)
	}))))
	return wrapped.ServeHTTP
}

// Shutdown stops the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.storage != nil {
		if _, err := s.storage.ListUsers(r.Context()); err != nil {
			http.Error(w, "storage not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
