// Package http exposes the ledger as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"budget/internal/chart"
	"budget/internal/core"
	"budget/internal/ledger"
	"budget/internal/log"
	"budget/internal/middleware/ratelimit"
	"budget/internal/middleware/security"
	"budget/internal/middleware/trace"
)

// LedgerService is the part of *ledger.Store the API drives.
type LedgerService interface {
	AddIncome(ctx context.Context, amount, category string) (ledger.Result, error)
	AddExpense(ctx context.Context, amount, category string) (ledger.Result, error)
	SetBudgetGoal(ctx context.Context, raw string) (ledger.Result, error)
	DeleteEntry(ctx context.Context, kind core.Kind, id int64) (ledger.Result, error)
	Snapshot() core.Ledger
	Summary() core.Summary
	Chart() chart.Series
}

// Options tune the server; the zero value is usable.
type Options struct {
	Currency string
	Palette  []string
	// RateLimitPerMinute caps mutating requests per client; 0 disables it.
	RateLimitPerMinute int
	Logger             *log.Logger
}

type Server struct {
	http.Server
	ledger   LedgerService
	palette  []string
	respond  responseBuilder
	limiter  *ratelimit.Limiter
	tracer   *trace.Middleware
	logger   *log.Logger
	shutdown sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc LedgerService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	currency := opts.Currency
	if currency == "" {
		currency = core.DefaultCurrency
	}

	s := &Server{
		ledger:  svc,
		palette: opts.Palette,
		respond: responseBuilder{currency: currency},
		logger:  logger.WithComponent(log.ComponentHTTP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/ledger", s.handleLedger)
	mux.HandleFunc("GET /api/chart", s.handleChart)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("POST /api/income", s.handleAddEntry(core.Income))
	mux.HandleFunc("POST /api/expenses", s.handleAddEntry(core.Expense))
	mux.HandleFunc("PUT /api/budget-goal", s.handleSetBudgetGoal)
	mux.HandleFunc("DELETE /api/entries/{kind}/{id}", s.handleDeleteEntry)

	clientIP := security.NewClientIPExtractor()
	s.tracer = trace.NewMiddleware(logger, clientIP.ClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	var handler http.Handler = mux
	if opts.RateLimitPerMinute > 0 {
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute})
		handler = s.limiter.Middleware(clientIP.ClientIP, func(w http.ResponseWriter, r *http.Request) {
			s.logger.WarnContext(r.Context(), "Rate limit exceeded",
				log.FieldClientIP, clientIP.ClientIP(r), log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
			writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded, try again later")
		})(handler)
	}
	handler = headers.Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and its background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdown.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// Metrics returns request counters collected by the tracing middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
