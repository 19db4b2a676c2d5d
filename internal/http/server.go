package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/classify"
	"fintrack/internal/log"
	"fintrack/internal/middleware/security"
	"fintrack/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Services are the application services the API delegates to.
type Services struct {
	Ingest       *services.IngestService
	Transactions *services.TransactionService
	Goals        *services.GoalService
	Reports      *services.ReportService
	Classifier   *classify.Classifier
}

// Server wraps http.Server with the JSON API routes.
type Server struct {
	http.Server

	svc    Services
	logger *log.Logger
	now    func() time.Time

	shutdownOnce sync.Once
}

type Option func(*Server)

// WithClock overrides the time source used for default report periods.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc Services, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if svc.Classifier == nil {
		svc.Classifier = classify.Default()
	}
	s := &Server{
		svc:    svc,
		logger: logger.WithComponent(log.ComponentHTTP),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(log.Middleware(s.logger))
	r.Use(log.RequestIDMiddleware(func(r *http.Request) string {
		return middleware.GetReqID(r.Context())
	}))
	r.Use(clientIPLogger)
	r.Use(log.AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(security.Headers(security.DefaultHeadersConfig()))

	r.Get("/healthz", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/ingest", s.handleIngest)
		r.Post("/categorize", s.handleCategorize)

		r.Get("/transactions", s.handleListTransactions)
		r.Post("/transactions", s.handleCreateTransaction)

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", s.handleListGoals)
			r.Post("/", s.handleCreateGoal)
			r.Get("/{id}", s.handleGetGoal)
			r.Post("/{id}/contributions", s.handleContribute)
			r.Get("/{id}/plan", s.handleGoalPlan)
		})

		r.Get("/reports/monthly", s.handleMonthlyReport)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})
	return r
}

// clientIPLogger tags the request logger with the caller address.
func clientIPLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.FromContext(r.Context()).With(log.FieldClientIP, security.ClientIP(r))
		next.ServeHTTP(w, r.WithContext(log.WithContext(r.Context(), logger)))
	})
}

// Shutdown gracefully stops the server. Later calls are no-ops.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.logger.InfoContext(ctx, "Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
