package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"budgetflow/internal/core"
	"budgetflow/internal/log"
	"budgetflow/internal/services"
)

// ReportAPI serves the read-only report endpoints.
type ReportAPI interface {
	PeriodSummary(ctx context.Context, householdID int64, rng core.DateRange) (core.PeriodSummary, error)
	MonthlySummaries(ctx context.Context, householdID int64, from, to core.YearMonth) ([]core.PeriodSummary, error)
	Forecast(ctx context.Context, householdID int64, ym core.YearMonth, tolerance float64) (core.ForecastResult, error)
	SpentButNotListed(ctx context.Context, householdID int64, ym core.YearMonth) (core.SBNLReport, error)
	Upcoming(ctx context.Context, householdID int64, count int) ([]services.UpcomingPayment, error)
}

// LedgerAPI serves the ingestion and export endpoints.
type LedgerAPI interface {
	RecordTransaction(ctx context.Context, t core.Transaction) (int64, error)
	RecordIncome(ctx context.Context, inc core.Income) (int64, error)
	AddRecurringExpense(ctx context.Context, re core.RecurringExpense, today core.Date) (int64, error)
	RequestExport(ctx context.Context, householdID int64, ym core.YearMonth) error
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tune a Server. Zero values pick defaults.
type Options struct {
	ForecastTolerance float64
	// WritesPerMinute caps ledger writes per client IP.
	WritesPerMinute int
	// ExportsPerHour caps export requests per client IP.
	ExportsPerHour int
	Logger         *log.Logger
	// Ready is checked by /readyz. Nil means always ready.
	Ready Pinger
	// Now returns the current time; tests override it.
	Now func() time.Time
}

// Server exposes the household reports and ledger ingestion as a JSON API.
type Server struct {
	http.Server
	reports   ReportAPI
	ledger    LedgerAPI
	ready     Pinger
	logger    *log.Logger
	tolerance float64
	now       func() time.Time
	started   time.Time
	limiter   *writeLimiter
	metrics   *securityMetrics

	shutdownOnce sync.Once
}

const (
	defaultUpcomingCount = 3
	maxUpcomingCount     = 24
	maxMonthlySpan       = 36
)

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, reports ReportAPI, ledger LedgerAPI, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		reports:   reports,
		ledger:    ledger,
		ready:     opts.Ready,
		logger:    logger,
		tolerance: opts.ForecastTolerance,
		now:       now,
		started:   now(),
		limiter:   newWriteLimiter(opts.WritesPerMinute, opts.ExportsPerHour),
		metrics:   &securityMetrics{},
	}
	s.limiter.now = now

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/api/reports/summary", s.withHousehold(s.handleSummary))
	mux.HandleFunc("/api/reports/monthly", s.withHousehold(s.handleMonthly))
	mux.HandleFunc("/api/reports/forecast", s.withHousehold(s.handleForecast))
	mux.HandleFunc("/api/reports/sbnl", s.withHousehold(s.handleSBNL))
	mux.HandleFunc("/api/recurring/upcoming", s.withHousehold(s.handleUpcoming))

	mux.HandleFunc("/api/transactions", s.withHousehold(s.handleCreateTransaction))
	mux.HandleFunc("/api/income", s.withHousehold(s.handleCreateIncome))
	mux.HandleFunc("/api/recurring", s.withHousehold(s.handleCreateRecurring))
	mux.HandleFunc("/api/exports", s.withHousehold(s.handleRequestExport))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           log.Middleware(logger)(s.withSecurity(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// withSecurity adds security headers, flags suspicious requests and spends
// write quota per client IP.
func (s *Server) withSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientIP := extractClientIP(r)
		setSecurityHeaders(w.Header())

		if detectSuspiciousRequest(r, s.metrics) {
			log.FromContext(ctx).WarnContext(ctx, "Suspicious request",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				"user_agent", r.Header.Get("User-Agent"))
		}

		if class, limited := classifyWrite(r); limited {
			if retryAfter, ok := s.limiter.allow(clientIP, class, s.metrics); !ok {
				log.FromContext(ctx).WarnContext(ctx, "Write quota exceeded",
					log.FieldClientIP, clientIP,
					log.FieldPath, r.URL.Path,
					"write_class", class.String(),
					"retry_after", retryAfter)
				TooManyRequestsError(retryAfter).Write(w, r)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// householdHandler is an API handler scoped to one household.
type householdHandler func(w http.ResponseWriter, r *http.Request, householdID int64)

// withHousehold resolves the household header and rejects requests without
// a valid one.
func (s *Server) withHousehold(next householdHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID, err := ParseHouseholdID(r)
		if err != nil {
			BadRequestError(err.Error()).Write(w, r)
			return
		}
		logger := log.FromContext(r.Context()).With(log.FieldHouseholdID, householdID)
		next(w, r.WithContext(log.WithLogger(r.Context(), logger)), householdID)
	}
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
