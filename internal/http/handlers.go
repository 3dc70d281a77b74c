package http

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"budgetflow/internal/log"
	"budgetflow/internal/services"
)

type healthView struct {
	Status             string `json:"status"`
	Timestamp          string `json:"timestamp"`
	Uptime             string `json:"uptime"`
	RateLimitHits      int64  `json:"rate_limit_hits"`
	SuspiciousRequests int64  `json:"suspicious_requests"`
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w, r)
		return
	}
	now := s.now()
	NewJSONResponse().JSON(healthView{
		Status:             "ok",
		Timestamp:          now.Format(time.RFC3339),
		Uptime:             now.Sub(s.started).Round(time.Second).String(),
		RateLimitHits:      atomic.LoadInt64(&s.metrics.rateLimitHits),
		SuspiciousRequests: atomic.LoadInt64(&s.metrics.suspiciousRequests),
	}).Write(w, r)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w, r)
		return
	}
	checks := map[string]string{"storage": "ok"}
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.ready.Ping(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			checks["storage"] = "failed: " + err.Error()
			NewJSONResponse().
				Status(http.StatusServiceUnavailable).
				JSON(map[string]any{"status": "not_ready", "checks": checks}).
				Write(w, r)
			return
		}
	}
	NewJSONResponse().JSON(map[string]any{"status": "ready", "checks": checks}).Write(w, r)
}

// writeServiceError maps a service failure to a response. Internal details
// are logged, not returned.
func writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	if errors.Is(err, services.ErrExportsUnavailable) {
		ServiceUnavailableError(err.Error()).Write(w, r)
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		log.FromContext(ctx).WarnContext(ctx, msg, log.FieldError, err)
		ServiceUnavailableError("request cancelled").Write(w, r)
		return
	}
	log.FromContext(ctx).ErrorContext(ctx, msg, log.FieldError, err)
	InternalServerError("internal error").Write(w, r)
}
