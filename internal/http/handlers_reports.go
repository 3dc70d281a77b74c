package http

import (
	"fmt"
	"net/http"
)

// handleSummary returns the routing summary for a month or a date range.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, householdID int64) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w, r)
		return
	}
	rng, err := ParseReportRange(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}
	summary, err := s.reports.PeriodSummary(r.Context(), householdID, rng)
	if err != nil {
		writeServiceError(w, r, "Summary failed", err)
		return
	}
	NewJSONResponse().JSON(newSummaryView(summary)).Write(w, r)
}

// handleMonthly returns one summary per month between from and to.
func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request, householdID int64) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w, r)
		return
	}
	query := r.URL.Query()
	from, err := ParseMonthParam(query, "from")
	if err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}
	to, err := ParseMonthParam(query, "to")
	if err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}
	if to.Before(from) {
		BadRequestError("to is before from").Write(w, r)
		return
	}
	if span := from.MonthsUntil(to); span > maxMonthlySpan {
		BadRequestError(fmt.Sprintf("range spans %d months, at most %d allowed", span, maxMonthlySpan)).Write(w, r)
		return
	}

	summaries, err := s.reports.MonthlySummaries(r.Context(), householdID, from, to)
	if err != nil {
		writeServiceError(w, r, "Monthly summaries failed", err)
		return
	}
	views := make([]summaryView, len(summaries))
	for i, summary := range summaries {
		views[i] = newSummaryView(summary)
	}
	NewJSONResponse().JSON(views).Write(w, r)
}

// handleForecast compares a month's spending with the recurring budget.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request, householdID int64) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w, r)
		return
	}
	query := r.URL.Query()
	ym, err := ParseMonthParam(query, "month")
	if err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}
	tolerance, err := ParseTolerance(query, s.tolerance)
	if err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}
	result, err := s.reports.Forecast(r.Context(), householdID, ym, tolerance)
	if err != nil {
		writeServiceError(w, r, "Forecast failed", err)
		return
	}
	NewJSONResponse().JSON(newForecastView(ym, tolerance, result)).Write(w, r)
}

// handleSBNL returns the spent-but-not-listed reconciliation for a month.
func (s *Server) handleSBNL(w http.ResponseWriter, r *http.Request, householdID int64) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w, r)
		return
	}
	ym, err := ParseMonthParam(r.URL.Query(), "month")
	if err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}
	report, err := s.reports.SpentButNotListed(r.Context(), householdID, ym)
	if err != nil {
		writeServiceError(w, r, "SBNL failed", err)
		return
	}
	NewJSONResponse().JSON(newSBNLView(report)).Write(w, r)
}

// handleUpcoming lists the next due dates of active recurring expenses.
func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request, householdID int64) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w, r)
		return
	}
	count, err := ParseCount(r.URL.Query(), defaultUpcomingCount, maxUpcomingCount)
	if err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}
	payments, err := s.reports.Upcoming(r.Context(), householdID, count)
	if err != nil {
		writeServiceError(w, r, "Upcoming payments failed", err)
		return
	}
	NewJSONResponse().JSON(newUpcomingViews(payments)).Write(w, r)
}
