package http

import (
	"net/http"
	"strings"

	"budgetflow/internal/core"
	"budgetflow/internal/log"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, householdID int64) {
	if resp := RequireMethod(r, http.MethodPost); resp != nil {
		resp.Write(w, r)
		return
	}
	var req transactionRequest
	if err := DecodeJSON(r, &req); err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}
	t, err := req.toTransaction(householdID)
	if err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}
	id, err := s.ledger.RecordTransaction(r.Context(), t)
	if err != nil {
		writeServiceError(w, r, "Record transaction failed", err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).JSON(createdView{ID: id}).Write(w, r)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request, householdID int64) {
	if resp := RequireMethod(r, http.MethodPost); resp != nil {
		resp.Write(w, r)
		return
	}
	var req incomeRequest
	if err := DecodeJSON(r, &req); err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}
	inc, err := req.toIncome(householdID)
	if err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}
	id, err := s.ledger.RecordIncome(r.Context(), inc)
	if err != nil {
		writeServiceError(w, r, "Record income failed", err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).JSON(createdView{ID: id}).Write(w, r)
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request, householdID int64) {
	if resp := RequireMethod(r, http.MethodPost); resp != nil {
		resp.Write(w, r)
		return
	}
	var req recurringRequest
	if err := DecodeJSON(r, &req); err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}
	today := core.DateOf(s.now())
	re, err := req.toRecurringExpense(householdID, today)
	if err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}
	id, err := s.ledger.AddRecurringExpense(r.Context(), re, today)
	if err != nil {
		writeServiceError(w, r, "Add recurring expense failed", err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).JSON(createdView{ID: id}).Write(w, r)
}

// handleRequestExport queues a monthly report export and answers 202.
func (s *Server) handleRequestExport(w http.ResponseWriter, r *http.Request, householdID int64) {
	if resp := RequireMethod(r, http.MethodPost); resp != nil {
		resp.Write(w, r)
		return
	}
	var req exportRequest
	if err := DecodeJSON(r, &req); err != nil {
		BadRequestError(err.Error()).Write(w, r)
		return
	}
	ym, ok := core.ParseMonthYearKey(strings.TrimSpace(req.Month))
	if !ok {
		BadRequestError("invalid month: want YYYY-MM").Write(w, r)
		return
	}
	if err := s.ledger.RequestExport(r.Context(), householdID, ym); err != nil {
		writeServiceError(w, r, "Export request failed", err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Export queued", log.FieldPeriod, ym.String())
	NewJSONResponse().
		Status(http.StatusAccepted).
		JSON(map[string]string{"status": "queued", "month": ym.String()}).
		Write(w, r)
}
