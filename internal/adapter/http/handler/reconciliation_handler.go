package handler

import (
	"net/http"
	"time"

	"github.com/hijamarkets/backoffice/internal/adapter/http/dto"
	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/usecase"
)

// ReconciliationHandler triggers reconciliation runs and exposes the
// audit trail.
type ReconciliationHandler struct {
	reconUC   *usecase.ReconciliationUseCase
	auditRepo usecase.AuditRepository
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconUC *usecase.ReconciliationUseCase, auditRepo usecase.AuditRepository) *ReconciliationHandler {
	return &ReconciliationHandler{reconUC: reconUC, auditRepo: auditRepo}
}

// Run executes a reconciliation pass and returns the report. Runs are
// synchronous; the caller is an operator or a cron job, not a client.
func (h *ReconciliationHandler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconUC.Run(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "reconciliation failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// AuditLogs lists audit logs with optional filters.
func (h *ReconciliationHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	filter := domain.AuditFilter{
		UserID:       r.URL.Query().Get("user_id"),
		Action:       r.URL.Query().Get("action"),
		ResourceType: r.URL.Query().Get("resource_type"),
		ResourceID:   r.URL.Query().Get("resource_id"),
		Limit:        parseIntQuery(r, "limit", 50),
		Offset:       parseIntQuery(r, "offset", 0),
	}

	if v := r.URL.Query().Get("start_date"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_date", err.Error())
			return
		}
		filter.StartDate = &parsed
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end_date", err.Error())
			return
		}
		filter.EndDate = &parsed
	}

	logs, err := h.auditRepo.List(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list audit logs", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}
