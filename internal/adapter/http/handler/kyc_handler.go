package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hijamarkets/backoffice/internal/adapter/http/dto"
	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/usecase"
)

// KYCHandler handles KYC review HTTP requests.
type KYCHandler struct {
	kycUC *usecase.KYCUseCase
}

// NewKYCHandler creates a new KYCHandler.
func NewKYCHandler(kycUC *usecase.KYCUseCase) *KYCHandler {
	return &KYCHandler{kycUC: kycUC}
}

// List lists KYC profiles, optionally filtered by status.
func (h *KYCHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.KYCStatus(r.URL.Query().Get("status"))
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	profiles, err := h.kycUC.ListKYC(r.Context(), status, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list kyc profiles", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.KYCsFromDomain(profiles))
}

// Get retrieves a KYC profile.
func (h *KYCHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	profile, err := h.kycUC.GetKYC(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get kyc profile", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.KYCFromDomain(profile))
}

// Approve marks a pending profile as verified.
func (h *KYCHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	reviewer, ok := approverID(w, r)
	if !ok {
		return
	}

	profile, err := h.kycUC.ApproveKYC(r.Context(), id, reviewer)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to approve kyc", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.KYCFromDomain(profile))
}

// Reject marks a pending profile as rejected with a reason.
func (h *KYCHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	reviewer, ok := approverID(w, r)
	if !ok {
		return
	}

	var req dto.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "missing reason", "a rejection reason is required")
		return
	}

	profile, err := h.kycUC.RejectKYC(r.Context(), id, reviewer, req.Reason)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reject kyc", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.KYCFromDomain(profile))
}
