package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hijamarkets/backoffice/internal/adapter/http/dto"
	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/usecase"
)

// FundingHandler handles client-side funding submissions.
type FundingHandler struct {
	fundingUC *usecase.FundingUseCase
}

// NewFundingHandler creates a new FundingHandler.
func NewFundingHandler(fundingUC *usecase.FundingUseCase) *FundingHandler {
	return &FundingHandler{fundingUC: fundingUC}
}

// SubmitDeposit accepts a deposit claim for broker review.
func (h *FundingHandler) SubmitDeposit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	request, err := h.fundingUC.SubmitDeposit(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to submit deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.FundsRequestFromDomain(request))
}

// SubmitWithdrawal accepts a withdrawal request for broker review.
func (h *FundingHandler) SubmitWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	request, err := h.fundingUC.SubmitWithdrawal(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to submit withdrawal", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.FundsRequestFromDomain(request))
}

// ListUserRequests lists a client's own funding history.
func (h *FundingHandler) ListUserRequests(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	direction := domain.RequestDirection(r.URL.Query().Get("direction"))
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	requests, err := h.fundingUC.ListUserRequests(r.Context(), userID, direction, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list requests", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.FundsRequestsFromDomain(requests))
}
