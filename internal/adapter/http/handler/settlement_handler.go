package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hijamarkets/backoffice/internal/adapter/http/dto"
	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/usecase"
)

// SettlementHandler handles the admin review queue: listing pending
// requests and approving or rejecting them.
type SettlementHandler struct {
	settlementUC *usecase.SettlementUseCase
	fundingUC    *usecase.FundingUseCase
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC *usecase.SettlementUseCase, fundingUC *usecase.FundingUseCase) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC, fundingUC: fundingUC}
}

// ListDeposits lists deposit requests for the review screen.
func (h *SettlementHandler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.DirectionDeposit)
}

// ListWithdrawals lists withdrawal requests for the review screen.
func (h *SettlementHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.DirectionWithdrawal)
}

func (h *SettlementHandler) list(w http.ResponseWriter, r *http.Request, direction domain.RequestDirection) {
	requests, err := h.fundingUC.ListRequests(r.Context(), usecase.ListRequestsInput{
		Direction: direction,
		Status:    domain.RequestStatus(r.URL.Query().Get("status")),
		Limit:     parseIntQuery(r, "limit", 50),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list requests", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.FundsRequestsFromDomain(requests))
}

// Get retrieves a single funding request.
func (h *SettlementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing request ID", "")
		return
	}

	request, err := h.settlementUC.GetRequest(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get request", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.FundsRequestFromDomain(request))
}

// ApproveDeposit approves a pending deposit and credits the wallet.
func (h *SettlementHandler) ApproveDeposit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	approver, ok := approverID(w, r)
	if !ok {
		return
	}

	result, err := h.settlementUC.ApproveDeposit(r.Context(), usecase.ApproveDepositInput{
		RequestID:  id,
		ApproverID: approver,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to approve deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ApprovalFromResult(result))
}

// ApproveWithdrawal approves a pending withdrawal and debits the wallet.
func (h *SettlementHandler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	approver, ok := approverID(w, r)
	if !ok {
		return
	}

	var req dto.ApproveWithdrawalRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	result, err := h.settlementUC.ApproveWithdrawal(r.Context(), usecase.ApproveWithdrawalInput{
		RequestID:   id,
		ApproverID:  approver,
		ExternalRef: req.ExternalRef,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to approve withdrawal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ApprovalFromResult(result))
}

// RejectDeposit rejects a pending deposit.
func (h *SettlementHandler) RejectDeposit(w http.ResponseWriter, r *http.Request) {
	h.reject(w, r, domain.DirectionDeposit)
}

// RejectWithdrawal rejects a pending withdrawal.
func (h *SettlementHandler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.reject(w, r, domain.DirectionWithdrawal)
}

func (h *SettlementHandler) reject(w http.ResponseWriter, r *http.Request, direction domain.RequestDirection) {
	id := chi.URLParam(r, "id")
	approver, ok := approverID(w, r)
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

	request, err := h.settlementUC.Reject(r.Context(), usecase.RejectInput{
		RequestID:  id,
		Direction:  direction,
		ApproverID: approver,
		Reason:     req.Reason,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reject request", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.FundsRequestFromDomain(request))
}
