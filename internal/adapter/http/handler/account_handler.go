package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hijamarkets/backoffice/internal/adapter/http/dto"
	"github.com/hijamarkets/backoffice/internal/usecase"
)

// AccountHandler handles trading-account HTTP requests.
type AccountHandler struct {
	accountUC *usecase.AccountUseCase
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC *usecase.AccountUseCase) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Open provisions a trading account for a client.
func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	result, err := h.accountUC.OpenAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to open account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, &dto.OpenAccountResponse{
		Account:  dto.TradingAccountFromDomain(result.Account),
		Password: result.Password,
	})
}

// Summary returns the margin snapshot for an account.
func (h *AccountHandler) Summary(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")

	summary, err := h.accountUC.GetAccountSummary(r.Context(), login)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromDomain(summary))
}

// Positions returns the open positions for an account.
func (h *AccountHandler) Positions(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")

	positions, err := h.accountUC.GetPositions(r.Context(), login)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get positions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PositionsFromDomain(positions))
}

// History returns the closed deals for an account over a time range.
// Defaults to the trailing 30 days.
func (h *AccountHandler) History(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from time", err.Error())
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to time", err.Error())
			return
		}
		to = parsed
	}

	deals, err := h.accountUC.GetTradingHistory(r.Context(), login, from, to)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DealsFromDomain(deals))
}

// ChangeLeverage updates the account's leverage on the backend and mirror.
func (h *AccountHandler) ChangeLeverage(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")

	var req dto.ChangeLeverageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Leverage <= 0 {
		writeError(w, http.StatusBadRequest, "invalid leverage", "leverage must be positive")
		return
	}

	account, err := h.accountUC.ChangeLeverage(r.Context(), login, req.Leverage)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to change leverage", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TradingAccountFromDomain(account))
}

// ResetPassword issues a new trading password for the account.
func (h *AccountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")

	password, err := h.accountUC.ResetPassword(r.Context(), login)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reset password", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"password": password})
}
