package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/hijamarkets/backoffice/internal/adapter/http/dto"
	"github.com/hijamarkets/backoffice/internal/domain"
)

// ApproverHeader carries the identity of the back-office operator on
// review actions. Populated by the admin gateway after authentication.
const ApproverHeader = "X-Approver-ID"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, domain.ErrTradingAccountNotFound),
		errors.Is(err, domain.ErrKYCNotFound),
		errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRequestAlreadyProcessed),
		errors.Is(err, domain.ErrKYCAlreadyReviewed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientMargin):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooSmall),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrUnsupportedMethod):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// approverID extracts the operator identity from the request. Review
// actions without it are rejected before reaching the use case.
func approverID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(ApproverHeader)
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing approver", ApproverHeader+" header is required")
		return "", false
	}
	return id, true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
