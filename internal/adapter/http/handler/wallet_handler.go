package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hijamarkets/backoffice/internal/adapter/http/dto"
	"github.com/hijamarkets/backoffice/internal/usecase"
)

// WalletHandler handles wallet and ledger HTTP requests.
type WalletHandler struct {
	walletUC *usecase.WalletUseCase
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletUC *usecase.WalletUseCase) *WalletHandler {
	return &WalletHandler{walletUC: walletUC}
}

// Get retrieves a client's wallet for a currency.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	currency := chi.URLParam(r, "currency")

	wallet, err := h.walletUC.GetWallet(r.Context(), userID, currency)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// List lists wallets for back-office review.
func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	wallets, err := h.walletUC.ListWallets(r.Context(), limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list wallets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletsFromDomain(wallets))
}

// Ledger lists the ledger entries for a wallet, newest first.
func (h *WalletHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.walletUC.ListLedger(r.Context(), walletID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list ledger", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerEntriesFromDomain(entries))
}
