package usecase

import (
	"context"

	"github.com/hijamarkets/backoffice/internal/domain"
)

// WalletUseCase exposes read access to wallets and their ledgers.
type WalletUseCase struct {
	walletRepo WalletRepository
	ledgerRepo LedgerRepository
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(walletRepo WalletRepository, ledgerRepo LedgerRepository) *WalletUseCase {
	return &WalletUseCase{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
	}
}

// GetWallet returns a client's wallet in the given currency.
func (uc *WalletUseCase) GetWallet(ctx context.Context, userID, currency string) (*domain.Wallet, error) {
	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	return uc.walletRepo.GetByUser(ctx, userID, currency)
}

// ListWallets lists wallets for the back-office overview.
func (uc *WalletUseCase) ListWallets(ctx context.Context, limit, offset int) ([]*domain.Wallet, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.walletRepo.List(ctx, limit, offset)
}

// ListLedger returns a wallet's ledger entries, newest first.
func (uc *WalletUseCase) ListLedger(ctx context.Context, walletID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.ledgerRepo.ListByWallet(ctx, walletID, limit, offset)
}
