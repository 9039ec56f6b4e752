package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/hijamarkets/backoffice/internal/domain"
)

// ReconciliationUseCase cross-checks the three books the service keeps:
// the wallet balances, the append-only ledger, and the trading-backend
// mirror. It reports drift; it never mutates.
type ReconciliationUseCase struct {
	walletRepo  WalletRepository
	ledgerRepo  LedgerRepository
	tradingRepo TradingAccountRepository
	backend     TradingBackend
	logger      zerolog.Logger
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(
	walletRepo WalletRepository,
	ledgerRepo LedgerRepository,
	tradingRepo TradingAccountRepository,
	backend TradingBackend,
	logger zerolog.Logger,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		walletRepo:  walletRepo,
		ledgerRepo:  ledgerRepo,
		tradingRepo: tradingRepo,
		backend:     backend,
		logger:      logger,
	}
}

// WalletDiscrepancy is a wallet whose balance disagrees with the net of its
// ledger entries.
type WalletDiscrepancy struct {
	WalletID      string          `json:"wallet_id"`
	UserID        string          `json:"user_id"`
	Currency      string          `json:"currency"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	LedgerNet     decimal.Decimal `json:"ledger_net"`
	Difference    decimal.Decimal `json:"difference"`
}

// MirrorDrift is a trading account whose cached balance disagrees with the
// backend's view.
type MirrorDrift struct {
	Login          string          `json:"login"`
	UserID         string          `json:"user_id"`
	LocalBalance   decimal.Decimal `json:"local_balance"`
	BackendBalance decimal.Decimal `json:"backend_balance"`
	Difference     decimal.Decimal `json:"difference"`
}

// ReconciliationReport is the output of a reconciliation run.
type ReconciliationReport struct {
	GeneratedAt     time.Time           `json:"generated_at"`
	WalletsChecked  int                 `json:"wallets_checked"`
	Discrepancies   []WalletDiscrepancy `json:"discrepancies"`
	MirrorsChecked  int                 `json:"mirrors_checked"`
	MirrorDrift     []MirrorDrift       `json:"mirror_drift"`
	MirrorsSkipped  int                 `json:"mirrors_skipped"`
	BackendDegraded bool                `json:"backend_degraded"`
}

const reconcileBatchSize = 500

// Run walks every wallet, recomputes its balance from the ledger, and
// compares each active trading-account mirror against the backend. A
// backend outage degrades the mirror half of the report rather than
// failing the run.
func (uc *ReconciliationUseCase) Run(ctx context.Context) (*ReconciliationReport, error) {
	report := &ReconciliationReport{
		GeneratedAt:   time.Now().UTC(),
		Discrepancies: []WalletDiscrepancy{},
		MirrorDrift:   []MirrorDrift{},
	}

	for offset := 0; ; offset += reconcileBatchSize {
		wallets, err := uc.walletRepo.List(ctx, reconcileBatchSize, offset)
		if err != nil {
			return nil, err
		}
		if len(wallets) == 0 {
			break
		}

		for _, wallet := range wallets {
			if err := uc.checkWallet(ctx, wallet, report); err != nil {
				return nil, err
			}
		}

		if len(wallets) < reconcileBatchSize {
			break
		}
	}

	if len(report.Discrepancies) > 0 {
		uc.logger.Warn().
			Int("count", len(report.Discrepancies)).
			Msg("wallet balances disagree with ledger")
	}

	return report, nil
}

func (uc *ReconciliationUseCase) checkWallet(ctx context.Context, wallet *domain.Wallet, report *ReconciliationReport) error {
	report.WalletsChecked++

	deposits, withdrawals, err := uc.ledgerRepo.SumByWallet(ctx, wallet.ID)
	if err != nil {
		return err
	}

	net := deposits.Sub(withdrawals)
	if !net.Equal(wallet.AvailableBalance) {
		report.Discrepancies = append(report.Discrepancies, WalletDiscrepancy{
			WalletID:      wallet.ID,
			UserID:        wallet.UserID,
			Currency:      wallet.Currency,
			WalletBalance: wallet.AvailableBalance,
			LedgerNet:     net,
			Difference:    wallet.AvailableBalance.Sub(net),
		})
	}

	uc.checkMirror(ctx, wallet, report)

	return nil
}

func (uc *ReconciliationUseCase) checkMirror(ctx context.Context, wallet *domain.Wallet, report *ReconciliationReport) {
	account, err := uc.tradingRepo.GetActiveByUser(ctx, wallet.UserID)
	if err != nil {
		report.MirrorsSkipped++
		return
	}

	report.MirrorsChecked++

	summary, err := uc.backend.GetAccountInfo(ctx, account.Login)
	if err != nil {
		uc.logger.Warn().
			Err(err).
			Str("login", account.Login).
			Msg("mirror check skipped: trading backend unavailable")
		report.BackendDegraded = true
		report.MirrorsChecked--
		report.MirrorsSkipped++
		return
	}

	if !summary.Balance.Equal(account.Balance) {
		report.MirrorDrift = append(report.MirrorDrift, MirrorDrift{
			Login:          account.Login,
			UserID:         wallet.UserID,
			LocalBalance:   account.Balance,
			BackendBalance: summary.Balance,
			Difference:     account.Balance.Sub(summary.Balance),
		})
	}
}
