package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/usecase"
	"github.com/hijamarkets/backoffice/internal/usecase/mocks"
)

type settlementFixture struct {
	txManager   *mocks.MockTransactionManager
	requestRepo *mocks.MockRequestRepository
	walletRepo  *mocks.MockWalletRepository
	ledgerRepo  *mocks.MockLedgerRepository
	tradingRepo *mocks.MockTradingAccountRepository
	outboxRepo  *mocks.MockOutboxRepository
	auditRepo   *mocks.MockAuditRepository
	backend     *mocks.MockTradingBackend
	retrier     *mocks.MockRetrier
	uc          *usecase.SettlementUseCase
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	ctrl := gomock.NewController(t)

	f := &settlementFixture{
		txManager:   mocks.NewMockTransactionManager(),
		requestRepo: mocks.NewMockRequestRepository(),
		walletRepo:  mocks.NewMockWalletRepository(),
		ledgerRepo:  mocks.NewMockLedgerRepository(),
		tradingRepo: mocks.NewMockTradingAccountRepository(),
		outboxRepo:  mocks.NewMockOutboxRepository(),
		auditRepo:   mocks.NewMockAuditRepository(),
		backend:     mocks.NewMockTradingBackend(ctrl),
		retrier:     mocks.NewMockRetrier(),
	}

	f.uc = usecase.NewSettlementUseCase(
		f.txManager,
		f.requestRepo,
		f.walletRepo,
		f.ledgerRepo,
		f.tradingRepo,
		f.outboxRepo,
		f.auditRepo,
		f.backend,
		mocks.NewMockIDGenerator(),
		f.retrier,
		nil,
		zerolog.Nop(),
	)

	return f
}

func pendingRequest(id, userID string, direction domain.RequestDirection, amount int64, currency string) *domain.FundsRequest {
	return &domain.FundsRequest{
		ID:        id,
		UserID:    userID,
		Direction: direction,
		Amount:    decimal.NewFromInt(amount),
		Currency:  currency,
		Method:    domain.MethodBankTransfer,
		Status:    domain.RequestStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

func TestSettlementUseCase_ApproveDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("successful approval credits wallet and appends ledger entry", func(t *testing.T) {
		f := newSettlementFixture(t)
		f.requestRepo.Create(ctx, pendingRequest("req-1", "user-1", domain.DirectionDeposit, 5000, "INR"))

		result, err := f.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: "req-1", ApproverID: "admin-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Request.Status != domain.RequestStatusApproved {
			t.Errorf("expected status APPROVED, got %s", result.Request.Status)
		}
		if result.Request.ApprovedBy != "admin-1" {
			t.Errorf("expected approver admin-1, got %s", result.Request.ApprovedBy)
		}
		if !result.MirrorSynced {
			t.Error("expected MirrorSynced for a client without a trading account")
		}

		wallet, err := f.walletRepo.GetByUser(ctx, "user-1", "INR")
		if err != nil {
			t.Fatalf("wallet not created: %v", err)
		}
		if !wallet.AvailableBalance.Equal(decimal.NewFromInt(5000)) {
			t.Errorf("expected balance 5000, got %s", wallet.AvailableBalance)
		}

		entries := f.ledgerRepo.Entries()
		if len(entries) != 1 {
			t.Fatalf("expected 1 ledger entry, got %d", len(entries))
		}
		if entries[0].Type != domain.LedgerTypeDeposit {
			t.Errorf("expected DEPOSIT entry, got %s", entries[0].Type)
		}
		if entries[0].RequestID != "req-1" {
			t.Errorf("expected entry linked to req-1, got %s", entries[0].RequestID)
		}

		if len(f.auditRepo.Logs()) != 1 {
			t.Errorf("expected 1 audit log, got %d", len(f.auditRepo.Logs()))
		}
	})

	t.Run("request not found", func(t *testing.T) {
		f := newSettlementFixture(t)

		_, err := f.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: "missing", ApproverID: "admin-1"})
		if !errors.Is(err, domain.ErrRequestNotFound) {
			t.Errorf("expected ErrRequestNotFound, got %v", err)
		}
	})

	t.Run("withdrawal id is not a deposit", func(t *testing.T) {
		f := newSettlementFixture(t)
		f.requestRepo.Create(ctx, pendingRequest("req-1", "user-1", domain.DirectionWithdrawal, 5000, "INR"))

		_, err := f.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: "req-1", ApproverID: "admin-1"})
		if !errors.Is(err, domain.ErrRequestNotFound) {
			t.Errorf("expected ErrRequestNotFound, got %v", err)
		}
	})

	t.Run("second approval of the same request is a conflict", func(t *testing.T) {
		f := newSettlementFixture(t)
		f.requestRepo.Create(ctx, pendingRequest("req-1", "user-1", domain.DirectionDeposit, 5000, "INR"))

		if _, err := f.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: "req-1", ApproverID: "admin-1"}); err != nil {
			t.Fatalf("first approval failed: %v", err)
		}

		_, err := f.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: "req-1", ApproverID: "admin-2"})
		if !errors.Is(err, domain.ErrRequestAlreadyProcessed) {
			t.Errorf("expected ErrRequestAlreadyProcessed, got %v", err)
		}

		// The wallet must have been credited exactly once.
		wallet, err := f.walletRepo.GetByUser(ctx, "user-1", "INR")
		if err != nil {
			t.Fatalf("wallet not created: %v", err)
		}
		if !wallet.AvailableBalance.Equal(decimal.NewFromInt(5000)) {
			t.Errorf("expected balance 5000 after double approval attempt, got %s", wallet.AvailableBalance)
		}
	})
}

func TestSettlementUseCase_ApproveDeposit_MirrorSync(t *testing.T) {
	ctx := context.Background()

	t.Run("deposit is mirrored onto the trading account", func(t *testing.T) {
		f := newSettlementFixture(t)
		f.requestRepo.Create(ctx, pendingRequest("req-1", "user-1", domain.DirectionDeposit, 5000, "INR"))
		f.tradingRepo.Create(ctx, &domain.TradingAccount{
			ID:     "acc-1",
			UserID: "user-1",
			Login:  "12345",
			Status: domain.TradingAccountActive,
		})

		f.backend.EXPECT().
			ApplyBalanceDelta(gomock.Any(), "12345", decimal.NewFromInt(5000), "Deposit approved - req-1").
			Return(&domain.BalanceChange{NewBalance: decimal.NewFromInt(5000), TransactionID: "txn-99"}, nil)

		result, err := f.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: "req-1", ApproverID: "admin-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.MirrorSynced {
			t.Error("expected MirrorSynced")
		}
		if result.ExternalTxnID != "txn-99" {
			t.Errorf("expected external txn id txn-99, got %s", result.ExternalTxnID)
		}

		account, err := f.tradingRepo.GetByLogin(ctx, "12345")
		if err != nil {
			t.Fatalf("trading account lost: %v", err)
		}
		if !account.Balance.Equal(decimal.NewFromInt(5000)) {
			t.Errorf("expected cached balance 5000, got %s", account.Balance)
		}
	})

	t.Run("backend failure does not undo the settlement", func(t *testing.T) {
		f := newSettlementFixture(t)
		f.requestRepo.Create(ctx, pendingRequest("req-1", "user-1", domain.DirectionDeposit, 5000, "INR"))
		f.tradingRepo.Create(ctx, &domain.TradingAccount{
			ID:     "acc-1",
			UserID: "user-1",
			Login:  "12345",
			Status: domain.TradingAccountActive,
		})

		f.backend.EXPECT().
			ApplyBalanceDelta(gomock.Any(), "12345", gomock.Any(), gomock.Any()).
			Return(nil, errors.New("manager api timeout"))

		result, err := f.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: "req-1", ApproverID: "admin-1"})
		if err != nil {
			t.Fatalf("approval must not fail on mirror errors: %v", err)
		}

		if result.MirrorSynced {
			t.Error("expected MirrorSynced=false after backend failure")
		}

		wallet, err := f.walletRepo.GetByUser(ctx, "user-1", "INR")
		if err != nil {
			t.Fatalf("wallet not created: %v", err)
		}
		if !wallet.AvailableBalance.Equal(decimal.NewFromInt(5000)) {
			t.Errorf("wallet credit must survive mirror failure, got %s", wallet.AvailableBalance)
		}

		var found bool
		for _, e := range f.outboxRepo.Events() {
			if e.EventType == domain.EventTypeMirrorSyncFailed {
				found = true
			}
		}
		if !found {
			t.Error("expected a mirror sync failure event for reconciliation")
		}
	})
}

func TestSettlementUseCase_TransactionRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("settlement transactions run under the retrier", func(t *testing.T) {
		f := newSettlementFixture(t)
		f.requestRepo.Create(ctx, pendingRequest("req-1", "user-1", domain.DirectionDeposit, 5000, "INR"))

		if _, err := f.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: "req-1", ApproverID: "admin-1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if f.retrier.Calls() != 1 {
			t.Errorf("expected 1 retrier invocation, got %d", f.retrier.Calls())
		}
	})

	t.Run("a transient failure on the first attempt settles on the second", func(t *testing.T) {
		f := newSettlementFixture(t)
		f.requestRepo.Create(ctx, pendingRequest("req-1", "user-1", domain.DirectionDeposit, 5000, "INR"))

		// First transaction dies before doing anything; the re-run wins.
		begins := 0
		f.txManager.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
			begins++
			if begins == 1 {
				return nil, errors.New("deadlock detected")
			}
			return &mocks.MockTransaction{}, nil
		}
		f.retrier.RetryFunc = func(ctx context.Context, operation func() error) error {
			if err := operation(); err != nil {
				return operation()
			}
			return nil
		}

		result, err := f.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: "req-1", ApproverID: "admin-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Request.Status != domain.RequestStatusApproved {
			t.Errorf("expected APPROVED, got %s", result.Request.Status)
		}
		if begins != 2 {
			t.Errorf("expected 2 transaction attempts, got %d", begins)
		}
	})

	t.Run("domain conflicts are not retried", func(t *testing.T) {
		f := newSettlementFixture(t)
		f.requestRepo.Create(ctx, pendingRequest("req-1", "user-1", domain.DirectionDeposit, 5000, "INR"))

		if _, err := f.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: "req-1", ApproverID: "admin-1"}); err != nil {
			t.Fatalf("first approval failed: %v", err)
		}

		attempts := 0
		f.retrier.RetryFunc = func(ctx context.Context, operation func() error) error {
			attempts++
			return operation()
		}

		_, err := f.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: "req-1", ApproverID: "admin-2"})
		if !errors.Is(err, domain.ErrRequestAlreadyProcessed) {
			t.Fatalf("expected ErrRequestAlreadyProcessed, got %v", err)
		}
		if attempts != 1 {
			t.Errorf("conflict must reach the retrier once and surface, got %d attempts", attempts)
		}
	})
}

func TestSettlementUseCase_ApproveWithdrawal(t *testing.T) {
	ctx := context.Background()

	t.Run("successful approval debits wallet", func(t *testing.T) {
		f := newSettlementFixture(t)
		f.requestRepo.Create(ctx, pendingRequest("req-1", "user-1", domain.DirectionWithdrawal, 3000, "INR"))
		f.walletRepo.Seed(&domain.Wallet{
			ID:               "wallet-1",
			UserID:           "user-1",
			Currency:         "INR",
			AvailableBalance: decimal.NewFromInt(5000),
		})

		result, err := f.uc.ApproveWithdrawal(ctx, usecase.ApproveWithdrawalInput{
			RequestID:   "req-1",
			ApproverID:  "admin-1",
			ExternalRef: "UTR123",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Request.Status != domain.RequestStatusApproved {
			t.Errorf("expected status APPROVED, got %s", result.Request.Status)
		}
		if result.Request.PaidAt == nil {
			t.Error("expected PaidAt to be set on withdrawal approval")
		}

		wallet, _ := f.walletRepo.GetByUser(ctx, "user-1", "INR")
		if !wallet.AvailableBalance.Equal(decimal.NewFromInt(2000)) {
			t.Errorf("expected balance 2000, got %s", wallet.AvailableBalance)
		}

		entries := f.ledgerRepo.Entries()
		if len(entries) != 1 || entries[0].Type != domain.LedgerTypeWithdrawal {
			t.Fatalf("expected exactly one WITHDRAWAL ledger entry, got %v", entries)
		}
	})

	t.Run("insufficient funds leaves the wallet untouched", func(t *testing.T) {
		f := newSettlementFixture(t)
		f.requestRepo.Create(ctx, pendingRequest("req-1", "user-1", domain.DirectionWithdrawal, 9000, "INR"))
		f.walletRepo.Seed(&domain.Wallet{
			ID:               "wallet-1",
			UserID:           "user-1",
			Currency:         "INR",
			AvailableBalance: decimal.NewFromInt(5000),
		})

		_, err := f.uc.ApproveWithdrawal(ctx, usecase.ApproveWithdrawalInput{RequestID: "req-1", ApproverID: "admin-1"})
		if !errors.Is(err, domain.ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}

		wallet, _ := f.walletRepo.GetByUser(ctx, "user-1", "INR")
		if !wallet.AvailableBalance.Equal(decimal.NewFromInt(5000)) {
			t.Errorf("balance must be unchanged, got %s", wallet.AvailableBalance)
		}
		if len(f.ledgerRepo.Entries()) != 0 {
			t.Errorf("expected no ledger entries, got %d", len(f.ledgerRepo.Entries()))
		}
	})

	t.Run("missing wallet reads as insufficient funds", func(t *testing.T) {
		f := newSettlementFixture(t)
		f.requestRepo.Create(ctx, pendingRequest("req-1", "user-1", domain.DirectionWithdrawal, 1000, "INR"))

		_, err := f.uc.ApproveWithdrawal(ctx, usecase.ApproveWithdrawalInput{RequestID: "req-1", ApproverID: "admin-1"})
		if !errors.Is(err, domain.ErrInsufficientFunds) {
			t.Errorf("expected ErrInsufficientFunds, got %v", err)
		}
	})
}

func TestSettlementUseCase_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("rejection has no wallet effect", func(t *testing.T) {
		f := newSettlementFixture(t)
		f.requestRepo.Create(ctx, pendingRequest("req-1", "user-1", domain.DirectionDeposit, 5000, "INR"))

		request, err := f.uc.Reject(ctx, usecase.RejectInput{
			RequestID:  "req-1",
			Direction:  domain.DirectionDeposit,
			ApproverID: "admin-1",
			Reason:     "proof unreadable",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if request.Status != domain.RequestStatusRejected {
			t.Errorf("expected status REJECTED, got %s", request.Status)
		}
		if request.RejectionReason != "proof unreadable" {
			t.Errorf("expected rejection reason recorded, got %q", request.RejectionReason)
		}

		if _, err := f.walletRepo.GetByUser(ctx, "user-1", "INR"); !errors.Is(err, domain.ErrWalletNotFound) {
			t.Error("rejection must not create or touch a wallet")
		}
		if len(f.ledgerRepo.Entries()) != 0 {
			t.Error("rejection must not append ledger entries")
		}
	})

	t.Run("rejecting an approved request is a conflict", func(t *testing.T) {
		f := newSettlementFixture(t)
		f.requestRepo.Create(ctx, pendingRequest("req-1", "user-1", domain.DirectionDeposit, 5000, "INR"))

		if _, err := f.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: "req-1", ApproverID: "admin-1"}); err != nil {
			t.Fatalf("approval failed: %v", err)
		}

		_, err := f.uc.Reject(ctx, usecase.RejectInput{
			RequestID:  "req-1",
			Direction:  domain.DirectionDeposit,
			ApproverID: "admin-2",
			Reason:     "changed my mind",
		})
		if !errors.Is(err, domain.ErrRequestAlreadyProcessed) {
			t.Errorf("expected ErrRequestAlreadyProcessed, got %v", err)
		}
	})
}

// Full wallet lifecycle: two deposits, one draining withdrawal, then an
// overdraw attempt.
func TestSettlementUseCase_WalletLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture(t)

	approve := func(id string, direction domain.RequestDirection, amount int64) {
		t.Helper()
		f.requestRepo.Create(ctx, pendingRequest(id, "user-1", direction, amount, "INR"))
		var err error
		if direction == domain.DirectionDeposit {
			_, err = f.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: id, ApproverID: "admin-1"})
		} else {
			_, err = f.uc.ApproveWithdrawal(ctx, usecase.ApproveWithdrawalInput{RequestID: id, ApproverID: "admin-1"})
		}
		if err != nil {
			t.Fatalf("approve %s: %v", id, err)
		}
	}

	approve("dep-1", domain.DirectionDeposit, 5000)
	approve("dep-2", domain.DirectionDeposit, 3000)

	wallet, err := f.walletRepo.GetByUser(ctx, "user-1", "INR")
	if err != nil {
		t.Fatalf("wallet missing: %v", err)
	}
	if !wallet.AvailableBalance.Equal(decimal.NewFromInt(8000)) {
		t.Fatalf("expected balance 8000, got %s", wallet.AvailableBalance)
	}

	approve("wd-1", domain.DirectionWithdrawal, 8000)

	wallet, _ = f.walletRepo.GetByUser(ctx, "user-1", "INR")
	if !wallet.AvailableBalance.Equal(decimal.Zero) {
		t.Fatalf("expected zero balance, got %s", wallet.AvailableBalance)
	}

	f.requestRepo.Create(ctx, pendingRequest("wd-2", "user-1", domain.DirectionWithdrawal, 100, "INR"))
	if _, err := f.uc.ApproveWithdrawal(ctx, usecase.ApproveWithdrawalInput{RequestID: "wd-2", ApproverID: "admin-1"}); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds on drained wallet, got %v", err)
	}

	// Ledger must reconcile to the final balance.
	deposits, withdrawals, err := f.ledgerRepo.SumByWallet(context.Background(), wallet.ID)
	if err != nil {
		t.Fatalf("ledger sum: %v", err)
	}
	if !deposits.Sub(withdrawals).Equal(wallet.AvailableBalance) {
		t.Errorf("ledger net %s does not match balance %s", deposits.Sub(withdrawals), wallet.AvailableBalance)
	}
}
