package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/hijamarkets/backoffice/internal/adapter/mt5"
	"github.com/hijamarkets/backoffice/internal/adapter/repository/postgres"
	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/usecase"
	"github.com/hijamarkets/backoffice/tests/testutil"
)

type settlementEnv struct {
	uc          *usecase.SettlementUseCase
	requestRepo *postgres.RequestRepository
	walletRepo  *postgres.WalletRepository
	ledgerRepo  *postgres.LedgerRepository
	outboxRepo  *postgres.OutboxRepository
}

func newSettlementEnv(testDB *testutil.TestDB) *settlementEnv {
	pool := testDB.Pool
	idGen := postgres.NewULIDGenerator()

	requestRepo := postgres.NewRequestRepository(pool)
	walletRepo := postgres.NewWalletRepository(pool, idGen)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	tradingRepo := postgres.NewTradingAccountRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txManager := postgres.NewTxManager(pool)
	backend := mt5.NewMockBackend(zerolog.Nop())

	uc := usecase.NewSettlementUseCase(
		txManager, requestRepo, walletRepo, ledgerRepo, tradingRepo,
		outboxRepo, auditRepo, backend, idGen, postgres.NewRetrier(zerolog.Nop()),
		nil, zerolog.Nop(),
	)

	return &settlementEnv{
		uc:          uc,
		requestRepo: requestRepo,
		walletRepo:  walletRepo,
		ledgerRepo:  ledgerRepo,
		outboxRepo:  outboxRepo,
	}
}

func TestDepositApproval(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	env := newSettlementEnv(testDB)

	t.Run("approval credits wallet and appends ledger entry", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		request := testDB.CreatePendingRequest(ctx, userID, domain.DirectionDeposit, decimal.NewFromInt(500), "USD")

		result, err := env.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{
			RequestID:  request.ID,
			ApproverID: "admin-1",
		})
		if err != nil {
			t.Fatalf("approve deposit: %v", err)
		}

		if result.Request.Status != domain.RequestStatusApproved {
			t.Errorf("expected APPROVED, got %s", result.Request.Status)
		}
		if result.Request.ApprovedBy != "admin-1" {
			t.Errorf("expected approver admin-1, got %s", result.Request.ApprovedBy)
		}
		if !result.MirrorSynced {
			t.Error("expected mirror synced with no trading account")
		}

		wallet, err := env.walletRepo.GetByUser(ctx, userID, "USD")
		if err != nil {
			t.Fatalf("get wallet: %v", err)
		}
		if !wallet.AvailableBalance.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected balance 500, got %s", wallet.AvailableBalance)
		}

		entries, err := env.ledgerRepo.ListByWallet(ctx, wallet.ID, 10, 0)
		if err != nil {
			t.Fatalf("list ledger: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 ledger entry, got %d", len(entries))
		}
		if entries[0].Type != domain.LedgerTypeDeposit {
			t.Errorf("expected DEPOSIT entry, got %s", entries[0].Type)
		}
		if entries[0].RequestID != request.ID {
			t.Errorf("expected entry linked to request %s, got %s", request.ID, entries[0].RequestID)
		}
	})

	t.Run("second approval of the same request conflicts", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		request := testDB.CreatePendingRequest(ctx, userID, domain.DirectionDeposit, decimal.NewFromInt(100), "USD")

		if _, err := env.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: request.ID, ApproverID: "admin-1"}); err != nil {
			t.Fatalf("first approve: %v", err)
		}

		_, err := env.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: request.ID, ApproverID: "admin-2"})
		if !errors.Is(err, domain.ErrRequestAlreadyProcessed) {
			t.Errorf("expected ErrRequestAlreadyProcessed, got %v", err)
		}

		// Wallet must reflect exactly one credit.
		wallet, err := env.walletRepo.GetByUser(ctx, userID, "USD")
		if err != nil {
			t.Fatalf("get wallet: %v", err)
		}
		if !wallet.AvailableBalance.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected balance 100, got %s", wallet.AvailableBalance)
		}
	})

	t.Run("approving an absent request is not found", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		_, err := env.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: testutil.GenerateID(), ApproverID: "admin-1"})
		if !errors.Is(err, domain.ErrRequestNotFound) {
			t.Errorf("expected ErrRequestNotFound, got %v", err)
		}
	})
}

func TestWithdrawalApproval(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	env := newSettlementEnv(testDB)

	t.Run("approval debits wallet and stamps paid_at", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		testDB.CreateWalletWithBalance(ctx, userID, "USD", decimal.NewFromInt(1000))
		request := testDB.CreatePendingRequest(ctx, userID, domain.DirectionWithdrawal, decimal.NewFromInt(300), "USD")

		result, err := env.uc.ApproveWithdrawal(ctx, usecase.ApproveWithdrawalInput{
			RequestID:   request.ID,
			ApproverID:  "admin-1",
			ExternalRef: "PAYOUT-42",
		})
		if err != nil {
			t.Fatalf("approve withdrawal: %v", err)
		}

		if result.Request.PaidAt == nil {
			t.Error("expected paid_at to be stamped")
		}
		if result.Request.ExternalRef != "PAYOUT-42" {
			t.Errorf("expected external ref PAYOUT-42, got %s", result.Request.ExternalRef)
		}

		wallet, err := env.walletRepo.GetByUser(ctx, userID, "USD")
		if err != nil {
			t.Fatalf("get wallet: %v", err)
		}
		if !wallet.AvailableBalance.Equal(decimal.NewFromInt(700)) {
			t.Errorf("expected balance 700, got %s", wallet.AvailableBalance)
		}
	})

	t.Run("insufficient funds rolls back the status flip", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		testDB.CreateWalletWithBalance(ctx, userID, "USD", decimal.NewFromInt(50))
		request := testDB.CreatePendingRequest(ctx, userID, domain.DirectionWithdrawal, decimal.NewFromInt(200), "USD")

		_, err := env.uc.ApproveWithdrawal(ctx, usecase.ApproveWithdrawalInput{RequestID: request.ID, ApproverID: "admin-1"})
		if !errors.Is(err, domain.ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}

		// The whole approval ran in one transaction, so the request must
		// still be reviewable.
		stored, err := env.requestRepo.GetByID(ctx, request.ID)
		if err != nil {
			t.Fatalf("get request: %v", err)
		}
		if stored.Status != domain.RequestStatusPending {
			t.Errorf("expected request back to PENDING, got %s", stored.Status)
		}

		wallet, err := env.walletRepo.GetByUser(ctx, userID, "USD")
		if err != nil {
			t.Fatalf("get wallet: %v", err)
		}
		if !wallet.AvailableBalance.Equal(decimal.NewFromInt(50)) {
			t.Errorf("expected balance unchanged at 50, got %s", wallet.AvailableBalance)
		}
	})

	t.Run("missing wallet reads as insufficient funds", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		request := testDB.CreatePendingRequest(ctx, userID, domain.DirectionWithdrawal, decimal.NewFromInt(10), "USD")

		_, err := env.uc.ApproveWithdrawal(ctx, usecase.ApproveWithdrawalInput{RequestID: request.ID, ApproverID: "admin-1"})
		if !errors.Is(err, domain.ErrInsufficientFunds) {
			t.Errorf("expected ErrInsufficientFunds, got %v", err)
		}
	})
}

func TestRejection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	env := newSettlementEnv(testDB)

	t.Run("rejection records the reason and leaves the wallet alone", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		testDB.CreateWalletWithBalance(ctx, userID, "USD", decimal.NewFromInt(100))
		request := testDB.CreatePendingRequest(ctx, userID, domain.DirectionWithdrawal, decimal.NewFromInt(40), "USD")

		rejected, err := env.uc.Reject(ctx, usecase.RejectInput{
			RequestID:  request.ID,
			Direction:  domain.DirectionWithdrawal,
			ApproverID: "admin-1",
			Reason:     "bank details mismatch",
		})
		if err != nil {
			t.Fatalf("reject: %v", err)
		}

		if rejected.Status != domain.RequestStatusRejected {
			t.Errorf("expected REJECTED, got %s", rejected.Status)
		}
		if rejected.RejectionReason != "bank details mismatch" {
			t.Errorf("unexpected reason %q", rejected.RejectionReason)
		}

		wallet, err := env.walletRepo.GetByUser(ctx, userID, "USD")
		if err != nil {
			t.Fatalf("get wallet: %v", err)
		}
		if !wallet.AvailableBalance.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected balance unchanged at 100, got %s", wallet.AvailableBalance)
		}
	})

	t.Run("rejecting an approved request conflicts", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		request := testDB.CreatePendingRequest(ctx, userID, domain.DirectionDeposit, decimal.NewFromInt(25), "USD")

		if _, err := env.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: request.ID, ApproverID: "admin-1"}); err != nil {
			t.Fatalf("approve: %v", err)
		}

		_, err := env.uc.Reject(ctx, usecase.RejectInput{
			RequestID:  request.ID,
			Direction:  domain.DirectionDeposit,
			ApproverID: "admin-2",
			Reason:     "changed my mind",
		})
		if !errors.Is(err, domain.ErrRequestAlreadyProcessed) {
			t.Errorf("expected ErrRequestAlreadyProcessed, got %v", err)
		}
	})
}
