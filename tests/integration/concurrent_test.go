package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/usecase"
	"github.com/hijamarkets/backoffice/tests/testutil"
)

func TestConcurrentSettlement(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	env := newSettlementEnv(testDB)

	t.Run("racing approvals of one deposit credit exactly once", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		request := testDB.CreatePendingRequest(ctx, userID, domain.DirectionDeposit, decimal.NewFromInt(250), "USD")

		numApprovers := 10

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
		)

		wg.Add(numApprovers)

		for range numApprovers {
			go func() {
				defer wg.Done()

				_, err := env.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{
					RequestID:  request.ID,
					ApproverID: "admin-1",
				})
				if err == nil {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != 1 {
			t.Errorf("expected exactly 1 successful approval, got %d", successCount.Load())
		}

		wallet, err := env.walletRepo.GetByUser(ctx, userID, "USD")
		if err != nil {
			t.Fatalf("get wallet: %v", err)
		}
		if !wallet.AvailableBalance.Equal(decimal.NewFromInt(250)) {
			t.Errorf("expected balance 250, got %s", wallet.AvailableBalance)
		}

		entries, err := env.ledgerRepo.ListByWallet(ctx, wallet.ID, 100, 0)
		if err != nil {
			t.Fatalf("list ledger: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("expected 1 ledger entry, got %d", len(entries))
		}
	})

	t.Run("concurrent withdrawal approvals never overdraw", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		testDB.CreateWalletWithBalance(ctx, userID, "USD", decimal.NewFromInt(100))

		// 20 withdrawals of 10 against a balance of 100.
		numRequests := 20
		requests := make([]*domain.FundsRequest, 0, numRequests)
		for range numRequests {
			requests = append(requests, testDB.CreatePendingRequest(ctx, userID, domain.DirectionWithdrawal, decimal.NewFromInt(10), "USD"))
		}

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
		)

		wg.Add(numRequests)

		for _, req := range requests {
			go func() {
				defer wg.Done()

				_, err := env.uc.ApproveWithdrawal(ctx, usecase.ApproveWithdrawalInput{
					RequestID:  req.ID,
					ApproverID: "admin-1",
				})
				if err == nil {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != 10 {
			t.Errorf("expected 10 successful approvals, got %d", successCount.Load())
		}

		wallet, err := env.walletRepo.GetByUser(ctx, userID, "USD")
		if err != nil {
			t.Fatalf("get wallet: %v", err)
		}
		if !wallet.AvailableBalance.Equal(decimal.Zero) {
			t.Errorf("expected balance 0, got %s", wallet.AvailableBalance)
		}
	})

	t.Run("mixed deposits and withdrawals settle to the expected balance", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		testDB.CreateWalletWithBalance(ctx, userID, "USD", decimal.NewFromInt(500))

		numEach := 20
		deposits := make([]*domain.FundsRequest, 0, numEach)
		withdrawals := make([]*domain.FundsRequest, 0, numEach)
		for range numEach {
			deposits = append(deposits, testDB.CreatePendingRequest(ctx, userID, domain.DirectionDeposit, decimal.NewFromInt(10), "USD"))
			withdrawals = append(withdrawals, testDB.CreatePendingRequest(ctx, userID, domain.DirectionWithdrawal, decimal.NewFromInt(10), "USD"))
		}

		var wg sync.WaitGroup
		wg.Add(numEach * 2)

		for i := range numEach {
			go func() {
				defer wg.Done()
				_, _ = env.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{
					RequestID:  deposits[i].ID,
					ApproverID: "admin-1",
				})
			}()
			go func() {
				defer wg.Done()
				_, _ = env.uc.ApproveWithdrawal(ctx, usecase.ApproveWithdrawalInput{
					RequestID:  withdrawals[i].ID,
					ApproverID: "admin-1",
				})
			}()
		}

		wg.Wait()

		// Opening 500 is enough to cover every withdrawal regardless of
		// interleaving, so all 40 approvals settle and the balance nets out.
		wallet, err := env.walletRepo.GetByUser(ctx, userID, "USD")
		if err != nil {
			t.Fatalf("get wallet: %v", err)
		}
		if !wallet.AvailableBalance.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected balance 500, got %s", wallet.AvailableBalance)
		}

		deposited, withdrawn, err := env.ledgerRepo.SumByWallet(ctx, wallet.ID)
		if err != nil {
			t.Fatalf("sum ledger: %v", err)
		}
		if !deposited.Equal(decimal.NewFromInt(200)) {
			t.Errorf("expected 200 deposited, got %s", deposited)
		}
		if !withdrawn.Equal(decimal.NewFromInt(200)) {
			t.Errorf("expected 200 withdrawn, got %s", withdrawn)
		}
	})
}
