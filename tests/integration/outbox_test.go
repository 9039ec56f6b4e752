package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/usecase"
	"github.com/hijamarkets/backoffice/tests/testutil"
)

func TestOutboxEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	env := newSettlementEnv(testDB)

	t.Run("approval writes an unpublished funding event", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		request := testDB.CreatePendingRequest(ctx, userID, domain.DirectionDeposit, decimal.NewFromInt(75), "USD")

		if _, err := env.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: request.ID, ApproverID: "admin-1"}); err != nil {
			t.Fatalf("approve: %v", err)
		}

		events, err := env.outboxRepo.GetUnpublished(ctx, 10)
		if err != nil {
			t.Fatalf("get unpublished: %v", err)
		}
		if len(events) != 1 {
			t.Fatalf("expected 1 unpublished event, got %d", len(events))
		}

		event := events[0]
		if event.EventType != domain.EventTypeFundingApproved {
			t.Errorf("expected %s, got %s", domain.EventTypeFundingApproved, event.EventType)
		}
		if event.AggregateID != request.ID {
			t.Errorf("expected aggregate %s, got %s", request.ID, event.AggregateID)
		}
		if event.AggregateType != domain.AggregateTypeFundsRequest {
			t.Errorf("expected aggregate type %s, got %s", domain.AggregateTypeFundsRequest, event.AggregateType)
		}
	})

	t.Run("rejection writes a funding rejected event", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		request := testDB.CreatePendingRequest(ctx, userID, domain.DirectionDeposit, decimal.NewFromInt(75), "USD")

		if _, err := env.uc.Reject(ctx, usecase.RejectInput{
			RequestID:  request.ID,
			Direction:  domain.DirectionDeposit,
			ApproverID: "admin-1",
			Reason:     "no proof of payment",
		}); err != nil {
			t.Fatalf("reject: %v", err)
		}

		events, err := env.outboxRepo.GetUnpublished(ctx, 10)
		if err != nil {
			t.Fatalf("get unpublished: %v", err)
		}
		if len(events) != 1 {
			t.Fatalf("expected 1 unpublished event, got %d", len(events))
		}
		if events[0].EventType != domain.EventTypeFundingRejected {
			t.Errorf("expected %s, got %s", domain.EventTypeFundingRejected, events[0].EventType)
		}
	})

	t.Run("marking published removes the event from the backlog", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		request := testDB.CreatePendingRequest(ctx, userID, domain.DirectionDeposit, decimal.NewFromInt(30), "USD")

		if _, err := env.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: request.ID, ApproverID: "admin-1"}); err != nil {
			t.Fatalf("approve: %v", err)
		}

		events, err := env.outboxRepo.GetUnpublished(ctx, 10)
		if err != nil {
			t.Fatalf("get unpublished: %v", err)
		}
		if len(events) != 1 {
			t.Fatalf("expected 1 unpublished event, got %d", len(events))
		}

		if err := env.outboxRepo.MarkPublished(ctx, events[0].ID, time.Now().UTC()); err != nil {
			t.Fatalf("mark published: %v", err)
		}

		remaining, err := env.outboxRepo.GetUnpublished(ctx, 10)
		if err != nil {
			t.Fatalf("get unpublished: %v", err)
		}
		if len(remaining) != 0 {
			t.Errorf("expected empty backlog, got %d events", len(remaining))
		}
	})

	t.Run("backlog is ordered oldest first", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		userID := testutil.GenerateID()
		first := testDB.CreatePendingRequest(ctx, userID, domain.DirectionDeposit, decimal.NewFromInt(10), "USD")
		second := testDB.CreatePendingRequest(ctx, userID, domain.DirectionDeposit, decimal.NewFromInt(20), "USD")

		if _, err := env.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: first.ID, ApproverID: "admin-1"}); err != nil {
			t.Fatalf("approve first: %v", err)
		}
		if _, err := env.uc.ApproveDeposit(ctx, usecase.ApproveDepositInput{RequestID: second.ID, ApproverID: "admin-1"}); err != nil {
			t.Fatalf("approve second: %v", err)
		}

		events, err := env.outboxRepo.GetUnpublished(ctx, 10)
		if err != nil {
			t.Fatalf("get unpublished: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("expected 2 unpublished events, got %d", len(events))
		}
		if events[0].AggregateID != first.ID {
			t.Errorf("expected oldest event first, got aggregate %s", events[0].AggregateID)
		}
	})
}
