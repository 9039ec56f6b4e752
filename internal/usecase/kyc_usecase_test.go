package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/usecase"
	"github.com/hijamarkets/backoffice/internal/usecase/mocks"
)

func TestKYCUseCase_Review(t *testing.T) {
	ctx := context.Background()

	newUC := func(kycRepo *mocks.MockKYCRepository, auditRepo *mocks.MockAuditRepository) *usecase.KYCUseCase {
		return usecase.NewKYCUseCase(kycRepo, auditRepo, mocks.NewMockIDGenerator(), nil, zerolog.Nop())
	}

	t.Run("approve pending profile", func(t *testing.T) {
		kycRepo := mocks.NewMockKYCRepository()
		auditRepo := mocks.NewMockAuditRepository()
		kycRepo.Seed(&domain.KYCProfile{ID: "kyc-1", UserID: "user-1", Status: domain.KYCStatusPending})

		profile, err := newUC(kycRepo, auditRepo).ApproveKYC(ctx, "kyc-1", "admin-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if profile.Status != domain.KYCStatusApproved {
			t.Errorf("expected APPROVED, got %s", profile.Status)
		}
		if profile.VerifiedBy != "admin-1" {
			t.Errorf("expected verifier admin-1, got %s", profile.VerifiedBy)
		}
		if profile.VerifiedAt == nil {
			t.Error("expected VerifiedAt set")
		}
		if len(auditRepo.Logs()) != 1 {
			t.Errorf("expected 1 audit log, got %d", len(auditRepo.Logs()))
		}
	})

	t.Run("reject pending profile records reason", func(t *testing.T) {
		kycRepo := mocks.NewMockKYCRepository()
		kycRepo.Seed(&domain.KYCProfile{ID: "kyc-1", UserID: "user-1", Status: domain.KYCStatusPending})

		profile, err := newUC(kycRepo, mocks.NewMockAuditRepository()).RejectKYC(ctx, "kyc-1", "admin-1", "document expired")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if profile.Status != domain.KYCStatusRejected {
			t.Errorf("expected REJECTED, got %s", profile.Status)
		}
		if profile.RejectionReason != "document expired" {
			t.Errorf("expected reason recorded, got %q", profile.RejectionReason)
		}
	})

	t.Run("double review is a conflict", func(t *testing.T) {
		kycRepo := mocks.NewMockKYCRepository()
		kycRepo.Seed(&domain.KYCProfile{ID: "kyc-1", UserID: "user-1", Status: domain.KYCStatusPending})
		uc := newUC(kycRepo, mocks.NewMockAuditRepository())

		if _, err := uc.ApproveKYC(ctx, "kyc-1", "admin-1"); err != nil {
			t.Fatalf("first review failed: %v", err)
		}

		if _, err := uc.RejectKYC(ctx, "kyc-1", "admin-2", "late objection"); !errors.Is(err, domain.ErrKYCAlreadyReviewed) {
			t.Errorf("expected ErrKYCAlreadyReviewed, got %v", err)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		uc := newUC(mocks.NewMockKYCRepository(), mocks.NewMockAuditRepository())

		if _, err := uc.ApproveKYC(ctx, "missing", "admin-1"); !errors.Is(err, domain.ErrKYCNotFound) {
			t.Errorf("expected ErrKYCNotFound, got %v", err)
		}
	})
}

func TestClientUseCase_BlockUnblock(t *testing.T) {
	ctx := context.Background()

	clientRepo := mocks.NewMockClientRepository()
	auditRepo := mocks.NewMockAuditRepository()
	clientRepo.Seed(&domain.Client{ID: "user-1", Name: "Test Client", Status: domain.ClientStatusActive})

	uc := usecase.NewClientUseCase(clientRepo, auditRepo, mocks.NewMockIDGenerator(), zerolog.Nop())

	client, err := uc.BlockClient(ctx, "user-1", "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Status != domain.ClientStatusBlocked {
		t.Errorf("expected BLOCKED, got %s", client.Status)
	}

	client, err = uc.UnblockClient(ctx, "user-1", "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Status != domain.ClientStatusActive {
		t.Errorf("expected ACTIVE, got %s", client.Status)
	}

	if len(auditRepo.Logs()) != 2 {
		t.Errorf("expected 2 audit logs, got %d", len(auditRepo.Logs()))
	}

	if _, err := uc.BlockClient(ctx, "ghost", "admin-1"); !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}
