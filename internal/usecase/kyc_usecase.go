package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/infrastructure/metrics"
)

// KYCUseCase handles back-office review of client identity documents.
type KYCUseCase struct {
	kycRepo   KYCRepository
	auditRepo AuditRepository
	idGen     IDGenerator
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewKYCUseCase creates a new KYCUseCase.
func NewKYCUseCase(kycRepo KYCRepository, auditRepo AuditRepository, idGen IDGenerator, m *metrics.Metrics, logger zerolog.Logger) *KYCUseCase {
	return &KYCUseCase{
		kycRepo:   kycRepo,
		auditRepo: auditRepo,
		idGen:     idGen,
		metrics:   m,
		logger:    logger,
	}
}

// ApproveKYC marks a pending KYC profile as verified. The flip is a
// conditional update so two reviewers cannot both claim it.
func (uc *KYCUseCase) ApproveKYC(ctx context.Context, id, reviewerID string) (*domain.KYCProfile, error) {
	now := time.Now().UTC()

	profile, err := uc.kycRepo.ApproveIfPending(ctx, id, reviewerID, now)
	if err != nil {
		return nil, err
	}

	uc.recordReview(ctx, profile, reviewerID, domain.AuditActionKYCApprove, "approved")

	return profile, nil
}

// RejectKYC marks a pending KYC profile as rejected with a reason.
func (uc *KYCUseCase) RejectKYC(ctx context.Context, id, reviewerID, reason string) (*domain.KYCProfile, error) {
	now := time.Now().UTC()

	profile, err := uc.kycRepo.RejectIfPending(ctx, id, reviewerID, reason, now)
	if err != nil {
		return nil, err
	}

	uc.recordReview(ctx, profile, reviewerID, domain.AuditActionKYCReject, "rejected")

	return profile, nil
}

// GetKYC returns a single KYC profile.
func (uc *KYCUseCase) GetKYC(ctx context.Context, id string) (*domain.KYCProfile, error) {
	return uc.kycRepo.GetByID(ctx, id)
}

// ListKYC lists KYC profiles, optionally filtered by status.
func (uc *KYCUseCase) ListKYC(ctx context.Context, status domain.KYCStatus, limit, offset int) ([]*domain.KYCProfile, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.kycRepo.List(ctx, status, limit, offset)
}

func (uc *KYCUseCase) recordReview(ctx context.Context, profile *domain.KYCProfile, reviewerID string, action domain.AuditAction, outcome string) {
	if uc.metrics != nil {
		uc.metrics.KYCReviews.WithLabelValues(outcome).Inc()
	}

	uc.logger.Info().
		Str("kyc_id", profile.ID).
		Str("user_id", profile.UserID).
		Str("reviewer_id", reviewerID).
		Str("outcome", outcome).
		Msg("kyc profile reviewed")

	if uc.auditRepo == nil {
		return
	}

	auditLog := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       reviewerID,
		Action:       string(action),
		ResourceType: domain.AggregateTypeKYCProfile,
		ResourceID:   profile.ID,
		AfterState:   domain.MarshalState(profile),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.auditRepo.Create(ctx, auditLog); err != nil {
		uc.logger.Warn().Err(err).Str("kyc_id", profile.ID).Msg("audit log write failed")
	}
}
