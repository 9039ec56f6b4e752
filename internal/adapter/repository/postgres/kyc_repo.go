package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hijamarkets/backoffice/internal/domain"
)

// KYCRepository implements usecase.KYCRepository.
type KYCRepository struct {
	pool *pgxpool.Pool
}

// NewKYCRepository creates a new KYCRepository.
func NewKYCRepository(pool *pgxpool.Pool) *KYCRepository {
	return &KYCRepository{pool: pool}
}

const kycColumns = `id, user_id, document_type, document_ref, status, verified_by, rejection_reason, created_at, verified_at`

// GetByID retrieves a KYC profile by ID.
func (r *KYCRepository) GetByID(ctx context.Context, id string) (*domain.KYCProfile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+kycColumns+`
		FROM kyc_profiles
		WHERE id = $1`, id)

	profile, err := scanKYCProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKYCNotFound
		}
		return nil, err
	}

	return profile, nil
}

// ApproveIfPending flips a pending profile to APPROVED with the same
// conditional-update pattern as funding requests.
func (r *KYCRepository) ApproveIfPending(ctx context.Context, id, verifiedBy string, verifiedAt time.Time) (*domain.KYCProfile, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE kyc_profiles
		SET status = $1, verified_by = $2, verified_at = $3
		WHERE id = $4 AND status = 'PENDING'
		RETURNING `+kycColumns,
		string(domain.KYCStatusApproved), verifiedBy, timeToPgTimestamptz(verifiedAt), id,
	)

	profile, err := scanKYCProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyMiss(ctx, id)
		}
		return nil, err
	}

	return profile, nil
}

// RejectIfPending flips a pending profile to REJECTED with a reason.
func (r *KYCRepository) RejectIfPending(ctx context.Context, id, verifiedBy, reason string, verifiedAt time.Time) (*domain.KYCProfile, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE kyc_profiles
		SET status = $1, verified_by = $2, rejection_reason = $3, verified_at = $4
		WHERE id = $5 AND status = 'PENDING'
		RETURNING `+kycColumns,
		string(domain.KYCStatusRejected), verifiedBy, reason, timeToPgTimestamptz(verifiedAt), id,
	)

	profile, err := scanKYCProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyMiss(ctx, id)
		}
		return nil, err
	}

	return profile, nil
}

func (r *KYCRepository) classifyMiss(ctx context.Context, id string) error {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM kyc_profiles WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return err
	}

	if !exists {
		return domain.ErrKYCNotFound
	}

	return domain.ErrKYCAlreadyReviewed
}

// List lists KYC profiles, optionally filtered by status, oldest first so
// reviewers work the queue in submission order.
func (r *KYCRepository) List(ctx context.Context, status domain.KYCStatus, limit, offset int) ([]*domain.KYCProfile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+kycColumns+`
		FROM kyc_profiles
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at
		LIMIT $2 OFFSET $3`,
		string(status), int32(limit), int32(offset),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*domain.KYCProfile
	for rows.Next() {
		profile, err := scanKYCProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	return profiles, rows.Err()
}

func scanKYCProfile(row pgx.Row) (*domain.KYCProfile, error) {
	var (
		profile    domain.KYCProfile
		createdAt  pgtype.Timestamptz
		verifiedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&profile.ID, &profile.UserID, &profile.DocumentType,
		&profile.DocumentRef, &profile.Status, &profile.VerifiedBy,
		&profile.RejectionReason, &createdAt, &verifiedAt,
	)
	if err != nil {
		return nil, err
	}

	profile.CreatedAt = createdAt.Time
	profile.VerifiedAt = pgTimestamptzToPtr(verifiedAt)

	return &profile, nil
}
