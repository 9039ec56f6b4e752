package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/usecase"
)

// RequestRepository implements usecase.RequestRepository.
type RequestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository creates a new RequestRepository.
func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

const requestColumns = `id, user_id, direction, amount, currency, method,
	account_number, ifsc_code, account_holder_name, bank_name, upi_id,
	proof_ref, utr_number, external_ref, status, approved_by,
	rejection_reason, created_at, approved_at, paid_at`

// Create inserts a new funding request.
func (r *RequestRepository) Create(ctx context.Context, request *domain.FundsRequest) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO funds_requests (`+requestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		request.ID, request.UserID, string(request.Direction),
		decimalToNumeric(request.Amount), request.Currency, string(request.Method),
		request.AccountNumber, request.IFSCCode, request.AccountHolderName,
		request.BankName, request.UPIID, request.ProofRef, request.UTRNumber,
		request.ExternalRef, string(request.Status), request.ApprovedBy,
		request.RejectionReason, timeToPgTimestamptz(request.CreatedAt),
		timePtrToPgTimestamptz(request.ApprovedAt), timePtrToPgTimestamptz(request.PaidAt),
	)

	return err
}

// GetByID retrieves a funding request by ID.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.FundsRequest, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+requestColumns+`
		FROM funds_requests
		WHERE id = $1`, id)

	request, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	return request, nil
}

// ApproveIfPending flips a pending request to APPROVED. The status guard in
// the WHERE clause makes the flip atomic: whichever reviewer commits first
// wins, the other sees zero rows. Withdrawals also get paid_at stamped.
func (r *RequestRepository) ApproveIfPending(ctx context.Context, tx usecase.Transaction, id string, direction domain.RequestDirection, approvedBy string, approvedAt time.Time, externalRef string) (*domain.FundsRequest, error) {
	row := target(r.pool, tx).QueryRow(ctx, `
		UPDATE funds_requests
		SET status = $1,
		    approved_by = $2,
		    approved_at = $3,
		    external_ref = $4,
		    paid_at = CASE WHEN direction = 'WITHDRAWAL' THEN $3 ELSE paid_at END
		WHERE id = $5
		  AND direction = $6
		  AND status = 'PENDING'
		RETURNING `+requestColumns,
		string(domain.RequestStatusApproved), approvedBy,
		timeToPgTimestamptz(approvedAt), externalRef, id, string(direction),
	)

	request, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyMiss(ctx, tx, id, direction)
		}
		return nil, err
	}

	return request, nil
}

// RejectIfPending flips a pending request to REJECTED with the same
// conditional-update guard as ApproveIfPending.
func (r *RequestRepository) RejectIfPending(ctx context.Context, tx usecase.Transaction, id string, direction domain.RequestDirection, reviewedBy, reason string, reviewedAt time.Time) (*domain.FundsRequest, error) {
	row := target(r.pool, tx).QueryRow(ctx, `
		UPDATE funds_requests
		SET status = $1,
		    approved_by = $2,
		    rejection_reason = $3
		WHERE id = $4
		  AND direction = $5
		  AND status = 'PENDING'
		RETURNING `+requestColumns,
		string(domain.RequestStatusRejected), reviewedBy, reason, id, string(direction),
	)

	request, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyMiss(ctx, tx, id, direction)
		}
		return nil, err
	}

	return request, nil
}

// classifyMiss disambiguates a zero-row conditional update: the request is
// either absent (or the wrong direction) or already processed.
func (r *RequestRepository) classifyMiss(ctx context.Context, tx usecase.Transaction, id string, direction domain.RequestDirection) error {
	var status string
	err := target(r.pool, tx).QueryRow(ctx, `
		SELECT status FROM funds_requests WHERE id = $1 AND direction = $2`,
		id, string(direction),
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRequestNotFound
		}
		return err
	}

	return domain.ErrRequestAlreadyProcessed
}

// List lists funding requests for review screens, newest first. Empty
// direction or status means no filter.
func (r *RequestRepository) List(ctx context.Context, direction domain.RequestDirection, status domain.RequestStatus, limit, offset int) ([]*domain.FundsRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM funds_requests
		WHERE ($1 = '' OR direction = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		string(direction), string(status), int32(limit), int32(offset),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRequests(rows)
}

// ListByUser lists a single client's funding requests, newest first.
func (r *RequestRepository) ListByUser(ctx context.Context, userID string, direction domain.RequestDirection, limit, offset int) ([]*domain.FundsRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM funds_requests
		WHERE user_id = $1
		  AND ($2 = '' OR direction = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		userID, string(direction), int32(limit), int32(offset),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRequests(rows)
}

func scanRequest(row pgx.Row) (*domain.FundsRequest, error) {
	var (
		request    domain.FundsRequest
		amount     pgtype.Numeric
		createdAt  pgtype.Timestamptz
		approvedAt pgtype.Timestamptz
		paidAt     pgtype.Timestamptz
	)

	err := row.Scan(
		&request.ID, &request.UserID, &request.Direction, &amount,
		&request.Currency, &request.Method, &request.AccountNumber,
		&request.IFSCCode, &request.AccountHolderName, &request.BankName,
		&request.UPIID, &request.ProofRef, &request.UTRNumber,
		&request.ExternalRef, &request.Status, &request.ApprovedBy,
		&request.RejectionReason, &createdAt, &approvedAt, &paidAt,
	)
	if err != nil {
		return nil, err
	}

	request.Amount = numericToDecimal(amount)
	request.CreatedAt = createdAt.Time
	request.ApprovedAt = pgTimestamptzToPtr(approvedAt)
	request.PaidAt = pgTimestamptzToPtr(paidAt)

	return &request, nil
}

func scanRequests(rows pgx.Rows) ([]*domain.FundsRequest, error) {
	var requests []*domain.FundsRequest
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, rows.Err()
}
