package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

const auditColumns = `id, user_id, action, resource_type, resource_id, request_id, before_state, after_state, status, error_message, created_at`

// Create inserts an audit log outside any transaction.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	return r.insert(ctx, r.pool, log)
}

// CreateTx inserts an audit log within a transaction, so the trail commits
// or rolls back together with the action it records.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return r.insert(ctx, target(r.pool, tx), log)
}

func (r *AuditRepository) insert(ctx context.Context, db dbtx, log *domain.AuditLog) error {
	before, err := marshalJSON(log.BeforeState)
	if err != nil {
		return err
	}
	after, err := marshalJSON(log.AfterState)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, `
		INSERT INTO audit_logs (`+auditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		log.ID, log.UserID, log.Action, log.ResourceType, log.ResourceID,
		log.RequestID, before, after, log.Status, log.ErrorMessage,
		timeToPgTimestamptz(log.CreatedAt),
	)

	return err
}

// List queries audit logs with the given filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE 1=1`
	args := []any{}
	argn := 0

	addArg := func(clause string, value any) {
		argn++
		query += fmt.Sprintf(" AND %s = $%d", clause, argn)
		args = append(args, value)
	}

	if filter.UserID != "" {
		addArg("user_id", filter.UserID)
	}
	if filter.Action != "" {
		addArg("action", filter.Action)
	}
	if filter.ResourceType != "" {
		addArg("resource_type", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		addArg("resource_id", filter.ResourceID)
	}
	if filter.StartDate != nil {
		argn++
		query += fmt.Sprintf(" AND created_at >= $%d", argn)
		args = append(args, timeToPgTimestamptz(*filter.StartDate))
	}
	if filter.EndDate != nil {
		argn++
		query += fmt.Sprintf(" AND created_at <= $%d", argn)
		args = append(args, timeToPgTimestamptz(*filter.EndDate))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argn+1, argn+2)
	args = append(args, int32(limit), int32(filter.Offset))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		log, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

func scanAuditLog(row pgx.Row) (*domain.AuditLog, error) {
	var (
		log       domain.AuditLog
		before    []byte
		after     []byte
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&log.ID, &log.UserID, &log.Action, &log.ResourceType,
		&log.ResourceID, &log.RequestID, &before, &after,
		&log.Status, &log.ErrorMessage, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	log.CreatedAt = createdAt.Time
	if len(before) > 0 {
		_ = json.Unmarshal(before, &log.BeforeState)
	}
	if len(after) > 0 {
		_ = json.Unmarshal(after, &log.AfterState)
	}

	return &log, nil
}

func marshalJSON(state domain.JSON) ([]byte, error) {
	if state == nil {
		return nil, nil
	}
	return json.Marshal(state)
}
