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

// ClientRepository implements usecase.ClientRepository.
type ClientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

const clientColumns = `id, name, email, phone, status, created_at, updated_at`

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE id = $1`, id)

	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}

	return client, nil
}

// SetStatus updates a client's status.
func (r *ClientRepository) SetStatus(ctx context.Context, id string, status domain.ClientStatus, now time.Time) (*domain.Client, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE clients
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING `+clientColumns,
		string(status), timeToPgTimestamptz(now), id,
	)

	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}

	return client, nil
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var (
		client    domain.Client
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&client.ID, &client.Name, &client.Email, &client.Phone,
		&client.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	client.CreatedAt = createdAt.Time
	client.UpdatedAt = updatedAt.Time

	return &client, nil
}
