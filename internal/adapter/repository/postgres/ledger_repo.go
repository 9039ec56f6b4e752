package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository. Entries are
// append-only; there is no update or delete path.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Append inserts a ledger entry within a transaction.
func (r *LedgerRepository) Append(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return err
	}

	_, err = target(r.pool, tx).Exec(ctx, `
		INSERT INTO ledger_entries (id, wallet_id, type, amount, currency, request_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.WalletID, string(entry.Type),
		decimalToNumeric(entry.Amount), entry.Currency, entry.RequestID,
		metadata, timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// ListByWallet lists a wallet's entries, newest first.
func (r *LedgerRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, wallet_id, type, amount, currency, request_id, metadata, created_at
		FROM ledger_entries
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, walletID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// SumByWallet totals a wallet's deposits and withdrawals. Reconciliation
// compares the net against the wallet's stored balance.
func (r *LedgerRepository) SumByWallet(ctx context.Context, walletID string) (decimal.Decimal, decimal.Decimal, error) {
	var deposits, withdrawals pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'DEPOSIT'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'WITHDRAWAL'), 0)
		FROM ledger_entries
		WHERE wallet_id = $1`, walletID,
	).Scan(&deposits, &withdrawals)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(deposits), numericToDecimal(withdrawals), nil
}

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		entry     domain.LedgerEntry
		amount    pgtype.Numeric
		metadata  []byte
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID, &entry.WalletID, &entry.Type, &amount,
		&entry.Currency, &entry.RequestID, &metadata, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Amount = numericToDecimal(amount)
	entry.CreatedAt = createdAt.Time
	if len(metadata) > 0 {
		_ = json.Unmarshal(metadata, &entry.Metadata)
	}

	return &entry, nil
}
