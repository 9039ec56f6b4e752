package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	pool  *pgxpool.Pool
	idGen usecase.IDGenerator
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool, idGen usecase.IDGenerator) *WalletRepository {
	return &WalletRepository{pool: pool, idGen: idGen}
}

const walletColumns = `id, user_id, currency, available_balance, locked_balance, created_at, updated_at`

// GetByUser retrieves a client's wallet in the given currency.
func (r *WalletRepository) GetByUser(ctx context.Context, userID, currency string) (*domain.Wallet, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+walletColumns+`
		FROM wallets
		WHERE user_id = $1 AND currency = $2`, userID, currency)

	wallet, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}

	return wallet, nil
}

// Credit adds to a wallet's available balance, creating the wallet on first
// deposit. The upsert keys on (user_id, currency).
func (r *WalletRepository) Credit(ctx context.Context, tx usecase.Transaction, userID, currency string, amount decimal.Decimal, now time.Time) (*domain.Wallet, error) {
	row := target(r.pool, tx).QueryRow(ctx, `
		INSERT INTO wallets (id, user_id, currency, available_balance, locked_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $5)
		ON CONFLICT (user_id, currency) DO UPDATE
		SET available_balance = wallets.available_balance + EXCLUDED.available_balance,
		    updated_at = EXCLUDED.updated_at
		RETURNING `+walletColumns,
		r.idGen.Generate(), userID, currency, decimalToNumeric(amount), timeToPgTimestamptz(now),
	)

	return scanWallet(row)
}

// DebitIfSufficient subtracts from a wallet's available balance. The
// balance guard lives in the WHERE clause, so concurrent withdrawals
// serialize on the row and the loser of a race sees zero rows instead of a
// negative balance.
func (r *WalletRepository) DebitIfSufficient(ctx context.Context, tx usecase.Transaction, userID, currency string, amount decimal.Decimal, now time.Time) (*domain.Wallet, error) {
	row := target(r.pool, tx).QueryRow(ctx, `
		UPDATE wallets
		SET available_balance = available_balance - $1,
		    updated_at = $2
		WHERE user_id = $3
		  AND currency = $4
		  AND available_balance >= $1
		RETURNING `+walletColumns,
		decimalToNumeric(amount), timeToPgTimestamptz(now), userID, currency,
	)

	wallet, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyDebitMiss(ctx, tx, userID, currency)
		}
		return nil, err
	}

	return wallet, nil
}

func (r *WalletRepository) classifyDebitMiss(ctx context.Context, tx usecase.Transaction, userID, currency string) error {
	var exists bool
	err := target(r.pool, tx).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM wallets WHERE user_id = $1 AND currency = $2)`,
		userID, currency,
	).Scan(&exists)
	if err != nil {
		return err
	}

	if !exists {
		return domain.ErrWalletNotFound
	}

	return domain.ErrInsufficientFunds
}

// List lists wallets for the back-office overview.
func (r *WalletRepository) List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+walletColumns+`
		FROM wallets
		ORDER BY created_at
		LIMIT $1 OFFSET $2`, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []*domain.Wallet
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}

	return wallets, rows.Err()
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		wallet    domain.Wallet
		available pgtype.Numeric
		locked    pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&wallet.ID, &wallet.UserID, &wallet.Currency,
		&available, &locked, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	wallet.AvailableBalance = numericToDecimal(available)
	wallet.LockedBalance = numericToDecimal(locked)
	wallet.CreatedAt = createdAt.Time
	wallet.UpdatedAt = updatedAt.Time

	return &wallet, nil
}
