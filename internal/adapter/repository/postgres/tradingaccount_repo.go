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
)

// TradingAccountRepository implements usecase.TradingAccountRepository.
type TradingAccountRepository struct {
	pool *pgxpool.Pool
}

// NewTradingAccountRepository creates a new TradingAccountRepository.
func NewTradingAccountRepository(pool *pgxpool.Pool) *TradingAccountRepository {
	return &TradingAccountRepository{pool: pool}
}

const tradingAccountColumns = `id, user_id, login, server, acc_group, leverage, balance, equity, status, created_at, updated_at`

// Create inserts a trading-account mirror row.
func (r *TradingAccountRepository) Create(ctx context.Context, account *domain.TradingAccount) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO trading_accounts (`+tradingAccountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		account.ID, account.UserID, account.Login, account.Server,
		account.AccGroup, account.Leverage, decimalToNumeric(account.Balance),
		decimalToNumeric(account.Equity), string(account.Status),
		timeToPgTimestamptz(account.CreatedAt), timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// Delete removes a mirror row. Used only to compensate a failed
// provisioning saga; settled accounts are disabled, never deleted.
func (r *TradingAccountRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM trading_accounts WHERE id = $1`, id)
	return err
}

// AssignCredentials fills in the backend-issued identity after a
// successful provisioning call.
func (r *TradingAccountRepository) AssignCredentials(ctx context.Context, id, login, server, group string, leverage int, now time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE trading_accounts
		SET login = $1, server = $2, acc_group = $3, leverage = $4, updated_at = $5
		WHERE id = $6`,
		login, server, group, leverage, timeToPgTimestamptz(now), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTradingAccountNotFound
	}

	return nil
}

// GetByLogin retrieves a mirror row by its backend login.
func (r *TradingAccountRepository) GetByLogin(ctx context.Context, login string) (*domain.TradingAccount, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+tradingAccountColumns+`
		FROM trading_accounts
		WHERE login = $1`, login)

	account, err := scanTradingAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTradingAccountNotFound
		}
		return nil, err
	}

	return account, nil
}

// GetActiveByUser retrieves a client's active trading account.
func (r *TradingAccountRepository) GetActiveByUser(ctx context.Context, userID string) (*domain.TradingAccount, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+tradingAccountColumns+`
		FROM trading_accounts
		WHERE user_id = $1 AND status = 'ACTIVE'
		ORDER BY created_at
		LIMIT 1`, userID)

	account, err := scanTradingAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTradingAccountNotFound
		}
		return nil, err
	}

	return account, nil
}

// AdjustBalance moves the advisory balance cache by delta.
func (r *TradingAccountRepository) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal, now time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE trading_accounts
		SET balance = balance + $1, updated_at = $2
		WHERE id = $3`,
		decimalToNumeric(delta), timeToPgTimestamptz(now), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTradingAccountNotFound
	}

	return nil
}

// UpdateLeverage records a leverage change on the mirror.
func (r *TradingAccountRepository) UpdateLeverage(ctx context.Context, id string, leverage int, now time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE trading_accounts
		SET leverage = $1, updated_at = $2
		WHERE id = $3`,
		leverage, timeToPgTimestamptz(now), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTradingAccountNotFound
	}

	return nil
}

func scanTradingAccount(row pgx.Row) (*domain.TradingAccount, error) {
	var (
		account   domain.TradingAccount
		balance   pgtype.Numeric
		equity    pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&account.ID, &account.UserID, &account.Login, &account.Server,
		&account.AccGroup, &account.Leverage, &balance, &equity,
		&account.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.Balance = numericToDecimal(balance)
	account.Equity = numericToDecimal(equity)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}
