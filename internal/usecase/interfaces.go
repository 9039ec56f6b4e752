package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hijamarkets/backoffice/internal/domain"
)

// RequestRepository defines data access for funding requests.
//
// ApproveIfPending and RejectIfPending must be implemented as atomic
// conditional updates ("... WHERE status = 'PENDING'") so that two
// concurrent reviewers can never both flip the same request.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.FundsRequest) error
	GetByID(ctx context.Context, id string) (*domain.FundsRequest, error)
	ApproveIfPending(ctx context.Context, tx Transaction, id string, direction domain.RequestDirection, approvedBy string, approvedAt time.Time, externalRef string) (*domain.FundsRequest, error)
	RejectIfPending(ctx context.Context, tx Transaction, id string, direction domain.RequestDirection, reviewedBy, reason string, reviewedAt time.Time) (*domain.FundsRequest, error)
	List(ctx context.Context, direction domain.RequestDirection, status domain.RequestStatus, limit, offset int) ([]*domain.FundsRequest, error)
	ListByUser(ctx context.Context, userID string, direction domain.RequestDirection, limit, offset int) ([]*domain.FundsRequest, error)
}

// WalletRepository defines data access for wallets.
//
// DebitIfSufficient combines the balance check and the decrement into one
// conditional update ("... AND available_balance >= $amount") so concurrent
// withdrawals cannot overdraw a wallet.
type WalletRepository interface {
	GetByUser(ctx context.Context, userID, currency string) (*domain.Wallet, error)
	Credit(ctx context.Context, tx Transaction, userID, currency string, amount decimal.Decimal, now time.Time) (*domain.Wallet, error)
	DebitIfSufficient(ctx context.Context, tx Transaction, userID, currency string, amount decimal.Decimal, now time.Time) (*domain.Wallet, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error)
}

// LedgerRepository defines data access for the append-only wallet ledger.
type LedgerRepository interface {
	Append(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.LedgerEntry, error)
	SumByWallet(ctx context.Context, walletID string) (deposits, withdrawals decimal.Decimal, err error)
}

// TradingAccountRepository defines data access for trading-account mirrors.
type TradingAccountRepository interface {
	Create(ctx context.Context, account *domain.TradingAccount) error
	Delete(ctx context.Context, id string) error
	AssignCredentials(ctx context.Context, id, login, server, group string, leverage int, now time.Time) error
	GetByLogin(ctx context.Context, login string) (*domain.TradingAccount, error)
	GetActiveByUser(ctx context.Context, userID string) (*domain.TradingAccount, error)
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal, now time.Time) error
	UpdateLeverage(ctx context.Context, id string, leverage int, now time.Time) error
}

// KYCRepository defines data access for KYC profiles.
type KYCRepository interface {
	GetByID(ctx context.Context, id string) (*domain.KYCProfile, error)
	ApproveIfPending(ctx context.Context, id, verifiedBy string, verifiedAt time.Time) (*domain.KYCProfile, error)
	RejectIfPending(ctx context.Context, id, verifiedBy, reason string, verifiedAt time.Time) (*domain.KYCProfile, error)
	List(ctx context.Context, status domain.KYCStatus, limit, offset int) ([]*domain.KYCProfile, error)
}

// ClientRepository defines data access for clients.
type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	SetStatus(ctx context.Context, id string, status domain.ClientStatus, now time.Time) (*domain.Client, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// TradingBackend is the uniform contract for the external trading-account
// manager. Implementations must never surface a raw connection error from
// Connect; a failed live connection downgrades to the mock backend for the
// rest of the process lifetime.
type TradingBackend interface {
	Connect(ctx context.Context) error
	CreateAccount(ctx context.Context, profile domain.AccountProfile) (*domain.AccountCredentials, error)
	GetAccountInfo(ctx context.Context, login string) (*domain.AccountSummary, error)
	GetOpenPositions(ctx context.Context, login string) ([]*domain.Position, error)
	ApplyBalanceDelta(ctx context.Context, login string, amount decimal.Decimal, reason string) (*domain.BalanceChange, error)
	GetClosedDeals(ctx context.Context, login string, from, to time.Time) ([]*domain.Deal, error)
	ChangeLeverage(ctx context.Context, login string, leverage int) error
	ResetPassword(ctx context.Context, login string) (string, error)
}

// TxRetrier re-runs a transactional operation after a transient database
// failure (deadlock, serialization). Domain errors pass through untouched.
type TxRetrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
