package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/infrastructure/metrics"
)

// AccountUseCase manages trading accounts on the external backend and the
// local mirror rows that back-office screens read from.
type AccountUseCase struct {
	tradingRepo TradingAccountRepository
	clientRepo  ClientRepository
	auditRepo   AuditRepository
	backend     TradingBackend
	cache       Cache
	idGen       IDGenerator
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	tradingRepo TradingAccountRepository,
	clientRepo ClientRepository,
	auditRepo AuditRepository,
	backend TradingBackend,
	cache Cache,
	idGen IDGenerator,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *AccountUseCase {
	return &AccountUseCase{
		tradingRepo: tradingRepo,
		clientRepo:  clientRepo,
		auditRepo:   auditRepo,
		backend:     backend,
		cache:       cache,
		idGen:       idGen,
		metrics:     m,
		logger:      logger,
	}
}

// OpenAccountInput represents input for opening a trading account.
type OpenAccountInput struct {
	UserID      string
	AccountType string
	Leverage    int
}

// OpenAccountResult carries the one-time credentials back to the caller.
type OpenAccountResult struct {
	Account  *domain.TradingAccount
	Password string
}

// OpenAccount provisions a trading account for a client. The local mirror
// row is created first and compensated (deleted) if the backend refuses the
// account, so a backend failure never leaves an orphaned local row.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*OpenAccountResult, error) {
	client, err := uc.clientRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Leverage <= 0 {
		input.Leverage = 100
	}
	if input.AccountType == "" {
		input.AccountType = "Standard"
	}

	now := time.Now().UTC()
	account := &domain.TradingAccount{
		ID:        uc.idGen.Generate(),
		UserID:    client.ID,
		AccGroup:  input.AccountType,
		Leverage:  input.Leverage,
		Balance:   decimal.Zero,
		Equity:    decimal.Zero,
		Status:    domain.TradingAccountActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.tradingRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	creds, err := uc.backend.CreateAccount(ctx, domain.AccountProfile{
		Name:        client.Name,
		Email:       client.Email,
		AccountType: input.AccountType,
		Leverage:    input.Leverage,
	})
	if err != nil {
		// Compensate: the backend never saw this account, so the local
		// row must not survive.
		if delErr := uc.tradingRepo.Delete(ctx, account.ID); delErr != nil {
			uc.logger.Error().
				Err(delErr).
				Str("account_id", account.ID).
				Msg("failed to roll back trading account after backend refusal")
		}

		return nil, err
	}

	account.Login = creds.Login
	account.Server = creds.Server
	account.AccGroup = creds.Group
	account.Leverage = creds.Leverage
	account.UpdatedAt = time.Now().UTC()

	if err := uc.tradingRepo.AssignCredentials(ctx, account.ID, creds.Login, creds.Server, creds.Group, creds.Leverage, account.UpdatedAt); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsProvisioned.Inc()
	}

	uc.logger.Info().
		Str("user_id", client.ID).
		Str("login", account.Login).
		Str("group", account.AccGroup).
		Msg("trading account provisioned")

	if uc.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       client.ID,
			Action:       string(domain.AuditActionAccountOpen),
			ResourceType: domain.AggregateTypeTradingAccount,
			ResourceID:   account.ID,
			AfterState:   domain.MarshalState(account),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    account.UpdatedAt,
		}
		if err := uc.auditRepo.Create(ctx, auditLog); err != nil {
			uc.logger.Warn().Err(err).Str("account_id", account.ID).Msg("audit log write failed")
		}
	}

	return &OpenAccountResult{Account: account, Password: creds.Password}, nil
}

// GetAccountSummary returns the backend's margin view of an account,
// cached briefly for dashboard reads. Backend failure degrades to a zeroed
// summary: partial data beats a broken page.
func (uc *AccountUseCase) GetAccountSummary(ctx context.Context, login string) (*domain.AccountSummary, error) {
	if _, err := uc.tradingRepo.GetByLogin(ctx, login); err != nil {
		return nil, err
	}

	cacheKey := "account_summary:" + login
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, cacheKey); err == nil {
			var summary domain.AccountSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	summary, err := uc.backend.GetAccountInfo(ctx, login)
	if err != nil {
		uc.logger.Warn().
			Err(err).
			Str("login", login).
			Msg("account summary degraded to zeros: trading backend unavailable")

		return &domain.AccountSummary{Login: login}, nil
	}

	if uc.cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, string(data), AccountSummaryCacheTTL)
		}
	}

	return summary, nil
}

// GetPositions returns the open positions on an account. Backend failure
// degrades to an empty list.
func (uc *AccountUseCase) GetPositions(ctx context.Context, login string) ([]*domain.Position, error) {
	if _, err := uc.tradingRepo.GetByLogin(ctx, login); err != nil {
		return nil, err
	}

	positions, err := uc.backend.GetOpenPositions(ctx, login)
	if err != nil {
		uc.logger.Warn().
			Err(err).
			Str("login", login).
			Msg("positions degraded to empty: trading backend unavailable")

		return []*domain.Position{}, nil
	}

	return positions, nil
}

// GetTradingHistory returns the closed deals on an account for a date
// range. Backend failure degrades to an empty list.
func (uc *AccountUseCase) GetTradingHistory(ctx context.Context, login string, from, to time.Time) ([]*domain.Deal, error) {
	if _, err := uc.tradingRepo.GetByLogin(ctx, login); err != nil {
		return nil, err
	}

	deals, err := uc.backend.GetClosedDeals(ctx, login, from, to)
	if err != nil {
		uc.logger.Warn().
			Err(err).
			Str("login", login).
			Msg("trading history degraded to empty: trading backend unavailable")

		return []*domain.Deal{}, nil
	}

	return deals, nil
}

// ChangeLeverage updates leverage on the backend and the local mirror.
func (uc *AccountUseCase) ChangeLeverage(ctx context.Context, login string, leverage int) (*domain.TradingAccount, error) {
	account, err := uc.tradingRepo.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}

	if err := uc.backend.ChangeLeverage(ctx, login, leverage); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.tradingRepo.UpdateLeverage(ctx, account.ID, leverage, now); err != nil {
		return nil, err
	}

	account.Leverage = leverage
	account.UpdatedAt = now

	return account, nil
}

// ResetPassword issues a fresh trading password for an account.
func (uc *AccountUseCase) ResetPassword(ctx context.Context, login string) (string, error) {
	if _, err := uc.tradingRepo.GetByLogin(ctx, login); err != nil {
		return "", err
	}

	return uc.backend.ResetPassword(ctx, login)
}
