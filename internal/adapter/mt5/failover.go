package mt5

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/infrastructure/metrics"
	"github.com/hijamarkets/backoffice/internal/usecase"
)

// FailoverBackend fronts the live manager API with the mock as a fallback.
// If the live connection cannot be established, the process latches onto
// the mock for its remaining lifetime; the latch is one-way, so a flapping
// manager API cannot mix live and fabricated data within a session.
type FailoverBackend struct {
	live    usecase.TradingBackend
	mock    usecase.TradingBackend
	useMock atomic.Bool
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewFailoverBackend wraps live with mock as the fallback target. Pass
// forceMock to skip the live connection entirely (development setups).
func NewFailoverBackend(live, mock usecase.TradingBackend, forceMock bool, m *metrics.Metrics, logger zerolog.Logger) *FailoverBackend {
	b := &FailoverBackend{
		live:    live,
		mock:    mock,
		metrics: m,
		logger:  logger,
	}
	b.useMock.Store(forceMock)
	return b
}

// Connect establishes the live session, retrying briefly before latching
// onto the mock. Connect never returns an error: a broker back office must
// come up even when the trading server is down.
func (b *FailoverBackend) Connect(ctx context.Context) error {
	if b.useMock.Load() {
		return b.mock.Connect(ctx)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 15 * time.Second

	err := backoff.Retry(func() error {
		return b.live.Connect(ctx)
	}, backoff.WithContext(bo, ctx))
	if err == nil {
		return nil
	}

	b.logger.Warn().
		Err(err).
		Msg("mt5 manager api unreachable, falling back to mock backend")

	if b.metrics != nil {
		b.metrics.BackendFallbacks.Inc()
	}

	b.useMock.Store(true)

	return b.mock.Connect(ctx)
}

// Mode reports which backend is serving requests.
func (b *FailoverBackend) Mode() string {
	if b.useMock.Load() {
		return "mock"
	}
	return "live"
}

func (b *FailoverBackend) current() usecase.TradingBackend {
	if b.useMock.Load() {
		return b.mock
	}
	return b.live
}

func (b *FailoverBackend) record(op string, err error) {
	if b.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	b.metrics.BackendOps.WithLabelValues(op, b.Mode(), status).Inc()
}

func (b *FailoverBackend) CreateAccount(ctx context.Context, profile domain.AccountProfile) (*domain.AccountCredentials, error) {
	creds, err := b.current().CreateAccount(ctx, profile)
	b.record("create_account", err)
	return creds, err
}

func (b *FailoverBackend) GetAccountInfo(ctx context.Context, login string) (*domain.AccountSummary, error) {
	summary, err := b.current().GetAccountInfo(ctx, login)
	b.record("get_account_info", err)
	return summary, err
}

func (b *FailoverBackend) GetOpenPositions(ctx context.Context, login string) ([]*domain.Position, error) {
	positions, err := b.current().GetOpenPositions(ctx, login)
	b.record("get_open_positions", err)
	return positions, err
}

func (b *FailoverBackend) ApplyBalanceDelta(ctx context.Context, login string, amount decimal.Decimal, reason string) (*domain.BalanceChange, error) {
	change, err := b.current().ApplyBalanceDelta(ctx, login, amount, reason)
	b.record("apply_balance_delta", err)
	return change, err
}

func (b *FailoverBackend) GetClosedDeals(ctx context.Context, login string, from, to time.Time) ([]*domain.Deal, error) {
	deals, err := b.current().GetClosedDeals(ctx, login, from, to)
	b.record("get_closed_deals", err)
	return deals, err
}

func (b *FailoverBackend) ChangeLeverage(ctx context.Context, login string, leverage int) error {
	err := b.current().ChangeLeverage(ctx, login, leverage)
	b.record("change_leverage", err)
	return err
}

func (b *FailoverBackend) ResetPassword(ctx context.Context, login string) (string, error) {
	password, err := b.current().ResetPassword(ctx, login)
	b.record("reset_password", err)
	return password, err
}
