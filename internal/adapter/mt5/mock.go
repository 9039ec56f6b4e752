package mt5

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/hijamarkets/backoffice/internal/domain"
)

// passwordChars excludes ambiguous characters (I, l, O, 0, 1) so support
// staff can read credentials to clients over the phone.
const passwordChars = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789!@#$%"

const passwordLength = 10

var mockSymbols = []string{"EURUSD", "GBPUSD", "USDJPY", "XAUUSD", "BTCUSD"}

// MockBackend is an in-process stand-in for the MT5 manager API. It is used
// in development, in tests, and as the failover target when the live API
// cannot be reached. Generated data is plausible but unrelated to any real
// account state.
type MockBackend struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewMockBackend creates a mock backend with a time-seeded generator.
func NewMockBackend(logger zerolog.Logger) *MockBackend {
	return &MockBackend{
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		logger: logger,
	}
}

// Connect always succeeds.
func (b *MockBackend) Connect(ctx context.Context) error {
	b.logger.Info().Msg("mt5 mock backend connected")
	return nil
}

// CreateAccount returns fresh credentials with a five-digit login.
func (b *MockBackend) CreateAccount(ctx context.Context, profile domain.AccountProfile) (*domain.AccountCredentials, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	leverage := profile.Leverage
	if leverage <= 0 {
		leverage = 100
	}
	group := profile.AccountType
	if group == "" {
		group = "Standard"
	}

	return &domain.AccountCredentials{
		Login:    fmt.Sprintf("%d", b.rng.IntN(90000)+10000),
		Password: b.generatePassword(),
		Server:   "HijaGlobalMarkets-Demo",
		Group:    group,
		Leverage: leverage,
	}, nil
}

// GetAccountInfo fabricates a margin snapshot. Free margin and margin level
// are always internally consistent with the generated equity and margin.
func (b *MockBackend) GetAccountInfo(ctx context.Context, login string) (*domain.AccountSummary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	balance := decimal.NewFromFloat(50000 + b.rng.Float64()*50000).Round(2)
	equity := balance.Add(decimal.NewFromFloat((b.rng.Float64() - 0.5) * 10000)).Round(2)
	margin := decimal.NewFromFloat(b.rng.Float64() * 5000).Round(2)

	marginLevel := decimal.Zero
	if margin.IsPositive() {
		marginLevel = equity.Div(margin).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &domain.AccountSummary{
		Login:       login,
		Balance:     balance,
		Equity:      equity,
		Margin:      margin,
		FreeMargin:  equity.Sub(margin),
		MarginLevel: marginLevel,
		Credit:      decimal.Zero,
		Leverage:    100,
		Group:       "Standard",
	}, nil
}

// GetOpenPositions fabricates up to four open positions. Each position's
// profit is consistent with its prices, volume and side.
func (b *MockBackend) GetOpenPositions(ctx context.Context, login string) ([]*domain.Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := b.rng.IntN(5)
	positions := make([]*domain.Position, 0, count)

	for i := 0; i < count; i++ {
		side := domain.PositionBuy
		sign := int64(1)
		if b.rng.Float64() > 0.5 {
			side = domain.PositionSell
			sign = -1
		}

		openPrice := decimal.NewFromFloat(1.1 + b.rng.Float64()*0.1).Round(5)
		currentPrice := openPrice.Add(decimal.NewFromFloat((b.rng.Float64() - 0.5) * 0.02)).Round(5)
		volume := decimal.NewFromFloat(b.rng.Float64() * 2).Round(2)

		profit := currentPrice.Sub(openPrice).
			Mul(volume).
			Mul(decimal.NewFromInt(100000)).
			Mul(decimal.NewFromInt(sign)).
			Round(2)

		positions = append(positions, &domain.Position{
			Ticket:       int64(b.rng.IntN(9000000) + 1000000),
			Symbol:       mockSymbols[b.rng.IntN(len(mockSymbols))],
			Side:         side,
			Volume:       volume,
			OpenPrice:    openPrice,
			CurrentPrice: currentPrice,
			Profit:       profit,
			OpenTime:     time.Now().Add(-time.Duration(b.rng.IntN(86400)) * time.Second),
			StopLoss:     decimal.Zero,
			TakeProfit:   decimal.Zero,
		})
	}

	return positions, nil
}

// ApplyBalanceDelta acknowledges the mutation with a synthetic receipt.
func (b *MockBackend) ApplyBalanceDelta(ctx context.Context, login string, amount decimal.Decimal, reason string) (*domain.BalanceChange, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	base := decimal.NewFromFloat(b.rng.Float64() * 100000).Round(2)

	return &domain.BalanceChange{
		NewBalance:    base.Add(amount),
		TransactionID: fmt.Sprintf("TXN%d", time.Now().UnixMilli()),
	}, nil
}

// GetClosedDeals returns an empty history.
func (b *MockBackend) GetClosedDeals(ctx context.Context, login string, from, to time.Time) ([]*domain.Deal, error) {
	return []*domain.Deal{}, nil
}

// ChangeLeverage acknowledges the change.
func (b *MockBackend) ChangeLeverage(ctx context.Context, login string, leverage int) error {
	return nil
}

// ResetPassword returns a fresh password.
func (b *MockBackend) ResetPassword(ctx context.Context, login string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generatePassword(), nil
}

func (b *MockBackend) generatePassword() string {
	buf := make([]byte, passwordLength)
	for i := range buf {
		buf[i] = passwordChars[b.rng.IntN(len(passwordChars))]
	}
	return string(buf)
}

// generatePassword is the package-level variant used by the live backend,
// which has no seeded generator of its own.
func generatePassword() string {
	buf := make([]byte, passwordLength)
	for i := range buf {
		buf[i] = passwordChars[rand.IntN(len(passwordChars))]
	}
	return string(buf)
}
