package mt5

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/hijamarkets/backoffice/internal/domain"
)

// LiveConfig holds connection settings for the MT5 manager API.
type LiveConfig struct {
	APIURL          string
	ManagerLogin    string
	ManagerPassword string
	Timeout         time.Duration
}

// LiveBackend talks to the MT5 manager HTTP API. All responses share the
// manager envelope: a retcode (0 means success), an answer payload and an
// optional error string.
type LiveBackend struct {
	cfg    LiveConfig
	client *http.Client
	logger zerolog.Logger

	mu    sync.RWMutex
	token string
}

// NewLiveBackend creates a live backend. Connect must be called before any
// account operation.
func NewLiveBackend(cfg LiveConfig, logger zerolog.Logger) *LiveBackend {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &LiveBackend{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type managerEnvelope struct {
	Retcode int             `json:"retcode"`
	Answer  json.RawMessage `json:"answer"`
	Error   string          `json:"error"`
	Token   string          `json:"token"`
	Session string          `json:"session"`
	Success bool            `json:"success"`
}

// Connect authenticates against the manager API and stores the session
// token for subsequent calls.
func (b *LiveBackend) Connect(ctx context.Context) error {
	env, err := b.post(ctx, "/auth/login", map[string]any{
		"login":    b.cfg.ManagerLogin,
		"password": b.cfg.ManagerPassword,
	}, false)
	if err != nil {
		return err
	}

	if env.Retcode != 0 && !env.Success {
		return fmt.Errorf("mt5 manager authentication failed: retcode %d", env.Retcode)
	}

	token := env.Token
	if token == "" {
		token = env.Session
	}

	b.mu.Lock()
	b.token = token
	b.mu.Unlock()

	b.logger.Info().Str("api_url", b.cfg.APIURL).Msg("connected to mt5 manager api")

	return nil
}

type userAnswer struct {
	Login       json.Number `json:"login"`
	Password    string      `json:"password"`
	Server      string      `json:"server"`
	Balance     json.Number `json:"balance"`
	Equity      json.Number `json:"equity"`
	Margin      json.Number `json:"margin"`
	MarginFree  json.Number `json:"margin_free"`
	MarginLevel json.Number `json:"margin_level"`
	Credit      json.Number `json:"credit"`
	Leverage    int         `json:"leverage"`
	Group       string      `json:"group"`
}

// CreateAccount provisions a user on the trading server.
func (b *LiveBackend) CreateAccount(ctx context.Context, profile domain.AccountProfile) (*domain.AccountCredentials, error) {
	leverage := profile.Leverage
	if leverage <= 0 {
		leverage = 100
	}

	env, err := b.post(ctx, "/user/add", map[string]any{
		"name":                   profile.Name,
		"email":                  profile.Email,
		"group":                  profile.AccountType,
		"leverage":               leverage,
		"balance":                0,
		"currency":               "USD",
		"enable":                 1,
		"enable_change_password": 1,
	}, true)
	if err != nil {
		return nil, err
	}
	if env.Retcode != 0 {
		return nil, envelopeError(env, "create account")
	}

	var answer userAnswer
	if err := json.Unmarshal(env.Answer, &answer); err != nil {
		return nil, fmt.Errorf("decode user/add answer: %w", err)
	}

	return &domain.AccountCredentials{
		Login:    answer.Login.String(),
		Password: answer.Password,
		Server:   answer.Server,
		Group:    profile.AccountType,
		Leverage: leverage,
	}, nil
}

// GetAccountInfo reads the current margin state of an account.
func (b *LiveBackend) GetAccountInfo(ctx context.Context, login string) (*domain.AccountSummary, error) {
	env, err := b.post(ctx, "/user/get", map[string]any{
		"login": mustInt(login),
	}, true)
	if err != nil {
		return nil, err
	}
	if env.Retcode != 0 {
		return nil, envelopeError(env, "get account")
	}

	var answer userAnswer
	if err := json.Unmarshal(env.Answer, &answer); err != nil {
		return nil, fmt.Errorf("decode user/get answer: %w", err)
	}

	return &domain.AccountSummary{
		Login:       answer.Login.String(),
		Balance:     numberToDecimal(answer.Balance),
		Equity:      numberToDecimal(answer.Equity),
		Margin:      numberToDecimal(answer.Margin),
		FreeMargin:  numberToDecimal(answer.MarginFree),
		MarginLevel: numberToDecimal(answer.MarginLevel),
		Credit:      numberToDecimal(answer.Credit),
		Leverage:    answer.Leverage,
		Group:       answer.Group,
	}, nil
}

type positionAnswer struct {
	Position     int64       `json:"position"`
	Symbol       string      `json:"symbol"`
	Action       int         `json:"action"`
	Volume       json.Number `json:"volume"`
	PriceOpen    json.Number `json:"price_open"`
	PriceCurrent json.Number `json:"price_current"`
	Profit       json.Number `json:"profit"`
	Time         int64       `json:"time"`
	PriceSL      json.Number `json:"price_sl"`
	PriceTP      json.Number `json:"price_tp"`
}

// GetOpenPositions lists the open positions on an account. The manager API
// reports volume in 1/10000 lot units.
func (b *LiveBackend) GetOpenPositions(ctx context.Context, login string) ([]*domain.Position, error) {
	env, err := b.post(ctx, "/position/get", map[string]any{
		"login": mustInt(login),
	}, true)
	if err != nil {
		return nil, err
	}
	if env.Retcode != 0 || env.Answer == nil {
		return []*domain.Position{}, nil
	}

	var answers []positionAnswer
	if err := json.Unmarshal(env.Answer, &answers); err != nil {
		return nil, fmt.Errorf("decode position/get answer: %w", err)
	}

	positions := make([]*domain.Position, 0, len(answers))
	for _, a := range answers {
		side := domain.PositionBuy
		if a.Action != 0 {
			side = domain.PositionSell
		}

		positions = append(positions, &domain.Position{
			Ticket:       a.Position,
			Symbol:       a.Symbol,
			Side:         side,
			Volume:       numberToDecimal(a.Volume).Div(decimal.NewFromInt(10000)),
			OpenPrice:    numberToDecimal(a.PriceOpen),
			CurrentPrice: numberToDecimal(a.PriceCurrent),
			Profit:       numberToDecimal(a.Profit),
			OpenTime:     time.Unix(a.Time, 0).UTC(),
			StopLoss:     numberToDecimal(a.PriceSL),
			TakeProfit:   numberToDecimal(a.PriceTP),
		})
	}

	return positions, nil
}

type balanceAnswer struct {
	Balance json.Number `json:"balance"`
	Deal    json.Number `json:"deal"`
}

// ApplyBalanceDelta performs a type-2 balance operation. A negative amount
// withdraws, a positive amount deposits.
func (b *LiveBackend) ApplyBalanceDelta(ctx context.Context, login string, amount decimal.Decimal, reason string) (*domain.BalanceChange, error) {
	amt, _ := amount.Float64()

	env, err := b.post(ctx, "/trade/balance", map[string]any{
		"login":   mustInt(login),
		"type":    2,
		"balance": amt,
		"comment": reason,
	}, true)
	if err != nil {
		return nil, err
	}
	if env.Retcode != 0 {
		return nil, envelopeError(env, "balance operation")
	}

	var answer balanceAnswer
	if err := json.Unmarshal(env.Answer, &answer); err != nil {
		return nil, fmt.Errorf("decode trade/balance answer: %w", err)
	}

	txnID := answer.Deal.String()
	if txnID == "" {
		txnID = fmt.Sprintf("TXN%d", time.Now().UnixMilli())
	}

	return &domain.BalanceChange{
		NewBalance:    numberToDecimal(answer.Balance),
		TransactionID: txnID,
	}, nil
}

type dealAnswer struct {
	Deal       int64       `json:"deal"`
	Order      int64       `json:"order"`
	Symbol     string      `json:"symbol"`
	Action     int         `json:"action"`
	Volume     json.Number `json:"volume"`
	Price      json.Number `json:"price"`
	Profit     json.Number `json:"profit"`
	Commission json.Number `json:"commission"`
	Storage    json.Number `json:"storage"`
	Time       int64       `json:"time"`
}

// GetClosedDeals reads the deal history for a date range.
func (b *LiveBackend) GetClosedDeals(ctx context.Context, login string, from, to time.Time) ([]*domain.Deal, error) {
	env, err := b.post(ctx, "/deal/get", map[string]any{
		"login": mustInt(login),
		"from":  from.Unix(),
		"to":    to.Unix(),
	}, true)
	if err != nil {
		return nil, err
	}
	if env.Retcode != 0 || env.Answer == nil {
		return []*domain.Deal{}, nil
	}

	var answers []dealAnswer
	if err := json.Unmarshal(env.Answer, &answers); err != nil {
		return nil, fmt.Errorf("decode deal/get answer: %w", err)
	}

	deals := make([]*domain.Deal, 0, len(answers))
	for _, a := range answers {
		side := domain.PositionBuy
		if a.Action != 0 {
			side = domain.PositionSell
		}

		deals = append(deals, &domain.Deal{
			Ticket:     a.Deal,
			Order:      a.Order,
			Symbol:     a.Symbol,
			Side:       side,
			Volume:     numberToDecimal(a.Volume).Div(decimal.NewFromInt(10000)),
			Price:      numberToDecimal(a.Price),
			Profit:     numberToDecimal(a.Profit),
			Commission: numberToDecimal(a.Commission),
			Swap:       numberToDecimal(a.Storage),
			Time:       time.Unix(a.Time, 0).UTC(),
		})
	}

	return deals, nil
}

// ChangeLeverage updates the account leverage.
func (b *LiveBackend) ChangeLeverage(ctx context.Context, login string, leverage int) error {
	env, err := b.post(ctx, "/user/update", map[string]any{
		"login":    mustInt(login),
		"leverage": leverage,
	}, true)
	if err != nil {
		return err
	}
	if env.Retcode != 0 {
		return envelopeError(env, "change leverage")
	}
	return nil
}

// ResetPassword sets a freshly generated password on the account and
// returns it.
func (b *LiveBackend) ResetPassword(ctx context.Context, login string) (string, error) {
	password := generatePassword()

	env, err := b.post(ctx, "/user/update", map[string]any{
		"login":                  mustInt(login),
		"password":               password,
		"change_password_invest": 1,
	}, true)
	if err != nil {
		return "", err
	}
	if env.Retcode != 0 {
		return "", envelopeError(env, "reset password")
	}

	return password, nil
}

func (b *LiveBackend) post(ctx context.Context, path string, payload map[string]any, authed bool) (*managerEnvelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.APIURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		b.mu.RLock()
		token := b.token
		b.mu.RUnlock()
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mt5 manager request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("mt5 manager request %s: status %d", path, resp.StatusCode)
	}

	var env managerEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}

	return &env, nil
}

func envelopeError(env *managerEnvelope, op string) error {
	if env.Error != "" {
		return fmt.Errorf("mt5 %s failed: %s", op, env.Error)
	}
	return fmt.Errorf("mt5 %s failed: retcode %d", op, env.Retcode)
}

func mustInt(login string) int64 {
	n, _ := strconv.ParseInt(login, 10, 64)
	return n
}

func numberToDecimal(n json.Number) decimal.Decimal {
	if n == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}
