package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradingAccountStatus is the lifecycle state of an external trading account.
type TradingAccountStatus string

const (
	TradingAccountActive   TradingAccountStatus = "ACTIVE"
	TradingAccountDisabled TradingAccountStatus = "DISABLED"
)

// TradingAccount mirrors an account hosted on the external trading backend.
// Balance and equity are advisory caches; the backend remains the source of
// truth for actual tradable equity.
type TradingAccount struct {
	ID       string
	UserID   string
	Login    string
	Server   string
	AccGroup string
	Leverage int
	Balance  decimal.Decimal
	Equity   decimal.Decimal
	Status   TradingAccountStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccountProfile is the input for opening a trading account on the backend.
type AccountProfile struct {
	Name        string
	Email       string
	AccountType string
	Leverage    int
}

// AccountCredentials is what the backend returns for a newly created account.
type AccountCredentials struct {
	Login    string
	Password string
	Server   string
	Group    string
	Leverage int
}

// AccountSummary is a point-in-time view of a trading account's margin state.
type AccountSummary struct {
	Login       string
	Balance     decimal.Decimal
	Equity      decimal.Decimal
	Margin      decimal.Decimal
	FreeMargin  decimal.Decimal
	MarginLevel decimal.Decimal
	Credit      decimal.Decimal
	Leverage    int
	Group       string
}

// PositionSide is the direction of an open position.
type PositionSide string

const (
	PositionBuy  PositionSide = "BUY"
	PositionSell PositionSide = "SELL"
)

// Position is a single open position on the trading backend.
type Position struct {
	Ticket       int64
	Symbol       string
	Side         PositionSide
	Volume       decimal.Decimal
	OpenPrice    decimal.Decimal
	CurrentPrice decimal.Decimal
	Profit       decimal.Decimal
	OpenTime     time.Time
	StopLoss     decimal.Decimal
	TakeProfit   decimal.Decimal
}

// BalanceChange is the backend's receipt for a balance mutation.
type BalanceChange struct {
	NewBalance    decimal.Decimal
	TransactionID string
}

// Deal is a closed trade from the backend's history.
type Deal struct {
	Ticket     int64
	Order      int64
	Symbol     string
	Side       PositionSide
	Volume     decimal.Decimal
	Price      decimal.Decimal
	Profit     decimal.Decimal
	Commission decimal.Decimal
	Swap       decimal.Decimal
	Time       time.Time
}
