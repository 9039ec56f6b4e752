package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is the broker-controlled balance record, one per (user, currency).
// It is the source of truth for funds available to withdraw; the external
// trading-account balance is only a mirror.
type Wallet struct {
	ID               string
	UserID           string
	Currency         string
	AvailableBalance decimal.Decimal
	LockedBalance    decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ValidateDebit checks that the wallet can cover a withdrawal of amount.
// The available balance must never go negative.
func (w *Wallet) ValidateDebit(amount decimal.Decimal) error {
	if w.AvailableBalance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDebit returns the available balance after a withdrawal.
func (w *Wallet) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return w.AvailableBalance.Sub(amount)
}

// ApplyCredit returns the available balance after a deposit.
func (w *Wallet) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return w.AvailableBalance.Add(amount)
}
