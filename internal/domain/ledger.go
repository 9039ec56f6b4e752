package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerType mirrors the funding request direction on the audit trail.
type LedgerType string

const (
	LedgerTypeDeposit    LedgerType = "DEPOSIT"
	LedgerTypeWithdrawal LedgerType = "WITHDRAWAL"
)

// LedgerEntry is an immutable record of a single wallet-affecting event.
// Exactly one entry is appended per approved funding request; entries are
// never updated or deleted.
type LedgerEntry struct {
	ID        string
	WalletID  string
	Type      LedgerType
	Amount    decimal.Decimal
	Currency  string
	RequestID string
	Metadata  map[string]any
	CreatedAt time.Time
}
