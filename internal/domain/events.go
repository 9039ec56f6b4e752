package domain

import "time"

// Event types
const (
	EventTypeFundingApproved       = "funding.approved"
	EventTypeFundingRejected       = "funding.rejected"
	EventTypeMirrorSyncFailed      = "mirror.sync_failed"
	EventTypeTradingAccountCreated = "trading_account.created"
	EventTypeKYCReviewed           = "kyc.reviewed"
)

// Aggregate types
const (
	AggregateTypeFundsRequest   = "funds_request"
	AggregateTypeTradingAccount = "trading_account"
	AggregateTypeKYCProfile     = "kyc_profile"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// FundingApprovedEvent payload
type FundingApprovedEvent struct {
	RequestID  string `json:"request_id"`
	UserID     string `json:"user_id"`
	Direction  string `json:"direction"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	ApprovedBy string `json:"approved_by"`
}

// FundingRejectedEvent payload
type FundingRejectedEvent struct {
	RequestID string `json:"request_id"`
	UserID    string `json:"user_id"`
	Direction string `json:"direction"`
	Reason    string `json:"reason"`
}

// MirrorSyncFailedEvent payload. Emitted when the deposit approval settled
// internally but the trading-backend mirror could not be updated; used for
// out-of-band reconciliation.
type MirrorSyncFailedEvent struct {
	RequestID string `json:"request_id"`
	Login     string `json:"login"`
	Amount    string `json:"amount"`
	Error     string `json:"error"`
}

// TradingAccountCreatedEvent payload
type TradingAccountCreatedEvent struct {
	AccountID string `json:"account_id"`
	UserID    string `json:"user_id"`
	Login     string `json:"login"`
	Group     string `json:"group"`
}
