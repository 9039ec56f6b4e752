package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestDirection is the sign of a funding request's effect on the wallet.
type RequestDirection string

const (
	DirectionDeposit    RequestDirection = "DEPOSIT"
	DirectionWithdrawal RequestDirection = "WITHDRAWAL"
)

// RequestStatus is the funding request state machine. Transitions are
// one-way: PENDING -> APPROVED or PENDING -> REJECTED, both terminal.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// PaymentMethod is the channel the client funds through.
type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodUPI          PaymentMethod = "UPI"
)

// FundsRequest is a pending deposit or withdrawal awaiting broker review.
// Deposits and withdrawals share the shape; the direction decides the sign
// of the wallet mutation on approval.
type FundsRequest struct {
	ID        string
	UserID    string
	Direction RequestDirection
	Amount    decimal.Decimal
	Currency  string
	Method    PaymentMethod

	// Bank transfer fields
	AccountNumber     string
	IFSCCode          string
	AccountHolderName string
	BankName          string

	// UPI field
	UPIID string

	// Deposit proof / settlement references
	ProofRef    string
	UTRNumber   string
	ExternalRef string

	Status          RequestStatus
	ApprovedBy      string
	RejectionReason string
	CreatedAt       time.Time
	ApprovedAt      *time.Time
	PaidAt          *time.Time
}

// Validate validates a newly submitted funding request.
func (r *FundsRequest) Validate() error {
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if r.Method != MethodBankTransfer && r.Method != MethodUPI {
		return ErrUnsupportedMethod
	}

	return ValidateCurrency(r.Currency)
}

// IsPending reports whether the request is still reviewable.
func (r *FundsRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}
