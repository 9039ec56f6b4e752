package dto

import (
	"github.com/shopspring/decimal"

	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/usecase"
)

// SubmitDepositRequest represents a client deposit submission.
type SubmitDepositRequest struct {
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Method    string          `json:"method"`
	UTRNumber string          `json:"utr_number,omitempty"`
	ProofRef  string          `json:"proof_ref,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SubmitDepositRequest) ToUseCaseInput() usecase.SubmitDepositInput {
	return usecase.SubmitDepositInput{
		UserID:    r.UserID,
		Amount:    r.Amount,
		Currency:  r.Currency,
		Method:    domain.PaymentMethod(r.Method),
		UTRNumber: r.UTRNumber,
		ProofRef:  r.ProofRef,
	}
}

// BankDetails carries the payout destination on a withdrawal.
type BankDetails struct {
	AccountNumber     string `json:"account_number"`
	IFSCCode          string `json:"ifsc_code"`
	AccountHolderName string `json:"account_holder_name"`
	BankName          string `json:"bank_name"`
}

// SubmitWithdrawalRequest represents a client withdrawal submission.
type SubmitWithdrawalRequest struct {
	UserID   string          `json:"user_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Method   string          `json:"method"`
	Bank     *BankDetails    `json:"bank,omitempty"`
	UPIID    string          `json:"upi_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SubmitWithdrawalRequest) ToUseCaseInput() usecase.SubmitWithdrawalInput {
	input := usecase.SubmitWithdrawalInput{
		UserID:   r.UserID,
		Amount:   r.Amount,
		Currency: r.Currency,
		Method:   domain.PaymentMethod(r.Method),
		UPIID:    r.UPIID,
	}
	if r.Bank != nil {
		input.Bank = &usecase.BankDetails{
			AccountNumber:     r.Bank.AccountNumber,
			IFSCCode:          r.Bank.IFSCCode,
			AccountHolderName: r.Bank.AccountHolderName,
			BankName:          r.Bank.BankName,
		}
	}
	return input
}

// ApproveWithdrawalRequest carries the banking-rail reference recorded on
// withdrawal approval.
type ApproveWithdrawalRequest struct {
	ExternalRef string `json:"external_ref,omitempty"`
}

// RejectRequest carries the rejection reason shown to the client.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// OpenAccountRequest represents a request to provision a trading account.
type OpenAccountRequest struct {
	UserID      string `json:"user_id"`
	AccountType string `json:"account_type,omitempty"`
	Leverage    int    `json:"leverage,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *OpenAccountRequest) ToUseCaseInput() usecase.OpenAccountInput {
	return usecase.OpenAccountInput{
		UserID:      r.UserID,
		AccountType: r.AccountType,
		Leverage:    r.Leverage,
	}
}

// ChangeLeverageRequest represents a leverage change.
type ChangeLeverageRequest struct {
	Leverage int `json:"leverage"`
}
