package domain

import "errors"

var (
	// Funding request errors
	ErrRequestNotFound         = errors.New("funding request not found")
	ErrRequestAlreadyProcessed = errors.New("funding request already processed")
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrUnsupportedMethod       = errors.New("unsupported payment method")

	// Wallet errors
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrInsufficientFunds  = errors.New("insufficient wallet balance")
	ErrInsufficientMargin = errors.New("insufficient free margin on trading account")

	// Trading account errors
	ErrTradingAccountNotFound = errors.New("trading account not found")
	ErrBackendUnavailable     = errors.New("trading backend unavailable")

	// KYC errors
	ErrKYCNotFound        = errors.New("kyc profile not found")
	ErrKYCAlreadyReviewed = errors.New("kyc profile already reviewed")

	// Client errors
	ErrClientNotFound = errors.New("client not found")
)
