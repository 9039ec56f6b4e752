package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/hijamarkets/backoffice/internal/domain"
)

// FundingUseCase handles client-side funding request submission and the
// listing screens the broker reviews from.
type FundingUseCase struct {
	requestRepo RequestRepository
	walletRepo  WalletRepository
	tradingRepo TradingAccountRepository
	backend     TradingBackend
	idGen       IDGenerator
	logger      zerolog.Logger
}

// NewFundingUseCase creates a new FundingUseCase.
func NewFundingUseCase(
	requestRepo RequestRepository,
	walletRepo WalletRepository,
	tradingRepo TradingAccountRepository,
	backend TradingBackend,
	idGen IDGenerator,
	logger zerolog.Logger,
) *FundingUseCase {
	return &FundingUseCase{
		requestRepo: requestRepo,
		walletRepo:  walletRepo,
		tradingRepo: tradingRepo,
		backend:     backend,
		idGen:       idGen,
		logger:      logger,
	}
}

// SubmitDepositInput represents a client deposit submission.
type SubmitDepositInput struct {
	UserID    string
	Amount    decimal.Decimal
	Currency  string
	Method    domain.PaymentMethod
	UTRNumber string
	ProofRef  string
}

// SubmitDeposit creates a PENDING deposit request for broker review.
func (uc *FundingUseCase) SubmitDeposit(ctx context.Context, input SubmitDepositInput) (*domain.FundsRequest, error) {
	if err := domain.ValidateFundingAmount(input.Amount); err != nil {
		return nil, err
	}

	request := &domain.FundsRequest{
		ID:        uc.idGen.Generate(),
		UserID:    input.UserID,
		Direction: domain.DirectionDeposit,
		Amount:    input.Amount,
		Currency:  input.Currency,
		Method:    input.Method,
		UTRNumber: input.UTRNumber,
		ProofRef:  input.ProofRef,
		Status:    domain.RequestStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := request.Validate(); err != nil {
		return nil, err
	}

	if err := uc.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

// BankDetails carries the payout destination for bank-transfer withdrawals.
type BankDetails struct {
	AccountNumber     string
	IFSCCode          string
	AccountHolderName string
	BankName          string
}

// SubmitWithdrawalInput represents a client withdrawal submission.
type SubmitWithdrawalInput struct {
	UserID   string
	Amount   decimal.Decimal
	Currency string
	Method   domain.PaymentMethod
	Bank     *BankDetails
	UPIID    string
}

// SubmitWithdrawal creates a PENDING withdrawal request.
//
// The wallet balance and the trading account's free margin are checked at
// submission time as a courtesy to the client; the authoritative balance
// guard runs again inside the approval transaction. A backend failure on
// the margin read degrades to letting the request through, since the read
// is advisory.
func (uc *FundingUseCase) SubmitWithdrawal(ctx context.Context, input SubmitWithdrawalInput) (*domain.FundsRequest, error) {
	if err := domain.ValidateFundingAmount(input.Amount); err != nil {
		return nil, err
	}

	wallet, err := uc.walletRepo.GetByUser(ctx, input.UserID, input.Currency)
	if err != nil {
		return nil, err
	}

	if err := wallet.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	if err := uc.checkFreeMargin(ctx, input.UserID, input.Amount); err != nil {
		return nil, err
	}

	request := &domain.FundsRequest{
		ID:        uc.idGen.Generate(),
		UserID:    input.UserID,
		Direction: domain.DirectionWithdrawal,
		Amount:    input.Amount,
		Currency:  input.Currency,
		Method:    input.Method,
		UPIID:     input.UPIID,
		Status:    domain.RequestStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if input.Bank != nil {
		request.AccountNumber = input.Bank.AccountNumber
		request.IFSCCode = input.Bank.IFSCCode
		request.AccountHolderName = input.Bank.AccountHolderName
		request.BankName = input.Bank.BankName
	}

	if err := request.Validate(); err != nil {
		return nil, err
	}

	if err := uc.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

// ListRequestsInput represents admin listing filters.
type ListRequestsInput struct {
	Direction domain.RequestDirection
	Status    domain.RequestStatus
	Limit     int
	Offset    int
}

// ListRequests lists funding requests for the review screens.
func (uc *FundingUseCase) ListRequests(ctx context.Context, input ListRequestsInput) ([]*domain.FundsRequest, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.requestRepo.List(ctx, input.Direction, input.Status, limit, offset)
}

// ListUserRequests lists a client's own funding history.
func (uc *FundingUseCase) ListUserRequests(ctx context.Context, userID string, direction domain.RequestDirection, limit, offset int) ([]*domain.FundsRequest, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.requestRepo.ListByUser(ctx, userID, direction, limit, offset)
}

// checkFreeMargin refuses withdrawals that would leave open positions
// under-margined. Clients without a trading account skip the check.
func (uc *FundingUseCase) checkFreeMargin(ctx context.Context, userID string, amount decimal.Decimal) error {
	account, err := uc.tradingRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil
	}

	summary, err := uc.backend.GetAccountInfo(ctx, account.Login)
	if err != nil {
		uc.logger.Warn().
			Err(err).
			Str("login", account.Login).
			Msg("free margin check skipped: trading backend unavailable")
		return nil
	}

	if summary.FreeMargin.LessThan(amount) {
		return domain.ErrInsufficientMargin
	}

	return nil
}
