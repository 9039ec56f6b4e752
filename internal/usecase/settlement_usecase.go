package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/infrastructure/metrics"
)

// SettlementUseCase applies approval and rejection decisions to funding
// requests. The wallet ledger is the source of truth for client funds; the
// trading backend is a best-effort mirror updated after the internal
// settlement has committed.
type SettlementUseCase struct {
	txManager   TransactionManager
	requestRepo RequestRepository
	walletRepo  WalletRepository
	ledgerRepo  LedgerRepository
	tradingRepo TradingAccountRepository
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	backend     TradingBackend
	idGen       IDGenerator
	retrier     TxRetrier
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	txManager TransactionManager,
	requestRepo RequestRepository,
	walletRepo WalletRepository,
	ledgerRepo LedgerRepository,
	tradingRepo TradingAccountRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	backend TradingBackend,
	idGen IDGenerator,
	retrier TxRetrier,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:   txManager,
		requestRepo: requestRepo,
		walletRepo:  walletRepo,
		ledgerRepo:  ledgerRepo,
		tradingRepo: tradingRepo,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		backend:     backend,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     m,
		logger:      logger,
	}
}

// ApprovalResult is the outcome of an approval decision.
//
// MirrorSynced is false when the internal settlement succeeded but the
// trading-backend mirror could not be updated; the caller should surface it
// as a warning, never as a failure.
type ApprovalResult struct {
	Request       *domain.FundsRequest
	MirrorSynced  bool
	ExternalTxnID string
}

// ApproveDepositInput represents input for approving a deposit.
type ApproveDepositInput struct {
	RequestID  string
	ApproverID string
}

// ApproveDeposit approves a pending deposit request.
//
// The status flip, the wallet credit and the ledger append commit in one
// transaction. The status flip is a conditional update on PENDING, so a
// concurrent approval of the same request observes zero affected rows and
// fails with ErrRequestAlreadyProcessed before touching the wallet.
func (uc *SettlementUseCase) ApproveDeposit(ctx context.Context, input ApproveDepositInput) (*ApprovalResult, error) {
	start := time.Now()

	var request *domain.FundsRequest
	err := uc.retry(ctx, func() error {
		var err error
		request, err = uc.approveDepositTx(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.recordApproval(domain.DirectionDeposit, request.Amount, start)

	// Internal settlement is durable at this point. The mirror update is
	// best-effort: a backend outage must not strand client funds.
	synced, externalTxnID := uc.syncDepositMirror(ctx, request)

	return &ApprovalResult{
		Request:       request,
		MirrorSynced:  synced,
		ExternalTxnID: externalTxnID,
	}, nil
}

func (uc *SettlementUseCase) approveDepositTx(ctx context.Context, input ApproveDepositInput) (*domain.FundsRequest, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()

	request, err := uc.requestRepo.ApproveIfPending(txCtx, tx, input.RequestID, domain.DirectionDeposit, input.ApproverID, now, "")
	if err != nil {
		uc.recordError(err)
		return nil, err
	}

	wallet, err := uc.walletRepo.Credit(txCtx, tx, request.UserID, request.Currency, request.Amount, now)
	if err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:        uc.idGen.Generate(),
		WalletID:  wallet.ID,
		Type:      domain.LedgerTypeDeposit,
		Amount:    request.Amount,
		Currency:  request.Currency,
		RequestID: request.ID,
		Metadata: map[string]any{
			"method":      string(request.Method),
			"approved_by": input.ApproverID,
		},
		CreatedAt: now,
	}
	if err := uc.ledgerRepo.Append(txCtx, tx, entry); err != nil {
		return nil, err
	}

	if err := uc.createApprovalEvent(txCtx, tx, request, now); err != nil {
		return nil, err
	}

	uc.writeAudit(txCtx, tx, domain.AuditActionDepositApprove, input.ApproverID, request, now)

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return request, nil
}

// ApproveWithdrawalInput represents input for approving a withdrawal.
type ApproveWithdrawalInput struct {
	RequestID   string
	ApproverID  string
	ExternalRef string
}

// ApproveWithdrawal approves a pending withdrawal request.
//
// The balance check and the debit are a single conditional update, so two
// concurrent withdrawals can never overdraw the wallet. The payout to the
// client happens over the banking rails named on the request; the trading
// side is settled by the dealing desk outside this flow, so no backend call
// is made here.
func (uc *SettlementUseCase) ApproveWithdrawal(ctx context.Context, input ApproveWithdrawalInput) (*ApprovalResult, error) {
	start := time.Now()

	var request *domain.FundsRequest
	err := uc.retry(ctx, func() error {
		var err error
		request, err = uc.approveWithdrawalTx(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.recordApproval(domain.DirectionWithdrawal, request.Amount, start)

	return &ApprovalResult{Request: request, MirrorSynced: true}, nil
}

func (uc *SettlementUseCase) approveWithdrawalTx(ctx context.Context, input ApproveWithdrawalInput) (*domain.FundsRequest, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()

	request, err := uc.requestRepo.ApproveIfPending(txCtx, tx, input.RequestID, domain.DirectionWithdrawal, input.ApproverID, now, input.ExternalRef)
	if err != nil {
		uc.recordError(err)
		return nil, err
	}

	wallet, err := uc.walletRepo.DebitIfSufficient(txCtx, tx, request.UserID, request.Currency, request.Amount, now)
	if err != nil {
		// A missing wallet means the client never had funds to withdraw.
		if errors.Is(err, domain.ErrWalletNotFound) {
			err = domain.ErrInsufficientFunds
		}
		uc.recordError(err)
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:        uc.idGen.Generate(),
		WalletID:  wallet.ID,
		Type:      domain.LedgerTypeWithdrawal,
		Amount:    request.Amount,
		Currency:  request.Currency,
		RequestID: request.ID,
		Metadata: map[string]any{
			"method":      string(request.Method),
			"approved_by": input.ApproverID,
			"utr_number":  request.UTRNumber,
		},
		CreatedAt: now,
	}
	if err := uc.ledgerRepo.Append(txCtx, tx, entry); err != nil {
		return nil, err
	}

	if err := uc.createApprovalEvent(txCtx, tx, request, now); err != nil {
		return nil, err
	}

	uc.writeAudit(txCtx, tx, domain.AuditActionWithdrawalApprove, input.ApproverID, request, now)

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return request, nil
}

// RejectInput represents input for rejecting a funding request.
type RejectInput struct {
	RequestID  string
	Direction  domain.RequestDirection
	ApproverID string
	Reason     string
}

// Reject rejects a pending funding request. Rejection has no wallet or
// ledger effect; rejecting a request that already left PENDING is a
// conflict.
func (uc *SettlementUseCase) Reject(ctx context.Context, input RejectInput) (*domain.FundsRequest, error) {
	var request *domain.FundsRequest
	err := uc.retry(ctx, func() error {
		var err error
		request, err = uc.rejectTx(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RejectionsTotal.WithLabelValues(string(input.Direction)).Inc()
	}

	return request, nil
}

func (uc *SettlementUseCase) rejectTx(ctx context.Context, input RejectInput) (*domain.FundsRequest, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()

	request, err := uc.requestRepo.RejectIfPending(txCtx, tx, input.RequestID, input.Direction, input.ApproverID, input.Reason, now)
	if err != nil {
		uc.recordError(err)
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   request.ID,
		AggregateType: domain.AggregateTypeFundsRequest,
		EventType:     domain.EventTypeFundingRejected,
		Payload: map[string]any{
			"request_id": request.ID,
			"user_id":    request.UserID,
			"direction":  string(request.Direction),
			"reason":     input.Reason,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	action := domain.AuditActionDepositReject
	if input.Direction == domain.DirectionWithdrawal {
		action = domain.AuditActionWithdrawalReject
	}
	uc.writeAudit(txCtx, tx, action, input.ApproverID, request, now)

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return request, nil
}

// retry runs a settlement transaction under the retrier, so an approval that
// lost a deadlock or serialization race is re-run from a clean transaction.
// Nothing has committed when that happens, so the re-run is safe; domain
// errors (conflict, insufficient funds) are permanent and surface unchanged.
func (uc *SettlementUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}

	return uc.retrier.Retry(ctx, operation)
}

// GetRequest retrieves a funding request by ID.
func (uc *SettlementUseCase) GetRequest(ctx context.Context, id string) (*domain.FundsRequest, error) {
	return uc.requestRepo.GetByID(ctx, id)
}

// syncDepositMirror pushes an approved deposit onto the client's trading
// account. Failure is logged and recorded for reconciliation, never
// propagated: the wallet ledger has already settled.
func (uc *SettlementUseCase) syncDepositMirror(ctx context.Context, request *domain.FundsRequest) (bool, string) {
	account, err := uc.tradingRepo.GetActiveByUser(ctx, request.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrTradingAccountNotFound) {
			// Nothing to mirror.
			return true, ""
		}

		uc.reportMirrorFailure(ctx, request, "", err)
		return false, ""
	}

	change, err := uc.backend.ApplyBalanceDelta(ctx, account.Login, request.Amount, "Deposit approved - "+request.ID)
	if err != nil {
		uc.reportMirrorFailure(ctx, request, account.Login, err)
		return false, ""
	}

	// Advisory cache only; the backend stays authoritative for equity.
	if err := uc.tradingRepo.AdjustBalance(ctx, account.ID, request.Amount, time.Now().UTC()); err != nil {
		uc.logger.Warn().
			Err(err).
			Str("request_id", request.ID).
			Str("login", account.Login).
			Msg("trading account cache update failed after successful backend sync")
	}

	return true, change.TransactionID
}

// reportMirrorFailure leaves enough of a trail for manual reconciliation:
// a structured warn log, a counter, and an outbox event in its own small
// transaction.
func (uc *SettlementUseCase) reportMirrorFailure(ctx context.Context, request *domain.FundsRequest, login string, cause error) {
	uc.logger.Warn().
		Err(cause).
		Str("request_id", request.ID).
		Str("user_id", request.UserID).
		Str("login", login).
		Str("amount", request.Amount.String()).
		Msg("trading mirror update failed; wallet ledger remains authoritative")

	if uc.metrics != nil {
		uc.metrics.MirrorSyncFailures.Inc()
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		uc.logger.Error().Err(err).Str("request_id", request.ID).Msg("failed to record mirror sync failure event")
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   request.ID,
		AggregateType: domain.AggregateTypeFundsRequest,
		EventType:     domain.EventTypeMirrorSyncFailed,
		Payload: map[string]any{
			"request_id": request.ID,
			"login":      login,
			"amount":     request.Amount.String(),
			"error":      cause.Error(),
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		uc.logger.Error().Err(err).Str("request_id", request.ID).Msg("failed to record mirror sync failure event")
		return
	}

	if err := tx.Commit(ctx); err != nil {
		uc.logger.Error().Err(err).Str("request_id", request.ID).Msg("failed to record mirror sync failure event")
	}
}

func (uc *SettlementUseCase) createApprovalEvent(ctx context.Context, tx Transaction, request *domain.FundsRequest, now time.Time) error {
	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   request.ID,
		AggregateType: domain.AggregateTypeFundsRequest,
		EventType:     domain.EventTypeFundingApproved,
		Payload: map[string]any{
			"request_id":  request.ID,
			"user_id":     request.UserID,
			"direction":   string(request.Direction),
			"amount":      request.Amount.String(),
			"currency":    request.Currency,
			"approved_by": request.ApprovedBy,
		},
		CreatedAt: now,
	}

	return uc.outboxRepo.Create(ctx, tx, event)
}

func (uc *SettlementUseCase) writeAudit(ctx context.Context, tx Transaction, action domain.AuditAction, approverID string, request *domain.FundsRequest, now time.Time) {
	if uc.auditRepo == nil {
		return
	}

	auditLog := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       approverID,
		Action:       string(action),
		ResourceType: domain.AggregateTypeFundsRequest,
		ResourceID:   request.ID,
		AfterState:   domain.MarshalState(request),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, auditLog); err != nil {
		uc.logger.Warn().Err(err).Str("request_id", request.ID).Msg("audit log write failed")
	}

	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(string(action), string(domain.AuditStatusSuccess)).Inc()
	}
}

func (uc *SettlementUseCase) recordApproval(direction domain.RequestDirection, amount decimal.Decimal, start time.Time) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.ApprovalsTotal.WithLabelValues(string(direction)).Inc()
	uc.metrics.SettlementDuration.Observe(time.Since(start).Seconds())

	amt, _ := amount.Float64()
	uc.metrics.SettlementAmount.Observe(amt)
}

func (uc *SettlementUseCase) recordError(err error) {
	if uc.metrics == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrRequestNotFound):
		uc.metrics.SettlementErrors.WithLabelValues("not_found").Inc()
	case errors.Is(err, domain.ErrRequestAlreadyProcessed):
		uc.metrics.SettlementErrors.WithLabelValues("conflict").Inc()
	case errors.Is(err, domain.ErrInsufficientFunds):
		uc.metrics.SettlementErrors.WithLabelValues("insufficient_funds").Inc()
	default:
		uc.metrics.SettlementErrors.WithLabelValues("internal").Inc()
	}
}
