package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/usecase"
)

// MockRequestRepository is a mock implementation of RequestRepository.
type MockRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*domain.FundsRequest

	CreateFunc           func(ctx context.Context, request *domain.FundsRequest) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.FundsRequest, error)
	ApproveIfPendingFunc func(ctx context.Context, tx usecase.Transaction, id string, direction domain.RequestDirection, approvedBy string, approvedAt time.Time, externalRef string) (*domain.FundsRequest, error)
	RejectIfPendingFunc  func(ctx context.Context, tx usecase.Transaction, id string, direction domain.RequestDirection, reviewedBy, reason string, reviewedAt time.Time) (*domain.FundsRequest, error)
	ListFunc             func(ctx context.Context, direction domain.RequestDirection, status domain.RequestStatus, limit, offset int) ([]*domain.FundsRequest, error)
	ListByUserFunc       func(ctx context.Context, userID string, direction domain.RequestDirection, limit, offset int) ([]*domain.FundsRequest, error)
}

func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{
		requests: make(map[string]*domain.FundsRequest),
	}
}

func (m *MockRequestRepository) Create(ctx context.Context, request *domain.FundsRequest) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, request)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[request.ID] = request
	return nil
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*domain.FundsRequest, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, domain.ErrRequestNotFound
}

func (m *MockRequestRepository) ApproveIfPending(ctx context.Context, tx usecase.Transaction, id string, direction domain.RequestDirection, approvedBy string, approvedAt time.Time, externalRef string) (*domain.FundsRequest, error) {
	if m.ApproveIfPendingFunc != nil {
		return m.ApproveIfPendingFunc(ctx, tx, id, direction, approvedBy, approvedAt, externalRef)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok || r.Direction != direction {
		return nil, domain.ErrRequestNotFound
	}
	if r.Status != domain.RequestStatusPending {
		return nil, domain.ErrRequestAlreadyProcessed
	}
	r.Status = domain.RequestStatusApproved
	r.ApprovedBy = approvedBy
	r.ApprovedAt = &approvedAt
	r.ExternalRef = externalRef
	if direction == domain.DirectionWithdrawal {
		r.PaidAt = &approvedAt
	}
	return r, nil
}

func (m *MockRequestRepository) RejectIfPending(ctx context.Context, tx usecase.Transaction, id string, direction domain.RequestDirection, reviewedBy, reason string, reviewedAt time.Time) (*domain.FundsRequest, error) {
	if m.RejectIfPendingFunc != nil {
		return m.RejectIfPendingFunc(ctx, tx, id, direction, reviewedBy, reason, reviewedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok || r.Direction != direction {
		return nil, domain.ErrRequestNotFound
	}
	if r.Status != domain.RequestStatusPending {
		return nil, domain.ErrRequestAlreadyProcessed
	}
	r.Status = domain.RequestStatusRejected
	r.ApprovedBy = reviewedBy
	r.RejectionReason = reason
	return r, nil
}

func (m *MockRequestRepository) List(ctx context.Context, direction domain.RequestDirection, status domain.RequestStatus, limit, offset int) ([]*domain.FundsRequest, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, direction, status, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.FundsRequest
	for _, r := range m.requests {
		if direction != "" && r.Direction != direction {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *MockRequestRepository) ListByUser(ctx context.Context, userID string, direction domain.RequestDirection, limit, offset int) ([]*domain.FundsRequest, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, direction, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.FundsRequest
	for _, r := range m.requests {
		if r.UserID != userID {
			continue
		}
		if direction != "" && r.Direction != direction {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// MockWalletRepository is a mock implementation of WalletRepository. The
// default in-memory behavior mirrors the conditional-update semantics of
// the real repository.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet

	GetByUserFunc         func(ctx context.Context, userID, currency string) (*domain.Wallet, error)
	CreditFunc            func(ctx context.Context, tx usecase.Transaction, userID, currency string, amount decimal.Decimal, now time.Time) (*domain.Wallet, error)
	DebitIfSufficientFunc func(ctx context.Context, tx usecase.Transaction, userID, currency string, amount decimal.Decimal, now time.Time) (*domain.Wallet, error)
	ListFunc              func(ctx context.Context, limit, offset int) ([]*domain.Wallet, error)
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

func walletKey(userID, currency string) string {
	return userID + "/" + currency
}

// Seed installs a wallet directly, bypassing the repository contract.
func (m *MockWalletRepository) Seed(wallet *domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[walletKey(wallet.UserID, wallet.Currency)] = wallet
}

func (m *MockWalletRepository) GetByUser(ctx context.Context, userID, currency string) (*domain.Wallet, error) {
	if m.GetByUserFunc != nil {
		return m.GetByUserFunc(ctx, userID, currency)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[walletKey(userID, currency)]; ok {
		return w, nil
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) Credit(ctx context.Context, tx usecase.Transaction, userID, currency string, amount decimal.Decimal, now time.Time) (*domain.Wallet, error) {
	if m.CreditFunc != nil {
		return m.CreditFunc(ctx, tx, userID, currency, amount, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := walletKey(userID, currency)
	w, ok := m.wallets[key]
	if !ok {
		w = &domain.Wallet{
			ID:               "wallet-" + key,
			UserID:           userID,
			Currency:         currency,
			AvailableBalance: decimal.Zero,
			LockedBalance:    decimal.Zero,
			CreatedAt:        now,
		}
		m.wallets[key] = w
	}
	w.AvailableBalance = w.AvailableBalance.Add(amount)
	w.UpdatedAt = now
	return w, nil
}

func (m *MockWalletRepository) DebitIfSufficient(ctx context.Context, tx usecase.Transaction, userID, currency string, amount decimal.Decimal, now time.Time) (*domain.Wallet, error) {
	if m.DebitIfSufficientFunc != nil {
		return m.DebitIfSufficientFunc(ctx, tx, userID, currency, amount, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[walletKey(userID, currency)]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	if w.AvailableBalance.LessThan(amount) {
		return nil, domain.ErrInsufficientFunds
	}
	w.AvailableBalance = w.AvailableBalance.Sub(amount)
	w.UpdatedAt = now
	return w, nil
}

func (m *MockWalletRepository) List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Wallet
	for _, w := range m.wallets {
		out = append(out, w)
	}
	return out, nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry

	AppendFunc       func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	ListByWalletFunc func(ctx context.Context, walletID string, limit, offset int) ([]*domain.LedgerEntry, error)
	SumByWalletFunc  func(ctx context.Context, walletID string) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) Append(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockLedgerRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	if m.ListByWalletFunc != nil {
		return m.ListByWalletFunc(ctx, walletID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.WalletID == walletID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockLedgerRepository) SumByWallet(ctx context.Context, walletID string) (decimal.Decimal, decimal.Decimal, error) {
	if m.SumByWalletFunc != nil {
		return m.SumByWalletFunc(ctx, walletID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	deposits, withdrawals := decimal.Zero, decimal.Zero
	for _, e := range m.entries {
		if e.WalletID != walletID {
			continue
		}
		switch e.Type {
		case domain.LedgerTypeDeposit:
			deposits = deposits.Add(e.Amount)
		case domain.LedgerTypeWithdrawal:
			withdrawals = withdrawals.Add(e.Amount)
		}
	}
	return deposits, withdrawals, nil
}

// Entries returns a snapshot of everything appended so far.
func (m *MockLedgerRepository) Entries() []*domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.LedgerEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// MockTradingAccountRepository is a mock implementation of TradingAccountRepository.
type MockTradingAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.TradingAccount

	CreateFunc            func(ctx context.Context, account *domain.TradingAccount) error
	DeleteFunc            func(ctx context.Context, id string) error
	AssignCredentialsFunc func(ctx context.Context, id, login, server, group string, leverage int, now time.Time) error
	GetByLoginFunc        func(ctx context.Context, login string) (*domain.TradingAccount, error)
	GetActiveByUserFunc   func(ctx context.Context, userID string) (*domain.TradingAccount, error)
	AdjustBalanceFunc     func(ctx context.Context, id string, delta decimal.Decimal, now time.Time) error
	UpdateLeverageFunc    func(ctx context.Context, id string, leverage int, now time.Time) error
}

func NewMockTradingAccountRepository() *MockTradingAccountRepository {
	return &MockTradingAccountRepository{
		accounts: make(map[string]*domain.TradingAccount),
	}
}

func (m *MockTradingAccountRepository) Create(ctx context.Context, account *domain.TradingAccount) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockTradingAccountRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, id)
	return nil
}

func (m *MockTradingAccountRepository) AssignCredentials(ctx context.Context, id, login, server, group string, leverage int, now time.Time) error {
	if m.AssignCredentialsFunc != nil {
		return m.AssignCredentialsFunc(ctx, id, login, server, group, leverage, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrTradingAccountNotFound
	}
	acc.Login = login
	acc.Server = server
	acc.AccGroup = group
	acc.Leverage = leverage
	acc.UpdatedAt = now
	return nil
}

func (m *MockTradingAccountRepository) GetByLogin(ctx context.Context, login string) (*domain.TradingAccount, error) {
	if m.GetByLoginFunc != nil {
		return m.GetByLoginFunc(ctx, login)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.Login == login {
			return acc, nil
		}
	}
	return nil, domain.ErrTradingAccountNotFound
}

func (m *MockTradingAccountRepository) GetActiveByUser(ctx context.Context, userID string) (*domain.TradingAccount, error) {
	if m.GetActiveByUserFunc != nil {
		return m.GetActiveByUserFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.UserID == userID && acc.Status == domain.TradingAccountActive {
			return acc, nil
		}
	}
	return nil, domain.ErrTradingAccountNotFound
}

func (m *MockTradingAccountRepository) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal, now time.Time) error {
	if m.AdjustBalanceFunc != nil {
		return m.AdjustBalanceFunc(ctx, id, delta, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrTradingAccountNotFound
	}
	acc.Balance = acc.Balance.Add(delta)
	acc.UpdatedAt = now
	return nil
}

func (m *MockTradingAccountRepository) UpdateLeverage(ctx context.Context, id string, leverage int, now time.Time) error {
	if m.UpdateLeverageFunc != nil {
		return m.UpdateLeverageFunc(ctx, id, leverage, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrTradingAccountNotFound
	}
	acc.Leverage = leverage
	acc.UpdatedAt = now
	return nil
}

// MockKYCRepository is a mock implementation of KYCRepository.
type MockKYCRepository struct {
	mu       sync.RWMutex
	profiles map[string]*domain.KYCProfile

	GetByIDFunc          func(ctx context.Context, id string) (*domain.KYCProfile, error)
	ApproveIfPendingFunc func(ctx context.Context, id, verifiedBy string, verifiedAt time.Time) (*domain.KYCProfile, error)
	RejectIfPendingFunc  func(ctx context.Context, id, verifiedBy, reason string, verifiedAt time.Time) (*domain.KYCProfile, error)
	ListFunc             func(ctx context.Context, status domain.KYCStatus, limit, offset int) ([]*domain.KYCProfile, error)
}

func NewMockKYCRepository() *MockKYCRepository {
	return &MockKYCRepository{
		profiles: make(map[string]*domain.KYCProfile),
	}
}

// Seed installs a profile directly.
func (m *MockKYCRepository) Seed(profile *domain.KYCProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.ID] = profile
}

func (m *MockKYCRepository) GetByID(ctx context.Context, id string) (*domain.KYCProfile, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, domain.ErrKYCNotFound
}

func (m *MockKYCRepository) ApproveIfPending(ctx context.Context, id, verifiedBy string, verifiedAt time.Time) (*domain.KYCProfile, error) {
	if m.ApproveIfPendingFunc != nil {
		return m.ApproveIfPendingFunc(ctx, id, verifiedBy, verifiedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, domain.ErrKYCNotFound
	}
	if !p.IsPending() {
		return nil, domain.ErrKYCAlreadyReviewed
	}
	p.Status = domain.KYCStatusApproved
	p.VerifiedBy = verifiedBy
	p.VerifiedAt = &verifiedAt
	return p, nil
}

func (m *MockKYCRepository) RejectIfPending(ctx context.Context, id, verifiedBy, reason string, verifiedAt time.Time) (*domain.KYCProfile, error) {
	if m.RejectIfPendingFunc != nil {
		return m.RejectIfPendingFunc(ctx, id, verifiedBy, reason, verifiedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, domain.ErrKYCNotFound
	}
	if !p.IsPending() {
		return nil, domain.ErrKYCAlreadyReviewed
	}
	p.Status = domain.KYCStatusRejected
	p.VerifiedBy = verifiedBy
	p.RejectionReason = reason
	p.VerifiedAt = &verifiedAt
	return p, nil
}

func (m *MockKYCRepository) List(ctx context.Context, status domain.KYCStatus, limit, offset int) ([]*domain.KYCProfile, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, status, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.KYCProfile
	for _, p := range m.profiles {
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// MockClientRepository is a mock implementation of ClientRepository.
type MockClientRepository struct {
	mu      sync.RWMutex
	clients map[string]*domain.Client

	GetByIDFunc   func(ctx context.Context, id string) (*domain.Client, error)
	SetStatusFunc func(ctx context.Context, id string, status domain.ClientStatus, now time.Time) (*domain.Client, error)
}

func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{
		clients: make(map[string]*domain.Client),
	}
}

// Seed installs a client directly.
func (m *MockClientRepository) Seed(client *domain.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = client
}

func (m *MockClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.clients[id]; ok {
		return c, nil
	}
	return nil, domain.ErrClientNotFound
}

func (m *MockClientRepository) SetStatus(ctx context.Context, id string, status domain.ClientStatus, now time.Time) (*domain.Client, error) {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	c.Status = status
	c.UpdatedAt = now
	return c, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc  func(ctx context.Context, id string, publishedAt time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

// Events returns a snapshot of everything recorded so far.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc   func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
	ListFunc     func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AuditLog
	for _, l := range m.logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// Logs returns a snapshot of everything recorded so far.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
	return out
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockRetrier is a mock implementation of TxRetrier. The default behavior
// runs the operation once; Calls reports how many operations were handed in.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error

	mu    sync.Mutex
	calls int
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

func (m *MockRetrier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string]string),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("cache miss: %s", key)
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

// Value returns the stored bytes for a key, for assertions.
func (m *MockIdempotencyStore) Value(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
