package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hijamarkets/backoffice/internal/domain"
	"github.com/hijamarkets/backoffice/internal/usecase"
)

// FundsRequestResponse represents a funding request in API responses.
type FundsRequestResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Direction       string          `json:"direction"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Method          string          `json:"method"`
	UTRNumber       string          `json:"utr_number,omitempty"`
	ProofRef        string          `json:"proof_ref,omitempty"`
	ExternalRef     string          `json:"external_ref,omitempty"`
	UPIID           string          `json:"upi_id,omitempty"`
	Bank            *BankDetails    `json:"bank,omitempty"`
	Status          string          `json:"status"`
	ApprovedBy      string          `json:"approved_by,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
}

// FundsRequestFromDomain converts a domain request to a response.
func FundsRequestFromDomain(r *domain.FundsRequest) *FundsRequestResponse {
	resp := &FundsRequestResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		Direction:       string(r.Direction),
		Amount:          r.Amount,
		Currency:        r.Currency,
		Method:          string(r.Method),
		UTRNumber:       r.UTRNumber,
		ProofRef:        r.ProofRef,
		ExternalRef:     r.ExternalRef,
		UPIID:           r.UPIID,
		Status:          string(r.Status),
		ApprovedBy:      r.ApprovedBy,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		ApprovedAt:      r.ApprovedAt,
		PaidAt:          r.PaidAt,
	}
	if r.AccountNumber != "" {
		resp.Bank = &BankDetails{
			AccountNumber:     r.AccountNumber,
			IFSCCode:          r.IFSCCode,
			AccountHolderName: r.AccountHolderName,
			BankName:          r.BankName,
		}
	}
	return resp
}

// FundsRequestsFromDomain converts domain requests to responses.
func FundsRequestsFromDomain(requests []*domain.FundsRequest) []*FundsRequestResponse {
	result := make([]*FundsRequestResponse, len(requests))
	for i, r := range requests {
		result[i] = FundsRequestFromDomain(r)
	}
	return result
}

// ApprovalResponse is the approval receipt, including whether the trading
// account mirror was synced in the same pass.
type ApprovalResponse struct {
	Request       *FundsRequestResponse `json:"request"`
	MirrorSynced  bool                  `json:"mirror_synced"`
	ExternalTxnID string                `json:"external_txn_id,omitempty"`
}

// ApprovalFromResult converts an approval result to a response.
func ApprovalFromResult(result *usecase.ApprovalResult) *ApprovalResponse {
	return &ApprovalResponse{
		Request:       FundsRequestFromDomain(result.Request),
		MirrorSynced:  result.MirrorSynced,
		ExternalTxnID: result.ExternalTxnID,
	}
}

// WalletResponse represents a wallet in API responses.
type WalletResponse struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Currency         string          `json:"currency"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	LockedBalance    decimal.Decimal `json:"locked_balance"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// WalletFromDomain converts a domain wallet to a response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:               w.ID,
		UserID:           w.UserID,
		Currency:         w.Currency,
		AvailableBalance: w.AvailableBalance,
		LockedBalance:    w.LockedBalance,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}
}

// WalletsFromDomain converts domain wallets to responses.
func WalletsFromDomain(wallets []*domain.Wallet) []*WalletResponse {
	result := make([]*WalletResponse, len(wallets))
	for i, w := range wallets {
		result[i] = WalletFromDomain(w)
	}
	return result
}

// LedgerEntryResponse represents a ledger entry in API responses.
type LedgerEntryResponse struct {
	ID        string          `json:"id"`
	WalletID  string          `json:"wallet_id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	RequestID string          `json:"request_id"`
	Metadata  map[string]any  `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// LedgerEntriesFromDomain converts domain entries to responses.
func LedgerEntriesFromDomain(entries []*domain.LedgerEntry) []*LedgerEntryResponse {
	result := make([]*LedgerEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = &LedgerEntryResponse{
			ID:        e.ID,
			WalletID:  e.WalletID,
			Type:      string(e.Type),
			Amount:    e.Amount,
			Currency:  e.Currency,
			RequestID: e.RequestID,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		}
	}
	return result
}

// TradingAccountResponse represents a trading-account mirror row.
type TradingAccountResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Login     string          `json:"login"`
	Server    string          `json:"server"`
	Group     string          `json:"group"`
	Leverage  int             `json:"leverage"`
	Balance   decimal.Decimal `json:"balance"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// TradingAccountFromDomain converts a domain account to a response.
func TradingAccountFromDomain(a *domain.TradingAccount) *TradingAccountResponse {
	return &TradingAccountResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Login:     a.Login,
		Server:    a.Server,
		Group:     a.AccGroup,
		Leverage:  a.Leverage,
		Balance:   a.Balance,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
	}
}

// OpenAccountResponse carries the one-time password alongside the account.
// The password is never persisted, so this is the only place it appears.
type OpenAccountResponse struct {
	Account  *TradingAccountResponse `json:"account"`
	Password string                  `json:"password"`
}

// AccountSummaryResponse represents a margin snapshot.
type AccountSummaryResponse struct {
	Login       string          `json:"login"`
	Balance     decimal.Decimal `json:"balance"`
	Equity      decimal.Decimal `json:"equity"`
	Margin      decimal.Decimal `json:"margin"`
	FreeMargin  decimal.Decimal `json:"free_margin"`
	MarginLevel decimal.Decimal `json:"margin_level"`
	Credit      decimal.Decimal `json:"credit"`
	Leverage    int             `json:"leverage"`
	Group       string          `json:"group"`
}

// SummaryFromDomain converts a domain summary to a response.
func SummaryFromDomain(s *domain.AccountSummary) *AccountSummaryResponse {
	return &AccountSummaryResponse{
		Login:       s.Login,
		Balance:     s.Balance,
		Equity:      s.Equity,
		Margin:      s.Margin,
		FreeMargin:  s.FreeMargin,
		MarginLevel: s.MarginLevel,
		Credit:      s.Credit,
		Leverage:    s.Leverage,
		Group:       s.Group,
	}
}

// PositionResponse represents an open position.
type PositionResponse struct {
	Ticket       int64           `json:"ticket"`
	Symbol       string          `json:"symbol"`
	Side         string          `json:"side"`
	Volume       decimal.Decimal `json:"volume"`
	OpenPrice    decimal.Decimal `json:"open_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Profit       decimal.Decimal `json:"profit"`
	OpenTime     time.Time       `json:"open_time"`
	StopLoss     decimal.Decimal `json:"stop_loss"`
	TakeProfit   decimal.Decimal `json:"take_profit"`
}

// PositionsFromDomain converts domain positions to responses.
func PositionsFromDomain(positions []*domain.Position) []*PositionResponse {
	result := make([]*PositionResponse, len(positions))
	for i, p := range positions {
		result[i] = &PositionResponse{
			Ticket:       p.Ticket,
			Symbol:       p.Symbol,
			Side:         string(p.Side),
			Volume:       p.Volume,
			OpenPrice:    p.OpenPrice,
			CurrentPrice: p.CurrentPrice,
			Profit:       p.Profit,
			OpenTime:     p.OpenTime,
			StopLoss:     p.StopLoss,
			TakeProfit:   p.TakeProfit,
		}
	}
	return result
}

// DealResponse represents a closed trade.
type DealResponse struct {
	Ticket     int64           `json:"ticket"`
	Order      int64           `json:"order"`
	Symbol     string          `json:"symbol"`
	Side       string          `json:"side"`
	Volume     decimal.Decimal `json:"volume"`
	Price      decimal.Decimal `json:"price"`
	Profit     decimal.Decimal `json:"profit"`
	Commission decimal.Decimal `json:"commission"`
	Swap       decimal.Decimal `json:"swap"`
	Time       time.Time       `json:"time"`
}

// DealsFromDomain converts domain deals to responses.
func DealsFromDomain(deals []*domain.Deal) []*DealResponse {
	result := make([]*DealResponse, len(deals))
	for i, d := range deals {
		result[i] = &DealResponse{
			Ticket:     d.Ticket,
			Order:      d.Order,
			Symbol:     d.Symbol,
			Side:       string(d.Side),
			Volume:     d.Volume,
			Price:      d.Price,
			Profit:     d.Profit,
			Commission: d.Commission,
			Swap:       d.Swap,
			Time:       d.Time,
		}
	}
	return result
}

// KYCResponse represents a KYC profile in API responses.
type KYCResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	DocumentType    string     `json:"document_type"`
	DocumentRef     string     `json:"document_ref"`
	Status          string     `json:"status"`
	VerifiedBy      string     `json:"verified_by,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
}

// KYCFromDomain converts a domain profile to a response.
func KYCFromDomain(p *domain.KYCProfile) *KYCResponse {
	return &KYCResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		DocumentType:    p.DocumentType,
		DocumentRef:     p.DocumentRef,
		Status:          string(p.Status),
		VerifiedBy:      p.VerifiedBy,
		RejectionReason: p.RejectionReason,
		CreatedAt:       p.CreatedAt,
		VerifiedAt:      p.VerifiedAt,
	}
}

// KYCsFromDomain converts domain profiles to responses.
func KYCsFromDomain(profiles []*domain.KYCProfile) []*KYCResponse {
	result := make([]*KYCResponse, len(profiles))
	for i, p := range profiles {
		result[i] = KYCFromDomain(p)
	}
	return result
}

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientFromDomain converts a domain client to a response.
func ClientFromDomain(c *domain.Client) *ClientResponse {
	return &ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// AuditLogResponse represents an audit log in API responses.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	RequestID    string         `json:"request_id,omitempty"`
	BeforeState  map[string]any `json:"before_state,omitempty"`
	AfterState   map[string]any `json:"after_state,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditLogsFromDomain converts domain audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:           l.ID,
			UserID:       l.UserID,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			RequestID:    l.RequestID,
			BeforeState:  l.BeforeState,
			AfterState:   l.AfterState,
			Status:       l.Status,
			ErrorMessage: l.ErrorMessage,
			CreatedAt:    l.CreatedAt,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
