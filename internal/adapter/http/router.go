package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hijamarkets/backoffice/internal/adapter/http/handler"
	"github.com/hijamarkets/backoffice/internal/adapter/http/middleware"
	"github.com/hijamarkets/backoffice/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	FundingHandler        *handler.FundingHandler
	SettlementHandler     *handler.SettlementHandler
	AccountHandler        *handler.AccountHandler
	WalletHandler         *handler.WalletHandler
	KYCHandler            *handler.KYCHandler
	ClientHandler         *handler.ClientHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	Logger                zerolog.Logger
	IdempotencyStore      usecase.IdempotencyStore
	RateLimiter           *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Funding review queue
		r.Route("/deposits", func(r chi.Router) {
			r.Post("/", cfg.FundingHandler.SubmitDeposit)
			r.Get("/", cfg.SettlementHandler.ListDeposits)
			r.Get("/{id}", cfg.SettlementHandler.Get)
			r.Patch("/{id}/approve", cfg.SettlementHandler.ApproveDeposit)
			r.Patch("/{id}/reject", cfg.SettlementHandler.RejectDeposit)
		})
		r.Route("/withdrawals", func(r chi.Router) {
			r.Post("/", cfg.FundingHandler.SubmitWithdrawal)
			r.Get("/", cfg.SettlementHandler.ListWithdrawals)
			r.Get("/{id}", cfg.SettlementHandler.Get)
			r.Patch("/{id}/approve", cfg.SettlementHandler.ApproveWithdrawal)
			r.Patch("/{id}/reject", cfg.SettlementHandler.RejectWithdrawal)
		})

		// Trading accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Open)
			r.Get("/{login}/summary", cfg.AccountHandler.Summary)
			r.Get("/{login}/positions", cfg.AccountHandler.Positions)
			r.Get("/{login}/history", cfg.AccountHandler.History)
			r.Patch("/{login}/leverage", cfg.AccountHandler.ChangeLeverage)
			r.Post("/{login}/reset-password", cfg.AccountHandler.ResetPassword)
		})

		// Wallets and ledger
		r.Route("/wallets", func(r chi.Router) {
			r.Get("/", cfg.WalletHandler.List)
			r.Get("/{id}/ledger", cfg.WalletHandler.Ledger)
		})

		// Clients
		r.Route("/users", func(r chi.Router) {
			r.Get("/{id}", cfg.ClientHandler.Get)
			r.Patch("/{id}/block", cfg.ClientHandler.Block)
			r.Patch("/{id}/unblock", cfg.ClientHandler.Unblock)
			r.Get("/{id}/requests", cfg.FundingHandler.ListUserRequests)
			r.Get("/{id}/wallets/{currency}", cfg.WalletHandler.Get)
		})

		// KYC review
		r.Route("/kyc", func(r chi.Router) {
			r.Get("/", cfg.KYCHandler.List)
			r.Get("/{id}", cfg.KYCHandler.Get)
			r.Patch("/{id}/approve", cfg.KYCHandler.Approve)
			r.Patch("/{id}/reject", cfg.KYCHandler.Reject)
		})

		// Operations
		r.Post("/reconciliation", cfg.ReconciliationHandler.Run)
		r.Get("/audit", cfg.ReconciliationHandler.AuditLogs)
	})

	return r
}
