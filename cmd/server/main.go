package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/hijamarkets/backoffice/internal/adapter/http"
	"github.com/hijamarkets/backoffice/internal/adapter/http/handler"
	"github.com/hijamarkets/backoffice/internal/adapter/http/middleware"
	"github.com/hijamarkets/backoffice/internal/adapter/mt5"
	postgresRepo "github.com/hijamarkets/backoffice/internal/adapter/repository/postgres"
	redisRepo "github.com/hijamarkets/backoffice/internal/adapter/repository/redis"
	"github.com/hijamarkets/backoffice/internal/infrastructure/config"
	"github.com/hijamarkets/backoffice/internal/infrastructure/eventpublisher"
	"github.com/hijamarkets/backoffice/internal/infrastructure/logger"
	"github.com/hijamarkets/backoffice/internal/infrastructure/metrics"
	"github.com/hijamarkets/backoffice/internal/infrastructure/postgres"
	"github.com/hijamarkets/backoffice/internal/infrastructure/redis"
	"github.com/hijamarkets/backoffice/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger
	zerolog.DefaultContextLogger = &appLogger

	ctx := context.Background()

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to run migrations")
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	m := metrics.New()

	// Trading backend: live MT5 manager API with a mock fallback. The
	// failover connect never blocks startup on a dead trading server.
	live := mt5.NewLiveBackend(mt5.LiveConfig{
		APIURL:          cfg.MT5APIURL,
		ManagerLogin:    cfg.MT5ManagerLogin,
		ManagerPassword: cfg.MT5ManagerPassword,
		Timeout:         cfg.MT5Timeout,
	}, appLogger)
	backend := mt5.NewFailoverBackend(live, mt5.NewMockBackend(appLogger), cfg.MT5UseMock, m, appLogger)
	if err := backend.Connect(ctx); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize trading backend")
	}
	appLogger.Info().Str("mode", backend.Mode()).Msg("trading backend ready")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(appLogger)
	requestRepo := postgresRepo.NewRequestRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	walletRepo := postgresRepo.NewWalletRepository(pool, idGen)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	tradingRepo := postgresRepo.NewTradingAccountRepository(pool)
	kycRepo := postgresRepo.NewKYCRepository(pool)
	clientRepo := postgresRepo.NewClientRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Use cases
	settlementUC := usecase.NewSettlementUseCase(
		txManager, requestRepo, walletRepo, ledgerRepo, tradingRepo,
		outboxRepo, auditRepo, backend, idGen, retrier, m, appLogger,
	)
	fundingUC := usecase.NewFundingUseCase(requestRepo, walletRepo, tradingRepo, backend, idGen, appLogger)
	accountUC := usecase.NewAccountUseCase(tradingRepo, clientRepo, auditRepo, backend, cache, idGen, m, appLogger)
	kycUC := usecase.NewKYCUseCase(kycRepo, auditRepo, idGen, m, appLogger)
	clientUC := usecase.NewClientUseCase(clientRepo, auditRepo, idGen, appLogger)
	walletUC := usecase.NewWalletUseCase(walletRepo, ledgerRepo)
	reconUC := usecase.NewReconciliationUseCase(walletRepo, ledgerRepo, tradingRepo, backend, appLogger)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		FundingHandler:        handler.NewFundingHandler(fundingUC),
		SettlementHandler:     handler.NewSettlementHandler(settlementUC, fundingUC),
		AccountHandler:        handler.NewAccountHandler(accountUC),
		WalletHandler:         handler.NewWalletHandler(walletUC),
		KYCHandler:            handler.NewKYCHandler(kycUC),
		ClientHandler:         handler.NewClientHandler(clientUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconUC, auditRepo),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient, backend),
		Logger:                appLogger,
		IdempotencyStore:      idempotencyStore,
		RateLimiter:           middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
	})

	// Outbox publisher
	pubCtx, pubCancel := context.WithCancel(ctx)
	defer pubCancel()
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(appLogger),
		Logger:     appLogger,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})
	go func() {
		if err := publisher.Start(pubCtx); err != nil && err != context.Canceled {
			appLogger.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")
	pubCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}
