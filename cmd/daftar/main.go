package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daftar-ledger/daftar/internal/app"
	"github.com/daftar-ledger/daftar/internal/auth"
	"github.com/daftar-ledger/daftar/internal/gate"
	"github.com/daftar-ledger/daftar/internal/ledger"
	"github.com/daftar-ledger/daftar/internal/observability"
	"github.com/daftar-ledger/daftar/internal/platform/cache"
	"github.com/daftar-ledger/daftar/internal/platform/db"
	"github.com/daftar-ledger/daftar/internal/shared"
	"github.com/daftar-ledger/daftar/internal/txn"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	// The connector stays disconnected until the first command needs it.
	store := db.NewConnector(cfg.PGDSN, cfg.DBConnectTimeout)
	defer store.Close()

	if pool, err := store.Get(ctx); err != nil {
		logger.Warn("storage not reachable at boot, will retry on demand", slog.Any("error", err))
	} else if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Error("ensure schema", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "daftar_session", cfg.SessionTTL, cfg.IsProduction())
	reportCache := cache.NewJSON(redisClient, cfg.ReportCacheTTL)

	g := gate.New(logger, store)

	authRepo := auth.NewRepository(store)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, g, sessionManager)

	accountRepo := ledger.NewRepository(store)
	accountService := ledger.NewService(accountRepo)
	accountHandler := ledger.NewHandler(logger, accountService, g)

	txnRepo := txn.NewRepository(store)
	txnService := txn.NewService(txnRepo, reportCache, logger)
	txnHandler := txn.NewHandler(logger, txnService, g)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		Gate:           g,
		AuthHandler:    authHandler,
		LedgerHandler:  accountHandler,
		TxnHandler:     txnHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
