package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sweetShop/internal/auth"
	"sweetShop/internal/config"
	"sweetShop/internal/db"
	grpcserver "sweetShop/internal/grpc"
	"sweetShop/internal/httpapi"
	"sweetShop/internal/inventory"
	"sweetShop/internal/observability"
	"sweetShop/repository"
)

func main() {
	cfg, err := config.LoadWithDefaults()
	if err == nil && cfg.Env == config.EnvProd {
		// No fallback secret outside development.
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("configuration loaded", zap.Stringer("config", cfg))

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	logger, shutdownLogs, err := observability.ExportLogs(ctx, cfg.Tracing, logger)
	if err != nil {
		return err
	}

	d, err := db.OpenContext(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Error("close db", zap.Error(err))
		}
	}()

	users := repository.NewUserRepository(d)
	sweets := repository.NewSweetRepository(d)

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	gate := auth.NewGate(users, users, tokens,
		auth.WithBcryptCost(cfg.Auth.BcryptCost),
		auth.WithLogger(logger.Named("auth")))

	api := httpapi.New(httpapi.Deps{
		Gate:        gate,
		Catalog:     inventory.NewCatalog(sweets, logger.Named("catalog")),
		Ledger:      inventory.NewLedger(sweets, logger.Named("ledger")),
		DB:          d,
		Logger:      logger.Named("http"),
		CORSOrigins: cfg.CORS.AllowedOrigins,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           api,
		ReadHeaderTimeout: 5 * time.Second,
	}
	httpErr := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErr <- err
		}
		close(httpErr)
	}()
	logger.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Address))

	grpcSrv, err := grpcserver.StartGRPC(cfg.GRPC.Address, d, logger.Named("grpc"))
	if err != nil {
		_ = httpSrv.Close()
		return err
	}
	logger.Info("gRPC health server listening", zap.Stringer("addr", grpcSrv.Addr()))

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case serveErr = <-httpErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := grpcSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("grpc shutdown", zap.Error(err))
	}
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown", zap.Error(err))
	}
	if err := shutdownLogs(shutdownCtx); err != nil {
		log.Printf("log export shutdown: %v", err)
	}
	return serveErr
}
