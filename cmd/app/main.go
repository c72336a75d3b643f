// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/config"
	pg "github.com/DucAnhIT03/Nhom4-sub001/internal/infra/db/postgres"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/infra/logging"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/infra/metrics"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/infra/payment"
	red "github.com/DucAnhIT03/Nhom4-sub001/internal/infra/redis"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/infra/web"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logging)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()

	// ---- Repositories ----
	payRepo := pg.NewPaymentRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	planRepo := pg.NewPlanRepoCacheDecorator(pg.NewPlanRepo(pool), redisClient, cfg.Redis.TTL)
	tm := pg.NewTxManager(pool)

	// ---- Gateway ----
	gateway := payment.NewMoMoGateway(cfg.MoMo, logger)
	logger.Info().Str("gateway", gateway.Name()).
		Str("endpoint", cfg.MoMo.Endpoint).
		Str("partner", logging.Redact(cfg.MoMo.PartnerCode, cfg.Runtime.Dev)).
		Msg("payment gateway configured")

	// ---- Use cases ----
	payUC := usecase.NewPaymentUseCase(payRepo, planRepo, gateway, logger)
	setUC := usecase.NewSettlementUseCase(payRepo, subRepo, planRepo, gateway, tm, logger)
	subUC := usecase.NewSubscriptionUseCase(subRepo, logger)

	// ---- HTTP ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TTL)
	server := web.NewServer(payUC, setUC, subUC, auth, logger)

	go reportPoolStats(ctx, pool)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(cfg.Server.Port) }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}
}

// reportPoolStats feeds the db_pool_stats gauge until shutdown.
func reportPoolStats(ctx context.Context, pool *pgxpool.Pool) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := pool.Stat()
			metrics.SetDBPoolStats(st.TotalConns(), st.IdleConns(), st.AcquiredConns())
		}
	}
}
