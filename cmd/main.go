package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"rewards/voucherhub/internal/clock"
	"rewards/voucherhub/internal/codegen"
	"rewards/voucherhub/internal/config"
	"rewards/voucherhub/internal/handler"
	"rewards/voucherhub/internal/metrics"
	"rewards/voucherhub/internal/model"
	"rewards/voucherhub/internal/repository"
	"rewards/voucherhub/internal/service"
	"rewards/voucherhub/internal/worker"
)

func main() {
	// 1. Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// 3. Initialize voucher repository (Postgres or in-memory)
	var voucherRepo repository.VoucherRepository
	switch cfg.Storage.Backend {
	case "postgres":
		db, err := config.NewPostgresDB(cfg.Database.Postgres)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		if cfg.Database.Postgres.AutoMigrate {
			if err := model.AutoMigrate(db); err != nil {
				logger.Fatal("failed to auto-migrate", zap.Error(err))
			}
			logger.Info("database migration completed")
		}
		voucherRepo = repository.NewPGVoucherRepository(db)
		logger.Info("using Postgres voucher store")
	case "memory":
		voucherRepo = repository.NewMemoryVoucherRepository()
		logger.Info("using in-memory voucher store")
	default:
		logger.Fatal("unknown storage backend", zap.String("backend", cfg.Storage.Backend))
	}

	if cfg.Cache.Enabled {
		voucherRepo, err = repository.NewCachedVoucherRepository(voucherRepo, cfg.Cache.MaxEntries, cfg.Cache.TTL)
		if err != nil {
			logger.Fatal("failed to init voucher cache", zap.Error(err))
		}
		logger.Info("voucher read cache enabled", zap.Duration("ttl", cfg.Cache.TTL))
	}

	// 4. Initialize parameter store (Redis or in-memory)
	var paramStore repository.ParamStore
	switch cfg.Params.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		paramStore = repository.NewRedisParamStore(redisClient)
		logger.Info("using Redis parameter store")
	case "memory":
		paramStore = repository.NewMemoryParamStore(cfg.Params.Seed)
		logger.Info("using in-memory parameter store", zap.Int("seeded", len(cfg.Params.Seed)))
	default:
		logger.Fatal("unknown params backend", zap.String("backend", cfg.Params.Backend))
	}

	// 5. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// 6. Initialize services
	clk := clock.Real{}
	generator := codegen.NewGenerator(codegen.WithMaxAttempts(cfg.Voucher.MaxAttempts))
	voucherService := service.NewVoucherService(
		voucherRepo, paramStore, generator, clk,
		cfg.Voucher.OffensiveWordsParamPath, m, logger,
	)
	expiryService := service.NewExpiryService(voucherRepo, clk, m, logger)

	// 7. Initialize handlers and router
	voucherHandler := handler.NewVoucherHandler(voucherService)
	adminHandler := handler.NewAdminHandler(voucherService, expiryService)
	router := handler.SetupRouter(cfg, logger, voucherHandler, adminHandler,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// 8. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 9. Run server and sweeper until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Sweep.Enabled {
		sweeper := worker.NewSweeper(expiryService, cfg.Sweep.Interval, logger)
		g.Go(func() error {
			return sweeper.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zcfg.Build()
}
