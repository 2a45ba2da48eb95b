package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ModawnAI/lotte-crm/internal/config"
	"github.com/ModawnAI/lotte-crm/internal/handler"
	"github.com/ModawnAI/lotte-crm/internal/idempotency"
	"github.com/ModawnAI/lotte-crm/internal/infra/db"
	"github.com/ModawnAI/lotte-crm/internal/infra/memory"
	infraRepo "github.com/ModawnAI/lotte-crm/internal/infra/repository"
	"github.com/ModawnAI/lotte-crm/internal/logger"
	"github.com/ModawnAI/lotte-crm/internal/metrics"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"
	"github.com/ModawnAI/lotte-crm/internal/server"
	"github.com/ModawnAI/lotte-crm/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	//.envはあれば読む（本番は環境変数だけ）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//Ledgerの選択（起動時に一度だけ）
	ledger, tx, err := openLedger(ctx, cfg, log)
	if err != nil {
		log.Fatal("open store", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}

	m := metrics.New()
	deps := usecase.Deps{
		Ledger:  ledger,
		Tx:      tx,
		IDs:     usecase.UUIDGenerator{},
		Clock:   usecase.SystemClock{},
		Log:     log,
		Metrics: m,
	}

	orderOpts := usecase.OrderOptions{PricingStrict: cfg.PricingStrict}
	if cfg.RedisURL != "" {
		idem, err := idempotency.Open(cfg.RedisURL, cfg.IdempotencyTTL)
		if err != nil {
			log.Fatal("open idempotency store", zap.Error(err))
		}
		defer func() { _ = idem.Close() }()
		if err := idem.Ping(ctx); err != nil {
			log.Fatal("ping redis", zap.Error(err))
		}
		orderOpts.Idempotency = idem
	}

	//Usecase生成
	accountUC := usecase.NewAccountUsecase(deps)
	productUC := usecase.NewProductUsecase(deps)
	salesRepUC := usecase.NewSalesRepUsecase(deps)
	orderUC := usecase.NewOrderUsecase(deps, orderOpts)
	orderStatusUC := usecase.NewOrderStatusUsecase(deps)
	statsUC := usecase.NewStatsUsecase(deps, cfg.Timezone)
	auditUC := usecase.NewAuditLogUsecase(deps)

	//Handler生成
	e := server.New(cfg, server.Options{Log: log, Metrics: m},
		handler.NewAccountHandler(accountUC),
		handler.NewProductHandler(productUC),
		handler.NewSalesRepHandler(salesRepUC),
		handler.NewOrderHandler(orderUC),
		handler.NewOrderStatusHandler(orderStatusUC),
		handler.NewStatsHandler(statsUC),
		handler.NewAuditLogHandler(auditUC),
	)

	log.Info("starting",
		zap.String("env", cfg.GoEnv),
		zap.String("backend", cfg.StoreBackend),
		zap.Bool("atomic_orders", tx != nil),
		zap.Bool("idempotency", orderOpts.Idempotency != nil),
	)

	//Server起動
	if err := server.Start(ctx, e, cfg.Addr(), log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// memoryはトランザクションなし（注文作成は補償で戻す）
func openLedger(ctx context.Context, cfg config.Config, log *zap.Logger) (repo.Ledger, repo.TransactionManager, error) {
	if cfg.StoreBackend == config.StoreMemory {
		s := memory.NewStore()
		if cfg.DemoSeed {
			if err := memory.Seed(ctx, s, time.Now()); err != nil {
				return nil, nil, err
			}
			log.Info("demo data seeded")
		}
		return s, nil, nil
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(gormDB); err != nil {
		return nil, nil, err
	}
	return infraRepo.NewGormLedger(gormDB), infraRepo.NewTxManagerGorm(gormDB), nil
}
