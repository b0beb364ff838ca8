package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/fincalc/finsync/internal/adapter/backend"
	httpAdapter "github.com/fincalc/finsync/internal/adapter/http"
	"github.com/fincalc/finsync/internal/adapter/http/handler"
	filerepo "github.com/fincalc/finsync/internal/adapter/repository/file"
	sqliterepo "github.com/fincalc/finsync/internal/adapter/repository/sqlite"
	"github.com/fincalc/finsync/internal/infrastructure/config"
	"github.com/fincalc/finsync/internal/infrastructure/idgen"
	"github.com/fincalc/finsync/internal/infrastructure/logger"
	"github.com/fincalc/finsync/internal/infrastructure/metrics"
	infraSqlite "github.com/fincalc/finsync/internal/infrastructure/sqlite"
	"github.com/fincalc/finsync/internal/usecase"
)

type stores struct {
	accounts          usecase.AccountStore
	categories        usecase.CategoryStore
	transactions      usecase.TransactionStore
	accountLedger     usecase.AccountLedger
	categoryLedger    usecase.CategoryLedger
	transactionLedger usecase.TransactionLedger
	pinger            handler.Pinger
	close             func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	st, err := openStores(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open local storage")
	}
	defer st.close()

	m := metrics.New()

	client, err := backend.NewClient(backend.Config{
		BaseURL: cfg.APIBaseURL,
		Token:   cfg.APIToken,
		Timeout: cfg.APITimeout,
	}, log, m)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build backend client")
	}

	idGen := idgen.NewOfflineIDGenerator()

	accountUC := usecase.NewAccountUseCase(client, st.accounts, st.accountLedger, idGen, log, m)
	categoryUC := usecase.NewCategoryUseCase(client, st.categories, st.categoryLedger, idGen, log, m)
	transactionUC := usecase.NewTransactionUseCase(
		client, st.transactions, st.transactionLedger,
		st.accounts, st.accountLedger, st.categories,
		idGen, log, m,
	)

	worker := usecase.NewReplayWorker(
		[]usecase.Replayer{accountUC, categoryUC, transactionUC},
		cfg.ReplayInterval,
		cfg.ReplayMaxInterval,
		log,
	)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC, cfg.DisplayCurrency),
		CategoryHandler:    handler.NewCategoryHandler(categoryUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC, cfg.CurrentAccountID),
		SyncHandler: handler.NewSyncHandler([]handler.SyncTarget{
			{Kind: "account", Service: accountUC},
			{Kind: "category", Service: categoryUC},
			{Kind: "transaction", Service: transactionUC},
		}),
		HealthHandler: handler.NewHealthHandler(st.pinger),
		Logger:        log,
		Metrics:       m,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go worker.Run(workerCtx)

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// openStores builds the configured storage backend.
func openStores(cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StorageBackend {
	case "sqlite":
		db, err := infraSqlite.Open(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		if err := sqliterepo.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		log.Info().Str("path", cfg.DatabasePath).Msg("opened sqlite store")
		return &stores{
			accounts:          sqliterepo.NewAccountRepository(db),
			categories:        sqliterepo.NewCategoryRepository(db),
			transactions:      sqliterepo.NewTransactionRepository(db),
			accountLedger:     sqliterepo.NewAccountBackupRepository(db),
			categoryLedger:    sqliterepo.NewCategoryBackupRepository(db),
			transactionLedger: sqliterepo.NewTransactionBackupRepository(db),
			pinger:            dbPinger{db: db},
			close:             db.Close,
		}, nil

	case "file":
		accounts, err := filerepo.NewAccountStore(cfg.FileStoreDir)
		if err != nil {
			return nil, err
		}
		categories, err := filerepo.NewCategoryStore(cfg.FileStoreDir)
		if err != nil {
			return nil, err
		}
		transactions, err := filerepo.NewTransactionStore(cfg.FileStoreDir)
		if err != nil {
			return nil, err
		}
		accountLedger, err := filerepo.NewAccountBackupStore(cfg.FileStoreDir)
		if err != nil {
			return nil, err
		}
		categoryLedger, err := filerepo.NewCategoryBackupStore(cfg.FileStoreDir)
		if err != nil {
			return nil, err
		}
		transactionLedger, err := filerepo.NewTransactionBackupStore(cfg.FileStoreDir)
		if err != nil {
			return nil, err
		}
		log.Info().Str("dir", cfg.FileStoreDir).Msg("opened file store")
		return &stores{
			accounts:          accounts,
			categories:        categories,
			transactions:      transactions,
			accountLedger:     accountLedger,
			categoryLedger:    categoryLedger,
			transactionLedger: transactionLedger,
			close:             func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

type dbPinger struct {
	db *sql.DB
}

func (p dbPinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
