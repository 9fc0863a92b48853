package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
	"xenbox/internal/adapters/eventbroker"
	"xenbox/internal/adapters/eventbroker/nats"
	"xenbox/internal/adapters/handlers/http/chi"
	"xenbox/internal/adapters/handlers/http/chi/v1/files"
	sharehandler "xenbox/internal/adapters/handlers/http/chi/v1/share"
	uploadhandler "xenbox/internal/adapters/handlers/http/chi/v1/upload"
	"xenbox/internal/adapters/hasher/argon2"
	"xenbox/internal/adapters/repository/postgres"
	"xenbox/internal/adapters/storage/minio"
	"xenbox/internal/config"
	"xenbox/internal/core/port"
	"xenbox/internal/core/service/cleanup"
	"xenbox/internal/core/service/quota"
	"xenbox/internal/core/service/registry"
	"xenbox/internal/core/service/share"
	"xenbox/internal/core/service/upload"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}(db)
	logger.Info("db connection established")

	//storage
	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}

	//events
	var publisher port.EventPublisher = eventbroker.NoopPublisher{}
	if cfg.NATS.URL != "" {
		natsPublisher, err := nats.NewNATSPublisher(ctx, cfg.NATS, logger)
		if err != nil {
			logger.Error("failed to init NATS publisher", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := natsPublisher.Close(); err != nil {
				logger.Error("failed to close NATS publisher", "error", err)
			}
		}()
		publisher = natsPublisher
		logger.Info("NATS publisher initialized", "stream", cfg.NATS.StreamName)
	} else {
		logger.Warn("NATS_URL not set, events are dropped")
	}

	unitOfWork := postgres.NewUnitOfWork(db)
	hasher := argon2.NewHasher(argon2.DefaultParams)
	quotaGuard := quota.NewQuotaGuard(unitOfWork, cfg.Quota)
	assembler := upload.NewAssembler(minioAdapter)

	uploadService := upload.NewUploadService(unitOfWork, minioAdapter, assembler, quotaGuard, publisher, cfg.Upload, cfg.Share, logger)
	shareService := share.NewShareService(unitOfWork, minioAdapter, hasher, publisher, logger)
	registryService := registry.NewRegistryService(unitOfWork, minioAdapter, hasher, quotaGuard, publisher, cfg.Share, logger)
	cleanupService := cleanup.NewCleanupService(unitOfWork, minioAdapter, logger)

	//http
	router := chi.NewRouter(logger, chi.Handlers{
		Upload: uploadhandler.NewUploadHandlerV1(uploadService, logger),
		Files:  files.NewFilesHandlerV1(registryService, logger),
		Share:  sharehandler.NewShareHandlerV1(shareService, logger),
	}, cfg)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// expired upload sessions
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("cleanup task initialized", "interval", cfg.Upload.CleanupEvery)
		cleanup.Run(ctx, cleanupService, cfg.Upload.CleanupEvery, logger)
		logger.Info("cleanup task stopped")
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")
}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}
