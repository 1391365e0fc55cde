package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"bankengine/internal/app/currency"
	"bankengine/internal/app/transfers"
	"bankengine/internal/config"
	"bankengine/internal/domain"
	transfers_http "bankengine/internal/handler/http/transfers"
	kafka_handler "bankengine/internal/handler/kafka"
	"bankengine/internal/infrastructure/database"
	kafka_infra "bankengine/internal/infrastructure/kafka"
	"bankengine/internal/metrics"
	"bankengine/internal/outbox"
	"bankengine/internal/repository/inbox_repo"
	"bankengine/internal/repository/instruments_repo"
	"bankengine/internal/repository/outbox_repo"
	"bankengine/internal/repository/rates_repo"
	"bankengine/internal/repository/transfers_repo"
	"bankengine/internal/util"
)

func newLogger(level string) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	return zapConfig.Build()
}

func connectDB(cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	dbConfig := database.DBConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.Name,
		SSLMode:  cfg.DBConfig.SSLMode,
	}

	var (
		db  *sql.DB
		err error
	)
	maxRetries := 10
	retryDelay := 5 * time.Second
	for i := 0; i < maxRetries; i++ {
		db, err = database.NewPostgresDB(dbConfig)
		if err == nil {
			logger.Info("Successfully connected to PostgreSQL database!")
			return db, nil
		}
		logger.Warn("Failed to connect to database, retrying",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_in", retryDelay),
			zap.Error(err))
		time.Sleep(retryDelay)
	}
	return nil, err
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	appLogger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create zap logger: %v\n", err)
		os.Exit(1)
	}
	exitCode := 0
	defer func() { os.Exit(exitCode) }()
	defer appLogger.Sync()
	appLogger.Info("Transfers Service starting...")

	baseCurrency, err := domain.ParseCurrency(cfg.Rates.BaseCurrency)
	if err != nil {
		appLogger.Fatal("Invalid RATES_BASE_CURRENCY", zap.Error(err))
	}

	appLogger.Info("Waiting for database to be available...")
	db, err := connectDB(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Could not connect to database after multiple retries. Exiting.", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Error closing database connection", zap.Error(err))
		} else {
			appLogger.Info("Database connection closed.")
		}
	}()

	appLogger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.MigrationsPath, cfg.GetDBMigrationConnectionString(), appLogger); err != nil {
		appLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	kafkaBrokers := cfg.GetKafkaBrokers()
	topicsCtx, cancelTopics := context.WithTimeout(context.Background(), 10*time.Second)
	err = kafka_infra.EnsureTopics(topicsCtx, kafkaBrokers, []string{
		cfg.KafkaTransferEventsTopic,
		cfg.KafkaTransferCommandsTopic,
	}, appLogger)
	cancelTopics()
	if err != nil {
		appLogger.Fatal("Failed to ensure Kafka topics", zap.Error(err))
	}

	collector := metrics.NewCollector()
	unitOfWork := database.NewUnitOfWork(db, appLogger.With(zap.String("component", "UnitOfWork")))

	dataKey, err := util.LoadOrCreateKey(cfg.DataKeyFile)
	if err != nil {
		appLogger.Fatal("Failed to load data encryption key", zap.Error(err), zap.String("path", cfg.DataKeyFile))
	}
	fieldCipher, err := util.NewAESCipher(dataKey)
	if err != nil {
		appLogger.Fatal("Failed to create field cipher", zap.Error(err))
	}

	instrumentRepository := instruments_repo.NewInstrumentRepository()
	transferRepository := transfers_repo.NewTransferRepository(fieldCipher)
	outboxRepository := outbox_repo.NewOutboxRepository()
	inboxRepository := inbox_repo.NewInboxRepository()
	ratesRepository := rates_repo.NewRatesRepository()

	rateTable := currency.NewRateTable()
	rateRefresher := currency.NewRefresher(
		rateTable,
		currency.NewHTTPProvider(cfg.Rates.ProviderURL, cfg.Rates.APIKey, cfg.Rates.HTTPTimeout),
		ratesRepository,
		db,
		baseCurrency,
		cfg.Rates.RefreshInterval,
		collector,
		appLogger.With(zap.String("component", "RateRefresher")),
	)

	picker := transfers.NewRandomPicker(nil)
	transferService := transfers.NewTransferService(transfers.Dependencies{
		DB:          db,
		UnitOfWork:  unitOfWork,
		Instruments: instrumentRepository,
		Transfers:   transferRepository,
		Outbox:      outboxRepository,
		Converter:   currency.NewConverter(rateTable),
		References:  util.NewRandomReferenceGenerator(nil),
		IDs:         util.UUIDGenerator{},
		Amounts:     picker,
		Categories:  picker,
		Metrics:     collector,
	}, transfers.Options{
		ReferenceMaxAttempts: cfg.ReferenceMaxAttempts,
		RecordDenied:         cfg.RecordDeniedTransfers,
		TxTimeout:            cfg.DBConfig.TxTimeout,
		PurchaseMaxAmount:    cfg.CardPurchaseMaxAmount,
	}, appLogger.With(zap.String("component", "TransferService")))
	appLogger.Info("Transfer Service initialized.")

	router := transfers_http.NewRouter(cfg.CORSAllowedOrigins, 2*cfg.DBConfig.TxTimeout)
	transfers_http.RegisterRoutes(router, transferService, rateTable, collector.Handler(), appLogger.With(zap.String("component", "HTTPHandler")))

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	kafkaProducer := kafka_infra.NewProducer(kafkaBrokers, appLogger.With(zap.String("component", "KafkaProducer")))
	defer kafkaProducer.Close()

	outboxProcessor := outbox.NewProcessor(
		unitOfWork,
		outboxRepository,
		kafkaProducer,
		cfg.KafkaTransferEventsTopic,
		cfg.OutboxPollInterval,
		cfg.OutboxPollTimeout,
		cfg.OutboxBatchSize,
		collector,
		appLogger.With(zap.String("component", "OutboxProcessor")),
	)

	commandHandler := kafka_handler.TransferCommandMessageHandler(kafka_handler.TransferCommandHandlerDeps{
		UnitOfWork:    unitOfWork,
		Inbox:         inboxRepository,
		Service:       transferService,
		ConsumerGroup: cfg.KafkaConsumerGroup,
		Metrics:       collector,
		RateAttempts:  cfg.CommandRateAttempts,
	}, appLogger.With(zap.String("component", "TransferCommandHandler")))
	commandConsumer := kafka_infra.NewConsumer(
		kafkaBrokers,
		cfg.KafkaTransferCommandsTopic,
		cfg.KafkaConsumerGroup,
		commandHandler,
		appLogger.With(zap.String("component", "TransferCommandConsumer")),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Info("Starting HTTP server", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return rateRefresher.Start(gCtx)
	})
	g.Go(func() error {
		return outboxProcessor.Start(gCtx)
	})
	g.Go(func() error {
		return commandConsumer.Consume(gCtx)
	})
	g.Go(func() error {
		<-gCtx.Done()
		appLogger.Info("Shutting down application...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("HTTP server graceful shutdown failed", zap.Error(err))
		} else {
			appLogger.Info("HTTP server gracefully shut down.")
		}
		if err := commandConsumer.Close(); err != nil {
			appLogger.Error("Error closing transfer command consumer", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Transfers Service stopped with error", zap.Error(err))
		exitCode = 1
		return
	}
	appLogger.Info("Application gracefully shut down.")
}
