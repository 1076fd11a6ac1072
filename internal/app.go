package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"

	"github.com/cosminpetcu/carstat/internal/adapters/checkpointfile"
	"github.com/cosminpetcu/carstat/internal/adapters/fetcher"
	logger_adapter "github.com/cosminpetcu/carstat/internal/adapters/logger"
	"github.com/cosminpetcu/carstat/internal/adapters/postgres"
	rabbitmq_adapter "github.com/cosminpetcu/carstat/internal/adapters/rabbitmq"
	"github.com/cosminpetcu/carstat/internal/adapters/rest"
	"github.com/cosminpetcu/carstat/internal/configs"
	"github.com/cosminpetcu/carstat/internal/constants"
	"github.com/cosminpetcu/carstat/internal/contextkeys"
	"github.com/cosminpetcu/carstat/internal/core/port"
	"github.com/cosminpetcu/carstat/internal/core/usecase"
	pkgpostgres "github.com/cosminpetcu/carstat/pkg/postgres"
	fluentlogger "github.com/cosminpetcu/carstat/pkg/fluentlogger"
	"github.com/cosminpetcu/carstat/pkg/rabbitmq/rabbitmq_common"
	"github.com/cosminpetcu/carstat/pkg/rabbitmq/rabbitmq_consumer"
	"github.com/cosminpetcu/carstat/pkg/rabbitmq/rabbitmq_producer"
)

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server

	dbPool          *pgxpool.Pool
	eventProducer   *rabbitmq_producer.Publisher
	listingConsumer *rabbitmq_adapter.ListingConsumerAdapter
	scheduler       *cron.Cron

	logger       port.LoggerPort
	fluentClient *fluent.Fluent // для корректного закрытия
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 2. POSTGRESQL ---
	dbPool, err := pkgpostgres.NewClient(context.Background(), pkgpostgres.Config{
		DatabaseURL: appConfig.Postgres.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := postgres.EnsureSchema(context.Background(), dbPool); err != nil {
		dbPool.Close()
		return nil, err
	}
	appLogger.Info("PostgreSQL pool initialized, schema ensured.", nil)

	listingStorage, err := postgres.NewListingStorageAdapter(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	// --- 3. ЧЕКПОИНТЫ И СЕССИИ ИСТОЧНИКОВ ---
	checkpointStore, err := checkpointfile.NewCheckpointFileStore(appConfig.Crawler.CheckpointDir)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create checkpoint store: %w", err)
	}
	sessionFactory := fetcher.NewSessionFactory(appConfig.Crawler.RequestDelay)

	// --- 4. RABBITMQ ---
	connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger)
	connManager, err := rabbitmq_common.GetManager(appConfig.RabbitMQ.URL, connManagerBridge)
	if err != nil {
		dbPool.Close()
		appLogger.Error("Failed to create connection manager", err, nil)
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

	producerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})
	producerCfg := rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:             constants.RunReportsExchange,
		ExchangeType:             "direct",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(producerLogger),
	}
	eventProducer, err := rabbitmq_producer.NewPublisher(producerCfg, connManager)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	appLogger.Info("RabbitMQ Event Producer initialized.", nil)

	reportQueue, err := rabbitmq_adapter.NewRunReportQueueAdapter(eventProducer)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	// --- 5. USE CASES ---
	reconcileUC := usecase.NewReconcileListingUseCase(listingStorage)
	runCrawlUC := usecase.NewRunCrawlUseCase(listingStorage, checkpointStore, sessionFactory, reconcileUC, reportQueue, appConfig.Crawler.Workers)
	runAnalyticsUC := usecase.NewRunAnalyticsUseCase(listingStorage, reportQueue)
	saveListingUC := usecase.NewSaveCarListingUseCase(listingStorage)
	getStatsUC := usecase.NewGetStoreStatsUseCase(listingStorage)
	appLogger.Info("All use cases initialized", nil)

	// --- 6. ПОТРЕБИТЕЛЬ ОБНАРУЖЕННЫХ ОБЪЯВЛЕНИЙ ---
	consumerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_consumer"})
	consumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		QueueName:              constants.ProcessedListingsQueue,
		DeclareQueue:           true,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.ListingsExchange,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    "direct",
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.ProcessedListingsRoutingKey,
		PrefetchCount:          10,
		Logger:                 rabbitmq_adapter.NewPkgLoggerBridge(consumerLogger),
	}
	consumer, err := rabbitmq_consumer.NewConsumer(consumerCfg, connManager)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create listings consumer: %w", err)
	}
	listingConsumer, err := rabbitmq_adapter.NewListingConsumerAdapter(consumer, saveListingUC, baseLogger)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	// --- 7. ПЛАНИРОВЩИК И REST ---
	scheduler := buildScheduler(appConfig, baseLogger, runCrawlUC, runAnalyticsUC)

	apiHandlers := rest.NewMarketHandlers(runCrawlUC, runAnalyticsUC, getStatsUC)
	apiServer := rest.NewServer(appConfig.Rest.PORT, apiHandlers, baseLogger)

	application := &App{
		config:          appConfig,
		apiServer:       apiServer,
		dbPool:          dbPool,
		eventProducer:   eventProducer,
		listingConsumer: listingConsumer,
		scheduler:       scheduler,
		logger:          appLogger,
		fluentClient:    fluentClient,
	}

	return application, nil
}

// buildScheduler настраивает cron-расписания фоновых прогонов.
// Пустое расписание означает запуск только вручную через REST.
func buildScheduler(cfg *configs.AppConfig, baseLogger port.LoggerPort,
	runCrawlUC *usecase.RunCrawlUseCase,
	runAnalyticsUC *usecase.RunAnalyticsUseCase) *cron.Cron {

	cronLogger := baseLogger.WithFields(port.Fields{"component": "scheduler"})
	scheduler := cron.New()

	scheduledCtx := func() context.Context {
		return contextkeys.ContextWithLogger(context.Background(), cronLogger)
	}

	if cfg.Crawler.CrawlSchedule != "" {
		if _, err := scheduler.AddFunc(cfg.Crawler.CrawlSchedule, func() {
			if _, err := runCrawlUC.Execute(scheduledCtx()); err != nil {
				cronLogger.Warn("Scheduled crawl run skipped", port.Fields{"reason": err.Error()})
			}
		}); err != nil {
			cronLogger.Error("Invalid crawl schedule, ignoring", err, port.Fields{"schedule": cfg.Crawler.CrawlSchedule})
		}
	}

	if cfg.Crawler.AnalyticsSchedule != "" {
		if _, err := scheduler.AddFunc(cfg.Crawler.AnalyticsSchedule, func() {
			if _, err := runAnalyticsUC.Execute(scheduledCtx()); err != nil {
				cronLogger.Warn("Scheduled analytics run skipped", port.Fields{"reason": err.Error()})
			}
		}); err != nil {
			cronLogger.Error("Invalid analytics schedule, ignoring", err, port.Fields{"schedule": cfg.Crawler.AnalyticsSchedule})
		}
	}

	return scheduler
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.scheduler != nil {
			a.scheduler.Stop()
		}

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.listingConsumer != nil {
			if err := a.listingConsumer.Close(); err != nil {
				a.logger.Error("Error closing listings consumer", err, nil)
			}
		}

		if a.eventProducer != nil {
			if err := a.eventProducer.Close(); err != nil {
				a.logger.Error("Error closing event producer", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	consumerErrors := make(chan error, 1)
	go func() {
		if err := a.listingConsumer.Start(appCtx); err != nil {
			consumerErrors <- fmt.Errorf("listings consumer failed: %w", err)
		}
	}()

	a.scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or component error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		a.logger.Error("HTTP server failed, shutting down", err, nil)
	case err := <-consumerErrors:
		a.logger.Error("Listings consumer failed, shutting down", err, nil)
	}

	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// Возвращаем безопасное значение по умолчанию и логируем предупреждение
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
