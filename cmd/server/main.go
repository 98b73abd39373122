package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	appsales "github.com/lacaja/backend/internal/application/sales"
	"github.com/lacaja/backend/internal/infrastructure/config"
	"github.com/lacaja/backend/internal/infrastructure/event"
	"github.com/lacaja/backend/internal/infrastructure/logger"
	"github.com/lacaja/backend/internal/infrastructure/persistence"
)

// reversalEngine bundles the operations the deployment hands to the POS
// transport.
type reversalEngine struct {
	Returns *appsales.ReturnService
	Voids   *appsales.VoidService
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting sale reversal engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Event plumbing: serializer, bus, outbox
	serializer := event.NewSalesEventSerializer()
	eventBus := event.NewInMemoryEventBus(log)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services. The stock and accounting collaborators are not
	// built here: the transaction scope hands them out per transaction so
	// their writes commit and roll back with the repositories.
	scope := persistence.NewGormTransactionScope(db.DB, serializer)

	// The POS transport invokes the engine per deployment; this process
	// owns its wiring and the outbox drain.
	engine := &reversalEngine{
		Returns: appsales.NewReturnService(scope, log),
		Voids:   appsales.NewVoidService(scope, log),
	}

	// Outbox processor for guaranteed event delivery. When disabled, the
	// void service publishes directly to the bus after commit.
	if cfg.Event.ProcessorEnabled {
		processorConfig := event.DefaultOutboxProcessorConfig()
		processorConfig.BatchSize = cfg.Event.BatchSize
		processorConfig.PollInterval = cfg.Event.PollInterval
		processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		processorConfig.CleanupRetention = cfg.Event.CleanupRetention

		processor := event.NewOutboxProcessor(outboxRepo, eventBus, serializer, processorConfig, log)
		if err := processor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := processor.Stop(stopCtx); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
	} else {
		engine.Voids.WithFallbackPublisher(eventBus)
		log.Info("Outbox processor disabled, using post-commit publishing")
	}

	log.Info("Sale reversal engine ready")

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "info":
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}
