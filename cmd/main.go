package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cafe-system/internal/config"
	"cafe-system/internal/database"
	"cafe-system/internal/logger"
	"cafe-system/internal/messaging"
	"cafe-system/internal/models"
	"cafe-system/internal/services/console"
	"cafe-system/internal/services/notification"
	"cafe-system/internal/services/session"
	"cafe-system/internal/validation"
)

func main() {
	var (
		mode       = flag.String("mode", "console", "Service mode (console, notification-subscriber)")
		configPath = flag.String("config", "config.yaml", "Path to the YAML config file")
		prefetch   = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(*mode, logger.Config{Level: cfg.Log.Level, Env: cfg.Log.Env})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	requestID := logger.GenerateRequestID()
	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode":        *mode,
		"menu_source": cfg.Cafe.MenuSource,
	})

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	switch *mode {
	case "console":
		err = runConsole(ctx, cfg, log)
	case "notification-subscriber":
		if !cfg.RabbitMQ.Enabled {
			log.Warn("rabbitmq_disabled", "rabbitmq.enabled is false, connecting anyway", requestID, nil)
		}
		err = runNotificationSubscriber(ctx, cfg, log, *prefetch)
	default:
		err = fmt.Errorf("unknown mode: %s", *mode)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		log.Sync()
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runConsole builds the catalog and runs the operator terminal on stdin/stdout
func runConsole(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	seed, err := loadMenu(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := validation.ValidateSeed(seed); err != nil {
		return fmt.Errorf("invalid menu: %w", err)
	}

	catalog, err := models.NewCatalog(seed)
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}

	log.Info("catalog_loaded", "Menu loaded", requestID, map[string]interface{}{
		"source": cfg.Cafe.MenuSource,
		"items":  len(seed),
	})

	s := session.New(catalog,
		session.WithOrderCapacity(cfg.Cafe.OrderCapacity),
		session.WithLedgerCapacity(cfg.Cafe.LedgerCapacity),
	)

	var opts []console.Option
	if cfg.RabbitMQ.Enabled {
		conn, err := messaging.New(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("failed to initialize messaging: %w", err)
		}
		defer conn.Close()

		log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)
		opts = append(opts, console.WithPublisher(messaging.NewPublisher(conn, log)))
	}

	return console.New(s, os.Stdin, os.Stdout, log, opts...).Run(ctx)
}

// loadMenu returns the catalog seed from the configured source
func loadMenu(ctx context.Context, cfg *config.Config, log *logger.Logger) ([]models.SeedEntry, error) {
	switch cfg.Cafe.MenuSource {
	case config.MenuSourceConfig:
		return cfg.Menu, nil
	case config.MenuSourcePostgres:
		return loadMenuFromDatabase(ctx, cfg, log)
	default:
		return models.DefaultSeed(), nil
	}
}

func loadMenuFromDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) ([]models.SeedEntry, error) {
	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", "startup", nil)

	if err := db.RunMigrations(ctx, database.Migrations()); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db.LoadMenu(ctx)
}

// runNotificationSubscriber prints receipts published by console instances
func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	requestID := logger.GenerateRequestID()

	conn, err := messaging.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	consumer := messaging.NewConsumer(conn, log, messaging.ReceiptsQueue, "notification-subscriber", prefetch)
	subscriber := notification.NewSubscriber(consumer, log, os.Stdout)

	return subscriber.Start(ctx)
}
