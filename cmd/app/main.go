package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orders/cmd"
	httpin "orders/internal/adapters/in/http"
	"orders/internal/adapters/out/kafka"
	"orders/internal/adapters/out/postgres/migrations"
	"orders/internal/adapters/out/redis"
	"orders/internal/pkg/logger"
	"orders/internal/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs := getConfigs()
	appLogger := logger.New(logger.Config{Level: configs.LogLevel, Format: configs.LogFormat, Output: os.Stdout})
	slog.SetDefault(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New("orders", registry)

	adapters, closeAdapters, err := openAdapters(ctx, configs, appLogger)
	if err != nil {
		log.Fatalf("Failed to open adapters: %v", err)
	}
	defer closeAdapters()

	app, err := cmd.NewCompositionRoot(configs, adapters, appLogger, appMetrics)
	if err != nil {
		log.Fatalf("Failed to build composition root: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, app, configs.HTTPPort, appLogger, appMetrics, registry)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	v := viper.New()
	cmd.SetDefaults(v)
	v.AutomaticEnv()
	return cmd.NewConfig(v)
}

// openAdapters connects every configured backend. The returned func closes
// whatever was opened.
func openAdapters(ctx context.Context, configs cmd.Config, appLogger *slog.Logger) (cmd.Adapters, func(), error) {
	var (
		adapters cmd.Adapters
		closers  []func() error
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				appLogger.Error("Failed to close adapter", "error", err)
			}
		}
	}

	if configs.DBHost != "" {
		if err := migrations.Up(configs.DSN()); err != nil {
			return adapters, closeAll, err
		}
		gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			return adapters, closeAll, fmt.Errorf("connect to postgres: %w", err)
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return adapters, closeAll, err
		}
		closers = append(closers, sqlDB.Close)
		adapters.GormDB = gormDB
	}

	if configs.RedisAddr != "" {
		client, err := redis.NewClient(ctx, redis.ClientConfig{
			Addr:     configs.RedisAddr,
			Password: configs.RedisPassword,
			DB:       configs.RedisDB,
		})
		if err != nil {
			return adapters, closeAll, err
		}
		closers = append(closers, client.Close)
		adapters.Cache = redis.NewCache(client, redis.DefaultBreakerConfig(), appLogger)
	}

	if brokers := configs.KafkaBrokers(); len(brokers) > 0 {
		publisher := kafka.NewOrderEventPublisher(brokers, configs.KafkaOrderChangedTopic)
		closers = append(closers, publisher.Close)
		adapters.Publisher = publisher
	}

	return adapters, closeAll, nil
}

func startWebServer(
	ctx context.Context,
	app *cmd.CompositionRoot,
	port string,
	appLogger *slog.Logger,
	appMetrics *metrics.Metrics,
	registry *prometheus.Registry,
) {
	server := httpin.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateAdvanceOrderCommandHandler(),
		app.CreateGetPendingOrdersQueryHandler(),
		app.CreateGetOrderQueryHandler(),
		appLogger,
	)

	e, err := httpin.NewEcho(ctx, server, httpin.Options{Logger: appLogger, Metrics: appMetrics, Gatherer: registry})
	if err != nil {
		log.Fatalf("Failed to build HTTP server: %v", err)
	}

	go func() {
		appLogger.Info("HTTP server started", "port", port)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", "error", err)
	}
}
