// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"bizhealth-workers/internal/common/aws"
	"bizhealth-workers/internal/common/camunda"
	"bizhealth-workers/internal/common/config"
	"bizhealth-workers/internal/common/database"
	"bizhealth-workers/internal/common/govdata"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/common/observability"
	"bizhealth-workers/internal/common/validation"
	"bizhealth-workers/internal/scheduler"
	"bizhealth-workers/pkg/registry"

	ifr "bizhealth-workers/internal/workers/feasibility/index-feasibility-report"
)

const shutdownTimeout = 30 * time.Second

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	var outputs []string
	if cfg.Logging.Output != "" {
		outputs = append(outputs, cfg.Logging.Output)
	}
	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, outputs...)
	defer zapLog.Sync()

	if err := run(cfg, logger.NewZapAdapter(zapLog)); err != nil {
		zapLog.Fatal("worker manager failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	log.Info("starting worker manager", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	ctx := context.Background()

	shutdownTracing, err := observability.SetupTracing(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("tracing setup: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Error("tracer shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		return fmt.Errorf("metrics setup: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(ctx)
	}()

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, cfg.Camunda, camunda.DefaultRetryConfig, log)
	if err != nil {
		return err
	}
	defer zeebe.Close()

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		return err
	}
	defer pg.Close()
	log.Info("PostgreSQL connected successfully", nil)

	if cfg.Database.AutoMigrate {
		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("schema migration: %w", err)
		}
		log.Info("database schema ensured", nil)
	}

	// --- Elasticsearch ---
	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping(ctx)
	}, 15, 2*time.Second, log, "Elasticsearch connection")
	if err != nil {
		return err
	}
	if err := es.EnsureIndex(ctx, cfg.Reports.IndexName, ifr.IndexMapping); err != nil {
		return err
	}
	log.Info("Elasticsearch connected successfully", map[string]interface{}{"index": cfg.Reports.IndexName})

	// --- Redis ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		rdb = database.NewRedis(cfg.Database.Redis)
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info("Redis connected successfully", nil)

	// --- Registry and input validation ---
	reg, err := registry.LoadRegistry(cfg.RegistryPath)
	if err != nil {
		return fmt.Errorf("load activity registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("activity registry: %w", err)
	}
	validator, err := validation.NewFromRegistry(reg)
	if err != nil {
		return err
	}

	// --- External services ---
	locations := govdata.NewClient(cfg.LocationData, rdb.Client, log)

	deps := &dependencies{
		cfg:       cfg,
		db:        pg.DB,
		cache:     rdb.Client,
		es:        es.Client,
		locations: locations,
		validator: validator,
		log:       log,
	}
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		ses, sns, err := aws.NewClients(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.Email.FromEmail)
		if err != nil {
			return fmt.Errorf("aws clients: %w", err)
		}
		if cfg.Notifications.Email.Enabled {
			deps.email = ses
		}
		if cfg.Notifications.SMS.Enabled {
			deps.sms = sns
		}
	}

	// --- Workers ---
	workers := startWorkers(zeebe.Zeebe(), deps, obs)
	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	// --- Scheduler ---
	var warmer *scheduler.CacheWarmer
	if cfg.Scheduler.Enabled {
		warmer = scheduler.NewCacheWarmer(cfg.Scheduler, locations, log)
		if err := warmer.Start(); err != nil {
			return err
		}
	}

	// --- Health & Metrics Server ---
	srv := newOpsServer(cfg.Server.Port, readinessCheck(pg, rdb, zeebe), log)
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if warmer != nil {
		warmer.Stop(shutdownCtx)
	}
	for _, w := range workers {
		w.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("health/metrics server shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	log.Info("worker manager stopped gracefully", nil)
	return nil
}
