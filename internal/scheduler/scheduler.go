// Package scheduler runs periodic maintenance outside the job flow.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"bizhealth-workers/internal/common/config"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/models"
)

const defaultWarmTimeout = 2 * time.Minute

// Fetcher loads location data, filling its cache as a side effect.
type Fetcher interface {
	Fetch(ctx context.Context, city string, businessType models.BusinessType) (*models.LocationData, error)
}

// WarmResult counts the outcome of one warm run.
type WarmResult struct {
	Warmed int
	Failed int
}

// CacheWarmer refreshes cached location data for the configured cities on a
// cron schedule, so feasibility jobs rarely wait on the government API.
type CacheWarmer struct {
	cron     *cron.Cron
	fetcher  Fetcher
	cities   []string
	schedule string
	timeout  time.Duration
	logger   logger.Logger

	mu      sync.Mutex
	running bool
}

func NewCacheWarmer(cfg config.SchedulerConfig, fetcher Fetcher, log logger.Logger) *CacheWarmer {
	log = log.WithFields(map[string]interface{}{"component": "cache-warmer"})
	return &CacheWarmer{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{log}))),
		fetcher:  fetcher,
		cities:   cfg.Cities,
		schedule: cfg.CacheWarmCron,
		timeout:  defaultWarmTimeout,
		logger:   log,
	}
}

// Start registers the warm job and starts the cron loop.
func (w *CacheWarmer) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("cache warmer already running")
	}
	if len(w.cities) == 0 {
		w.logger.Info("no cities configured, cache warmer idle", nil)
		return nil
	}

	if _, err := w.cron.AddFunc(w.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()
		w.Warm(ctx)
	}); err != nil {
		return fmt.Errorf("invalid cache warm schedule %q: %w", w.schedule, err)
	}

	w.cron.Start()
	w.running = true
	w.logger.Info("cache warmer started", map[string]interface{}{
		"schedule": w.schedule,
		"cities":   w.cities,
	})
	return nil
}

// Stop halts the schedule and waits for a running warm to finish or ctx to end.
func (w *CacheWarmer) Stop(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false

	select {
	case <-w.cron.Stop().Done():
		w.logger.Info("cache warmer stopped", nil)
	case <-ctx.Done():
		w.logger.Warn("cache warmer stop timed out", nil)
	}
}

// Warm fetches every configured city for every business type. Failures are
// logged and counted, never fatal.
func (w *CacheWarmer) Warm(ctx context.Context) WarmResult {
	start := time.Now()
	var result WarmResult

	for _, city := range w.cities {
		for _, bt := range models.BusinessTypes {
			if ctx.Err() != nil {
				w.logger.Warn("cache warm interrupted", map[string]interface{}{"error": ctx.Err().Error()})
				return result
			}
			if _, err := w.fetcher.Fetch(ctx, city, bt); err != nil {
				result.Failed++
				w.logger.Warn("cache warm failed", map[string]interface{}{
					"city":         city,
					"businessType": bt.String(),
					"error":        err.Error(),
				})
				continue
			}
			result.Warmed++
		}
	}

	w.logger.Info("cache warm finished", map[string]interface{}{
		"warmed":   result.Warmed,
		"failed":   result.Failed,
		"duration": time.Since(start).String(),
	})
	return result
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, pairs(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := pairs(keysAndValues)
	fields["error"] = err.Error()
	l.log.Error(msg, fields)
}

func pairs(kv []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
