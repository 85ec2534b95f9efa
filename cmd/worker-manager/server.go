package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bizhealth-workers/internal/common/camunda"
	"bizhealth-workers/internal/common/database"
	"bizhealth-workers/internal/common/logger"
)

const readinessTimeout = 3 * time.Second

type readinessFunc func(ctx context.Context) map[string]error

func readinessCheck(pg *database.PostgresClient, rdb *database.RedisClient, zeebe *camunda.Client) readinessFunc {
	return func(ctx context.Context) map[string]error {
		return map[string]error{
			"postgres": pg.Ping(ctx),
			"redis":    rdb.Ping(ctx),
			"zeebe":    zeebe.HealthCheck(ctx),
		}
	}
}

func newOpsServer(port int, ready readinessFunc, log logger.Logger) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		status, code := "ready", http.StatusOK
		checks := make(map[string]string)
		for name, err := range ready(ctx) {
			if err != nil {
				status, code = "not_ready", http.StatusServiceUnavailable
				checks[name] = err.Error()
				log.Warn("readiness check failed", map[string]interface{}{"dependency": name, "error": err.Error()})
				continue
			}
			checks[name] = "ok"
		}
		writeStatus(w, code, map[string]interface{}{
			"status": status,
			"checks": checks,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
