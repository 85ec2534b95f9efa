package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizhealth-workers/internal/common/logger"
)

func TestOpsServer(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		checks     map[string]error
		wantCode   int
		wantStatus string
	}{
		{name: "liveness", path: "/health", wantCode: http.StatusOK, wantStatus: "healthy"},
		{
			name:       "all dependencies up",
			path:       "/ready",
			checks:     map[string]error{"postgres": nil, "redis": nil, "zeebe": nil},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
		},
		{
			name:       "redis down",
			path:       "/ready",
			checks:     map[string]error{"postgres": nil, "redis": errors.New("dial tcp: refused"), "zeebe": nil},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "not_ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOpsServer(0, func(context.Context) map[string]error { return tt.checks }, logger.NewTestLogger(t))

			rec := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body["status"])
		})
	}
}

func TestOpsServer_Metrics(t *testing.T) {
	srv := newOpsServer(8080, func(context.Context) map[string]error { return nil }, logger.NewNoOpLogger())
	assert.Equal(t, ":8080", srv.Addr)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "daily_health_score")
}

func TestRegistrations_CoverEveryWorker(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range registrations {
		assert.False(t, seen[r.taskType], "duplicate %s", r.taskType)
		seen[r.taskType] = true
	}
	assert.Len(t, seen, 8)
}

func TestRetryWithBackoff(t *testing.T) {
	calls := 0
	err := retryWithBackoff(func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, 0, logger.NewNoOpLogger(), "op")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	err = retryWithBackoff(func() error { return errors.New("down") }, 2, 0, logger.NewNoOpLogger(), "op")
	assert.ErrorContains(t, err, "op failed after 2 attempts")
}
