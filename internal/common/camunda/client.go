package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"bizhealth-workers/internal/common/config"
	"bizhealth-workers/internal/common/logger"
)

// Client wraps the Zeebe gRPC client.
type Client struct {
	client         zbc.Client
	requestTimeout time.Duration
}

// RetryConfig defines retry behaviour while the broker comes up.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 10,
	BaseDelay:   2 * time.Second,
	MaxDelay:    30 * time.Second,
}

// Connect creates a plaintext client and waits until the broker answers a
// topology request, backing off between transient failures.
func Connect(ctx context.Context, cfg config.CamundaConfig, retry RetryConfig, log logger.Logger) (*Client, error) {
	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.BrokerAddress,
		UsePlaintextConnection: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create zeebe client: %w", err)
	}

	c := &Client{
		client:         zeebeClient,
		requestTimeout: config.GetDuration(cfg.RequestTimeout),
	}

	delay := retry.BaseDelay
	for attempt := 1; ; attempt++ {
		err = c.HealthCheck(ctx)
		if err == nil {
			return c, nil
		}
		if attempt >= retry.MaxAttempts || !isRetryableZeebeError(err) {
			break
		}

		log.Warn("zeebe broker not ready, retrying", map[string]interface{}{
			"address":     cfg.BrokerAddress,
			"attempt":     attempt,
			"nextRetryIn": delay.String(),
			"error":       err.Error(),
		})
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			zeebeClient.Close()
			return nil, ctx.Err()
		}
		delay = min(2*delay, retry.MaxDelay)
	}

	zeebeClient.Close()
	return nil, fmt.Errorf("connect to zeebe broker at %s: %w", cfg.BrokerAddress, err)
}

// Zeebe returns the raw client for opening job workers.
func (c *Client) Zeebe() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

// HealthCheck sends a topology request to the broker.
func (c *Client) HealthCheck(ctx context.Context) error {
	timeout := c.requestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

// isRetryableZeebeError reports whether err looks transient.
func isRetryableZeebeError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"unreachable",
		"broken pipe",
	} {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
