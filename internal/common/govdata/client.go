// Package govdata fetches regional rent, wage and commodity figures from the
// government open data API, caching results in Redis.
package govdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"bizhealth-workers/internal/common/config"
	apperrors "bizhealth-workers/internal/common/errors"
	apphttp "bizhealth-workers/internal/common/http"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/common/metrics"
	"bizhealth-workers/internal/models"
)

const cachePrefix = "location:"

var cityStates = map[string]string{
	"mumbai":    "Maharashtra",
	"delhi":     "Delhi",
	"bangalore": "Karnataka",
	"chennai":   "Tamil Nadu",
	"pune":      "Maharashtra",
	"hyderabad": "Telangana",
	"kolkata":   "West Bengal",
	"ahmedabad": "Gujarat",
}

// StateFor maps a city to its state, "Unknown" when not listed.
func StateFor(city string) string {
	if state, ok := cityStates[normalize(city)]; ok {
		return state
	}
	return "Unknown"
}

// Client implements feasibility.LocationDataProvider.
type Client struct {
	baseURL  string
	apiKey   string
	http     *apphttp.Client
	cache    redis.Cmdable
	cacheTTL time.Duration
	logger   logger.Logger
}

// NewClient builds a client from cfg. cache may be nil to disable caching.
func NewClient(cfg config.LocationDataConfig, cache redis.Cmdable, log logger.Logger, opts ...apphttp.Option) *Client {
	opts = append([]apphttp.Option{
		apphttp.WithRetry(cfg.MaxRetries, time.Duration(cfg.RetryDelay)*time.Millisecond),
		apphttp.WithLogger(log),
	}, opts...)

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		http:     apphttp.NewClient(time.Duration(cfg.Timeout)*time.Millisecond, opts...),
		cache:    cache,
		cacheTTL: time.Duration(cfg.CacheTTL) * time.Second,
		logger:   log.WithFields(map[string]interface{}{"component": "govdata"}),
	}
}

// Fetch returns location data for city, from cache when present. Any missing
// piece of the API answer is DATA_UNAVAILABLE.
func (c *Client) Fetch(ctx context.Context, city string, businessType models.BusinessType) (*models.LocationData, error) {
	if strings.TrimSpace(city) == "" {
		return nil, apperrors.NewDataUnavailableError(city, errors.New("city is empty"))
	}

	key := CacheKey(city, businessType)
	if data, ok := c.fromCache(ctx, key); ok {
		return data, nil
	}

	data, err := c.fetchRemote(ctx, city, businessType)
	if err != nil {
		return nil, apperrors.NewDataUnavailableError(city, err)
	}

	c.toCache(ctx, key, data)
	return data, nil
}

// IsAvailable probes the API health endpoint.
func (c *Client) IsAvailable(ctx context.Context) bool {
	if _, err := c.http.Get(ctx, c.baseURL+"/health"); err != nil {
		c.logger.Warn("government data API not available", map[string]interface{}{"error": err.Error()})
		return false
	}
	return true
}

// CacheKey is the Redis key of a city and business type.
func CacheKey(city string, businessType models.BusinessType) string {
	return cachePrefix + normalize(city) + ":" + strings.ToLower(businessType.String())
}

func (c *Client) fromCache(ctx context.Context, key string) (*models.LocationData, bool) {
	if c.cache == nil {
		return nil, false
	}

	raw, err := c.cache.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.LocationCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		metrics.LocationCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("location cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		return nil, false
	}

	var data models.LocationData
	if err := json.Unmarshal(raw, &data); err != nil {
		metrics.LocationCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("location cache entry corrupt", map[string]interface{}{"key": key, "error": err.Error()})
		return nil, false
	}

	metrics.LocationCacheLookups.WithLabelValues("hit").Inc()
	data.Source = models.LocationSourceCache
	return &data, true
}

func (c *Client) toCache(ctx context.Context, key string, data *models.LocationData) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.cacheTTL).Err(); err != nil {
		c.logger.Warn("location cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (c *Client) fetchRemote(ctx context.Context, city string, businessType models.BusinessType) (*models.LocationData, error) {
	c.logger.Info("fetching government data", map[string]interface{}{
		"city":         city,
		"businessType": businessType,
	})

	var rentBody, wageBody, priceBody map[string]interface{}
	if err := c.http.GetJSON(ctx, c.resourceURL("commercial-rent", city), &rentBody); err != nil {
		return nil, fmt.Errorf("commercial rent: %w", err)
	}
	if err := c.http.GetJSON(ctx, c.resourceURL("minimum-wages", city), &wageBody); err != nil {
		return nil, fmt.Errorf("minimum wages: %w", err)
	}
	if err := c.http.GetJSON(ctx, c.resourceURL("commodity-prices", city), &priceBody); err != nil {
		return nil, fmt.Errorf("commodity prices: %w", err)
	}

	rent, err := number(rentBody, "average_rent_per_sqft")
	if err != nil {
		return nil, err
	}
	wage, err := number(wageBody, "average_monthly_wage")
	if err != nil {
		return nil, err
	}

	data := &models.LocationData{
		City:        city,
		State:       StateFor(city),
		RentPerSqFt: rent,
		AverageWage: wage,
		Source:      models.LocationSourceAPI,
	}
	for field, dst := range map[string]*decimal.Decimal{
		"milk_price":        &data.CommodityPrices.Milk,
		"steel_price":       &data.CommodityPrices.Steel,
		"fabric_price":      &data.CommodityPrices.Fabric,
		"electricity_price": &data.CommodityPrices.Electricity,
		"fuel_price":        &data.CommodityPrices.Fuel,
	} {
		v, err := number(priceBody, field)
		if err != nil {
			return nil, fmt.Errorf("commodity prices: %w", err)
		}
		*dst = v
	}

	if err := data.Validate(); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) resourceURL(resource, city string) string {
	u := fmt.Sprintf("%s/resource/%s/%s", c.baseURL, resource, url.PathEscape(city))
	if c.apiKey != "" {
		u += "?api-key=" + url.QueryEscape(c.apiKey)
	}
	return u
}

func number(body map[string]interface{}, field string) (decimal.Decimal, error) {
	raw, ok := body[field]
	if !ok || raw == nil {
		return decimal.Zero, fmt.Errorf("field %s missing", field)
	}
	if s, ok := raw.(string); ok {
		return decimal.NewFromString(strings.TrimSpace(s))
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("field %s: %w", field, err)
	}
	return decimal.NewFromFloat(f), nil
}

func normalize(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
