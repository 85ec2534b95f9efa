package feasibility

import (
	"context"
	"errors"

	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/common/metrics"
	"bizhealth-workers/internal/models"
)

// LocationDataProvider supplies regional cost inputs. Implementations may
// fail or be unavailable; Estimator falls back to FallbackLocationData.
type LocationDataProvider interface {
	Fetch(ctx context.Context, city string, businessType models.BusinessType) (*models.LocationData, error)
	IsAvailable(ctx context.Context) bool
}

var errProviderUnavailable = errors.New("location provider unavailable")

// Estimator resolves location data and runs CalculateCosts.
type Estimator struct {
	provider LocationDataProvider
	logger   logger.Logger
}

func NewEstimator(provider LocationDataProvider, log logger.Logger) *Estimator {
	return &Estimator{provider: provider, logger: log}
}

// Estimate always produces an analysis for a complete profile. Provider
// failures are logged and replaced by fallback location data.
func (e *Estimator) Estimate(ctx context.Context, profile *models.BusinessProfile) (*models.CostAnalysis, *models.LocationData, error) {
	if err := checkProfile(profile); err != nil {
		return nil, nil, err
	}

	location := e.ResolveLocation(ctx, profile.City, profile.BusinessType)
	analysis, err := CalculateCosts(profile, location)
	if err != nil {
		return nil, nil, err
	}

	metrics.FeasibilityCalculations.WithLabelValues(profile.BusinessType.String()).Inc()
	return analysis, location, nil
}

// ResolveLocation asks the provider for city data and substitutes
// FallbackLocationData on any failure.
func (e *Estimator) ResolveLocation(ctx context.Context, city string, bt models.BusinessType) *models.LocationData {
	location, reason, err := e.fetch(ctx, city, bt)
	if err == nil {
		return location
	}

	fallback := FallbackLocationData(city)
	e.logger.Warn("location data unavailable, using fallback", map[string]interface{}{
		"city":   city,
		"reason": reason,
		"source": fallback.Source,
		"error":  err.Error(),
	})
	metrics.LocationFallbacks.WithLabelValues(reason).Inc()
	return fallback
}

func (e *Estimator) fetch(ctx context.Context, city string, bt models.BusinessType) (*models.LocationData, string, error) {
	if e.provider == nil || !e.provider.IsAvailable(ctx) {
		return nil, "unavailable", errProviderUnavailable
	}
	location, err := e.provider.Fetch(ctx, city, bt)
	if err != nil {
		return nil, "fetch_failed", err
	}
	if location == nil {
		return nil, "empty", errors.New("provider returned no data")
	}
	if err := location.Validate(); err != nil {
		return nil, "invalid", err
	}
	return location, "", nil
}
