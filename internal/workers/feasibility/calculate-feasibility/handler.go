package calculatefeasibility

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	"bizhealth-workers/internal/common/camunda"
	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/common/validation"
	"bizhealth-workers/internal/feasibility"
	"bizhealth-workers/internal/models"
	"bizhealth-workers/internal/storage"
)

const TaskType = "calculate-feasibility"

type Handler struct {
	config    *Config
	profiles  *storage.ProfileStore
	reports   *storage.ReportStore
	cache     redis.Cmdable
	estimator *feasibility.Estimator
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(
	config *Config,
	db *sql.DB,
	cache redis.Cmdable,
	provider feasibility.LocationDataProvider,
	v *validation.Validator,
	log logger.Logger,
) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		profiles:  storage.NewProfileStore(db, log),
		reports:   storage.NewReportStore(db, log),
		cache:     cache,
		estimator: feasibility.NewEstimator(provider, log),
		validator: v,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := camunda.Decode(job, h.validator, &input); err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	camunda.Complete(ctx, client, job, output, h.logger)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	profile, err := h.loadProfile(ctx, input.ProfileID)
	if err != nil {
		return nil, err
	}

	analysis, location, err := h.estimator.Estimate(ctx, profile)
	if err != nil {
		return nil, err
	}

	report := &models.FeasibilityReport{
		ProfileID:      profile.ID,
		OwnerID:        profile.OwnerID,
		BusinessType:   profile.BusinessType,
		City:           profile.City,
		Analysis:       *analysis,
		Location:       *location,
		LocationSource: location.Source,
	}
	if err := h.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	h.logger.Info("feasibility report created", map[string]interface{}{
		"reportId":        report.ID,
		"profileId":       profile.ID,
		"businessType":    profile.BusinessType.String(),
		"locationSource":  location.Source,
		"totalCapex":      analysis.TotalCapex.String(),
		"monthlyOpex":     analysis.MonthlyOpex.String(),
		"breakEvenMonths": analysis.BreakEvenMonths,
	})

	return &Output{
		ReportID:       report.ID,
		ProfileID:      profile.ID,
		BusinessType:   profile.BusinessType.String(),
		City:           profile.City,
		Analysis:       *analysis,
		LocationSource: location.Source,
		Feasible:       analysis.BreakEvenMonths != nil,
	}, nil
}

func profileCacheKey(id string) string {
	return "profile:" + id
}

// loadProfile reads through the Redis cache. Cache failures only cost a
// database round trip.
func (h *Handler) loadProfile(ctx context.Context, id string) (*models.BusinessProfile, error) {
	key := profileCacheKey(id)

	if h.cache != nil {
		raw, err := h.cache.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var profile models.BusinessProfile
			if jsonErr := json.Unmarshal(raw, &profile); jsonErr == nil {
				h.logger.Debug("profile cache hit", map[string]interface{}{"profileId": id})
				return &profile, nil
			}
			h.logger.Warn("discarding corrupt cached profile", map[string]interface{}{"profileId": id})
		case errors.Is(err, redis.Nil):
		default:
			h.logger.Warn("profile cache read failed", map[string]interface{}{
				"profileId": id,
				"error":     err.Error(),
			})
		}
	}

	profile, err := h.profiles.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if raw, err := json.Marshal(profile); err == nil {
			if err := h.cache.Set(ctx, key, raw, h.config.ProfileCacheTTL).Err(); err != nil {
				h.logger.Warn("profile cache write failed", map[string]interface{}{
					"profileId": id,
					"error":     err.Error(),
				})
			}
		}
	}
	return profile, nil
}
