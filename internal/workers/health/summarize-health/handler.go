package summarizehealth

import (
	"context"
	"database/sql"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"bizhealth-workers/internal/common/camunda"
	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/common/validation"
	"bizhealth-workers/internal/health"
	"bizhealth-workers/internal/models"
	"bizhealth-workers/internal/storage"
)

const TaskType = "summarize-health"

type Handler struct {
	config    *Config
	store     *storage.MetricsStore
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
	now       func() time.Time
}

func NewHandler(config *Config, db *sql.DB, v *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		store:     storage.NewMetricsStore(db, log),
		validator: v,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
		now:       time.Now,
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
	today := health.Day(h.now().UTC())
	if input.Today != "" {
		parsed, err := health.ParseDate(input.Today)
		if err != nil {
			return nil, err
		}
		today = parsed
	}

	records, err := h.store.Window(ctx, input.OwnerID, today)
	if err != nil {
		return nil, err
	}

	summary := health.Summarize(today, records)

	var latest *models.DailyHealthEntry
	if len(summary.DailyScores) > 0 {
		entry := summary.DailyScores[0]
		latest = &entry
	} else {
		r, err := h.store.Latest(ctx, input.OwnerID)
		if err != nil {
			return nil, err
		}
		if r != nil {
			entry := r.Entry()
			latest = &entry
		}
	}

	h.logger.Info("health summarized", map[string]interface{}{
		"ownerId":      input.OwnerID,
		"today":        today.Format(health.DateLayout),
		"days":         len(summary.DailyScores),
		"currentScore": summary.CurrentScore,
		"trend":        string(summary.Trend),
	})

	return &Output{
		OwnerID:            input.OwnerID,
		Today:              today.Format(health.DateLayout),
		HealthScoreSummary: summary,
		HasLoggedToday:     health.LoggedOn(today, records),
		Latest:             latest,
	}, nil
}
