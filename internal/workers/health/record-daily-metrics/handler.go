package recorddailymetrics

import (
	"context"
	"database/sql"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"bizhealth-workers/internal/common/camunda"
	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/common/metrics"
	"bizhealth-workers/internal/common/validation"
	"bizhealth-workers/internal/health"
	"bizhealth-workers/internal/storage"
)

const TaskType = "record-daily-metrics"

type Handler struct {
	config    *Config
	store     *storage.MetricsStore
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, db *sql.DB, v *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		store:     storage.NewMetricsStore(db, log),
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
	date, err := health.ParseDate(input.Date)
	if err != nil {
		return nil, err
	}

	record, err := health.NewDailyMetricRecord(input.OwnerID, date, input.Sales, input.Expenses, input.Wastage)
	if err != nil {
		h.logger.Warn("rejected daily metrics", map[string]interface{}{
			"ownerId": input.OwnerID,
			"date":    input.Date,
			"error":   err.Error(),
		})
		return nil, err
	}

	id, created, err := h.store.Upsert(ctx, record)
	if err != nil {
		return nil, err
	}

	metrics.DailyHealthScore.Observe(float64(record.HealthScore()))

	h.logger.Info("daily metrics recorded", map[string]interface{}{
		"recordId":    id,
		"ownerId":     input.OwnerID,
		"date":        input.Date,
		"healthScore": record.HealthScore(),
		"created":     created,
	})

	return &Output{
		RecordID:    id,
		OwnerID:     input.OwnerID,
		Date:        date.Format(health.DateLayout),
		HealthScore: record.HealthScore(),
		Margin:      record.Margin(),
		Created:     created,
	}, nil
}
