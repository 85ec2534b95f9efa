package nextquestion

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"bizhealth-workers/internal/common/camunda"
	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/common/validation"
	"bizhealth-workers/internal/models"
	"bizhealth-workers/internal/onboarding"
)

const TaskType = "next-question"

type Handler struct {
	config    *Config
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, v *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	var bt models.BusinessType
	if input.BusinessType != "" {
		parsed, err := models.ParseBusinessType(input.BusinessType)
		if err != nil {
			return nil, err
		}
		bt = parsed
	}

	responses := input.Responses
	if responses == nil {
		responses = models.ResponseSet{}
	}

	step := onboarding.NextStep(bt, responses)
	remaining := []string{onboarding.QuestionBusinessType}
	if bt != "" {
		remaining = onboarding.MissingQuestions(bt, responses)
	}
	if remaining == nil {
		remaining = []string{}
	}

	h.logger.Debug("next questionnaire step", map[string]interface{}{
		"businessType": bt.String(),
		"stepId":       step.ID,
		"answered":     len(responses),
		"remaining":    len(remaining),
	})

	return &Output{
		BusinessType: bt.String(),
		Step:         step,
		Complete:     step.Complete,
		Remaining:    remaining,
	}, nil
}
