package createbusinessprofile

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
	"bizhealth-workers/internal/models"
	"bizhealth-workers/internal/onboarding"
	"bizhealth-workers/internal/storage"
)

const TaskType = "create-business-profile"

type Handler struct {
	config    *Config
	profiles  *storage.ProfileStore
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, db *sql.DB, v *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		profiles:  storage.NewProfileStore(db, log),
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
	bt, err := models.ParseBusinessType(input.BusinessType)
	if err != nil {
		return nil, err
	}

	profile, err := onboarding.BuildProfile(input.OwnerID, bt, input.Responses)
	if err != nil {
		h.logger.Warn("questionnaire not complete", map[string]interface{}{
			"ownerId":      input.OwnerID,
			"businessType": bt.String(),
			"missing":      onboarding.MissingQuestions(bt, input.Responses),
		})
		return nil, err
	}

	if err := h.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	h.logger.Info("business profile created", map[string]interface{}{
		"profileId":    profile.ID,
		"ownerId":      profile.OwnerID,
		"businessType": profile.BusinessType.String(),
		"city":         profile.City,
	})

	return &Output{
		ProfileID:    profile.ID,
		OwnerID:      profile.OwnerID,
		BusinessType: profile.BusinessType.String(),
		City:         profile.City,
		CreatedAt:    profile.CreatedAt.Format(time.RFC3339),
	}, nil
}
