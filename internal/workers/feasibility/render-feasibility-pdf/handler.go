package renderfeasibilitypdf

import (
	"context"
	"database/sql"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"bizhealth-workers/internal/common/camunda"
	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/common/validation"
	"bizhealth-workers/internal/storage"
)

const TaskType = "render-feasibility-pdf"

type Handler struct {
	config    *Config
	reports   *storage.ReportStore
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, db *sql.DB, v *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		reports:   storage.NewReportStore(db, log),
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
	report, err := h.reports.Get(ctx, input.ReportID)
	if err != nil {
		return nil, err
	}

	if report.HasPDF && !input.Regenerate {
		doc, err := h.reports.PDF(ctx, report.ID)
		if err != nil {
			return nil, err
		}
		if len(doc) > 0 {
			h.logger.Debug("returning stored pdf", map[string]interface{}{"reportId": report.ID})
			return &Output{ReportID: report.ID, SizeBytes: len(doc), Cached: true}, nil
		}
	}

	doc, err := Render(report, h.config.Author)
	if err != nil {
		return nil, apperrors.NewReportRenderFailedError(err)
	}

	if err := h.reports.SavePDF(ctx, report.ID, doc); err != nil {
		return nil, err
	}

	h.logger.Info("feasibility pdf rendered", map[string]interface{}{
		"reportId":   report.ID,
		"sizeBytes":  len(doc),
		"regenerate": input.Regenerate,
	})

	return &Output{ReportID: report.ID, SizeBytes: len(doc)}, nil
}
