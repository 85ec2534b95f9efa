package indexfeasibilityreport

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	"bizhealth-workers/internal/common/camunda"
	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/common/validation"
	"bizhealth-workers/internal/models"
	"bizhealth-workers/internal/storage"
)

const TaskType = "index-feasibility-report"

type Handler struct {
	config    *Config
	reports   *storage.ReportStore
	es        *elasticsearch.Client
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
	now       func() time.Time
}

func NewHandler(config *Config, db *sql.DB, es *elasticsearch.Client, v *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		reports:   storage.NewReportStore(db, log),
		es:        es,
		validator: v,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
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

	body, err := json.Marshal(h.buildDocument(report))
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("marshal report document: %w", err))
	}

	res, err := h.es.Index(
		h.config.IndexName,
		bytes.NewReader(body),
		h.es.Index.WithContext(ctx),
		h.es.Index.WithDocumentID(report.ID),
	)
	if err != nil {
		return nil, apperrors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewIndexingFailedError(h.config.IndexName, fmt.Errorf("%s", res.String()))
	}

	var result struct {
		ID     string `json:"_id"`
		Result string `json:"result"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		h.logger.Warn("could not decode index response", map[string]interface{}{"error": err.Error()})
		result.ID = report.ID
	}

	h.logger.Info("feasibility report indexed", map[string]interface{}{
		"reportId": report.ID,
		"index":    h.config.IndexName,
		"result":   result.Result,
	})

	return &Output{
		Indexed:    true,
		Index:      h.config.IndexName,
		DocumentID: result.ID,
		Result:     result.Result,
	}, nil
}

func (h *Handler) buildDocument(report *models.FeasibilityReport) *ReportDocument {
	analysis := report.Analysis
	return &ReportDocument{
		ReportID:         report.ID,
		ProfileID:        report.ProfileID,
		OwnerID:          report.OwnerID,
		BusinessType:     report.BusinessType.String(),
		BusinessTypeName: report.BusinessType.DisplayName(),
		City:             report.City,
		State:            report.Location.State,
		LocationSource:   report.LocationSource,
		TotalCapex:       analysis.TotalCapex,
		TotalOpex:        analysis.TotalOpex,
		MonthlyOpex:      analysis.MonthlyOpex,
		ProjectedRevenue: analysis.ProjectedRevenue,
		MonthlyProfit:    analysis.MonthlyProfit(),
		BreakEvenPoint:   analysis.BreakEvenPoint,
		BreakEvenMonths:  analysis.BreakEvenMonths,
		Feasible:         analysis.BreakEvenMonths != nil,
		CapexItems:       models.SortedLineItems(analysis.CapexBreakdown),
		OpexItems:        models.SortedLineItems(analysis.OpexBreakdown),
		CreatedAt:        report.CreatedAt,
		IndexedAt:        h.now(),
	}
}
