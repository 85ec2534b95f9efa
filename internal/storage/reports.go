package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/models"
)

// ReportStore reads and writes feasibility_reports.
type ReportStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewReportStore(db *sql.DB, log logger.Logger) *ReportStore {
	return &ReportStore{db: db, logger: log}
}

// Create inserts report, assigning ID and CreatedAt when unset.
func (s *ReportStore) Create(ctx context.Context, report *models.FeasibilityReport) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	analysis, err := json.Marshal(report.Analysis)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(fmt.Errorf("marshal analysis: %w", err))
	}
	location, err := json.Marshal(report.Location)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(fmt.Errorf("marshal location: %w", err))
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO feasibility_reports (
			id, profile_id, owner_id, business_type, city, analysis, location, location_source, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		report.ID,
		report.ProfileID,
		report.OwnerID,
		report.BusinessType.String(),
		report.City,
		analysis,
		location,
		report.LocationSource,
		report.CreatedAt,
	)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(err)
	}

	audit(ctx, s.db, s.logger, "feasibility_report_created", "feasibility_report", report.ID, map[string]interface{}{
		"profileId":      report.ProfileID,
		"locationSource": report.LocationSource,
	})
	return nil
}

// Get loads a report without its PDF bytes.
func (s *ReportStore) Get(ctx context.Context, id string) (*models.FeasibilityReport, error) {
	var (
		report   models.FeasibilityReport
		bt       string
		analysis []byte
		location []byte
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, profile_id, owner_id, business_type, city, analysis, location, location_source,
		       pdf_document IS NOT NULL, created_at
		FROM feasibility_reports
		WHERE id = $1`, id,
	).Scan(&report.ID, &report.ProfileID, &report.OwnerID, &bt, &report.City, &analysis, &location,
		&report.LocationSource, &report.HasPDF, &report.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewReportNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("load feasibility report", err)
	}

	report.BusinessType = models.BusinessType(bt)
	if err := json.Unmarshal(analysis, &report.Analysis); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("decode report analysis", err)
	}
	if err := json.Unmarshal(location, &report.Location); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("decode report location", err)
	}
	return &report, nil
}

// PDF returns the stored document, or nil when none was rendered yet.
func (s *ReportStore) PDF(ctx context.Context, id string) ([]byte, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT pdf_document FROM feasibility_reports WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewReportNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("load report pdf", err)
	}
	return doc, nil
}

// SavePDF stores the rendered document on the report row.
func (s *ReportStore) SavePDF(ctx context.Context, id string, doc []byte) error {
	res, err := s.db.ExecContext(ctx, `UPDATE feasibility_reports SET pdf_document = $2 WHERE id = $1`, id, doc)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewReportNotFoundError(id)
	}
	return nil
}
