package renderfeasibilitypdf

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/common/validation"
	"bizhealth-workers/internal/models"
)

func reportRows(hasPDF bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "profile_id", "owner_id", "business_type", "city", "analysis", "location", "location_source", "has_pdf", "created_at",
	}).AddRow("report-001", "profile-001", "owner-001", "CAFE", "Mumbai",
		[]byte(`{"totalCapex":"835000","monthlyOpex":"181750","projectedRevenue":"351000",`+
			`"capexBreakdown":{"Kitchen Equipment":"500000"},"opexBreakdown":{"Rent":"45000"},"breakEvenMonths":5}`),
		[]byte(`{"city":"Mumbai"}`), "city-fallback", hasPDF, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name       string
		hasPDF     bool
		regenerate bool
		wantCached bool
	}{
		{name: "first render stores document"},
		{name: "stored document is reused", hasPDF: true, wantCached: true},
		{name: "regenerate replaces stored document", hasPDF: true, regenerate: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(`SELECT (.+) FROM feasibility_reports`).WithArgs("report-001").WillReturnRows(reportRows(tt.hasPDF))
			if tt.wantCached {
				mock.ExpectQuery(`SELECT pdf_document FROM feasibility_reports`).WithArgs("report-001").
					WillReturnRows(sqlmock.NewRows([]string{"pdf_document"}).AddRow([]byte("%PDF-stored")))
			} else {
				mock.ExpectExec(`UPDATE feasibility_reports SET pdf_document`).
					WithArgs("report-001", sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
			}

			handler := NewHandler(LoadConfig(), db, validation.New(), logger.NewTestLogger(t))
			output, err := handler.Execute(context.Background(), &Input{ReportID: "report-001", Regenerate: tt.regenerate})

			require.NoError(t, err)
			assert.Equal(t, "report-001", output.ReportID)
			assert.Equal(t, tt.wantCached, output.Cached)
			if tt.wantCached {
				assert.Equal(t, len("%PDF-stored"), output.SizeBytes)
			} else {
				assert.Greater(t, output.SizeBytes, 500)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_ReportNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery(`SELECT (.+) FROM feasibility_reports`).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	handler := NewHandler(LoadConfig(), db, validation.New(), logger.NewTestLogger(t))
	_, err = handler.Execute(context.Background(), &Input{ReportID: "missing"})
	assert.True(t, errors.Is(err, apperrors.ErrReportNotFound))
}

func TestRender(t *testing.T) {
	months := int64(5)
	doc, err := Render(&models.FeasibilityReport{
		ID:           "report-001",
		BusinessType: models.BusinessTypeCloudKitchen,
		City:         "Pune",
		Analysis: models.CostAnalysis{
			TotalCapex:      decimal.NewFromInt(650000),
			MonthlyOpex:     decimal.NewFromInt(120000),
			CapexBreakdown:  map[string]decimal.Decimal{"Kitchen Equipment": decimal.NewFromInt(400000)},
			OpexBreakdown:   map[string]decimal.Decimal{"Packaging": decimal.NewFromInt(12000)},
			BreakEvenMonths: &months,
		},
		LocationSource: models.LocationSourceDefault,
		CreatedAt:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}, "BizHealth")

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
}

func TestFormatINR(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "INR 0.00"},
		{"999", "INR 999.00"},
		{"1000", "INR 1,000.00"},
		{"835000", "INR 8,35,000.00"},
		{"12345678.5", "INR 1,23,45,678.50"},
		{"-45000", "INR -45,000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatINR(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestBreakEvenText(t *testing.T) {
	one, many := int64(1), int64(14)
	assert.Equal(t, "Not reached", breakEvenText(nil))
	assert.Equal(t, "1 month", breakEvenText(&one))
	assert.Equal(t, "14 months", breakEvenText(&many))
}
