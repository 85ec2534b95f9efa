package calculatefeasibility

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/common/validation"
	"bizhealth-workers/internal/models"
)

type stubProvider struct {
	available bool
	data      *models.LocationData
	err       error
}

func (s *stubProvider) Fetch(context.Context, string, models.BusinessType) (*models.LocationData, error) {
	return s.data, s.err
}

func (s *stubProvider) IsAvailable(context.Context) bool { return s.available }

func cafeProfile() *models.BusinessProfile {
	seats := 20
	return &models.BusinessProfile{
		ID:              "profile-001",
		OwnerID:         "owner-001",
		BusinessType:    models.BusinessTypeCafe,
		City:            "Mumbai",
		SeatingCapacity: &seats,
		Responses:       models.ResponseSet{"city": "Mumbai", "seating_capacity": 20.0, "menu_type": "Full Meals"},
		CreatedAt:       time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func profileRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner_id", "business_type", "city", "seating_capacity", "packaging_costs",
		"power_consumption", "raw_material_sourcing", "responses", "created_at",
	}).AddRow("profile-001", "owner-001", "CAFE", "Mumbai", int64(20), nil, nil, nil,
		[]byte(`{"city":"Mumbai","seating_capacity":20,"menu_type":"Full Meals"}`), time.Now())
}

func expectReportInsert(mock sqlmock.Sqlmock, source string) {
	mock.ExpectExec(`INSERT INTO feasibility_reports`).
		WithArgs(sqlmock.AnyArg(), "profile-001", "owner-001", "CAFE", "Mumbai",
			sqlmock.AnyArg(), sqlmock.AnyArg(), source, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("feasibility_report_created", "feasibility_report", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestHandler_Execute_LoadsFromDatabaseAndCaches(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mr, rdb := newMiniredis(t)

	mock.ExpectQuery(`SELECT (.+) FROM business_profiles`).WithArgs("profile-001").WillReturnRows(profileRows())
	expectReportInsert(mock, models.LocationSourceFallback)

	handler := NewHandler(LoadConfig(), db, rdb, &stubProvider{available: false}, validation.New(), logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{ProfileID: "profile-001"})

	require.NoError(t, err)
	assert.NotEmpty(t, output.ReportID)
	assert.Equal(t, "CAFE", output.BusinessType)
	assert.Equal(t, models.LocationSourceFallback, output.LocationSource)
	assert.Equal(t, "835000", output.Analysis.TotalCapex.String())
	assert.Equal(t, "181750", output.Analysis.MonthlyOpex.String())
	require.NotNil(t, output.Analysis.BreakEvenMonths)
	assert.Equal(t, int64(5), *output.Analysis.BreakEvenMonths)
	assert.True(t, output.Feasible)

	assert.True(t, mr.Exists("profile:profile-001"))
	assert.Equal(t, time.Hour, mr.TTL("profile:profile-001"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_CacheHitSkipsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mr, rdb := newMiniredis(t)

	raw, err := json.Marshal(cafeProfile())
	require.NoError(t, err)
	require.NoError(t, mr.Set("profile:profile-001", string(raw)))

	provider := &stubProvider{available: true, data: &models.LocationData{
		City:        "Mumbai",
		State:       "Maharashtra",
		RentPerSqFt: decimal.NewFromInt(100),
		AverageWage: decimal.NewFromInt(20000),
		CommodityPrices: models.CommodityPrices{
			Milk: decimal.NewFromInt(50), Steel: decimal.NewFromInt(45), Fabric: decimal.NewFromInt(170),
			Electricity: decimal.RequireFromString("6.5"), Fuel: decimal.NewFromInt(100),
		},
		Source: models.LocationSourceAPI,
	}}
	expectReportInsert(mock, models.LocationSourceAPI)

	handler := NewHandler(LoadConfig(), db, rdb, provider, validation.New(), logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{ProfileID: "profile-001"})

	require.NoError(t, err)
	assert.Equal(t, models.LocationSourceAPI, output.LocationSource)
	// deposit 3 x 100 x 300 = 90000
	assert.Equal(t, "90000", output.Analysis.CapexBreakdown["Security Deposit"].String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_CacheErrorFallsThrough(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	rdb, cacheMock := redismock.NewClientMock()

	// the follow-up SET is unexpected, so it fails too and is only logged
	cacheMock.ExpectGet("profile:profile-001").SetErr(errors.New("redis down"))
	mock.ExpectQuery(`SELECT (.+) FROM business_profiles`).WithArgs("profile-001").WillReturnRows(profileRows())
	expectReportInsert(mock, models.LocationSourceFallback)

	provider := &stubProvider{available: true, err: apperrors.NewDataUnavailableError("Mumbai", errors.New("timeout"))}

	handler := NewHandler(LoadConfig(), db, rdb, provider, validation.New(), logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{ProfileID: "profile-001"})

	require.NoError(t, err)
	assert.Equal(t, models.LocationSourceFallback, output.LocationSource)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ProfileNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM business_profiles`).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	handler := NewHandler(LoadConfig(), db, nil, &stubProvider{}, validation.New(), logger.NewTestLogger(t))
	_, err = handler.Execute(context.Background(), &Input{ProfileID: "missing"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrProfileNotFound))
	assert.False(t, apperrors.AsStandardError(err).Retryable)
}

func TestHandler_Execute_IncompleteStoredProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM business_profiles`).WithArgs("profile-001").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "owner_id", "business_type", "city", "seating_capacity", "packaging_costs",
			"power_consumption", "raw_material_sourcing", "responses", "created_at",
		}).AddRow("profile-001", "owner-001", "CAFE", "Mumbai", nil, nil, nil, nil,
			[]byte(`{"city":"Mumbai"}`), time.Now()))

	handler := NewHandler(LoadConfig(), db, nil, &stubProvider{}, validation.New(), logger.NewTestLogger(t))
	_, err = handler.Execute(context.Background(), &Input{ProfileID: "profile-001"})

	assert.True(t, errors.Is(err, apperrors.ErrIncompleteProfile))
	assert.NoError(t, mock.ExpectationsWereMet())
}
