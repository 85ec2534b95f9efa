package createbusinessprofile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/common/validation"
	"bizhealth-workers/internal/models"
)

func createTestInput() *Input {
	return &Input{
		OwnerID:      "owner-001",
		BusinessType: "CAFE",
		Responses: models.ResponseSet{
			"city":             "Mumbai",
			"seating_capacity": 20.0,
			"menu_type":        "Coffee & Snacks",
		},
	}
}

func TestHandler_Execute_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO business_profiles`).
		WithArgs(
			sqlmock.AnyArg(), // profile id
			"owner-001",
			"CAFE",
			"Mumbai",
			sqlmock.AnyArg(), // seating capacity
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(), // responses JSONB
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("business_profile_created", "business_profile", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	handler := NewHandler(LoadConfig(), db, validation.New(), logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.NotEmpty(t, output.ProfileID)
	assert.Equal(t, "owner-001", output.OwnerID)
	assert.Equal(t, "CAFE", output.BusinessType)
	assert.Equal(t, "Mumbai", output.City)
	_, err = time.Parse(time.RFC3339, output.CreatedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_IncompleteProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	input := createTestInput()
	delete(input.Responses, "menu_type")

	handler := NewHandler(LoadConfig(), db, validation.New(), logger.NewTestLogger(t))
	_, err = handler.Execute(context.Background(), input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrIncompleteProfile))
	assert.Contains(t, err.Error(), "menu_type")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_InvalidBusinessType(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	input := createTestInput()
	input.BusinessType = "FOOD_TRUCK"

	handler := NewHandler(LoadConfig(), db, validation.New(), logger.NewTestLogger(t))
	_, err = handler.Execute(context.Background(), input)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidBusinessType))
}

func TestHandler_Execute_InsertFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO business_profiles`).WillReturnError(errors.New("connection refused"))

	handler := NewHandler(LoadConfig(), db, validation.New(), logger.NewTestLogger(t))
	_, err = handler.Execute(context.Background(), createTestInput())

	require.Error(t, err)
	stdErr := apperrors.AsStandardError(err)
	assert.Equal(t, apperrors.ErrCodeDatabaseInsertFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestInput_StructValidation(t *testing.T) {
	v := validation.New()

	assert.True(t, v.ValidateStruct(createTestInput()).Valid)

	result := v.ValidateStruct(&Input{BusinessType: "bakery"})
	assert.False(t, result.Valid)
	assert.True(t, result.HasErrors("OwnerID"))
	assert.True(t, result.HasErrors("BusinessType"))
	assert.True(t, result.HasErrors("Responses"))
}
