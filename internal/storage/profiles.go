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

// ProfileStore reads and writes business_profiles.
type ProfileStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewProfileStore(db *sql.DB, log logger.Logger) *ProfileStore {
	return &ProfileStore{db: db, logger: log}
}

// Create inserts profile, assigning ID and CreatedAt when unset.
func (s *ProfileStore) Create(ctx context.Context, profile *models.BusinessProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}

	responses, err := json.Marshal(profile.Responses)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(fmt.Errorf("marshal responses: %w", err))
	}

	var seating sql.NullInt64
	if profile.SeatingCapacity != nil {
		seating = sql.NullInt64{Int64: int64(*profile.SeatingCapacity), Valid: true}
	}
	var sourcing sql.NullString
	if profile.RawMaterialSourcing != nil {
		sourcing = sql.NullString{String: *profile.RawMaterialSourcing, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO business_profiles (
			id, owner_id, business_type, city, seating_capacity, packaging_costs,
			power_consumption, raw_material_sourcing, responses, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		profile.ID,
		profile.OwnerID,
		profile.BusinessType.String(),
		profile.City,
		seating,
		nullDecimal(profile.PackagingCosts),
		nullDecimal(profile.PowerConsumption),
		sourcing,
		responses,
		profile.CreatedAt,
	)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(err)
	}

	audit(ctx, s.db, s.logger, "business_profile_created", "business_profile", profile.ID, map[string]interface{}{
		"ownerId":      profile.OwnerID,
		"businessType": profile.BusinessType,
		"city":         profile.City,
	})
	return nil
}

// Get loads one profile. A missing row is PROFILE_NOT_FOUND.
func (s *ProfileStore) Get(ctx context.Context, id string) (*models.BusinessProfile, error) {
	var (
		profile   models.BusinessProfile
		bt        string
		seating   sql.NullInt64
		packaging = nullDecimal(nil)
		power     = nullDecimal(nil)
		sourcing  sql.NullString
		responses []byte
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, business_type, city, seating_capacity, packaging_costs,
		       power_consumption, raw_material_sourcing, responses, created_at
		FROM business_profiles
		WHERE id = $1`, id,
	).Scan(&profile.ID, &profile.OwnerID, &bt, &profile.City, &seating, &packaging,
		&power, &sourcing, &responses, &profile.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewProfileNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("load business profile", err)
	}

	profile.BusinessType = models.BusinessType(bt)
	if seating.Valid {
		v := int(seating.Int64)
		profile.SeatingCapacity = &v
	}
	profile.PackagingCosts = decimalPtr(packaging)
	profile.PowerConsumption = decimalPtr(power)
	if sourcing.Valid {
		v := sourcing.String
		profile.RawMaterialSourcing = &v
	}
	profile.Responses = models.ResponseSet{}
	if len(responses) > 0 {
		if err := json.Unmarshal(responses, &profile.Responses); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("decode profile responses", err)
		}
	}

	return &profile, nil
}
