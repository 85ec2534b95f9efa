package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS owners (
		id           VARCHAR(64) PRIMARY KEY,
		name         VARCHAR(255),
		email        VARCHAR(255),
		phone        VARCHAR(32),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS business_profiles (
		id                    UUID PRIMARY KEY,
		owner_id              VARCHAR(64) NOT NULL,
		business_type         VARCHAR(32) NOT NULL,
		city                  VARCHAR(128) NOT NULL,
		seating_capacity      INTEGER,
		packaging_costs       NUMERIC(14,2),
		power_consumption     NUMERIC(14,2),
		raw_material_sourcing TEXT,
		responses             JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_business_profiles_owner ON business_profiles (owner_id)`,
	`CREATE TABLE IF NOT EXISTS feasibility_reports (
		id              UUID PRIMARY KEY,
		profile_id      UUID NOT NULL REFERENCES business_profiles (id),
		owner_id        VARCHAR(64) NOT NULL,
		business_type   VARCHAR(32) NOT NULL,
		city            VARCHAR(128) NOT NULL,
		analysis        JSONB NOT NULL,
		location        JSONB NOT NULL,
		location_source VARCHAR(32) NOT NULL,
		pdf_document    BYTEA,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feasibility_reports_profile ON feasibility_reports (profile_id)`,
	`CREATE TABLE IF NOT EXISTS daily_metrics (
		id           UUID PRIMARY KEY,
		owner_id     VARCHAR(64) NOT NULL,
		metric_date  DATE NOT NULL,
		sales        NUMERIC(14,2) NOT NULL,
		expenses     NUMERIC(14,2) NOT NULL,
		wastage      NUMERIC(14,2) NOT NULL,
		health_score INTEGER NOT NULL CHECK (health_score BETWEEN 0 AND 100),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (owner_id, metric_date)
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id            BIGSERIAL PRIMARY KEY,
		event_type    VARCHAR(64) NOT NULL,
		resource_type VARCHAR(64) NOT NULL,
		resource_id   VARCHAR(64) NOT NULL,
		details       JSONB,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate applies the schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
