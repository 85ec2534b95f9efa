// Package storage persists profiles, feasibility reports and daily metrics in
// PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"bizhealth-workers/internal/common/logger"
)

// audit writes a best-effort audit_log row. Failures are logged, never
// returned.
func audit(ctx context.Context, db *sql.DB, log logger.Logger, eventType, resourceType, resourceID string, details map[string]interface{}) {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		log.Warn("failed to marshal audit log details", map[string]interface{}{"error": err})
		detailsJSON = []byte("{}")
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		eventType, resourceType, resourceID, detailsJSON, time.Now().UTC(),
	)
	if err != nil {
		log.Warn("audit log insert failed", map[string]interface{}{
			"error":      err,
			"resourceId": resourceID,
		})
	}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
