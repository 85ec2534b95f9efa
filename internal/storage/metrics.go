package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/common/logger"
	"bizhealth-workers/internal/health"
)

// MetricsStore reads and writes daily_metrics.
type MetricsStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewMetricsStore(db *sql.DB, log logger.Logger) *MetricsStore {
	return &MetricsStore{db: db, logger: log}
}

// Upsert stores record for its (owner, date), replacing the metrics of an
// existing row. It returns the row id and whether the row was new.
func (s *MetricsStore) Upsert(ctx context.Context, record *health.DailyMetricRecord) (string, bool, error) {
	now := time.Now().UTC()

	var (
		id       string
		inserted bool
	)
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO daily_metrics (
			id, owner_id, metric_date, sales, expenses, wastage, health_score, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (owner_id, metric_date) DO UPDATE SET
			sales = EXCLUDED.sales,
			expenses = EXCLUDED.expenses,
			wastage = EXCLUDED.wastage,
			health_score = EXCLUDED.health_score,
			updated_at = EXCLUDED.updated_at
		RETURNING id, (xmax = 0)`,
		uuid.New().String(),
		record.OwnerID(),
		record.Date(),
		record.Sales(),
		record.Expenses(),
		record.Wastage(),
		record.HealthScore(),
		now,
	).Scan(&id, &inserted)
	if err != nil {
		return "", false, apperrors.NewDatabaseInsertFailedError(err)
	}

	record.WithID(id)
	return id, inserted, nil
}

// Window loads the owner's records dated within the summary window ending
// today, newest first.
func (s *MetricsStore) Window(ctx context.Context, ownerID string, today time.Time) ([]*health.DailyMetricRecord, error) {
	end := health.Day(today)
	start := end.AddDate(0, 0, -(health.WindowDays - 1))

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, metric_date, sales, expenses, wastage
		FROM daily_metrics
		WHERE owner_id = $1 AND metric_date BETWEEN $2 AND $3
		ORDER BY metric_date DESC`,
		ownerID, start, end,
	)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("load daily metrics", err)
	}
	defer rows.Close()

	var records []*health.DailyMetricRecord
	for rows.Next() {
		r, err := s.scan(ownerID, rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("iterate daily metrics", err)
	}
	return records, nil
}

// Latest returns the owner's most recent record, or nil when none exist.
func (s *MetricsStore) Latest(ctx context.Context, ownerID string) (*health.DailyMetricRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, metric_date, sales, expenses, wastage
		FROM daily_metrics
		WHERE owner_id = $1
		ORDER BY metric_date DESC
		LIMIT 1`, ownerID)

	r, err := s.scan(ownerID, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scan rebuilds a record through the constructor so the score is derived,
// not trusted from the row.
func (s *MetricsStore) scan(ownerID string, row scanner) (*health.DailyMetricRecord, error) {
	var (
		id                       string
		date                     time.Time
		sales, expenses, wastage decimal.Decimal
	)
	if err := row.Scan(&id, &date, &sales, &expenses, &wastage); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, apperrors.NewQueryExecutionFailedError("scan daily metric", err)
	}

	r, err := health.NewDailyMetricRecord(ownerID, date, sales, expenses, wastage)
	if err != nil {
		return nil, err
	}
	return r.WithID(id), nil
}
