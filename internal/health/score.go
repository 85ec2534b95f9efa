// Package health derives daily health scores from sales, expenses and
// wastage, and summarizes an owner's trailing 30 days.
package health

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/models"
)

const (
	ratioScale      = 4
	maxMarginScore  = 70
	maxWastageScore = 30
	minScore        = 0
	maxScore        = 100

	// DateLayout is the on-wire form of metric dates.
	DateLayout = "2006-01-02"
)

var (
	marginWeight  = decimal.NewFromInt(350)
	wastageWeight = decimal.NewFromInt(300)
)

// Margin is (sales - expenses) / sales at 4 places, or zero without sales.
func Margin(sales, expenses decimal.Decimal) decimal.Decimal {
	if sales.IsZero() {
		return decimal.Zero
	}
	return sales.Sub(expenses).DivRound(sales, ratioScale)
}

// WastageRatio is wastage / sales at 4 places, or zero without sales.
func WastageRatio(sales, wastage decimal.Decimal) decimal.Decimal {
	if sales.IsZero() {
		return decimal.Zero
	}
	return wastage.DivRound(sales, ratioScale)
}

// DailyScore maps one day of metrics to a 0..100 score: up to 70 points for
// margin minus up to 30 points of wastage penalty.
func DailyScore(sales, expenses, wastage decimal.Decimal) (int, error) {
	if err := checkMetrics(sales, expenses, wastage); err != nil {
		return 0, err
	}
	return score(sales, expenses, wastage), nil
}

func score(sales, expenses, wastage decimal.Decimal) int {
	marginScore := min(maxMarginScore, int(Margin(sales, expenses).Mul(marginWeight).Round(0).IntPart()))
	penalty := min(maxWastageScore, int(WastageRatio(sales, wastage).Mul(wastageWeight).Round(0).IntPart()))
	return max(minScore, min(maxScore, marginScore-penalty))
}

func checkMetrics(sales, expenses, wastage decimal.Decimal) error {
	for _, m := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"sales", sales},
		{"expenses", expenses},
		{"wastage", wastage},
	} {
		if m.value.IsNegative() {
			return apperrors.NewInvalidMetricError(fmt.Sprintf("%s must not be negative, got %s", m.name, m.value))
		}
	}
	return nil
}

// DailyMetricRecord is one owner's metrics for one date. The health score is
// always derived from the stored values.
type DailyMetricRecord struct {
	id       string
	ownerID  string
	date     time.Time
	sales    decimal.Decimal
	expenses decimal.Decimal
	wastage  decimal.Decimal
	score    int
}

// NewDailyMetricRecord validates the metrics and derives the score. The date
// is truncated to a calendar day in UTC.
func NewDailyMetricRecord(ownerID string, date time.Time, sales, expenses, wastage decimal.Decimal) (*DailyMetricRecord, error) {
	if ownerID == "" {
		return nil, apperrors.NewInvalidMetricError("owner id is required")
	}
	if date.IsZero() {
		return nil, apperrors.NewInvalidMetricError("date is required")
	}
	r := &DailyMetricRecord{ownerID: ownerID, date: Day(date)}
	if err := r.Update(sales, expenses, wastage); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the metrics and re-derives the score. The record is left
// unchanged on error.
func (r *DailyMetricRecord) Update(sales, expenses, wastage decimal.Decimal) error {
	if err := checkMetrics(sales, expenses, wastage); err != nil {
		return err
	}
	r.sales = sales
	r.expenses = expenses
	r.wastage = wastage
	r.score = score(sales, expenses, wastage)
	return nil
}

// WithID attaches the persisted identifier.
func (r *DailyMetricRecord) WithID(id string) *DailyMetricRecord {
	r.id = id
	return r
}

func (r *DailyMetricRecord) ID() string                { return r.id }
func (r *DailyMetricRecord) OwnerID() string           { return r.ownerID }
func (r *DailyMetricRecord) Date() time.Time           { return r.date }
func (r *DailyMetricRecord) Sales() decimal.Decimal    { return r.sales }
func (r *DailyMetricRecord) Expenses() decimal.Decimal { return r.expenses }
func (r *DailyMetricRecord) Wastage() decimal.Decimal  { return r.wastage }
func (r *DailyMetricRecord) HealthScore() int          { return r.score }

func (r *DailyMetricRecord) Profit() decimal.Decimal { return r.sales.Sub(r.expenses) }

func (r *DailyMetricRecord) Margin() decimal.Decimal { return Margin(r.sales, r.expenses) }

func (r *DailyMetricRecord) WastageRatio() decimal.Decimal { return WastageRatio(r.sales, r.wastage) }

// Entry converts the record into a summary series point.
func (r *DailyMetricRecord) Entry() models.DailyHealthEntry {
	return models.DailyHealthEntry{
		Date:        r.date.Format(DateLayout),
		HealthScore: r.score,
		Sales:       r.sales,
		Expenses:    r.expenses,
		Wastage:     r.wastage,
		Margin:      r.Margin(),
	}
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperrors.NewInvalidMetricError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s))
	}
	return t, nil
}
