// internal/models/health.go
package models

import "github.com/shopspring/decimal"

// Trend classifies how the recent health scores moved.
type Trend string

const (
	TrendImproving        Trend = "IMPROVING"
	TrendDeclining        Trend = "DECLINING"
	TrendStable           Trend = "STABLE"
	TrendInsufficientData Trend = "INSUFFICIENT_DATA"
	TrendNoData           Trend = "NO_DATA"
)

// DailyHealthEntry is one point of the summary series.
type DailyHealthEntry struct {
	Date        string          `json:"date"` // YYYY-MM-DD
	HealthScore int             `json:"healthScore"`
	Sales       decimal.Decimal `json:"sales"`
	Expenses    decimal.Decimal `json:"expenses"`
	Wastage     decimal.Decimal `json:"wastage"`
	Margin      decimal.Decimal `json:"margin"`
}

// HealthScoreSummary is recomputed on demand from the trailing 30 days.
type HealthScoreSummary struct {
	CurrentScore        int                `json:"currentScore"`
	PreviousScore       *int               `json:"previousScore"`
	Trend               Trend              `json:"trend"`
	AverageMargin       decimal.Decimal    `json:"averageMargin"`
	AverageWastageRatio decimal.Decimal    `json:"averageWastageRatio"`
	MarginStability     decimal.Decimal    `json:"marginStability"`
	DailyScores         []DailyHealthEntry `json:"dailyScores"`
	Recommendation      string             `json:"recommendation"`
}
