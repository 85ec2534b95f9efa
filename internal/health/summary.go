package health

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bizhealth-workers/internal/models"
)

const (
	// WindowDays is the length of the summary window, today included.
	WindowDays = 30

	trendWindow    = 7
	trendThreshold = 5
	varianceScale  = 6
)

const noDataRecommendation = "Start logging daily metrics to see your health score analysis."

var (
	wastageConcern   = decimal.RequireFromString("0.10")
	marginConcern    = decimal.RequireFromString("0.15")
	stabilityConcern = decimal.RequireFromString("0.05")
)

// Window returns the records dated within the WindowDays calendar days
// ending today, newest first, keeping the first record seen for each date.
func Window(today time.Time, records []*DailyMetricRecord) []*DailyMetricRecord {
	end := Day(today)
	start := end.AddDate(0, 0, -(WindowDays - 1))

	seen := make(map[time.Time]bool, len(records))
	window := make([]*DailyMetricRecord, 0, len(records))
	for _, r := range records {
		if r == nil || r.date.Before(start) || r.date.After(end) || seen[r.date] {
			continue
		}
		seen[r.date] = true
		window = append(window, r)
	}

	sort.SliceStable(window, func(i, j int) bool {
		return window[i].date.After(window[j].date)
	})
	return window
}

// Summarize builds the rolling health summary for today from records. Records
// outside the window are ignored.
func Summarize(today time.Time, records []*DailyMetricRecord) models.HealthScoreSummary {
	window := Window(today, records)
	if len(window) == 0 {
		return models.HealthScoreSummary{
			CurrentScore:        0,
			Trend:               models.TrendNoData,
			AverageMargin:       decimal.Zero,
			AverageWastageRatio: decimal.Zero,
			MarginStability:     decimal.Zero,
			DailyScores:         []models.DailyHealthEntry{},
			Recommendation:      noDataRecommendation,
		}
	}

	summary := models.HealthScoreSummary{
		CurrentScore:        window[0].score,
		Trend:               trend(window),
		AverageMargin:       averageMargin(window),
		AverageWastageRatio: averageWastageRatio(window),
		MarginStability:     marginStability(window),
		DailyScores:         make([]models.DailyHealthEntry, 0, len(window)),
	}
	if len(window) > 1 {
		previous := window[1].score
		summary.PreviousScore = &previous
	}
	for _, r := range window {
		summary.DailyScores = append(summary.DailyScores, r.Entry())
	}
	summary.Recommendation = recommendation(summary)

	return summary
}

// trend compares the mean of the newest 7 scores with the mean of the up to 7
// scores before them.
func trend(window []*DailyMetricRecord) models.Trend {
	if len(window) < trendWindow {
		return models.TrendInsufficientData
	}
	recent := window[:trendWindow]
	prior := window[trendWindow:min(2*trendWindow, len(window))]
	if len(prior) == 0 {
		return models.TrendInsufficientData
	}

	diff := meanScore(recent).Sub(meanScore(prior))
	switch {
	case diff.GreaterThan(decimal.NewFromInt(trendThreshold)):
		return models.TrendImproving
	case diff.LessThan(decimal.NewFromInt(-trendThreshold)):
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

func meanScore(records []*DailyMetricRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(decimal.NewFromInt(int64(r.score)))
	}
	return total.Div(decimal.NewFromInt(int64(len(records))))
}

func mean(records []*DailyMetricRecord, value func(*DailyMetricRecord) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(value(r))
	}
	return total.DivRound(decimal.NewFromInt(int64(len(records))), ratioScale)
}

func averageMargin(records []*DailyMetricRecord) decimal.Decimal {
	return mean(records, (*DailyMetricRecord).Margin)
}

func averageWastageRatio(records []*DailyMetricRecord) decimal.Decimal {
	return mean(records, (*DailyMetricRecord).WastageRatio)
}

// marginStability is the population standard deviation of daily margins.
func marginStability(records []*DailyMetricRecord) decimal.Decimal {
	if len(records) < 2 {
		return decimal.Zero
	}

	avg := averageMargin(records)
	squares := decimal.Zero
	for _, r := range records {
		delta := r.Margin().Sub(avg)
		squares = squares.Add(delta.Mul(delta))
	}
	variance, _ := squares.DivRound(decimal.NewFromInt(int64(len(records))), varianceScale).Float64()

	return decimal.NewFromFloat(math.Sqrt(variance)).Round(ratioScale)
}

func recommendation(s models.HealthScoreSummary) string {
	var parts []string

	switch {
	case s.CurrentScore < 30:
		parts = append(parts, "Critical: Your business health needs immediate attention.")
	case s.CurrentScore < 60:
		parts = append(parts, "Warning: Your business health is below optimal levels.")
	case s.CurrentScore < 80:
		parts = append(parts, "Good: Your business is performing well with room for improvement.")
	default:
		parts = append(parts, "Excellent: Your business is performing exceptionally well.")
	}

	switch s.Trend {
	case models.TrendDeclining:
		parts = append(parts, "Your health score is declining - focus on reducing expenses and wastage.")
	case models.TrendImproving:
		parts = append(parts, "Great job! Your health score is improving.")
	}

	if s.AverageWastageRatio.GreaterThan(wastageConcern) {
		parts = append(parts, "Consider implementing wastage reduction strategies.")
	}
	if s.AverageMargin.LessThan(marginConcern) {
		parts = append(parts, "Work on improving your profit margins through cost optimization or pricing adjustments.")
	}
	if s.MarginStability.GreaterThan(stabilityConcern) {
		parts = append(parts, "Focus on stabilizing your daily performance for consistent results.")
	}

	return strings.Join(parts, " ")
}

// LoggedOn reports whether records contain an entry for day.
func LoggedOn(day time.Time, records []*DailyMetricRecord) bool {
	d := Day(day)
	for _, r := range records {
		if r != nil && r.date.Equal(d) {
			return true
		}
	}
	return false
}
