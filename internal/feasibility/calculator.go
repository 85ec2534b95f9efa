// Package feasibility estimates startup and running costs for a business profile.
package feasibility

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/models"
	"bizhealth-workers/internal/onboarding"
)

// Scale of every money amount.
const moneyScale = 2

const monthsPerYear = 12

// assumedGrossMargin backs the break-even revenue threshold.
var assumedGrossMargin = decimal.RequireFromString("0.30")

// DefaultLocationData is the conservative stand-in used when no location data
// can be obtained for city.
func DefaultLocationData(city string) *models.LocationData {
	return &models.LocationData{
		City:        city,
		State:       "Unknown",
		RentPerSqFt: decimal.RequireFromString("75.00"),
		AverageWage: decimal.RequireFromString("15000.00"),
		CommodityPrices: models.CommodityPrices{
			Milk:        decimal.RequireFromString("45.00"),
			Steel:       decimal.RequireFromString("40.00"),
			Fabric:      decimal.RequireFromString("150.00"),
			Electricity: decimal.RequireFromString("5.50"),
			Fuel:        decimal.RequireFromString("95.00"),
		},
		Source: models.LocationSourceDefault,
	}
}

func money(v decimal.Decimal) decimal.Decimal {
	return v.Round(moneyScale)
}

// CalculateCosts computes the CAPEX and OPEX breakdowns, projected revenue and
// break-even figures for profile. A nil or invalid location is replaced by
// DefaultLocationData. Each line item is rounded to 2 places before summing,
// so the totals equal the sum of their breakdown.
func CalculateCosts(profile *models.BusinessProfile, location *models.LocationData) (*models.CostAnalysis, error) {
	if err := checkProfile(profile); err != nil {
		return nil, err
	}
	if location == nil || location.Validate() != nil {
		location = DefaultLocationData(profile.City)
	}

	model := modelFor(profile.BusinessType)
	in := costInputs{
		profile:  profile,
		location: location,
		space:    model.space(profile),
	}
	in.monthlyRent = money(location.RentPerSqFt.Mul(in.space))

	capex := map[string]decimal.Decimal{
		"Security Deposit": money(in.monthlyRent.Mul(decimal.NewFromInt(model.depositMonths))),
	}
	totalCapex := capex["Security Deposit"]
	for _, item := range model.capex {
		if item.when != nil && !item.when(in) {
			continue
		}
		amount := money(item.amount(in))
		capex[item.name] = amount
		totalCapex = totalCapex.Add(amount)
	}

	opex := make(map[string]decimal.Decimal, len(model.opex))
	monthlyOpex := decimal.Zero
	for _, item := range model.opex {
		if item.when != nil && !item.when(in) {
			continue
		}
		amount := money(item.amount(in))
		opex[item.name] = amount
		monthlyOpex = monthlyOpex.Add(amount)
	}

	analysis := &models.CostAnalysis{
		TotalCapex:       totalCapex,
		TotalOpex:        monthlyOpex.Mul(decimal.NewFromInt(monthsPerYear)),
		MonthlyOpex:      monthlyOpex,
		BreakEvenPoint:   monthlyOpex.DivRound(assumedGrossMargin, moneyScale),
		CapexBreakdown:   capex,
		OpexBreakdown:    opex,
		ProjectedRevenue: money(model.monthlyRevenue(profile)),
	}
	analysis.BreakEvenMonths = BreakEvenMonths(analysis.TotalCapex, analysis.ProjectedRevenue, analysis.MonthlyOpex)

	return analysis, nil
}

// BreakEvenMonths returns ceil(capex / (revenue - opex)), or nil when the
// monthly profit is not positive.
func BreakEvenMonths(capex, monthlyRevenue, monthlyOpex decimal.Decimal) *int64 {
	profit := monthlyRevenue.Sub(monthlyOpex)
	if !profit.IsPositive() {
		return nil
	}
	q, r := capex.QuoRem(profit, 0)
	months := q.IntPart()
	if r.IsPositive() {
		months++
	}
	return &months
}

func checkProfile(profile *models.BusinessProfile) error {
	if profile == nil {
		return apperrors.NewIncompleteProfileError("profile is missing")
	}
	if profile.BusinessType == "" {
		return apperrors.NewIncompleteProfileError("business type not selected")
	}
	if profile.City == "" {
		return apperrors.NewIncompleteProfileError("city is missing")
	}
	if !onboarding.IsComplete(profile.BusinessType, profile.Responses) {
		return apperrors.NewIncompleteProfileError(fmt.Sprintf("unanswered questions for %s: %v",
			profile.BusinessType, onboarding.MissingQuestions(profile.BusinessType, profile.Responses)))
	}
	return nil
}
