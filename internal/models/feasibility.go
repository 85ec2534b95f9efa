// internal/models/feasibility.go
package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CostAnalysis is the outcome of a feasibility run. All amounts are INR at scale 2.
type CostAnalysis struct {
	TotalCapex       decimal.Decimal            `json:"totalCapex"`
	TotalOpex        decimal.Decimal            `json:"totalOpex"`
	MonthlyOpex      decimal.Decimal            `json:"monthlyOpex"`
	BreakEvenPoint   decimal.Decimal            `json:"breakEvenPoint"`
	CapexBreakdown   map[string]decimal.Decimal `json:"capexBreakdown"`
	OpexBreakdown    map[string]decimal.Decimal `json:"opexBreakdown"`
	ProjectedRevenue decimal.Decimal            `json:"projectedRevenue"`
	// BreakEvenMonths is nil when the business does not break even.
	BreakEvenMonths *int64 `json:"breakEvenMonths"`
}

// MonthlyProfit is projected revenue minus monthly operating cost.
func (c *CostAnalysis) MonthlyProfit() decimal.Decimal {
	return c.ProjectedRevenue.Sub(c.MonthlyOpex)
}

// LineItem is one named amount of a breakdown.
type LineItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// SortedLineItems returns the breakdown largest first, ties by name.
func SortedLineItems(breakdown map[string]decimal.Decimal) []LineItem {
	items := make([]LineItem, 0, len(breakdown))
	for name, amount := range breakdown {
		items = append(items, LineItem{Name: name, Amount: amount})
	}
	sort.Slice(items, func(i, j int) bool {
		if c := items[i].Amount.Cmp(items[j].Amount); c != 0 {
			return c > 0
		}
		return items[i].Name < items[j].Name
	})
	return items
}

// FeasibilityReport is a persisted cost analysis.
type FeasibilityReport struct {
	ID             string       `json:"id"`
	ProfileID      string       `json:"profileId"`
	OwnerID        string       `json:"ownerId"`
	BusinessType   BusinessType `json:"businessType"`
	City           string       `json:"city"`
	Analysis       CostAnalysis `json:"analysis"`
	Location       LocationData `json:"location"`
	LocationSource string       `json:"locationSource"`
	HasPDF         bool         `json:"hasPdf"`
	CreatedAt      time.Time    `json:"createdAt"`
}
