package indexfeasibilityreport

import (
	"time"

	"github.com/shopspring/decimal"

	"bizhealth-workers/internal/models"
)

type Input struct {
	ReportID string `json:"reportId" validate:"required"`
}

type Output struct {
	Indexed    bool   `json:"indexed"`
	Index      string `json:"index"`
	DocumentID string `json:"documentId"`
	Result     string `json:"result,omitempty"`
}

// ReportDocument is the flattened search representation of a report.
type ReportDocument struct {
	ReportID         string            `json:"reportId"`
	ProfileID        string            `json:"profileId"`
	OwnerID          string            `json:"ownerId"`
	BusinessType     string            `json:"businessType"`
	BusinessTypeName string            `json:"businessTypeName"`
	City             string            `json:"city"`
	State            string            `json:"state,omitempty"`
	LocationSource   string            `json:"locationSource"`
	TotalCapex       decimal.Decimal   `json:"totalCapex"`
	TotalOpex        decimal.Decimal   `json:"totalOpex"`
	MonthlyOpex      decimal.Decimal   `json:"monthlyOpex"`
	ProjectedRevenue decimal.Decimal   `json:"projectedRevenue"`
	MonthlyProfit    decimal.Decimal   `json:"monthlyProfit"`
	BreakEvenPoint   decimal.Decimal   `json:"breakEvenPoint"`
	BreakEvenMonths  *int64            `json:"breakEvenMonths"`
	Feasible         bool              `json:"feasible"`
	CapexItems       []models.LineItem `json:"capexItems"`
	OpexItems        []models.LineItem `json:"opexItems"`
	CreatedAt        time.Time         `json:"createdAt"`
	IndexedAt        time.Time         `json:"indexedAt"`
}

// IndexMapping is applied when the report index is first created.
const IndexMapping = `{
  "mappings": {
    "properties": {
      "reportId":         {"type": "keyword"},
      "profileId":        {"type": "keyword"},
      "ownerId":          {"type": "keyword"},
      "businessType":     {"type": "keyword"},
      "businessTypeName": {"type": "text"},
      "city":             {"type": "keyword"},
      "state":            {"type": "keyword"},
      "locationSource":   {"type": "keyword"},
      "totalCapex":       {"type": "scaled_float", "scaling_factor": 100},
      "totalOpex":        {"type": "scaled_float", "scaling_factor": 100},
      "monthlyOpex":      {"type": "scaled_float", "scaling_factor": 100},
      "projectedRevenue": {"type": "scaled_float", "scaling_factor": 100},
      "monthlyProfit":    {"type": "scaled_float", "scaling_factor": 100},
      "breakEvenPoint":   {"type": "scaled_float", "scaling_factor": 100},
      "breakEvenMonths":  {"type": "integer"},
      "feasible":         {"type": "boolean"},
      "capexItems": {
        "type": "nested",
        "properties": {"name": {"type": "keyword"}, "amount": {"type": "scaled_float", "scaling_factor": 100}}
      },
      "opexItems": {
        "type": "nested",
        "properties": {"name": {"type": "keyword"}, "amount": {"type": "scaled_float", "scaling_factor": 100}}
      },
      "createdAt": {"type": "date"},
      "indexedAt": {"type": "date"}
    }
  }
}`
