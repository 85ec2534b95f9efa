package calculatefeasibility

import "bizhealth-workers/internal/models"

type Input struct {
	ProfileID string `json:"profileId" validate:"required"`
}

type Output struct {
	ReportID       string              `json:"reportId"`
	ProfileID      string              `json:"profileId"`
	BusinessType   string              `json:"businessType"`
	City           string              `json:"city"`
	Analysis       models.CostAnalysis `json:"analysis"`
	LocationSource string              `json:"locationSource"`
	Feasible       bool                `json:"feasible"` // false when the business never breaks even
}
