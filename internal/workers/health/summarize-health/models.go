package summarizehealth

import "bizhealth-workers/internal/models"

type Input struct {
	OwnerID string `json:"ownerId" validate:"required"`
	// Today defaults to the current UTC date.
	Today string `json:"today,omitempty"`
}

type Output struct {
	OwnerID string `json:"ownerId"`
	Today   string `json:"today"`
	models.HealthScoreSummary
	HasLoggedToday bool `json:"hasLoggedToday"`
	// Latest is the newest record on file, possibly older than the window.
	Latest *models.DailyHealthEntry `json:"latest,omitempty"`
}
