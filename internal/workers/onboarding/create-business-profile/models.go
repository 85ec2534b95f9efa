package createbusinessprofile

import "bizhealth-workers/internal/models"

type Input struct {
	OwnerID      string             `json:"ownerId" validate:"required"`
	BusinessType string             `json:"businessType" validate:"required,businesstype"`
	Responses    models.ResponseSet `json:"responses" validate:"required"`
}

type Output struct {
	ProfileID    string `json:"profileId"`
	OwnerID      string `json:"ownerId"`
	BusinessType string `json:"businessType"`
	City         string `json:"city"`
	CreatedAt    string `json:"createdAt"` // ISO 8601
}
