package nextquestion

import "bizhealth-workers/internal/models"

type Input struct {
	// BusinessType is empty until the owner has answered the first question.
	BusinessType string             `json:"businessType,omitempty"`
	Responses    models.ResponseSet `json:"responses"`
}

type Output struct {
	BusinessType string                   `json:"businessType,omitempty"`
	Step         models.QuestionnaireStep `json:"step"`
	Complete     bool                     `json:"complete"`
	Remaining    []string                 `json:"remaining"`
}
