package onboarding

import (
	"fmt"
	"strings"
	"time"

	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/models"
)

// MissingQuestions lists the unanswered ids for bt, city first.
func MissingQuestions(bt models.BusinessType, responses models.ResponseSet) []string {
	var missing []string
	if !responses.Has(QuestionCity) {
		missing = append(missing, QuestionCity)
	}
	for _, id := range Questions(bt) {
		if !responses.Has(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// BuildProfile turns a finished questionnaire into a BusinessProfile. It
// fails with INCOMPLETE_PROFILE rather than filling gaps with defaults.
func BuildProfile(ownerID string, bt models.BusinessType, responses models.ResponseSet) (*models.BusinessProfile, error) {
	if bt == "" {
		return nil, apperrors.NewIncompleteProfileError("business type not selected")
	}
	if !IsComplete(bt, responses) {
		return nil, apperrors.NewIncompleteProfileError(
			fmt.Sprintf("unanswered questions: %s", strings.Join(MissingQuestions(bt, responses), ", ")))
	}

	city, ok := responses.String(QuestionCity)
	if !ok {
		return nil, apperrors.NewIncompleteProfileError("city answer is empty")
	}

	profile := &models.BusinessProfile{
		OwnerID:      ownerID,
		BusinessType: bt,
		City:         city,
		Responses:    responses.Clone(),
		CreatedAt:    time.Now().UTC(),
	}
	profile.Responses[QuestionBusinessType] = bt.String()

	if bt.RequiresSeatingCapacity() {
		if seats, ok := responses.Number(QuestionSeatingCapacity); ok && seats.IsPositive() {
			n := int(seats.IntPart())
			profile.SeatingCapacity = &n
		}
	}
	if bt.RequiresPackagingCosts() {
		if costs, ok := responses.Number(QuestionPackagingCosts); ok && !costs.IsNegative() {
			profile.PackagingCosts = &costs
		}
	}
	if bt.RequiresPowerAndSourcing() {
		if power, ok := responses.Number(QuestionPowerConsumption); ok && !power.IsNegative() {
			profile.PowerConsumption = &power
		}
		if sourcing, ok := responses.String(QuestionRawMaterialSourcing); ok {
			profile.RawMaterialSourcing = &sourcing
		}
	}

	return profile, nil
}
