// Package onboarding drives the business-type specific questionnaire.
//
// Each business type owns an ordered list of questions. NextStep returns the
// first unanswered one and IsComplete checks that none is left, both folding
// over the same list.
package onboarding

import (
	"bizhealth-workers/internal/models"
)

// Question ids shared by every flow.
const (
	QuestionBusinessType = "business_type"
	QuestionCity         = "city"
)

// Type specific question ids.
const (
	QuestionSeatingCapacity     = "seating_capacity"
	QuestionMenuType            = "menu_type"
	QuestionPackagingCosts      = "packaging_costs"
	QuestionDeliveryRadius      = "delivery_radius"
	QuestionCuisineType         = "cuisine_type"
	QuestionPowerConsumption    = "power_consumption"
	QuestionRawMaterialSourcing = "raw_material_sourcing"
	QuestionProductionCapacity  = "production_capacity"
	QuestionStoreSize           = "store_size"
	QuestionProductCategory     = "product_category"
	QuestionServiceType         = "service_type"
	QuestionTeamSize            = "team_size"
)

var (
	MenuTypes            = []string{"Coffee & Snacks", "Full Meals", "Beverages Only", "Mixed Menu"}
	CuisineTypes         = []string{"Indian", "Chinese", "Continental", "Italian", "Multi-cuisine"}
	RawMaterialSourcings = []string{"Local Suppliers", "National Suppliers", "International Import", "Mixed Sources"}
	ProductCategories    = []string{"Clothing", "Electronics", "Groceries", "Books", "General Merchandise"}
	ServiceTypes         = []string{"Consulting", "IT Services", "Healthcare", "Education", "Financial Services"}
)

type question struct {
	id   string
	step func() models.QuestionnaireStep
}

func numberStep(id, prompt string) func() models.QuestionnaireStep {
	return func() models.QuestionnaireStep {
		return models.QuestionnaireStep{ID: id, Prompt: prompt, AnswerType: models.AnswerNumber, Required: true}
	}
}

func selectStep(id, prompt string, options []string) func() models.QuestionnaireStep {
	return func() models.QuestionnaireStep {
		opts := make([]string, len(options))
		copy(opts, options)
		return models.QuestionnaireStep{ID: id, Prompt: prompt, AnswerType: models.AnswerSelect, Options: opts, Required: true}
	}
}

// flows is read-only after init.
var flows = map[models.BusinessType][]question{
	models.BusinessTypeCafe: {
		{QuestionSeatingCapacity, numberStep(QuestionSeatingCapacity, "How many seats will your cafe have?")},
		{QuestionMenuType, selectStep(QuestionMenuType, "What type of menu will you offer?", MenuTypes)},
	},
	models.BusinessTypeCloudKitchen: {
		{QuestionPackagingCosts, numberStep(QuestionPackagingCosts, "What are your expected monthly packaging costs (in ₹)?")},
		{QuestionDeliveryRadius, numberStep(QuestionDeliveryRadius, "What is your planned delivery radius (in km)?")},
		{QuestionCuisineType, selectStep(QuestionCuisineType, "What type of cuisine will you specialize in?", CuisineTypes)},
	},
	models.BusinessTypeManufacturing: {
		{QuestionPowerConsumption, numberStep(QuestionPowerConsumption, "What is your expected power consumption (in kW)?")},
		{QuestionRawMaterialSourcing, selectStep(QuestionRawMaterialSourcing, "How will you source your raw materials?", RawMaterialSourcings)},
		{QuestionProductionCapacity, numberStep(QuestionProductionCapacity, "What is your planned monthly production capacity (in units)?")},
	},
	models.BusinessTypeRetail: {
		{QuestionStoreSize, numberStep(QuestionStoreSize, "What will be the size of your store (in sq ft)?")},
		{QuestionProductCategory, selectStep(QuestionProductCategory, "What products will you primarily sell?", ProductCategories)},
	},
	models.BusinessTypeService: {
		{QuestionServiceType, selectStep(QuestionServiceType, "What type of service will you provide?", ServiceTypes)},
		{QuestionTeamSize, numberStep(QuestionTeamSize, "How many team members will you start with?")},
	},
}

func businessTypeStep() models.QuestionnaireStep {
	options := make([]string, len(models.BusinessTypes))
	for i, bt := range models.BusinessTypes {
		options[i] = bt.String()
	}
	return models.QuestionnaireStep{
		ID:         QuestionBusinessType,
		Prompt:     "What type of business are you planning to start?",
		AnswerType: models.AnswerSelect,
		Options:    options,
		Required:   true,
	}
}

func cityStep() models.QuestionnaireStep {
	return models.QuestionnaireStep{
		ID:         QuestionCity,
		Prompt:     "In which city are you planning to start your business?",
		AnswerType: models.AnswerText,
		Required:   true,
	}
}

// CompletionStep is the terminal step.
func CompletionStep() models.QuestionnaireStep {
	return models.QuestionnaireStep{
		ID:         models.CompletionStepID,
		Prompt:     "Questionnaire completed successfully!",
		AnswerType: models.AnswerCompletion,
		Complete:   true,
	}
}

// firstMissing returns the first unanswered question for bt, or nil.
func firstMissing(bt models.BusinessType, responses models.ResponseSet) *question {
	for i := range flows[bt] {
		q := &flows[bt][i]
		if !responses.Has(q.id) {
			return q
		}
	}
	return nil
}

// NextStep returns the next question for the owner. An empty business type
// always yields the business type question. Unknown types have no questions
// of their own and complete once the city is known.
func NextStep(bt models.BusinessType, responses models.ResponseSet) models.QuestionnaireStep {
	if bt == "" {
		return businessTypeStep()
	}
	if !responses.Has(QuestionCity) {
		return cityStep()
	}
	if q := firstMissing(bt, responses); q != nil {
		return q.step()
	}
	return CompletionStep()
}

// IsComplete reports whether every question for bt has been answered.
func IsComplete(bt models.BusinessType, responses models.ResponseSet) bool {
	if bt == "" {
		return false
	}
	return responses.Has(QuestionCity) && firstMissing(bt, responses) == nil
}

// Questions returns the ids asked for bt after business type and city.
func Questions(bt models.BusinessType) []string {
	ids := make([]string, len(flows[bt]))
	for i, q := range flows[bt] {
		ids[i] = q.id
	}
	return ids
}
