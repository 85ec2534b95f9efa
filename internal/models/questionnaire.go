// internal/models/questionnaire.go
package models

// AnswerType tells the UI which input control a step needs.
type AnswerType string

const (
	AnswerText       AnswerType = "TEXT"
	AnswerNumber     AnswerType = "NUMBER"
	AnswerSelect     AnswerType = "SELECT"
	AnswerBoolean    AnswerType = "BOOLEAN"
	AnswerCompletion AnswerType = "COMPLETION"
)

// CompletionStepID identifies the terminal step.
const CompletionStepID = "complete"

// QuestionnaireStep is one question (or the terminal marker) of the onboarding flow.
type QuestionnaireStep struct {
	ID         string     `json:"id"`
	Prompt     string     `json:"prompt"`
	AnswerType AnswerType `json:"answerType"`
	Options    []string   `json:"options,omitempty"`
	Required   bool       `json:"required"`
	Complete   bool       `json:"complete"`
}
