package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	apperrors "bizhealth-workers/internal/common/errors"
	"bizhealth-workers/internal/models"
	"bizhealth-workers/pkg/registry"
)

// FieldError is a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Result collects the failures of one validation pass.
type Result struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`
}

// Messages returns "field: message" strings in a stable order.
func (r *Result) Messages() []string {
	messages := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	sort.Strings(messages)
	return messages
}

// HasErrors reports whether field, or anything nested under it, failed.
func (r *Result) HasErrors(field string) bool {
	for _, e := range r.Errors {
		if e.Field == field || strings.HasPrefix(e.Field, field+".") {
			return true
		}
	}
	return false
}

// Err converts a failed result into an INPUT_VALIDATION_FAILED error.
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	return apperrors.NewInputValidationFailedError(strings.Join(r.Messages(), "; "))
}

// Validator checks job variables against the activity input schemas and
// decoded inputs against their `validate` struct tags.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
	structs *validator.Validate
}

// New returns a Validator with struct validation only.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("businesstype", func(fl validator.FieldLevel) bool {
		_, err := models.ParseBusinessType(fl.Field().String())
		return err == nil
	})
	return &Validator{
		schemas: make(map[string]*gojsonschema.Schema),
		structs: v,
	}
}

// NewFromRegistry compiles the input schema of every activity, keyed by task type.
func NewFromRegistry(reg *registry.ActivityRegistry) (*Validator, error) {
	v := New()
	for _, activity := range reg.Activities {
		if len(activity.InputSchema) == 0 {
			continue
		}
		if err := v.AddSchema(activity.TaskType, activity.InputSchema); err != nil {
			return nil, fmt.Errorf("activity %s: %w", activity.ID, err)
		}
	}
	return v, nil
}

// AddSchema compiles and registers the input schema for taskType.
func (v *Validator) AddSchema(taskType string, schema map[string]interface{}) error {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return fmt.Errorf("compile input schema: %w", err)
	}
	v.schemas[taskType] = compiled
	return nil
}

// HasSchema reports whether an input schema is registered for taskType.
func (v *Validator) HasSchema(taskType string) bool {
	_, ok := v.schemas[taskType]
	return ok
}

// ValidateVariables checks a raw variables document against the schema of
// taskType. Task types without a schema pass.
func (v *Validator) ValidateVariables(taskType, variables string) *Result {
	schema, ok := v.schemas[taskType]
	if !ok {
		return &Result{Valid: true}
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(variables))
	if err != nil {
		return &Result{Errors: []FieldError{{
			Field:   "(root)",
			Message: err.Error(),
			Code:    "INVALID_DOCUMENT",
		}}}
	}

	out := &Result{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out
}

// ValidateStruct applies the `validate` tags of s.
func (v *Validator) ValidateStruct(s interface{}) *Result {
	err := v.structs.Struct(s)
	if err == nil {
		return &Result{Valid: true}
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return &Result{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}

	out := &Result{}
	for _, fe := range validationErrors {
		out.Errors = append(out.Errors, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: describe(fe),
			Code:    strings.ToUpper(fe.Tag()),
		})
	}
	return out
}

// fieldPath drops the struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "datetime":
		return fmt.Sprintf("must match layout %s", fe.Param())
	case "businesstype":
		return "is not a known business type"
	case "uuid", "uuid4":
		return "must be a UUID"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
