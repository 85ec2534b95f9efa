// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Caller errors: reported immediately, never retried.
const (
	ErrCodeInvalidBusinessType   ErrorCode = "INVALID_BUSINESS_TYPE"
	ErrCodeIncompleteProfile     ErrorCode = "INCOMPLETE_PROFILE"
	ErrCodeInvalidMetric         ErrorCode = "INVALID_METRIC"
	ErrCodeInputValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeProfileNotFound       ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeReportNotFound        ErrorCode = "REPORT_NOT_FOUND"
)

// Technical errors.
const (
	ErrCodeDataUnavailable ErrorCode = "DATA_UNAVAILABLE"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeIndexingFailed                ErrorCode = "INDEXING_FAILED"

	ErrCodeReportRenderFailed     ErrorCode = "REPORT_RENDER_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is reports whether target is a StandardError carrying the same code,
// so sentinels below can be used with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidBusinessType = &StandardError{Code: ErrCodeInvalidBusinessType}
	ErrIncompleteProfile   = &StandardError{Code: ErrCodeIncompleteProfile}
	ErrInvalidMetric       = &StandardError{Code: ErrCodeInvalidMetric}
	ErrDataUnavailable     = &StandardError{Code: ErrCodeDataUnavailable}
	ErrInputValidation     = &StandardError{Code: ErrCodeInputValidationFailed}
	ErrProfileNotFound     = &StandardError{Code: ErrCodeProfileNotFound}
	ErrReportNotFound      = &StandardError{Code: ErrCodeReportNotFound}
)

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidBusinessTypeError rejects a business type string matching no variant.
func NewInvalidBusinessTypeError(value string) *StandardError {
	return newError(ErrCodeInvalidBusinessType, "Unknown business type", fmt.Sprintf("businessType: %q", value), false)
}

// NewIncompleteProfileError rejects work on a profile whose questionnaire is unfinished.
func NewIncompleteProfileError(details string) *StandardError {
	return newError(ErrCodeIncompleteProfile, "Business profile is incomplete", details, false)
}

// NewInvalidMetricError rejects a daily metric before scoring.
func NewInvalidMetricError(details string) *StandardError {
	return newError(ErrCodeInvalidMetric, "Invalid daily metric", details, false)
}

// NewInputValidationFailedError reports job variables that fail validation.
func NewInputValidationFailedError(details string) *StandardError {
	return newError(ErrCodeInputValidationFailed, "Input validation failed", details, false)
}

func NewProfileNotFoundError(profileID string) *StandardError {
	return newError(ErrCodeProfileNotFound, "Business profile not found", fmt.Sprintf("profileId: %s", profileID), false)
}

func NewReportNotFoundError(reportID string) *StandardError {
	return newError(ErrCodeReportNotFound, "Feasibility report not found", fmt.Sprintf("reportId: %s", reportID), false)
}

// NewDataUnavailableError reports that location data could not be obtained.
func NewDataUnavailableError(city string, err error) *StandardError {
	details := fmt.Sprintf("city: %s", city)
	if err != nil {
		details = fmt.Sprintf("city: %s, error: %s", city, err.Error())
	}
	return newError(ErrCodeDataUnavailable, "Location data unavailable", details, true)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeElasticsearchConnectionFailed, "Elasticsearch connection error", err.Error(), true)
}

func NewIndexingFailedError(index string, err error) *StandardError {
	return newError(ErrCodeIndexingFailed, "Elasticsearch indexing error",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

func NewReportRenderFailedError(err error) *StandardError {
	return newError(ErrCodeReportRenderFailed, "Report rendering failed", err.Error(), true)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes caught by
// boundary events in the process models.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidBusinessType:           "INVALID_BUSINESS_TYPE",
	ErrCodeIncompleteProfile:             "INCOMPLETE_PROFILE",
	ErrCodeInvalidMetric:                 "INVALID_METRIC",
	ErrCodeInputValidationFailed:         "INPUT_VALIDATION_FAILED",
	ErrCodeProfileNotFound:               "PROFILE_NOT_FOUND",
	ErrCodeReportNotFound:                "REPORT_NOT_FOUND",
	ErrCodeDataUnavailable:               "DATA_UNAVAILABLE",
	ErrCodeDatabaseConnectionFailed:      "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:          "QUERY_EXECUTION_FAILED",
	ErrCodeDatabaseInsertFailed:          "DATABASE_INSERT_FAILED",
	ErrCodeElasticsearchConnectionFailed: "ELASTICSEARCH_CONNECTION_FAILED",
	ErrCodeIndexingFailed:                "INDEXING_FAILED",
	ErrCodeReportRenderFailed:            "REPORT_RENDER_FAILED",
	ErrCodeNotificationSendFailed:        "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeIndexingFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeDataUnavailable:
		return 2

	case ErrCodeReportRenderFailed:
		return 1

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "BUSINESS_TYPE") || strings.Contains(codeStr, "PROFILE"):
		return "ONBOARDING"
	case strings.Contains(codeStr, "METRIC"):
		return "HEALTH"
	case strings.Contains(codeStr, "DATA_UNAVAILABLE"):
		return "LOCATION_DATA"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "INDEXING"):
		return "SEARCH"
	case strings.Contains(codeStr, "REPORT"):
		return "REPORT"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// AsStandardError unwraps err into a StandardError, wrapping unknown errors as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	for e := err; e != nil; {
		if stdErr, ok := e.(*StandardError); ok {
			return stdErr
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return NewInternalError(err)
}
