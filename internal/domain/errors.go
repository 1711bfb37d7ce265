package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Domain specific errors
	CodeSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"
	CodeInsightNotFound   ErrorCode = "INSIGHT_NOT_FOUND"
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	CodeAIServiceError    ErrorCode = "AI_SERVICE_ERROR"
	CodeAnalysisParse     ErrorCode = "ANALYSIS_PARSE_ERROR"
	CodeNoData            ErrorCode = "NO_DATA"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Cause }

// MarshalJSON implements the json.Marshaler interface. The cause is
// deliberately excluded so provider details never leak to clients.
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper constructors for common errors

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(CodeSessionNotFound, fmt.Sprintf("Session not found with ID: %s", sessionID), nil)
}

func NewInsightNotFoundError(insightID string) *DomainError {
	return NewError(CodeInsightNotFound, fmt.Sprintf("Insight not found with ID: %s", insightID), nil)
}

func NewInvalidTransitionError(from, to ResolutionStatus) *DomainError {
	return NewError(CodeInvalidTransition,
		fmt.Sprintf("Illegal resolution status transition: %s -> %s", from, to), nil)
}

// NewAIServiceError wraps a provider failure after retries are exhausted.
func NewAIServiceError(cause error) *DomainError {
	return NewError(CodeAIServiceError, "AI service request failed", cause)
}

// NewAnalysisParseError signals that the AI output could not be parsed
// into at least a summary.
func NewAnalysisParseError(cause error) *DomainError {
	return NewError(CodeAnalysisParse, "AI analysis output could not be parsed", cause)
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ValidationError represents a single field-level validation failure.
type ValidationError struct {
	Field   string    `json:"field"`
	Value   string    `json:"value,omitempty"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates field-level failures for one request.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s (%d error(s))", e[0].Error(), len(e))
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeMissingField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{
		Field:   field,
		Value:   value,
		Code:    CodeInvalidFormat,
		Message: fmt.Sprintf("%s has an invalid format", field),
	}
}

func NewOutOfRangeError(field string, value, min, max interface{}) ValidationError {
	return ValidationError{
		Field:   field,
		Value:   fmt.Sprintf("%v", value),
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("%s must be between %v and %v", field, min, max),
	}
}

func NewFieldValidationError(field, message string) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeValidation,
		Message: message,
	}
}
