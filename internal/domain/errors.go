package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Quiz specific errors
	CodeQuizNotFound      ErrorCode = "QUIZ_NOT_FOUND"
	CodeGeneratorFailed   ErrorCode = "GENERATOR_FAILED"
	CodeInvalidQuizData   ErrorCode = "INVALID_QUIZ_DATA"
	CodeInvalidSubmission ErrorCode = "INVALID_SUBMISSION"
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

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
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
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil)
}

// NewGeneratorError wraps a failure of the external quiz generator.
// Distinct from parse rejection so callers can tell the two apart.
func NewGeneratorError(err error) *DomainError {
	return NewError(CodeGeneratorFailed, "Failed to generate quiz", err)
}

// NewInvalidQuizDataError reports generated content that failed the
// ingestion gate (missing topic or too few usable questions).
func NewInvalidQuizDataError(message string) *DomainError {
	return NewError(CodeInvalidQuizData, message, nil)
}

func NewInvalidSubmissionError(message string) *DomainError {
	return NewError(CodeInvalidSubmission, message, nil)
}

// ValidationError describes a single invalid request field
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors aggregates per-field validation failures
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	reasons := make([]string, 0, len(e))
	for _, ve := range e {
		reasons = append(reasons, ve.Error())
	}
	return "validation failed: " + strings.Join(reasons, "; ")
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Reason: "is required"}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{Field: field, Reason: fmt.Sprintf("has invalid format: %q", value)}
}

func NewOutOfRangeError(field string, value, min, max int) ValidationError {
	return ValidationError{
		Field:  field,
		Reason: fmt.Sprintf("value %d is out of range [%d, %d]", value, min, max),
	}
}
