package validation

import (
	"regexp"
	"strings"

	"quiz-portal/internal/domain"
	"quiz-portal/internal/dto"
)

const (
	minTopicLength = 3
	maxTopicLength = 200
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateGenerateQuizRequest validates the quiz generation request
func (v *Validator) ValidateGenerateQuizRequest(topic string) domain.ValidationErrors {
	var errs domain.ValidationErrors

	trimmed := strings.TrimSpace(topic)
	if trimmed == "" {
		errs = append(errs, domain.NewMissingFieldError("topic"))
	} else if len(trimmed) < minTopicLength || len(trimmed) > maxTopicLength {
		errs = append(errs, domain.NewOutOfRangeError("topic", len(trimmed), minTopicLength, maxTopicLength))
	}

	return errs
}

// ValidateSubmitQuizRequest validates the submission shape. Answers and
// questions must be parallel lists; per-answer shapes are checked
// against the question types during grading, not here.
func (v *Validator) ValidateSubmitQuizRequest(req *dto.SubmitQuizRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if strings.TrimSpace(req.QuizID) == "" {
		errs = append(errs, domain.NewMissingFieldError("quizId"))
	} else if !isValidULID(req.QuizID) {
		errs = append(errs, domain.NewInvalidFormatError("quizId", req.QuizID))
	}

	if req.Answers == nil {
		errs = append(errs, domain.NewMissingFieldError("answers"))
	}
	if req.Questions == nil {
		errs = append(errs, domain.NewMissingFieldError("questions"))
	}
	if req.Answers != nil && req.Questions != nil && len(req.Answers) != len(req.Questions) {
		errs = append(errs, domain.NewOutOfRangeError("answers", len(req.Answers), len(req.Questions), len(req.Questions)))
	}

	if req.TimeSpent < 0 {
		errs = append(errs, domain.NewOutOfRangeError("timeSpent", req.TimeSpent, 0, 86400))
	}

	return errs
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	if len(s) != 26 {
		return false
	}
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}
