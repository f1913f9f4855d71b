package dto

import "quiz-portal/internal/domain"

// GenerateQuizRequest is the body of POST /api/quiz/generate
type GenerateQuizRequest struct {
	Topic string `json:"topic"`
}

// QuizResponse is the quiz document returned to clients. Question wire
// shapes come from the domain model's own JSON marshaling.
type QuizResponse struct {
	QuizID        string            `json:"quizId"`
	Topic         string            `json:"topic"`
	Subtopics     []string          `json:"subtopics"`
	GeneratedAt   string            `json:"generated_at"`
	QuestionCount int               `json:"question_count"`
	Questions     []domain.Question `json:"questions"`
}

// SubmitQuizRequest is the body of POST /api/quiz/submit. Answers and
// Questions must both be arrays; the service rejects anything else
// before grading.
type SubmitQuizRequest struct {
	QuizID         string            `json:"quizId"`
	Answers        []domain.Answer   `json:"answers"`
	Questions      []domain.Question `json:"questions"`
	TimeSpent      int               `json:"timeSpent"`
	CompletionRate int               `json:"completionRate"`
}

// SubmitQuizResponse carries the authoritative grading outcome.
// Percentile is omitted when there is no population to rank against.
type SubmitQuizResponse struct {
	UserScore  int  `json:"userScore"`
	Percentile *int `json:"percentile,omitempty"`
}

// SubmissionSummary is one row of GET /api/users/me/results
type SubmissionSummary struct {
	QuizID         string `json:"quizId"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	Percentile     *int   `json:"percentile,omitempty"`
	CompletionRate int    `json:"completionRate"`
	SubmittedAt    string `json:"submittedAt"`
}

// MyResultsResponse is the body of GET /api/users/me/results
type MyResultsResponse struct {
	Results []SubmissionSummary `json:"results"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Details []domain.ValidationError `json:"details,omitempty"`
}
