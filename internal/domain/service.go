package domain

import "context"

// QuizGenerator produces raw quiz text for a topic. The output is not
// trusted JSON; it goes through the tolerant parser before anything
// else looks at it.
type QuizGenerator interface {
	Generate(ctx context.Context, topic string) (string, error)
}

// QuizRepository defines the interface for quiz persistence
type QuizRepository interface {
	// SaveQuiz persists a new quiz document
	SaveQuiz(ctx context.Context, quiz *Quiz) error

	// GetQuizByID retrieves a quiz by its ID
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
}

// SubmissionRepository defines the interface for submission persistence
type SubmissionRepository interface {
	// SaveSubmission persists a graded attempt
	SaveSubmission(ctx context.Context, sub *Submission) error

	// GetScoresByQuiz returns the scores of all prior submissions for a quiz
	GetScoresByQuiz(ctx context.Context, quizID string) ([]int, error)

	// GetSubmissionsByUser returns a user's submissions, newest first
	GetSubmissionsByUser(ctx context.Context, userID string) ([]*Submission, error)
}
