package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"quiz-portal/internal/domain"
	"quiz-portal/internal/repository/models"
	"quiz-portal/internal/util"
)

// SubmissionDatabaseAdapter implements domain.SubmissionRepository using sqlx.DB
type SubmissionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewSubmissionDatabaseAdapter creates a new instance of SubmissionDatabaseAdapter
func NewSubmissionDatabaseAdapter(db *sqlx.DB) domain.SubmissionRepository {
	return &SubmissionDatabaseAdapter{db: db}
}

// SaveSubmission implements domain.SubmissionRepository
func (a *SubmissionDatabaseAdapter) SaveSubmission(ctx context.Context, sub *domain.Submission) error {
	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers for submission %s: %w", sub.ID, err)
	}

	model := &models.Submission{
		ID:             sub.ID,
		QuizID:         sub.QuizID,
		UserID:         sub.UserID,
		Score:          sub.Score,
		TotalQuestions: sub.TotalQuestions,
		Percentile:     util.IntPtrToNullInt64(sub.Percentile),
		TimeSpent:      sub.TimeSpent,
		CompletionRate: sub.CompletionRate,
		Answers:        models.RawJSON(answers),
		CreatedAt:      sub.CreatedAt,
	}

	query := `INSERT INTO submissions
		(id, quiz_id, user_id, score, total_questions, percentile, time_spent, completion_rate, answers, created_at)
		VALUES (:id, :quiz_id, :user_id, :score, :total_questions, :percentile, :time_spent, :completion_rate, :answers, :created_at)`

	if _, err := a.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("failed to save submission %s: %w", sub.ID, err)
	}
	return nil
}

// GetScoresByQuiz implements domain.SubmissionRepository
func (a *SubmissionDatabaseAdapter) GetScoresByQuiz(ctx context.Context, quizID string) ([]int, error) {
	var scores []int
	query := `SELECT score FROM submissions WHERE quiz_id = $1`

	if err := a.db.SelectContext(ctx, &scores, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to get scores for quiz %s: %w", quizID, err)
	}
	return scores, nil
}

// GetSubmissionsByUser implements domain.SubmissionRepository
func (a *SubmissionDatabaseAdapter) GetSubmissionsByUser(ctx context.Context, userID string) ([]*domain.Submission, error) {
	var rows []models.Submission
	query := `SELECT id, quiz_id, user_id, score, total_questions, percentile, time_spent, completion_rate, answers, created_at
		FROM submissions WHERE user_id = $1 ORDER BY created_at DESC`

	if err := a.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get submissions for user %s: %w", userID, err)
	}

	subs := make([]*domain.Submission, 0, len(rows))
	for i := range rows {
		sub, err := toDomainSubmission(&rows[i])
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func toDomainSubmission(model *models.Submission) (*domain.Submission, error) {
	var answers []domain.Answer
	if len(model.Answers) > 0 {
		if err := json.Unmarshal(model.Answers, &answers); err != nil {
			return nil, fmt.Errorf("failed to decode answers for submission %s: %w", model.ID, err)
		}
	}
	return &domain.Submission{
		ID:             model.ID,
		QuizID:         model.QuizID,
		UserID:         model.UserID,
		Score:          model.Score,
		TotalQuestions: model.TotalQuestions,
		Percentile:     util.NullInt64ToIntPtr(model.Percentile),
		TimeSpent:      model.TimeSpent,
		CompletionRate: model.CompletionRate,
		Answers:        answers,
		CreatedAt:      model.CreatedAt,
	}, nil
}
