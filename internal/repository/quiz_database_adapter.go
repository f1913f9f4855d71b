package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"quiz-portal/internal/domain"
	"quiz-portal/internal/repository/models"
	"quiz-portal/internal/util"
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// SaveQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	model, err := toModelQuiz(quiz)
	if err != nil {
		return fmt.Errorf("failed to encode quiz %s: %w", quiz.ID, err)
	}

	query := `INSERT INTO quizzes
		(id, topic, subtopics, generated_at, question_count, questions, created_by, created_at)
		VALUES (:id, :topic, :subtopics, :generated_at, :question_count, :questions, :created_by, :created_at)`

	if _, err := a.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("failed to save quiz %s: %w", quiz.ID, err)
	}
	return nil
}

// GetQuizByID implements domain.QuizRepository. A missing quiz returns
// (nil, nil); the service layer turns that into QUIZ_NOT_FOUND.
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var model models.Quiz
	query := `SELECT id, topic, subtopics, generated_at, question_count, questions, created_by, created_at
		FROM quizzes WHERE id = $1`

	if err := a.db.GetContext(ctx, &model, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}
	return toDomainQuiz(&model)
}

func toModelQuiz(quiz *domain.Quiz) (*models.Quiz, error) {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return nil, err
	}
	return &models.Quiz{
		ID:            quiz.ID,
		Topic:         quiz.Topic,
		Subtopics:     models.StringSlice(quiz.Subtopics),
		GeneratedAt:   quiz.GeneratedAt,
		QuestionCount: quiz.QuestionCount,
		Questions:     models.RawJSON(questions),
		CreatedBy:     util.StringToNullString(quiz.CreatedBy),
		CreatedAt:     quiz.CreatedAt,
	}, nil
}

func toDomainQuiz(model *models.Quiz) (*domain.Quiz, error) {
	var questions []domain.Question
	if len(model.Questions) > 0 {
		if err := json.Unmarshal(model.Questions, &questions); err != nil {
			return nil, fmt.Errorf("failed to decode questions for quiz %s: %w", model.ID, err)
		}
	}
	return &domain.Quiz{
		ID:            model.ID,
		Topic:         model.Topic,
		Subtopics:     model.Subtopics,
		GeneratedAt:   model.GeneratedAt,
		QuestionCount: model.QuestionCount,
		Questions:     questions,
		CreatedBy:     model.CreatedBy.String,
		CreatedAt:     model.CreatedAt,
	}, nil
}
