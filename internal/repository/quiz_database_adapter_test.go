package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-portal/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func sampleQuiz() *domain.Quiz {
	return &domain.Quiz{
		ID:            "01QUIZ",
		Topic:         "Astronomy",
		Subtopics:     []string{"Planets"},
		GeneratedAt:   time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
		QuestionCount: 1,
		Questions: []domain.Question{
			{
				Type:       domain.TypeTrueFalse,
				Text:       "The Sun is a star.",
				Difficulty: domain.DifficultyEasy,
				Points:     1,
				Variant:    domain.TrueFalse{Answer: true},
			},
		},
		CreatedBy: "01USER",
		CreatedAt: time.Date(2025, 5, 1, 10, 0, 1, 0, time.UTC),
	}
}

func TestSaveQuiz(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuizDatabaseAdapter(db)
	quiz := sampleQuiz()

	mock.ExpectExec("INSERT INTO quizzes").
		WithArgs(quiz.ID, quiz.Topic, sqlmock.AnyArg(), quiz.GeneratedAt, quiz.QuestionCount,
			sqlmock.AnyArg(), sqlmock.AnyArg(), quiz.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveQuiz(context.Background(), quiz))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQuizByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuizDatabaseAdapter(db)
	quiz := sampleQuiz()

	questions, err := json.Marshal(quiz.Questions)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "topic", "subtopics", "generated_at", "question_count", "questions", "created_by", "created_at"}).
		AddRow(quiz.ID, quiz.Topic, `["Planets"]`, quiz.GeneratedAt, quiz.QuestionCount, questions, quiz.CreatedBy, quiz.CreatedAt)
	mock.ExpectQuery("SELECT (.+) FROM quizzes").WithArgs(quiz.ID).WillReturnRows(rows)

	got, err := repo.GetQuizByID(context.Background(), quiz.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, quiz.Topic, got.Topic)
	assert.Equal(t, []string{"Planets"}, got.Subtopics)
	require.Len(t, got.Questions, 1)
	tf, ok := got.Questions[0].Variant.(domain.TrueFalse)
	require.True(t, ok)
	assert.True(t, tf.Answer)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQuizByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuizDatabaseAdapter(db)

	mock.ExpectQuery("SELECT (.+) FROM quizzes").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := repo.GetQuizByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
