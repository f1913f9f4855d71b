package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"quiz-portal/internal/domain"
)

// MockQuizGenerator is a mock of domain.QuizGenerator
type MockQuizGenerator struct {
	mock.Mock
}

func (m *MockQuizGenerator) Generate(ctx context.Context, topic string) (string, error) {
	args := m.Called(ctx, topic)
	return args.String(0), args.Error(1)
}

// MockQuizRepository is a mock of domain.QuizRepository
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if q := args.Get(0); q != nil {
		return q.(*domain.Quiz), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSubmissionRepository is a mock of domain.SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) SaveSubmission(ctx context.Context, sub *domain.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubmissionRepository) GetScoresByQuiz(ctx context.Context, quizID string) ([]int, error) {
	args := m.Called(ctx, quizID)
	if s := args.Get(0); s != nil {
		return s.([]int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubmissionRepository) GetSubmissionsByUser(ctx context.Context, userID string) ([]*domain.Submission, error) {
	args := m.Called(ctx, userID)
	if s := args.Get(0); s != nil {
		return s.([]*domain.Submission), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCache is a mock of domain.Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
