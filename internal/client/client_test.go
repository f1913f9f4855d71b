package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-portal/internal/domain"
	"quiz-portal/internal/dto"
)

func TestGenerateQuiz(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/quiz/generate", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req dto.GenerateQuizRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Astronomy", req.Topic)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dto.QuizResponse{
			QuizID:        "01QUIZ",
			Topic:         "Astronomy",
			Subtopics:     []string{"Planets"},
			GeneratedAt:   "2026-08-30T12:00:00Z",
			QuestionCount: 1,
			Questions: []domain.Question{
				{Type: domain.TypeTrueFalse, Text: "The sun is a star.", Variant: domain.TrueFalse{Answer: true}},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL, "test-token")
	quiz, err := c.GenerateQuiz(context.Background(), "Astronomy")
	require.NoError(t, err)
	assert.Equal(t, "01QUIZ", quiz.ID)
	assert.Equal(t, "Astronomy", quiz.Topic)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, domain.TypeTrueFalse, quiz.Questions[0].Type)
	assert.Equal(t, 2026, quiz.GeneratedAt.Year())
}

func TestSubmitQuiz(t *testing.T) {
	p := 80
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/quiz/submit", r.URL.Path)

		var req dto.SubmitQuizRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "01QUIZ", req.QuizID)
		assert.Len(t, req.Answers, 1)
		assert.Len(t, req.Questions, 1)
		assert.Equal(t, 42, req.TimeSpent)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dto.SubmitQuizResponse{UserScore: 1, Percentile: &p})
	}))
	defer server.Close()

	c := New(server.URL, "test-token")
	sub := &domain.Submission{
		QuizID:         "01QUIZ",
		Answers:        []domain.Answer{domain.BoolAnswer(true)},
		TimeSpent:      42,
		CompletionRate: 100,
	}
	questions := []domain.Question{
		{Type: domain.TypeTrueFalse, Text: "The sun is a star.", Variant: domain.TrueFalse{Answer: true}},
	}

	outcome, err := c.SubmitQuiz(context.Background(), sub, questions)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.UserScore)
	require.NotNil(t, outcome.Percentile)
	assert.Equal(t, 80, *outcome.Percentile)
}

func TestErrorResponseSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(dto.ErrorResponse{
			Code:    "QUIZ_NOT_FOUND",
			Message: "Quiz not found with ID: 01MISSING",
		})
	}))
	defer server.Close()

	c := New(server.URL, "test-token")
	_, err := c.GetQuiz(context.Background(), "01MISSING")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUIZ_NOT_FOUND")
	assert.Contains(t, err.Error(), "404")
}

func TestNonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	c := New(server.URL, "")
	_, err := c.GenerateQuiz(context.Background(), "Astronomy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream exploded")
}
