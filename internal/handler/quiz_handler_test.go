package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quiz-portal/internal/domain"
	"quiz-portal/internal/dto"
	"quiz-portal/internal/middleware"
)

type MockQuizService struct {
	mock.Mock
}

func (m *MockQuizService) GenerateQuiz(ctx context.Context, userID, topic string) (*dto.QuizResponse, error) {
	args := m.Called(ctx, userID, topic)
	if r := args.Get(0); r != nil {
		return r.(*dto.QuizResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuizService) GetQuiz(ctx context.Context, quizID string) (*dto.QuizResponse, error) {
	args := m.Called(ctx, quizID)
	if r := args.Get(0); r != nil {
		return r.(*dto.QuizResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuizService) SubmitQuiz(ctx context.Context, userID string, req *dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error) {
	args := m.Called(ctx, userID, req)
	if r := args.Get(0); r != nil {
		return r.(*dto.SubmitQuizResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuizService) GetMyResults(ctx context.Context, userID string) (*dto.MyResultsResponse, error) {
	args := m.Called(ctx, userID)
	if r := args.Get(0); r != nil {
		return r.(*dto.MyResultsResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestApp(svc *MockQuizService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.UserIDKey, "01USER")
		return c.Next()
	})

	h := NewQuizHandler(svc)
	api := app.Group("/api")
	api.Post("/quiz/generate", h.GenerateQuiz)
	api.Get("/quiz/:id", h.GetQuiz)
	api.Post("/quiz/submit", h.SubmitQuiz)
	api.Get("/users/me/results", h.GetMyResults)
	return app
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v))
}

func TestGenerateQuizHandler(t *testing.T) {
	svc := new(MockQuizService)
	app := newTestApp(svc)

	svc.On("GenerateQuiz", mock.Anything, "01USER", "Astronomy").
		Return(&dto.QuizResponse{QuizID: "01QUIZ", Topic: "Astronomy", Subtopics: []string{}, QuestionCount: 20}, nil)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quiz/generate", dto.GenerateQuizRequest{Topic: "Astronomy"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.QuizResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "01QUIZ", body.QuizID)
}

func TestGenerateQuizHandlerValidation(t *testing.T) {
	svc := new(MockQuizService)
	app := newTestApp(svc)

	svc.On("GenerateQuiz", mock.Anything, "01USER", "ab").
		Return(nil, domain.ValidationErrors{domain.NewOutOfRangeError("topic", 2, 3, 200)})

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quiz/generate", dto.GenerateQuizRequest{Topic: "ab"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body middleware.ValidationErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, string(domain.CodeValidation), body.Code)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "topic", body.Errors[0].Field)
}

func TestGenerateQuizHandlerGeneratorFailure(t *testing.T) {
	svc := new(MockQuizService)
	app := newTestApp(svc)

	svc.On("GenerateQuiz", mock.Anything, "01USER", "Astronomy").
		Return(nil, domain.NewGeneratorError(errors.New("exit status 1")))

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quiz/generate", dto.GenerateQuizRequest{Topic: "Astronomy"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestGetQuizHandlerNotFound(t *testing.T) {
	svc := new(MockQuizService)
	app := newTestApp(svc)

	svc.On("GetQuiz", mock.Anything, "01MISSING").
		Return(nil, domain.NewQuizNotFoundError("01MISSING"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/quiz/01MISSING", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubmitQuizHandler(t *testing.T) {
	svc := new(MockQuizService)
	app := newTestApp(svc)

	p := 75
	svc.On("SubmitQuiz", mock.Anything, "01USER", mock.Anything).
		Return(&dto.SubmitQuizResponse{UserScore: 15, Percentile: &p}, nil)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quiz/submit", dto.SubmitQuizRequest{QuizID: "01ARZ3NDEKTSV4RRFFQ69G5FAV"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.SubmitQuizResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, 15, body.UserScore)
	require.NotNil(t, body.Percentile)
	assert.Equal(t, 75, *body.Percentile)
}

func TestSubmitQuizHandlerBadJSON(t *testing.T) {
	svc := new(MockQuizService)
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/quiz/submit", bytes.NewBufferString("{nope"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	svc.AssertNotCalled(t, "SubmitQuiz", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetMyResultsHandler(t *testing.T) {
	svc := new(MockQuizService)
	app := newTestApp(svc)

	svc.On("GetMyResults", mock.Anything, "01USER").
		Return(&dto.MyResultsResponse{Results: []dto.SubmissionSummary{{QuizID: "01QUIZ", Score: 10}}}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/me/results", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.MyResultsResponse
	decodeBody(t, resp, &body)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "01QUIZ", body.Results[0].QuizID)
}
