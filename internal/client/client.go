package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quiz-portal/internal/domain"
	"quiz-portal/internal/dto"
	"quiz-portal/internal/session"
)

// Client talks to the quiz API over HTTP and backs a session.Session.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates an API client. The token is sent as a bearer credential
// on every request.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

var _ session.Backend = (*Client)(nil)

// GenerateQuiz requests a freshly generated quiz for the topic.
func (c *Client) GenerateQuiz(ctx context.Context, topic string) (*domain.Quiz, error) {
	var resp dto.QuizResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/quiz/generate", dto.GenerateQuizRequest{Topic: topic}, &resp)
	if err != nil {
		return nil, err
	}
	return toQuiz(&resp), nil
}

// GetQuiz fetches a previously generated quiz by its id.
func (c *Client) GetQuiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	var resp dto.QuizResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/quiz/"+quizID, nil, &resp); err != nil {
		return nil, err
	}
	return toQuiz(&resp), nil
}

// SubmitQuiz sends a completed attempt for authoritative grading.
func (c *Client) SubmitQuiz(ctx context.Context, sub *domain.Submission, questions []domain.Question) (*session.SubmitOutcome, error) {
	req := dto.SubmitQuizRequest{
		QuizID:         sub.QuizID,
		Answers:        sub.Answers,
		Questions:      questions,
		TimeSpent:      sub.TimeSpent,
		CompletionRate: sub.CompletionRate,
	}
	var resp dto.SubmitQuizResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/quiz/submit", req, &resp); err != nil {
		return nil, err
	}
	return &session.SubmitOutcome{UserScore: resp.UserScore, Percentile: resp.Percentile}, nil
}

// MyResults lists the caller's prior submissions.
func (c *Client) MyResults(ctx context.Context) (*dto.MyResultsResponse, error) {
	var resp dto.MyResultsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/me/results", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr dto.ErrorResponse
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("api error %d (%s): %s", resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("api error %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func toQuiz(resp *dto.QuizResponse) *domain.Quiz {
	generatedAt, err := time.Parse(time.RFC3339, resp.GeneratedAt)
	if err != nil {
		generatedAt = time.Now().UTC()
	}
	return &domain.Quiz{
		ID:            resp.QuizID,
		Topic:         resp.Topic,
		Subtopics:     resp.Subtopics,
		GeneratedAt:   generatedAt,
		QuestionCount: resp.QuestionCount,
		Questions:     resp.Questions,
	}
}
