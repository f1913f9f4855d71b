package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"quiz-portal/internal/cache"
	"quiz-portal/internal/domain"
	"quiz-portal/internal/dto"
	"quiz-portal/internal/logger"
	"quiz-portal/internal/parser"
	"quiz-portal/internal/scoring"
	"quiz-portal/internal/util"
	"quiz-portal/internal/validation"
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	GenerateQuiz(ctx context.Context, userID, topic string) (*dto.QuizResponse, error)
	GetQuiz(ctx context.Context, quizID string) (*dto.QuizResponse, error)
	SubmitQuiz(ctx context.Context, userID string, req *dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error)
	GetMyResults(ctx context.Context, userID string) (*dto.MyResultsResponse, error)
}

// quizService implements QuizService
type quizService struct {
	generator domain.QuizGenerator
	parser    *parser.Parser
	quizRepo  domain.QuizRepository
	subRepo   domain.SubmissionRepository
	cache     domain.Cache
	validator *validation.Validator
	cacheTTL  time.Duration
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	generator domain.QuizGenerator,
	p *parser.Parser,
	quizRepo domain.QuizRepository,
	subRepo domain.SubmissionRepository,
	cache domain.Cache,
	cacheTTL time.Duration,
) QuizService {
	return &quizService{
		generator: generator,
		parser:    p,
		quizRepo:  quizRepo,
		subRepo:   subRepo,
		cache:     cache,
		validator: validation.NewValidator(),
		cacheTTL:  cacheTTL,
	}
}

// GenerateQuiz implements QuizService. Generator failure and parse
// rejection surface as distinct error codes.
func (s *quizService) GenerateQuiz(ctx context.Context, userID, topic string) (*dto.QuizResponse, error) {
	log := logger.Get()

	if errs := s.validator.ValidateGenerateQuizRequest(topic); len(errs) > 0 {
		return nil, errs
	}

	raw, err := s.generator.Generate(ctx, topic)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewGeneratorError(err)
	}

	quiz, err := s.parser.Parse(raw)
	if err != nil {
		return nil, err
	}

	quiz.ID = util.NewULID()
	quiz.CreatedBy = userID
	quiz.CreatedAt = time.Now().UTC()

	if err := s.quizRepo.SaveQuiz(ctx, quiz); err != nil {
		return nil, domain.NewInternalError("Failed to save quiz", err)
	}
	s.cacheQuiz(ctx, quiz)

	log.Info("generated quiz",
		zap.String("quiz_id", quiz.ID),
		zap.String("topic", quiz.Topic),
		zap.Int("questions", len(quiz.Questions)))
	return toQuizResponse(quiz), nil
}

// GetQuiz implements QuizService with a cache read-through
func (s *quizService) GetQuiz(ctx context.Context, quizID string) (*dto.QuizResponse, error) {
	if cached, err := s.cache.Get(ctx, quizCacheKey(quizID)); err == nil {
		var quiz domain.Quiz
		if err := json.Unmarshal([]byte(cached), &quiz); err == nil {
			return toQuizResponse(&quiz), nil
		}
		logger.Get().Warn("dropping undecodable cached quiz", zap.String("quiz_id", quizID))
		_ = s.cache.Delete(ctx, quizCacheKey(quizID))
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("quiz cache lookup failed", zap.String("quiz_id", quizID), zap.Error(err))
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	s.cacheQuiz(ctx, quiz)
	return toQuizResponse(quiz), nil
}

// SubmitQuiz implements QuizService. The submitted question list is
// graded as sent, matching the read/write contract of the quiz
// document; the percentile ranks the score against stored submissions
// for the same quiz and is omitted when there are no priors.
func (s *quizService) SubmitQuiz(ctx context.Context, userID string, req *dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error) {
	if errs := s.validator.ValidateSubmitQuizRequest(req); len(errs) > 0 {
		return nil, errs
	}

	score, _ := scoring.Score(req.Questions, req.Answers)

	percentile, err := s.percentileFor(ctx, req.QuizID, score)
	if err != nil {
		return nil, domain.NewInternalError("Failed to compute percentile", err)
	}

	sub := &domain.Submission{
		ID:             util.NewULID(),
		QuizID:         req.QuizID,
		UserID:         userID,
		Score:          score,
		TotalQuestions: len(req.Questions),
		Percentile:     percentile,
		TimeSpent:      req.TimeSpent,
		CompletionRate: req.CompletionRate,
		Answers:        req.Answers,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.subRepo.SaveSubmission(ctx, sub); err != nil {
		return nil, domain.NewInternalError("Failed to save submission", err)
	}

	logger.Get().Info("graded submission",
		zap.String("quiz_id", req.QuizID),
		zap.String("submission_id", sub.ID),
		zap.Int("score", score),
		zap.Int("total", len(req.Questions)))
	return &dto.SubmitQuizResponse{UserScore: score, Percentile: percentile}, nil
}

// percentileFor returns the share of prior scores at or below this one,
// or nil when the quiz has no prior submissions.
func (s *quizService) percentileFor(ctx context.Context, quizID string, score int) (*int, error) {
	scores, err := s.subRepo.GetScoresByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, nil
	}

	atOrBelow := 0
	for _, prior := range scores {
		if prior <= score {
			atOrBelow++
		}
	}
	p := int(math.Round(float64(atOrBelow) / float64(len(scores)) * 100))
	return &p, nil
}

// GetMyResults implements QuizService
func (s *quizService) GetMyResults(ctx context.Context, userID string) (*dto.MyResultsResponse, error) {
	subs, err := s.subRepo.GetSubmissionsByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load submissions", err)
	}

	results := make([]dto.SubmissionSummary, 0, len(subs))
	for _, sub := range subs {
		results = append(results, dto.SubmissionSummary{
			QuizID:         sub.QuizID,
			Score:          sub.Score,
			TotalQuestions: sub.TotalQuestions,
			Percentile:     sub.Percentile,
			CompletionRate: sub.CompletionRate,
			SubmittedAt:    sub.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return &dto.MyResultsResponse{Results: results}, nil
}

func (s *quizService) cacheQuiz(ctx context.Context, quiz *domain.Quiz) {
	payload, err := json.Marshal(quiz)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, quizCacheKey(quiz.ID), string(payload), s.cacheTTL); err != nil {
		logger.Get().Warn("failed to cache quiz", zap.String("quiz_id", quiz.ID), zap.Error(err))
	}
}

func quizCacheKey(quizID string) string {
	return cache.QuizDocumentKey(quizID)
}

func toQuizResponse(quiz *domain.Quiz) *dto.QuizResponse {
	subtopics := quiz.Subtopics
	if subtopics == nil {
		subtopics = []string{}
	}
	return &dto.QuizResponse{
		QuizID:        quiz.ID,
		Topic:         quiz.Topic,
		Subtopics:     subtopics,
		GeneratedAt:   quiz.GeneratedAt.UTC().Format(time.RFC3339),
		QuestionCount: quiz.QuestionCount,
		Questions:     quiz.Questions,
	}
}
