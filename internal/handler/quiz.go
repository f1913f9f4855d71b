package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"quiz-portal/internal/domain"
	"quiz-portal/internal/dto"
	"quiz-portal/internal/logger"
	"quiz-portal/internal/middleware"
	"quiz-portal/internal/service"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// GenerateQuiz handles POST /api/quiz/generate
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewError(domain.CodeInvalidFormat, "Request body is not valid JSON", err)
	}

	userID := currentUserID(c)
	resp, err := h.service.GenerateQuiz(c.Context(), userID, req.Topic)
	if err != nil {
		return err
	}

	logger.Get().Info("quiz generated",
		zap.String("quiz_id", resp.QuizID),
		zap.String("user_id", userID))
	return c.JSON(resp)
}

// GetQuiz handles GET /api/quiz/:id
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quizID := c.Params("id")
	if quizID == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("id")}
	}

	resp, err := h.service.GetQuiz(c.Context(), quizID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SubmitQuiz handles POST /api/quiz/submit
func (h *QuizHandler) SubmitQuiz(c *fiber.Ctx) error {
	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewError(domain.CodeInvalidFormat, "Request body is not valid JSON", err)
	}

	resp, err := h.service.SubmitQuiz(c.Context(), currentUserID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetMyResults handles GET /api/users/me/results
func (h *QuizHandler) GetMyResults(c *fiber.Ctx) error {
	resp, err := h.service.GetMyResults(c.Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func currentUserID(c *fiber.Ctx) string {
	if userID, ok := c.Locals(middleware.UserIDKey).(string); ok {
		return userID
	}
	return ""
}
