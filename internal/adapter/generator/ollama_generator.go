package generator

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"

	"quiz-portal/internal/domain"
	"quiz-portal/internal/logger"
)

const quizPromptTemplate = `You are an AI quiz generation engine.

Generate a rich quiz on the topic "%s" in valid JSON format.
Include questions of different types: multiple_choice, true_false, numeric, fill_blank, matching, ordering.
Produce at least %d questions.
Return this structure (only JSON, no extra text):

{
  "topic": "<topic>",
  "subtopics": ["<subtopic1>", "<subtopic2>"],
  "generated_at": "<ISO timestamp>",
  "question_count": <number>,
  "questions": [
    {
      "type": "multiple_choice",
      "question": "What is the capital of France?",
      "options": ["Paris", "London", "Rome", "Berlin"],
      "answer": "Paris",
      "difficulty": "easy",
      "tags": ["geography", "memory"],
      "points": 1,
      "explanation": "Paris is the capital city of France."
    },
    {
      "type": "true_false",
      "question": "The Sun revolves around the Earth.",
      "answer": false,
      "difficulty": "easy",
      "tags": ["astronomy", "conceptual"],
      "points": 1,
      "explanation": "The Earth revolves around the Sun."
    },
    {
      "type": "numeric",
      "question": "How many bones are there in the adult human body?",
      "answer": 206,
      "difficulty": "medium",
      "tags": ["biology", "memory"],
      "points": 2,
      "explanation": "The adult human body has 206 bones."
    },
    {
      "type": "fill_blank",
      "question": "The process by which plants make food using sunlight is called _____.",
      "answer": "photosynthesis",
      "difficulty": "easy",
      "tags": ["biology", "fill"],
      "points": 1,
      "explanation": "Photosynthesis converts sunlight into chemical energy."
    },
    {
      "type": "matching",
      "question": "Match the country to its capital.",
      "pairs": {"France": "Paris", "Italy": "Rome", "Germany": "Berlin"},
      "difficulty": "medium",
      "tags": ["geography", "matching"],
      "points": 2,
      "explanation": "Each country is matched with its capital city."
    },
    {
      "type": "ordering",
      "question": "Order the planets from closest to the Sun.",
      "items": ["Earth", "Mercury", "Venus"],
      "correct_order": ["Mercury", "Venus", "Earth"],
      "difficulty": "medium",
      "tags": ["astronomy", "ordering"],
      "points": 2,
      "explanation": "Mercury is closest, then Venus, then Earth."
    }
  ]
}`

// OllamaGenerator produces quiz text with a local model through
// langchaingo, as an in-process alternative to the subprocess command.
type OllamaGenerator struct {
	llm          *ollama.LLM
	minQuestions int
}

// NewOllamaGenerator connects to the configured ollama server
func NewOllamaGenerator(serverURL, model string, minQuestions int) (*OllamaGenerator, error) {
	llm, err := ollama.New(ollama.WithServerURL(serverURL), ollama.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return &OllamaGenerator{llm: llm, minQuestions: minQuestions}, nil
}

// Generate asks the model for a quiz and returns the raw completion
func (g *OllamaGenerator) Generate(ctx context.Context, topic string) (string, error) {
	prompt := fmt.Sprintf(quizPromptTemplate, topic, g.minQuestions)

	completion, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		logger.Get().Error("ollama quiz generation failed",
			zap.String("topic", topic), zap.Error(err))
		return "", domain.NewGeneratorError(err)
	}
	return completion, nil
}

var _ domain.QuizGenerator = (*OllamaGenerator)(nil)
var _ domain.QuizGenerator = (*SubprocessGenerator)(nil)
