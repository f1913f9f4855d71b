package generator

import (
	"fmt"

	"quiz-portal/internal/config"
	"quiz-portal/internal/domain"
)

// NewFromConfig builds the generator selected by configuration
func NewFromConfig(cfg config.GeneratorConfig, minQuestions int) (domain.QuizGenerator, error) {
	switch cfg.Source {
	case "subprocess":
		return NewSubprocessGenerator(cfg.Command, cfg.Args, cfg.Timeout), nil
	case "ollama":
		return NewOllamaGenerator(cfg.Ollama.ServerURL, cfg.Ollama.Model, minQuestions)
	default:
		return nil, fmt.Errorf("unknown generator source: %q", cfg.Source)
	}
}
