// Package parser turns raw generator output into a validated quiz.
// The input is LLM text that merely resembles JSON, so extraction is
// regex-based and per-field: a malformed field degrades that field or
// skips that question, it never fails the whole document.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"quiz-portal/internal/domain"
	"quiz-portal/internal/logger"
)

var (
	topicRe         = regexp.MustCompile(`"topic"\s*:\s*"([^"]+)"`)
	generatedAtRe   = regexp.MustCompile(`"generated_at"\s*:\s*"([^"]+)"`)
	questionCountRe = regexp.MustCompile(`"question_count"\s*:\s*(\d+)`)
	subtopicsRe     = regexp.MustCompile(`(?s)"subtopics"\s*:\s*\[(.*?)\]`)

	// One question object: all six common fields must be present for a
	// block to count at all. Variant fields are picked out of the block
	// afterwards, scoped to the block text.
	blockRe = regexp.MustCompile(`(?s)\{.*?"type"\s*:\s*"(.*?)".*?"question"\s*:\s*"(.*?)".*?"difficulty"\s*:\s*"(.*?)".*?"tags"\s*:\s*\[(.*?)\].*?"points"\s*:\s*(\d+).*?"explanation"\s*:\s*"(.*?)".*?\}`)

	optionsRe      = regexp.MustCompile(`(?s)"options"\s*:\s*\[(.*?)\]`)
	stringAnswerRe = regexp.MustCompile(`"answer"\s*:\s*"([^"]+)"`)
	boolAnswerRe   = regexp.MustCompile(`"answer"\s*:\s*(true|false)`)
	numberAnswerRe = regexp.MustCompile(`"answer"\s*:\s*(-?\d+(?:\.\d+)?)`)
	pairsRe        = regexp.MustCompile(`(?s)"pairs"\s*:\s*\{(.*?)\}`)
	pairRe         = regexp.MustCompile(`"([^"]+)"\s*:\s*"([^"]+)"`)
	itemsRe        = regexp.MustCompile(`(?s)"items"\s*:\s*\[(.*?)\]`)
	correctOrderRe = regexp.MustCompile(`(?s)"correct_order"\s*:\s*\[(.*?)\]`)
)

// Parser extracts quiz documents from raw generator text
type Parser struct {
	minQuestions int
}

// New creates a Parser that rejects quizzes with fewer than minQuestions
// usable questions.
func New(minQuestions int) *Parser {
	return &Parser{minQuestions: minQuestions}
}

// Parse extracts a quiz from raw text. It returns an INVALID_QUIZ_DATA
// domain error when the topic is missing or too few usable questions
// survive extraction; it never panics on malformed input.
func (p *Parser) Parse(raw string) (*domain.Quiz, error) {
	log := logger.Get()
	quiz := &domain.Quiz{
		Topic:     firstGroup(topicRe, raw),
		Subtopics: splitQuotedList(firstGroup(subtopicsRe, raw)),
	}

	quiz.GeneratedAt = parseGeneratedAt(firstGroup(generatedAtRe, raw))
	if countStr := firstGroup(questionCountRe, raw); countStr != "" {
		quiz.QuestionCount, _ = strconv.Atoi(countStr)
	}

	for _, match := range blockRe.FindAllStringSubmatch(raw, -1) {
		q, err := parseQuestionBlock(match)
		if err != nil {
			log.Debug("skipping malformed question block", zap.Error(err))
			continue
		}
		quiz.Questions = append(quiz.Questions, *q)
	}

	if quiz.QuestionCount == 0 {
		quiz.QuestionCount = len(quiz.Questions)
	}

	if quiz.Topic == "" || len(quiz.Questions) < p.minQuestions {
		log.Warn("rejecting generated quiz",
			zap.String("topic", quiz.Topic),
			zap.Int("questions", len(quiz.Questions)),
			zap.Int("min_questions", p.minQuestions))
		return nil, domain.NewInvalidQuizDataError("generated quiz is missing a topic or has too few questions")
	}
	return quiz, nil
}

// parseQuestionBlock builds one question from a block match. The first
// submatch group is the full block text, used to scope variant fields.
func parseQuestionBlock(match []string) (*domain.Question, error) {
	block := match[0]
	q := &domain.Question{
		Type:        domain.NormalizeQuestionType(match[1]),
		Text:        match[2],
		Difficulty:  domain.ParseDifficulty(match[3]),
		Tags:        splitQuotedList(match[4]),
		Explanation: match[6],
	}
	q.Points, _ = strconv.Atoi(match[5])
	if q.Points <= 0 {
		q.Points = 1
	}

	switch q.Type {
	case domain.TypeMultipleChoice:
		q.Variant = domain.MultipleChoice{
			Options: splitQuotedList(firstGroup(optionsRe, block)),
			Answer:  firstGroup(stringAnswerRe, block),
		}
	case domain.TypeTrueFalse:
		q.Variant = domain.TrueFalse{Answer: firstGroup(boolAnswerRe, block) == "true"}
	case domain.TypeFillBlank:
		q.Variant = domain.FillBlank{Answer: firstGroup(stringAnswerRe, block)}
	case domain.TypeNumeric:
		answer, _ := strconv.ParseFloat(firstGroup(numberAnswerRe, block), 64)
		q.Variant = domain.Numeric{Answer: answer}
	case domain.TypeOrdering:
		q.Variant = domain.Ordering{
			Items:        splitQuotedList(firstGroup(itemsRe, block)),
			CorrectOrder: splitQuotedList(firstGroup(correctOrderRe, block)),
		}
	case domain.TypeMatching:
		pairs := map[string]string{}
		var keys []string
		for _, pm := range pairRe.FindAllStringSubmatch(firstGroup(pairsRe, block), -1) {
			if _, seen := pairs[pm[1]]; !seen {
				keys = append(keys, pm[1])
			}
			pairs[pm[1]] = pm[2]
		}
		q.Variant = domain.Matching{Pairs: pairs, Keys: keys}
	default:
		return nil, domain.NewInvalidQuizDataError("unsupported question type: " + string(q.Type))
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// splitQuotedList splits the inner text of a JSON-ish string array on
// commas, stripping quotes and whitespace. Empty entries are dropped.
func splitQuotedList(inner string) []string {
	if strings.TrimSpace(inner) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(strings.ReplaceAll(part, `"`, ""))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseGeneratedAt(s string) time.Time {
	if s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}
