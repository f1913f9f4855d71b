package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// QuestionType discriminates the question variants
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
	TypeFillBlank      QuestionType = "fill_blank"
	TypeNumeric        QuestionType = "numeric"
	TypeOrdering       QuestionType = "ordering"
	TypeMatching       QuestionType = "matching"
)

// NormalizeQuestionType maps historical aliases onto canonical types.
// The generator emitted "mcq" before multiple_choice became the wire name.
func NormalizeQuestionType(t string) QuestionType {
	if t == "mcq" {
		return TypeMultipleChoice
	}
	return QuestionType(t)
}

// Difficulty is the question difficulty bucket
type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyUnknown Difficulty = "unknown"
)

// Difficulties lists every bucket, in reporting order. Analytics must
// emit all of them even when a quiz has no questions in a bucket.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyUnknown}

// ParseDifficulty normalizes a raw difficulty string, defaulting to unknown
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s)
	default:
		return DifficultyUnknown
	}
}

// QuestionVariant is the closed set of type-specific question payloads
type QuestionVariant interface {
	questionVariant()
}

// MultipleChoice carries the options and the single correct option
type MultipleChoice struct {
	Options []string
	Answer  string
}

// TrueFalse carries a boolean answer
type TrueFalse struct {
	Answer bool
}

// FillBlank carries a verbatim-compared string answer
type FillBlank struct {
	Answer string
}

// Numeric carries a floating point answer
type Numeric struct {
	Answer float64
}

// Ordering carries the items in canonical order and the grading target
type Ordering struct {
	Items        []string
	CorrectOrder []string
}

// Matching carries key/value pairs; Keys preserves the authored order
// since Go maps (and JSON objects read into them) do not.
type Matching struct {
	Pairs map[string]string
	Keys  []string
}

func (MultipleChoice) questionVariant() {}
func (TrueFalse) questionVariant()      {}
func (FillBlank) questionVariant()      {}
func (Numeric) questionVariant()        {}
func (Ordering) questionVariant()       {}
func (Matching) questionVariant()       {}

// Question is one quiz question: common fields plus exactly one variant
// payload selected by Type.
type Question struct {
	Type        QuestionType
	Text        string
	Difficulty  Difficulty
	Tags        []string
	Points      int
	Explanation string
	Variant     QuestionVariant
}

// Validate checks the minimal shape of a question
func (q *Question) Validate() error {
	if q.Text == "" {
		return NewInvalidQuizDataError("question text is required")
	}
	switch v := q.Variant.(type) {
	case MultipleChoice:
		if len(v.Options) == 0 {
			return NewInvalidQuizDataError("multiple_choice question needs options")
		}
	case Ordering:
		if len(v.Items) == 0 {
			return NewInvalidQuizDataError("ordering question needs items")
		}
	case Matching:
		if len(v.Pairs) == 0 {
			return NewInvalidQuizDataError("matching question needs pairs")
		}
	case TrueFalse, FillBlank, Numeric:
	default:
		return NewInvalidQuizDataError(fmt.Sprintf("unsupported question type: %s", q.Type))
	}
	return nil
}

// PrimaryTag returns the first tag, defaulting to "General" for aggregation
func (q *Question) PrimaryTag() string {
	if len(q.Tags) > 0 && q.Tags[0] != "" {
		return q.Tags[0]
	}
	return "General"
}

// wireQuestion is the flat persisted/transport shape of a question.
// Variant fields are all optional here; (Un)MarshalJSON enforce the
// closed-union invariant on the way in and out.
type wireQuestion struct {
	Type         string            `json:"type"`
	Question     string            `json:"question"`
	Difficulty   string            `json:"difficulty"`
	Tags         []string          `json:"tags"`
	Points       int               `json:"points"`
	Explanation  string            `json:"explanation"`
	Options      []string          `json:"options,omitempty"`
	Answer       json.RawMessage   `json:"answer,omitempty"`
	Pairs        json.RawMessage   `json:"pairs,omitempty"`
	Items        []string          `json:"items,omitempty"`
	CorrectOrder []string          `json:"correct_order,omitempty"`
}

// MarshalJSON flattens the variant into the wire shape
func (q Question) MarshalJSON() ([]byte, error) {
	w := wireQuestion{
		Type:        string(q.Type),
		Question:    q.Text,
		Difficulty:  string(q.Difficulty),
		Tags:        q.Tags,
		Points:      q.Points,
		Explanation: q.Explanation,
	}
	if w.Tags == nil {
		w.Tags = []string{}
	}

	var err error
	switch v := q.Variant.(type) {
	case MultipleChoice:
		w.Options = v.Options
		w.Answer, err = json.Marshal(v.Answer)
	case TrueFalse:
		w.Answer, err = json.Marshal(v.Answer)
	case FillBlank:
		w.Answer, err = json.Marshal(v.Answer)
	case Numeric:
		w.Answer, err = json.Marshal(v.Answer)
	case Ordering:
		w.Items = v.Items
		w.CorrectOrder = v.CorrectOrder
	case Matching:
		w.Pairs, err = marshalOrderedPairs(v.Pairs, v.Keys)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalJSON rebuilds the variant from the wire shape
func (q *Question) UnmarshalJSON(data []byte) error {
	var w wireQuestion
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	q.Type = NormalizeQuestionType(w.Type)
	q.Text = w.Question
	q.Difficulty = ParseDifficulty(w.Difficulty)
	q.Tags = w.Tags
	q.Points = w.Points
	if q.Points <= 0 {
		q.Points = 1
	}
	q.Explanation = w.Explanation

	switch q.Type {
	case TypeMultipleChoice:
		var answer string
		if w.Answer != nil {
			if err := json.Unmarshal(w.Answer, &answer); err != nil {
				return fmt.Errorf("multiple_choice answer: %w", err)
			}
		}
		q.Variant = MultipleChoice{Options: w.Options, Answer: answer}
	case TypeTrueFalse:
		var answer bool
		if w.Answer != nil {
			if err := json.Unmarshal(w.Answer, &answer); err != nil {
				return fmt.Errorf("true_false answer: %w", err)
			}
		}
		q.Variant = TrueFalse{Answer: answer}
	case TypeFillBlank:
		var answer string
		if w.Answer != nil {
			if err := json.Unmarshal(w.Answer, &answer); err != nil {
				return fmt.Errorf("fill_blank answer: %w", err)
			}
		}
		q.Variant = FillBlank{Answer: answer}
	case TypeNumeric:
		var answer float64
		if w.Answer != nil {
			if err := json.Unmarshal(w.Answer, &answer); err != nil {
				return fmt.Errorf("numeric answer: %w", err)
			}
		}
		q.Variant = Numeric{Answer: answer}
	case TypeOrdering:
		q.Variant = Ordering{Items: w.Items, CorrectOrder: w.CorrectOrder}
	case TypeMatching:
		pairs, keys, err := unmarshalOrderedPairs(w.Pairs)
		if err != nil {
			return fmt.Errorf("matching pairs: %w", err)
		}
		q.Variant = Matching{Pairs: pairs, Keys: keys}
	default:
		return fmt.Errorf("unsupported question type: %s", w.Type)
	}
	return nil
}

// marshalOrderedPairs writes a JSON object with keys in the given order
func marshalOrderedPairs(pairs map[string]string, keys []string) (json.RawMessage, error) {
	if keys == nil {
		keys = make([]string, 0, len(pairs))
		for k := range pairs {
			keys = append(keys, k)
		}
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(pairs[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// unmarshalOrderedPairs reads a JSON object preserving key order
func unmarshalOrderedPairs(raw json.RawMessage) (map[string]string, []string, error) {
	pairs := map[string]string{}
	var keys []string
	if len(raw) == 0 {
		return pairs, keys, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := keyTok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, nil, err
		}
		if _, seen := pairs[key]; !seen {
			keys = append(keys, key)
		}
		pairs[key] = value
	}
	return pairs, keys, nil
}
