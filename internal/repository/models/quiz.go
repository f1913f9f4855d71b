package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a string array as a JSON column
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// RawJSON stores an arbitrary JSON document as a column
type RawJSON json.RawMessage

// Value implements the driver.Valuer interface
func (r RawJSON) Value() (driver.Value, error) {
	if len(r) == 0 {
		return "null", nil
	}
	return string(r), nil
}

// Scan implements the sql.Scanner interface
func (r *RawJSON) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*r = append((*r)[:0], v...)
	case string:
		*r = RawJSON(v)
	default:
		return errors.New("RawJSON Scan: unsupported type " + fmt.Sprintf("%T", value))
	}
	return nil
}

// Quiz is the quizzes table row
type Quiz struct {
	ID            string         `db:"id"`
	Topic         string         `db:"topic"`
	Subtopics     StringSlice    `db:"subtopics"`
	GeneratedAt   time.Time      `db:"generated_at"`
	QuestionCount int            `db:"question_count"`
	Questions     RawJSON        `db:"questions"`
	CreatedBy     sql.NullString `db:"created_by"`
	CreatedAt     time.Time      `db:"created_at"`
}

// Submission is the submissions table row
type Submission struct {
	ID             string        `db:"id"`
	QuizID         string        `db:"quiz_id"`
	UserID         string        `db:"user_id"`
	Score          int           `db:"score"`
	TotalQuestions int           `db:"total_questions"`
	Percentile     sql.NullInt64 `db:"percentile"`
	TimeSpent      int           `db:"time_spent"`
	CompletionRate int           `db:"completion_rate"`
	Answers        RawJSON       `db:"answers"`
	CreatedAt      time.Time     `db:"created_at"`
}
