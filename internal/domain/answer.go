package domain

import (
	"encoding/json"
	"fmt"
)

// Answer is the uniform answer model shared by every question variant.
// At most one field is set; which one depends on the question type.
// Matching values may be nil (the key was cleared but is still reported).
type Answer struct {
	Text    *string
	Bool    *bool
	Number  *float64
	Order   []string
	Matches map[string]*string
}

// Answered reports whether the answer counts toward progress.
// Scalars count when set; ordering and matching count once the user
// has interacted at least once.
func (a Answer) Answered() bool {
	switch {
	case a.Text != nil, a.Bool != nil, a.Number != nil:
		return true
	case a.Order != nil:
		return len(a.Order) > 0
	case a.Matches != nil:
		return len(a.Matches) > 0
	}
	return false
}

// MarshalJSON emits the scalar, array, or object form, or null when unanswered
func (a Answer) MarshalJSON() ([]byte, error) {
	switch {
	case a.Text != nil:
		return json.Marshal(*a.Text)
	case a.Bool != nil:
		return json.Marshal(*a.Bool)
	case a.Number != nil:
		return json.Marshal(*a.Number)
	case a.Order != nil:
		return json.Marshal(a.Order)
	case a.Matches != nil:
		return json.Marshal(a.Matches)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts any of the wire forms
func (a *Answer) UnmarshalJSON(data []byte) error {
	*a = Answer{}

	var probe interface{}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	switch v := probe.(type) {
	case nil:
		return nil
	case string:
		a.Text = &v
	case bool:
		a.Bool = &v
	case float64:
		a.Number = &v
	case []interface{}:
		order := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("ordering answer items must be strings, got %T", item)
			}
			order = append(order, s)
		}
		a.Order = order
	case map[string]interface{}:
		matches := make(map[string]*string, len(v))
		for key, value := range v {
			if value == nil {
				matches[key] = nil
				continue
			}
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("matching answer values must be strings or null, got %T", value)
			}
			matches[key] = &s
		}
		a.Matches = matches
	default:
		return fmt.Errorf("unsupported answer shape: %T", probe)
	}
	return nil
}

// TextAnswer builds a scalar text answer
func TextAnswer(s string) Answer { return Answer{Text: &s} }

// BoolAnswer builds a scalar boolean answer
func BoolAnswer(b bool) Answer { return Answer{Bool: &b} }

// NumberAnswer builds a scalar numeric answer
func NumberAnswer(n float64) Answer { return Answer{Number: &n} }

// OrderAnswer builds an ordering answer
func OrderAnswer(order []string) Answer { return Answer{Order: order} }

// MatchAnswer builds a matching answer
func MatchAnswer(matches map[string]*string) Answer { return Answer{Matches: matches} }
