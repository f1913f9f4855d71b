// Package scoring grades answers against canonical answers and derives
// the analytics attached to a completed attempt.
package scoring

import (
	"fmt"
	"math"

	"quiz-portal/internal/domain"
)

// Grade reports whether the answer is correct for the question.
// Every variant is graded structurally: scalars by value, ordering by
// exact sequence against the canonical order, matching by exact pair
// coverage. A cleared matching value (nil) is never correct.
func Grade(q domain.Question, a domain.Answer) bool {
	switch v := q.Variant.(type) {
	case domain.MultipleChoice:
		return a.Text != nil && *a.Text == v.Answer
	case domain.TrueFalse:
		return a.Bool != nil && *a.Bool == v.Answer
	case domain.FillBlank:
		return a.Text != nil && *a.Text == v.Answer
	case domain.Numeric:
		return a.Number != nil && *a.Number == v.Answer
	case domain.Ordering:
		if len(v.CorrectOrder) == 0 || len(a.Order) != len(v.CorrectOrder) {
			return false
		}
		for i, item := range a.Order {
			if item != v.CorrectOrder[i] {
				return false
			}
		}
		return true
	case domain.Matching:
		if len(v.Pairs) == 0 {
			return false
		}
		for key, want := range v.Pairs {
			got, ok := a.Matches[key]
			if !ok || got == nil || *got != want {
				return false
			}
		}
		return true
	}
	return false
}

// Score grades each answer by index and returns the correct count plus
// the per-question verdicts. Extra answers beyond the question list are
// ignored; missing answers grade as incorrect.
func Score(questions []domain.Question, answers []domain.Answer) (int, []bool) {
	verdicts := make([]bool, len(questions))
	score := 0
	for i, q := range questions {
		if i < len(answers) && Grade(q, answers[i]) {
			verdicts[i] = true
			score++
		}
	}
	return score, verdicts
}

// Attempt carries everything Enrich needs about one graded attempt
type Attempt struct {
	Questions  []domain.Question
	Answers    []domain.Answer
	Verdicts   []bool
	UserScore  int
	Percentile *int
	TimeSpent  int
	History    []domain.ProgressSample
}

// Enrich derives the full analytics view. Percentile falls back to the
// score percentage when no authoritative value is present. Breakdowns
// use the real per-question verdicts throughout.
func Enrich(att Attempt) domain.Result {
	total := len(att.Questions)

	answered := 0
	for _, a := range att.Answers {
		if a.Answered() {
			answered++
		}
	}

	res := domain.Result{
		UserScore:             att.UserScore,
		TotalQuestions:        total,
		AnsweredQuestions:     answered,
		CompletionRate:        roundPercent(answered, total),
		TotalTimeSpent:        att.TimeSpent,
		SubtopicPerformance:   map[string]domain.BucketStat{},
		DifficultyPerformance: map[domain.Difficulty]domain.BucketStat{},
		TimelineData:          att.History,
	}
	if res.TimelineData == nil {
		res.TimelineData = []domain.ProgressSample{}
	}

	if att.Percentile != nil {
		res.Percentile = *att.Percentile
	} else if total > 0 {
		res.Percentile = roundPercent(att.UserScore, total)
	}

	if answered > 0 {
		res.TimePerQuestion = math.Round(float64(att.TimeSpent)/float64(answered)*10) / 10
	}

	for i, q := range att.Questions {
		correct := i < len(att.Verdicts) && att.Verdicts[i]
		bump(res.SubtopicPerformance, q.PrimaryTag(), correct)
		bump(res.DifficultyPerformance, q.Difficulty, correct)
	}
	for _, d := range domain.Difficulties {
		if _, ok := res.DifficultyPerformance[d]; !ok {
			res.DifficultyPerformance[d] = domain.BucketStat{}
		}
	}

	res.StrengthsAndWeaknesses = analyzeStrengthsAndWeaknesses(att.UserScore, total, att.TimeSpent)
	return res
}

func analyzeStrengthsAndWeaknesses(score, total, timeSpent int) domain.StrengthsWeaknesses {
	sw := domain.StrengthsWeaknesses{Strengths: []string{}, Weaknesses: []string{}}
	if total == 0 {
		return sw
	}

	scorePercent := roundPercent(score, total)
	switch {
	case scorePercent >= 80:
		sw.Strengths = append(sw.Strengths, "Excellent overall accuracy")
	case scorePercent >= 60:
		sw.Strengths = append(sw.Strengths, "Good overall accuracy")
	case scorePercent < 40:
		sw.Weaknesses = append(sw.Weaknesses, "Overall accuracy needs improvement")
	}

	avgTime := float64(timeSpent) / float64(total)
	if avgTime < 20 {
		sw.Strengths = append(sw.Strengths, "Quick response time")
	} else if avgTime > 90 {
		sw.Weaknesses = append(sw.Weaknesses, "Response time could be faster")
	}
	return sw
}

func bump[K comparable](buckets map[K]domain.BucketStat, key K, correct bool) {
	stat := buckets[key]
	stat.Total++
	if correct {
		stat.Correct++
	}
	stat.Percentage = roundPercent(stat.Correct, stat.Total)
	buckets[key] = stat
}

func roundPercent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// FormatTime renders seconds as m:ss
func FormatTime(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
