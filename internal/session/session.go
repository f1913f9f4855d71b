// Package session implements the client-side quiz attempt state machine.
// A session owns one attempt at a time: it loads a quiz, presents the
// questions with per-session frozen shuffles, accepts answer mutations,
// tracks elapsed time and progress, and submits for grading.
package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"quiz-portal/internal/domain"
	"quiz-portal/internal/logger"
	"quiz-portal/internal/scoring"
)

// State is the session lifecycle phase
type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StateActive     State = "active"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
)

var (
	ErrNotIdle    = errors.New("session: a quiz is already in progress")
	ErrNotActive  = errors.New("session: no active quiz")
	ErrBusy       = errors.New("session: request in flight")
	ErrWrongShape = errors.New("session: answer shape does not match question type")
)

// SubmitOutcome is what the grading backend returns for an attempt.
// Percentile is nil when the backend has no population to rank against.
type SubmitOutcome struct {
	UserScore  int
	Percentile *int
}

// Backend is the remote capability the session depends on
type Backend interface {
	GenerateQuiz(ctx context.Context, topic string) (*domain.Quiz, error)
	SubmitQuiz(ctx context.Context, sub *domain.Submission, questions []domain.Question) (*SubmitOutcome, error)
}

// Presentation is the per-question display state, computed once when the
// quiz loads and never reshuffled afterwards.
type Presentation struct {
	Options      []string
	InitialItems []string
	MatchItems   []string
	MatchOptions []string
}

const sampleEvery = 10 // seconds between progress samples

// Session is safe for concurrent use; every mutation is serialized.
type Session struct {
	mu      sync.Mutex
	backend Backend
	rng     *rand.Rand

	state        State
	lastError    string
	quiz         *domain.Quiz
	presentation []Presentation
	answers      map[int]domain.Answer
	current      int
	timeSpent    int
	history      []domain.ProgressSample
	result       *domain.Result

	// generation invalidates in-flight requests superseded by a newer
	// Start or ChangeTopic.
	generation int
	stopTimers chan struct{}
}

// NewSession creates an idle session backed by the given API
func NewSession(backend Backend) *Session {
	return &Session{
		backend: backend,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		state:   StateIdle,
		answers: map[int]domain.Answer{},
	}
}

// Start loads a quiz for the topic. Idle → Loading → Active on success,
// back to Idle with a retained error message on failure. A response that
// arrives after the session moved on is discarded.
func (s *Session) Start(ctx context.Context, topic string) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrNotIdle
	}
	s.state = StateLoading
	s.lastError = ""
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	quiz, err := s.backend.GenerateQuiz(ctx, topic)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen || s.state != StateLoading {
		logger.Get().Debug("discarding stale quiz response", zap.String("topic", topic))
		return nil
	}
	if err != nil {
		s.state = StateIdle
		s.lastError = err.Error()
		return err
	}

	s.quiz = quiz
	s.presentation = s.buildPresentation(quiz.Questions)
	s.answers = map[int]domain.Answer{}
	s.current = 0
	s.timeSpent = 0
	s.history = []domain.ProgressSample{{Time: 0, QuestionsAnswered: 0}}
	s.result = nil
	s.state = StateActive
	s.startTimersLocked()
	return nil
}

// buildPresentation freezes the shuffled views for every question
func (s *Session) buildPresentation(questions []domain.Question) []Presentation {
	pres := make([]Presentation, len(questions))
	for i, q := range questions {
		switch v := q.Variant.(type) {
		case domain.MultipleChoice:
			pres[i].Options = s.shuffled(v.Options)
		case domain.Ordering:
			pres[i].InitialItems = s.shuffled(v.Items)
		case domain.Matching:
			keys := v.Keys
			if keys == nil {
				keys = make([]string, 0, len(v.Pairs))
				for k := range v.Pairs {
					keys = append(keys, k)
				}
			}
			pres[i].MatchItems = append([]string(nil), keys...)
			values := make([]string, 0, len(keys))
			for _, k := range keys {
				values = append(values, v.Pairs[k])
			}
			pres[i].MatchOptions = s.shuffled(values)
		}
	}
	return pres
}

func (s *Session) shuffled(items []string) []string {
	out := append([]string(nil), items...)
	s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SetAnswer records the answer for the current question. The answer
// shape must match the question variant; ordering and matching have
// their own mutators.
func (s *Session) SetAnswer(a domain.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return ErrNotActive
	}

	switch s.quiz.Questions[s.current].Variant.(type) {
	case domain.MultipleChoice, domain.FillBlank:
		if a.Text == nil {
			return ErrWrongShape
		}
	case domain.TrueFalse:
		if a.Bool == nil {
			return ErrWrongShape
		}
	case domain.Numeric:
		if a.Number == nil {
			return ErrWrongShape
		}
	default:
		return ErrWrongShape
	}
	s.answers[s.current] = a
	return nil
}

// MoveOrderItem swaps the item at index with its neighbor in the given
// direction (-1 up, +1 down). The first move seeds the working order
// from the frozen initial items. Out-of-bounds moves are no-ops.
func (s *Session) MoveOrderItem(itemIndex, direction int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return ErrNotActive
	}
	if _, ok := s.quiz.Questions[s.current].Variant.(domain.Ordering); !ok {
		return ErrWrongShape
	}

	order := s.answers[s.current].Order
	if order == nil {
		order = s.presentation[s.current].InitialItems
	}
	target := itemIndex + direction
	if itemIndex < 0 || itemIndex >= len(order) || target < 0 || target >= len(order) {
		return nil
	}

	next := append([]string(nil), order...)
	next[itemIndex], next[target] = next[target], next[itemIndex]
	s.answers[s.current] = domain.OrderAnswer(next)
	return nil
}

// SetMatch records a value for one key of the current matching question,
// merging with the existing matches.
func (s *Session) SetMatch(key, value string) error {
	return s.setMatch(key, &value)
}

// ClearMatch clears the value for a key. The key stays in the answer
// with a null value so the submission reports it was touched.
func (s *Session) ClearMatch(key string) error {
	return s.setMatch(key, nil)
}

func (s *Session) setMatch(key string, value *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return ErrNotActive
	}
	if _, ok := s.quiz.Questions[s.current].Variant.(domain.Matching); !ok {
		return ErrWrongShape
	}

	matches := map[string]*string{}
	for k, v := range s.answers[s.current].Matches {
		matches[k] = v
	}
	matches[key] = value
	s.answers[s.current] = domain.MatchAnswer(matches)
	return nil
}

// Next advances to the next question; no-op on the last one
func (s *Session) Next() error { return s.jump(func(cur, n int) int { return min(cur+1, n-1) }) }

// Previous moves back one question; no-op on the first one
func (s *Session) Previous() error { return s.jump(func(cur, _ int) int { return max(cur-1, 0) }) }

// Jump moves to an arbitrary question index
func (s *Session) Jump(index int) error {
	return s.jump(func(_, n int) int { return min(max(index, 0), n-1) })
}

func (s *Session) jump(move func(current, total int) int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return ErrNotActive
	}
	s.current = move(s.current, len(s.quiz.Questions))
	// Moving on dismisses the message retained from the last failure.
	s.lastError = ""
	return nil
}

// Submit formats the answers, sends them for grading, and on success
// completes the session with the enriched result. On failure the
// session returns to Active with every answer intact.
func (s *Session) Submit(ctx context.Context) (*domain.Result, error) {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return nil, ErrNotActive
	}

	formatted := s.formatAnswersLocked()
	answered := 0
	for _, a := range formatted {
		if a.Answered() {
			answered++
		}
	}
	s.appendSampleLocked(s.timeSpent, answered)
	s.stopTimersLocked()
	s.state = StateSubmitting
	s.lastError = ""
	s.generation++
	gen := s.generation

	sub := &domain.Submission{
		QuizID:         s.quiz.ID,
		Answers:        formatted,
		TimeSpent:      s.timeSpent,
		TotalQuestions: len(s.quiz.Questions),
		CompletionRate: roundPercent(answered, len(s.quiz.Questions)),
	}
	quiz := s.quiz
	timeSpent := s.timeSpent
	history := append([]domain.ProgressSample(nil), s.history...)
	s.mu.Unlock()

	outcome, err := s.backend.SubmitQuiz(ctx, sub, quiz.Questions)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen || s.state != StateSubmitting {
		return nil, nil
	}
	if err != nil {
		s.state = StateActive
		s.lastError = err.Error()
		s.startTimersLocked()
		return nil, err
	}

	_, verdicts := scoring.Score(quiz.Questions, formatted)
	result := scoring.Enrich(scoring.Attempt{
		Questions:  quiz.Questions,
		Answers:    formatted,
		Verdicts:   verdicts,
		UserScore:  outcome.UserScore,
		Percentile: outcome.Percentile,
		TimeSpent:  timeSpent,
		History:    history,
	})
	s.result = &result
	s.state = StateCompleted
	return s.result, nil
}

// ChangeTopic abandons the current attempt and returns to Idle.
// Not allowed while a request is in flight.
func (s *Session) ChangeTopic() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateLoading || s.state == StateSubmitting {
		return ErrBusy
	}

	s.stopTimersLocked()
	s.generation++
	s.quiz = nil
	s.presentation = nil
	s.answers = map[int]domain.Answer{}
	s.current = 0
	s.timeSpent = 0
	s.history = nil
	s.result = nil
	s.lastError = ""
	s.state = StateIdle
	return nil
}

// formatAnswersLocked normalizes answers for submission: untouched
// ordering questions submit the shuffled order the user saw, untouched
// matching questions submit an empty object, untouched scalars null.
func (s *Session) formatAnswersLocked() []domain.Answer {
	formatted := make([]domain.Answer, len(s.quiz.Questions))
	for i, q := range s.quiz.Questions {
		a, ok := s.answers[i]
		switch q.Variant.(type) {
		case domain.Ordering:
			if !ok || a.Order == nil {
				a = domain.OrderAnswer(append([]string(nil), s.presentation[i].InitialItems...))
			}
		case domain.Matching:
			if !ok || a.Matches == nil {
				a = domain.MatchAnswer(map[string]*string{})
			}
		}
		formatted[i] = a
	}
	return formatted
}

func (s *Session) startTimersLocked() {
	stop := make(chan struct{})
	s.stopTimers = stop
	go s.runTimers(stop)
}

func (s *Session) stopTimersLocked() {
	if s.stopTimers != nil {
		close(s.stopTimers)
		s.stopTimers = nil
	}
}

func (s *Session) runTimers(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	ticks := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ticks++
			s.tick()
			if ticks%sampleEvery == 0 {
				s.sample()
			}
		}
	}
}

func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateActive {
		s.timeSpent++
	}
}

func (s *Session) sample() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return
	}
	answered := 0
	for _, a := range s.answers {
		if a.Answered() {
			answered++
		}
	}
	s.appendSampleLocked(s.timeSpent, answered)
}

// appendSampleLocked keeps the timeline strictly monotonic in time
func (s *Session) appendSampleLocked(t, answered int) {
	if len(s.history) == 0 || s.history[len(s.history)-1].Time < t {
		s.history = append(s.history, domain.ProgressSample{Time: t, QuestionsAnswered: answered})
	}
}

func roundPercent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(part)/float64(total)*100 + 0.5)
}
