package session

import "quiz-portal/internal/domain"

// QuestionView is a read-only snapshot of one question as presented
type QuestionView struct {
	Index        int
	Total        int
	Question     domain.Question
	Presentation Presentation
	Answer       domain.Answer
}

// State returns the current lifecycle phase
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the retained message from the most recent failure
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Quiz returns the loaded quiz, or nil outside an attempt
func (s *Session) Quiz() *domain.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz
}

// Current snapshots the question being presented
func (s *Session) Current() (QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return QuestionView{}, ErrNotActive
	}
	return QuestionView{
		Index:        s.current,
		Total:        len(s.quiz.Questions),
		Question:     s.quiz.Questions[s.current],
		Presentation: s.presentation[s.current],
		Answer:       s.answers[s.current],
	}, nil
}

// Progress returns how many questions have meaningful answers
func (s *Session) Progress() (answered, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz == nil {
		return 0, 0
	}
	for _, a := range s.answers {
		if a.Answered() {
			answered++
		}
	}
	return answered, len(s.quiz.Questions)
}

// TimeSpent returns elapsed active seconds for the attempt
func (s *Session) TimeSpent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeSpent
}

// History returns a copy of the progress timeline so far
func (s *Session) History() []domain.ProgressSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ProgressSample(nil), s.history...)
}

// Result returns the enriched result after completion, else nil
func (s *Session) Result() *domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}
