package session

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quiz-portal/internal/domain"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) GenerateQuiz(ctx context.Context, topic string) (*domain.Quiz, error) {
	args := m.Called(ctx, topic)
	if q := args.Get(0); q != nil {
		return q.(*domain.Quiz), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBackend) SubmitQuiz(ctx context.Context, sub *domain.Submission, questions []domain.Question) (*SubmitOutcome, error) {
	args := m.Called(ctx, sub, questions)
	if o := args.Get(0); o != nil {
		return o.(*SubmitOutcome), args.Error(1)
	}
	return nil, args.Error(1)
}

func fixtureQuiz() *domain.Quiz {
	return &domain.Quiz{
		ID:    "01TESTQUIZ",
		Topic: "Astronomy",
		Questions: []domain.Question{
			{Type: domain.TypeMultipleChoice, Text: "pick", Variant: domain.MultipleChoice{Options: []string{"a", "b", "c", "d"}, Answer: "b"}},
			{Type: domain.TypeOrdering, Text: "order", Variant: domain.Ordering{Items: []string{"one", "two", "three"}, CorrectOrder: []string{"one", "two", "three"}}},
			{Type: domain.TypeMatching, Text: "match", Variant: domain.Matching{Pairs: map[string]string{"sun": "star", "earth": "planet"}, Keys: []string{"sun", "earth"}}},
			{Type: domain.TypeTrueFalse, Text: "tf", Variant: domain.TrueFalse{Answer: true}},
		},
	}
}

func startedSession(t *testing.T) (*Session, *mockBackend) {
	t.Helper()
	backend := new(mockBackend)
	backend.On("GenerateQuiz", mock.Anything, "Astronomy").Return(fixtureQuiz(), nil)

	s := NewSession(backend)
	require.NoError(t, s.Start(context.Background(), "Astronomy"))
	require.Equal(t, StateActive, s.State())
	return s, backend
}

func TestStartSuccess(t *testing.T) {
	s, _ := startedSession(t)

	assert.Equal(t, []domain.ProgressSample{{Time: 0, QuestionsAnswered: 0}}, s.History())

	view, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, 0, view.Index)
	assert.Equal(t, 4, view.Total)

	// The shuffle is a permutation of the authored options and is
	// frozen: every snapshot sees the identical order.
	got := append([]string(nil), view.Presentation.Options...)
	sort.Strings(got)
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)

	again, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, view.Presentation.Options, again.Presentation.Options)
}

func TestStartFailureReturnsToIdle(t *testing.T) {
	backend := new(mockBackend)
	backend.On("GenerateQuiz", mock.Anything, "Astronomy").Return(nil, errors.New("generator exploded"))

	s := NewSession(backend)
	err := s.Start(context.Background(), "Astronomy")
	require.Error(t, err)
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, "generator exploded", s.LastError())
}

func TestStartWhileActive(t *testing.T) {
	s, _ := startedSession(t)
	assert.ErrorIs(t, s.Start(context.Background(), "Biology"), ErrNotIdle)
}

func TestSetAnswerShapeGuard(t *testing.T) {
	s, _ := startedSession(t)

	require.NoError(t, s.SetAnswer(domain.TextAnswer("b")))
	assert.ErrorIs(t, s.SetAnswer(domain.BoolAnswer(true)), ErrWrongShape)

	require.NoError(t, s.Jump(3))
	require.NoError(t, s.SetAnswer(domain.BoolAnswer(true)))
	assert.ErrorIs(t, s.SetAnswer(domain.OrderAnswer([]string{"x"})), ErrWrongShape)
}

func TestMutatorsRequireActive(t *testing.T) {
	s := NewSession(new(mockBackend))
	assert.ErrorIs(t, s.SetAnswer(domain.TextAnswer("a")), ErrNotActive)
	assert.ErrorIs(t, s.MoveOrderItem(0, 1), ErrNotActive)
	assert.ErrorIs(t, s.SetMatch("k", "v"), ErrNotActive)
	assert.ErrorIs(t, s.Next(), ErrNotActive)
	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestMoveOrderItemSeedsFromInitialItems(t *testing.T) {
	s, _ := startedSession(t)
	require.NoError(t, s.Jump(1))

	view, err := s.Current()
	require.NoError(t, err)
	initial := append([]string(nil), view.Presentation.InitialItems...)

	require.NoError(t, s.MoveOrderItem(0, 1))

	view, err = s.Current()
	require.NoError(t, err)
	want := append([]string(nil), initial...)
	want[0], want[1] = want[1], want[0]
	assert.Equal(t, want, view.Answer.Order)
	// The frozen initial order is untouched.
	assert.Equal(t, initial, view.Presentation.InitialItems)
}

func TestMoveOrderItemBoundsAreNoOps(t *testing.T) {
	s, _ := startedSession(t)
	require.NoError(t, s.Jump(1))

	require.NoError(t, s.MoveOrderItem(0, -1))
	require.NoError(t, s.MoveOrderItem(2, 1))
	require.NoError(t, s.MoveOrderItem(7, 1))

	view, err := s.Current()
	require.NoError(t, err)
	assert.Nil(t, view.Answer.Order)
}

func TestMatchMergeAndClear(t *testing.T) {
	s, _ := startedSession(t)
	require.NoError(t, s.Jump(2))

	require.NoError(t, s.SetMatch("sun", "star"))
	require.NoError(t, s.SetMatch("earth", "planet"))
	require.NoError(t, s.ClearMatch("earth"))

	view, err := s.Current()
	require.NoError(t, err)
	require.Len(t, view.Answer.Matches, 2)
	require.NotNil(t, view.Answer.Matches["sun"])
	assert.Equal(t, "star", *view.Answer.Matches["sun"])
	val, ok := view.Answer.Matches["earth"]
	assert.True(t, ok)
	assert.Nil(t, val)
}

func TestNavigationClamps(t *testing.T) {
	s, _ := startedSession(t)

	require.NoError(t, s.Previous())
	view, _ := s.Current()
	assert.Equal(t, 0, view.Index)

	require.NoError(t, s.Jump(99))
	view, _ = s.Current()
	assert.Equal(t, 3, view.Index)

	require.NoError(t, s.Next())
	view, _ = s.Current()
	assert.Equal(t, 3, view.Index)
}

func TestSubmitFormatsDefaults(t *testing.T) {
	s, backend := startedSession(t)

	// Answer only the first question; ordering, matching, and the
	// final scalar stay untouched.
	require.NoError(t, s.SetAnswer(domain.TextAnswer("b")))

	var captured *domain.Submission
	backend.On("SubmitQuiz", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*domain.Submission) }).
		Return(&SubmitOutcome{UserScore: 1}, nil)

	result, err := s.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, StateCompleted, s.State())

	require.NotNil(t, captured)
	require.Len(t, captured.Answers, 4)
	assert.Equal(t, "b", *captured.Answers[0].Text)

	ordering, _ := s.quiz.Questions[1].Variant.(domain.Ordering)
	sorted := append([]string(nil), captured.Answers[1].Order...)
	sort.Strings(sorted)
	wantItems := append([]string(nil), ordering.Items...)
	sort.Strings(wantItems)
	assert.Equal(t, wantItems, sorted)

	require.NotNil(t, captured.Answers[2].Matches)
	assert.Empty(t, captured.Answers[2].Matches)

	assert.Nil(t, captured.Answers[3].Bool)
	assert.Equal(t, 25, captured.CompletionRate)
}

func TestSubmitFailureKeepsAnswers(t *testing.T) {
	s, backend := startedSession(t)
	require.NoError(t, s.SetAnswer(domain.TextAnswer("b")))

	backend.On("SubmitQuiz", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("backend down"))

	_, err := s.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, "backend down", s.LastError())

	view, err := s.Current()
	require.NoError(t, err)
	require.NotNil(t, view.Answer.Text)
	assert.Equal(t, "b", *view.Answer.Text)
}

func TestNavigationClearsRetainedError(t *testing.T) {
	s, backend := startedSession(t)
	require.NoError(t, s.SetAnswer(domain.TextAnswer("b")))

	backend.On("SubmitQuiz", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("backend down"))

	_, err := s.Submit(context.Background())
	require.Error(t, err)
	require.Equal(t, "backend down", s.LastError())

	require.NoError(t, s.Next())
	assert.Empty(t, s.LastError())
}

func TestSubmitResultUsesBackendScoreAndPercentile(t *testing.T) {
	s, backend := startedSession(t)
	require.NoError(t, s.SetAnswer(domain.TextAnswer("b")))

	p := 72
	backend.On("SubmitQuiz", mock.Anything, mock.Anything, mock.Anything).
		Return(&SubmitOutcome{UserScore: 1, Percentile: &p}, nil)

	result, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.UserScore)
	assert.Equal(t, 72, result.Percentile)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.NotEmpty(t, result.TimelineData)
}

func TestChangeTopicResets(t *testing.T) {
	s, _ := startedSession(t)
	require.NoError(t, s.SetAnswer(domain.TextAnswer("b")))

	require.NoError(t, s.ChangeTopic())
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Quiz())
	assert.Nil(t, s.Result())

	answered, total := s.Progress()
	assert.Zero(t, answered)
	assert.Zero(t, total)
}

func TestTimelineStaysMonotonic(t *testing.T) {
	s, _ := startedSession(t)

	s.tick()
	s.tick()
	s.sample()
	s.sample() // same timestamp, must not append
	s.tick()
	s.sample()

	history := s.History()
	require.Len(t, history, 3)
	assert.Equal(t, 0, history[0].Time)
	assert.Equal(t, 2, history[1].Time)
	assert.Equal(t, 3, history[2].Time)
}

func TestSampleCountsAnsweredQuestions(t *testing.T) {
	s, _ := startedSession(t)
	require.NoError(t, s.SetAnswer(domain.TextAnswer("b")))
	require.NoError(t, s.Jump(3))
	require.NoError(t, s.SetAnswer(domain.BoolAnswer(false)))

	s.tick()
	s.sample()

	history := s.History()
	last := history[len(history)-1]
	assert.Equal(t, 2, last.QuestionsAnswered)
}
