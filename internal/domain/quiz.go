package domain

import "time"

// Quiz is a validated quiz document produced by the ingestion parser
type Quiz struct {
	ID            string     `json:"quizId"`
	Topic         string     `json:"topic"`
	Subtopics     []string   `json:"subtopics"`
	GeneratedAt   time.Time  `json:"generated_at"`
	QuestionCount int        `json:"question_count"`
	Questions     []Question `json:"questions"`
	CreatedBy     string     `json:"-"`
	CreatedAt     time.Time  `json:"-"`
}

// Submission is one graded quiz attempt
type Submission struct {
	ID             string    `json:"id"`
	QuizID         string    `json:"quizId"`
	UserID         string    `json:"userId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentile     *int      `json:"percentile,omitempty"`
	TimeSpent      int       `json:"timeSpent"`
	CompletionRate int       `json:"completionRate"`
	Answers        []Answer  `json:"answers"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ProgressSample is one point of the answered-over-time timeline.
// Time is seconds since the attempt started and never decreases.
type ProgressSample struct {
	Time              int `json:"time"`
	QuestionsAnswered int `json:"questionsAnswered"`
}

// BucketStat aggregates correctness for one subtopic or difficulty bucket
type BucketStat struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// StrengthsWeaknesses holds the derived qualitative findings
type StrengthsWeaknesses struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// Result is the enriched analytics view of one graded attempt
type Result struct {
	UserScore              int                       `json:"userScore"`
	TotalQuestions         int                       `json:"totalQuestions"`
	Percentile             int                       `json:"percentile"`
	AnsweredQuestions      int                       `json:"answeredQuestions"`
	CompletionRate         int                       `json:"completionRate"`
	TimePerQuestion        float64                   `json:"timePerQuestion"`
	TotalTimeSpent         int                       `json:"totalTimeSpent"`
	SubtopicPerformance    map[string]BucketStat     `json:"subtopicPerformance"`
	DifficultyPerformance  map[Difficulty]BucketStat `json:"difficultyPerformance"`
	StrengthsAndWeaknesses StrengthsWeaknesses       `json:"strengthsAndWeaknesses"`
	TimelineData           []ProgressSample          `json:"timelineData"`
}
