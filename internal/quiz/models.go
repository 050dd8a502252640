package quiz

// Question is a catalog row augmented with its course metadata, as
// served to quiz takers. CorrectChoice is never serialized.
type Question struct {
	QuestionID int64  `json:"question_id"`
	TestID     int64  `json:"test_id"`
	Prompt     string `json:"question"`
	ChoiceA    string `json:"choice_a"`
	ChoiceB    string `json:"choice_b"`
	ChoiceC    string `json:"choice_c"`
	ChoiceD    string `json:"choice_d"`
	Subject    string `json:"subject"`
	QuizCode   string `json:"quiz_code"`

	CorrectChoice string `json:"-"`
}

// Answer is one ledger row: a single submission attempt. Rows are
// append-only and never updated.
type Answer struct {
	TestID     int64  `json:"test_id"`
	UserID     string `json:"user_id"`
	QuestionID int64  `json:"question_id"`
	UserAnswer string `json:"user_answer"`
	IsCorrect  bool   `json:"is_correct"`
}

// Summary aggregates a user's attempts, optionally filtered by subject.
type Summary struct {
	QuizzesAttempted int     `json:"quizzesAttempted"`
	AverageScore     float64 `json:"averageScore"`
}

// SubjectAttempts reports how many of a subject's quizzes a user has
// started.
type SubjectAttempts struct {
	Total     int `json:"total"`
	Attempted int `json:"attempted"`
}

// CourseScore is one row of the course-wise breakdown. Quiz scores are
// nil when the user never touched that quiz; nil scores are excluded
// from the average rather than counted as zero.
type CourseScore struct {
	Subject    string   `json:"subject"`
	Quiz1Score *int     `json:"Quiz1_Score"`
	Quiz2Score *int     `json:"Quiz2_Score"`
	AvgScore   *float64 `json:"AVG_SCORE"`
}
