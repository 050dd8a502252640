package quiz

import (
	"context"
	"errors"
)

var (
	// ErrQuestionNotFound means no question matched (question_id, test_id).
	ErrQuestionNotFound = errors.New("question not found")
	// ErrDuplicateSubmission is returned instead of appending a second
	// ledger row when repeat submissions are disallowed.
	ErrDuplicateSubmission = errors.New("answer already submitted")
)

// SubmitResult carries the point awarded for one submission.
type SubmitResult struct {
	Score int `json:"score"`
}

type Store interface {
	// GetQuestions returns the questions for a test joined with course
	// metadata. An unknown test id yields an empty slice, not an error.
	GetQuestions(ctx context.Context, testID int64) ([]Question, error)

	// HasAttempted reports whether the user has any ledger row for the test.
	HasAttempted(ctx context.Context, userID string, testID int64) (bool, error)

	// SubmitAnswer grades a choice against the stored correct choice and
	// appends the ledger row, all in one transaction.
	SubmitAnswer(ctx context.Context, a Answer) (SubmitResult, error)

	// Summary aggregates distinct attempted tests and the normalized
	// average score, optionally restricted to one subject.
	Summary(ctx context.Context, userID, subject string) (Summary, error)

	// AttemptedBySubject counts distinct attempted tests per configured
	// subject group.
	AttemptedBySubject(ctx context.Context, userID string) (map[string]SubjectAttempts, error)

	// CourseWiseScores breaks scores down per subject and quiz across the
	// whole catalog.
	CourseWiseScores(ctx context.Context, userID string) ([]CourseScore, error)
}
