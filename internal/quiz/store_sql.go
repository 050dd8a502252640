package quiz

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"sort"
	"time"
)

type SQLStore struct {
	db          *sql.DB
	subjects    SubjectMapping
	allowRepeat bool
}

func NewSQLStore(db *sql.DB, subjects SubjectMapping, allowRepeat bool) *SQLStore {
	return &SQLStore{db: db, subjects: subjects, allowRepeat: allowRepeat}
}

func (s *SQLStore) GetQuestions(ctx context.Context, testID int64) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT q.question_id, q.test_id, q.question,
		       q.choice_a, q.choice_b, q.choice_c, q.choice_d,
		       c.subject, c.quiz_code
		FROM questions q
		JOIN course c ON q.test_id = c.course_code
		WHERE q.test_id = $1
		ORDER BY q.question_id`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.QuestionID, &q.TestID, &q.Prompt,
			&q.ChoiceA, &q.ChoiceB, &q.ChoiceC, &q.ChoiceD,
			&q.Subject, &q.QuizCode); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) HasAttempted(ctx context.Context, userID string, testID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM answers WHERE user_id=$1 AND test_id=$2`,
		userID, testID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SubmitAnswer holds the correct-choice lookup, the optional duplicate
// check, and the ledger insert in one transaction so concurrent
// submissions cannot interleave between the read and the write.
func (s *SQLStore) SubmitAnswer(ctx context.Context, a Answer) (SubmitResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SubmitResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var correct string
	err = tx.QueryRowContext(ctx,
		`SELECT correct_choice FROM questions WHERE question_id=$1 AND test_id=$2`,
		a.QuestionID, a.TestID).Scan(&correct)
	if errors.Is(err, sql.ErrNoRows) {
		return SubmitResult{}, ErrQuestionNotFound
	}
	if err != nil {
		return SubmitResult{}, err
	}

	if !s.allowRepeat {
		var n int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM answers WHERE user_id=$1 AND test_id=$2 AND question_id=$3`,
			a.UserID, a.TestID, a.QuestionID).Scan(&n)
		if err != nil {
			return SubmitResult{}, err
		}
		if n > 0 {
			return SubmitResult{}, ErrDuplicateSubmission
		}
	}

	a.IsCorrect = a.UserAnswer == correct
	_, err = tx.ExecContext(ctx, `
		INSERT INTO answers (test_id, user_id, question_id, user_answer, is_correct, submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		a.TestID, a.UserID, a.QuestionID, a.UserAnswer, a.IsCorrect, time.Now().Unix())
	if err != nil {
		return SubmitResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return SubmitResult{}, err
	}

	res := SubmitResult{}
	if a.IsCorrect {
		res.Score = 1
	}
	return res, nil
}

func (s *SQLStore) Summary(ctx context.Context, userID, subject string) (Summary, error) {
	var (
		attempted int
		correct   int
		err       error
	)
	if subject == "" {
		err = s.db.QueryRowContext(ctx, `
			SELECT COUNT(DISTINCT test_id),
			       COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0)
			FROM answers
			WHERE user_id=$1`, userID).Scan(&attempted, &correct)
	} else {
		err = s.db.QueryRowContext(ctx, `
			SELECT COUNT(DISTINCT a.test_id),
			       COALESCE(SUM(CASE WHEN a.is_correct THEN 1 ELSE 0 END), 0)
			FROM answers a
			JOIN course c ON a.test_id = c.course_code
			WHERE a.user_id=$1 AND c.subject=$2`, userID, subject).Scan(&attempted, &correct)
	}
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{QuizzesAttempted: attempted}
	if attempted > 0 {
		// Each quiz carries 10 questions worth 10 points apiece.
		avg := float64(correct) * 100 / float64(attempted*10)
		sum.AverageScore = math.Round(avg*100) / 100
	}
	return sum, nil
}

func (s *SQLStore) AttemptedBySubject(ctx context.Context, userID string) (map[string]SubjectAttempts, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT test_id FROM answers WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempted := map[int64]bool{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		attempted[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make(map[string]SubjectAttempts, len(s.subjects))
	for _, g := range s.subjects {
		sa := SubjectAttempts{Total: len(g.TestIDs)}
		for _, id := range g.TestIDs {
			if attempted[id] {
				sa.Attempted++
			}
		}
		out[g.Subject] = sa
	}
	return out, nil
}

// CourseWiseScores runs the per-(subject, quiz) aggregation in SQL and
// pivots in Go. The divide is done here rather than in SQL because
// Postgres errors on a zero divisor where the original store returned
// NULL.
func (s *SQLStore) CourseWiseScores(ctx context.Context, userID string) ([]CourseScore, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.subject, c.quiz_code,
		       SUM(CASE WHEN a.test_id IS NULL THEN NULL
		                WHEN a.is_correct THEN 1
		                ELSE 0 END) * 10 AS quiz_score
		FROM course c
		LEFT JOIN answers a ON c.course_code = a.test_id AND a.user_id = $1
		GROUP BY c.subject, c.quiz_code`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Pivot quiz_code rows into one row per subject, keeping the order
	// subjects first appear in the catalog.
	index := map[string]int{}
	out := []CourseScore{}
	for rows.Next() {
		var (
			subject, quizCode string
			score             sql.NullInt64
		)
		if err := rows.Scan(&subject, &quizCode, &score); err != nil {
			return nil, err
		}
		i, ok := index[subject]
		if !ok {
			i = len(out)
			index[subject] = i
			out = append(out, CourseScore{Subject: subject})
		}
		if score.Valid {
			v := int(score.Int64)
			switch quizCode {
			case "Quiz 1":
				out[i].Quiz1Score = &v
			case "Quiz 2":
				out[i].Quiz2Score = &v
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		sum, n := 0, 0
		for _, sc := range []*int{out[i].Quiz1Score, out[i].Quiz2Score} {
			if sc != nil {
				sum += *sc
				n++
			}
		}
		if n > 0 {
			avg := float64(sum) / float64(n)
			out[i].AvgScore = &avg
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return subjectRank(out[i].Subject) < subjectRank(out[j].Subject)
	})
	return out, nil
}

func subjectRank(subject string) int {
	switch subject {
	case "python":
		return 1
	case "CPP":
		return 2
	default:
		return 3
	}
}
